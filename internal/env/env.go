package env

import (
	"os"
)

const (
	AWSRegion        = "AWS_REGION"
	AWSID            = "AWS_ID"
	AWSSecret        = "AWS_SECRET"
	AWSToken         = "AWS_TOKEN"
	DynamoDBEndpoint = "DYNAMODB_ENDPOINT"
	UserSecretKey    = "USER_SECRET"
	WidgetBaseURL    = "WIDGET_BASE_URL"
	SignerURL        = "SIGNER_URL"
	SignerAPIKey     = "SIGNER_API_KEY"
	SignerTimeoutMS  = "SIGNER_TIMEOUT_MS"
	EventsRedisURL   = "EVENTS_REDIS_URL"
	EventsRedisPass  = "EVENTS_REDIS_PASS"
	WebUrl           = "WEB_URL"
)

// MustValidate panics when a variable every server needs is missing.
// Called from main so packages stay importable in tests without a
// populated environment.
func MustValidate() {
	required := []string{
		AWSRegion,
		AWSID,
		AWSSecret,
		// AWSToken,
		UserSecretKey,
		WidgetBaseURL,
		SignerURL,
		WebUrl,
	}
	for _, key := range required {
		if os.Getenv(key) == "" {
			panic("env: required environment variable not set: " + key)
		}
	}
}

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("env: required environment variable not set: " + key)
	}
	return val
}
