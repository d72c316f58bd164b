package dto

// WidgetBootResponse is everything the iframe runtime needs to render:
// public settings keyed by tenant slug, never internal tenant IDs.
type WidgetBootResponse struct {
	TenantSlug string             `json:"tenantSlug"`
	TenantName string             `json:"tenantName"`
	WidgetType string             `json:"widgetType"`
	Version    string             `json:"version"`
	Settings   WidgetBootSettings `json:"settings"`
}

type WidgetBootSettings struct {
	Theme           string `json:"theme"`
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	BorderRadius    int    `json:"borderRadius"`
	ShadowIntensity int    `json:"shadowIntensity"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	WelcomeMessage  string `json:"welcomeMessage"`
	ButtonText      string `json:"buttonText"`
	ShowLogo        bool   `json:"showLogo"`
	ShowDescription bool   `json:"showDescription"`
	ShowFooter      bool   `json:"showFooter"`

	EnableAnimations bool   `json:"enableAnimations"`
	AnimationType    string `json:"animationType"`

	Timezone string `json:"timezone,omitempty"`
	Currency string `json:"currency"`

	EnableTableOptimization bool `json:"enableTableOptimization"`
	MaxPartySize            int  `json:"maxPartySize"`
	RequireDeposit          bool `json:"requireDeposit"`
	EnableSpecialRequests   bool `json:"enableSpecialRequests"`
}

type WidgetEventAccepted struct {
	Accepted bool `json:"accepted"`
}
