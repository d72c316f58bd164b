package preview

import (
	"context"
	"encoding/json"
	"fmt"
)

func eventsChannel(correlationID string) string {
	return "preview:events:" + correlationID
}

// Publish pushes one runtime event onto the preview channel for its
// correlation id. The widget event ingest calls this; live sessions on
// any preview server pick it up through Redis.
func Publish(correlationID string, payload interface{}) error {
	if correlationID == "" {
		return fmt.Errorf("preview publish: correlationId required")
	}
	if redisClient == nil {
		return fmt.Errorf("preview publish: redis client not initialised")
	}

	eventJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("preview publish: marshal event: %w", err)
	}

	if err := redisClient.Publish(context.Background(), eventsChannel(correlationID), string(eventJSON)).Err(); err != nil {
		return fmt.Errorf("preview publish: redis publish: %w", err)
	}
	return nil
}
