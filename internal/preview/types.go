package preview

// Session fans runtime events for one correlation id out to every
// dashboard client watching that live preview.
type Session struct {
	CorrelationID string
	Clients       map[string]*WSClient

	// done stops the Redis subscription feeding this session; closed by
	// the hub when the last client leaves.
	done chan struct{}
}

type WSMessage struct {
	Content       string `json:"content"`
	CorrelationID string `json:"correlationId"`
	Timestamp     int64  `json:"timestamp"`
}
