package utils

import "github.com/google/uuid"

// NewWidgetID returns a fresh identifier for a widget configuration.
func NewWidgetID() string {
	return "wgt-" + uuid.NewString()
}

// NewEmbedID identifies one generated embed artifact.
func NewEmbedID() string {
	return "emb-" + uuid.NewString()
}

// NewCorrelationID tags one browser mount of a widget so diagnostics and
// preview traffic can be tied back to a single iframe instance.
func NewCorrelationID() string {
	return "cid-" + uuid.NewString()
}
