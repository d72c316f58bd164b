// Package protocol implements the parent side of the widget handshake:
// the lifecycle state machine driven by postMessage traffic between a
// host page and an embedded widget iframe. State transitions are a pure
// reducer over (instance, message) so the machine is testable without a
// DOM; a thin adapter applies the resulting effects to real elements.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type enumerates the handshake message types. parent_ready travels
// parent -> child; everything else travels child -> parent.
type Type string

const (
	TypeParentReady      Type = "parent_ready"
	TypeWidgetLoaded     Type = "widget_loaded"
	TypeWidgetResize     Type = "widget_resize"
	TypeWidgetConversion Type = "widget_conversion"
	TypeWidgetError      Type = "widget_error"
	TypeWidgetClose      Type = "widget_close"
)

// KnownType reports whether t is part of the handshake vocabulary.
func KnownType(t Type) bool {
	switch t {
	case TypeParentReady, TypeWidgetLoaded, TypeWidgetResize,
		TypeWidgetConversion, TypeWidgetError, TypeWidgetClose:
		return true
	}
	return false
}

// Message is one postMessage payload. Optional fields are only set for
// the types that use them (height for resize, value for conversion,
// error/requestId for error reports).
type Message struct {
	Type          Type    `json:"type"`
	WidgetID      string  `json:"widgetId"`
	CorrelationID string  `json:"correlationId,omitempty"`
	Height        int     `json:"height,omitempty"`
	Value         float64 `json:"value,omitempty"`
	Error         string  `json:"error,omitempty"`
	RequestID     string  `json:"requestId,omitempty"`
}

// Envelope pairs a message with the origin the browser reported for it.
// The origin comes from the transport, never from the payload, so a
// forged payload cannot vouch for itself.
type Envelope struct {
	Origin  string
	Message Message
}

// ParseMessage decodes raw JSON into a Message and rejects payloads
// missing the fields every handshake message must carry.
func ParseMessage(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("malformed handshake message: %w", err)
	}
	if msg.WidgetID == "" {
		return Message{}, errors.New("handshake message missing widgetId")
	}
	if !KnownType(msg.Type) {
		return Message{}, fmt.Errorf("unknown handshake message type %q", msg.Type)
	}
	return msg, nil
}
