package endpoints

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"tablo-backend/internal/diag"
	"tablo-backend/internal/dto"
	"tablo-backend/internal/protocol"
	widgetservice "tablo-backend/internal/service/widget"
)

// maxEventBody caps runtime event payloads; handshake messages are tiny
// and anything larger is junk.
const maxEventBody = 64 << 10

type WidgetEndpoints interface {
	WidgetBoot(http.ResponseWriter, *http.Request) error
	WidgetEvents(http.ResponseWriter, *http.Request) error
}

type widgetEndpoints struct {
	service   *widgetservice.Service
	diagStore diag.Store
	publish   func(correlationID string, payload interface{}) error
}

func NewWidgetEndpoints(service *widgetservice.Service, diagStore diag.Store, publish func(string, interface{}) error) WidgetEndpoints {
	return &widgetEndpoints{
		service:   service,
		diagStore: diagStore,
		publish:   publish,
	}
}

func (h *widgetEndpoints) WidgetBoot(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleWidgetBoot,
	})
}

func (h *widgetEndpoints) WidgetEvents(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleWidgetEvents,
	})
}

func (h *widgetEndpoints) handleWidgetBoot(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()

	result, err := h.service.Boot(r.Context(), query.Get("slug"), query.Get("widgetKey"), query.Get("widgetType"))
	if err != nil {
		return mapWidgetServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, widgetBootResponse(result))
}

func (h *widgetEndpoints) handleWidgetEvents(w http.ResponseWriter, r *http.Request) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid event payload",
			ErrorLog:   fmt.Errorf("read event body: %w", err),
		}
	}

	msg, err := protocol.ParseMessage(raw)
	if err != nil {
		// Reject without describing what the validator disliked; the
		// response body never teaches a probing client the schema.
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid event payload",
			ErrorLog:   fmt.Errorf("parse runtime event: %w", err),
		}
	}

	event := diag.Event{
		Message:    msg,
		Origin:     r.Header.Get("Origin"),
		ReceivedAt: time.Now().UTC(),
	}

	if msg.Type == protocol.TypeWidgetError {
		log.Printf("widget error reported: widget=%s request=%s correlation=%s origin=%s",
			msg.WidgetID, msg.RequestID, msg.CorrelationID, event.Origin)
	}

	// Storage and fan-out are best effort; a telemetry sink outage must
	// not surface as widget failures on customer pages.
	if h.diagStore != nil && msg.CorrelationID != "" {
		if err := h.diagStore.Append(r.Context(), event); err != nil {
			log.Printf("diag append failed for %s: %v", msg.CorrelationID, err)
		}
	}
	if h.publish != nil && msg.CorrelationID != "" {
		if err := h.publish(msg.CorrelationID, event); err != nil {
			log.Printf("preview publish failed for %s: %v", msg.CorrelationID, err)
		}
	}

	return WriteJSON(w, http.StatusOK, dto.WidgetEventAccepted{Accepted: true})
}
