package endpoints

import (
	"fmt"
	"net/http"
	"strings"

	"tablo-backend/internal/preview"
	widgetservice "tablo-backend/internal/service/widget"
)

type PreviewEndpoints interface {
	PreviewStream(http.ResponseWriter, *http.Request) error
}

type previewEndpoints struct {
	service *widgetservice.Service
	handler *preview.Handler
}

func NewPreviewEndpoints(service *widgetservice.Service, handler *preview.Handler) PreviewEndpoints {
	return &previewEndpoints{
		service: service,
		handler: handler,
	}
}

// PreviewStream upgrades the dashboard connection and attaches it to the
// preview session named by cid. Browsers cannot set headers on websocket
// dials, so the JWT may arrive as a token query parameter instead.
func (h *previewEndpoints) PreviewStream(w http.ResponseWriter, r *http.Request) error {
	if h.handler == nil {
		return &HTTPError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "Preview streaming is not available",
			ErrorLog:   fmt.Errorf("preview handler not configured"),
		}
	}

	correlationID := strings.TrimSpace(r.URL.Query().Get("cid"))
	if correlationID == "" {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "cid is required",
			ErrorLog:   fmt.Errorf("preview stream without cid"),
		}
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("token"); token != "" {
			authHeader = "Bearer " + token
		}
	}

	identity, err := h.service.IdentityFromAuthorizationHeader(authHeader)
	if err != nil {
		return mapWidgetServiceError(err)
	}
	if err := h.service.EnsureMember(r.Context(), identity); err != nil {
		return mapWidgetServiceError(err)
	}

	h.handler.StreamPreview(w, r, correlationID)
	return nil
}
