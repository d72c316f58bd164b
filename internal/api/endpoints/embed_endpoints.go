package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tablo-backend/internal/diag"
	"tablo-backend/internal/dto"
	widgetservice "tablo-backend/internal/service/widget"
)

// defaultWidgetType keeps the dashboard usable before it learns to ask
// for a specific widget; booking is the widget every tenant starts with.
const defaultWidgetType = "booking"

type EmbedPaths struct {
	WidgetKeysPrefix string
}

type EmbedEndpoints interface {
	EmbedSettings(http.ResponseWriter, *http.Request) error
	EmbedCode(http.ResponseWriter, *http.Request) error
	EmbedPreview(http.ResponseWriter, *http.Request) error
	EmbedDiagnostics(http.ResponseWriter, *http.Request) error
	WidgetKeys(http.ResponseWriter, *http.Request) error
	WidgetKeyByID(http.ResponseWriter, *http.Request) error
}

type embedEndpoints struct {
	service   *widgetservice.Service
	diagStore diag.Store
	paths     EmbedPaths
}

func NewEmbedEndpoints(service *widgetservice.Service, diagStore diag.Store, paths EmbedPaths) EmbedEndpoints {
	return &embedEndpoints{
		service:   service,
		diagStore: diagStore,
		paths:     paths,
	}
}

func (h *embedEndpoints) EmbedSettings(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet:   h.handleGetEmbedSettings,
		http.MethodPatch: h.handleUpdateEmbedSettings,
	})
}

func (h *embedEndpoints) EmbedCode(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleEmbedCode,
	})
}

func (h *embedEndpoints) EmbedPreview(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleEmbedPreview,
	})
}

func (h *embedEndpoints) EmbedDiagnostics(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleEmbedDiagnostics,
	})
}

func (h *embedEndpoints) WidgetKeys(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet:  h.handleListWidgetKeys,
		http.MethodPost: h.handleCreateWidgetKey,
	})
}

func (h *embedEndpoints) WidgetKeyByID(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodDelete: h.handleDeleteWidgetKey,
	})
}

func (h *embedEndpoints) handleGetEmbedSettings(w http.ResponseWriter, r *http.Request) error {
	identity, err := h.service.IdentityFromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		return mapWidgetServiceError(err)
	}

	widgetType := r.URL.Query().Get("widgetType")
	if widgetType == "" {
		widgetType = defaultWidgetType
	}

	cfg, err := h.service.GetSettings(r.Context(), identity, widgetType)
	if err != nil {
		return mapWidgetServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, dto.WidgetSettingsResultResponse{
		Settings: widgetSettingsResponse(widgetType, cfg),
	})
}

func (h *embedEndpoints) handleUpdateEmbedSettings(w http.ResponseWriter, r *http.Request) error {
	identity, err := h.service.IdentityFromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		return mapWidgetServiceError(err)
	}

	var req dto.UpdateWidgetSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode embed settings request: %w", err),
		}
	}

	widgetType := req.WidgetType
	if widgetType == "" {
		widgetType = defaultWidgetType
	}

	result, err := h.service.UpdateSettings(r.Context(), identity, widgetType, settingsInputFromRequest(req))
	if err != nil {
		return mapWidgetServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, dto.WidgetSettingsResultResponse{
		Settings:      widgetSettingsResponse(widgetType, result.Config),
		OriginWarning: result.OriginWarning,
	})
}

func (h *embedEndpoints) handleEmbedCode(w http.ResponseWriter, r *http.Request) error {
	identity, err := h.service.IdentityFromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		return mapWidgetServiceError(err)
	}

	var req dto.GenerateEmbedCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode embed code request: %w", err),
		}
	}
	if req.WidgetType == "" {
		req.WidgetType = defaultWidgetType
	}

	code, err := h.service.GenerateEmbedCode(r.Context(), identity, req.WidgetType, req.Format)
	if err != nil {
		return mapWidgetServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, dto.EmbedCodeResponse{
		Code:          code.Code,
		Generated:     code.Generated,
		WidgetType:    string(code.WidgetType),
		Format:        string(code.Format),
		EmbedID:       code.EmbedID,
		CorrelationID: code.CorrelationID,
		Version:       code.Version,
	})
}

func (h *embedEndpoints) handleEmbedPreview(w http.ResponseWriter, r *http.Request) error {
	identity, err := h.service.IdentityFromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		return mapWidgetServiceError(err)
	}

	var req dto.PreviewWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode preview request: %w", err),
		}
	}
	if req.WidgetType == "" {
		req.WidgetType = defaultWidgetType
	}

	preview, err := h.service.PreviewWidget(r.Context(), identity, req.WidgetType, req.Device)
	if err != nil {
		return mapWidgetServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, dto.PreviewWidgetResponse{
		URL:           preview.URL,
		Device:        preview.Device,
		CorrelationID: preview.CorrelationID,
		WidgetType:    string(preview.WidgetType),
		Version:       preview.Version,
	})
}

func (h *embedEndpoints) handleEmbedDiagnostics(w http.ResponseWriter, r *http.Request) error {
	identity, err := h.service.IdentityFromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		return mapWidgetServiceError(err)
	}
	if err := h.service.EnsureMember(r.Context(), identity); err != nil {
		return mapWidgetServiceError(err)
	}

	correlationID := strings.TrimSpace(r.URL.Query().Get("correlationId"))
	if correlationID == "" {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "correlationId is required",
			ErrorLog:   fmt.Errorf("diagnostics lookup without correlationId"),
		}
	}

	if h.diagStore == nil {
		return &HTTPError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "Diagnostics are not available",
			ErrorLog:   fmt.Errorf("diagnostics store not configured"),
		}
	}

	events, err := h.diagStore.Recent(r.Context(), correlationID)
	if err != nil {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("diagnostics lookup: %w", err),
		}
	}

	resp := dto.DiagnosticsResponse{
		CorrelationID: correlationID,
		Events:        make([]dto.DiagnosticEventResponse, 0, len(events)),
	}
	for _, event := range events {
		resp.Events = append(resp.Events, diagnosticEventResponse(event))
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *embedEndpoints) handleListWidgetKeys(w http.ResponseWriter, r *http.Request) error {
	identity, err := h.service.IdentityFromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		return mapWidgetServiceError(err)
	}

	keys, err := h.service.ListWidgetKeys(r.Context(), identity)
	if err != nil {
		return mapWidgetServiceError(err)
	}

	resp := dto.ListWidgetKeysResponse{Keys: make([]dto.WidgetKeyResponse, 0, len(keys))}
	for _, key := range keys {
		resp.Keys = append(resp.Keys, widgetKeyResponse(key))
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *embedEndpoints) handleCreateWidgetKey(w http.ResponseWriter, r *http.Request) error {
	identity, err := h.service.IdentityFromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		return mapWidgetServiceError(err)
	}

	var req dto.CreateWidgetKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode widget key request: %w", err),
		}
	}
	if req.WidgetType == "" {
		req.WidgetType = defaultWidgetType
	}

	key, err := h.service.CreateWidgetKey(r.Context(), identity, req.WidgetType)
	if err != nil {
		return mapWidgetServiceError(err)
	}

	return WriteJSON(w, http.StatusCreated, widgetKeyResponse(key))
}

func (h *embedEndpoints) handleDeleteWidgetKey(w http.ResponseWriter, r *http.Request) error {
	identity, err := h.service.IdentityFromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		return mapWidgetServiceError(err)
	}

	keyID, err := h.extractFromPath(r.URL.Path, h.paths.WidgetKeysPrefix)
	if err != nil {
		return err
	}
	keyID = strings.Trim(keyID, "/")
	if keyID == "" {
		return &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    "Widget key not found",
			ErrorLog:   fmt.Errorf("widget key id missing from path"),
		}
	}

	if err := h.service.DeleteWidgetKey(r.Context(), identity, keyID); err != nil {
		return mapWidgetServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, ApiMessageResponse{Message: "Widget key deleted"})
}

func (h *embedEndpoints) extractFromPath(path, prefix string) (string, error) {
	if prefix == "" {
		return "", &HTTPError{StatusCode: http.StatusNotFound, Message: "Not found", ErrorLog: fmt.Errorf("widget key path not configured")}
	}
	trimmed := strings.TrimPrefix(path, prefix)
	if trimmed == path {
		return "", &HTTPError{StatusCode: http.StatusNotFound, Message: "Not found", ErrorLog: fmt.Errorf("path mismatch: %s", path)}
	}
	return trimmed, nil
}

func mapWidgetServiceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*widgetservice.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("widget service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case widgetservice.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case widgetservice.ErrorCodeUnauthorized:
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case widgetservice.ErrorCodeForbidden:
		return &HTTPError{
			StatusCode: http.StatusForbidden,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case widgetservice.ErrorCodeNotFound:
		return &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case widgetservice.ErrorCodeUpstream:
		return &HTTPError{
			StatusCode: http.StatusBadGateway,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	default:
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   errorLog,
		}
	}
}
