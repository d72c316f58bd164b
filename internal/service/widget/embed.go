package widget

import (
	"context"
	"strings"
	"tablo-backend/internal/embed"
	"tablo-backend/internal/origin"
	"tablo-backend/utils"
)

// EmbedCode is one generated artifact plus the identifiers baked into
// it. Generated is false when the artifact is a failure comment; the
// dashboard shows it instead of crashing the deploy view.
type EmbedCode struct {
	Code          string
	Generated     bool
	WidgetType    embed.WidgetType
	Format        embed.Format
	EmbedID       string
	CorrelationID string
	Version       string
}

type Preview struct {
	URL           string
	Device        string
	CorrelationID string
	WidgetType    embed.WidgetType
	Version       string
}

var allowedPreviewDevices = map[string]bool{
	"desktop": true,
	"tablet":  true,
	"mobile":  true,
}

// storedOrigin re-canonicalizes the persisted allowedOrigin. Stored
// values are already canonical, so this only guards against records
// written before validation existed.
func storedOrigin(allowed string) origin.Result {
	if strings.TrimSpace(allowed) == "" {
		return origin.Result{}
	}
	return origin.Validate(allowed)
}

func (s *Service) GenerateEmbedCode(ctx context.Context, identity Identity, widgetType, format string) (EmbedCode, error) {
	wt := embed.WidgetType(strings.TrimSpace(widgetType))
	if !embed.KnownWidgetType(wt) {
		return EmbedCode{}, newError(ErrorCodeValidation, "unknown widget type", nil)
	}
	f := embed.Format(strings.TrimSpace(format))
	if f != "" && !embed.KnownFormat(f) {
		return EmbedCode{}, newError(ErrorCodeValidation, "format must be one of iframe, react, script", nil)
	}

	_, tenant, err := s.ensureMemberAccess(ctx, identity)
	if err != nil {
		return EmbedCode{}, err
	}
	if strings.TrimSpace(tenant.Slug) == "" {
		return EmbedCode{}, newError(ErrorCodeInternal, "tenant has no public slug", nil)
	}

	cfg := configFromTenant(tenant, wt)
	if f == "" {
		f = cfg.PreferredFormat
	}

	result := EmbedCode{
		WidgetType:    wt,
		Format:        f,
		EmbedID:       utils.NewEmbedID(),
		CorrelationID: utils.NewCorrelationID(),
		Version:       cfg.Version,
	}

	issued, err := s.issuer.Issue(ctx, tenant.Slug, string(wt), cfg.Version)
	if err != nil {
		// never substitute a placeholder token; hand the dashboard a
		// marked failure artifact instead
		result.Code = embed.IssuanceFailureArtifact(err.Error())
		return result, nil
	}

	result.Code = embed.Generate(embed.Request{
		WidgetType:    wt,
		Format:        f,
		TenantSlug:    tenant.Slug,
		Version:       cfg.Version,
		Token:         issued,
		Origin:        storedOrigin(cfg.Settings.AllowedOrigin),
		BaseURL:       s.baseURL,
		EmbedID:       result.EmbedID,
		CorrelationID: result.CorrelationID,
		Settings:      cfg.Settings,
	})
	result.Generated = !embed.IsFailure(result.Code)
	return result, nil
}

// PreviewWidget builds the live-preview widget URL for the dashboard's
// device frame and the correlation id the preview stream will key on.
func (s *Service) PreviewWidget(ctx context.Context, identity Identity, widgetType, device string) (Preview, error) {
	wt := embed.WidgetType(strings.TrimSpace(widgetType))
	if !embed.KnownWidgetType(wt) {
		return Preview{}, newError(ErrorCodeValidation, "unknown widget type", nil)
	}
	device = strings.TrimSpace(device)
	if device == "" {
		device = "desktop"
	}
	if !allowedPreviewDevices[device] {
		return Preview{}, newError(ErrorCodeValidation, "device must be one of desktop, tablet, mobile", nil)
	}

	_, tenant, err := s.ensureMemberAccess(ctx, identity)
	if err != nil {
		return Preview{}, err
	}
	if strings.TrimSpace(tenant.Slug) == "" {
		return Preview{}, newError(ErrorCodeInternal, "tenant has no public slug", nil)
	}

	cfg := configFromTenant(tenant, wt)

	issued, err := s.issuer.Issue(ctx, tenant.Slug, string(wt), cfg.Version)
	if err != nil {
		return Preview{}, newError(ErrorCodeUpstream, "failed to issue widget token for preview", err)
	}

	correlationID := utils.NewCorrelationID()
	previewURL := embed.PreviewURL(embed.Request{
		WidgetType:    wt,
		TenantSlug:    tenant.Slug,
		Version:       cfg.Version,
		Token:         issued,
		Origin:        storedOrigin(cfg.Settings.AllowedOrigin),
		BaseURL:       s.baseURL,
		EmbedID:       utils.NewEmbedID(),
		CorrelationID: correlationID,
		Settings:      cfg.Settings,
	}, device, correlationID)

	return Preview{
		URL:           previewURL,
		Device:        device,
		CorrelationID: correlationID,
		WidgetType:    wt,
		Version:       cfg.Version,
	}, nil
}
