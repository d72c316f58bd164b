package endpoints

import (
	"tablo-backend/internal/diag"
	"tablo-backend/internal/dto"
	widgetservice "tablo-backend/internal/service/widget"
	"time"
)

func widgetSettingsResponse(widgetType string, cfg widgetservice.Config) dto.WidgetSettingsResponse {
	s := cfg.Settings
	return dto.WidgetSettingsResponse{
		WidgetType:      widgetType,
		Version:         cfg.Version,
		PreferredFormat: string(cfg.PreferredFormat),

		Theme:           s.Theme,
		PrimaryColor:    s.PrimaryColor,
		SecondaryColor:  s.SecondaryColor,
		BackgroundColor: s.BackgroundColor,
		TextColor:       s.TextColor,
		BorderRadius:    s.BorderRadius,
		ShadowIntensity: s.ShadowIntensity,
		Width:           s.Width,
		Height:          s.Height,
		WelcomeMessage:  s.WelcomeMessage,
		ButtonText:      s.ButtonText,
		ShowLogo:        s.ShowLogo,
		ShowDescription: s.ShowDescription,
		ShowFooter:      s.ShowFooter,

		EnableAnimations: s.EnableAnimations,
		AnimationType:    s.AnimationType,

		Timezone: s.Timezone,
		Currency: s.Currency,

		EnableTableOptimization: s.EnableTableOptimization,
		MaxPartySize:            s.MaxPartySize,
		RequireDeposit:          s.RequireDeposit,
		EnableSpecialRequests:   s.EnableSpecialRequests,

		AllowedOrigin:  s.AllowedOrigin,
		SandboxEnabled: s.SandboxEnabled,
		LazyLoad:       s.LazyLoad,
	}
}

func settingsInputFromRequest(req dto.UpdateWidgetSettingsRequest) widgetservice.SettingsInput {
	return widgetservice.SettingsInput{
		PreferredFormat: req.PreferredFormat,

		Theme:           req.Theme,
		PrimaryColor:    req.PrimaryColor,
		SecondaryColor:  req.SecondaryColor,
		BackgroundColor: req.BackgroundColor,
		TextColor:       req.TextColor,
		BorderRadius:    req.BorderRadius,
		ShadowIntensity: req.ShadowIntensity,
		Width:           req.Width,
		Height:          req.Height,
		WelcomeMessage:  req.WelcomeMessage,
		ButtonText:      req.ButtonText,
		ShowLogo:        req.ShowLogo,
		ShowDescription: req.ShowDescription,
		ShowFooter:      req.ShowFooter,

		EnableAnimations: req.EnableAnimations,
		AnimationType:    req.AnimationType,

		Timezone: req.Timezone,
		Currency: req.Currency,

		EnableTableOptimization: req.EnableTableOptimization,
		MaxPartySize:            req.MaxPartySize,
		RequireDeposit:          req.RequireDeposit,
		EnableSpecialRequests:   req.EnableSpecialRequests,

		AllowedOrigin:  req.AllowedOrigin,
		SandboxEnabled: req.SandboxEnabled,
		LazyLoad:       req.LazyLoad,
	}
}

func widgetBootResponse(result widgetservice.BootResult) dto.WidgetBootResponse {
	s := result.Settings
	return dto.WidgetBootResponse{
		TenantSlug: result.TenantSlug,
		TenantName: result.TenantName,
		WidgetType: string(result.WidgetType),
		Version:    result.Version,
		Settings: dto.WidgetBootSettings{
			Theme:           s.Theme,
			PrimaryColor:    s.PrimaryColor,
			SecondaryColor:  s.SecondaryColor,
			BackgroundColor: s.BackgroundColor,
			TextColor:       s.TextColor,
			BorderRadius:    s.BorderRadius,
			ShadowIntensity: s.ShadowIntensity,
			Width:           s.Width,
			Height:          s.Height,
			WelcomeMessage:  s.WelcomeMessage,
			ButtonText:      s.ButtonText,
			ShowLogo:        s.ShowLogo,
			ShowDescription: s.ShowDescription,
			ShowFooter:      s.ShowFooter,

			EnableAnimations: s.EnableAnimations,
			AnimationType:    s.AnimationType,

			Timezone: s.Timezone,
			Currency: s.Currency,

			EnableTableOptimization: s.EnableTableOptimization,
			MaxPartySize:            s.MaxPartySize,
			RequireDeposit:          s.RequireDeposit,
			EnableSpecialRequests:   s.EnableSpecialRequests,
		},
	}
}

func widgetKeyResponse(key widgetservice.WidgetKey) dto.WidgetKeyResponse {
	resp := dto.WidgetKeyResponse{
		KeyID:      key.KeyID,
		Key:        key.Key,
		WidgetType: key.WidgetType,
		CreatedAt:  key.CreatedAt.Format(time.RFC3339),
	}
	if !key.LastUsedAt.IsZero() {
		resp.LastUsedAt = key.LastUsedAt.Format(time.RFC3339)
	}
	return resp
}

func diagnosticEventResponse(event diag.Event) dto.DiagnosticEventResponse {
	return dto.DiagnosticEventResponse{
		Type:          string(event.Type),
		WidgetID:      event.WidgetID,
		CorrelationID: event.Message.CorrelationID,
		Height:        event.Height,
		Value:         event.Value,
		Error:         event.Message.Error,
		RequestID:     event.RequestID,
		Origin:        event.Origin,
		ReceivedAt:    event.ReceivedAt.UTC().Format(time.RFC3339),
	}
}
