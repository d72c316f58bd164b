package widget

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"tablo-backend/internal/embed"
	"tablo-backend/internal/model"
	"tablo-backend/internal/origin"
	"time"
)

const (
	DefaultTheme           = "light"
	DefaultPrimaryColor    = "#D64545"
	DefaultSecondaryColor  = "#1F2A44"
	DefaultBackgroundColor = "#FFFFFF"
	DefaultTextColor       = "#1F2933"
	DefaultAnimationType   = "fade"

	DefaultBorderRadius    = 8
	DefaultShadowIntensity = 1
	DefaultWidth           = 400
	DefaultHeight          = 600
	DefaultMaxPartySize    = 12

	// initialConfigVersion is what tokens bind to before the first
	// settings update; every update bumps the minor part.
	initialConfigVersion = "2.0"
)

const (
	minWidth        = 280
	maxWidth        = 1200
	minHeight       = 320
	maxHeight       = 1600
	maxBorderRadius = 32
	maxShadow       = 3
	maxPartySizeCap = 50
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

var allowedThemes = map[string]bool{
	"light": true,
	"dark":  true,
	"auto":  true,
}

var allowedAnimationTypes = map[string]bool{
	"fade":  true,
	"slide": true,
	"none":  true,
}

// Config is one widget type's stored configuration for a tenant:
// the render settings plus the dashboard's preferred artifact format
// and the config version signed tokens are bound to.
type Config struct {
	Settings        embed.Settings
	PreferredFormat embed.Format
	Version         string
}

// SettingsInput is a partial update; nil fields stay untouched and an
// explicit empty string resets the field to its default (or clears it,
// for the optional fields).
type SettingsInput struct {
	PreferredFormat *string
	Theme           *string
	PrimaryColor    *string
	SecondaryColor  *string
	BackgroundColor *string
	TextColor       *string
	BorderRadius    *int
	ShadowIntensity *int
	Width           *int
	Height          *int
	WelcomeMessage  *string
	ButtonText      *string
	ShowLogo        *bool
	ShowDescription *bool
	ShowFooter      *bool

	EnableAnimations *bool
	AnimationType    *string

	Timezone *string
	Currency *string

	EnableTableOptimization *bool
	MaxPartySize            *int
	RequireDeposit          *bool
	EnableSpecialRequests   *bool

	AllowedOrigin  *string
	SandboxEnabled *bool
	LazyLoad       *bool
}

type UpdateResult struct {
	Config Config
	// OriginWarning is set when allowedOrigin input was rejected; the
	// update itself still succeeds with the origin stored empty.
	OriginWarning string
}

func defaultWelcomeMessage(widgetType embed.WidgetType) string {
	if widgetType == embed.WidgetCatering {
		return "Plan your event with us"
	}
	return "Book your table"
}

func defaultButtonText(widgetType embed.WidgetType) string {
	if widgetType == embed.WidgetCatering {
		return "Request a quote"
	}
	return "Reserve now"
}

func defaultConfig(widgetType embed.WidgetType) Config {
	return Config{
		Settings: embed.Settings{
			Theme:           DefaultTheme,
			PrimaryColor:    DefaultPrimaryColor,
			SecondaryColor:  DefaultSecondaryColor,
			BackgroundColor: DefaultBackgroundColor,
			TextColor:       DefaultTextColor,
			BorderRadius:    DefaultBorderRadius,
			ShadowIntensity: DefaultShadowIntensity,
			Width:           DefaultWidth,
			Height:          DefaultHeight,
			WelcomeMessage:  defaultWelcomeMessage(widgetType),
			ButtonText:      defaultButtonText(widgetType),
			ShowLogo:        true,
			ShowDescription: true,
			ShowFooter:      true,

			EnableAnimations: true,
			AnimationType:    DefaultAnimationType,

			MaxPartySize:          DefaultMaxPartySize,
			EnableSpecialRequests: true,

			SandboxEnabled: true,
			LazyLoad:       true,
		},
		PreferredFormat: embed.FormatScript,
		Version:         initialConfigVersion,
	}
}

func configFromTenant(tenant model.TenantItem, widgetType embed.WidgetType) Config {
	cfg := defaultConfig(widgetType)

	widgets, ok := tenant.Settings["widgets"].(map[string]interface{})
	if !ok {
		return cfg
	}
	raw, ok := widgets[string(widgetType)].(map[string]interface{})
	if !ok {
		return cfg
	}

	if val, ok := stringValue(raw, "preferredFormat"); ok {
		cfg.PreferredFormat = embed.Format(val)
	}
	if val, ok := stringValue(raw, "theme"); ok {
		cfg.Settings.Theme = val
	}
	if val, ok := stringValue(raw, "primaryColor"); ok {
		cfg.Settings.PrimaryColor = val
	}
	if val, ok := stringValue(raw, "secondaryColor"); ok {
		cfg.Settings.SecondaryColor = val
	}
	if val, ok := stringValue(raw, "backgroundColor"); ok {
		cfg.Settings.BackgroundColor = val
	}
	if val, ok := stringValue(raw, "textColor"); ok {
		cfg.Settings.TextColor = val
	}
	if val, ok := intValue(raw, "borderRadius"); ok {
		cfg.Settings.BorderRadius = val
	}
	if val, ok := intValue(raw, "shadowIntensity"); ok {
		cfg.Settings.ShadowIntensity = val
	}
	if val, ok := intValue(raw, "width"); ok {
		cfg.Settings.Width = val
	}
	if val, ok := intValue(raw, "height"); ok {
		cfg.Settings.Height = val
	}
	if val, ok := stringValue(raw, "welcomeMessage"); ok {
		cfg.Settings.WelcomeMessage = val
	}
	if val, ok := stringValue(raw, "buttonText"); ok {
		cfg.Settings.ButtonText = val
	}
	if val, ok := boolValue(raw, "showLogo"); ok {
		cfg.Settings.ShowLogo = val
	}
	if val, ok := boolValue(raw, "showDescription"); ok {
		cfg.Settings.ShowDescription = val
	}
	if val, ok := boolValue(raw, "showFooter"); ok {
		cfg.Settings.ShowFooter = val
	}
	if val, ok := boolValue(raw, "enableAnimations"); ok {
		cfg.Settings.EnableAnimations = val
	}
	if val, ok := stringValue(raw, "animationType"); ok {
		cfg.Settings.AnimationType = val
	}
	if val, ok := stringValue(raw, "timezone"); ok {
		cfg.Settings.Timezone = val
	}
	if val, ok := stringValue(raw, "currency"); ok {
		cfg.Settings.Currency = val
	}
	if val, ok := boolValue(raw, "enableTableOptimization"); ok {
		cfg.Settings.EnableTableOptimization = val
	}
	if val, ok := intValue(raw, "maxPartySize"); ok {
		cfg.Settings.MaxPartySize = val
	}
	if val, ok := boolValue(raw, "requireDeposit"); ok {
		cfg.Settings.RequireDeposit = val
	}
	if val, ok := boolValue(raw, "enableSpecialRequests"); ok {
		cfg.Settings.EnableSpecialRequests = val
	}
	if val, ok := stringValue(raw, "allowedOrigin"); ok {
		cfg.Settings.AllowedOrigin = val
	}
	if val, ok := boolValue(raw, "sandboxEnabled"); ok {
		cfg.Settings.SandboxEnabled = val
	}
	if val, ok := boolValue(raw, "lazyLoad"); ok {
		cfg.Settings.LazyLoad = val
	}
	if val, ok := stringValue(raw, "configVersion"); ok {
		cfg.Version = val
	}

	return cfg
}

func (c Config) toMap() map[string]interface{} {
	return map[string]interface{}{
		"preferredFormat": string(c.PreferredFormat),
		"theme":           c.Settings.Theme,
		"primaryColor":    c.Settings.PrimaryColor,
		"secondaryColor":  c.Settings.SecondaryColor,
		"backgroundColor": c.Settings.BackgroundColor,
		"textColor":       c.Settings.TextColor,
		"borderRadius":    c.Settings.BorderRadius,
		"shadowIntensity": c.Settings.ShadowIntensity,
		"width":           c.Settings.Width,
		"height":          c.Settings.Height,
		"welcomeMessage":  c.Settings.WelcomeMessage,
		"buttonText":      c.Settings.ButtonText,
		"showLogo":        c.Settings.ShowLogo,
		"showDescription": c.Settings.ShowDescription,
		"showFooter":      c.Settings.ShowFooter,

		"enableAnimations": c.Settings.EnableAnimations,
		"animationType":    c.Settings.AnimationType,

		"timezone": c.Settings.Timezone,
		"currency": c.Settings.Currency,

		"enableTableOptimization": c.Settings.EnableTableOptimization,
		"maxPartySize":            c.Settings.MaxPartySize,
		"requireDeposit":          c.Settings.RequireDeposit,
		"enableSpecialRequests":   c.Settings.EnableSpecialRequests,

		"allowedOrigin":  c.Settings.AllowedOrigin,
		"sandboxEnabled": c.Settings.SandboxEnabled,
		"lazyLoad":       c.Settings.LazyLoad,

		"configVersion": c.Version,
	}
}

func stringValue(m map[string]interface{}, key string) (string, bool) {
	val, ok := m[key].(string)
	return val, ok
}

func intValue(m map[string]interface{}, key string) (int, bool) {
	switch val := m[key].(type) {
	case int:
		return val, true
	case float64:
		return int(val), true
	}
	return 0, false
}

func boolValue(m map[string]interface{}, key string) (bool, bool) {
	val, ok := m[key].(bool)
	return val, ok
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func normalizeHexColor(field, value string) (string, error) {
	if !hexColorPattern.MatchString(value) {
		return "", newError(ErrorCodeValidation, fmt.Sprintf("%s must be a valid hex color (e.g. %s)", field, DefaultPrimaryColor), nil)
	}
	return strings.ToUpper(value), nil
}

// applySettingsInput lays a partial update over the current config.
// Rejected allowedOrigin input is reported as a warning, not an error;
// everything else that fails validation aborts the update.
func applySettingsInput(current Config, widgetType embed.WidgetType, input SettingsInput) (Config, string, error) {
	cfg := current
	warning := ""

	if input.PreferredFormat != nil {
		trimmed := strings.TrimSpace(*input.PreferredFormat)
		if trimmed == "" {
			cfg.PreferredFormat = embed.FormatScript
		} else if !embed.KnownFormat(embed.Format(trimmed)) {
			return Config{}, "", newError(ErrorCodeValidation, "preferredFormat must be one of iframe, react, script", nil)
		} else {
			cfg.PreferredFormat = embed.Format(trimmed)
		}
	}

	if input.Theme != nil {
		trimmed := strings.TrimSpace(*input.Theme)
		if trimmed == "" {
			cfg.Settings.Theme = DefaultTheme
		} else if !allowedThemes[trimmed] {
			return Config{}, "", newError(ErrorCodeValidation, "theme must be one of light, dark, auto", nil)
		} else {
			cfg.Settings.Theme = trimmed
		}
	}

	colorInputs := []struct {
		field string
		input *string
		dst   *string
		reset string
	}{
		{"primaryColor", input.PrimaryColor, &cfg.Settings.PrimaryColor, DefaultPrimaryColor},
		{"secondaryColor", input.SecondaryColor, &cfg.Settings.SecondaryColor, DefaultSecondaryColor},
		{"backgroundColor", input.BackgroundColor, &cfg.Settings.BackgroundColor, DefaultBackgroundColor},
		{"textColor", input.TextColor, &cfg.Settings.TextColor, DefaultTextColor},
	}
	for _, color := range colorInputs {
		if color.input == nil {
			continue
		}
		trimmed := strings.TrimSpace(*color.input)
		if trimmed == "" {
			*color.dst = color.reset
			continue
		}
		normalized, err := normalizeHexColor(color.field, trimmed)
		if err != nil {
			return Config{}, "", err
		}
		*color.dst = normalized
	}

	if input.BorderRadius != nil {
		cfg.Settings.BorderRadius = clampInt(*input.BorderRadius, 0, maxBorderRadius)
	}
	if input.ShadowIntensity != nil {
		cfg.Settings.ShadowIntensity = clampInt(*input.ShadowIntensity, 0, maxShadow)
	}
	if input.Width != nil {
		cfg.Settings.Width = clampInt(*input.Width, minWidth, maxWidth)
	}
	if input.Height != nil {
		cfg.Settings.Height = clampInt(*input.Height, minHeight, maxHeight)
	}

	if input.WelcomeMessage != nil {
		trimmed := strings.TrimSpace(*input.WelcomeMessage)
		if trimmed == "" {
			trimmed = defaultWelcomeMessage(widgetType)
		}
		cfg.Settings.WelcomeMessage = trimmed
	}
	if input.ButtonText != nil {
		trimmed := strings.TrimSpace(*input.ButtonText)
		if trimmed == "" {
			trimmed = defaultButtonText(widgetType)
		}
		cfg.Settings.ButtonText = trimmed
	}

	if input.ShowLogo != nil {
		cfg.Settings.ShowLogo = *input.ShowLogo
	}
	if input.ShowDescription != nil {
		cfg.Settings.ShowDescription = *input.ShowDescription
	}
	if input.ShowFooter != nil {
		cfg.Settings.ShowFooter = *input.ShowFooter
	}

	if input.EnableAnimations != nil {
		cfg.Settings.EnableAnimations = *input.EnableAnimations
	}
	if input.AnimationType != nil {
		trimmed := strings.TrimSpace(*input.AnimationType)
		if trimmed == "" {
			cfg.Settings.AnimationType = DefaultAnimationType
		} else if !allowedAnimationTypes[trimmed] {
			return Config{}, "", newError(ErrorCodeValidation, "animationType must be one of fade, slide, none", nil)
		} else {
			cfg.Settings.AnimationType = trimmed
		}
	}

	if input.Timezone != nil {
		cfg.Settings.Timezone = strings.TrimSpace(*input.Timezone)
	}
	if input.Currency != nil {
		trimmed := strings.TrimSpace(*input.Currency)
		if trimmed != "" && !currencyPattern.MatchString(trimmed) {
			return Config{}, "", newError(ErrorCodeValidation, "currency must be a 3-letter ISO code", nil)
		}
		cfg.Settings.Currency = strings.ToUpper(trimmed)
	}

	if input.EnableTableOptimization != nil {
		cfg.Settings.EnableTableOptimization = *input.EnableTableOptimization
	}
	if input.MaxPartySize != nil {
		cfg.Settings.MaxPartySize = clampInt(*input.MaxPartySize, 1, maxPartySizeCap)
	}
	if input.RequireDeposit != nil {
		cfg.Settings.RequireDeposit = *input.RequireDeposit
	}
	if input.EnableSpecialRequests != nil {
		cfg.Settings.EnableSpecialRequests = *input.EnableSpecialRequests
	}

	if input.AllowedOrigin != nil {
		trimmed := strings.TrimSpace(*input.AllowedOrigin)
		if trimmed == "" {
			cfg.Settings.AllowedOrigin = ""
		} else {
			result := origin.Validate(trimmed)
			if result.Valid {
				cfg.Settings.AllowedOrigin = result.Origin
			} else {
				cfg.Settings.AllowedOrigin = ""
				warning = fmt.Sprintf("allowedOrigin %q rejected (%s); embeds fall back to the widget origin", trimmed, result.Reason)
			}
		}
	}

	if input.SandboxEnabled != nil {
		cfg.Settings.SandboxEnabled = *input.SandboxEnabled
	}
	if input.LazyLoad != nil {
		cfg.Settings.LazyLoad = *input.LazyLoad
	}

	return cfg, warning, nil
}

// bumpVersion advances "2.N" to "2.N+1"; anything unparseable restarts
// the minor counter so tokens still bind to a fresh version.
func bumpVersion(version string) string {
	parts := strings.SplitN(strings.TrimSpace(version), ".", 2)
	if len(parts) == 2 && parts[0] == "2" {
		if n, err := strconv.Atoi(parts[1]); err == nil && n >= 0 {
			return fmt.Sprintf("2.%d", n+1)
		}
	}
	return "2.1"
}

func cloneSettings(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return make(map[string]interface{})
	}
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *Service) GetSettings(ctx context.Context, identity Identity, widgetType string) (Config, error) {
	wt := embed.WidgetType(strings.TrimSpace(widgetType))
	if !embed.KnownWidgetType(wt) {
		return Config{}, newError(ErrorCodeValidation, "unknown widget type", nil)
	}

	_, tenant, err := s.ensureMemberAccess(ctx, identity)
	if err != nil {
		return Config{}, err
	}

	return configFromTenant(tenant, wt), nil
}

func (s *Service) UpdateSettings(ctx context.Context, identity Identity, widgetType string, input SettingsInput) (UpdateResult, error) {
	wt := embed.WidgetType(strings.TrimSpace(widgetType))
	if !embed.KnownWidgetType(wt) {
		return UpdateResult{}, newError(ErrorCodeValidation, "unknown widget type", nil)
	}

	_, tenant, err := s.ensureOwnerAccess(ctx, identity)
	if err != nil {
		return UpdateResult{}, err
	}

	current := configFromTenant(tenant, wt)
	next, warning, err := applySettingsInput(current, wt, input)
	if err != nil {
		return UpdateResult{}, err
	}
	next.Version = bumpVersion(current.Version)

	nextSettings := cloneSettings(tenant.Settings)
	widgets, _ := nextSettings["widgets"].(map[string]interface{})
	widgets = cloneSettings(widgets)
	widgets[string(wt)] = next.toMap()
	nextSettings["widgets"] = widgets

	if _, err := s.repo.UpdateTenantSettings(ctx, tenant.TenantID, nextSettings); err != nil {
		if errors.Is(err, ErrNotFound) {
			return UpdateResult{}, newError(ErrorCodeNotFound, "tenant not found", err)
		}
		return UpdateResult{}, newError(ErrorCodeInternal, "failed to update widget settings", err)
	}

	return UpdateResult{Config: next, OriginWarning: warning}, nil
}

// BootResult is what the public widget runtime gets: slug-keyed, no
// internal tenant identifiers.
type BootResult struct {
	TenantSlug string
	TenantName string
	WidgetType embed.WidgetType
	Settings   embed.Settings
	Version    string
}

// Boot resolves public widget settings for the iframe runtime, by slug
// or by an opaque widget key.
func (s *Service) Boot(ctx context.Context, slug, widgetKey, widgetType string) (BootResult, error) {
	slug = strings.TrimSpace(slug)
	widgetKey = strings.TrimSpace(widgetKey)
	wt := embed.WidgetType(strings.TrimSpace(widgetType))

	var tenant model.TenantItem

	switch {
	case widgetKey != "":
		item, err := s.repo.GetWidgetKey(ctx, widgetKey)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return BootResult{}, newError(ErrorCodeNotFound, "unknown widget key", err)
			}
			return BootResult{}, newError(ErrorCodeInternal, "failed to resolve widget key", err)
		}
		if wt == "" {
			wt = embed.WidgetType(item.WidgetType)
		}

		tenant, err = s.repo.GetTenant(ctx, item.TenantID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return BootResult{}, newError(ErrorCodeNotFound, "tenant not found", err)
			}
			return BootResult{}, newError(ErrorCodeInternal, "failed to load tenant", err)
		}

		// best effort; boot must not fail on bookkeeping
		_ = s.repo.TouchWidgetKey(ctx, item.WidgetKey, s.now().UTC().Format(time.RFC3339))

	case slug != "":
		var err error
		tenant, err = s.repo.GetTenantBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return BootResult{}, newError(ErrorCodeNotFound, "tenant not found", err)
			}
			return BootResult{}, newError(ErrorCodeInternal, "failed to load tenant", err)
		}

	default:
		return BootResult{}, newError(ErrorCodeValidation, "slug or widgetKey is required", nil)
	}

	if wt == "" {
		wt = embed.WidgetBooking
	}
	if !embed.KnownWidgetType(wt) {
		return BootResult{}, newError(ErrorCodeValidation, "unknown widget type", nil)
	}

	cfg := configFromTenant(tenant, wt)
	return BootResult{
		TenantSlug: tenant.Slug,
		TenantName: tenant.Name,
		WidgetType: wt,
		Settings:   cfg.Settings,
		Version:    cfg.Version,
	}, nil
}
