package dto

// WidgetSettingsResponse is the dashboard view of one widget type's
// embed configuration: stored values merged over defaults, plus the
// config version the next embed code will carry.
type WidgetSettingsResponse struct {
	WidgetType      string `json:"widgetType"`
	Version         string `json:"version"`
	PreferredFormat string `json:"preferredFormat"`

	Theme           string `json:"theme"`
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	BorderRadius    int    `json:"borderRadius"`
	ShadowIntensity int    `json:"shadowIntensity"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	WelcomeMessage  string `json:"welcomeMessage"`
	ButtonText      string `json:"buttonText"`
	ShowLogo        bool   `json:"showLogo"`
	ShowDescription bool   `json:"showDescription"`
	ShowFooter      bool   `json:"showFooter"`

	EnableAnimations bool   `json:"enableAnimations"`
	AnimationType    string `json:"animationType"`

	Timezone string `json:"timezone,omitempty"`
	Currency string `json:"currency"`

	EnableTableOptimization bool `json:"enableTableOptimization"`
	MaxPartySize            int  `json:"maxPartySize"`
	RequireDeposit          bool `json:"requireDeposit"`
	EnableSpecialRequests   bool `json:"enableSpecialRequests"`

	AllowedOrigin  string `json:"allowedOrigin"`
	SandboxEnabled bool   `json:"sandboxEnabled"`
	LazyLoad       bool   `json:"lazyLoad"`
}

type WidgetSettingsResultResponse struct {
	Settings WidgetSettingsResponse `json:"settings"`
	// OriginWarning explains a rejected allowedOrigin; the rest of the
	// update was applied regardless.
	OriginWarning string `json:"originWarning,omitempty"`
}

// UpdateWidgetSettingsRequest carries a partial update. Absent fields
// stay untouched; empty strings reset text fields to their defaults.
type UpdateWidgetSettingsRequest struct {
	WidgetType      string  `json:"widgetType"`
	PreferredFormat *string `json:"preferredFormat,omitempty"`

	Theme           *string `json:"theme,omitempty"`
	PrimaryColor    *string `json:"primaryColor,omitempty"`
	SecondaryColor  *string `json:"secondaryColor,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`
	BorderRadius    *int    `json:"borderRadius,omitempty"`
	ShadowIntensity *int    `json:"shadowIntensity,omitempty"`
	Width           *int    `json:"width,omitempty"`
	Height          *int    `json:"height,omitempty"`
	WelcomeMessage  *string `json:"welcomeMessage,omitempty"`
	ButtonText      *string `json:"buttonText,omitempty"`
	ShowLogo        *bool   `json:"showLogo,omitempty"`
	ShowDescription *bool   `json:"showDescription,omitempty"`
	ShowFooter      *bool   `json:"showFooter,omitempty"`

	EnableAnimations *bool   `json:"enableAnimations,omitempty"`
	AnimationType    *string `json:"animationType,omitempty"`

	Timezone *string `json:"timezone,omitempty"`
	Currency *string `json:"currency,omitempty"`

	EnableTableOptimization *bool `json:"enableTableOptimization,omitempty"`
	MaxPartySize            *int  `json:"maxPartySize,omitempty"`
	RequireDeposit          *bool `json:"requireDeposit,omitempty"`
	EnableSpecialRequests   *bool `json:"enableSpecialRequests,omitempty"`

	AllowedOrigin  *string `json:"allowedOrigin,omitempty"`
	SandboxEnabled *bool   `json:"sandboxEnabled,omitempty"`
	LazyLoad       *bool   `json:"lazyLoad,omitempty"`
}

type GenerateEmbedCodeRequest struct {
	WidgetType string `json:"widgetType"`
	Format     string `json:"format,omitempty"`
}

type EmbedCodeResponse struct {
	Code          string `json:"code"`
	Generated     bool   `json:"generated"`
	WidgetType    string `json:"widgetType"`
	Format        string `json:"format"`
	EmbedID       string `json:"embedId"`
	CorrelationID string `json:"correlationId"`
	Version       string `json:"version"`
}

type PreviewWidgetRequest struct {
	WidgetType string `json:"widgetType"`
	Device     string `json:"device,omitempty"`
}

type PreviewWidgetResponse struct {
	URL           string `json:"url"`
	Device        string `json:"device"`
	CorrelationID string `json:"correlationId"`
	WidgetType    string `json:"widgetType"`
	Version       string `json:"version"`
}

type WidgetKeyResponse struct {
	KeyID      string `json:"keyId"`
	Key        string `json:"key"`
	WidgetType string `json:"widgetType"`
	CreatedAt  string `json:"createdAt"`
	LastUsedAt string `json:"lastUsedAt,omitempty"`
}

type ListWidgetKeysResponse struct {
	Keys []WidgetKeyResponse `json:"keys"`
}

type CreateWidgetKeyRequest struct {
	WidgetType string `json:"widgetType"`
}

type DiagnosticEventResponse struct {
	Type          string  `json:"type"`
	WidgetID      string  `json:"widgetId"`
	CorrelationID string  `json:"correlationId,omitempty"`
	Height        int     `json:"height,omitempty"`
	Value         float64 `json:"value,omitempty"`
	Error         string  `json:"error,omitempty"`
	RequestID     string  `json:"requestId,omitempty"`
	Origin        string  `json:"origin,omitempty"`
	ReceivedAt    string  `json:"receivedAt"`
}

type DiagnosticsResponse struct {
	CorrelationID string                    `json:"correlationId"`
	Events        []DiagnosticEventResponse `json:"events"`
}
