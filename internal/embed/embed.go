// Package embed renders the three deployable widget artifacts: a static
// iframe tag, a React snippet and a self-installing script. Rendering
// never fails loudly; bad input yields an HTML-comment artifact the
// dashboard can show as "unable to generate embed code".
package embed

import (
	"tablo-backend/internal/origin"
	"tablo-backend/internal/token"
)

// WidgetType selects which widget a tenant is embedding.
type WidgetType string

const (
	WidgetBooking  WidgetType = "booking"
	WidgetCatering WidgetType = "catering"
)

// KnownWidgetType reports whether t names a widget this platform ships.
func KnownWidgetType(t WidgetType) bool {
	return t == WidgetBooking || t == WidgetCatering
}

// Format selects the artifact flavor.
type Format string

const (
	FormatIframe Format = "iframe"
	FormatReact  Format = "react"
	FormatScript Format = "script"
)

// KnownFormat reports whether f is a supported artifact flavor.
func KnownFormat(f Format) bool {
	return f == FormatIframe || f == FormatReact || f == FormatScript
}

// Settings is the per-tenant widget configuration an artifact bakes into
// the widget URL and its markup. Values arrive already normalized by the
// settings service.
type Settings struct {
	Theme           string
	PrimaryColor    string
	SecondaryColor  string
	BackgroundColor string
	TextColor       string
	BorderRadius    int
	ShadowIntensity int
	Width           int
	Height          int
	WelcomeMessage  string
	ButtonText      string
	ShowLogo        bool
	ShowDescription bool
	ShowFooter      bool

	EnableAnimations bool
	AnimationType    string

	Timezone string
	Currency string

	// Booking-only options; ignored for other widget types.
	EnableTableOptimization bool
	MaxPartySize            int
	RequireDeposit          bool
	EnableSpecialRequests   bool

	// AllowedOrigin is the canonical origin permitted to embed, empty
	// when the operator left the field blank or entered something
	// invalid.
	AllowedOrigin  string
	SandboxEnabled bool
	LazyLoad       bool
}

// Request carries everything one Generate call needs. EmbedID and
// CorrelationID may be left empty; Generate then mints fresh ones.
type Request struct {
	WidgetType WidgetType
	Format     Format

	// TenantSlug is the public slug; internal tenant ids never appear
	// in an artifact.
	TenantSlug string
	// Version is the widget config version the token was signed for.
	Version string

	Token  token.Token
	Origin origin.Result

	// BaseURL is the widget host, e.g. https://widget.tablo.app.
	BaseURL string

	EmbedID       string
	CorrelationID string

	Settings Settings
}

// sandboxValue is the sandbox attribute emitted when sandboxing is on.
// Forms and popups stay enabled because the booking flow submits forms
// and payment confirmations open new windows.
const sandboxValue = "allow-scripts allow-same-origin allow-forms allow-popups"

func widgetTitle(t WidgetType) string {
	switch t {
	case WidgetCatering:
		return "Tablo catering widget"
	default:
		return "Tablo booking widget"
	}
}

// shadowValue maps the 0..3 shadow intensity scale to a box-shadow value.
func shadowValue(intensity int) string {
	switch {
	case intensity <= 0:
		return ""
	case intensity == 1:
		return "0 2px 8px rgba(0,0,0,0.08)"
	case intensity == 2:
		return "0 4px 16px rgba(0,0,0,0.12)"
	default:
		return "0 8px 32px rgba(0,0,0,0.18)"
	}
}
