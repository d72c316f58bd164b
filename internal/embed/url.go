package embed

import (
	"net/url"
	"strconv"
	"strings"

	"tablo-backend/internal/origin"
)

// Query values are escaped in two layers. escapeURLValue neutralizes the
// characters that would break the query string itself; escapeAttrText
// then entity-escapes what lands inside an HTML attribute, so a welcome
// message containing quotes or angle brackets can never break out of the
// src attribute. The separators between parameters stay literal & so the
// emitted URL keeps its documented shape.
var (
	escapeURLValue = strings.NewReplacer(
		"%", "%25",
		"&", "%26",
		"#", "%23",
		"=", "%3D",
		"+", "%2B",
		"?", "%3F",
		" ", "%20",
	)
	escapeAttrText = strings.NewReplacer(
		`"`, "&quot;",
		"'", "&#39;",
		"<", "&lt;",
		">", "&gt;",
	)
	// < and > become unicode escapes so no value can smuggle a
	// </script> sequence into the inline script block.
	escapeJSString = strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`"`, `\"`,
		"<", `\u003c`,
		">", `\u003e`,
		"\n", `\n`,
		"\r", `\r`,
	)
)

type param struct {
	key   string
	value string
}

func boolParam(v bool) string {
	return strconv.FormatBool(v)
}

// configParams lists the widget URL parameters in their documented
// order. Optional free-text parameters are omitted when empty.
func (r Request) configParams() []param {
	s := r.Settings
	params := []param{
		{"slug", r.TenantSlug},
		{"token", r.Token.String()},
		{"widget_version", r.Version},
	}
	if s.Timezone != "" {
		params = append(params, param{"timezone", s.Timezone})
	}
	if s.Currency != "" {
		params = append(params, param{"currency", s.Currency})
	}
	params = append(params,
		param{"theme", s.Theme},
		param{"primaryColor", s.PrimaryColor},
		param{"secondaryColor", s.SecondaryColor},
		param{"backgroundColor", s.BackgroundColor},
		param{"textColor", s.TextColor},
		param{"borderRadius", strconv.Itoa(s.BorderRadius)},
		param{"width", strconv.Itoa(s.Width)},
		param{"height", strconv.Itoa(s.Height)},
	)
	if s.WelcomeMessage != "" {
		params = append(params, param{"welcomeMessage", s.WelcomeMessage})
	}
	if s.ButtonText != "" {
		params = append(params, param{"buttonText", s.ButtonText})
	}
	params = append(params,
		param{"showLogo", boolParam(s.ShowLogo)},
		param{"showDescription", boolParam(s.ShowDescription)},
		param{"showFooter", boolParam(s.ShowFooter)},
		param{"enableAnimations", boolParam(s.EnableAnimations)},
		param{"animationType", s.AnimationType},
	)
	if r.WidgetType == WidgetBooking {
		params = append(params,
			param{"enableTableOptimization", boolParam(s.EnableTableOptimization)},
			param{"maxPartySize", strconv.Itoa(s.MaxPartySize)},
			param{"requireDeposit", boolParam(s.RequireDeposit)},
			param{"enableSpecialRequests", boolParam(s.EnableSpecialRequests)},
		)
	}
	return params
}

func buildQuery(params []param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(escapeURLValue.Replace(p.value))
	}
	return b.String()
}

func (r Request) widgetPath() string {
	return strings.TrimRight(r.BaseURL, "/") + "/w/" + url.PathEscape(r.TenantSlug)
}

// WidgetURL is the widget src without runtime parameters: the config
// parameters in their documented order plus embed=1, appended once and
// always last so the runtime can recognize an embedded load.
func (r Request) WidgetURL() string {
	params := append(r.configParams(), param{"embed", "1"})
	return r.widgetPath() + "?" + buildQuery(params)
}

// StaticSrc is the src baked into the iframe and react artifacts: the
// widget URL plus a generation-time correlation id, and parent_origin
// when a validated allowed origin exists. The script artifact computes
// both at runtime instead.
func (r Request) StaticSrc() string {
	src := r.WidgetURL()
	if r.Origin.Valid {
		src += "&parent_origin=" + escapeURLValue.Replace(r.Origin.Origin)
	}
	src += "&cid=" + escapeURLValue.Replace(r.CorrelationID)
	return src
}

// PreviewURL is the dashboard live-preview variant of the widget URL.
func PreviewURL(r Request, device, correlationID string) string {
	src := r.WidgetURL() + "&preview=1"
	if device != "" {
		src += "&device=" + escapeURLValue.Replace(device)
	}
	src += "&cid=" + escapeURLValue.Replace(correlationID)
	return src
}

// WidgetOrigin is the origin of the widget host itself, the fail-safe
// guard value for the handshake listener. Empty when BaseURL is not a
// usable http(s) URL.
func (r Request) WidgetOrigin() string {
	u, err := url.Parse(r.BaseURL)
	if err != nil {
		return ""
	}
	return origin.Canonical(u)
}
