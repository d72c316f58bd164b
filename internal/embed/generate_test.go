package embed

import (
	"strings"
	"testing"

	"tablo-backend/internal/origin"
	"tablo-backend/internal/token"
)

func baseRequest() Request {
	return Request{
		WidgetType:    WidgetBooking,
		Format:        FormatIframe,
		TenantSlug:    "demo-slug",
		Version:       "2.4",
		Token:         token.Token("hdr.payload.sig"),
		Origin:        origin.Validate("https://host.example.com"),
		BaseURL:       "https://widget.tablo.app",
		EmbedID:       "fixed-embed",
		CorrelationID: "cid-fixed",
		Settings: Settings{
			Theme:            "light",
			PrimaryColor:     "#7F56D9",
			SecondaryColor:   "#F4EBFF",
			BackgroundColor:  "#FFFFFF",
			TextColor:        "#101828",
			BorderRadius:     12,
			ShadowIntensity:  2,
			Width:            400,
			Height:           600,
			WelcomeMessage:   "Book your table",
			ButtonText:       "Reserve now",
			ShowLogo:         true,
			ShowDescription:  true,
			ShowFooter:       false,
			EnableAnimations: true,
			AnimationType:    "fade",
			Timezone:         "Europe/Warsaw",
			Currency:         "EUR",

			EnableTableOptimization: true,
			MaxPartySize:            8,
			RequireDeposit:          false,
			EnableSpecialRequests:   true,

			AllowedOrigin:  "https://host.example.com",
			SandboxEnabled: true,
			LazyLoad:       true,
		},
	}
}

func TestIframeArtifactShape(t *testing.T) {
	out := Generate(baseRequest())
	if IsFailure(out) {
		t.Fatalf("expected artifact, got failure: %s", out)
	}
	if !strings.HasPrefix(out, "<iframe ") || !strings.HasSuffix(out, "</iframe>") {
		t.Fatalf("expected a self-contained iframe tag, got: %s", out)
	}
	for _, want := range []string{
		"slug=demo-slug",
		"token=hdr.payload.sig",
		"widget_version=2.4",
		"theme=light",
		"primaryColor=%237F56D9",
		"width=400",
		"height=600",
		"maxPartySize=8",
		`sandbox="allow-scripts allow-same-origin allow-forms allow-popups"`,
		`loading="lazy"`,
		`referrerpolicy="strict-origin-when-cross-origin"`,
		`title="Tablo booking widget"`,
		"parent_origin=https://host.example.com",
		"cid=cid-fixed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("iframe artifact missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "box-shadow:0 4px 16px") {
		t.Fatalf("expected medium shadow in style: %s", out)
	}
}

func TestIframeEmbedFlagAppendedExactlyOnce(t *testing.T) {
	out := Generate(baseRequest())
	if got := strings.Count(out, "&embed=1"); got != 1 {
		t.Fatalf("expected &embed=1 exactly once, got %d in:\n%s", got, out)
	}
}

func TestIframeEscapesWelcomeMessage(t *testing.T) {
	req := baseRequest()
	req.Settings.WelcomeMessage = `Say "hi" <script>alert(1)</script>`
	out := Generate(req)
	if IsFailure(out) {
		t.Fatalf("unexpected failure: %s", out)
	}
	if !strings.Contains(out, "&quot;hi&quot;") {
		t.Fatalf("quotes must be entity-escaped:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("angle brackets must be entity-escaped:\n%s", out)
	}
	if strings.Contains(out, `"hi"`) || strings.Contains(out, "<script>alert") {
		t.Fatalf("raw special characters survived into the markup:\n%s", out)
	}
}

func TestIframeOptionalAttributes(t *testing.T) {
	req := baseRequest()
	req.Settings.SandboxEnabled = false
	req.Settings.LazyLoad = false
	out := Generate(req)
	if strings.Contains(out, "sandbox=") {
		t.Fatalf("sandbox attribute must be absent when disabled:\n%s", out)
	}
	if strings.Contains(out, `loading="lazy"`) {
		t.Fatalf("lazy loading attribute must be absent when disabled:\n%s", out)
	}
	if !strings.Contains(out, `referrerpolicy="strict-origin-when-cross-origin"`) {
		t.Fatalf("referrerpolicy is not optional:\n%s", out)
	}
}

func TestStaticSrcOmitsParentOriginWithoutValidatedOrigin(t *testing.T) {
	req := baseRequest()
	req.Origin = origin.Validate("not a url")
	out := Generate(req)
	if IsFailure(out) {
		t.Fatalf("invalid allowed origin must not fail generation: %s", out)
	}
	if strings.Contains(out, "parent_origin=") {
		t.Fatalf("parent_origin must be omitted without a validated origin:\n%s", out)
	}
	if !strings.Contains(out, "cid=cid-fixed") {
		t.Fatalf("correlation id must still be baked:\n%s", out)
	}
}

func TestReactArtifact(t *testing.T) {
	req := baseRequest()
	req.Format = FormatReact
	out := Generate(req)
	if IsFailure(out) {
		t.Fatalf("unexpected failure: %s", out)
	}
	for _, want := range []string{
		`referrerPolicy="strict-origin-when-cross-origin"`,
		"style={{ width: '400px'",
		"borderRadius: '12px'",
		`sandbox="allow-scripts allow-same-origin allow-forms allow-popups"`,
		`loading="lazy"`,
		"&embed=1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("react artifact missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "/>") {
		t.Fatalf("react artifact must be a self-closing element:\n%s", out)
	}
}

func TestScriptArtifact(t *testing.T) {
	req := baseRequest()
	req.Format = FormatScript
	out := Generate(req)
	if IsFailure(out) {
		t.Fatalf("unexpected failure: %s", out)
	}
	for _, want := range []string{
		`<div id="tablo-widget-fixed-embed"></div>`,
		"window",
		"__tabloWidgets",
		"crypto.randomUUID",
		"'https://widget.tablo.app'",
		"parent_ready",
		"widget_loaded",
		"widget_resize",
		"widget_conversion",
		"widget_error",
		"widget_close",
		"encodeURIComponent(win.location.origin)",
		"&embed=1",
		"var readyAttempts = 3;",
		"var readyIntervalMs = 400;",
		"removeEventListener('message'",
		"data-tablo-mounted",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("script artifact missing %q:\n%s", want, out)
		}
	}
	// The script computes parent_origin and cid in the browser; baking
	// them would pin every deployment to one page.
	if strings.Contains(out, "parent_origin=https") {
		t.Fatalf("script artifact must not bake a parent_origin:\n%s", out)
	}
	if strings.Contains(out, "cid=cid-fixed") {
		t.Fatalf("script artifact must not bake a correlation id:\n%s", out)
	}
}

func TestScriptValuesCannotTerminateScriptBlock(t *testing.T) {
	req := baseRequest()
	req.Format = FormatScript
	req.Settings.WelcomeMessage = "Bye</script><script>alert(1)//"
	out := Generate(req)
	if IsFailure(out) {
		t.Fatalf("unexpected failure: %s", out)
	}
	if got := strings.Count(out, "</script>"); got != 1 {
		t.Fatalf("artifact must contain only its own terminator, found %d:\n%s", got, out)
	}
	if !strings.Contains(out, "\\u003c/script\\u003e") {
		t.Fatalf("angle brackets in values must be unicode-escaped:\n%s", out)
	}
}

func TestScriptGuardUsesWidgetOrigin(t *testing.T) {
	req := baseRequest()
	req.Format = FormatScript
	out := Generate(req)
	if !strings.Contains(out, "var widgetOrigin = 'https://widget.tablo.app';") {
		t.Fatalf("listener guard must pin the widget origin:\n%s", out)
	}
	if !strings.Contains(out, "event.origin !== widgetOrigin") {
		t.Fatalf("listener must reject foreign origins:\n%s", out)
	}
	if strings.Contains(out, "'*'") {
		t.Fatalf("artifact must never fall back to a wildcard origin:\n%s", out)
	}
}

func TestScriptGuardStripsDefaultPort(t *testing.T) {
	req := baseRequest()
	req.Format = FormatScript
	req.BaseURL = "https://widget.tablo.app:443"
	out := Generate(req)
	if IsFailure(out) {
		t.Fatalf("unexpected failure: %s", out)
	}
	// Browsers report https origins without :443, so the baked guard
	// value has to drop it or the listener would reject every message.
	if !strings.Contains(out, "var widgetOrigin = 'https://widget.tablo.app';") {
		t.Fatalf("default port must be stripped from the guard origin:\n%s", out)
	}
}

func TestGenerateFailureArtifacts(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing token", func(r *Request) { r.Token = "" }},
		{"malformed token", func(r *Request) { r.Token = "unsigned-placeholder" }},
		{"unknown widget type", func(r *Request) { r.WidgetType = "payments" }},
		{"unknown format", func(r *Request) { r.Format = "flash" }},
		{"missing slug", func(r *Request) { r.TenantSlug = "  " }},
		{"unusable base url", func(r *Request) { r.BaseURL = "ftp://nope" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			tc.mutate(&req)
			out := Generate(req)
			if !IsFailure(out) {
				t.Fatalf("expected a failure comment, got:\n%s", out)
			}
			if !strings.HasPrefix(out, "<!-- tablo: unable to generate embed code:") || !strings.HasSuffix(out, "-->") {
				t.Fatalf("failure artifact must be a single HTML comment, got:\n%s", out)
			}
			if strings.Contains(out, "hdr.payload.sig") {
				t.Fatalf("failure artifact must never leak the token:\n%s", out)
			}
		})
	}
}

func TestGenerateNeverEmitsPlaceholderToken(t *testing.T) {
	req := baseRequest()
	req.Token = "two.segments"
	out := Generate(req)
	if !IsFailure(out) {
		t.Fatalf("malformed token must not produce an artifact:\n%s", out)
	}
	if strings.Contains(out, "two.segments") {
		t.Fatalf("token text must not appear in the failure artifact:\n%s", out)
	}
}

func TestBookingOnlyParamsOmittedForCatering(t *testing.T) {
	req := baseRequest()
	req.WidgetType = WidgetCatering
	out := Generate(req)
	if IsFailure(out) {
		t.Fatalf("unexpected failure: %s", out)
	}
	for _, banned := range []string{"enableTableOptimization", "maxPartySize", "requireDeposit", "enableSpecialRequests"} {
		if strings.Contains(out, banned) {
			t.Fatalf("catering artifact must not carry booking-only parameter %q:\n%s", banned, out)
		}
	}
	if !strings.Contains(out, `title="Tablo catering widget"`) {
		t.Fatalf("catering artifact must carry the catering title:\n%s", out)
	}
}

func TestOptionalParamsOmittedWhenEmpty(t *testing.T) {
	req := baseRequest()
	req.Settings.WelcomeMessage = ""
	req.Settings.ButtonText = ""
	req.Settings.Timezone = ""
	req.Settings.Currency = ""
	out := Generate(req)
	for _, banned := range []string{"welcomeMessage=", "buttonText=", "timezone=", "currency="} {
		if strings.Contains(out, banned) {
			t.Fatalf("empty optional parameter %q must be omitted:\n%s", banned, out)
		}
	}
}

func TestGenerateDeterministicWithFixedIDs(t *testing.T) {
	first := Generate(baseRequest())
	second := Generate(baseRequest())
	if first != second {
		t.Fatalf("fixed ids must render identical artifacts")
	}
}

func TestGenerateMintsIDsWhenMissing(t *testing.T) {
	req := baseRequest()
	req.Format = FormatScript
	req.EmbedID = ""
	req.CorrelationID = ""
	first := Generate(req)
	second := Generate(req)
	if IsFailure(first) || IsFailure(second) {
		t.Fatalf("unexpected failure: %s / %s", first, second)
	}
	if first == second {
		t.Fatalf("each generation must mint its own container id")
	}
}

func TestPreviewURL(t *testing.T) {
	req := baseRequest()
	url := PreviewURL(req, "mobile", "cid-preview-1")
	for _, want := range []string{"&embed=1", "&preview=1", "&device=mobile", "&cid=cid-preview-1"} {
		if !strings.Contains(url, want) {
			t.Fatalf("preview url missing %q: %s", want, url)
		}
	}
	if strings.Count(url, "&embed=1") != 1 {
		t.Fatalf("embed flag must appear once: %s", url)
	}
}
