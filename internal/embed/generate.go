package embed

import (
	"bytes"
	"fmt"
	"strings"

	"tablo-backend/internal/protocol"
	"tablo-backend/utils"
)

const failurePrefix = "<!-- tablo: unable to generate embed code: "

var escapeComment = strings.NewReplacer("--", "- -", "<", "&lt;", ">", "&gt;")

func failureComment(reason string) string {
	return failurePrefix + escapeComment.Replace(reason) + " -->"
}

// IsFailure reports whether an artifact is the failure comment rather
// than pasteable embed code.
func IsFailure(artifact string) bool {
	return strings.HasPrefix(artifact, failurePrefix)
}

// IssuanceFailureArtifact builds the failure comment used when the
// signing service refused or failed to issue a token. Callers hand the
// dashboard this artifact instead of aborting the page.
func IssuanceFailureArtifact(reason string) string {
	countFailure("token_issuance")
	return failureComment(reason)
}

// Generate renders the requested artifact. It never returns an error and
// never panics on bad input: anything unusable yields a failure comment
// so the dashboard can degrade gracefully. A placeholder or unsigned
// token is never substituted for a real one.
func Generate(req Request) string {
	if !KnownWidgetType(req.WidgetType) {
		countFailure("widget_type")
		return failureComment("unknown widget type")
	}
	if !KnownFormat(req.Format) {
		countFailure("format")
		return failureComment("unknown embed format")
	}
	if strings.TrimSpace(req.TenantSlug) == "" {
		countFailure("slug")
		return failureComment("missing tenant slug")
	}
	if !req.Token.Valid() {
		countFailure("token")
		return failureComment("no signed widget token is available")
	}
	widgetOrigin := req.WidgetOrigin()
	if widgetOrigin == "" {
		countFailure("origin")
		return failureComment("no safe widget origin could be computed")
	}

	if req.EmbedID == "" {
		req.EmbedID = utils.NewEmbedID()
	}
	if req.CorrelationID == "" {
		req.CorrelationID = utils.NewCorrelationID()
	}

	var (
		rendered string
		err      error
	)
	switch req.Format {
	case FormatIframe:
		rendered, err = renderIframe(req)
	case FormatReact:
		rendered, err = renderReact(req)
	case FormatScript:
		rendered, err = renderScript(req, widgetOrigin)
	}
	if err != nil {
		countFailure("render")
		return failureComment("artifact rendering failed")
	}
	countGenerated(req.WidgetType, req.Format)
	return rendered
}

func (r Request) styleCSS() string {
	s := r.Settings
	style := fmt.Sprintf("width:%dpx;max-width:100%%;height:%dpx;border:0;border-radius:%dpx;",
		s.Width, s.Height, s.BorderRadius)
	if shadow := shadowValue(s.ShadowIntensity); shadow != "" {
		style += "box-shadow:" + shadow + ";"
	}
	return style + "overflow:hidden"
}

func (r Request) styleJSX() string {
	s := r.Settings
	parts := []string{
		fmt.Sprintf("width: '%dpx'", s.Width),
		"maxWidth: '100%'",
		fmt.Sprintf("height: '%dpx'", s.Height),
		"border: 'none'",
		fmt.Sprintf("borderRadius: '%dpx'", s.BorderRadius),
	}
	if shadow := shadowValue(s.ShadowIntensity); shadow != "" {
		parts = append(parts, fmt.Sprintf("boxShadow: '%s'", shadow))
	}
	parts = append(parts, "overflow: 'hidden'")
	return "{{ " + strings.Join(parts, ", ") + " }}"
}

func renderIframe(req Request) (string, error) {
	var buf bytes.Buffer
	err := artifactTemplates.ExecuteTemplate(&buf, "iframe", iframeData{
		Src:          req.StaticSrc(),
		Width:        req.Settings.Width,
		Height:       req.Settings.Height,
		Style:        req.styleCSS(),
		Sandbox:      req.Settings.SandboxEnabled,
		SandboxValue: sandboxValue,
		LazyLoad:     req.Settings.LazyLoad,
		Title:        widgetTitle(req.WidgetType),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderReact(req Request) (string, error) {
	var buf bytes.Buffer
	err := artifactTemplates.ExecuteTemplate(&buf, "react", reactData{
		Src:          req.StaticSrc(),
		Width:        req.Settings.Width,
		Height:       req.Settings.Height,
		StyleJSX:     req.styleJSX(),
		Sandbox:      req.Settings.SandboxEnabled,
		SandboxValue: sandboxValue,
		LazyLoad:     req.Settings.LazyLoad,
		Title:        widgetTitle(req.WidgetType),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderScript(req Request, widgetOrigin string) (string, error) {
	policy := protocol.DefaultReadyPolicy()
	var buf bytes.Buffer
	err := artifactTemplates.ExecuteTemplate(&buf, "script", scriptData{
		ContainerID:     "tablo-widget-" + req.EmbedID,
		WidgetURL:       req.WidgetURL(),
		WidgetOrigin:    widgetOrigin,
		Title:           widgetTitle(req.WidgetType),
		Style:           req.styleCSS(),
		Sandbox:         req.Settings.SandboxEnabled,
		SandboxValue:    sandboxValue,
		LazyLoad:        req.Settings.LazyLoad,
		Height:          req.Settings.Height,
		ReadyAttempts:   policy.Attempts,
		ReadyIntervalMS: int(policy.Interval.Milliseconds()),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
