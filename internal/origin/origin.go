// Package origin validates and canonicalizes host-supplied "allowed origin"
// strings. Validation is pure and synchronous; callers decide what to do
// with an invalid result (the embed generator falls back to the widget's
// own origin, never to a wildcard).
package origin

import (
	"net/url"
	"strings"
)

// Result is the outcome of validating one allowed-origin candidate.
// Origin holds the canonical scheme://host[:port] form and is empty
// unless Valid is true.
type Result struct {
	Valid  bool
	Origin string
	Reason string
}

func invalid(reason string) Result {
	return Result{Valid: false, Reason: reason}
}

// Validate canonicalizes input into an origin usable for exact-match
// postMessage checks. Only http and https URLs with a host are accepted;
// path, query, fragment and credentials are rejected or dropped and
// default ports are stripped so equal origins always compare equal.
func Validate(input string) Result {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return invalid("empty origin")
	}
	if trimmed == "*" {
		return invalid("wildcard origin is not allowed")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return invalid("not a parseable URL")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return invalid("scheme must be http or https")
	}
	if u.Host == "" {
		return invalid("missing host")
	}
	if u.User != nil {
		return invalid("credentials are not allowed in an origin")
	}

	canonical := Canonical(u)
	if canonical == "" {
		return invalid("missing host")
	}
	return Result{Valid: true, Origin: canonical}
}

// Canonical reduces u to its scheme://host[:port] origin form: scheme
// and host lowercased, default ports stripped, everything after the
// authority dropped. Empty when u is not an http(s) URL with a host.
// The embed generator shares this for the widget origin baked into
// artifacts, so the guard value always matches what a browser reports
// in event.origin.
func Canonical(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	if strings.Contains(host, ":") {
		// IPv6 literals keep their brackets in browser origins.
		host = "[" + host + "]"
	}

	port := u.Port()
	if scheme == "http" && port == "80" {
		port = ""
	}
	if scheme == "https" && port == "443" {
		port = ""
	}

	canonical := scheme + "://" + host
	if port != "" {
		canonical += ":" + port
	}
	return canonical
}
