package token

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// IssuanceError is returned when a signed token could not be obtained.
// Callers must never substitute a placeholder value for the token; the
// embed generator emits a failure artifact instead.
type IssuanceError struct {
	Reason string
	Err    error
}

func (e *IssuanceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token issuance failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("token issuance failed: %s", e.Reason)
}

func (e *IssuanceError) Unwrap() error {
	return e.Err
}

type signRequest struct {
	TenantSlug string `json:"tenantSlug"`
	WidgetType string `json:"widgetType"`
	Version    string `json:"version"`
}

type signResponse struct {
	Token string `json:"token"`
}

type signError struct {
	Message string `json:"message"`
}

// Issuer talks to the signing endpoint. It performs no retries; retry
// policy, if any, belongs to the caller.
type Issuer struct {
	client  *resty.Client
	signURL string
}

// NewIssuer builds an issuer for the signing service at baseURL. The
// apiKey may be empty for local signers that skip authentication.
func NewIssuer(baseURL, apiKey string, timeout time.Duration) *Issuer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetHeader("X-Api-Key", apiKey)
	}
	return &Issuer{
		client:  client,
		signURL: "/v1/widget-tokens",
	}
}

// Issue requests one signed token binding {tenantSlug, widgetType,
// version}. A missing slug, an unreachable signer, a non-2xx response or
// a malformed token all yield an *IssuanceError.
func (i *Issuer) Issue(ctx context.Context, tenantSlug, widgetType, version string) (Token, error) {
	if tenantSlug == "" {
		countIssue("invalid_request")
		return "", &IssuanceError{Reason: "tenant slug is empty"}
	}
	if widgetType == "" {
		countIssue("invalid_request")
		return "", &IssuanceError{Reason: "widget type is empty"}
	}
	if version == "" {
		countIssue("invalid_request")
		return "", &IssuanceError{Reason: "config version is empty"}
	}

	var (
		signed signResponse
		svcErr signError
	)
	resp, err := i.client.R().
		SetContext(ctx).
		SetBody(signRequest{TenantSlug: tenantSlug, WidgetType: widgetType, Version: version}).
		SetResult(&signed).
		SetError(&svcErr).
		Post(i.signURL)
	if err != nil {
		countIssue("unreachable")
		return "", &IssuanceError{Reason: "signing service unreachable", Err: err}
	}
	if resp.IsError() {
		countIssue("rejected")
		reason := svcErr.Message
		if reason == "" {
			reason = fmt.Sprintf("signing service returned status %d", resp.StatusCode())
		}
		return "", &IssuanceError{Reason: reason}
	}

	issued := Token(signed.Token)
	if !issued.Valid() {
		countIssue("malformed_token")
		return "", &IssuanceError{Reason: "signing service returned a malformed token"}
	}
	countIssue("issued")
	return issued, nil
}
