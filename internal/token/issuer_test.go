package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

// newFakeSigner runs an in-process signing service that mints real HS256
// tokens, the same shape the hosted signer produces.
func newFakeSigner(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/widget-tokens", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		var body struct {
			TenantSlug string `json:"tenantSlug"`
			WidgetType string `json:"widgetType"`
			Version    string `json:"version"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "bad request"})
			return
		}
		claims := jwt.MapClaims{
			"slug":       body.TenantSlug,
			"widgetType": body.WidgetType,
			"version":    body.Version,
			"jti":        fmt.Sprintf("sig-%d", calls),
			"iat":        time.Now().Unix(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("fake-signer-secret"))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": signed})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &calls
}

func TestIssueReturnsThreeSegmentToken(t *testing.T) {
	signer, _ := newFakeSigner(t)
	issuer := NewIssuer(signer.URL, "test-key", 2*time.Second)

	issued, err := issuer.Issue(context.Background(), "demo-slug", "booking", "2.0")
	if err != nil {
		t.Fatalf("expected token, got error: %v", err)
	}
	if !issued.Valid() {
		t.Fatalf("expected a valid token, got %q", issued)
	}
	segments := issued.Segments()
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for i, segment := range segments {
		if segment == "" {
			t.Fatalf("segment %d is empty", i)
		}
	}
}

func TestIssueMintsFreshTokens(t *testing.T) {
	signer, _ := newFakeSigner(t)
	issuer := NewIssuer(signer.URL, "test-key", 2*time.Second)

	first, err := issuer.Issue(context.Background(), "demo-slug", "booking", "2.0")
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	second, err := issuer.Issue(context.Background(), "demo-slug", "booking", "2.0")
	if err != nil {
		t.Fatalf("second issue failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected two distinct tokens, both were %q", first)
	}
	if !first.Valid() || !second.Valid() {
		t.Fatalf("both tokens must stay well formed: %q / %q", first, second)
	}
}

func TestIssueRejectsMissingInputs(t *testing.T) {
	signer, calls := newFakeSigner(t)
	issuer := NewIssuer(signer.URL, "test-key", 2*time.Second)

	cases := []struct {
		name       string
		slug       string
		widgetType string
		version    string
	}{
		{"empty slug", "", "booking", "2.0"},
		{"empty widget type", "demo-slug", "", "2.0"},
		{"empty version", "demo-slug", "booking", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := issuer.Issue(context.Background(), tc.slug, tc.widgetType, tc.version)
			var issuanceErr *IssuanceError
			if !errors.As(err, &issuanceErr) {
				t.Fatalf("expected IssuanceError, got %v", err)
			}
		})
	}
	if *calls != 0 {
		t.Fatalf("signer must not be contacted for invalid input, saw %d calls", *calls)
	}
}

func TestIssueSurfacesSignerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"message": "signer key rotation in progress"})
	}))
	defer server.Close()

	issuer := NewIssuer(server.URL, "test-key", 2*time.Second)
	_, err := issuer.Issue(context.Background(), "demo-slug", "booking", "2.0")
	var issuanceErr *IssuanceError
	if !errors.As(err, &issuanceErr) {
		t.Fatalf("expected IssuanceError, got %v", err)
	}
	if issuanceErr.Reason != "signer key rotation in progress" {
		t.Fatalf("expected signer message to be kept, got %q", issuanceErr.Reason)
	}
}

func TestIssueSignerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	issuer := NewIssuer(server.URL, "test-key", time.Second)
	_, err := issuer.Issue(context.Background(), "demo-slug", "booking", "2.0")
	var issuanceErr *IssuanceError
	if !errors.As(err, &issuanceErr) {
		t.Fatalf("expected IssuanceError, got %v", err)
	}
	if issuanceErr.Unwrap() == nil {
		t.Fatalf("transport failures must keep the underlying error")
	}
}

func TestIssueRejectsMalformedSignerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"token": "unsigned-placeholder"})
	}))
	defer server.Close()

	issuer := NewIssuer(server.URL, "test-key", 2*time.Second)
	_, err := issuer.Issue(context.Background(), "demo-slug", "booking", "2.0")
	var issuanceErr *IssuanceError
	if !errors.As(err, &issuanceErr) {
		t.Fatalf("expected IssuanceError for malformed token, got %v", err)
	}
}
