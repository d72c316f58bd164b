// Package token requests signed embed tokens from the external signing
// service. Tokens bind {tenantSlug, widgetType, version} and never carry
// internal tenant ids, only the public slug.
package token

import "strings"

// Token is the opaque three-segment signed string returned by the
// signing service. Expiry policy is owned by the signer, not here.
type Token string

func (t Token) String() string {
	return string(t)
}

// Segments splits the token on dots. A well-formed token has exactly
// three non-empty segments.
func (t Token) Segments() []string {
	return strings.Split(string(t), ".")
}

// Valid reports whether the token looks like a signed value. It does not
// verify the signature; verification belongs to the widget runtime's
// validator.
func (t Token) Valid() bool {
	segments := t.Segments()
	if len(segments) != 3 {
		return false
	}
	for _, segment := range segments {
		if segment == "" {
			return false
		}
	}
	return true
}
