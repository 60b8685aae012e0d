// Package models defines client-side data models used by the xbm CLI.
package models

import (
	"strings"
	"time"
)

// TokenRecord is the persisted OAuth 2.0 token pair.
type TokenRecord struct {
	// AccessToken is the bearer token sent on API calls.
	AccessToken string `json:"access_token"`

	// RefreshToken is exchanged for a new pair when AccessToken expires.
	// Providers rotate it; a refreshed record always carries the latest one.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the absolute expiry of AccessToken.
	ExpiresAt time.Time `json:"expires_at"`

	// TokenType is usually "bearer".
	TokenType string `json:"token_type,omitempty"`

	// Scopes granted by the provider.
	Scopes []string `json:"scopes,omitempty"`
}

// Complete reports whether r satisfies the on-disk invariant: both tokens
// present and an expiry set.
func (r *TokenRecord) Complete() bool {
	return r != nil && r.AccessToken != "" && r.RefreshToken != "" && !r.ExpiresAt.IsZero()
}

// ExpiresWithin reports whether the access token is expired at now or will
// expire within margin.
func (r *TokenRecord) ExpiresWithin(now time.Time, margin time.Duration) bool {
	return !now.Add(margin).Before(r.ExpiresAt)
}

// ScopeString joins Scopes with spaces, the OAuth wire form.
func (r *TokenRecord) ScopeString() string {
	return strings.Join(r.Scopes, " ")
}
