package oauth

import (
	"fmt"

	"github.com/dmitrijs2005/xbm/internal/common"
)

// AuthDeniedError is returned when the provider redirects back with an error
// instead of a code, or without a code at all.
type AuthDeniedError struct {
	Reason      string
	Description string
}

func (e *AuthDeniedError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization denied: %s: %s", e.Reason, e.Description)
	}
	return "authorization denied: " + e.Reason
}

func (e *AuthDeniedError) Unwrap() error { return common.ErrAuthDenied }

// TokenExchangeError reports a failed code exchange. StatusCode is zero when
// the token endpoint could not be reached.
type TokenExchangeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TokenExchangeError) Error() string {
	msg := "token exchange failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg + "; check that the callback URL registered for the app matches exactly and that the client credentials are correct"
}

func (e *TokenExchangeError) Unwrap() []error {
	if e.Err != nil {
		return []error{common.ErrTokenExchange, e.Err}
	}
	return []error{common.ErrTokenExchange}
}

const maxBodyInError = 200

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
