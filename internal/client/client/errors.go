package client

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/xbm/internal/common"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// RateLimitError is returned for HTTP 429. ResetAt is zero when the response
// carried no x-rate-limit-reset header.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "rate limited by the X API"
	}
	return fmt.Sprintf("rate limited by the X API until %s", e.ResetAt.Local().Format(time.Kitchen))
}

func (e *RateLimitError) Unwrap() error { return common.ErrRateLimited }

// APIError is any other non-2xx response. Message is already sanitised.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("X API error (HTTP %d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	}
	return nil
}

const maxMessageLen = 200

var secretLike = regexp.MustCompile(`\b[A-Za-z0-9]{32,}\b`)

// sanitize redacts token-looking runs and caps the length of a message that
// came from the server.
func sanitize(msg string) string {
	msg = secretLike.ReplaceAllString(strings.TrimSpace(msg), "[REDACTED]")
	if r := []rune(msg); len(r) > maxMessageLen {
		msg = string(r[:maxMessageLen])
	}
	return msg
}
