// Package common defines shared constants and sentinel errors used across
// the xbm client layers. Callers should use errors.Is to match these values;
// richer typed errors in other packages unwrap to one of them.
package common

import "errors"

var (
	// Setup errors.
	ErrMissingCredentials = errors.New("missing X_CLIENT_ID and/or X_CLIENT_SECRET")

	// Auth-flow errors. None of them touch an existing token record.
	ErrPortInUse     = errors.New("callback port already in use")
	ErrStateMismatch = errors.New("oauth state mismatch")
	ErrAuthDenied    = errors.New("authorization denied")
	ErrAuthTimeout   = errors.New("authorization timed out")
	ErrTokenExchange = errors.New("token exchange failed")

	// Session errors.
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrReauthRequired = errors.New("re-authentication required")

	// Sync errors.
	ErrRemoteFetch    = errors.New("remote fetch failed")
	ErrRateLimited    = errors.New("rate limited")
	ErrPaginationLoop = errors.New("pagination cursor repeated")

	// Validation errors.
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTweetID   = errors.New("invalid tweet id or url")

	// Storage errors.
	ErrCorruptLedger = errors.New("bookmark ledger is corrupt")
)
