// Package client is the thin X API v2 layer used by the xbm services.
//
// # Overview
//
// The package provides:
//  1. The Client interface: Me, ListBookmarks, AddBookmark, RemoveBookmark.
//  2. HTTPClient, a JSON-over-HTTP implementation. It expects an *http.Client
//     whose transport adds the bearer token (session.Transport does that and
//     also handles the single refresh-and-replay on 401). The authenticated
//     user id is fetched once from /users/me and cached.
//  3. PageFetcher, which adapts a Client to the synchronizer and paces page
//     requests with a rate.Limiter.
//  4. ParseTweetID for command-line arguments.
//
// # Error Handling
//
// HTTP 429 becomes *RateLimitError (matches common.ErrRateLimited) with the
// reset time from x-rate-limit-reset. Other failures become *APIError whose
// Message has long token-like strings redacted and is capped at 200
// characters. 401/403 unwrap to ErrUnauthorized, 404 to ErrNotFound.
package client
