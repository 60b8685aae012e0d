// Package oauth runs the OAuth 2.0 Authorization Code + PKCE login against X.
//
// A login has two halves. BeginLogin binds the loopback callback port, opens
// the authorization URL in the browser and waits for exactly one redirect to
// /callback; the listener is shut down before BeginLogin returns.
// CompleteLogin trades the code and the session's verifier for a token pair
// (HTTP Basic client authentication) and stores it through a
// tokens.Repository.
//
// PKCESession values live only in memory for the duration of one attempt.
package oauth
