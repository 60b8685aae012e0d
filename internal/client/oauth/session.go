package oauth

import (
	"fmt"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/xbm/internal/common"
)

// CallbackPath is the redirect path registered with the provider.
const CallbackPath = "/callback"

// Session is the ephemeral PKCE state of one login attempt.
type Session struct {
	CodeVerifier  string
	CodeChallenge string
	State         string
	RedirectURI   string
}

// NewSession generates a fresh verifier, its S256 challenge and a random
// state for a callback on 127.0.0.1:port.
func NewSession(port int) (*Session, error) {
	state, err := common.MakeRandURLString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	verifier := oauth2.GenerateVerifier()

	return &Session{
		CodeVerifier:  verifier,
		CodeChallenge: oauth2.S256ChallengeFromVerifier(verifier),
		State:         state,
		RedirectURI:   RedirectURI(port),
	}, nil
}

// RedirectURI is the loopback callback URL for port.
func RedirectURI(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", port, CallbackPath)
}
