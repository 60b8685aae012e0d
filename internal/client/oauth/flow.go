package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/xbm/internal/logging"
)

// Default X endpoints and scopes.
const (
	DefaultAuthURL   = "https://x.com/i/oauth2/authorize"
	DefaultTokenURL  = "https://api.x.com/2/oauth2/token"
	DefaultRevokeURL = "https://api.x.com/2/oauth2/revoke"
)

var DefaultScopes = []string{"tweet.read", "users.read", "bookmark.read", "bookmark.write", "offline.access"}

// defaultTokenLifetime is assumed when the token response has no expires_in.
const defaultTokenLifetime = 2 * time.Hour

// Config holds the client registration and endpoints.
type Config struct {
	ClientID     string
	ClientSecret string

	AuthURL   string
	TokenURL  string
	RevokeURL string
	Scopes    []string

	CallbackTimeout time.Duration

	// HTTPClient is used for token and revoke requests; nil means
	// http.DefaultClient.
	HTTPClient *http.Client
}

// OAuth2Config builds the x/oauth2 configuration for redirectURI. The client
// authenticates with HTTP Basic at the token endpoint.
func (c Config) OAuth2Config(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.AuthURL,
			TokenURL:  c.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		RedirectURL: redirectURI,
		Scopes:      c.Scopes,
	}
}

// WithHTTPClient attaches the configured client to ctx the way x/oauth2
// expects it.
func (c Config) WithHTTPClient(ctx context.Context) context.Context {
	if c.HTTPClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
}

// Option customises a Flow.
type Option func(*Flow)

// WithBrowser replaces the system browser launcher.
func WithBrowser(open func(url string) error) Option {
	return func(f *Flow) { f.openBrowser = open }
}

// WithOutput sets where the authorization URL is printed for the user.
func WithOutput(w io.Writer) Option {
	return func(f *Flow) { f.out = w }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// Flow runs logins and revocations.
type Flow struct {
	cfg   Config
	store tokens.Repository
	log   logging.Logger

	openBrowser func(string) error
	out         io.Writer
	now         func() time.Time
}

func NewFlow(cfg Config, store tokens.Repository, log logging.Logger, opts ...Option) *Flow {
	f := &Flow{
		cfg:         cfg,
		store:       store,
		log:         log,
		openBrowser: openBrowser,
		out:         io.Discard,
		now:         time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// AuthCodeURL builds the authorization request for s.
func (f *Flow) AuthCodeURL(s *Session) string {
	return f.cfg.OAuth2Config(s.RedirectURI).AuthCodeURL(s.State, oauth2.S256ChallengeOption(s.CodeVerifier))
}

// BeginLogin binds 127.0.0.1:port, sends the user to the authorization page
// and waits for the redirect. It returns the session and the authorization
// code; the port is released by the time it returns.
func (f *Flow) BeginLogin(ctx context.Context, port int) (*Session, string, error) {
	ln, err := listen(port)
	if err != nil {
		return nil, "", err
	}

	// With port 0 the OS picks one; the redirect has to name the real port.
	s, err := NewSession(ln.Addr().(*net.TCPAddr).Port)
	if err != nil {
		_ = ln.Close()
		return nil, "", err
	}

	authURL := f.AuthCodeURL(s)
	_, _ = fmt.Fprintf(f.out, "Opening browser for authorization...\nIf the browser doesn't open, visit:\n%s\n", authURL)

	if err := f.openBrowser(authURL); err != nil {
		f.log.Warn(ctx, "could not open browser", "error", err)
	}

	f.log.Debug(ctx, "waiting for oauth callback", "redirect_uri", s.RedirectURI, "timeout", f.cfg.CallbackTimeout)

	code, err := awaitCallback(ctx, ln, s.State, f.cfg.CallbackTimeout)
	if err != nil {
		return nil, "", err
	}
	return s, code, nil
}

// CompleteLogin exchanges code and the session verifier for tokens and stores
// them.
func (f *Flow) CompleteLogin(ctx context.Context, s *Session, code string) (*models.TokenRecord, error) {
	tok, err := f.cfg.OAuth2Config(s.RedirectURI).Exchange(
		f.cfg.WithHTTPClient(ctx), code, oauth2.VerifierOption(s.CodeVerifier))
	if err != nil {
		return nil, exchangeError(err)
	}

	rec, err := RecordFromToken(tok, f.cfg.Scopes, f.now())
	if err != nil {
		return nil, err
	}

	if err := f.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	f.log.Info(ctx, "login complete", "expires_at", rec.ExpiresAt, "scopes", rec.ScopeString())
	return rec, nil
}

// Login runs BeginLogin and CompleteLogin.
func (f *Flow) Login(ctx context.Context, port int) (*models.TokenRecord, error) {
	s, code, err := f.BeginLogin(ctx, port)
	if err != nil {
		return nil, err
	}
	return f.CompleteLogin(ctx, s, code)
}

// Revoke asks the provider to invalidate token. hint is "access_token" or
// "refresh_token".
func (f *Flow) Revoke(ctx context.Context, token, hint string) error {
	form := url.Values{"token": {token}}
	if hint != "" {
		form.Set("token_type_hint", hint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(f.cfg.ClientID), url.QueryEscape(f.cfg.ClientSecret))

	hc := f.cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("revoke failed (HTTP %d): %s", resp.StatusCode, truncate(string(body), maxBodyInError))
	}
	return nil
}

// RecordFromToken converts an x/oauth2 token into the persisted record.
// fallbackScopes are used when the response does not echo a scope.
func RecordFromToken(tok *oauth2.Token, fallbackScopes []string, now time.Time) (*models.TokenRecord, error) {
	if tok.AccessToken == "" || tok.RefreshToken == "" {
		return nil, &TokenExchangeError{
			StatusCode: http.StatusOK,
			Body:       "response is missing access_token or refresh_token (is offline.access granted?)",
		}
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = now.Add(defaultTokenLifetime)
	}

	scopes := fallbackScopes
	if s, ok := tok.Extra("scope").(string); ok && s != "" {
		scopes = strings.Fields(s)
	}

	return &models.TokenRecord{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiry,
		TokenType:    tok.TokenType,
		Scopes:       scopes,
	}, nil
}

func exchangeError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		return &TokenExchangeError{StatusCode: status, Body: truncate(string(re.Body), maxBodyInError), Err: err}
	}
	return &TokenExchangeError{Err: err}
}
