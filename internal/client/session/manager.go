// Package session owns the token lifecycle: every API request obtains its
// bearer token from Manager, which refreshes ahead of expiry and purges
// credentials the provider no longer accepts.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/client/oauth"
	"github.com/dmitrijs2005/xbm/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/xbm/internal/common"
	"github.com/dmitrijs2005/xbm/internal/logging"
)

// DefaultMargin is how long before expiry a token is already treated as
// expired.
const DefaultMargin = 60 * time.Second

// Status describes the stored credentials for `auth status`.
type Status struct {
	LoggedIn  bool
	ExpiresAt time.Time
	Expired   bool
	Scopes    []string
}

type Manager struct {
	cfg    oauth.Config
	store  tokens.Repository
	margin time.Duration
	log    logging.Logger
	now    func() time.Time
}

func NewManager(cfg oauth.Config, store tokens.Repository, margin time.Duration, log logging.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		store:  store,
		margin: margin,
		log:    log,
		now:    time.Now,
	}
}

// SetClock overrides time.Now.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Manager) load(ctx context.Context) (*models.TokenRecord, error) {
	rec, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, common.ErrNotLoggedIn
	}
	return rec, nil
}

// EnsureValidToken returns an access token that is valid for at least the
// safety margin, refreshing it first if needed.
func (m *Manager) EnsureValidToken(ctx context.Context) (string, error) {
	rec, err := m.load(ctx)
	if err != nil {
		return "", err
	}

	if !rec.ExpiresWithin(m.now(), m.margin) {
		return rec.AccessToken, nil
	}

	m.log.Debug(ctx, "access token expired or about to expire, refreshing", "expires_at", rec.ExpiresAt)
	return m.refresh(ctx, rec)
}

// ForceRefresh refreshes regardless of the recorded expiry. Used after the
// API rejected a token that looked valid.
func (m *Manager) ForceRefresh(ctx context.Context) (string, error) {
	rec, err := m.load(ctx)
	if err != nil {
		return "", err
	}
	return m.refresh(ctx, rec)
}

func (m *Manager) refresh(ctx context.Context, rec *models.TokenRecord) (string, error) {
	src := m.cfg.OAuth2Config("").TokenSource(m.cfg.WithHTTPClient(ctx), &oauth2.Token{RefreshToken: rec.RefreshToken})

	tok, err := src.Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && rejected(re) {
			if derr := m.store.Delete(ctx); derr != nil {
				m.log.Error(ctx, "failed to delete rejected credentials", "error", derr)
			}
			m.log.Warn(ctx, "refresh token rejected, credentials removed", "error_code", re.ErrorCode)
			return "", fmt.Errorf("%w: the stored refresh token was rejected (%s)", common.ErrReauthRequired, refreshReason(re))
		}
		return "", fmt.Errorf("token refresh failed: %w", err)
	}

	// x/oauth2 carries the old refresh token over only when the response
	// omits a new one.
	next, err := oauth.RecordFromToken(tok, rec.Scopes, m.now())
	if err != nil {
		return "", err
	}

	if err := m.store.Save(ctx, next); err != nil {
		return "", fmt.Errorf("failed to store refreshed tokens: %w", err)
	}

	m.log.Debug(ctx, "token refreshed", "expires_at", next.ExpiresAt, "rotated", next.RefreshToken != rec.RefreshToken)
	return next.AccessToken, nil
}

// rejected reports whether the token endpoint refused the refresh token
// itself. OAuth error responses use 400 or 401; anything else (5xx, 429) is
// treated as temporary.
func rejected(re *oauth2.RetrieveError) bool {
	if re.Response == nil {
		return re.ErrorCode != ""
	}
	switch re.Response.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized:
		return true
	}
	return false
}

func refreshReason(re *oauth2.RetrieveError) string {
	if re.ErrorCode != "" {
		return re.ErrorCode
	}
	if re.Response != nil {
		return re.Response.Status
	}
	return "rejected"
}

// Status reports the stored credentials without touching the network.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	rec, err := m.load(ctx)
	if errors.Is(err, common.ErrNotLoggedIn) {
		return &Status{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &Status{
		LoggedIn:  true,
		ExpiresAt: rec.ExpiresAt,
		Expired:   !m.now().Before(rec.ExpiresAt),
		Scopes:    rec.Scopes,
	}, nil
}
