// Package services contains application services for the xbm CLI.
// This file defines the authentication service: login, status and logout.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/xbm/internal/client/session"
	"github.com/dmitrijs2005/xbm/internal/common"
	"github.com/dmitrijs2005/xbm/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: run the browser PKCE flow with the callback on port.
//   - Status: report the stored credentials without network access.
//   - Logout: revoke both tokens (best effort) and delete the record.
//     Reports whether there was anything to log out.
type AuthService interface {
	Login(ctx context.Context, port int) (*models.TokenRecord, error)
	Status(ctx context.Context) (*session.Status, error)
	Logout(ctx context.Context) (bool, error)
}

// LoginFlow is the part of oauth.Flow the service uses.
type LoginFlow interface {
	Login(ctx context.Context, port int) (*models.TokenRecord, error)
	Revoke(ctx context.Context, token, hint string) error
}

// StatusProvider is satisfied by *session.Manager.
type StatusProvider interface {
	Status(ctx context.Context) (*session.Status, error)
}

type authService struct {
	flow   LoginFlow
	status StatusProvider
	store  tokens.Repository
	log    logging.Logger
}

// NewAuthService constructs an AuthService. flow may be nil when no client
// credentials are configured; Login then fails and Logout skips revocation.
func NewAuthService(flow LoginFlow, status StatusProvider, store tokens.Repository, log logging.Logger) AuthService {
	return &authService{flow: flow, status: status, store: store, log: log}
}

func (a *authService) Login(ctx context.Context, port int) (*models.TokenRecord, error) {
	if a.flow == nil {
		return nil, common.ErrMissingCredentials
	}
	return a.flow.Login(ctx, port)
}

func (a *authService) Status(ctx context.Context) (*session.Status, error) {
	return a.status.Status(ctx)
}

func (a *authService) Logout(ctx context.Context) (bool, error) {
	rec, err := a.store.Load(ctx)
	if err != nil && !errors.Is(err, common.ErrNotLoggedIn) {
		return false, err
	}

	if rec != nil && a.flow != nil {
		for hint, tok := range map[string]string{"access_token": rec.AccessToken, "refresh_token": rec.RefreshToken} {
			if err := a.flow.Revoke(ctx, tok, hint); err != nil {
				a.log.Warn(ctx, "token revocation failed, deleting local credentials anyway", "hint", hint, "error", err)
			}
		}
	}

	// An unreadable record is removed too.
	if err := a.store.Delete(ctx); err != nil {
		return false, err
	}
	return rec != nil, nil
}
