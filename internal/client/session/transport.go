package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// TokenProvider is the part of Manager the transport needs.
type TokenProvider interface {
	EnsureValidToken(ctx context.Context) (string, error)
	ForceRefresh(ctx context.Context) (string, error)
}

// Transport authorizes every request with a bearer token from Tokens. A 401
// triggers one forced refresh and a single replay of the request.
type Transport struct {
	Tokens TokenProvider
	Base   http.RoundTripper
}

func NewTransport(tokens TokenProvider, base http.RoundTripper) *Transport {
	return &Transport{Tokens: tokens, Base: base}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	token, err := t.Tokens.EnsureValidToken(ctx)
	if err != nil {
		closeBody(req)
		return nil, err
	}

	resp, err := t.base().RoundTrip(withBearer(req, token))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// Without GetBody the body is already consumed and cannot be replayed.
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()

	token, err = t.Tokens.ForceRefresh(ctx)
	if err != nil {
		return nil, err
	}

	replay := withBearer(req, token)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		replay.Body = body
	}

	return t.base().RoundTrip(replay)
}

func withBearer(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
