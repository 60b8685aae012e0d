package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/xbm/internal/common"
)

type fakeTokens struct {
	mu        sync.Mutex
	current   string
	next      string
	ensureErr error
	refreshes int
}

func (f *fakeTokens) EnsureValidToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.ensureErr
}

func (f *fakeTokens) ForceRefresh(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	f.current = f.next
	return f.current, nil
}

// apiServer accepts only the bearer token in accept and records request
// bodies.
func apiServer(t *testing.T, accept string) (*httptest.Server, *[]string) {
	t.Helper()
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+accept {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func TestTransport_SetsBearer(t *testing.T) {
	srv, _ := apiServer(t, "tok-1")
	tokens := &fakeTokens{current: "tok-1"}
	hc := &http.Client{Transport: NewTransport(tokens, nil)}

	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, tokens.refreshes)
}

func TestTransport_RefreshesAndReplaysOnce(t *testing.T) {
	srv, bodies := apiServer(t, "tok-2")
	tokens := &fakeTokens{current: "tok-1", next: "tok-2"}
	hc := &http.Client{Transport: NewTransport(tokens, nil)}

	resp, err := hc.Post(srv.URL, "application/json", strings.NewReader(`{"tweet_id":"101"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, tokens.refreshes)
	assert.Equal(t, []string{`{"tweet_id":"101"}`, `{"tweet_id":"101"}`}, *bodies)
}

func TestTransport_SecondUnauthorizedIsReturned(t *testing.T) {
	srv, bodies := apiServer(t, "never")
	tokens := &fakeTokens{current: "tok-1", next: "tok-2"}
	hc := &http.Client{Transport: NewTransport(tokens, nil)}

	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 1, tokens.refreshes)
	assert.Len(t, *bodies, 2)
}

func TestTransport_NoTokenNoRequest(t *testing.T) {
	srv, bodies := apiServer(t, "tok-1")
	tokens := &fakeTokens{ensureErr: common.ErrNotLoggedIn}
	hc := &http.Client{Transport: NewTransport(tokens, nil)}

	_, err := hc.Get(srv.URL)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
	assert.Empty(t, *bodies)
}
