package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dmitrijs2005/xbm/internal/common"
)

const shutdownTimeout = 2 * time.Second

type callbackResult struct {
	code string
	err  error
}

const pageTemplate = `<!doctype html>
<html><head><meta charset="utf-8"><title>xbm</title></head>
<body style="font-family: sans-serif; margin: 3em;"><h2>%s</h2><p>%s</p></body></html>
`

func writePage(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, pageTemplate, title, detail)
}

// listen binds the loopback callback port.
func listen(port int) (net.Listener, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if errors.Is(err, syscall.EADDRINUSE) {
		return nil, fmt.Errorf("%w: 127.0.0.1:%d (close the process holding it or pick another port with --port): %v",
			common.ErrPortInUse, port, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to listen on 127.0.0.1:%d: %w", port, err)
	}
	return ln, nil
}

// callbackHandler accepts the first request on CallbackPath and reports it on
// results. Later requests get 410.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	var handled atomic.Bool

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, func(w http.ResponseWriter, r *http.Request) {
		if !handled.CompareAndSwap(false, true) {
			writePage(w, http.StatusGone, "Already handled", "This login attempt has finished. You can close this tab.")
			return
		}

		q := r.URL.Query()

		var res callbackResult
		switch {
		case q.Get("state") != state:
			res.err = common.ErrStateMismatch
			writePage(w, http.StatusBadRequest, "Authorization failed", "The response did not match this login attempt. Start again from the terminal.")
		case q.Get("error") != "":
			res.err = &AuthDeniedError{Reason: q.Get("error"), Description: q.Get("error_description")}
			writePage(w, http.StatusBadRequest, "Authorization denied", "You can close this tab and return to the terminal.")
		case strings.TrimSpace(q.Get("code")) == "":
			res.err = &AuthDeniedError{Reason: "missing_code", Description: "callback carried no authorization code"}
			writePage(w, http.StatusBadRequest, "Authorization failed", "No authorization code was received.")
		default:
			res.code = q.Get("code")
			writePage(w, http.StatusOK, "Authorization successful", "You can close this tab and return to the terminal.")
		}

		results <- res
	})

	return mux
}

// awaitCallback serves ln until one callback arrives, the timeout passes or
// ctx is done. The server is shut down before it returns.
func awaitCallback(ctx context.Context, ln net.Listener, state string, timeout time.Duration) (string, error) {
	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		return res.code, res.err
	case err := <-serveErr:
		return "", fmt.Errorf("callback listener failed: %w", err)
	case <-timer.C:
		return "", fmt.Errorf("%w: no callback received within %s", common.ErrAuthTimeout, timeout)
	case <-ctx.Done():
		return "", fmt.Errorf("login aborted: %w", ctx.Err())
	}
}
