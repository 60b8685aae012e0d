package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrijs2005/xbm/internal/client/client"
	"github.com/dmitrijs2005/xbm/internal/client/config"
	"github.com/dmitrijs2005/xbm/internal/client/oauth"
	"github.com/dmitrijs2005/xbm/internal/client/render"
	"github.com/dmitrijs2005/xbm/internal/client/repositories/ledger"
	"github.com/dmitrijs2005/xbm/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/xbm/internal/client/services"
	"github.com/dmitrijs2005/xbm/internal/client/session"
	"github.com/dmitrijs2005/xbm/internal/client/syncer"
	"github.com/dmitrijs2005/xbm/internal/common"
	"github.com/dmitrijs2005/xbm/internal/logging"
)

// Version is set at build time.
var Version = "dev"

type globalOptions struct {
	configPath string
	json       bool
	plain      bool
	markdown   bool
	verbose    bool
}

func (o globalOptions) mode() render.Mode {
	switch {
	case o.json:
		return render.JSON
	case o.plain:
		return render.Plain
	case o.markdown:
		return render.Markdown
	default:
		return render.Human
	}
}

type App struct {
	stdout io.Writer
	stderr io.Writer
	opts   globalOptions

	config      *config.Config
	log         logging.Logger
	out         *render.Renderer
	authService services.AuthService
	bookmarks   services.BookmarkService

	loadConfig func(path string, log logging.Logger) (*config.Config, error)
	wire       func(a *App) error
}

func NewApp(stdout, stderr io.Writer) *App {
	return &App{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: config.LoadConfig,
		wire:       wireServices,
	}
}

// setup loads the configuration and builds the services. It runs before
// every command.
func (a *App) setup() error {
	cfg, err := a.loadConfig(a.opts.configPath, logging.New(a.stderr, slog.LevelWarn))
	if err != nil {
		return err
	}
	a.config = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.opts.verbose {
		level = slog.LevelDebug
	}
	a.log = logging.New(a.stderr, level)
	a.out = render.New(a.stdout, a.opts.mode(), a.opts.verbose)

	return a.wire(a)
}

func wireServices(a *App) error {
	cfg := a.config

	store, err := tokens.New(cfg.TokenBackend, cfg.ConfigDir)
	if err != nil {
		return err
	}

	oc := cfg.OAuth()
	oc.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}

	// A nil *oauth.Flow must not end up inside the interface.
	var flow services.LoginFlow
	if cfg.RequireClientCredentials() == nil {
		flow = oauth.NewFlow(oc, store, a.log, oauth.WithOutput(a.stderr))
	}

	mgr := session.NewManager(oc, store, cfg.ExpiryMargin, a.log)
	api := client.NewHTTPClient(cfg.APIBaseURL, &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: session.NewTransport(mgr, http.DefaultTransport),
	})
	ledgerStore := ledger.NewFileRepository(cfg.LedgerFile())

	a.authService = services.NewAuthService(flow, mgr, store, a.log)
	a.bookmarks = services.NewBookmarkService(
		api,
		client.NewPageFetcher(api, cfg.PageSize, cfg.PageInterval),
		syncer.New(ledgerStore, a.log),
		ledgerStore,
		a.log,
	)
	return nil
}

// requireCredentials guards commands that talk to X.
func (a *App) requireCredentials() error {
	return a.config.RequireClientCredentials()
}

// Run executes the command line and returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func (a *App) report(err error) {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	if h := hint(err, time.Now()); h != "" {
		fmt.Fprintln(a.stderr, h)
	}
}

// hint suggests the next step for well-known failures.
func hint(err error, now time.Time) string {
	var rl *client.RateLimitError
	var rf *syncer.RemoteFetchError

	switch {
	case errors.Is(err, common.ErrMissingCredentials):
		return "Create an app at https://developer.x.com and set X_CLIENT_ID and X_CLIENT_SECRET."
	case errors.Is(err, common.ErrNotLoggedIn),
		errors.Is(err, common.ErrReauthRequired),
		errors.Is(err, client.ErrUnauthorized):
		return "Run: xbm auth login"
	case errors.As(err, &rl) && !rl.ResetAt.IsZero():
		return waitHint(rl.ResetAt, now)
	case errors.As(err, &rf) && !rf.ResetAt.IsZero():
		return waitHint(rf.ResetAt, now)
	case errors.Is(err, common.ErrRateLimited):
		return "Rate limited by X. Wait a few minutes and try again."
	case errors.Is(err, common.ErrPortInUse):
		return "Pass a free port with: xbm auth login --port <port>"
	case errors.Is(err, common.ErrCorruptLedger):
		return "The ledger was left untouched. Fix or move the file, then run: xbm sync"
	case errors.Is(err, common.ErrTokenExchange):
		return "Check that the callback URL registered for your app matches and that the client credentials are correct."
	}
	return ""
}

func waitHint(reset, now time.Time) string {
	wait := reset.Sub(now).Round(time.Second)
	if wait < 0 {
		wait = 0
	}
	return fmt.Sprintf("Rate limited by X. Try again in %s (at %s).", wait, reset.Local().Format("15:04:05"))
}
