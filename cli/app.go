package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-news-portal/api"
	"github.com/jrsteele09/go-news-portal/gate"
	"github.com/jrsteele09/go-news-portal/internal/config"
	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/internal/ui"
	"github.com/jrsteele09/go-news-portal/session"
	"github.com/jrsteele09/go-news-portal/session/boltstore"
	"github.com/jrsteele09/go-news-portal/session/filestore"
	"github.com/jrsteele09/go-news-portal/session/redisstore"
	"github.com/jrsteele09/go-news-portal/views"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App wires the single session store to the API client, the navigator and
// the views. It is built once per process.
type App struct {
	Config    config.Config
	Store     *session.Store
	API       *api.Client
	Navigator *gate.Navigator
	Logger    zerolog.Logger
	Version   string

	ctx          context.Context
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	paint        ui.Painter
	readPassword PasswordReader
	closers      []func() error
}

type appOptions struct {
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	storage      session.Storage
	logger       *zerolog.Logger
	apiOptions   []api.Option
	readPassword PasswordReader
	colour       *bool
	version      string
}

// AppOption configures an App.
type AppOption func(*appOptions)

// WithOutput replaces stdout and stderr.
func WithOutput(stdout, stderr io.Writer) AppOption {
	return func(o *appOptions) {
		o.stdout, o.stderr = stdout, stderr
	}
}

// WithInput replaces stdin for commands that read content from it.
func WithInput(stdin io.Reader) AppOption {
	return func(o *appOptions) {
		o.stdin = stdin
	}
}

// WithStorage bypasses the configured storage backend.
func WithStorage(storage session.Storage) AppOption {
	return func(o *appOptions) {
		o.storage = storage
	}
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger zerolog.Logger) AppOption {
	return func(o *appOptions) {
		o.logger = &logger
	}
}

// WithAPIOptions passes extra options to the API client.
func WithAPIOptions(opts ...api.Option) AppOption {
	return func(o *appOptions) {
		o.apiOptions = append(o.apiOptions, opts...)
	}
}

// WithPasswordReader replaces the terminal password prompt.
func WithPasswordReader(fn PasswordReader) AppOption {
	return func(o *appOptions) {
		o.readPassword = fn
	}
}

// WithColour forces coloured output on or off.
func WithColour(enabled bool) AppOption {
	return func(o *appOptions) {
		o.colour = &enabled
	}
}

// WithVersion sets the version reported by the version command.
func WithVersion(version string) AppOption {
	return func(o *appOptions) {
		o.version = version
	}
}

// NewApp opens the session storage, restores the session and builds the
// client stack on top of it.
func NewApp(cfg config.Config, opts ...AppOption) (*App, error) {
	o := appOptions{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Config:  cfg,
		Version: o.version,
		ctx:     context.Background(),
		stdin:   o.stdin,
		stdout:  o.stdout,
		stderr:  o.stderr,
		paint:   ui.Painter{Enabled: isTerminal(o.stdout)},
	}
	if o.colour != nil {
		a.paint.Enabled = *o.colour
	}
	if o.logger != nil {
		a.Logger = *o.logger
	} else {
		a.Logger = NewLogger(o.stderr, cfg.GetLogLevel())
	}
	a.readPassword = o.readPassword
	if a.readPassword == nil {
		a.readPassword = terminalPasswordReader(os.Stdin, o.stderr)
	}

	storage := o.storage
	if storage == nil {
		opened, closeStorage, err := OpenStorage(cfg)
		if err != nil {
			return nil, err
		}
		storage = opened
		a.closers = append(a.closers, closeStorage)
	}

	a.Store = session.New(storage, session.WithLogger(a.Logger))
	a.Store.Initialize()

	apiOptions := append([]api.Option{
		api.WithTimeout(cfg.GetRequestTimeout()),
		api.WithLogger(a.Logger),
		api.WithSession(a.Store),
	}, o.apiOptions...)
	client, err := api.New(cfg.GetAPIBaseURL(), apiOptions...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.API = client

	a.Navigator = gate.NewNavigator(gate.New(gate.DefaultRoutes...), a.Store, a.Logger)
	a.closers = append(a.closers, func() error {
		a.Navigator.Close()
		return nil
	})
	return a, nil
}

// OpenStorage opens the session storage backend named by the configuration.
// The returned function releases it.
func OpenStorage(cfg config.StorageConfig) (session.Storage, func() error, error) {
	switch cfg.GetStorageBackend() {
	case config.StorageBolt:
		path := cfg.GetBoltPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("[OpenStorage] creating %s: %w", filepath.Dir(path), err)
		}
		store, err := boltstore.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("[OpenStorage] %w", err)
		}
		return store, store.Close, nil
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.GetRedisAddr()})
		return redisstore.New(client, cfg.GetRedisPrefix()), client.Close, nil
	default:
		return filestore.New(cfg.GetSessionFile()), func() error { return nil }, nil
	}
}

// Close releases the storage backend.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run executes one command line and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	a.ctx = ctx
	err := a.Root().Execute(args)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	fmt.Fprintf(a.stderr, "%s %v\n", a.paint.Paint(ui.Red, "Error:"), err)
	return ExitFailure
}

// navigate asks the gate whether the current session may open path. A denied
// view prints where the user was sent instead.
func (a *App) navigate(path string) error {
	requested, err := a.Navigator.Navigate(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errors.ErrRedirected) {
		return err
	}
	fmt.Fprintf(a.stderr, "%s: %s, redirected to %s\n", requested.Path, requested.Reason, a.Navigator.Current().Path)
	switch requested.Redirect {
	case gate.RouteLogin:
		fmt.Fprintln(a.stderr, "Run 'portal login' first.")
	case gate.RouteHome:
		if requested.Pattern == gate.RouteLogin || requested.Pattern == gate.RouteRegister {
			fmt.Fprintln(a.stderr, "Run 'portal logout' to switch accounts.")
		}
	}
	return &ExitError{Code: ExitRedirected}
}

func (a *App) deps() views.Deps {
	return views.Deps{API: a.API, Store: a.Store, Logger: &a.Logger}
}
