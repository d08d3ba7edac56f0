// Command server runs the in-memory backend seeded with demo accounts, so the
// portal command can be tried without the real service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-news-portal/cli"
	"github.com/jrsteele09/go-news-portal/internal/fakeapi"
	"github.com/jrsteele09/go-news-portal/internal/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Err(err).Msg("Error running server")
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)
	addr := flags.String("addr", "localhost:8000", "listen address")
	paginate := flags.Bool("paginate", true, "wrap lists in count/results pages")
	logLevel := flags.String("log-level", "debug", "log level")
	if err := flags.Parse(args); err != nil {
		return err
	}
	log.Logger = cli.NewLogger(os.Stderr, *logLevel)

	repo := fakeapi.NewRepo()
	fixture, err := fakeapi.Seed(repo)
	if err != nil {
		return err
	}
	backend := fakeapi.New(repo, fakeapi.WithLogger(log.Logger), fakeapi.WithPagination(*paginate))

	displayAppname("Portal API")
	displayRoutes(backend.Routes())
	fmt.Printf("\nAccounts (password %q): %s (staff), %s, %s\n\n",
		fakeapi.SeedPassword, fixture.Admin.Username, fixture.Alice.Username, fixture.Bob.Username)

	server := &http.Server{Addr: *addr, Handler: http.StripPrefix("/api", backend), ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(server) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	return shutdown(server)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening, API root http://" + server.Addr + "/api/")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func displayRoutes(routes []string) {
	paint := ui.Painter{Enabled: term.IsTerminal(int(os.Stdout.Fd()))}
	for _, route := range routes {
		method, pattern, _ := strings.Cut(route, " ")
		fmt.Printf("[ %s ] /api%s\n", paint.Method(method), pattern)
	}
}
