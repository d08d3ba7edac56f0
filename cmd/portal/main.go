package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/jrsteele09/go-news-portal/cli"
	"github.com/jrsteele09/go-news-portal/internal/config"
	"github.com/rs/zerolog/log"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			exitCode = cli.ExitFailure
		}
	}()

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}
	log.Logger = cli.NewLogger(os.Stderr, cfg.GetLogLevel())

	app, err := cli.NewApp(cfg, cli.WithLogger(log.Logger), cli.WithVersion(version))
	if err != nil {
		log.Err(err).Msg("Cannot start portal")
		return cli.ExitFailure
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn().Err(err).Msg("Closing session storage")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx, args)
}
