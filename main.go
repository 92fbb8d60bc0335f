package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/sadopc/dayplan/internal/config"
	"github.com/sadopc/dayplan/internal/logging"
	"github.com/sadopc/dayplan/internal/server"
	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/tui"
)

const usage = `Usage: dayplan [flags] [serve]

Without a command dayplan opens the terminal planner. "serve" starts the
HTTP API instead.

Flags:
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("dayplan", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	config.Flags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	serve := false
	switch flags.Arg(0) {
	case "":
	case "serve":
		serve = true
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", flags.Arg(0))
	}

	cfgPath, _ := flags.GetString("config")
	cfg, err := config.Load(cfgPath, flags)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so it always logs to the file.
	logger, closer, err := logging.New(cfg.Log, serve && cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer closer.Close()
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	logger.Info().Str("env", cfg.Env).Str("backend", cfg.Storage.Backend).Str("data", cfg.Storage.Path).Msg("starting dayplan")

	if serve {
		return server.New(repo, logger).Run(ctx, cfg.Server)
	}

	p := tea.NewProgram(tui.NewApp(repo, cfg, cfgPath), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func openRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store.Repository, error) {
	var (
		p   store.Persister
		err error
	)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		p, err = store.NewSQLite(cfg.Storage.Path)
	default:
		p, err = store.NewJSONFile(cfg.Storage.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	repo, err := store.Open(ctx, p,
		store.WithLogger(logger.With().Str("component", "store").Logger()),
		store.WithDefaultTasks(cfg.Planner.DefaultTasks),
	)
	if err != nil {
		p.Close()
		return nil, err
	}
	return repo, nil
}
