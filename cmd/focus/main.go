// Package main implements the focus CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/focus-go"
	"github.com/benjamonnguyen/focus-go/events"
	"github.com/benjamonnguyen/focus-go/progression"
	"github.com/benjamonnguyen/focus-go/sqlite"
)

var (
	isProd bool
	debug  bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "focus",
	Short:        "Focus timer that turns focused time into skill XP",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&isProd, "prod", false, "load .env instead of .env.dev")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging with caller info")
}

type app struct {
	cfg      focus.Config
	settings focus.Settings
	db       *sqlite.DB
	history  focus.HistoryRepo
	bus      *events.Bus
	svc      *progression.Service
	l        *log.Logger
	out      io.Writer
}

func newApp(ctx context.Context, out io.Writer) (*app, error) {
	// config
	cfg, err := focus.LoadConfig(isProd)
	if err != nil {
		return nil, err
	}

	// logger
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", focus.LogLevelEnv, err)
	}
	if debug {
		level = log.DebugLevel
	}
	l := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    debug,
		TimeFormat:      time.Kitchen,
	})

	settings, err := focus.LoadSettings(cfg.SettingsPath)
	if err != nil {
		l.Warn("using default settings", "path", cfg.SettingsPath, "err", err)
	}

	// db
	l.Debug("opening db", "path", cfg.DatabasePath)
	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close() //nolint
		return nil, err
	}

	tx, dbGetter := txStdLib.NewTransactor(
		db.DB(),
		txStdLib.NestedTransactionsSavepoints,
	)

	bus := events.NewBus(l)
	bus.SubscribeAll(func(_ context.Context, kind events.Kind, payload any) error {
		l.Debug("event", "kind", kind, "payload", payload)
		return nil
	})

	svc := progression.NewService(progression.Repos{
		Skills: sqlite.NewSkillRepo(dbGetter, l),
		Stats:  sqlite.NewStatRepo(dbGetter, l),
		Goals:  sqlite.NewGoalRepo(dbGetter, l),
	}, tx, bus, l)

	a := &app{
		cfg:      cfg,
		settings: settings,
		db:       db,
		history:  sqlite.NewHistoryRepo(dbGetter, l),
		bus:      bus,
		svc:      svc,
		l:        l,
		out:      out,
	}
	if err := a.seedSkills(ctx); err != nil {
		a.Close() //nolint
		return nil, err
	}
	return a, nil
}

func (a *app) seedSkills(ctx context.Context) error {
	for _, seed := range a.settings.Skills {
		if _, err := a.svc.EnsureSkill(ctx, seed); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// withApp builds the app for one command run and closes it afterwards.
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				a.l.Error("failed to close db", "err", err)
			}
		}()

		err = fn(ctx, a, args)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}
