package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/meetsched/internal/calendar"
	"github.com/roach88/meetsched/internal/config"
	"github.com/roach88/meetsched/internal/domain"
	"github.com/roach88/meetsched/internal/interchange"
	"github.com/roach88/meetsched/internal/people"
	"github.com/roach88/meetsched/internal/scheduler"
	"github.com/roach88/meetsched/internal/store"
)

// app is everything a command needs, built from the resolved config.
type app struct {
	cfg       config.Config
	store     *store.SQLStore
	people    *people.Service
	scheduler *scheduler.Scheduler
	exporter  *interchange.Exporter
	importer  *interchange.Reconciler
	logger    *slog.Logger
	out       *OutputFormatter
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// resolveConfig loads the config and applies flag overrides.
func resolveConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.Driver != "" {
		cfg.Database.Driver = opts.Driver
	}
	if opts.Database != "" {
		cfg.Database.DSN = opts.Database
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

// newLogger builds the slog logger described by cfg, writing to w.
func newLogger(cfg config.Log, w io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// openApp resolves config, opens the store and wires the services.
// The caller must call close.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	out := newFormatter(opts, cmd)

	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, out.commandError(ErrCodeConfig, "failed to load config", err)
	}

	logger := newLogger(cfg.Log, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	logger.Debug("opening database", "driver", cfg.Database.Driver)
	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, out.commandError(ErrCodeDatabase, "failed to open database", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var uids calendar.UIDGenerator = calendar.UUIDv7Generator{}
	if opts.UIDs != nil {
		uids = opts.UIDs
	}

	sched := scheduler.New(st,
		scheduler.WithClock(func() time.Time { return domain.Naive(now()) }),
		scheduler.WithLogger(logger))
	codec := calendar.NewCodec(
		calendar.WithProductID(cfg.Calendar.ProductID),
		calendar.WithUIDDomain(cfg.Calendar.UIDDomain),
		calendar.WithUIDGenerator(uids),
		calendar.WithClock(now))

	return &app{
		cfg:       cfg,
		store:     st,
		people:    people.NewService(st, logger),
		scheduler: sched,
		exporter:  interchange.NewExporter(sched, codec, logger),
		importer:  interchange.NewReconciler(st, sched, logger),
		logger:    logger,
		out:       out,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

// withApp runs fn with an opened app.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

// parseTime parses a --start/--end/--from/--to flag value.
func parseTime(out *OutputFormatter, flag, value string) (time.Time, error) {
	t, err := domain.ParseNaive(value)
	if err != nil {
		return time.Time{}, out.commandError(ErrCodeBadInput,
			fmt.Sprintf("invalid --%s %q: expected YYYY-MM-DD HH:MM", flag, value), nil)
	}
	return t, nil
}
