package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/myrjola/pacekeeper/internal/envstruct"
	"github.com/myrjola/pacekeeper/internal/errors"
	"github.com/myrjola/pacekeeper/internal/logging"
	"github.com/myrjola/pacekeeper/internal/sqlite"
	"github.com/myrjola/pacekeeper/internal/training"
	"golang.org/x/sync/errgroup"
)

type application struct {
	logger          *slog.Logger
	trainingService *training.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"PACEKEEPER_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"PACEKEEPER_SQLITE_URL" envDefault:"./pacekeeper.sqlite3"`
	// BackfillOnStart controls whether training load is recomputed for every
	// user before the server starts accepting requests.
	BackfillOnStart string `env:"PACEKEEPER_BACKFILL_ON_START" envDefault:"true"`
	// BackfillConcurrency bounds how many users are backfilled in parallel.
	BackfillConcurrency string `env:"PACEKEEPER_BACKFILL_CONCURRENCY" envDefault:"4"`
	// BackfillDays is the lookback window of the startup recomputation.
	BackfillDays string `env:"PACEKEEPER_BACKFILL_DAYS" envDefault:"90"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	app := application{
		logger:          logger,
		trainingService: training.NewService(db, logger),
	}

	if cfg.BackfillOnStart == "true" {
		concurrency, convErr := strconv.Atoi(cfg.BackfillConcurrency)
		if convErr != nil || concurrency < 1 {
			return errors.Errorf("invalid backfill concurrency %q", cfg.BackfillConcurrency)
		}
		days, convErr := strconv.Atoi(cfg.BackfillDays)
		if convErr != nil || days < 1 {
			return errors.Errorf("invalid backfill days %q", cfg.BackfillDays)
		}
		if err = app.backfillAllUsers(ctx, concurrency, days); err != nil {
			return errors.Wrap(err, "backfill training loads")
		}
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

// backfillAllUsers recomputes the training load history of every user
// concurrently. Each user's walk is independent, so the fan-out is safe.
func (app *application) backfillAllUsers(ctx context.Context, concurrency, days int) error {
	userIDs, err := app.trainingService.UserIDs(ctx)
	if err != nil {
		return errors.Wrap(err, "list users")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			userCtx := contextForUser(gctx, userID)
			from := time.Now().UTC().AddDate(0, 0, -days)
			updated, backfillErr := app.trainingService.RecalculateLoads(userCtx, from)
			if backfillErr != nil {
				return errors.Wrap(backfillErr, "backfill user", slog.Int64("user_id", userID))
			}
			app.logger.LogAttrs(userCtx, slog.LevelInfo, "backfilled training load",
				slog.Int64("user_id", userID), slog.Int("days", updated))
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return errors.Wrap(err, "backfill users")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
