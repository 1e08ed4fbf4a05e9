package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jkarhu/packtrack/internal/coach"
	"github.com/jkarhu/packtrack/internal/envstruct"
	"github.com/jkarhu/packtrack/internal/errors"
	"github.com/jkarhu/packtrack/internal/logging"
	"github.com/jkarhu/packtrack/internal/sqlite"
	"github.com/jkarhu/packtrack/internal/workout"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	templateFS     fs.FS
	workoutService *workout.Service
	coachService   *coach.Service
	seriesWeeks    int
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"PACKTRACK_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"PACKTRACK_SQLITE_URL" envDefault:"./packtrack.sqlite3"`
	// TemplatePath is the path to the directory containing the HTML templates.
	TemplatePath string `env:"PACKTRACK_TEMPLATE_PATH" envDefault:""`
	// SeriesWeeks is the number of weeks shown in the dashboard time series.
	SeriesWeeks int `env:"PACKTRACK_SERIES_WEEKS" envDefault:"12"`
	// OpenAIAPIKey enables the model-written weekly coach summary when set.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
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

	var htmlTemplatePath string
	if htmlTemplatePath, err = resolveAndVerifyTemplatePath(cfg.TemplatePath); err != nil {
		return errors.Wrap(err, "resolve template path")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	app := application{
		logger:         logger,
		sessionManager: initializeSessionManager(db),
		templateFS:     os.DirFS(htmlTemplatePath),
		workoutService: workout.NewService(db, logger),
		coachService:   coach.NewService(cfg.OpenAIAPIKey, logger),
		seriesWeeks:    cfg.SeriesWeeks,
	}

	handler, err := app.routes()
	if err != nil {
		return errors.Wrap(err, "build routes")
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, handler); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func initializeSessionManager(dbs *sqlite.Database) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = 12 * time.Hour                                               //nolint:mnd // half a day
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
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
