package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/myrjola/intervalplan/internal/envstruct"
	"github.com/myrjola/intervalplan/internal/errors"
	"github.com/myrjola/intervalplan/internal/flightrecorder"
	"github.com/myrjola/intervalplan/internal/logging"
	"github.com/myrjola/intervalplan/internal/sqlite"
	"github.com/myrjola/intervalplan/internal/suggest"
	"github.com/myrjola/intervalplan/internal/workout"
	"github.com/yuin/goldmark"
)

type application struct {
	logger         *slog.Logger
	templateFS     fs.FS
	markdown       goldmark.Markdown
	workoutService *workout.Service
	// suggestionProxy serves the trusted suggestion endpoint. It is nil when no provider key is configured.
	suggestionProxy workout.Suggester
	// recorder captures an execution trace when a request times out. Nil disables it.
	recorder *flightrecorder.Recorder
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"INTERVALPLAN_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"INTERVALPLAN_SQLITE_URL" envDefault:"./intervalplan.sqlite3"`
	// RestSeconds is the rest between two exercises of a plan.
	RestSeconds int `env:"INTERVALPLAN_REST_SECONDS" envDefault:"30"`
	// OvershootSeconds is how far an AI-assisted plan may run over the requested duration. Negative disables it.
	OvershootSeconds int `env:"INTERVALPLAN_OVERSHOOT_SECONDS" envDefault:"60"`
	// CatalogTTL is how long the exercise catalog is cached.
	CatalogTTL time.Duration `env:"INTERVALPLAN_CATALOG_TTL" envDefault:"5m"`
	// ProxyURL is the edge suggestion proxy. Empty makes the edge tier fail immediately.
	ProxyURL     string        `env:"INTERVALPLAN_PROXY_URL" envDefault:""`
	ProxyTimeout time.Duration `env:"INTERVALPLAN_PROXY_TIMEOUT" envDefault:"10s"`
	// DirectProvider is either openai or gemini.
	DirectProvider string `env:"INTERVALPLAN_DIRECT_PROVIDER" envDefault:"openai"`
	// DirectAPIKey enables the direct tier.
	DirectAPIKey  string        `env:"INTERVALPLAN_DIRECT_API_KEY" envDefault:""`
	DirectModel   string        `env:"INTERVALPLAN_DIRECT_MODEL" envDefault:""`
	DirectBaseURL string        `env:"INTERVALPLAN_DIRECT_BASE_URL" envDefault:""`
	DirectTimeout time.Duration `env:"INTERVALPLAN_DIRECT_TIMEOUT" envDefault:"10s"`
	// ProxyProviderAPIKey is the server-held OpenAI key behind POST /api/suggestions. Empty disables the endpoint.
	ProxyProviderAPIKey  string `env:"INTERVALPLAN_PROXY_PROVIDER_API_KEY" envDefault:""`
	ProxyProviderBaseURL string `env:"INTERVALPLAN_PROXY_PROVIDER_BASE_URL" envDefault:""`
	// TracesDir enables the flight recorder. Timed out requests dump a trace into it.
	TracesDir string `env:"INTERVALPLAN_TRACES_DIR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()

	generatorCfg := workout.GeneratorConfig{
		Edge:             nil,
		Direct:           nil,
		EdgeTimeout:      cfg.ProxyTimeout,
		DirectTimeout:    cfg.DirectTimeout,
		RestSeconds:      cfg.RestSeconds,
		OvershootSeconds: cfg.OvershootSeconds,
		IntN:             nil,
		Logger:           logger,
	}
	if cfg.ProxyURL != "" {
		generatorCfg.Edge = suggest.NewProxyClient(cfg.ProxyURL, http.DefaultClient, logger)
	}
	if cfg.DirectAPIKey != "" {
		var completer suggest.Completer
		if completer, err = newCompleter(ctx, cfg); err != nil {
			return errors.Wrap(err, "new completer", slog.String("provider", cfg.DirectProvider))
		}
		generatorCfg.Direct = suggest.NewDirectSuggester(completer, cfg.RestSeconds, logger)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "configured suggestion tiers",
		slog.Bool("edge", generatorCfg.Edge != nil),
		slog.Bool("direct", generatorCfg.Direct != nil),
		slog.Bool("proxy_endpoint", cfg.ProxyProviderAPIKey != ""))

	generator := workout.NewGenerator(generatorCfg)
	catalog := workout.NewCachedCatalog(workout.NewSQLiteCatalog(db), cfg.CatalogTTL, logger)

	app := application{
		logger:          logger,
		templateFS:      templateFS(),
		markdown:        newMarkdown(),
		workoutService:  workout.NewService(catalog, generator, logger),
		suggestionProxy: nil,
		recorder:        nil,
	}
	if cfg.TracesDir != "" {
		if app.recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:    logger,
			Directory: cfg.TracesDir,
			MinAge:    0,
			MaxBytes:  0,
			Cooldown:  0,
			Now:       nil,
		}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = app.recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer app.recorder.Stop(ctx)
	}
	if cfg.ProxyProviderAPIKey != "" {
		completer := suggest.NewOpenAICompleter(cfg.ProxyProviderAPIKey, cfg.ProxyProviderBaseURL, "")
		app.suggestionProxy = suggest.NewDirectSuggester(completer, generator.RestSeconds(), logger)
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func newCompleter(ctx context.Context, cfg config) (suggest.Completer, error) {
	switch cfg.DirectProvider {
	case "openai":
		return suggest.NewOpenAICompleter(cfg.DirectAPIKey, cfg.DirectBaseURL, cfg.DirectModel), nil
	case "gemini":
		completer, err := suggest.NewGeminiCompleter(ctx, cfg.DirectAPIKey, cfg.DirectBaseURL, cfg.DirectModel)
		if err != nil {
			return nil, errors.Wrap(err, "new gemini completer")
		}
		return completer, nil
	default:
		return nil, errors.New("unknown direct provider", slog.String("provider", cfg.DirectProvider))
	}
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
