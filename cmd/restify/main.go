// Command restify runs the request pipeline with a small demo API and a
// configurable session store.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/dmitrymomot/restify"
	"github.com/dmitrymomot/restify/middlewares"
	"github.com/dmitrymomot/restify/pkg/cookie"
	"github.com/dmitrymomot/restify/pkg/db"
	"github.com/dmitrymomot/restify/pkg/logger"
	"github.com/dmitrymomot/restify/pkg/redis"
	"github.com/dmitrymomot/restify/pkg/session"
)

func main() {
	configPath := flag.String("config", os.Getenv("RESTIFY_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath, os.LookupEnv)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Sentry,
		logger.WithLevel(cfg.Log.level()),
		logger.WithFormat(cfg.Log.Format),
		logger.WithExtractors(logger.FromContext),
	)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	srv := newServer(cfg, log, store)

	runOpts := []restify.RunOption{
		restify.Address(cfg.Address),
		restify.ShutdownTimeout(cfg.ShutdownTimeout),
	}

	if sweepable, ok := store.Store.(session.Sweepable); ok && cfg.Session.SweepSchedule != "" {
		sweeper, err := session.NewSweeper(sweepable, cfg.Session.SweepSchedule, cfg.Session.SweepIdle,
			session.WithSweeperLogger(log),
		)
		if err != nil {
			return err
		}
		runOpts = append(runOpts,
			restify.StartupHook(sweeper.Start),
			restify.ShutdownHook(sweeper.Stop),
		)
	}
	for _, hook := range store.shutdown {
		runOpts = append(runOpts, restify.ShutdownHook(hook))
	}

	return srv.Run(runOpts...)
}

// newServer wires the pipeline, middlewares and demo routes around store.
func newServer(cfg Config, log *slog.Logger, store *sessionStore) *restify.Server {
	opts := []restify.Option{
		restify.WithLogger(log),
		restify.WithAllowOrigin(cfg.AllowOrigin),
		restify.WithMaxBodyBytes(cfg.MaxBodyBytes),
		restify.WithCookieOptions(cookie.WithSecure(cfg.Session.Secure)),
		restify.WithSessions(store.Store, restify.WithSessionMaxAge(cfg.Session.MaxAge)),
		restify.WithMiddleware(
			middlewares.CORS(middlewares.WithAllowOrigins(cfg.AllowOrigin)),
			middlewares.RequestID(),
			middlewares.AccessLog(),
			middlewares.Recover(),
			middlewares.Timeout(cfg.RequestTimeout),
		),
	}
	for name, check := range store.checks {
		opts = append(opts, restify.WithHealthCheck(name, check))
	}

	srv := restify.New(opts...)
	demo := &demoHandler{sessions: srv.Sessions()}
	demo.Routes(srv)
	return srv
}

// sessionStore is the configured store plus what it needs at runtime.
type sessionStore struct {
	session.Store
	checks   map[string]restify.HealthCheck
	shutdown []func(context.Context) error
}

func openStore(ctx context.Context, cfg Config, log *slog.Logger) (*sessionStore, error) {
	switch cfg.Session.Store {
	case storeFile:
		files, err := session.NewFileStore(cfg.Session.Dir)
		if err != nil {
			return nil, err
		}
		return &sessionStore{Store: files}, nil

	case storeRedis:
		client, err := redis.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return &sessionStore{
			Store:    session.NewRedisStore(client, session.WithRedisTTL(cfg.Session.SweepIdle)),
			checks:   map[string]restify.HealthCheck{"redis": redis.Healthcheck(client)},
			shutdown: []func(context.Context) error{redis.Shutdown(client)},
		}, nil

	case storePostgres:
		pool, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, pool, session.Migrations, "migrations", db.WithMigrationLogger(log)); err != nil {
			pool.Close()
			return nil, err
		}
		return &sessionStore{
			Store:    session.NewPostgresStore(pool),
			checks:   map[string]restify.HealthCheck{"postgres": db.Healthcheck(pool)},
			shutdown: []func(context.Context) error{db.Shutdown(pool)},
		}, nil

	default:
		return &sessionStore{Store: session.NewMemoryStore()}, nil
	}
}
