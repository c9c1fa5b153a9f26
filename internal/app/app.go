// Package app wires the application together and manages its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	cacheRedis "github.com/shortlyhq/shortly/internal/adapter/cache/redis"
	delivery "github.com/shortlyhq/shortly/internal/adapter/delivery/http"
	repoPostgres "github.com/shortlyhq/shortly/internal/adapter/repository/postgres"
	"github.com/shortlyhq/shortly/internal/config"
	"github.com/shortlyhq/shortly/internal/usecase"
	"github.com/shortlyhq/shortly/pkg/postgres"
	"github.com/shortlyhq/shortly/pkg/qrpng"
	"github.com/shortlyhq/shortly/pkg/shortcode"
)

// Run starts the application and blocks until ctx is canceled or a
// fatal error occurs.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := postgres.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	var cache usecase.URLCache
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}
		defer client.Close()

		cache = cacheRedis.NewURLCache(client, cfg.Redis.TTL)
	}

	urlRepo := repoPostgres.NewURLRepository(db)
	analyticsRepo := repoPostgres.NewAnalyticsRepository(db)

	urlUseCase := usecase.NewURLUseCase(urlRepo, cache, shortcode.NanoID{}, cfg.ShortCodeLength)
	analyticsUseCase := usecase.NewAnalyticsUseCase(analyticsRepo)

	router := delivery.NewRouter(newLogger(cfg.Env), delivery.RouterConfig{
		URLs:      urlUseCase,
		Analytics: analyticsUseCase,
		Identity:  delivery.NewTokenIdentity(cfg.APIKeys),
		QREncoder: qrpng.New(0),
		BaseURL:   cfg.BaseURL,
	})

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

func newLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel:       slog.LevelInfo,
		Concise:        true,
		RequestHeaders: true,
	}

	switch env {
	case config.EnvDev:
		opts.LogLevel = slog.LevelDebug
	case config.EnvProd:
		opts.JSON = true
	}

	return httplog.NewLogger("shortly", opts)
}
