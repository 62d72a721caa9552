package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"annotate-web/internal/adapters/auth/jwtclaims"
	"annotate-web/internal/adapters/storage/memory"
	pg "annotate-web/internal/adapters/storage/postgres"
	rds "annotate-web/internal/adapters/storage/redis"
	"annotate-web/internal/api"
	"annotate-web/internal/domain/session"
	"annotate-web/internal/platform/config"
	"annotate-web/internal/platform/httpclient"
	"annotate-web/internal/platform/logger"
	"annotate-web/internal/platform/metrics"
	"annotate-web/internal/platform/ratelimit"
	"annotate-web/internal/router"
)

const sweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).Error("config error", map[string]any{"error": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server error", map[string]any{"error": err})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api.Location = cfg.Location
	m := metrics.New()

	base, err := httpclient.NewWithBaseURL(cfg.APIBaseURL, cfg.APITimeout)
	if err != nil {
		return err
	}
	base.Log = log
	base.Observer = m

	store, sweep, closeStore, err := openSessions(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	h := router.NewRouter(router.Options{
		Log:          log,
		Base:         base,
		Sessions:     store,
		CookieName:   cfg.SessionCookie,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
		Metrics:      m,
		Tokens:       jwtclaims.New(),
		Limiter:      ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow),
	})

	// sin WriteTimeout: los uploads de hasta 500 MB se cortan por contexto
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", map[string]any{
			"addr":            cfg.Addr,
			"api":             cfg.APIBaseURL,
			"session_backend": cfg.SessionBackend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Info("shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	})
	if sweep != nil {
		g.Go(func() error {
			t := time.NewTicker(sweepInterval)
			defer t.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-t.C:
					n, err := sweep(gctx)
					if err != nil {
						log.Warn("session sweep failed", map[string]any{"error": err})
						continue
					}
					if n > 0 {
						log.Debug("expired sessions removed", map[string]any{"count": n})
					}
				}
			}
		})
	}

	return g.Wait()
}

type sweeper func(ctx context.Context) (int64, error)

// openSessions elige el store de sesión según SESSION_BACKEND.
func openSessions(ctx context.Context, cfg config.Config, log logger.Logger) (session.KV, sweeper, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendPostgres:
		db, err := pg.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		s := pg.NewSessionStore(db, cfg.SessionTTL)
		log.Info("sessions in postgres", nil)
		return s, s.DeleteExpired, func() { _ = db.Close() }, nil

	case config.BackendRedis:
		client, err := rds.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("sessions in redis", map[string]any{"addr": cfg.RedisAddr})
		// redis vence las claves solo (TTL)
		return rds.NewSessionStore(client, cfg.SessionTTL), nil, func() { _ = client.Close() }, nil

	default:
		s := memory.NewSessionStore(cfg.SessionTTL)
		log.Warn("sessions in memory: they are lost on restart", nil)
		return s, func(context.Context) (int64, error) { return int64(s.Sweep()), nil }, func() {}, nil
	}
}
