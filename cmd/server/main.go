package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"relay/pkg/platform/middleware/requestmeta"

	"relay/internal/audit"
	"relay/internal/handoff/handler"
	"relay/internal/handoff/service"
	"relay/internal/handoff/session"
	"relay/internal/handoff/signer"
	"relay/internal/handoff/store/kv"
	"relay/internal/handoff/store/nonce"
	"relay/internal/handoff/store/token"
	"relay/internal/login"
	"relay/internal/login/store/user"
	"relay/internal/platform/config"
	"relay/internal/platform/httpserver"
	"relay/internal/platform/logger"
	"relay/internal/platform/metrics"
	"relay/internal/platform/redis"
	"relay/internal/provider"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal packages.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(parseLevel(cfg.LogLevel))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Slot backend: Redis when configured, in-process memory otherwise.
	var backend kv.Store = kv.NewInMemory()
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		backend = kv.NewRedis(redisClient.Client)
		log.Info("slot store backed by redis")
	} else {
		log.Warn("no redis configured, slot store is process-local")
	}

	// User store: Postgres when configured, in-process memory otherwise.
	var users user.Store = user.NewInMemory()
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		pgStore := user.NewPostgres(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return err
		}
		users = pgStore
		log.Info("user store backed by postgres")
	} else {
		log.Warn("no postgres configured, user store is process-local")
	}

	// Audit sink: Kafka when brokers are configured.
	var auditor audit.Publisher = audit.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := audit.NewKafka(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return err
		}
		defer kafka.Close()
		auditor = kafka
		log.Info("audit events published to kafka", "topic", cfg.Kafka.Topic)
	}

	sig := signer.New(cfg.Handoff.Secret)
	nonces := nonce.New(backend, sig, cfg.Handoff.NonceTTL, cfg.Handoff.NonceCreateAttempts)
	tokens := token.New(backend, sig, cfg.Handoff.TokenTTL)

	loginSvc := login.New(users, cfg.Session.JWTSecret, cfg.Session.SessionTTL, log)
	providers := provider.New(cfg.Provider, log)

	coordinator := service.New(nonces, tokens, providers, loginSvc, log,
		service.WithMetrics(metrics.New()),
		service.WithAuditPublisher(auditor),
	)

	cookies := session.NewCookieStore(cfg.Session.CookieSecret)
	h := handler.New(coordinator, loginSvc, cookies,
		cfg.Session.CookieName, cfg.Handoff.MirrorTTL, log)

	router := chi.NewRouter()
	router.Use(chimw.Recoverer)
	router.Use(requestmeta.Middleware)
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("relay listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
