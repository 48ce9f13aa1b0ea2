package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/wealthwise/internal/api"
	"github.com/mmynk/wealthwise/internal/auth"
	"github.com/mmynk/wealthwise/internal/config"
	"github.com/mmynk/wealthwise/internal/maintenance"
	"github.com/mmynk/wealthwise/internal/middleware"
	"github.com/mmynk/wealthwise/internal/networth"
	"github.com/mmynk/wealthwise/internal/observability"
	"github.com/mmynk/wealthwise/internal/service"
	"github.com/mmynk/wealthwise/internal/storage/sqlite"
	"github.com/mmynk/wealthwise/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $"+config.ConfigPathEnv+")")
	envPath := flag.String("env", ".env", "path to a dotenv file, skipped if missing")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	level, _ := cfg.LogLevel()
	logging.Setup(level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)
	observability.RegisterDBStats(registry, store.DB())

	limiter := newLoginLimiter(ctx, cfg)
	jwtManager := auth.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
		auth.NewRevocationList(cfg.Auth.RevocationCapacity, cfg.Auth.TokenTTL),
	)
	authenticator := auth.NewPasswordAuthenticator(store)

	srv := api.NewServer(api.Options{
		Gate:     networth.NewGate(store),
		Resolver: middleware.NewPrincipalResolver(jwtManager, store),
		Metrics:  metrics,
		Registry: registry,
	})

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor())
	srv.Mount(service.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, limiter, metrics), interceptors))
	srv.Mount(service.NewGroupServiceHandler(service.NewGroupService(store, metrics), interceptors))

	// h2c serves HTTP/2 without TLS, which Connect clients use.
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           h2c.NewHandler(corsMiddleware(srv.Handler()), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if cfg.Maintenance.PurgeSchedule != "" {
		scheduler := maintenance.NewScheduler(store, metrics, cfg.Maintenance.InviteRetention)
		g.Go(func() error {
			return scheduler.Run(gctx, cfg.Maintenance.PurgeSchedule)
		})
	}

	return g.Wait()
}

// newLoginLimiter uses Redis when configured so that every instance shares
// the same counters, and an in-process limiter otherwise.
func newLoginLimiter(ctx context.Context, cfg *config.Config) auth.LoginLimiter {
	if cfg.Redis.Addr == "" {
		slog.Info("Login limiter in memory", "max_attempts", cfg.Auth.LoginMaxAttempts, "window", cfg.Auth.LoginWindow)
		return auth.NewMemoryLimiter(cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unreachable, login limiter fails open until it recovers", "addr", cfg.Redis.Addr, "error", err)
	}
	slog.Info("Login limiter in redis", "addr", cfg.Redis.Addr, "max_attempts", cfg.Auth.LoginMaxAttempts, "window", cfg.Auth.LoginWindow)
	return auth.NewRedisLimiter(client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
