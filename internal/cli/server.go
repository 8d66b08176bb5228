package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/catalog"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/event"
	"trivia-quiz/internal/infra/memory"
	infraredis "trivia-quiz/internal/infra/redis"
	"trivia-quiz/internal/telemetry"
	transport "trivia-quiz/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	var pprofEnabled bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the WebSocket quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, pprofEnabled)
		},
	}
	cmd.Flags().BoolVar(&pprofEnabled, "pprof", false, "mount /debug/pprof")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string, pprofEnabled bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := telemetry.MonitorRedis(redisClient); err != nil {
			return fmt.Errorf("instrument redis: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := telemetry.NewMetrics(registry)
	if err != nil {
		return err
	}

	bus := event.NewBus()
	defer bus.Stop()
	metrics.Register(bus)

	keys := infraredis.Keys{Prefix: cfg.Redis.Prefix}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	loader := catalog.NewEmbeddedLoader()

	var catalogs app.CatalogRepository
	var store app.GameRepository
	if redisClient != nil {
		infraredis.NewNotifier(redisClient, keys).Register(bus)
		catalogs = infraredis.NewCatalogRepository(redisClient, loader, keys, catalogTTL)
		store = infraredis.NewGameStore(redisClient, keys, redisTTL)
	} else {
		catalogs = memory.NewCatalogRepository(loader, catalogTTL)
		store = memory.NewGameStore()
	}

	service := app.NewGameService(store, catalogs, app.ServiceConfig{
		TimeBudget:   cfg.Game.TimeBudget,
		TickInterval: config.TTLDuration(cfg.Game.TickInterval, app.DefaultTickInterval),
		Events:       bus,
	})

	server := &http.Server{
		Addr: ":" + finalPort,
		Handler: transport.NewRouter(transport.RouterConfig{
			WS:       transport.NewWSHandler(service),
			Gatherer: registry,
			Pprof:    pprofEnabled,
		}),
		ReadHeaderTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		slog.InfoContext(egCtx, fmt.Sprintf("server: HTTP listening on port %s", finalPort), "redis", redisClient != nil)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		slog.Error("server: shutdown with error", "error", err)
		return err
	}
	slog.Info("server: shutdown completed")
	return nil
}
