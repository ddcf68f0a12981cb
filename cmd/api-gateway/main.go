package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/api"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/cache"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/config"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/logging"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/telemetry"
	"go.uber.org/zap"
)

const serviceName = "blockinsight7000-api-gateway"

func main() {
	cfg, err := config.ParseAPI(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "can't initialize zap logger:", err)
		os.Exit(2)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("api gateway failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.API, logger *zap.Logger) error {
	shutdown, err := telemetry.Init(telemetry.Config{ServiceName: serviceName, JaegerURL: cfg.JaegerURL}, logger)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer shutdown()

	repo, err := postgres.NewRepository(ctx, cfg.PostgresDSN, "", metrics.NewRepository(postgres.Backend))
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()

	responses, err := cache.New(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer func() {
		_ = responses.Close()
	}()

	var responseCache api.Cache
	if responses != nil {
		responseCache = responses
		logger.Info("response cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}

	handler, err := api.NewHandler(repo, responseCache, metrics.NewAPI(), logger)
	if err != nil {
		return err
	}

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("starting http server", zap.String("addr", cfg.Addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}
