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

	btcdrpc "github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/config"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/logging"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/sampler"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/source"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/supervisor"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "blockinsight7000-sampler"

func main() {
	cfg, err := config.ParseSampler(os.Args[1:])
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
		logger.Fatal("sampler failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Sampler, logger *zap.Logger) error {
	pipelines, err := cfg.EnabledPipelines()
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Init(telemetry.Config{ServiceName: serviceName, JaegerURL: cfg.JaegerURL}, logger)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer shutdown()

	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	var rpcClient *btcdrpc.Client
	if cfg.NodeSource == config.NodeSourceRPC {
		rpcClient, err = rpcclient.Dial(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
		if err != nil {
			return fmt.Errorf("init rpc client: %w", err)
		}
		defer func() {
			rpcClient.Shutdown()
			rpcClient.WaitForShutdown()
		}()
	}

	units := make([]sampler.Unit, 0, len(pipelines))
	closeUnits := func() {
		for _, u := range units {
			_ = u.Store.Close()
		}
	}
	for _, p := range pipelines {
		unit, err := newUnit(ctx, cfg, p, rpcClient, logger)
		if err != nil {
			closeUnits()
			return fmt.Errorf("%s pipeline: %w", p.Name, err)
		}
		units = append(units, unit)
		logger.Info("pipeline configured",
			zap.String("pipeline", string(p.Name)),
			zap.String("store", cfg.Store),
			zap.Duration("interval", p.Interval),
			zap.Duration("timeout", p.Timeout),
		)
	}

	s, err := sampler.New(units, logger)
	if err != nil {
		closeUnits()
		return err
	}
	return s.Run(ctx)
}

// newUnit opens the pipeline's own store connection and builds its loop
// and supervisor.
func newUnit(
	ctx context.Context,
	cfg *config.Sampler,
	p config.Pipeline,
	rpcClient *btcdrpc.Client,
	logger *zap.Logger,
) (sampler.Unit, error) {
	store, err := openStore(ctx, cfg, p.Name)
	if err != nil {
		return sampler.Unit{}, failure.Startup("connect "+cfg.Store, err)
	}

	runner, err := newPipeline(cfg, p, store, rpcClient, logger)
	if err != nil {
		_ = store.Close()
		return sampler.Unit{}, err
	}

	keeper, err := supervisor.New(supervisor.Config{
		Name:       string(p.Name),
		Interval:   cfg.KeepaliveInterval,
		MaxElapsed: cfg.ReconnectMaxElapsed,
	}, store, metrics.NewSupervisor(p.Name), logger)
	if err != nil {
		_ = store.Close()
		return sampler.Unit{}, err
	}

	return sampler.Unit{Pipeline: runner, Supervisor: keeper, Store: store}, nil
}

func openStore(ctx context.Context, cfg *config.Sampler, owner model.Pipeline) (sampler.Store, error) {
	switch cfg.Store {
	case config.StoreClickhouse:
		return clickhouse.NewRepository(ctx, cfg.ClickhouseDSN, owner, metrics.NewRepository(clickhouse.Backend))
	default:
		return postgres.NewRepository(ctx, cfg.PostgresDSN, owner, metrics.NewRepository(postgres.Backend))
	}
}

func newPipeline(
	cfg *config.Sampler,
	p config.Pipeline,
	store sampler.Store,
	rpcClient *btcdrpc.Client,
	logger *zap.Logger,
) (sampler.Runner, error) {
	pipelineMetrics := metrics.NewPipeline(p.Name)

	if p.Name == model.MarketPipeline {
		chain, err := source.NewHTTP("blockcypher", cfg.ChainStatsURL, p.Timeout, cfg.RateLimit, metrics.NewSource("blockcypher"))
		if err != nil {
			return nil, err
		}
		price, err := source.NewHTTP("coingecko", cfg.PriceURL, p.Timeout, cfg.RateLimit, metrics.NewSource("coingecko"))
		if err != nil {
			return nil, err
		}
		return sampler.NewMarketPipeline(chain, price, store, p.Interval, pipelineMetrics, logger)
	}

	caller, err := newCaller(cfg, p.Timeout, rpcClient)
	if err != nil {
		return nil, err
	}
	if p.Name == model.TransactionsPipeline {
		return sampler.NewTransactionsPipeline(caller, store, p.Interval, pipelineMetrics, logger)
	}
	return sampler.NewBlocksPipeline(caller, store, p.Interval, pipelineMetrics, logger)
}

func newCaller(cfg *config.Sampler, timeout time.Duration, rpcClient *btcdrpc.Client) (bitcoin.Caller, error) {
	if cfg.NodeSource == config.NodeSourceRPC {
		return rpcclient.NewObservedClient(rpcClient, metrics.NewSource("bitcoind-rpc"), timeout), nil
	}
	return source.NewProcess(cfg.BitcoinCLI, cfg.BitcoinCLIArgs, timeout, metrics.NewSource("bitcoin-cli"))
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
