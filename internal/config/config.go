// Package config holds the command line and environment settings of the
// sampler and api-gateway binaries.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

const (
	StorePostgres   = "postgres"
	StoreClickhouse = "clickhouse"

	NodeSourceCLI = "cli"
	NodeSourceRPC = "rpc"
)

// Observability groups logging, metrics and tracing settings.
type Observability struct {
	LogLevel    string `long:"log-level" env:"LOG_LEVEL" description:"log level (debug, info, warn, error)" default:"info"`
	LogFormat   string `long:"log-format" env:"LOG_FORMAT" description:"log encoding" choice:"json" choice:"console" default:"json"`
	MetricsAddr string `long:"metrics-addr" env:"METRICS_ADDR" description:"address for metrics server" default:":2112"`
	JaegerURL   string `long:"jaeger-url" env:"JAEGER_URL" description:"Jaeger collector endpoint, tracing is disabled when empty"`
}

// Sampler configures cmd/btc/sampler.
type Sampler struct {
	Observability `group:"observability" env-namespace:"SAMPLER"`

	Store         string `long:"store" env:"SAMPLER_STORE" description:"storage backend" choice:"postgres" choice:"clickhouse" default:"postgres"`
	PostgresDSN   string `long:"postgres-dsn" env:"SAMPLER_POSTGRES_DSN" description:"Postgres DSN"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"SAMPLER_CLICKHOUSE_DSN" description:"ClickHouse DSN"`

	Pipelines     []string `long:"pipelines" env:"SAMPLER_PIPELINES" env-delim:"," description:"pipelines to run" default:"blocks" default:"transactions" default:"market"`
	PipelinesFile string   `long:"pipelines-file" env:"SAMPLER_PIPELINES_FILE" description:"YAML file overriding per pipeline enabled, interval and timeout"`

	BlocksInterval       time.Duration `long:"blocks-interval" env:"SAMPLER_BLOCKS_INTERVAL" description:"blocks sampling interval" default:"240s"`
	TransactionsInterval time.Duration `long:"transactions-interval" env:"SAMPLER_TRANSACTIONS_INTERVAL" description:"transactions sampling interval" default:"10s"`
	MarketInterval       time.Duration `long:"market-interval" env:"SAMPLER_MARKET_INTERVAL" description:"market sampling interval" default:"60s"`

	NodeSource     string        `long:"node-source" env:"SAMPLER_NODE_SOURCE" description:"how to reach the node" choice:"cli" choice:"rpc" default:"cli"`
	BitcoinCLI     string        `long:"bitcoin-cli" env:"SAMPLER_BITCOIN_CLI" description:"bitcoin-cli executable" default:"bitcoin-cli"`
	BitcoinCLIArgs []string      `long:"bitcoin-cli-arg" env:"SAMPLER_BITCOIN_CLI_ARGS" env-delim:" " description:"argument passed to every bitcoin-cli call"`
	RPCURL         string        `long:"rpc-url" env:"SAMPLER_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser        string        `long:"rpc-user" env:"SAMPLER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword    string        `long:"rpc-password" env:"SAMPLER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	NodeTimeout    time.Duration `long:"node-timeout" env:"SAMPLER_NODE_TIMEOUT" description:"timeout of one node call" default:"30s"`

	ChainStatsURL string        `long:"chain-stats-url" env:"SAMPLER_CHAIN_STATS_URL" description:"chain statistics endpoint" default:"https://api.blockcypher.com/v1/btc/main"`
	PriceURL      string        `long:"price-url" env:"SAMPLER_PRICE_URL" description:"price endpoint" default:"https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd&include_24hr_vol=true"`
	HTTPTimeout   time.Duration `long:"http-timeout" env:"SAMPLER_HTTP_TIMEOUT" description:"timeout of one HTTP request" default:"10s"`
	RateLimit     int           `long:"rate-limit" env:"SAMPLER_RATE_LIMIT" description:"max requests per minute to each HTTP API" default:"30"`

	KeepaliveInterval   time.Duration `long:"keepalive-interval" env:"SAMPLER_KEEPALIVE_INTERVAL" description:"storage ping interval" default:"30s"`
	ReconnectMaxElapsed time.Duration `long:"reconnect-max-elapsed" env:"SAMPLER_RECONNECT_MAX_ELAPSED" description:"give up reconnecting after this long, 0 retries forever" default:"0s"`
}

// API configures cmd/api-gateway.
type API struct {
	Observability `group:"observability" env-namespace:"API_GATEWAY"`

	Addr        string        `long:"addr" env:"API_GATEWAY_ADDR" description:"HTTP listen address" default:":8000"`
	PostgresDSN string        `long:"postgres-dsn" env:"API_GATEWAY_POSTGRES_DSN" description:"Postgres DSN"`
	RedisURL    string        `long:"redis-url" env:"API_GATEWAY_REDIS_URL" description:"Redis URL, caching is disabled when empty"`
	CacheTTL    time.Duration `long:"cache-ttl" env:"API_GATEWAY_CACHE_TTL" description:"TTL of cached list responses" default:"15s"`
}

// ErrHelp is returned when --help was requested.
var ErrHelp = errors.New("help requested")

// ParseSampler parses args and the environment into a validated Sampler.
func ParseSampler(args []string) (*Sampler, error) {
	var cfg Sampler
	if err := parse(&cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseAPI parses args and the environment into a validated API.
func ParseAPI(args []string) (*API, error) {
	var cfg API
	if err := parse(&cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parse(cfg any, args []string) error {
	if _, err := flags.ParseArgs(cfg, args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return ErrHelp
		}
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

// DSN returns the connection string of the selected store.
func (c *Sampler) DSN() string {
	if c.Store == StoreClickhouse {
		return c.ClickhouseDSN
	}
	return c.PostgresDSN
}

// Validate rejects settings the sampler cannot start with.
func (c *Sampler) Validate() error {
	switch c.Store {
	case StorePostgres, StoreClickhouse:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.DSN() == "" {
		return fmt.Errorf("%s DSN is required", c.Store)
	}
	switch c.NodeSource {
	case NodeSourceCLI:
		if c.BitcoinCLI == "" {
			return errors.New("bitcoin-cli path is required")
		}
	case NodeSourceRPC:
		if c.RPCURL == "" {
			return errors.New("rpc url is required")
		}
	default:
		return fmt.Errorf("unknown node source %q", c.NodeSource)
	}

	positive := map[string]time.Duration{
		"blocks-interval":       c.BlocksInterval,
		"transactions-interval": c.TransactionsInterval,
		"market-interval":       c.MarketInterval,
		"node-timeout":          c.NodeTimeout,
		"http-timeout":          c.HTTPTimeout,
		"keepalive-interval":    c.KeepaliveInterval,
	}
	for name, d := range positive {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.ReconnectMaxElapsed < 0 {
		return fmt.Errorf("reconnect-max-elapsed must not be negative, got %s", c.ReconnectMaxElapsed)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate-limit must be positive, got %d", c.RateLimit)
	}
	if len(c.Pipelines) == 0 {
		return errors.New("at least one pipeline is required")
	}
	for _, name := range c.Pipelines {
		if _, err := pipelineByName(name); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects settings the api-gateway cannot start with.
func (c *API) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if c.PostgresDSN == "" {
		return errors.New("postgres DSN is required")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache-ttl must be positive, got %s", c.CacheTTL)
	}
	return nil
}
