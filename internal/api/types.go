package api

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

type (
	// Reader serves stored snapshots. Lookups that match nothing return an
	// error wrapping failure.ErrNotFound.
	Reader interface {
		Ping(ctx context.Context) error
		ListBlocks(ctx context.Context, limit int) ([]model.BlockSnapshot, error)
		BlockByHash(ctx context.Context, hash string) (model.BlockSnapshot, error)
		TransactionByTxID(ctx context.Context, txid string) (model.TransactionSnapshot, error)
		ListMarketSnapshots(ctx context.Context, limit int) ([]model.MarketSnapshot, error)
		LatestMarketSnapshot(ctx context.Context, hash string) (model.MarketSnapshot, error)
	}
	// Cache holds serialized list responses.
	Cache interface {
		Get(ctx context.Context, key string) ([]byte, bool, error)
		Set(ctx context.Context, key string, value []byte) error
	}
	Metrics interface {
		ObserveRequest(route string, code int, started time.Time)
		ObserveCache(hit bool)
	}
)
