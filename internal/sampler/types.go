package sampler

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

type (
	// Store is one pipeline's storage connection. Both repository backends
	// implement it.
	Store interface {
		Ping(ctx context.Context) error
		Reconnect(ctx context.Context) error
		Close() error
		EnsureBlocksTable(ctx context.Context) error
		EnsureTransactionsTable(ctx context.Context) error
		EnsureMarketTable(ctx context.Context) error
		InsertBlock(ctx context.Context, b model.BlockSnapshot) (bool, error)
		InsertTransaction(ctx context.Context, tx model.TransactionSnapshot) (bool, error)
		InsertMarketSnapshot(ctx context.Context, snapshot model.MarketSnapshot) error
	}
	// Runner is a prepared pipeline loop.
	Runner interface {
		Name() model.Pipeline
		Prepare(ctx context.Context) error
		Run(ctx context.Context) error
	}
	// Keeper watches a store connection until ctx ends.
	Keeper interface {
		Run(ctx context.Context) error
	}
)
