package sampler

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

type blockPersister struct{ store Store }

func (p blockPersister) EnsureSchema(ctx context.Context) error {
	return p.store.EnsureBlocksTable(ctx)
}

func (p blockPersister) Persist(ctx context.Context, b model.BlockSnapshot) (bool, error) {
	return p.store.InsertBlock(ctx, b)
}

type transactionPersister struct{ store Store }

func (p transactionPersister) EnsureSchema(ctx context.Context) error {
	return p.store.EnsureTransactionsTable(ctx)
}

func (p transactionPersister) Persist(ctx context.Context, tx model.TransactionSnapshot) (bool, error) {
	return p.store.InsertTransaction(ctx, tx)
}

// marketPersister appends; every stored snapshot counts as inserted.
type marketPersister struct{ store Store }

func (p marketPersister) EnsureSchema(ctx context.Context) error {
	return p.store.EnsureMarketTable(ctx)
}

func (p marketPersister) Persist(ctx context.Context, m model.MarketSnapshot) (bool, error) {
	if err := p.store.InsertMarketSnapshot(ctx, m); err != nil {
		return false, err
	}
	return true, nil
}
