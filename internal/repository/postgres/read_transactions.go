package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/jackc/pgx/v5"
)

// TransactionByTxID returns the stored transaction or failure.ErrNotFound.
func (r *Repository) TransactionByTxID(ctx context.Context, txid string) (tx model.TransactionSnapshot, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("transaction_by_txid", model.TransactionsPipeline, ignoreNotFound(err), start)
	}()

	const query = `
SELECT txid, size, version, locktime
FROM transactions
WHERE txid = $1`

	err = r.conn.QueryRow(ctx, query, txid).Scan(&tx.TxID, &tx.Size, &tx.Version, &tx.LockTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TransactionSnapshot{}, fmt.Errorf("transaction %s: %w", txid, failure.ErrNotFound)
	}
	if err != nil {
		return model.TransactionSnapshot{}, failure.Persistence("transaction by txid", err)
	}
	return tx, nil
}
