package postgres

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

// InsertTransaction stores tx unless a transaction with the same txid exists.
func (r *Repository) InsertTransaction(ctx context.Context, tx model.TransactionSnapshot) (inserted bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_transaction", model.TransactionsPipeline, err, start)
	}()

	const query = `
INSERT INTO transactions (txid, size, version, locktime)
VALUES ($1, $2, $3, $4)
ON CONFLICT (txid) DO NOTHING`

	tag, err := r.conn.Exec(ctx, query, tx.TxID, tx.Size, tx.Version, tx.LockTime)
	if err != nil {
		return false, failure.Persistence("insert transaction", err)
	}
	return tag.RowsAffected() == 1, nil
}
