package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-sampler/pkg/safe"
)

// InsertTransaction stores tx unless its txid is already present.
func (r *Repository) InsertTransaction(ctx context.Context, tx model.TransactionSnapshot) (inserted bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_transaction", model.TransactionsPipeline, err, start)
	}()

	size, err := safe.Uint64(tx.Size)
	if err != nil {
		return false, failure.Persistence("insert transaction", fmt.Errorf("size: %w", err))
	}
	lockTime, err := safe.Uint64(tx.LockTime)
	if err != nil {
		return false, failure.Persistence("insert transaction", fmt.Errorf("locktime: %w", err))
	}

	conn := r.current()
	exists, err := keyExists(ctx, conn, `SELECT count() FROM transactions WHERE txid = ?`, tx.TxID)
	if err != nil {
		return false, failure.Persistence("lookup transaction", err)
	}
	if exists {
		return false, nil
	}

	const query = `
INSERT INTO transactions (txid, size, version, locktime)
VALUES (?, ?, ?, ?)`

	if err = conn.Exec(ctx, query, tx.TxID, size, tx.Version, lockTime); err != nil {
		return false, failure.Persistence("insert transaction", err)
	}
	return true, nil
}
