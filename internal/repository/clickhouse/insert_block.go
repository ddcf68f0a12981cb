package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-sampler/pkg/safe"
)

// InsertBlock stores b unless its hash is already present.
func (r *Repository) InsertBlock(ctx context.Context, b model.BlockSnapshot) (inserted bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_block", model.BlocksPipeline, err, start)
	}()

	confirmations, err := safe.Uint64(b.Confirmations)
	if err != nil {
		return false, failure.Persistence("insert block", fmt.Errorf("confirmations: %w", err))
	}
	size, err := safe.Uint64(b.Size)
	if err != nil {
		return false, failure.Persistence("insert block", fmt.Errorf("size: %w", err))
	}
	height, err := safe.Uint64(b.Height)
	if err != nil {
		return false, failure.Persistence("insert block", fmt.Errorf("height: %w", err))
	}

	conn := r.current()
	exists, err := keyExists(ctx, conn, `SELECT count() FROM blocks WHERE hash = ?`, b.Hash)
	if err != nil {
		return false, failure.Persistence("lookup block", err)
	}
	if exists {
		return false, nil
	}

	const query = `
INSERT INTO blocks (hash, confirmations, size, height, version, time)
VALUES (?, ?, ?, ?, ?, ?)`

	if err = conn.Exec(ctx, query, b.Hash, confirmations, size, height, b.Version, b.Time); err != nil {
		return false, failure.Persistence("insert block", err)
	}
	return true, nil
}

func keyExists(ctx context.Context, conn Conn, query string, key string) (bool, error) {
	var n uint64
	if err := conn.QueryRow(ctx, query, key).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
