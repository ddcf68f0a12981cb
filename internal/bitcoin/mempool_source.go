package bitcoin

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/decode"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
)

// MempoolSource fetches one unconfirmed transaction. It samples the first
// txid reported by getrawmempool; the node does not define that order.
type MempoolSource struct {
	caller Caller
}

func NewMempoolSource(caller Caller) *MempoolSource {
	return &MempoolSource{caller: caller}
}

// Fetch returns the raw verbose getrawtransaction payload of the sampled txid.
// An empty mempool yields failure.ErrNoSnapshot.
func (s *MempoolSource) Fetch(ctx context.Context) ([]byte, error) {
	raw, err := s.caller.Call(ctx, "getrawmempool")
	if err != nil {
		return nil, err
	}
	txids, err := decode.MempoolTxIDs(raw)
	if err != nil {
		return nil, err
	}
	if len(txids) == 0 {
		return nil, fmt.Errorf("mempool is empty: %w", failure.ErrNoSnapshot)
	}

	return s.caller.Call(ctx, "getrawtransaction", txids[0], true)
}
