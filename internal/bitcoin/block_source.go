// Package bitcoin samples a Bitcoin node: the current tip block and one
// transaction from the mempool.
package bitcoin

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/decode"
)

// getblock verbosity 1 returns the header fields and txids only.
const blockVerbosity = 1

// BlockSource fetches the tip block through getblockcount, getblockhash and getblock.
type BlockSource struct {
	caller Caller
}

func NewBlockSource(caller Caller) *BlockSource {
	return &BlockSource{caller: caller}
}

// Fetch returns the raw getblock payload of the block at the current tip.
func (s *BlockSource) Fetch(ctx context.Context) ([]byte, error) {
	raw, err := s.caller.Call(ctx, "getblockcount")
	if err != nil {
		return nil, err
	}
	height, err := decode.BlockCount(raw)
	if err != nil {
		return nil, err
	}

	raw, err = s.caller.Call(ctx, "getblockhash", height)
	if err != nil {
		return nil, err
	}
	hash, err := decode.BlockHash(raw)
	if err != nil {
		return nil, err
	}

	return s.caller.Call(ctx, "getblock", hash, blockVerbosity)
}
