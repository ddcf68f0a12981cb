package pipeline

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

const (
	DefaultBlocksInterval       = 240 * time.Second
	DefaultTransactionsInterval = 10 * time.Second
	DefaultMarketInterval       = 60 * time.Second
)

// DefaultInterval returns the sampling interval used when none is configured.
func DefaultInterval(name model.Pipeline) time.Duration {
	switch name {
	case model.BlocksPipeline:
		return DefaultBlocksInterval
	case model.TransactionsPipeline:
		return DefaultTransactionsInterval
	case model.MarketPipeline:
		return DefaultMarketInterval
	default:
		return DefaultMarketInterval
	}
}
