package sampler

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/decode"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/market"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/pipeline"
	"go.uber.org/zap"
)

// NewBlocksPipeline samples the chain tip block through caller into store.
func NewBlocksPipeline(
	caller bitcoin.Caller,
	store Store,
	interval time.Duration,
	metrics pipeline.Metrics,
	logger *zap.Logger,
) (*pipeline.Pipeline[[]byte, model.BlockSnapshot], error) {
	return pipeline.New(pipeline.Config[[]byte, model.BlockSnapshot]{
		Name:      model.BlocksPipeline,
		Interval:  interval,
		Source:    bitcoin.NewBlockSource(caller),
		Decode:    decode.Block,
		Persister: blockPersister{store: store},
		Describe:  bitcoin.DescribeBlock,
	}, metrics, logger)
}

// NewTransactionsPipeline samples one mempool transaction per cycle.
func NewTransactionsPipeline(
	caller bitcoin.Caller,
	store Store,
	interval time.Duration,
	metrics pipeline.Metrics,
	logger *zap.Logger,
) (*pipeline.Pipeline[[]byte, model.TransactionSnapshot], error) {
	return pipeline.New(pipeline.Config[[]byte, model.TransactionSnapshot]{
		Name:      model.TransactionsPipeline,
		Interval:  interval,
		Source:    bitcoin.NewMempoolSource(caller),
		Decode:    decode.Transaction,
		Persister: transactionPersister{store: store},
		Describe:  bitcoin.DescribeTransaction,
	}, metrics, logger)
}

// NewMarketPipeline joins chain statistics with a price quote per cycle.
func NewMarketPipeline(
	chain, price market.Fetcher,
	store Store,
	interval time.Duration,
	metrics pipeline.Metrics,
	logger *zap.Logger,
) (*pipeline.Pipeline[market.Payload, model.MarketSnapshot], error) {
	decoder := market.NewDecoder(market.DefaultCoin, nil, logger.With(zap.String("pipeline", string(model.MarketPipeline))))
	return pipeline.New(pipeline.Config[market.Payload, model.MarketSnapshot]{
		Name:      model.MarketPipeline,
		Interval:  interval,
		Source:    market.NewSource(chain, price),
		Decode:    decoder.Decode,
		Persister: marketPersister{store: store},
		Describe:  market.Describe,
	}, metrics, logger)
}
