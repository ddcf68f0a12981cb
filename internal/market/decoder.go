package market

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/decode"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"go.uber.org/zap"
)

// DefaultCoin is the key of the price envelope.
const DefaultCoin = "bitcoin"

// Decoder turns a Payload into a MarketSnapshot stamped with the ingestion time.
type Decoder struct {
	coin   string
	now    clock.NowFunc
	logger *zap.Logger
}

func NewDecoder(coin string, now clock.NowFunc, logger *zap.Logger) *Decoder {
	if coin == "" {
		coin = DefaultCoin
	}
	if now == nil {
		now = clock.UTCNow
	}
	return &Decoder{
		coin:   coin,
		now:    now,
		logger: logger.Named("market_decoder"),
	}
}

// Decode fails when the chain document is invalid. A missing or invalid
// price is logged and leaves the snapshot's price fields nil.
func (d *Decoder) Decode(p Payload) (model.MarketSnapshot, error) {
	stats, err := decode.ChainStats(p.Chain)
	if err != nil {
		return model.MarketSnapshot{}, err
	}

	var quote *model.PriceQuote
	if p.PriceErr != nil {
		d.logger.Warn("price unavailable, storing snapshot without price",
			zap.String("hash", stats.Hash),
			zap.Error(p.PriceErr),
		)
	} else if q, err := decode.Price(p.Price, d.coin); err != nil {
		d.logger.Warn("price rejected, storing snapshot without price",
			zap.String("hash", stats.Hash),
			zap.Error(err),
		)
	} else {
		quote = &q
	}

	return model.NewMarketSnapshot(stats, quote, d.now()), nil
}

// Describe returns the log fields of a stored snapshot. Fee tiers are
// rendered as BTC amounts.
func Describe(s model.MarketSnapshot) []zap.Field {
	fields := []zap.Field{
		zap.Int64("height", s.Height),
		zap.String("hash", s.Hash),
		zap.Int64("unconfirmed_count", s.UnconfirmedCount),
		zap.Stringer("high_fee_per_kb", btcutil.Amount(s.HighFeePerKB)),
		zap.Stringer("medium_fee_per_kb", btcutil.Amount(s.MediumFeePerKB)),
		zap.Stringer("low_fee_per_kb", btcutil.Amount(s.LowFeePerKB)),
	}
	if s.PriceUSD != nil {
		fields = append(fields, zap.Float64("price_usd", *s.PriceUSD))
	}
	return fields
}
