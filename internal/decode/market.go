package decode

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

type chainStatsPayload struct {
	Name             string     `json:"name"`
	Height           *int64     `json:"height" validate:"required,gte=0"`
	Hash             string     `json:"hash" validate:"required,chainhash"`
	Time             *time.Time `json:"time" validate:"required"`
	LatestURL        string     `json:"latest_url"`
	PreviousHash     string     `json:"previous_hash" validate:"omitempty,chainhash"`
	PreviousURL      string     `json:"previous_url"`
	PeerCount        *int64     `json:"peer_count" validate:"required,gte=0"`
	UnconfirmedCount *int64     `json:"unconfirmed_count" validate:"required,gte=0"`
	HighFeePerKB     *int64     `json:"high_fee_per_kb" validate:"required,gte=0"`
	MediumFeePerKB   *int64     `json:"medium_fee_per_kb" validate:"required,gte=0"`
	LowFeePerKB      *int64     `json:"low_fee_per_kb" validate:"required,gte=0"`
	LastForkHeight   *int64     `json:"last_fork_height" validate:"required,gte=0"`
	LastForkHash     string     `json:"last_fork_hash" validate:"omitempty,chainhash"`
}

type pricePayload struct {
	USD       *float64 `json:"usd" validate:"required,gte=0"`
	Volume24h *float64 `json:"usd_24h_vol" validate:"required,gte=0"`
}

// ChainStats decodes the chain summary published by the chain statistics API.
func ChainStats(raw []byte) (model.ChainStats, error) {
	var p chainStatsPayload
	if err := strict(recordChainStats, raw, &p); err != nil {
		return model.ChainStats{}, err
	}
	return model.ChainStats{
		Name:             p.Name,
		Height:           *p.Height,
		Hash:             p.Hash,
		Time:             p.Time.UTC(),
		LatestURL:        p.LatestURL,
		PreviousHash:     p.PreviousHash,
		PreviousURL:      p.PreviousURL,
		PeerCount:        *p.PeerCount,
		UnconfirmedCount: *p.UnconfirmedCount,
		HighFeePerKB:     *p.HighFeePerKB,
		MediumFeePerKB:   *p.MediumFeePerKB,
		LowFeePerKB:      *p.LowFeePerKB,
		LastForkHeight:   *p.LastForkHeight,
		LastForkHash:     p.LastForkHash,
	}, nil
}

// Price unwraps the {"<coin>": {"usd": .., "usd_24h_vol": ..}} envelope.
func Price(raw []byte, coin string) (model.PriceQuote, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return model.PriceQuote{}, failure.NewDecodeError(recordPrice, raw, err)
	}
	inner, ok := envelope[coin]
	if !ok {
		return model.PriceQuote{}, failure.NewDecodeError(recordPrice, raw, fmt.Errorf("missing %q entry", coin))
	}

	var p pricePayload
	if err := json.Unmarshal(inner, &p); err != nil {
		return model.PriceQuote{}, failure.NewDecodeError(recordPrice, raw, err)
	}
	if err := validate.Struct(&p); err != nil {
		return model.PriceQuote{}, failure.NewDecodeError(recordPrice, raw, err)
	}
	return model.PriceQuote{USD: *p.USD, Volume24hUSD: *p.Volume24h}, nil
}
