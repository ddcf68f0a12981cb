package model

import "time"

// ChainStats is the chain summary published by the chain statistics API.
type ChainStats struct {
	Name             string
	Height           int64
	Hash             string
	Time             time.Time
	LatestURL        string
	PreviousHash     string
	PreviousURL      string
	PeerCount        int64
	UnconfirmedCount int64
	HighFeePerKB     int64
	MediumFeePerKB   int64
	LowFeePerKB      int64
	LastForkHeight   int64
	LastForkHash     string
}

// PriceQuote is a spot price with its trailing 24h volume, both in USD.
type PriceQuote struct {
	USD          float64
	Volume24hUSD float64
}

// MarketSnapshot joins chain statistics with an optional price quote.
// PriceUSD and Volume24hUSD are nil when the price source could not be read.
type MarketSnapshot struct {
	Height           int64     `json:"height"`
	Hash             string    `json:"hash"`
	Time             time.Time `json:"time"`
	LatestURL        string    `json:"latest_url,omitempty"`
	PreviousHash     string    `json:"previous_hash,omitempty"`
	PreviousURL      string    `json:"previous_url,omitempty"`
	PeerCount        int64     `json:"peer_count"`
	UnconfirmedCount int64     `json:"unconfirmed_count"`
	HighFeePerKB     int64     `json:"high_fee_per_kb"`
	MediumFeePerKB   int64     `json:"medium_fee_per_kb"`
	LowFeePerKB      int64     `json:"low_fee_per_kb"`
	LastForkHeight   int64     `json:"last_fork_height"`
	LastForkHash     string    `json:"last_fork_hash,omitempty"`
	PriceUSD         *float64  `json:"price_usd"`
	Volume24hUSD     *float64  `json:"volume_24h_usd"`
	IngestedAt       time.Time `json:"ingested_at"`
}

// NewMarketSnapshot builds a snapshot from chain statistics and an optional quote.
func NewMarketSnapshot(stats ChainStats, quote *PriceQuote, ingestedAt time.Time) MarketSnapshot {
	snapshot := MarketSnapshot{
		Height:           stats.Height,
		Hash:             stats.Hash,
		Time:             stats.Time,
		LatestURL:        stats.LatestURL,
		PreviousHash:     stats.PreviousHash,
		PreviousURL:      stats.PreviousURL,
		PeerCount:        stats.PeerCount,
		UnconfirmedCount: stats.UnconfirmedCount,
		HighFeePerKB:     stats.HighFeePerKB,
		MediumFeePerKB:   stats.MediumFeePerKB,
		LowFeePerKB:      stats.LowFeePerKB,
		LastForkHeight:   stats.LastForkHeight,
		LastForkHash:     stats.LastForkHash,
		IngestedAt:       ingestedAt,
	}
	if quote != nil {
		price, volume := quote.USD, quote.Volume24hUSD
		snapshot.PriceUSD = &price
		snapshot.Volume24hUSD = &volume
	}
	return snapshot
}
