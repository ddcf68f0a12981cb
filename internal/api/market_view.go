package api

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

// marketView is a stored snapshot with its fee tiers also given in BTC.
type marketView struct {
	model.MarketSnapshot
	HighFeePerKBBTC   string `json:"high_fee_per_kb_btc"`
	MediumFeePerKBBTC string `json:"medium_fee_per_kb_btc"`
	LowFeePerKBBTC    string `json:"low_fee_per_kb_btc"`
}

func newMarketView(m model.MarketSnapshot) marketView {
	return marketView{
		MarketSnapshot:    m,
		HighFeePerKBBTC:   btcutil.Amount(m.HighFeePerKB).String(),
		MediumFeePerKBBTC: btcutil.Amount(m.MediumFeePerKB).String(),
		LowFeePerKBBTC:    btcutil.Amount(m.LowFeePerKB).String(),
	}
}

func newMarketViews(snapshots []model.MarketSnapshot) []marketView {
	views := make([]marketView, 0, len(snapshots))
	for _, m := range snapshots {
		views = append(views, newMarketView(m))
	}
	return views
}
