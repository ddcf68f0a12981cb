// Package model defines the records sampled by the ingestion pipelines.
package model

// Pipeline names one ingestion pipeline.
type Pipeline string

var (
	BlocksPipeline       Pipeline = "blocks"
	TransactionsPipeline Pipeline = "transactions"
	MarketPipeline       Pipeline = "market"
)

// Pipelines lists every known pipeline in startup order.
func Pipelines() []Pipeline {
	return []Pipeline{BlocksPipeline, TransactionsPipeline, MarketPipeline}
}

// BlockSnapshot is the tip block observed by the node at sampling time.
type BlockSnapshot struct {
	Hash          string `json:"hash"`
	Confirmations int64  `json:"confirmations"`
	Size          int64  `json:"size"`
	Height        int64  `json:"height"`
	Version       int64  `json:"version"`
	Time          int64  `json:"time"`
}

// TransactionSnapshot is a single transaction sampled from the node's mempool.
type TransactionSnapshot struct {
	TxID     string `json:"txid"`
	Size     int64  `json:"size"`
	Version  int64  `json:"version"`
	LockTime int64  `json:"locktime"`
}
