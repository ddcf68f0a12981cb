package decode

import (
	"encoding/json"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

type transactionPayload struct {
	TxID     string `json:"txid" validate:"required,chainhash"`
	Size     *int64 `json:"size" validate:"required,gte=0"`
	Version  *int64 `json:"version" validate:"required"`
	LockTime *int64 `json:"locktime" validate:"required,gte=0"`
}

// Transaction decodes a verbose transaction as returned by getrawtransaction.
func Transaction(raw []byte) (model.TransactionSnapshot, error) {
	var p transactionPayload
	if err := strict(recordTransaction, raw, &p); err != nil {
		return model.TransactionSnapshot{}, err
	}
	return model.TransactionSnapshot{
		TxID:     p.TxID,
		Size:     *p.Size,
		Version:  *p.Version,
		LockTime: *p.LockTime,
	}, nil
}

// MempoolTxIDs decodes the txid list returned by getrawmempool.
func MempoolTxIDs(raw []byte) ([]string, error) {
	var txids []string
	if err := json.Unmarshal(trimmed(raw), &txids); err != nil {
		return nil, failure.NewDecodeError(recordMempool, raw, err)
	}
	if err := validate.Var(txids, "dive,required,chainhash"); err != nil {
		return nil, failure.NewDecodeError(recordMempool, raw, err)
	}
	return txids, nil
}
