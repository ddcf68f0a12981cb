package bitcoin

import (
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"go.uber.org/zap"
)

// DescribeBlock returns the log fields identifying a stored block.
func DescribeBlock(b model.BlockSnapshot) []zap.Field {
	return []zap.Field{
		zap.String("hash", b.Hash),
		zap.Int64("height", b.Height),
		zap.Int64("confirmations", b.Confirmations),
	}
}

// DescribeTransaction returns the log fields identifying a stored transaction.
func DescribeTransaction(tx model.TransactionSnapshot) []zap.Field {
	return []zap.Field{
		zap.String("txid", tx.TxID),
		zap.Int64("size", tx.Size),
	}
}
