package decode

import (
	"encoding/json"
	"errors"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

type blockPayload struct {
	Hash          string `json:"hash" validate:"required,chainhash"`
	Confirmations *int64 `json:"confirmations" validate:"required,gte=0"`
	Size          *int64 `json:"size" validate:"required,gte=0"`
	Height        *int64 `json:"height" validate:"required,gte=0"`
	Version       *int64 `json:"version" validate:"required"`
	Time          *int64 `json:"time" validate:"required"`
}

// Block decodes a verbose block object as returned by getblock.
func Block(raw []byte) (model.BlockSnapshot, error) {
	var p blockPayload
	if err := strict(recordBlock, raw, &p); err != nil {
		return model.BlockSnapshot{}, err
	}
	return model.BlockSnapshot{
		Hash:          p.Hash,
		Confirmations: *p.Confirmations,
		Size:          *p.Size,
		Height:        *p.Height,
		Version:       *p.Version,
		Time:          *p.Time,
	}, nil
}

// BlockCount decodes the integer printed by getblockcount.
func BlockCount(raw []byte) (int64, error) {
	var count int64
	if err := json.Unmarshal(trimmed(raw), &count); err != nil {
		return 0, failure.NewDecodeError(recordBlockCount, raw, err)
	}
	if count < 0 {
		return 0, failure.NewDecodeError(recordBlockCount, raw, errors.New("negative block count"))
	}
	return count, nil
}

// BlockHash decodes a block hash given either as bare hex or as a JSON string.
func BlockHash(raw []byte) (string, error) {
	value := trimmed(raw)
	hash := string(value)
	if len(value) > 0 && value[0] == '"' {
		if err := json.Unmarshal(value, &hash); err != nil {
			return "", failure.NewDecodeError(recordBlockHash, raw, err)
		}
	}
	if hash == "" {
		return "", failure.NewDecodeError(recordBlockHash, raw, errors.New("empty hash"))
	}
	if err := validate.Var(hash, "chainhash"); err != nil {
		return "", failure.NewDecodeError(recordBlockHash, raw, err)
	}
	return hash, nil
}
