// Package decode turns raw source payloads into typed records.
//
// Decoding is strict: a payload that is not valid JSON, has a field of the
// wrong type, or misses a required field yields a *failure.DecodeError that
// carries a snippet of the payload.
package decode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/go-playground/validator/v10"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
)

const (
	recordBlock       = "block"
	recordTransaction = "transaction"
	recordChainStats  = "chain stats"
	recordPrice       = "price"
	recordBlockCount  = "block count"
	recordBlockHash   = "block hash"
	recordMempool     = "mempool"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	if err := v.RegisterValidation("chainhash", isChainHash); err != nil {
		panic(fmt.Sprintf("register chainhash validation: %v", err))
	}
	return v
}

func isChainHash(fl validator.FieldLevel) bool {
	_, err := chainhash.NewHashFromStr(fl.Field().String())
	return err == nil
}

// strict unmarshals raw into dst and runs its validation tags.
func strict(record string, raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return failure.NewDecodeError(record, raw, err)
	}
	if err := validate.Struct(dst); err != nil {
		return failure.NewDecodeError(record, raw, err)
	}
	return nil
}

func trimmed(raw []byte) []byte {
	return bytes.TrimSpace(raw)
}
