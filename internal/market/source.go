// Package market samples chain statistics together with the coin's spot
// price. Chain statistics are mandatory for a snapshot, the price is not.
package market

import (
	"context"
)

// Payload holds the raw documents of one market cycle. PriceErr is set when
// the price document could not be fetched.
type Payload struct {
	Chain    []byte
	Price    []byte
	PriceErr error
}

// Source fetches the chain document first and the price document second.
type Source struct {
	chain Fetcher
	price Fetcher
}

func NewSource(chain, price Fetcher) *Source {
	return &Source{chain: chain, price: price}
}

// Fetch fails only when the chain document is unavailable or ctx is done.
func (s *Source) Fetch(ctx context.Context) (Payload, error) {
	chain, err := s.chain.Fetch(ctx)
	if err != nil {
		return Payload{}, err
	}

	price, err := s.price.Fetch(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Payload{}, ctxErr
	}
	return Payload{Chain: chain, Price: price, PriceErr: err}, nil
}
