package market

import "context"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Fetcher reads one raw JSON document.
	Fetcher interface {
		Fetch(ctx context.Context) ([]byte, error)
	}
)
