package bitcoin

import "context"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Caller issues one node call. Implemented by the bitcoin-cli process
	// source and by the JSON-RPC client.
	Caller interface {
		Call(ctx context.Context, method string, params ...any) ([]byte, error)
	}
)
