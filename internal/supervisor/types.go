package supervisor

//go:generate mockgen -source=types.go -destination=mocks_test.go -package=supervisor

import "context"

// Target is a storage connection that can be probed and re-established.
type Target interface {
	Ping(ctx context.Context) error
	Reconnect(ctx context.Context) error
}

// Metrics records keepalive outcomes.
type Metrics interface {
	ObservePing(err error)
	ObserveReconnect(err error)
}
