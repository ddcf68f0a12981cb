package pipeline

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Source reads one raw payload per cycle.
	Source[R any] interface {
		Fetch(ctx context.Context) (R, error)
	}
	// Persister owns the pipeline's table.
	Persister[T any] interface {
		EnsureSchema(ctx context.Context) error
		Persist(ctx context.Context, record T) (bool, error)
	}
	Metrics interface {
		ObserveCycle(err error, started time.Time)
		ObserveStage(stage failure.Stage, err error, started time.Time)
		ObserveRecord(inserted bool)
	}
)

// Decoder turns a raw payload into a record.
type Decoder[R, T any] func(raw R) (T, error)
