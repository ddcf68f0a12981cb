package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, pipeline model.Pipeline, err error, started time.Time)
	}
	// Conn is the subset of clickhouse.Conn the repository uses.
	Conn interface {
		Exec(ctx context.Context, query string, args ...any) error
		QueryRow(ctx context.Context, query string, args ...any) driver.Row
		Ping(ctx context.Context) error
		Close() error
	}
)
