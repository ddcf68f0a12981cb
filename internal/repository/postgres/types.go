package postgres

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, pipeline model.Pipeline, err error, started time.Time)
	}
	// Conn is the subset of *pgxpool.Pool the repository uses.
	Conn interface {
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Ping(ctx context.Context) error
		Reset()
		Close()
	}
)
