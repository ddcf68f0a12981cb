// Package source reads raw payloads from external systems: a node's
// command-line client and plain HTTP JSON endpoints. Every call carries a
// timeout and any failure is reported as failure.ErrSourceUnavailable.
package source

import (
	"net/http"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
	HTTPDoer interface {
		Do(req *http.Request) (*http.Response, error)
	}
)
