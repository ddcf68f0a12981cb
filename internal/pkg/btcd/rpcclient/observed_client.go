// Package rpcclient adapts the btcd JSON-RPC client to the raw call shape
// used by the node sources.
package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
)

const sourceName = "bitcoind-rpc"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
	RawRequester interface {
		RawRequest(method string, params []json.RawMessage) (json.RawMessage, error)
	}
)

// ObservedClient issues raw JSON-RPC calls with a deadline and records metrics.
type ObservedClient struct {
	client     RawRequester
	rpcMetrics RPCMetrics
	timeout    time.Duration
}

func NewObservedClient(client RawRequester, rpcMetrics RPCMetrics, timeout time.Duration) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
		timeout:    timeout,
	}
}

// Call sends method with JSON-encoded params and returns the raw result.
// The btcd client has no context support, so an expired deadline abandons
// the in-flight request instead of canceling it.
func (r *ObservedClient) Call(ctx context.Context, method string, params ...any) (out []byte, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe(method, err, started)
	}()

	encoded := make([]json.RawMessage, 0, len(params))
	for _, param := range params {
		raw, marshalErr := json.Marshal(param)
		if marshalErr != nil {
			err = fmt.Errorf("encode %s param: %w", method, marshalErr)
			return nil, err
		}
		encoded = append(encoded, raw)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		raw json.RawMessage
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, callErr := r.client.RawRequest(method, encoded)
		done <- result{raw: raw, err: callErr}
	}()

	select {
	case <-ctx.Done():
		err = failure.SourceUnavailable(sourceName, fmt.Errorf("%s: %w", method, ctx.Err()))
		return nil, err
	case res := <-done:
		if res.err != nil {
			err = failure.SourceUnavailable(sourceName, fmt.Errorf("%s: %w", method, res.err))
			return nil, err
		}
		return res.raw, nil
	}
}

// Dial builds a btcd client in HTTP POST mode for a node's RPC endpoint.
func Dial(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
