package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"go.uber.org/ratelimit"
)

const maxBodyBytes = 1 << 20

// HTTP fetches a fixed JSON endpoint with GET.
type HTTP struct {
	name    string
	url     string
	client  HTTPDoer
	limiter ratelimit.Limiter
	timeout time.Duration
	metrics Metrics
	size    payloadSize
}

// NewHTTP builds an HTTP source. perMinute caps outbound requests; zero or
// less disables the limit.
func NewHTTP(name, url string, timeout time.Duration, perMinute int, metrics Metrics) (*HTTP, error) {
	if url == "" {
		return nil, fmt.Errorf("%s source url is required", name)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%s source timeout must be positive", name)
	}
	if metrics == nil {
		return nil, fmt.Errorf("%s source metrics is required", name)
	}

	size, err := newPayloadSize(name)
	if err != nil {
		return nil, fmt.Errorf("%s source payload histogram: %w", name, err)
	}

	limiter := ratelimit.NewUnlimited()
	if perMinute > 0 {
		limiter = ratelimit.New(perMinute, ratelimit.Per(time.Minute), ratelimit.WithoutSlack)
	}

	return &HTTP{
		name:    name,
		url:     url,
		client:  &http.Client{},
		limiter: limiter,
		timeout: timeout,
		metrics: metrics,
		size:    size,
	}, nil
}

// Fetch returns the response body of a GET to the configured URL.
func (h *HTTP) Fetch(ctx context.Context) (body []byte, err error) {
	h.limiter.Take()

	started := time.Now()
	defer func() {
		h.metrics.Observe("get", err, started)
	}()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, failure.SourceUnavailable(h.name, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, failure.SourceUnavailable(h.name, fmt.Errorf("get %s: %w", h.url, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, failure.SourceUnavailable(h.name, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("get %s: unexpected status %d: %s", h.url, resp.StatusCode, failure.Snippet(body))
		return nil, failure.SourceUnavailable(h.name, err)
	}
	if len(body) > maxBodyBytes {
		return nil, failure.SourceUnavailable(h.name, errors.New("response body exceeds limit"))
	}
	h.size.record(ctx, "get", body)
	return body, nil
}
