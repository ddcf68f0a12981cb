package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
)

// waitDelay bounds how long a killed client may hold its output pipes open.
const waitDelay = 500 * time.Millisecond

// Process invokes a command-line client once per call, e.g.
// `bitcoin-cli -datadir=/data getblockhash 800000`.
type Process struct {
	name     string
	path     string
	baseArgs []string
	timeout  time.Duration
	metrics  Metrics
	size     payloadSize
}

// NewProcess builds a Process source for the executable at path. baseArgs
// are placed before the method on every call.
func NewProcess(path string, baseArgs []string, timeout time.Duration, metrics Metrics) (*Process, error) {
	if path == "" {
		return nil, errors.New("process source path is required")
	}
	if timeout <= 0 {
		return nil, errors.New("process source timeout must be positive")
	}
	if metrics == nil {
		return nil, errors.New("process source metrics is required")
	}
	size, err := newPayloadSize(path)
	if err != nil {
		return nil, fmt.Errorf("process source payload histogram: %w", err)
	}
	return &Process{
		name:     path,
		path:     path,
		baseArgs: baseArgs,
		timeout:  timeout,
		metrics:  metrics,
		size:     size,
	}, nil
}

// Call runs the client with method and params and returns its trimmed stdout.
func (p *Process) Call(ctx context.Context, method string, params ...any) (out []byte, err error) {
	started := time.Now()
	defer func() {
		p.metrics.Observe(method, err, started)
	}()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := make([]string, 0, len(p.baseArgs)+1+len(params))
	args = append(args, p.baseArgs...)
	args = append(args, method)
	for _, param := range params {
		args = append(args, fmt.Sprint(param))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err = cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%s %s: %w", p.name, method, ctxErr)
		} else if msg := strings.TrimSpace(failure.Snippet(stderr.Bytes())); msg != "" {
			err = fmt.Errorf("%s %s: %w: %s", p.name, method, err, msg)
		} else {
			err = fmt.Errorf("%s %s: %w", p.name, method, err)
		}
		return nil, failure.SourceUnavailable(p.name, err)
	}

	out = bytes.TrimSpace(stdout.Bytes())
	if !utf8.Valid(out) {
		err = failure.SourceUnavailable(p.name, fmt.Errorf("%s %s: output is not valid UTF-8", p.name, method))
		return nil, err
	}
	p.size.record(ctx, method, out)
	return out, nil
}
