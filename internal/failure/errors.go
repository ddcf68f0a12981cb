// Package failure holds the error taxonomy shared by sources, decoders and
// repositories, so the sampling loop can tell a failed cycle's stage and kind.
package failure

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrSourceUnavailable marks a source that could not be read.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrDecode marks a payload that did not match the expected record shape.
	ErrDecode = errors.New("decode failed")
	// ErrPersistence marks a failed write or schema statement.
	ErrPersistence = errors.New("persistence failed")
	// ErrStartup marks a failure before the sampling loop started.
	ErrStartup = errors.New("startup failed")
	// ErrNoSnapshot is returned when a source is healthy but has nothing to sample.
	ErrNoSnapshot = errors.New("nothing to sample")
	// ErrConnectionLost is returned when the storage connection could not be restored.
	ErrConnectionLost = errors.New("storage connection lost")
	// ErrNotFound is returned by reads that matched no row.
	ErrNotFound = errors.New("record not found")
)

const snippetLimit = 256

// Stage names a step of a sampling cycle.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageDecode  Stage = "decode"
	StagePersist Stage = "persist"
)

// DecodeError reports a payload that could not be decoded into a record.
type DecodeError struct {
	Record  string
	Payload []byte
	Err     error
}

// NewDecodeError wraps err with the record kind and the offending payload.
func NewDecodeError(record string, payload []byte, err error) *DecodeError {
	return &DecodeError{Record: record, Payload: payload, Err: err}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v (payload: %q)", e.Record, e.Err, Snippet(e.Payload))
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}

// CycleError tags a failed cycle with its pipeline and stage.
type CycleError struct {
	Pipeline string
	Stage    Stage
	Err      error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Pipeline, e.Stage, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}

// SourceUnavailable wraps err as ErrSourceUnavailable for the named source.
func SourceUnavailable(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source, err)
}

// Persistence wraps err as ErrPersistence for the named operation.
func Persistence(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, operation, err)
}

// Startup wraps err as ErrStartup for the named step.
func Startup(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStartup, step, err)
}

// StageOf returns the stage recorded on err, or "" when err is not a cycle error.
func StageOf(err error) Stage {
	var cycleErr *CycleError
	if errors.As(err, &cycleErr) {
		return cycleErr.Stage
	}
	return ""
}

// Kind returns a short label for err suitable for logs and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNoSnapshot):
		return "no_snapshot"
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	case errors.Is(err, ErrStartup):
		return "startup"
	case errors.Is(err, ErrConnectionLost):
		return "connection_lost"
	default:
		return "unknown"
	}
}

// Snippet returns at most snippetLimit bytes of payload as valid UTF-8.
func Snippet(payload []byte) string {
	truncated := len(payload) > snippetLimit
	if truncated {
		payload = payload[:snippetLimit]
	}
	s := string(payload)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	if truncated {
		s += "..."
	}
	return s
}
