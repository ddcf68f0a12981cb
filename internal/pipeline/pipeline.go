// Package pipeline runs the fetch, decode and persist cycle of one sampled
// record type on a fixed interval. A failed cycle is logged and counted; the
// next one runs on schedule.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/goodnatureofminers/blockinsight7000-sampler/internal/pipeline"

// Config describes one pipeline.
type Config[R, T any] struct {
	Name      model.Pipeline
	Interval  time.Duration
	Source    Source[R]
	Decode    Decoder[R, T]
	Persister Persister[T]
	// Describe returns the fields logged for a persisted record.
	Describe func(T) []zap.Field
}

// Pipeline samples one record per cycle.
type Pipeline[R, T any] struct {
	name      model.Pipeline
	interval  time.Duration
	source    Source[R]
	decode    Decoder[R, T]
	persister Persister[T]
	describe  func(T) []zap.Field
	metrics   Metrics
	logger    *zap.Logger
	tracer    trace.Tracer
	sleep     clock.SleepFunc
}

// New validates cfg and builds a Pipeline.
func New[R, T any](cfg Config[R, T], metrics Metrics, logger *zap.Logger) (*Pipeline[R, T], error) {
	switch {
	case cfg.Name == "":
		return nil, errors.New("pipeline name is required")
	case cfg.Interval <= 0:
		return nil, fmt.Errorf("%s pipeline interval must be positive", cfg.Name)
	case cfg.Source == nil:
		return nil, fmt.Errorf("%s pipeline source is required", cfg.Name)
	case cfg.Decode == nil:
		return nil, fmt.Errorf("%s pipeline decoder is required", cfg.Name)
	case cfg.Persister == nil:
		return nil, fmt.Errorf("%s pipeline persister is required", cfg.Name)
	case metrics == nil:
		return nil, fmt.Errorf("%s pipeline metrics is required", cfg.Name)
	}

	describe := cfg.Describe
	if describe == nil {
		describe = func(T) []zap.Field { return nil }
	}

	return &Pipeline[R, T]{
		name:      cfg.Name,
		interval:  cfg.Interval,
		source:    cfg.Source,
		decode:    cfg.Decode,
		persister: cfg.Persister,
		describe:  describe,
		metrics:   metrics,
		logger:    logger.With(zap.String("pipeline", string(cfg.Name))),
		tracer:    otel.Tracer(tracerName),
		sleep:     clock.Sleep,
	}, nil
}

func (p *Pipeline[R, T]) Name() model.Pipeline {
	return p.name
}

// Prepare ensures the pipeline's table exists.
func (p *Pipeline[R, T]) Prepare(ctx context.Context) error {
	if err := p.persister.EnsureSchema(ctx); err != nil {
		return failure.Startup(fmt.Sprintf("ensure %s schema", p.name), err)
	}
	p.logger.Info("schema ready")
	return nil
}

// Run repeats RunCycle every interval until ctx is canceled.
func (p *Pipeline[R, T]) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", zap.Duration("interval", p.interval))
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := p.RunCycle(ctx); err != nil {
			p.logger.Debug("cycle abandoned", zap.String("kind", failure.Kind(err)))
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return err
		}
	}
}

// RunCycle fetches, decodes and persists one record. The outcome is logged
// and observed here; the returned error is a *failure.CycleError naming the
// failing stage.
func (p *Pipeline[R, T]) RunCycle(ctx context.Context) (err error) {
	started := time.Now()
	ctx, span := p.tracer.Start(ctx, "pipeline.cycle",
		trace.WithAttributes(attribute.String("pipeline", string(p.name))))
	defer func() {
		p.metrics.ObserveCycle(err, started)
		endSpan(span, err)
	}()

	var raw R
	err = p.stage(ctx, failure.StageFetch, func(ctx context.Context) error {
		var fetchErr error
		raw, fetchErr = p.source.Fetch(ctx)
		return fetchErr
	})
	if err != nil {
		p.logFailure(ctx, err)
		return err
	}

	var record T
	err = p.stage(ctx, failure.StageDecode, func(context.Context) error {
		var decodeErr error
		record, decodeErr = p.decode(raw)
		return decodeErr
	})
	if err != nil {
		p.logFailure(ctx, err)
		return err
	}

	var inserted bool
	err = p.stage(ctx, failure.StagePersist, func(ctx context.Context) error {
		var persistErr error
		inserted, persistErr = p.persister.Persist(ctx, record)
		return persistErr
	})
	if err != nil {
		p.logFailure(ctx, err)
		return err
	}

	p.metrics.ObserveRecord(inserted)
	msg := "record persisted"
	if !inserted {
		msg = "record already stored"
	}
	p.logger.Info(msg, append(p.describe(record), zap.Duration("took", time.Since(started)))...)
	return nil
}

// stage runs fn under its own span and converts a panic into an error.
func (p *Pipeline[R, T]) stage(ctx context.Context, stage failure.Stage, fn func(context.Context) error) (err error) {
	started := time.Now()
	stageCtx, span := p.tracer.Start(ctx, "pipeline."+string(stage))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			err = &failure.CycleError{
				Pipeline: string(p.name),
				Stage:    stage,
				Err:      p.classify(ctx, stage, err),
			}
		}
		p.metrics.ObserveStage(stage, err, started)
		endSpan(span, err)
	}()

	return fn(stageCtx)
}

// classify maps an error without a failure kind to the kind of its stage.
func (p *Pipeline[R, T]) classify(ctx context.Context, stage failure.Stage, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	if failure.Kind(err) != "unknown" {
		return err
	}
	switch stage {
	case failure.StageFetch:
		return failure.SourceUnavailable(string(p.name), err)
	case failure.StageDecode:
		return failure.NewDecodeError(string(p.name), nil, err)
	default:
		return failure.Persistence(string(stage), err)
	}
}

func (p *Pipeline[R, T]) logFailure(ctx context.Context, err error) {
	fields := []zap.Field{zap.String("stage", string(failure.StageOf(err))), zap.Error(err)}
	switch {
	case errors.Is(err, failure.ErrNoSnapshot):
		p.logger.Info("nothing to sample", fields...)
	case ctx.Err() != nil:
		p.logger.Info("cycle interrupted by shutdown", fields...)
	default:
		p.logger.Error("cycle failed", append(fields, zap.String("kind", failure.Kind(err)))...)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, failure.ErrNoSnapshot) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
