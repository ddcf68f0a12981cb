// Package supervisor keeps a pipeline's storage connection alive.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"go.uber.org/zap"
)

const (
	DefaultInterval       = 30 * time.Second
	DefaultTimeout        = 5 * time.Second
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = time.Minute
)

// Config tunes one Supervisor. A zero MaxElapsed retries reconnects forever.
type Config struct {
	Name       string
	Interval   time.Duration
	Timeout    time.Duration
	MaxElapsed time.Duration
}

// Supervisor pings its target on a fixed interval and reconnects with
// exponential backoff when a ping fails.
type Supervisor struct {
	name       string
	interval   time.Duration
	timeout    time.Duration
	target     Target
	metrics    Metrics
	logger     *zap.Logger
	sleep      clock.SleepFunc
	newBackOff func() backoff.BackOff
}

// New validates cfg and returns a Supervisor for target.
func New(cfg Config, target Target, metrics Metrics, logger *zap.Logger) (*Supervisor, error) {
	if target == nil {
		return nil, errors.New("supervisor target is required")
	}
	if metrics == nil {
		return nil, errors.New("supervisor metrics are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Interval < 0 || cfg.Timeout < 0 || cfg.MaxElapsed < 0 {
		return nil, fmt.Errorf("supervisor %q: durations must not be negative", cfg.Name)
	}

	maxElapsed := cfg.MaxElapsed
	return &Supervisor{
		name:     cfg.Name,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		target:   target,
		metrics:  metrics,
		logger:   logger.Named("supervisor").With(zap.String("pipeline", cfg.Name)),
		sleep:    clock.Sleep,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = defaultInitialBackoff
			b.MaxInterval = defaultMaxBackoff
			b.MaxElapsedTime = maxElapsed
			return b
		},
	}, nil
}

// Run checks the connection every interval until ctx ends or a reconnect
// gives up, in which case the error wraps failure.ErrConnectionLost.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if err := s.sleep(ctx, s.interval); err != nil {
			return err
		}
		if err := s.Check(ctx); err != nil {
			return err
		}
	}
}

// Check pings the target once and reconnects if the ping fails.
func (s *Supervisor) Check(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err := s.target.Ping(pingCtx)
	cancel()
	s.metrics.ObservePing(err)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.Warn("storage ping failed, reconnecting", zap.Error(err))
	return s.reconnect(ctx)
}

func (s *Supervisor) reconnect(ctx context.Context) error {
	attempts := 0
	operation := func() error {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		err := s.target.Reconnect(attemptCtx)
		s.metrics.ObserveReconnect(err)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		s.logger.Warn("reconnect attempt failed", zap.Int("attempt", attempts), zap.Error(err))
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(s.newBackOff(), ctx)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s gave up after %d attempts: %w", failure.ErrConnectionLost, s.name, attempts, err)
	}

	s.logger.Info("storage connection restored", zap.Int("attempts", attempts))
	return nil
}
