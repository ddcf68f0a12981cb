// Package sampler runs the configured pipelines and their connection
// supervisors as one task group.
package sampler

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-sampler/pkg/workerpool"
	"go.uber.org/zap"
)

// Unit is a pipeline with the store it owns and the supervisor watching it.
type Unit struct {
	Pipeline   Runner
	Supervisor Keeper
	Store      Store
}

// Sampler owns a set of units from preparation to shutdown.
type Sampler struct {
	units  []Unit
	logger *zap.Logger
}

// New returns a Sampler for units. At least one unit is required.
func New(units []Unit, logger *zap.Logger) (*Sampler, error) {
	if len(units) == 0 {
		return nil, errors.New("no pipelines enabled")
	}
	for i, u := range units {
		if u.Pipeline == nil {
			return nil, fmt.Errorf("unit %d: pipeline is required", i)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{units: units, logger: logger.Named("sampler")}, nil
}

// Run prepares every pipeline, then runs pipelines and supervisors until ctx
// ends. A cancelled ctx is a graceful stop and returns nil. Stores are closed
// before Run returns.
func (s *Sampler) Run(ctx context.Context) error {
	defer s.close()

	for _, u := range s.units {
		if err := u.Pipeline.Prepare(ctx); err != nil {
			return err
		}
	}

	tasks := make([]workerpool.Task, 0, 2*len(s.units))
	for _, u := range s.units {
		name := string(u.Pipeline.Name())
		tasks = append(tasks, workerpool.Task{Name: name, Run: u.Pipeline.Run})
		if u.Supervisor != nil {
			tasks = append(tasks, workerpool.Task{Name: name + "-supervisor", Run: u.Supervisor.Run})
		}
	}

	s.logger.Info("sampler started", zap.Int("pipelines", len(s.units)))
	err := workerpool.Run(ctx, tasks, func(name string, err error) {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("task stopped, shutting down", zap.String("task", name), zap.Error(err))
	})
	if err == nil || errors.Is(err, context.Canceled) && ctx.Err() != nil {
		s.logger.Info("sampler stopped")
		return nil
	}
	return err
}

func (s *Sampler) close() {
	for _, u := range s.units {
		if u.Store == nil {
			continue
		}
		if err := u.Store.Close(); err != nil {
			s.logger.Warn("close store", zap.String("pipeline", string(u.Pipeline.Name())), zap.Error(err))
		}
	}
}
