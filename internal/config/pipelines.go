package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/spf13/viper"
)

// Pipeline is the resolved setting of one pipeline.
type Pipeline struct {
	Name     model.Pipeline
	Interval time.Duration
	// Timeout bounds one source call.
	Timeout time.Duration
}

func pipelineByName(name string) (model.Pipeline, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	for _, p := range model.Pipelines() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown pipeline %q", name)
}

// EnabledPipelines resolves the pipelines to run, in model.Pipelines order.
// Flags give the defaults; the pipelines file, when set, overrides enabled,
// interval and timeout per pipeline.
func (c *Sampler) EnabledPipelines() ([]Pipeline, error) {
	selected := make([]model.Pipeline, 0, len(c.Pipelines))
	for _, name := range c.Pipelines {
		p, err := pipelineByName(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, p)
	}

	var file *viper.Viper
	if c.PipelinesFile != "" {
		file = viper.New()
		file.SetConfigFile(c.PipelinesFile)
		if err := file.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read pipelines file: %w", err)
		}
		for key := range file.GetStringMap("pipelines") {
			if _, err := pipelineByName(key); err != nil {
				return nil, fmt.Errorf("pipelines file: %w", err)
			}
		}
	}

	var out []Pipeline
	for _, name := range model.Pipelines() {
		p := Pipeline{Name: name, Interval: c.intervalOf(name), Timeout: c.timeoutOf(name)}
		enabled := slices.Contains(selected, name)

		if file != nil {
			prefix := "pipelines." + string(name) + "."
			if file.IsSet(prefix + "enabled") {
				enabled = file.GetBool(prefix + "enabled")
			}
			if file.IsSet(prefix + "interval") {
				p.Interval = file.GetDuration(prefix + "interval")
			}
			if file.IsSet(prefix + "timeout") {
				p.Timeout = file.GetDuration(prefix + "timeout")
			}
		}
		if !enabled {
			continue
		}
		if p.Interval <= 0 {
			return nil, fmt.Errorf("%s interval must be positive, got %s", name, p.Interval)
		}
		if p.Timeout <= 0 {
			return nil, fmt.Errorf("%s timeout must be positive, got %s", name, p.Timeout)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no pipelines enabled")
	}
	return out, nil
}

func (c *Sampler) intervalOf(name model.Pipeline) time.Duration {
	switch name {
	case model.BlocksPipeline:
		return c.BlocksInterval
	case model.TransactionsPipeline:
		return c.TransactionsInterval
	default:
		return c.MarketInterval
	}
}

func (c *Sampler) timeoutOf(name model.Pipeline) time.Duration {
	if name == model.MarketPipeline {
		return c.HTTPTimeout
	}
	return c.NodeTimeout
}
