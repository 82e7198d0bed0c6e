// Package observability starts the optional tracing and profiling
// integrations and tears them down in reverse order.
package observability

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-admin/internal/config"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
)

type stopFunc func(context.Context) error

type component struct {
	name string
	stop stopFunc
}

// Stack holds whatever integrations Start enabled.
type Stack struct {
	logger     *logging.Logger
	components []component
}

// Start enables each integration switched on in cfg. On error everything
// already started is stopped again.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger.Named("observability")}

	steps := []struct {
		name  string
		start func(config.Config, *logging.Logger) (stopFunc, error)
	}{
		{"uptrace", startTracing},
		{"pyroscope", startProfiler},
		{"pprof", startPprof},
	}
	for _, step := range steps {
		stop, err := step.start(cfg, s.logger)
		if err != nil {
			_ = s.Shutdown(ctx)
			return nil, crerr.Wrapf(err, "start %s", step.name)
		}
		if stop != nil {
			s.components = append(s.components, component{name: step.name, stop: stop})
		}
	}
	return s, nil
}

// Enabled lists the running integrations in start order.
func (s *Stack) Enabled() []string {
	names := make([]string, 0, len(s.components))
	for _, c := range s.components {
		names = append(names, c.name)
	}
	return names
}

func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var err error
	for i := len(s.components) - 1; i >= 0; i-- {
		c := s.components[i]
		if stopErr := c.stop(ctx); stopErr != nil {
			err = crerr.CombineErrors(err, crerr.Wrapf(stopErr, "stop %s", c.name))
			continue
		}
		s.logger.Debug("stopped", "component", c.name)
	}
	s.components = nil
	return err
}
