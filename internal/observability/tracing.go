package observability

import (
	"github.com/riskibarqy/tournament-admin/internal/config"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// startTracing installs the Uptrace OpenTelemetry providers globally. Config
// loading already rejects an enabled exporter without a DSN; the check here
// covers hand-built configs.
func startTracing(cfg config.Config, logger *logging.Logger) (stopFunc, error) {
	if !cfg.UptraceEnabled || cfg.UptraceDSN == "" {
		return nil, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	logger.Info("uptrace enabled", "service", cfg.ServiceName, "version", cfg.ServiceVersion, "env", cfg.AppEnv)

	return uptrace.Shutdown, nil
}
