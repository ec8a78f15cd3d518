package metrics

import (
	"github.com/smallbiznis/ledgerline/internal/config"
	"go.uber.org/fx"
)

// NewConfig maps application config onto the metrics provider config.
func NewConfig(cfg config.Config) Config {
	return Config{
		Enabled:          cfg.Metrics.Enabled,
		ExporterEndpoint: cfg.Metrics.Endpoint,
		ExporterProtocol: cfg.Metrics.Exporter,
		ServiceName:      cfg.AppName,
		Environment:      cfg.Environment,
	}
}

var Module = fx.Module("metrics",
	fx.Provide(NewConfig),
	fx.Provide(NewProvider),
	fx.Provide(New),
)
