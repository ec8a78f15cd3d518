package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	documentsCreated metric.Int64Counter
	documentsUpdated metric.Int64Counter
	documentsDeleted metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported metrics exporter protocol %q", protocol)
	}
}

// New builds the document engine instruments.
func New(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter("ledgerline/document")

	created, err := meter.Int64Counter("documents_created_total",
		metric.WithDescription("Documents created, by type"))
	if err != nil {
		return nil, err
	}
	updated, err := meter.Int64Counter("documents_updated_total",
		metric.WithDescription("Documents updated, by type"))
	if err != nil {
		return nil, err
	}
	deleted, err := meter.Int64Counter("documents_deleted_total",
		metric.WithDescription("Documents soft-deleted, by type"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		documentsCreated: created,
		documentsUpdated: updated,
		documentsDeleted: deleted,
	}, nil
}

// Noop returns instruments backed by the noop provider. Tests use this.
func Noop() *Metrics {
	m, _ := New(noop.NewMeterProvider())
	return m
}

func (m *Metrics) RecordDocumentCreated(ctx context.Context, docType string) {
	if m == nil {
		return
	}
	m.documentsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("type", docType)))
}

func (m *Metrics) RecordDocumentUpdated(ctx context.Context, docType string) {
	if m == nil {
		return
	}
	m.documentsUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("type", docType)))
}

func (m *Metrics) RecordDocumentDeleted(ctx context.Context, docType string) {
	if m == nil {
		return
	}
	m.documentsDeleted.Add(ctx, 1, metric.WithAttributes(attribute.String("type", docType)))
}
