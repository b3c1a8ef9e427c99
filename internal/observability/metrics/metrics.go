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
	invoicesCreated  metric.Int64Counter
	paymentsRecorded metric.Int64Counter
	timerStops       metric.Int64Counter
	overdueMarked    metric.Int64Counter
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

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "lancekit"
	}
	meter := provider.Meter(name)

	invoicesCreated, err := meter.Int64Counter("lancekit_invoices_created_total")
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("lancekit_payments_recorded_total")
	if err != nil {
		return nil, err
	}
	timerStops, err := meter.Int64Counter("lancekit_timer_stops_total")
	if err != nil {
		return nil, err
	}
	overdueMarked, err := meter.Int64Counter("lancekit_invoices_marked_overdue_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		invoicesCreated:  invoicesCreated,
		paymentsRecorded: paymentsRecorded,
		timerStops:       timerStops,
		overdueMarked:    overdueMarked,
	}, nil
}

func (m *Metrics) RecordInvoiceCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.invoicesCreated.Add(ctx, 1)
}

func (m *Metrics) RecordPayment(ctx context.Context, full bool) {
	if m == nil {
		return
	}
	m.paymentsRecorded.Add(ctx, 1, metric.WithAttributes(attribute.Bool("full", full)))
}

func (m *Metrics) RecordTimerStop(ctx context.Context) {
	if m == nil {
		return
	}
	m.timerStops.Add(ctx, 1)
}

func (m *Metrics) RecordOverdueMarked(ctx context.Context, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.overdueMarked.Add(ctx, count)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch protocol {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
