package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability records run-level metrics through the OpenTelemetry meter,
// exported on the default Prometheus registry, and optionally traces runs.
type Observability struct {
	meterProvider  *metric.MeterProvider
	runCounter     otelmetric.Int64Counter
	runDuration    otelmetric.Float64Histogram
	sentCounter    otelmetric.Int64Counter
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
}

// New builds the meter. On exporter failure it returns an Observability whose
// record methods are no-ops, together with the error.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	runCounter, _ := meter.Int64Counter(
		"reminder.runs",
		otelmetric.WithDescription("Number of reminder runs"),
	)

	runDuration, _ := meter.Float64Histogram(
		"reminder.run.duration",
		otelmetric.WithDescription("Reminder run duration"),
		otelmetric.WithUnit("ms"),
	)

	sentCounter, _ := meter.Int64Counter(
		"reminder.notifications.sent",
		otelmetric.WithDescription("Notifications accepted by the email service"),
	)

	return &Observability{
		meterProvider: provider,
		runCounter:    runCounter,
		runDuration:   runDuration,
		sentCounter:   sentCounter,
	}, nil
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	return &Observability{}
}

func (o *Observability) RecordRun(ctx context.Context, trigger, outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("trigger", trigger),
		attribute.String("outcome", outcome),
	)
	if o.runCounter != nil {
		o.runCounter.Add(ctx, 1, attrs)
	}
	if o.runDuration != nil {
		o.runDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) RecordSent(ctx context.Context, facility string, n int) {
	if o == nil || o.sentCounter == nil || n == 0 {
		return
	}
	o.sentCounter.Add(ctx, int64(n), otelmetric.WithAttributes(
		attribute.String("facility", facility),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
