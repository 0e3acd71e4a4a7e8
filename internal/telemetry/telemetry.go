// Package telemetry wires OpenTelemetry tracing and metrics.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gitlab.com/yelinaung/quickrate/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops the providers installed by Setup.
type ShutdownFunc func(context.Context) error

// Options selects the exporter and identifies the service.
type Options struct {
	Exporter    string
	ServiceName string
	// Writer receives stdout exporter output. Defaults to os.Stdout.
	Writer io.Writer
}

// Setup installs global tracer and meter providers for the chosen exporter.
// The "none" exporter leaves the global no-op providers in place.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if opts.Exporter == "" || opts.Exporter == config.ExporterNone {
		return func(context.Context) error { return nil }, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	spanExp, metricExp, err := newExporters(ctx, opts.Exporter, w)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExp),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

func newExporters(ctx context.Context, kind string, w io.Writer) (sdktrace.SpanExporter, sdkmetric.Exporter, error) {
	switch kind {
	case config.ExporterStdout:
		spanExp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		return spanExp, metricExp, nil

	case config.ExporterOTLPHTTP:
		spanExp, err := otlptracehttp.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create otlp http trace exporter: %w", err)
		}
		metricExp, err := otlpmetrichttp.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create otlp http metric exporter: %w", err)
		}
		return spanExp, metricExp, nil

	case config.ExporterOTLPGRPC:
		spanExp, err := otlptracegrpc.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create otlp grpc trace exporter: %w", err)
		}
		metricExp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create otlp grpc metric exporter: %w", err)
		}
		return spanExp, metricExp, nil
	}

	return nil, nil, fmt.Errorf("unsupported telemetry exporter %q", kind)
}
