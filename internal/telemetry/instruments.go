package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName scopes the meter and tracer used by this service.
const InstrumentationName = "gitlab.com/yelinaung/quickrate"

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Instruments records rate fetches and conversions.
type Instruments struct {
	fetchCount      metric.Int64Counter
	fetchDuration   metric.Float64Histogram
	conversionCount metric.Int64Counter
}

// NewInstruments creates the instruments on the global meter provider.
func NewInstruments() (*Instruments, error) {
	return NewInstrumentsFromMeter(otel.Meter(InstrumentationName))
}

// NewInstrumentsFromMeter creates the instruments on meter.
func NewInstrumentsFromMeter(meter metric.Meter) (*Instruments, error) {
	fetchCount, err := meter.Int64Counter(
		"quickrate.fetch.count",
		metric.WithDescription("Rate list fetches by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch counter: %w", err)
	}

	fetchDuration, err := meter.Float64Histogram(
		"quickrate.fetch.duration",
		metric.WithDescription("Rate list fetch latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch histogram: %w", err)
	}

	conversionCount, err := meter.Int64Counter(
		"quickrate.conversion.count",
		metric.WithDescription("Derived conversions by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversion counter: %w", err)
	}

	return &Instruments{
		fetchCount:      fetchCount,
		fetchDuration:   fetchDuration,
		conversionCount: conversionCount,
	}, nil
}

// FetchSettled records one settled fetch.
func (i *Instruments) FetchSettled(ctx context.Context, elapsed time.Duration, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	i.fetchCount.Add(ctx, 1, attrs)
	i.fetchDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// Derived records one derivation; shown is false for a null result.
func (i *Instruments) Derived(ctx context.Context, shown bool) {
	i.conversionCount.Add(ctx, 1, metric.WithAttributes(attribute.Bool("shown", shown)))
}
