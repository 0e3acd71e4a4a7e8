package telemetry

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/quickrate/internal/config"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestSetup(t *testing.T) {
	t.Run("none exporter is a no-op", func(t *testing.T) {
		shutdown, err := Setup(context.Background(), Options{Exporter: config.ExporterNone})
		require.NoError(t, err)
		require.NoError(t, shutdown(context.Background()))
	})

	t.Run("stdout exporter installs providers", func(t *testing.T) {
		var buf bytes.Buffer
		shutdown, err := Setup(context.Background(), Options{
			Exporter:    config.ExporterStdout,
			ServiceName: "quickrate-test",
			Writer:      &buf,
		})
		require.NoError(t, err)
		require.NoError(t, shutdown(context.Background()))
	})

	t.Run("rejects unknown exporter", func(t *testing.T) {
		_, err := Setup(context.Background(), Options{Exporter: "zipkin"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported telemetry exporter")
	})
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestInstruments(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	inst, err := NewInstrumentsFromMeter(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	inst.FetchSettled(ctx, 20*time.Millisecond, nil)
	inst.FetchSettled(ctx, 30*time.Millisecond, errors.New("boom"))
	inst.Derived(ctx, true)
	inst.Derived(ctx, true)
	inst.Derived(ctx, false)

	data := collect(t, reader)

	fetches, ok := data["quickrate.fetch.count"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, fetches.DataPoints, 2)
	for _, dp := range fetches.DataPoints {
		require.Equal(t, int64(1), dp.Value)
	}

	durations, ok := data["quickrate.fetch.duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, durations.DataPoints, 2)

	conversions, ok := data["quickrate.conversion.count"].(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[bool]int64{}
	for _, dp := range conversions.DataPoints {
		shown, found := dp.Attributes.Value(attribute.Key("shown"))
		require.True(t, found)
		counts[shown.AsBool()] = dp.Value
	}
	require.Equal(t, map[bool]int64{true: 2, false: 1}, counts)
}
