package converter

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/quickrate/internal/models"
	"gitlab.com/yelinaung/quickrate/internal/rates"
	"pgregory.net/rapid"
)

func snapshot(t require.TestingT, recs ...models.ExchangeRateRecord) rates.Snapshot {
	snap, rejected := rates.Ingest(recs)
	require.Empty(t, rejected)
	return snap
}

func usd(rate string) models.ExchangeRateRecord {
	return models.ExchangeRateRecord{CurUnit: "USD", CurName: "US Dollar", DealBaseRate: rate}
}

func TestDerive(t *testing.T) {
	t.Parallel()

	t.Run("converts by base dealing rate", func(t *testing.T) {
		t.Parallel()
		got := Derive("13000", "USD", snapshot(t, usd("1,300.00")))
		require.True(t, got.OK)
		require.InDelta(t, 10.0, got.Value, 1e-12)
		require.Equal(t, "10.00", got.Display())
	})

	t.Run("keeps full precision", func(t *testing.T) {
		t.Parallel()
		got := Derive("1000", "USD", snapshot(t, usd("1,200.50")))
		require.True(t, got.OK)
		require.Equal(t, 1000/1200.50, got.Value)
		require.Equal(t, "0.83", got.Display())
	})

	t.Run("null for empty amount", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, Null, Derive("", "USD", snapshot(t, usd("1,300.00"))))
		require.Equal(t, Null, Derive("   ", "USD", snapshot(t, usd("1,300.00"))))
	})

	t.Run("null for unselected currency", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, Null, Derive("100", "", snapshot(t, usd("1,300.00"))))
	})

	t.Run("null for unknown currency", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, Null, Derive("100", "EUR", snapshot(t, usd("1,300.00"))))
	})

	t.Run("null for empty rate list", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, Null, Derive("100", "USD", rates.Snapshot{}))
	})

	t.Run("null for record without rate", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, Null, Derive("100", "USD", snapshot(t, usd(""))))
	})

	t.Run("null for zero rate", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, Null, Derive("100", "USD", snapshot(t, usd("0.00"))))
	})

	t.Run("null for non numeric amount", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, Null, Derive("abc", "USD", snapshot(t, usd("1,300.00"))))
		require.Equal(t, Null, Derive("NaN", "USD", snapshot(t, usd("1,300.00"))))
	})

	t.Run("null for out of range amount without expanding it", func(t *testing.T) {
		t.Parallel()
		snap := snapshot(t, usd("1,300.00"))
		for _, amount := range []string{"1e50000000", "1e2000000000", "1e-50000000", "1e400"} {
			start := time.Now()
			require.Equal(t, Null, Derive(amount, "USD", snap), amount)
			require.Less(t, time.Since(start), time.Second, amount)
		}
	})

	t.Run("rounds the stored binary value", func(t *testing.T) {
		t.Parallel()
		snap := snapshot(t, usd("1,000.00"))

		// 1005/1000 is stored as 1.00499999999999989...
		got := Derive("1005", "USD", snap)
		require.True(t, got.OK)
		require.Equal(t, 1005/1000.0, got.Value)
		require.Equal(t, "1.00", got.Display())

		// 0.125 is exact in binary, so the half rounds away from zero.
		require.Equal(t, "0.13", Derive("125", "USD", snap).Display())
	})

	t.Run("zero amount converts to zero", func(t *testing.T) {
		t.Parallel()
		got := Derive("0", "USD", snapshot(t, usd("1,300.00")))
		require.True(t, got.OK)
		require.Equal(t, "0.00", got.Display())
	})

	t.Run("null result displays empty", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, Null.Display())
	})
}

func TestDerive_Properties(t *testing.T) {
	t.Parallel()

	t.Run("empty amount or currency is always null", func(t *testing.T) {
		t.Parallel()
		rapid.Check(t, func(t *rapid.T) {
			snap := snapshot(t, usd("1,300.00"))
			amount := rapid.SampledFrom([]string{"", "100", "13000"}).Draw(t, "amount")
			currency := "USD"
			if amount != "" {
				currency = ""
			}
			if rapid.Bool().Draw(t, "blankBoth") {
				amount, currency = "", ""
			}
			if got := Derive(amount, currency, snap); got.OK {
				t.Fatalf("expected null, got %v", got.Value)
			}
		})
	})

	t.Run("amount divided by formatted rate", func(t *testing.T) {
		t.Parallel()
		snap := snapshot(t, usd("1,200.50"))
		rapid.Check(t, func(t *rapid.T) {
			a := rapid.IntRange(0, 100_000_000).Draw(t, "amount")
			got := Derive(strconv.Itoa(a), "USD", snap)
			if !got.OK {
				t.Fatalf("expected a result for %d", a)
			}
			want := float64(a) / 1200.50
			if math.Abs(got.Value-want) > 1e-9*math.Max(1, want) {
				t.Fatalf("got %v, want %v", got.Value, want)
			}
		})
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		snap := snapshot(t, usd("1,300.00"), models.ExchangeRateRecord{CurUnit: "EUR", CurName: "Euro", DealBaseRate: "1,420.17"})
		rapid.Check(t, func(t *rapid.T) {
			amount := rapid.StringMatching(`[0-9]{0,9}(\.[0-9]{0,4})?`).Draw(t, "amount")
			currency := rapid.SampledFrom([]string{"", "USD", "EUR", "GBP"}).Draw(t, "currency")
			first := Derive(amount, currency, snap)
			second := Derive(amount, currency, snap)
			if first.OK != second.OK || math.Float64bits(first.Value) != math.Float64bits(second.Value) {
				t.Fatalf("derive not idempotent: %+v vs %+v", first, second)
			}
		})
	})
}
