package exchange

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/quickrate/internal/models"
)

type countingSource struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (s *countingSource) FetchRates(_ context.Context, searchDate string) ([]models.ExchangeRateRecord, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return []models.ExchangeRateRecord{{Result: 1, CurUnit: "USD", CurName: "US Dollar " + searchDate}}, nil
}

func TestCoalescingSource_FetchRates(t *testing.T) {
	t.Parallel()

	t.Run("concurrent callers share one request", func(t *testing.T) {
		t.Parallel()
		upstream := &countingSource{release: make(chan struct{})}
		src := NewCoalescingSource(upstream)

		const callers = 8
		var wg sync.WaitGroup
		results := make(chan []models.ExchangeRateRecord, callers)
		for range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := src.FetchRates(context.Background(), "20260105")
				if err == nil {
					results <- got
				}
			}()
		}

		require.Eventually(t, func() bool { return upstream.calls.Load() == 1 }, time.Second, time.Millisecond)
		// Give the remaining callers time to join the in-flight request.
		time.Sleep(20 * time.Millisecond)
		close(upstream.release)
		wg.Wait()
		close(results)

		count := 0
		for got := range results {
			require.Len(t, got, 1)
			count++
		}
		require.Equal(t, callers, count)
		require.Equal(t, int32(1), upstream.calls.Load())
	})

	t.Run("nothing is retained after settling", func(t *testing.T) {
		t.Parallel()
		upstream := &countingSource{}
		src := NewCoalescingSource(upstream)

		_, err := src.FetchRates(context.Background(), "")
		require.NoError(t, err)
		_, err = src.FetchRates(context.Background(), "")
		require.NoError(t, err)
		require.Equal(t, int32(2), upstream.calls.Load())
	})

	t.Run("keyed per search date", func(t *testing.T) {
		t.Parallel()
		upstream := &countingSource{}
		src := NewCoalescingSource(upstream)

		a, err := src.FetchRates(context.Background(), "20260105")
		require.NoError(t, err)
		b, err := src.FetchRates(context.Background(), "20260106")
		require.NoError(t, err)
		require.NotEqual(t, a[0].CurName, b[0].CurName)
	})

	t.Run("propagates errors", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		src := NewCoalescingSource(&countingSource{err: boom})

		_, err := src.FetchRates(context.Background(), "")
		require.ErrorIs(t, err, boom)
	})

	t.Run("waiter cancellation does not cancel the request", func(t *testing.T) {
		t.Parallel()
		upstream := &countingSource{release: make(chan struct{})}
		src := NewCoalescingSource(upstream)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			_, err := src.FetchRates(ctx, "")
			errCh <- err
		}()
		require.Eventually(t, func() bool { return upstream.calls.Load() == 1 }, time.Second, time.Millisecond)
		cancel()
		require.ErrorIs(t, <-errCh, context.Canceled)

		done := make(chan error, 1)
		go func() {
			_, err := src.FetchRates(context.Background(), "")
			done <- err
		}()
		close(upstream.release)
		require.NoError(t, <-done)
	})

	t.Run("requires inner source", func(t *testing.T) {
		t.Parallel()
		_, err := NewCoalescingSource(nil).FetchRates(context.Background(), "")
		require.Error(t, err)
	})
}
