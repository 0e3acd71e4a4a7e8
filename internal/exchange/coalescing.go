package exchange

import (
	"context"
	"errors"
	"slices"
	"sync"

	"gitlab.com/yelinaung/quickrate/internal/models"
)

type inFlightCall struct {
	done    chan struct{}
	records []models.ExchangeRateRecord
	err     error
}

// CoalescingSource collapses concurrent fetches for the same search date into
// one upstream request. Nothing is retained once the request settles.
type CoalescingSource struct {
	inner RateSource

	mu       sync.Mutex
	inFlight map[string]*inFlightCall
}

// NewCoalescingSource wraps inner.
func NewCoalescingSource(inner RateSource) *CoalescingSource {
	return &CoalescingSource{
		inner:    inner,
		inFlight: make(map[string]*inFlightCall),
	}
}

// FetchRates joins an in-flight request for searchDate or starts one.
func (s *CoalescingSource) FetchRates(ctx context.Context, searchDate string) ([]models.ExchangeRateRecord, error) {
	if s.inner == nil {
		return nil, errors.New("inner rate source is required")
	}

	s.mu.Lock()
	if call, waiting := s.inFlight[searchDate]; waiting {
		s.mu.Unlock()
		return waitForInFlight(ctx, call)
	}

	call := &inFlightCall{done: make(chan struct{})}
	s.inFlight[searchDate] = call
	s.mu.Unlock()

	// Detached so one caller going away does not fail the others.
	go s.fetchAndBroadcast(context.WithoutCancel(ctx), searchDate, call)
	return waitForInFlight(ctx, call)
}

func (s *CoalescingSource) fetchAndBroadcast(ctx context.Context, searchDate string, call *inFlightCall) {
	records, err := s.inner.FetchRates(ctx, searchDate)

	s.mu.Lock()
	call.records = records
	call.err = err
	delete(s.inFlight, searchDate)
	close(call.done)
	s.mu.Unlock()
}

func waitForInFlight(ctx context.Context, call *inFlightCall) ([]models.ExchangeRateRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-call.done:
		if call.err != nil {
			return nil, call.err
		}
		return slices.Clone(call.records), nil
	}
}
