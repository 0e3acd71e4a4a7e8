// Package view holds the state of one rate converter page view.
package view

import (
	"context"
	"sync"
	"time"

	"gitlab.com/yelinaung/quickrate/internal/converter"
	"gitlab.com/yelinaung/quickrate/internal/logger"
	"gitlab.com/yelinaung/quickrate/internal/models"
	"gitlab.com/yelinaung/quickrate/internal/rates"
)

// Fetcher loads the rate list for a view.
type Fetcher interface {
	FetchRates(ctx context.Context) ([]models.ExchangeRateRecord, error)
}

// Observer is notified about fetches and derivations. telemetry.Instruments
// satisfies it.
type Observer interface {
	FetchSettled(ctx context.Context, elapsed time.Duration, err error)
	Derived(ctx context.Context, shown bool)
}

type noopObserver struct{}

func (noopObserver) FetchSettled(context.Context, time.Duration, error) {}
func (noopObserver) Derived(context.Context, bool)                      {}

// Option configures a Converter.
type Option func(*Converter)

// WithObserver reports fetch and derivation events to o.
func WithObserver(o Observer) Option {
	return func(c *Converter) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithName tags the view's log lines, e.g. with a request id.
func WithName(name string) Option {
	return func(c *Converter) {
		c.name = name
	}
}

// Converter is one page view: a rate list fetched once on mount, the user's
// amount and currency, and the conversion derived from them.
// All methods are safe for concurrent use.
type Converter struct {
	fetcher  Fetcher
	observer Observer
	name     string

	mu       sync.Mutex
	mounted  bool
	closed   bool
	cancel   context.CancelFunc
	settled  chan struct{}
	state    models.FetchState
	loading  bool
	snapshot rates.Snapshot
	amount   string
	currency string
	result   converter.Result
	err      error
}

// New creates an unmounted view.
func New(fetcher Fetcher, opts ...Option) *Converter {
	c := &Converter{
		fetcher:  fetcher,
		observer: noopObserver{},
		settled:  make(chan struct{}),
		state:    models.FetchStateNoData,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount starts the view's single rate fetch. Calls after the first, or after
// Close, do nothing.
func (c *Converter) Mount(ctx context.Context) {
	c.mu.Lock()
	if c.mounted || c.closed {
		c.mu.Unlock()
		return
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.mounted = true
	c.cancel = cancel
	c.loading = true
	c.state = models.FetchStateLoading
	c.mu.Unlock()

	go c.fetch(fetchCtx)
}

func (c *Converter) fetch(ctx context.Context) {
	defer close(c.settled)

	started := time.Now()
	records, err := c.fetcher.FetchRates(ctx)
	c.observer.FetchSettled(context.WithoutCancel(ctx), time.Since(started), err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.loading = false
	if err != nil {
		c.err = err
		c.state = models.FetchStateNoData
		logger.Log.Error().
			Err(err).
			Str("view", c.name).
			Msg("Failed to fetch exchange rates")
		return
	}

	snap, rejected := rates.Ingest(records)
	for _, r := range rejected {
		logger.Log.Warn().
			Str("view", c.name).
			Int("index", r.Index).
			Str("cur_unit", r.Record.CurUnit).
			Str("reason", r.Reason).
			Msg("Rejected exchange rate record")
	}

	c.snapshot = snap
	c.state = models.FetchStateLoaded
	if first, ok := snap.First(); ok {
		c.currency = first.CurUnit
	}
	c.deriveLocked()

	logger.Log.Debug().
		Str("view", c.name).
		Int("records", snap.Len()).
		Int("rejected", len(rejected)).
		Msg("Exchange rates loaded")
}

// Close disposes of the view. An in-flight fetch is cancelled and its result
// is discarded; later mutations are ignored.
func (c *Converter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	if !c.mounted {
		c.mounted = true
		close(c.settled)
	}
}

// Wait blocks until the fetch has settled or ctx is done.
func (c *Converter) Wait(ctx context.Context) error {
	select {
	case <-c.settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetAmount replaces the amount text and re-derives the conversion.
func (c *Converter) SetAmount(amount string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.amount = amount
	c.deriveLocked()
}

// SetCurrency replaces the selected currency code and re-derives the conversion.
func (c *Converter) SetCurrency(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.currency = code
	c.deriveLocked()
}

// Err returns the fetch error, if the fetch failed.
func (c *Converter) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Snapshot returns the ingested rate list.
func (c *Converter) Snapshot() rates.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *Converter) deriveLocked() {
	c.result = converter.Derive(c.amount, c.currency, c.snapshot)
	c.observer.Derived(context.Background(), c.result.OK)
}
