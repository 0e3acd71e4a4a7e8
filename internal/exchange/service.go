// Package exchange fetches exchange-rate lists over HTTP.
package exchange

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/yelinaung/quickrate/internal/models"
)

var (
	// ErrMalformedResponse means the body was not a JSON array of rate records.
	ErrMalformedResponse = errors.New("malformed rate list response")
	// ErrInvalidSearchDate means a search date was not in YYYYMMDD form.
	ErrInvalidSearchDate = errors.New("search date must be YYYYMMDD")
)

// RateSource returns the published rates for a search date (YYYYMMDD).
// An empty searchDate asks for the latest publication.
type RateSource interface {
	FetchRates(ctx context.Context, searchDate string) ([]models.ExchangeRateRecord, error)
}

// StatusError reports a non-success HTTP status from a rate endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exchange API returned status %d", e.StatusCode)
}
