package exchange

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"gitlab.com/yelinaung/quickrate/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RatesClient fetches the rate list a page view renders.
// It sends a plain GET with no parameters and sets no timeout of its own:
// the caller's context is the only cancellation.
type RatesClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewRatesClient creates a client for endpoint. A nil httpClient gets an
// instrumented client without a timeout.
func NewRatesClient(endpoint string, httpClient *http.Client) *RatesClient {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &RatesClient{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: httpClient,
	}
}

// Endpoint returns the URL the client fetches.
func (c *RatesClient) Endpoint() string {
	return c.endpoint
}

// FetchRates issues one GET and decodes the JSON array response.
func (c *RatesClient) FetchRates(ctx context.Context) ([]models.ExchangeRateRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request rates: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return decodeRecords(resp.Body, "rates-endpoint")
}
