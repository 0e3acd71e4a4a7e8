package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitlab.com/yelinaung/quickrate/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	koreaEximPath     = "/site/program/financial/exchangeJSON"
	koreaEximDataType = "AP01"
	searchDateLayout  = "20060102"
)

// UpstreamResultError is a non-success "result" code in a Korea Eximbank payload.
type UpstreamResultError struct {
	Code int
}

func (e *UpstreamResultError) Error() string {
	switch e.Code {
	case 2:
		return "korea exim rejected the data code (result 2)"
	case 3:
		return "korea exim rejected the auth key (result 3)"
	case 4:
		return "korea exim daily request limit exceeded (result 4)"
	default:
		return fmt.Sprintf("korea exim returned result %d", e.Code)
	}
}

// KoreaEximClient is a client for the Korea Eximbank daily exchange rate API.
type KoreaEximClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewKoreaEximClient creates a Korea Eximbank API client.
func NewKoreaEximClient(baseURL, apiKey string, timeout time.Duration) *KoreaEximClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = "https://www.koreaexim.go.kr"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &KoreaEximClient{
		baseURL: trimmed,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// ValidateSearchDate accepts "" (latest) or a YYYYMMDD calendar date.
func ValidateSearchDate(searchDate string) error {
	if searchDate == "" {
		return nil
	}
	if len(searchDate) != len(searchDateLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidSearchDate, searchDate)
	}
	if _, err := time.Parse(searchDateLayout, searchDate); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSearchDate, searchDate)
	}
	return nil
}

// FetchRates returns the rates published for searchDate, or the latest when
// searchDate is empty. Non-business days yield an empty list.
func (c *KoreaEximClient) FetchRates(ctx context.Context, searchDate string) ([]models.ExchangeRateRecord, error) {
	if err := ValidateSearchDate(searchDate); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("authkey", c.apiKey)
	query.Set("data", koreaEximDataType)
	if searchDate != "" {
		query.Set("searchdate", searchDate)
	}
	endpoint := c.baseURL + koreaEximPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request exchange rates: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	records, err := decodeRecords(resp.Body, "koreaexim")
	if err != nil {
		return nil, err
	}

	if len(records) > 0 && records[0].Result != models.UpstreamResultOK {
		return nil, &UpstreamResultError{Code: records[0].Result}
	}

	return records, nil
}
