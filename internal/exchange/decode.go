package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gitlab.com/yelinaung/quickrate/internal/logger"
	"gitlab.com/yelinaung/quickrate/internal/models"
)

// decodeRecords reads a JSON array of rate records. Elements that do not
// decode into a record are dropped and logged; a body that is not an array
// fails with ErrMalformedResponse.
func decodeRecords(body io.Reader, source string) ([]models.ExchangeRateRecord, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedResponse)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	records := make([]models.ExchangeRateRecord, 0, len(elements))
	for i, el := range elements {
		var rec models.ExchangeRateRecord
		if err := json.Unmarshal(el, &rec); err != nil {
			logger.Log.Warn().
				Err(err).
				Str("source", source).
				Int("index", i).
				Msg("Dropping undecodable rate record")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
