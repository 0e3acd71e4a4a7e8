// Package rates turns fetched rate records into an immutable, validated snapshot.
package rates

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/quickrate/internal/models"
)

var (
	// ErrEmptyDecimal is returned for blank input.
	ErrEmptyDecimal = errors.New("empty decimal value")
	// ErrDecimalRange is returned when a value cannot be a finite float64.
	ErrDecimalRange = errors.New("decimal value out of range")
)

// maxDecimalExponent bounds the base-10 exponent accepted before converting
// to float64.
const maxDecimalExponent = 400

const reasonDuplicate = "duplicate currency code"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("decimalfmt", func(fl validator.FieldLevel) bool {
		_, err := ParseDecimal(fl.Field().String())
		return err == nil
	})
	return v
}

// ParseDecimal strips comma thousands separators and parses the rest as a
// decimal number. "1,300.50" yields 1300.5.
func ParseDecimal(s string) (float64, error) {
	return parseFloat(strings.ReplaceAll(s, ",", ""), s)
}

// ParseAmount parses a user-entered amount. Unlike ParseDecimal it does not
// accept thousands separators.
func ParseAmount(s string) (float64, error) {
	return parseFloat(s, s)
}

func parseFloat(cleaned, raw string) (float64, error) {
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, ErrEmptyDecimal
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q: %w", raw, err)
	}
	if exp := d.Exponent(); exp > maxDecimalExponent || exp < -maxDecimalExponent {
		return 0, fmt.Errorf("%w: %q", ErrDecimalRange, raw)
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrDecimalRange, raw)
	}
	return f, nil
}

// Rejection records an input record dropped during ingestion.
type Rejection struct {
	Index  int
	Record models.ExchangeRateRecord
	Reason string
}

func (r Rejection) String() string {
	return fmt.Sprintf("record %d (%q): %s", r.Index, r.Record.CurUnit, r.Reason)
}

// Snapshot is an immutable, ordered view of the ingested rates.
// The zero value is an empty snapshot.
type Snapshot struct {
	records []models.ExchangeRateRecord
	index   map[string]int
}

// Ingest validates records and builds a snapshot from the valid ones, keeping
// input order. Records missing a currency code or name, or carrying malformed
// numbers, are rejected. When a currency code repeats, the first record wins.
func Ingest(records []models.ExchangeRateRecord) (Snapshot, []Rejection) {
	snap := Snapshot{
		records: make([]models.ExchangeRateRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	var rejected []Rejection

	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			rejected = append(rejected, Rejection{Index: i, Record: rec, Reason: describe(err)})
			continue
		}
		if _, dup := snap.index[rec.CurUnit]; dup {
			rejected = append(rejected, Rejection{Index: i, Record: rec, Reason: reasonDuplicate})
			continue
		}
		snap.index[rec.CurUnit] = len(snap.records)
		snap.records = append(snap.records, rec)
	}

	return snap, rejected
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.records)
}

// Records returns a copy of the records in feed order.
func (s Snapshot) Records() []models.ExchangeRateRecord {
	out := make([]models.ExchangeRateRecord, len(s.records))
	copy(out, s.records)
	return out
}

// First returns the first record, if any.
func (s Snapshot) First() (models.ExchangeRateRecord, bool) {
	if len(s.records) == 0 {
		return models.ExchangeRateRecord{}, false
	}
	return s.records[0], true
}

// Lookup finds the record whose currency code equals code exactly.
func (s Snapshot) Lookup(code string) (models.ExchangeRateRecord, bool) {
	i, ok := s.index[code]
	if !ok {
		return models.ExchangeRateRecord{}, false
	}
	return s.records[i], true
}

// Codes returns the currency codes in feed order.
func (s Snapshot) Codes() []string {
	codes := make([]string, len(s.records))
	for i, rec := range s.records {
		codes[i] = rec.CurUnit
	}
	return codes
}
