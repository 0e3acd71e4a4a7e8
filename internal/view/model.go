package view

import (
	"gitlab.com/yelinaung/quickrate/internal/converter"
	"gitlab.com/yelinaung/quickrate/internal/models"
)

// CurrencyOption is one entry of the currency picker.
type CurrencyOption struct {
	Code     string
	Label    string
	Selected bool
}

// Cell is one rendered table cell.
type Cell struct {
	Text  string
	Align models.Alignment
}

// Model is a point-in-time copy of the view, ready to render.
type Model struct {
	State        models.FetchState
	Loading      bool
	Amount       string
	Currency     string
	BaseCurrency string
	Options      []CurrencyOption
	Headers      []Cell
	Rows         [][]Cell
	Result       converter.Result
	Display      string
}

// HasRates reports whether there is a rate list to show.
func (m Model) HasRates() bool {
	return len(m.Rows) > 0
}

// Model returns a render model of the current state.
func (c *Converter) Model() Model {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := c.snapshot.Records()
	m := Model{
		State:        c.state,
		Loading:      c.loading,
		Amount:       c.amount,
		Currency:     c.currency,
		BaseCurrency: models.BaseCurrency,
		Options:      make([]CurrencyOption, 0, len(records)),
		Headers:      make([]Cell, len(models.RateColumns)),
		Rows:         make([][]Cell, 0, len(records)),
		Result:       c.result,
		Display:      c.result.Display(),
	}

	for i, col := range models.RateColumns {
		m.Headers[i] = Cell{Text: col.Header, Align: models.AlignCenter}
	}

	for _, rec := range records {
		m.Options = append(m.Options, CurrencyOption{
			Code:     rec.CurUnit,
			Label:    rec.OptionLabel(),
			Selected: rec.CurUnit == c.currency,
		})
		row := make([]Cell, len(models.RateColumns))
		for i, col := range models.RateColumns {
			row[i] = Cell{Text: col.Value(rec), Align: col.Align}
		}
		m.Rows = append(m.Rows, row)
	}

	return m
}
