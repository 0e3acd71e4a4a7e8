// Package models defines the domain entities for the rate converter.
package models

// BaseCurrency is the currency amounts are entered in. All published rates are
// quoted as units of BaseCurrency per unit of the target currency.
const BaseCurrency = "KRW"

// UpstreamResultOK is the "result" value the Korea Eximbank feed sets on success.
const UpstreamResultOK = 1

// ExchangeRateRecord is one currency's published rate snapshot.
// Numeric fields keep the feed's formatting, e.g. "1,300.50".
type ExchangeRateRecord struct {
	Result         int    `json:"result"`
	CurUnit        string `json:"cur_unit" validate:"required,notblank"`
	CurName        string `json:"cur_nm" validate:"required,notblank"`
	TTB            string `json:"ttb" validate:"omitempty,decimalfmt"`
	TTS            string `json:"tts" validate:"omitempty,decimalfmt"`
	DealBaseRate   string `json:"deal_bas_r" validate:"omitempty,decimalfmt"`
	BookPrice      string `json:"bkpr" validate:"omitempty,decimalfmt"`
	YearFeeRate    string `json:"yy_efee_r" validate:"omitempty,decimalfmt"`
	TenDayFeeRate  string `json:"ten_dd_efee_r" validate:"omitempty,decimalfmt"`
	KFTCBookPrice  string `json:"kftc_bkpr" validate:"omitempty,decimalfmt"`
	KFTCDealBaseRt string `json:"kftc_deal_bas_r" validate:"omitempty,decimalfmt"`
}

// OptionLabel is how the record is listed in a currency picker.
func (r ExchangeRateRecord) OptionLabel() string {
	return r.CurName + " (" + r.CurUnit + ")"
}

// Alignment of a table column.
type Alignment string

const (
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// RateColumn describes one column of the rates table.
type RateColumn struct {
	Header string
	Align  Alignment
	Value  func(ExchangeRateRecord) string
}

// RateColumns lists the rates table columns in display order.
var RateColumns = []RateColumn{
	{Header: "Currency Code", Align: AlignCenter, Value: func(r ExchangeRateRecord) string { return r.CurUnit }},
	{Header: "Currency Name", Align: AlignCenter, Value: func(r ExchangeRateRecord) string { return r.CurName }},
	{Header: "TT Buying", Align: AlignRight, Value: func(r ExchangeRateRecord) string { return r.TTB }},
	{Header: "TT Selling", Align: AlignRight, Value: func(r ExchangeRateRecord) string { return r.TTS }},
	{Header: "Base Dealing Rate", Align: AlignRight, Value: func(r ExchangeRateRecord) string { return r.DealBaseRate }},
	{Header: "Book Price", Align: AlignRight, Value: func(r ExchangeRateRecord) string { return r.BookPrice }},
	{Header: "Annual Commission", Align: AlignRight, Value: func(r ExchangeRateRecord) string { return r.YearFeeRate }},
	{Header: "10-Day Commission", Align: AlignRight, Value: func(r ExchangeRateRecord) string { return r.TenDayFeeRate }},
	{Header: "SMB Base Rate", Align: AlignRight, Value: func(r ExchangeRateRecord) string { return r.KFTCBookPrice }},
	{Header: "KFTC Base Dealing Rate", Align: AlignRight, Value: func(r ExchangeRateRecord) string { return r.KFTCDealBaseRt }},
}

// Row returns the record's table cells in RateColumns order.
func (r ExchangeRateRecord) Row() []string {
	cells := make([]string, len(RateColumns))
	for i, col := range RateColumns {
		cells[i] = col.Value(r)
	}
	return cells
}

// FetchState is the lifecycle of a page view's rate fetch.
type FetchState string

const (
	FetchStateNoData  FetchState = "no-data"
	FetchStateLoading FetchState = "loading"
	FetchStateLoaded  FetchState = "loaded"
)
