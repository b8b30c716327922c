// Package quote translates oracle price records, which carry every value as
// a string, into typed records. The block timestamp is converted to
// nanoseconds since the epoch with epochnanos so the result does not depend
// on the host clock or calendar.
package quote

import (
	"errors"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/holiman/uint256"
	"github.com/imarsman/epochnanos"
	"github.com/imarsman/epochnanos/pkg/utility"
	"lab.nexedi.com/kirr/go123/xfmt"
)

// Field names as they appear in oracle records
const (
	FieldPrice          = "price"
	FieldBlockTimestamp = "block_timestamp"
	FieldBlockHeight    = "block_height"
	FieldNonce          = "nonce"
	FieldDecimals       = "decimals"
	FieldID             = "id"
	FieldCurrencyPair   = "currency_pair"
)

// FieldError reports a record field that could not be translated. Index is
// the position of the record in a batch, or -1 for a single record.
type FieldError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	xfmtBuf := new(xfmt.Buffer)
	xfmtBuf.S("quote: ")
	if e.Index >= 0 {
		xfmtBuf.S("record ").D(e.Index).C(' ')
	}
	xfmtBuf.S("field ").S(e.Field).S(" value ").S(strconv.Quote(e.Value)).S(": ").S(e.Err.Error())

	return utility.BytesToString(xfmtBuf.Bytes()...)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// IsTimestampError reports whether err came from converting a block
// timestamp, as opposed to a numeric field or a decoding failure.
func IsTimestampError(err error) bool {
	var e *FieldError
	if errors.As(err, &e) {
		return e.Field == FieldBlockTimestamp
	}
	return false
}

// CurrencyPair a base and quote asset, written BASE/QUOTE
type CurrencyPair struct {
	Base  string `json:"Base"`
	Quote string `json:"Quote"`
}

// String the pair in BASE/QUOTE form
func (p CurrencyPair) String() string {
	return p.Base + "/" + p.Quote
}

// ParseCurrencyPair parse a pair id such as "BTC/USD"
func ParseCurrencyPair(id string) (CurrencyPair, error) {
	base, quote, found := strings.Cut(id, "/")
	if !found || base == "" || quote == "" || strings.IndexByte(quote, '/') >= 0 {
		return CurrencyPair{}, &FieldError{
			Index: -1, Field: FieldCurrencyPair, Value: id,
			Err: errors.New("expected BASE/QUOTE"),
		}
	}
	return CurrencyPair{Base: base, Quote: quote}, nil
}

// RawQuotePrice a price as received from the oracle
type RawQuotePrice struct {
	Price          string `json:"price"`
	BlockTimestamp string `json:"block_timestamp"`
	BlockHeight    string `json:"block_height"`
}

// RawPriceResponse a price record as received from the oracle
type RawPriceResponse struct {
	Price    RawQuotePrice `json:"price"`
	Nonce    string        `json:"nonce"`
	Decimals string        `json:"decimals"`
	ID       string        `json:"id"`
}

// RawPricesResponse a batch of price records as received from the oracle
type RawPricesResponse struct {
	Prices []RawPriceResponse `json:"prices"`
}

// QuotePrice a translated price. BlockTimestamp is nanoseconds since the
// epoch.
type QuotePrice struct {
	Price          *uint256.Int
	BlockTimestamp epochnanos.EpochNanos
	BlockHeight    uint64
}

// quotePriceJSON price and timestamp are decimal strings so that consumers
// without 256 bit or 64 bit unsigned integers do not lose precision
type quotePriceJSON struct {
	Price          string `json:"price"`
	BlockTimestamp string `json:"block_timestamp"`
	BlockHeight    uint64 `json:"block_height"`
}

// MarshalJSON encode price and block timestamp as decimal strings
func (q QuotePrice) MarshalJSON() ([]byte, error) {
	price := "0"
	if q.Price != nil {
		price = q.Price.Dec()
	}
	return json.Marshal(quotePriceJSON{
		Price:          price,
		BlockTimestamp: q.BlockTimestamp.String(),
		BlockHeight:    q.BlockHeight,
	})
}

// UnmarshalJSON decode the form written by MarshalJSON
func (q *QuotePrice) UnmarshalJSON(data []byte) error {
	var v quotePriceJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	price, err := uint256.FromDecimal(v.Price)
	if err != nil {
		return &FieldError{Index: -1, Field: FieldPrice, Value: v.Price, Err: err}
	}
	ts, err := strconv.ParseUint(v.BlockTimestamp, 10, 64)
	if err != nil {
		return &FieldError{Index: -1, Field: FieldBlockTimestamp, Value: v.BlockTimestamp, Err: err}
	}

	q.Price = price
	q.BlockTimestamp = epochnanos.EpochNanos(ts)
	q.BlockHeight = v.BlockHeight

	return nil
}

// PriceResponse a translated price record
type PriceResponse struct {
	Price    QuotePrice `json:"price"`
	Nonce    uint64     `json:"nonce"`
	Decimals uint64     `json:"decimals"`
	ID       uint64     `json:"id"`
}

// PricesResponse a batch of translated price records
type PricesResponse struct {
	Prices []PriceResponse `json:"prices"`
}

// CurrencyPairsResponse the pairs known to the oracle
type CurrencyPairsResponse struct {
	CurrencyPairs []CurrencyPair `json:"currency_pairs"`
}

// parseUint64 decimal field to uint64, wrapping failures in a FieldError
func parseUint64(index int, field, value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, &FieldError{Index: index, Field: field, Value: value, Err: err}
	}
	return n, nil
}

func translate(index int, raw RawPriceResponse) (resp PriceResponse, err error) {
	price, err := uint256.FromDecimal(raw.Price.Price)
	if err != nil {
		err = &FieldError{Index: index, Field: FieldPrice, Value: raw.Price.Price, Err: err}
		return
	}
	resp.Price.Price = price

	resp.Price.BlockTimestamp, err = epochnanos.Convert(raw.Price.BlockTimestamp)
	if err != nil {
		err = &FieldError{Index: index, Field: FieldBlockTimestamp, Value: raw.Price.BlockTimestamp, Err: err}
		return
	}

	if resp.Price.BlockHeight, err = parseUint64(index, FieldBlockHeight, raw.Price.BlockHeight); err != nil {
		return
	}
	if resp.Nonce, err = parseUint64(index, FieldNonce, raw.Nonce); err != nil {
		return
	}
	if resp.Decimals, err = parseUint64(index, FieldDecimals, raw.Decimals); err != nil {
		return
	}
	if resp.ID, err = parseUint64(index, FieldID, raw.ID); err != nil {
		return
	}

	return
}

// Translate a raw price record. Numeric fields are parsed as unsigned
// decimals and the block timestamp is converted to epoch nanoseconds.
func Translate(raw RawPriceResponse) (PriceResponse, error) {
	return translate(-1, raw)
}

// TranslateAll translate every record in a batch, stopping at the first
// record that fails. The error carries the index of that record.
func TranslateAll(raw RawPricesResponse) (PricesResponse, error) {
	resp := PricesResponse{Prices: make([]PriceResponse, 0, len(raw.Prices))}
	for i := 0; i < len(raw.Prices); i++ {
		p, err := translate(i, raw.Prices[i])
		if err != nil {
			return PricesResponse{}, err
		}
		resp.Prices = append(resp.Prices, p)
	}

	return resp, nil
}

// DecodePriceResponse decode a raw price record from JSON
func DecodePriceResponse(data []byte) (raw RawPriceResponse, err error) {
	err = json.Unmarshal(data, &raw)
	return
}

// DecodePricesResponse decode a raw batch of price records from JSON
func DecodePricesResponse(data []byte) (raw RawPricesResponse, err error) {
	err = json.Unmarshal(data, &raw)
	return
}

// DecodeCurrencyPairs decode the list of pairs known to the oracle
func DecodeCurrencyPairs(data []byte) ([]CurrencyPair, error) {
	var resp CurrencyPairsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return resp.CurrencyPairs, nil
}

// Encode translated records as JSON
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Decode JSON into v, such as a PriceResponse written by Encode
func Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
