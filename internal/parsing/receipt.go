package parsing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Currency is the code of the single currency a receipt is priced in
type Currency string

const (
	// NoCurrency means no currency indicator was found
	NoCurrency Currency = ""
	EUR        Currency = "EUR"
	USD        Currency = "USD"
	GBP        Currency = "GBP"
	INR        Currency = "INR"
)

// MarshalJSON renders an unset currency as null
func (c Currency) MarshalJSON() ([]byte, error) {
	if c == NoCurrency {
		return []byte("null"), nil
	}
	return json.Marshal(string(c))
}

// MarshalYAML renders an unset currency as null
func (c Currency) MarshalYAML() (any, error) {
	if c == NoCurrency {
		return nil, nil
	}
	return string(c), nil
}

// Money is a monetary amount. It always renders with two fractional digits.
type Money float64

// MarshalJSON renders the amount as a JSON number with two decimals
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.NewFromFloat(float64(m)).StringFixed(2)), nil
}

// MarshalYAML renders the amount as a float with two decimals
func (m Money) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!float",
		Value: decimal.NewFromFloat(float64(m)).StringFixed(2),
	}, nil
}

// UnmarshalJSON accepts both numbers and numeric strings
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("unmarshaling money: %w", err)
	}
	f, _ := d.Float64()
	*m = Money(f)
	return nil
}

// moneyPtr returns a pointer to an amount, for optional totals fields
func moneyPtr(v float64) *Money {
	m := Money(v)
	return &m
}

// Item is one purchased line of a receipt
type Item struct {
	Description string   `json:"item" yaml:"item"`
	Quantity    int      `json:"quantity" yaml:"quantity"`
	Cost        Money    `json:"cost" yaml:"cost"` // unit cost
	Currency    Currency `json:"currency" yaml:"currency"`
}

// Totals holds the summary amounts printed below the items. A nil field was
// not found on the receipt.
type Totals struct {
	Subtotal      *Money   `json:"subtotal" yaml:"subtotal"`
	Tax           *Money   `json:"tax" yaml:"tax"`
	ServiceCharge *Money   `json:"service_charge" yaml:"service_charge"`
	Total         *Money   `json:"total" yaml:"total"`
	Currency      Currency `json:"currency" yaml:"currency"`
}

// Receipt is the structured result of interpreting one receipt's OCR text
type Receipt struct {
	ShopName    string   `json:"shop_name" yaml:"shop_name"`
	ShopAddress []string `json:"shop_address" yaml:"shop_address"`
	Items       []Item   `json:"items" yaml:"items"`
	Totals      Totals   `json:"total" yaml:"total"`
	Footer      []string `json:"footer" yaml:"footer"`
}
