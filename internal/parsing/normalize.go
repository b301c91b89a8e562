package parsing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ocrDigits maps letters that OCR commonly reads in place of digits.
// Uppercase only: lowercase letters are left alone.
var ocrDigits = strings.NewReplacer(
	"O", "0",
	"S", "5",
	"I", "1",
	"Z", "2",
	"B", "8",
	"G", "6",
	"Q", "0",
)

var currencySymbols = strings.NewReplacer("€", "", "$", "", "£", "")

// NormalizeDigits replaces OCR-confused letters with the digits they usually are.
// It is lossy: a real "S" or "O" is rewritten too.
func NormalizeDigits(s string) string {
	return ocrDigits.Replace(s)
}

// stripCurrencySymbols removes €, $ and £ from s
func stripCurrencySymbols(s string) string {
	return currencySymbols.Replace(s)
}

// amountText prepares a raw price token for ParseAmount
func amountText(s string) string {
	return strings.TrimSpace(stripCurrencySymbols(NormalizeDigits(s)))
}

// ParseAmount parses a price written with either "," or "." as the decimal
// separator. When both appear the rightmost one is the decimal point and the
// other groups thousands; a lone "," is a decimal point.
func ParseAmount(s string) (float64, error) {
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	f, _ := d.Float64()
	return f, nil
}

// orDefault returns a function that yields v, or def when err is set.
// It keeps fallback values visible where a conversion is made:
//
//	qty := orDefault(1)(strconv.Atoi(s))
func orDefault[T any](def T) func(T, error) T {
	return func(v T, err error) T {
		if err != nil {
			return def
		}
		return v
	}
}
