package parsing

import (
	"regexp"
	"strings"
)

// totalsAmount finds the first amount on a totals line: a thousands-grouped
// number, or digits with up to two decimals
var totalsAmount = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{1,2})?|\d+[.,]?\d{1,2}`)

// field returns the totals field a line's keywords select, or nil. Classes
// are checked in order: subtotal, tax, service charge, total.
func (t *Totals) field(line string) **Money {
	lower := strings.ToLower(line)
	switch {
	case containsAny(lower, "subtotal", "taxable"):
		return &t.Subtotal
	case containsAny(lower, "tax", "vat", "vatise"):
		return &t.Tax
	case containsAny(lower, "svc", "service"):
		return &t.ServiceCharge
	case strings.Contains(lower, "total"):
		return &t.Total
	}
	return nil
}

// ParseTotals extracts the summary amounts and the receipt currency from the
// totals section. When several lines fill the same field the last one wins.
func ParseTotals(lines []string) Totals {
	var totals Totals
	currency := majorityCurrency(lines)

	for _, line := range lines {
		token := totalsAmount.FindString(stripCurrencySymbols(NormalizeDigits(line)))
		if token == "" {
			continue
		}
		value, err := ParseAmount(token)
		if err != nil {
			continue
		}
		field := totals.field(line)
		if field == nil {
			continue
		}
		*field = moneyPtr(value)
		if totals.Currency == NoCurrency {
			totals.Currency = currency
		}
	}
	return totals
}
