// Package parsing interprets the OCR text of a photographed retail receipt:
// it splits the lines into sections, corrects OCR-garbled digits, and pulls
// out the shop, the items and the totals. Every step is best effort and
// never fails; unreadable content yields empty fields.
package parsing

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// SplitLines breaks raw OCR text into trimmed, non-empty lines. Full-width
// digits and symbols are folded to their ASCII forms.
func SplitLines(text string) []string {
	text = width.Fold.String(norm.NFC.String(text))
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// ParseText interprets raw multi-line OCR output
func ParseText(text string) *Receipt {
	return Parse(SplitLines(text))
}

// Parse interprets OCR lines in order and assembles the receipt
func Parse(lines []string) *Receipt {
	groups := Classify(lines)
	header := CleanHeader(groups.Header)

	// totals first: they decide the currency the items are priced in
	totals := ParseTotals(groups.Totals)
	items := ParseItems(groups.Items, totals.Currency)
	reconcileCurrency(&totals, items)

	receipt := &Receipt{
		ShopAddress: []string{},
		Items:       items,
		Totals:      totals,
		Footer:      append([]string{}, groups.Footer...),
	}
	if len(header) > 0 {
		receipt.ShopName = header[0]
		receipt.ShopAddress = header[1:]
	}
	return receipt
}

// reconcileCurrency settles one currency for the whole receipt: the totals'
// currency, else the first item's, else USD. Every item is rewritten to it.
func reconcileCurrency(totals *Totals, items []Item) {
	switch {
	case totals.Currency != NoCurrency:
	case len(items) > 0:
		totals.Currency = items[0].Currency
	default:
		totals.Currency = USD
	}
	for i := range items {
		items[i].Currency = totals.Currency
	}
}
