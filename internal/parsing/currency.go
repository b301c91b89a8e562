package parsing

import "strings"

// currencyMarkers lists each currency's indicators in detection priority.
// The order also breaks ties in the majority vote.
var currencyMarkers = []struct {
	code    Currency
	markers []string
}{
	{EUR, []string{"EUR", "€"}},
	{USD, []string{"USD", "$"}},
	{GBP, []string{"GBP", "£"}},
	{INR, []string{"INR", "RS", "₹"}},
}

// DetectCurrency returns the first currency indicated anywhere in line, or
// NoCurrency.
func DetectCurrency(line string) Currency {
	upper := strings.ToUpper(line)
	for _, c := range currencyMarkers {
		for _, marker := range c.markers {
			if strings.Contains(upper, marker) {
				return c.code
			}
		}
	}
	return NoCurrency
}

// majorityCurrency returns the currency detected on the most lines. Equal
// counts go to the currency listed first in currencyMarkers.
func majorityCurrency(lines []string) Currency {
	counts := make(map[Currency]int)
	for _, line := range lines {
		if c := DetectCurrency(line); c != NoCurrency {
			counts[c]++
		}
	}

	best, bestCount := NoCurrency, 0
	for _, c := range currencyMarkers {
		if counts[c.code] > bestCount {
			best, bestCount = c.code, counts[c.code]
		}
	}
	return best
}
