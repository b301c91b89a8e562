package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	minItemPrice = 0.01
	maxItemPrice = 10000.00

	// OCR tokens may carry letters NormalizeDigits turns back into digits
	qtyToken   = `(\d[\dOSIZBGQ]*)`
	priceToken = `([€$£]?\s*[\d,.][\d,.OSIZBGQ]*)`
)

// itemSkipKeywords mark lines in the items section that are not items
var itemSkipKeywords = []string{
	"receipt", "date", "cashier", "subtotal", "tax", "vat",
	"total", "cash", "change", "service", "thank", "shop", "supermarket",
	"tel", "phone", "invoice", "bill", "paid", "taxable", "vatise", "cane", "paid with",
	"tendered", "order", "time", "come again", "dining",
}

var (
	leadingQuantity = regexp.MustCompile(`^\d+\s*x?\s*`)
	trailingAmount  = regexp.MustCompile(`[€$£]?\s*[\d,.][\d,.OSIZBGQ]*$`)
)

// itemMatch holds the raw fields a pattern pulled out of an item line
type itemMatch struct {
	quantity    string
	description string
	price       string
}

// itemMatcher extracts the raw fields of an item line if it has a known shape
type itemMatcher func(line string) (itemMatch, bool)

// itemMatchers are tried in order; the first one that yields a valid item wins
var itemMatchers = []itemMatcher{
	// 2 x Latte 4.50
	patternMatcher(regexp.MustCompile(qtyToken+`\s*[xX]\s*(.+?)\s+`+priceToken+`$`), 1, 2, 3),
	// Latte 2 x 4.50
	patternMatcher(regexp.MustCompile(`(.+?)\s+`+qtyToken+`\s*[xX]\s*`+priceToken+`$`), 2, 1, 3),
	// 2 Latte 4.50
	patternMatcher(regexp.MustCompile(qtyToken+`\s+(.+?)\s+`+priceToken+`$`), 1, 2, 3),
	// Latte $4.50
	patternMatcher(regexp.MustCompile(`(.+?)\s+`+priceToken+`$`), 0, 1, 2),
	// Latte 4.50
	patternMatcher(regexp.MustCompile(`(.+?)\s+(\d+[.,]\d{2})$`), 0, 1, 2),
}

// patternMatcher builds an itemMatcher from a regexp and the submatch index of
// each field. A zero quantity index means the pattern carries no quantity.
func patternMatcher(re *regexp.Regexp, qty, desc, price int) itemMatcher {
	return func(line string) (itemMatch, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return itemMatch{}, false
		}
		match := itemMatch{
			quantity:    "1",
			description: strings.TrimSpace(m[desc]),
			price:       m[price],
		}
		if qty > 0 {
			match.quantity = m[qty]
		}
		return match, true
	}
}

// parseQuantity reads an OCR quantity token. Anything unreadable, zero or
// negative counts as one.
func parseQuantity(s string) int {
	qty := orDefault(1)(strconv.Atoi(strings.TrimSpace(NormalizeDigits(s))))
	if qty < 1 {
		return 1
	}
	return qty
}

// parsePrice reads an OCR price token and enforces the accepted price range
func parsePrice(s string) (float64, bool) {
	price, err := ParseAmount(amountText(s))
	if err != nil || price < minItemPrice || price > maxItemPrice {
		return 0, false
	}
	return price, true
}

// cleanDescription strips a leading quantity left in front of an item name
func cleanDescription(desc string) string {
	return strings.TrimSpace(leadingQuantity.ReplaceAllString(desc, ""))
}

// buildItem validates a match and turns it into an Item
func buildItem(m itemMatch, currency Currency) (Item, bool) {
	desc := cleanDescription(m.description)
	if !ValidDescription(desc) {
		return Item{}, false
	}
	price, ok := parsePrice(m.price)
	if !ok {
		return Item{}, false
	}
	return Item{
		Description: desc,
		Quantity:    parseQuantity(m.quantity),
		Cost:        Money(price),
		Currency:    currency,
	}, true
}

// matchItem tries every pattern in order. A pattern whose fields do not
// validate falls through to the next one.
func matchItem(line string, currency Currency) (Item, bool) {
	for _, matcher := range itemMatchers {
		m, ok := matcher(line)
		if !ok {
			continue
		}
		if item, ok := buildItem(m, currency); ok {
			return item, true
		}
	}
	return Item{}, false
}

// matchTrailingAmount treats the last numeric run of a line as its price and
// everything before it as the description
func matchTrailingAmount(line string, currency Currency) (Item, bool) {
	loc := trailingAmount.FindStringIndex(line)
	if loc == nil {
		return Item{}, false
	}
	return buildItem(itemMatch{
		quantity:    "1",
		description: strings.TrimSpace(line[:loc[0]]),
		price:       line[loc[0]:],
	}, currency)
}

// itemCandidates drops lines that carry a non-item keyword or nothing but
// table borders
func itemCandidates(lines []string) []string {
	candidates := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.ReplaceAll(line, "|", ""))
		if line == "" || containsAny(strings.ToLower(line), itemSkipKeywords...) {
			continue
		}
		candidates = append(candidates, line)
	}
	return candidates
}

// ParseItems extracts purchased items from the items section. Items are priced
// in currency, or USD when the receipt currency is not known yet.
func ParseItems(lines []string, currency Currency) []Item {
	if currency == NoCurrency {
		currency = USD
	}

	items := make([]Item, 0, len(lines))
	for _, line := range itemCandidates(lines) {
		line = strings.TrimSpace(strings.ReplaceAll(line, ":", ""))
		if phonePattern.MatchString(line) {
			continue
		}
		if item, ok := matchItem(line, currency); ok {
			items = append(items, item)
			continue
		}
		if item, ok := matchTrailingAmount(line, currency); ok {
			items = append(items, item)
		}
	}

	valid := items[:0]
	for _, item := range items {
		if !ValidDescription(item.Description) || strings.ContainsAny(item.Description, "/-") {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
