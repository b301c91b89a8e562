package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	datePattern  = regexp.MustCompile(`^\d+/\d+/?\d*$`)
	timePattern  = regexp.MustCompile(`^\d+:\d+$`)
	singleLetter = regexp.MustCompile(`^[a-zA-Z]$`)

	// nonItemPatterns match lowercased text that is receipt metadata rather
	// than something that was bought
	nonItemPatterns = []*regexp.Regexp{
		regexp.MustCompile(`cashier.*\d+`),
		regexp.MustCompile(`order.*\d+`),
		regexp.MustCompile(`date.*\d+`),
		regexp.MustCompile(`time.*\d+`),
		phonePattern,
		regexp.MustCompile(`receipt`),
		regexp.MustCompile(`tel`),
		regexp.MustCompile(`phone`),
		regexp.MustCompile(`invoice`),
		regexp.MustCompile(`bill`),
		regexp.MustCompile(`paid`),
		regexp.MustCompile(`tendered`),
		regexp.MustCompile(`change`),
	}
)

// phonePattern matches digit-dash runs such as phone numbers and dates
var phonePattern = regexp.MustCompile(`\d+-\d+-?\d*`)

// ValidDescription reports whether desc plausibly names a purchased item
func ValidDescription(desc string) bool {
	if datePattern.MatchString(desc) || timePattern.MatchString(desc) {
		return false
	}
	if utf8.RuneCountInString(desc) < 2 || singleLetter.MatchString(desc) {
		return false
	}

	lower := strings.ToLower(desc)
	for _, p := range nonItemPatterns {
		if p.MatchString(lower) {
			return false
		}
	}
	return true
}
