package parsing

import (
	"regexp"
	"strings"
)

// Section is a logical region of a printed receipt
type Section int

const (
	SectionHeader Section = iota
	SectionItems
	SectionTotals
	SectionFooter
)

func (s Section) String() string {
	switch s {
	case SectionHeader:
		return "header"
	case SectionItems:
		return "items"
	case SectionTotals:
		return "totals"
	case SectionFooter:
		return "footer"
	}
	return "unknown"
}

var (
	totalsMarker = regexp.MustCompile(`total|tax|vat|svc|service|amount due|balance due`)
	footerMarker = regexp.MustCompile(`thank|have a nice day|visit again|save environment|return policy|come again`)
	// itemsMarker matches a decimal amount or a currency symbol/code token
	itemsMarker = regexp.MustCompile(`\d+[.,]\d{1,2}|[€$£₹]|\b(?:rs|inr|eur|usd|gbp)\b`)
)

// LineGroups holds the lines of each section in their original order
type LineGroups struct {
	Header []string
	Items  []string
	Totals []string
	Footer []string
}

func (g *LineGroups) add(s Section, line string) {
	switch s {
	case SectionHeader:
		g.Header = append(g.Header, line)
	case SectionItems:
		g.Items = append(g.Items, line)
	case SectionTotals:
		g.Totals = append(g.Totals, line)
	case SectionFooter:
		g.Footer = append(g.Footer, line)
	}
}

// nextSection returns the section line belongs to when the previous line was
// in current. A totals keyword always wins, even after the footer started.
func nextSection(current Section, line string) Section {
	lower := strings.ToLower(line)
	switch {
	case totalsMarker.MatchString(lower):
		return SectionTotals
	case footerMarker.MatchString(lower):
		return SectionFooter
	case current == SectionHeader && itemsMarker.MatchString(lower):
		return SectionItems
	}
	return current
}

// Classify routes each line into a section, starting in the header.
func Classify(lines []string) LineGroups {
	var groups LineGroups
	section := SectionHeader
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		section = nextSection(section, line)
		groups.add(section, line)
	}
	return groups
}
