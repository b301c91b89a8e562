package parsing

import "unicode/utf8"

// CleanHeader drops header noise: lines of two characters or fewer
func CleanHeader(lines []string) []string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if utf8.RuneCountInString(line) <= 2 || singleLetter.MatchString(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return cleaned
}
