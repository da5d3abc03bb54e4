// Package extract turns raw recognized text into typed product attributes.
// Every extractor is a pure function of its input: no state is kept between
// calls and absence of a match is an expected outcome, not an error.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var flavorPatterns = compileFlavorPatterns()

func compileFlavorPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(flavorVocabulary))
	for _, flavor := range flavorVocabulary {
		patterns = append(patterns, regexp.MustCompile(`\b`+flavor+`\b`))
	}
	return patterns
}

// Price returns the first price found in the text. Patterns are tried in
// priority order and the first pattern with any match wins; within that
// pattern the leftmost match is returned. There is no cross-pattern
// comparison, so a high-priority match beats an earlier low-priority one.
func Price(text string) (string, bool) {
	for _, pattern := range pricePatterns {
		if m := pattern.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

// Brand scans non-empty lines top to bottom and returns the first word of the
// first line whose leading token starts with an uppercase letter and is longer
// than one character. Brands tend to sit at the start of a label line.
func Brand(text string) (string, bool) {
	for _, line := range splitLines(text) {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		first := words[0]
		r, _ := utf8.DecodeRuneInString(first)
		if unicode.IsUpper(r) && utf8.RuneCountInString(first) > 1 {
			return first, true
		}
	}
	return "", false
}

// Flavor tests the flavor vocabulary against the lower-cased text and returns
// the first vocabulary entry with a whole-word match anywhere in the text.
// Precedence follows vocabulary order, not position in the text: a flavor
// appearing later in the text wins if it sits earlier in the vocabulary.
func Flavor(text string) (string, bool) {
	lower := strings.ToLower(text)
	for i, pattern := range flavorPatterns {
		if pattern.MatchString(lower) {
			return flavorVocabulary[i], true
		}
	}
	return "", false
}

// PackSize returns the first pack size found in the text. Patterns are tried
// in table order; the first pattern that matches wins and its leftmost match
// is returned.
func PackSize(text string) (string, bool) {
	for _, pattern := range packSizePatterns {
		if m := pattern.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

// SKUName returns the line most likely to be the product name: the longest
// non-empty line, skipping lines shorter than five characters and lines that
// contain a cents-denominated price. Ties go to the earliest candidate.
func SKUName(text string) (string, bool) {
	var best string
	var bestLen int
	for _, line := range splitLines(text) {
		if utf8.RuneCountInString(line) < 5 || centsPrice.MatchString(line) {
			continue
		}
		if n := utf8.RuneCountInString(line); n > bestLen {
			best = line
			bestLen = n
		}
	}
	if bestLen == 0 {
		return "", false
	}
	return best, true
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
