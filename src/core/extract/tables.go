package extract

import "regexp"

// The tables below are order-significant: extractors try entries top to bottom
// and the first entry that matches wins. Reordering changes extraction results.

// flavorVocabulary lists flavor terms that commonly appear in product
// descriptions, in precedence order.
var flavorVocabulary = []string{
	"vanilla", "chocolate", "strawberry", "mint", "cherry", "lemon", "lime", "orange",
	"grape", "apple", "peach", "coconut", "coffee", "caramel", "banana", "berry",
	"raspberry", "blueberry", "blackberry", "mango", "watermelon", "honey", "cinnamon",
	"pineapple", "tropical", "original", "natural", "unflavored", "plain",
	"menthol", "peppermint", "spearmint", "eucalyptus",
}

// pricePatterns matches prices in three currencies. Symbol-prefixed amounts
// with cents rank highest; bare integers with a trailing symbol rank lowest.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\d+\.\d{2}`),       // $10.99
	regexp.MustCompile(`€\d+\.\d{2}`),        // €10.99
	regexp.MustCompile(`£\d+\.\d{2}`),        // £10.99
	regexp.MustCompile(`\d+\.\d{2}\s*[$€£]`), // 10.99$
	regexp.MustCompile(`\$\d+`),              // $10
	regexp.MustCompile(`€\d+`),               // €10
	regexp.MustCompile(`£\d+`),               // £10
	regexp.MustCompile(`\d+\s*[$€£]`),        // 10$
}

// packSizePatterns matches volume, weight, count and multi-pack forms.
var packSizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d+\s*ml\b`),       // 500ml
	regexp.MustCompile(`(?i)\b\d+\s*l\b`),        // 2l
	regexp.MustCompile(`(?i)\b\d+\s*liter\w*\b`), // 2 liter, 2 liters
	regexp.MustCompile(`(?i)\b\d+\s*oz\b`),       // 16oz
	regexp.MustCompile(`(?i)\b\d+\s*pack\b`),     // 6 pack
	regexp.MustCompile(`(?i)\b\d+\s*count\b`),    // 24 count
	regexp.MustCompile(`(?i)\b\d+\s*ct\b`),       // 24ct
	regexp.MustCompile(`(?i)\b\d+\s*pk\b`),       // 6pk
	regexp.MustCompile(`(?i)\b\d+\s*g\b`),        // 500g
	regexp.MustCompile(`(?i)\b\d+\s*kg\b`),       // 1kg
	regexp.MustCompile(`(?i)\b\d+\s*gram\w*\b`),  // 500 grams
	regexp.MustCompile(`(?i)\b\d+\s*tab\w*\b`),   // 20 tablets
	regexp.MustCompile(`(?i)\b\d+\s*cap\w*\b`),   // 30 capsules
	regexp.MustCompile(`(?i)\b\d+-\s*pack\b`),    // 6-pack
	regexp.MustCompile(`(?i)\b\d+-\s*ct\b`),      // 24-ct
	regexp.MustCompile(`(?i)\b\d+x\d+\s*\w+\b`),  // 3x500ml
}

// centsPrice flags lines that are price labels rather than product names.
var centsPrice = regexp.MustCompile(`\$\d+\.\d{2}`)
