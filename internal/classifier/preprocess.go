package classifier

import (
	"regexp"
	"strings"
)

var (
	htmlTagRe     = regexp.MustCompile(`<[^>]*>`)
	nonAlphaNumRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Preprocess normalizes raw email text for vectorization: HTML tags are
// dropped, symbols replaced with spaces, everything lowercased and English
// stopwords removed. Returns the empty string when nothing survives.
func Preprocess(text string) string {
	clean := htmlTagRe.ReplaceAllString(text, " ")
	clean = nonAlphaNumRe.ReplaceAllString(clean, " ")
	clean = strings.ToLower(clean)
	clean = whitespaceRe.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return ""
	}

	words := strings.Split(clean, " ")
	kept := words[:0]
	for _, w := range words {
		if _, skip := stopwords[w]; !skip {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// Tokenize preprocesses the text and splits it into tokens.
func Tokenize(text string) []string {
	processed := Preprocess(text)
	if processed == "" {
		return nil
	}
	return strings.Split(processed, " ")
}
