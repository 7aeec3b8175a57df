package retrieval

import (
	"regexp"
	"strings"
)

// tokenPattern splits text into alphanumeric runs.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// tokenize lowercases text and splits it into alphanumeric tokens.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// NormalizeText lowercases text and replaces punctuation and hyphens with
// single spaces, so that phrase containment checks are insensitive to
// punctuation variants ("gastro-oesophageal" vs "gastro oesophageal").
func NormalizeText(text string) string {
	return strings.Join(tokenize(text), " ")
}

// ContainsPhrase reports whether phrase occurs in text on word boundaries.
// Both arguments are normalized before matching, so no substring false
// positives occur inside longer words.
func ContainsPhrase(text, phrase string) bool {
	normPhrase := NormalizeText(phrase)
	if normPhrase == "" {
		return false
	}
	normText := NormalizeText(text)
	return strings.Contains(" "+normText+" ", " "+normPhrase+" ")
}
