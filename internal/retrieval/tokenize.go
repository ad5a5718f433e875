package retrieval

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const minTokenLen = 3

// fold lowercases s and strips combining marks ("Téléphone" -> "telephone").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// words folds s and splits it on every rune that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Normalize lowercases, strips diacritics, collapses non-alphanumeric runs
// to a single space and trims.
func Normalize(s string) string {
	return strings.Join(words(s), " ")
}

// Tokenize returns the normalized words of s that are at least three
// characters long, in order.
func Tokenize(s string) []string {
	var tokens []string
	for _, w := range words(s) {
		if utf8.RuneCountInString(w) >= minTokenLen {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

func tokenSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, t := range Tokenize(s) {
		set[t] = struct{}{}
	}
	return set
}

// ScoreChunk counts the distinct query tokens present in chunk.
func ScoreChunk(queryTokens []string, chunk string) int {
	return scoreSet(queryTokens, tokenSet(chunk))
}

func scoreSet(queryTokens []string, set map[string]struct{}) int {
	if len(set) == 0 {
		return 0
	}
	score := 0
	counted := map[string]bool{}
	for _, t := range queryTokens {
		if counted[t] {
			continue
		}
		counted[t] = true
		if _, ok := set[t]; ok {
			score++
		}
	}
	return score
}
