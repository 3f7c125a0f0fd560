// Package textnorm reduces complaint text to lowercase, letter-only,
// stopword-free, lemmatized tokens.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var lower = cases.Lower(language.English)

// keepLettersAndSpace drops every rune that is not an ASCII letter or whitespace.
var keepLettersAndSpace = runes.Remove(runes.Predicate(func(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
		return false
	}
	return !unicode.IsSpace(r)
}))

// Normalize lowercases text, strips non-letters, drops stopwords, lemmatizes
// each token and rejoins with single spaces. The result may be empty.
func Normalize(text string) string {
	lowered := lower.String(text)

	lettersOnly, _, err := transform.String(keepLettersAndSpace, lowered)
	if err != nil {
		// runes.Remove never fails on valid input; fall back to the lowered text.
		lettersOnly = lowered
	}

	tokens := strings.Fields(lettersOnly)
	kept := tokens[:0]
	for _, tok := range tokens {
		if IsStopword(tok) {
			continue
		}
		kept = append(kept, Lemmatize(tok))
	}

	return strings.Join(kept, " ")
}
