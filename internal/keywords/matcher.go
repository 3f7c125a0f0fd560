package keywords

import (
	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Matcher finds the earliest tier of a table with any phrase occurring in a text.
// Phrases match as substrings, so "light" matches "streetlight".
type Matcher struct {
	matcher *ahocorasick.Matcher
	// tierOf maps a dictionary index to its tier position.
	tierOf []int
	labels []string
}

// NewMatcher builds one automaton over every phrase of the table.
func NewMatcher(t Table) *Matcher {
	m := &Matcher{labels: make([]string, len(t.Tiers))}

	var dict []string
	for tier, tr := range t.Tiers {
		m.labels[tier] = tr.Label
		for _, kw := range tr.Keywords {
			if kw == "" {
				continue
			}
			dict = append(dict, kw)
			m.tierOf = append(m.tierOf, tier)
		}
	}

	if len(dict) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(dict)
	}
	return m
}

// Match returns the label of the earliest matching tier.
func (m *Matcher) Match(text string) (string, bool) {
	if m == nil || m.matcher == nil {
		return "", false
	}

	best := -1
	for _, hit := range m.matcher.MatchThreadSafe([]byte(text)) {
		if hit < 0 || hit >= len(m.tierOf) {
			continue
		}
		if tier := m.tierOf[hit]; best == -1 || tier < best {
			best = tier
		}
	}
	if best == -1 {
		return "", false
	}
	return m.labels[best], true
}

// Keywords returns the number of phrases in the automaton.
func (m *Matcher) Keywords() int {
	if m == nil {
		return 0
	}
	return len(m.tierOf)
}
