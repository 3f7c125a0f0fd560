package textnorm

import "strings"

const minLemmaLen = 3

// irregularNouns maps plural forms that suffix rules get wrong. Nouns ending
// in -s take -es in the plural, which the rules cannot tell apart from a
// silent e (houses, causes), so they are listed.
var irregularNouns = map[string]string{
	"buses":    "bus",
	"busses":   "bus",
	"gases":    "gas",
	"viruses":  "virus",
	"campuses": "campus",
	"bonuses":  "bonus",
	"statuses": "status",
	"lenses":   "lens",
	"canvases": "canvas",
	"atlases":  "atlas",
	"lives":    "life",
	"wives":    "wife",
	"knives":   "knife",
	"leaves":   "leaf",
	"wolves":   "wolf",
	"halves":   "half",
	"shelves":  "shelf",
	"thieves":  "thief",
	"children": "child",
	"men":      "man",
	"women":    "woman",
	"people":   "person",
	"feet":     "foot",
	"teeth":    "tooth",
	"geese":    "goose",
	"mice":     "mouse",
	"data":     "datum",
}

// invariantNouns end in "s" but are already base forms.
var invariantNouns = map[string]struct{}{
	"news":     {},
	"series":   {},
	"species":  {},
	"always":   {},
	"perhaps":  {},
	"towards":  {},
	"whereas":  {},
	"mess":     {},
	"gas":      {},
	"yes":      {},
	"bus":      {},
	"physics":  {},
	"politics": {},
	"premises": {},
	"stairs":   {},
}

// Lemmatize reduces a lowercase token to its noun base form. Tokens that are
// not plural nouns, verbs included, are returned unchanged.
func Lemmatize(token string) string {
	if base, ok := irregularNouns[token]; ok {
		return base
	}
	if _, ok := invariantNouns[token]; ok {
		return token
	}
	if len(token) <= minLemmaLen || !strings.HasSuffix(token, "s") {
		return token
	}

	for _, keep := range []string{"ss", "us", "is", "ous"} {
		if strings.HasSuffix(token, keep) {
			return token
		}
	}

	switch {
	case strings.HasSuffix(token, "ies") && len(token) > 4:
		return strings.TrimSuffix(token, "ies") + "y"
	case strings.HasSuffix(token, "sses"),
		strings.HasSuffix(token, "ches"),
		strings.HasSuffix(token, "shes"),
		strings.HasSuffix(token, "xes"),
		strings.HasSuffix(token, "zzes"):
		return strings.TrimSuffix(token, "es")
	default:
		return strings.TrimSuffix(token, "s")
	}
}
