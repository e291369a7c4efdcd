// Package strategy picks the single best (market, side) play out of a set
// of analyzed markets by scoring probability, expected return, volume, and
// sizing together.
package strategy

import (
	"strings"
	"unicode"
)

var genericWords = map[string]bool{
	"will": true, "the": true, "be": true, "by": true, "on": true,
	"in": true, "at": true, "for": true, "and": true, "or": true,
	"of": true, "to": true, "a": true, "an": true, "is": true,
	"as": true, "that": true, "this": true, "it": true, "its": true,
	"are": true, "was": true,
}

// ShortLabel derives a compact per-market label by removing the words every
// question in the group shares. Multi-choice events repeat a template
// ("Will X close above $N?"), so the distinguishing words are exactly the
// non-shared ones.
func ShortLabel(question string, allQuestions []string) string {
	common := commonWords(allQuestions)

	trimmed := strings.TrimSuffix(question, "?")
	trimmed = strings.TrimPrefix(trimmed, "Will ")

	var unique []string
	seen := map[string]bool{}
	for _, w := range strings.Fields(trimmed) {
		lw := strings.ToLower(w)
		if common[lw] || seen[lw] {
			continue
		}
		seen[lw] = true
		unique = append(unique, w)
	}
	if len(unique) > 0 {
		return strings.Join(unique, " ")
	}

	for _, w := range strings.Fields(trimmed) {
		if isCapitalized(w) && !common[strings.ToLower(w)] {
			return w
		}
	}

	if len(question) > 40 {
		return question[:40]
	}
	return question
}

// commonWords returns the lowercased words shared by every question, merged
// with the generic stopword set.
func commonWords(questions []string) map[string]bool {
	common := map[string]bool{}
	for k := range genericWords {
		common[k] = true
	}
	if len(questions) < 2 {
		return common
	}

	shared := wordSet(questions[0])
	for _, q := range questions[1:] {
		next := wordSet(q)
		for w := range shared {
			if !next[w] {
				delete(shared, w)
			}
		}
	}
	for w := range shared {
		common[w] = true
	}
	return common
}

func wordSet(question string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(strings.TrimSuffix(question, "?")) {
		set[strings.ToLower(w)] = true
	}
	return set
}

func isCapitalized(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}
