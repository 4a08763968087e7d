package service

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the minimum score a fuzzy match needs when the caller gives none
const DefaultThreshold = 70.0

// SearchMode selects how a query is compared with a cell
type SearchMode string

const (
	SearchPartial SearchMode = "partial"
	SearchExact   SearchMode = "exact"
)

// ParseSearchMode maps a request value to a mode, defaulting to partial
func ParseSearchMode(s string) SearchMode {
	if strings.EqualFold(strings.TrimSpace(s), string(SearchExact)) {
		return SearchExact
	}
	return SearchPartial
}

// Score returns how similar candidate is to query, from 0 to 100.
//
// The rules are checked in order: exact match, containment (at least 85),
// a shared word longer than two characters (70 plus a length bonus, first
// query word wins), and finally normalised Levenshtein distance. Score is not
// symmetric.
func Score(query, candidate string) float64 {
	q := normalize(query)
	c := normalize(candidate)

	if q == c {
		return 100.0
	}

	qLen := utf8.RuneCountInString(q)
	cLen := utf8.RuneCountInString(c)
	if qLen == 0 || cLen == 0 {
		return 0.0
	}

	if strings.Contains(c, q) {
		return max(85.0, 100*float64(qLen)/float64(cLen))
	}
	if strings.Contains(q, c) {
		return max(85.0, 100*float64(cLen)/float64(qLen))
	}

	maxLen := max(qLen, cLen)

	candidateWords := make(map[string]struct{})
	for _, w := range strings.Split(c, " ") {
		candidateWords[w] = struct{}{}
	}
	for _, w := range strings.Split(q, " ") {
		wLen := utf8.RuneCountInString(w)
		if wLen <= 2 {
			continue
		}
		if _, ok := candidateWords[w]; ok {
			return 70 + 30*float64(wLen)/float64(maxLen)
		}
	}

	return LevenshteinRatio(q, c) * 100
}

// Distance is the Levenshtein edit distance between a and b counted in runes
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// LevenshteinRatio returns 1 - distance/maxLen on lowercased input, 1.0 for two empty strings
func LevenshteinRatio(s1, s2 string) float64 {
	s1 = strings.ToLower(s1)
	s2 = strings.ToLower(s2)
	maxLen := float64(max(utf8.RuneCountInString(s1), utf8.RuneCountInString(s2)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(Distance(s1, s2))/maxLen
}

// Matches compares a query with one cell value. Exact mode scores 100 or 0;
// partial mode applies Score against threshold.
func Matches(query, candidate string, mode SearchMode, threshold float64) (float64, bool) {
	if mode == SearchExact {
		if normalize(query) == normalize(candidate) {
			return 100.0, true
		}
		return 0.0, false
	}
	score := Score(query, candidate)
	return score, score >= threshold
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
