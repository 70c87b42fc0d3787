// Package fuzzy finds declared option names close to a mistyped one.
// It is used to build "did you mean" hints for unknown long options.
package fuzzy

import (
	"cmp"
	"slices"
	"strings"
)

// Matcher ranks candidates by edit distance to an input
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher accepting at most maxDistance edits
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // Don't suggest for very short inputs
	}
}

// Match is one candidate within reach of the input
type Match struct {
	Value    string
	Distance int
	Prefix   int // length of the prefix shared with the input
}

// FindBest returns the best candidate, or "" if none is close enough
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns the candidates within reach, best first: fewer
// edits, then a longer shared prefix, then declaration order.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	if len(input) < m.minLength {
		return nil
	}

	input = strings.ToLower(input)
	var matches []Match
	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if lower == input {
			continue
		}
		d := m.distance(input, lower)
		if d > m.maxDistance {
			continue
		}
		matches = append(matches, Match{
			Value:    candidate,
			Distance: d,
			Prefix:   commonPrefixLength(input, lower),
		})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(b.Prefix, a.Prefix)
	})
	return matches
}

// distance is the Levenshtein distance between a and b, or maxDistance+1
// once it is known to exceed maxDistance.
func (m *Matcher) distance(a, b string) int {
	if abs(len(a)-len(b)) > m.maxDistance {
		return m.maxDistance + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, curr[j])
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// FindBestOption finds the declared long option closest to input
func FindBestOption(input string, options []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, options)
}

// FindSuggestions returns up to maxSuggestions candidates, best first
func FindSuggestions(input string, candidates []string, maxDistance, maxSuggestions int) []string {
	matches := NewMatcher(maxDistance).FindMatches(input, candidates)
	suggestions := make([]string, 0, min(len(matches), maxSuggestions))
	for _, match := range matches[:min(len(matches), maxSuggestions)] {
		suggestions = append(suggestions, match.Value)
	}
	return suggestions
}
