package categorization

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// suggestionThreshold is the minimum similarity score (0-100) for a "did you mean" hint.
const suggestionThreshold = 50

type scoredName struct {
	name  string
	score int
	order int
}

// suggest ranks names by similarity to query and returns at most limit of
// them, best first. Ties keep table order.
func suggest(query string, names []string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	var scored []scoredName
	for i, name := range names {
		if score := similarity(q, strings.ToLower(name)); score >= suggestionThreshold {
			scored = append(scored, scoredName{name: name, score: score, order: i})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].order < scored[j].order
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.name
	}
	return out
}

// similarity scores two lower-cased strings from 0 to 100. Containment scores
// at least 75; otherwise the better of an edit-distance ratio and a
// subsequence rank from fuzzysearch is used.
func similarity(s1, s2 string) int {
	if s1 == s2 {
		return 100
	}
	if s1 == "" || s2 == "" {
		return 0
	}
	if strings.Contains(s1, s2) {
		return 75 + (25 * len(s2) / len(s1))
	}
	if strings.Contains(s2, s1) {
		return 75 + (25 * len(s1) / len(s2))
	}

	maxLen := len([]rune(s1))
	if l := len([]rune(s2)); l > maxLen {
		maxLen = l
	}
	distance := fuzzy.LevenshteinDistance(s1, s2)
	levenshteinScore := 100 * (maxLen - distance) / maxLen

	subsequenceScore := 0
	if rank := fuzzy.RankMatch(s1, s2); rank >= 0 && rank < len(s2) {
		subsequenceScore = 60 - (rank * 40 / len(s2))
	}

	if levenshteinScore > subsequenceScore {
		return levenshteinScore
	}
	return subsequenceScore
}
