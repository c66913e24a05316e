// Package fuzzy scores query tokens against candidate strings and ranks
// items for the launcher. Scoring is tiered: exact, prefix and substring
// matches land in sharp high bands, scattered-letter matches are capped
// at a lower band so they surface without outranking intentional hits.
package fuzzy

import (
	"math"
	"strings"
)

// Score bands.
const (
	ScoreExact     = 100
	ScorePrefix    = 90
	ScoreSubstring = 80
	// ScoreSubsequenceMax caps the ordered-subsequence band.
	ScoreSubsequenceMax = 70
)

const (
	consecutiveWeight = 0.3
	lengthPenaltyCap  = 0.2
)

// DefaultMinScore is the per-token floor an item must clear to match.
const DefaultMinScore = 30

// Score rates how well a single query token matches a candidate string,
// returning a value in [0,100]. Matching is case-insensitive. An empty
// token never matches; the "no filter" case is the ranker's job.
func Score(token, candidate string) int {
	if token == "" || candidate == "" {
		return 0
	}

	t := strings.ToLower(token)
	c := strings.ToLower(candidate)

	switch {
	case t == c:
		return ScoreExact
	case strings.HasPrefix(c, t):
		return ScorePrefix
	case strings.Contains(c, t):
		return ScoreSubstring
	}

	return subsequenceScore([]rune(t), []rune(c))
}

// subsequenceScore rates a non-contiguous left-to-right subsequence match.
// Every token rune must be found in order in the candidate, otherwise 0.
// The score rewards long consecutive runs and penalizes candidates much
// longer than the token.
func subsequenceScore(token, candidate []rune) int {
	longestRun := 0
	run := 0
	prev := -2 // previous match position in candidate

	ci := 0
	for _, tr := range token {
		found := -1
		for ; ci < len(candidate); ci++ {
			if candidate[ci] == tr {
				found = ci
				ci++
				break
			}
		}
		if found < 0 {
			return 0
		}
		if found == prev+1 {
			run++
		} else {
			run = 1
		}
		if run > longestRun {
			longestRun = run
		}
		prev = found
	}

	// All token runes matched, so the match ratio is always 1.
	matchRatio := 1.0
	bonus := consecutiveWeight * float64(longestRun) / float64(len(token))
	penalty := float64(len(candidate)-len(token)) / float64(len(candidate))
	if penalty > lengthPenaltyCap {
		penalty = lengthPenaltyCap
	}

	score := int(math.Round((matchRatio + bonus - penalty) * ScoreSubsequenceMax))
	if score < 0 {
		return 0
	}
	if score > ScoreSubsequenceMax {
		return ScoreSubsequenceMax
	}
	return score
}

// BestMatchScore aggregates token scores across an item's candidate fields.
// Every token must clear minScore against some candidate (multi-word
// queries AND together); one missing term rejects the item outright.
// Returns the integer average of per-token bests, or 100 for an empty
// token list (no filter matches everything).
func BestMatchScore(tokens []string, candidates []string, minScore int) int {
	if len(tokens) == 0 {
		return ScoreExact
	}

	total := 0
	for _, token := range tokens {
		best := 0
		for _, candidate := range candidates {
			if s := Score(token, candidate); s > best {
				best = s
			}
		}
		if best < minScore {
			return 0
		}
		total += best
	}

	return total / len(tokens)
}

// Tokenize splits a raw query into whitespace-delimited tokens.
func Tokenize(query string) []string {
	return strings.Fields(query)
}
