package engine

import (
	"sort"
	"strings"

	"github.com/raphi011/vsx/internal/fuzzy"
	"github.com/raphi011/vsx/internal/item"
)

// Assemble turns a raw item list and query tokens into the ordered,
// deduplicated result list. Every item is scored over its searchable
// fields; zero scores drop out; the rest sort score-descending with a
// case-insensitive title tie-break for determinism. Duplicate identities
// collapse to the highest-scoring instance.
func Assemble(items []item.Item, tokens []string, minScore int) []item.Scored {
	scored := make([]item.Scored, 0, len(items))
	for _, it := range items {
		s := fuzzy.BestMatchScore(tokens, it.SearchFields(), minScore)
		if s == 0 {
			continue
		}
		scored = append(scored, item.Scored{Item: it, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return strings.ToLower(scored[i].Item.Identity()) < strings.ToLower(scored[j].Item.Identity())
	})

	// Identities compare exactly, so the highest-scoring instance of each
	// duplicate title survives and near-duplicates ("proj" vs "PROJ") don't
	// swallow each other.
	seen := make(map[string]struct{}, len(scored))
	deduped := scored[:0]
	for _, s := range scored {
		id := s.Item.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, s)
	}

	return deduped
}
