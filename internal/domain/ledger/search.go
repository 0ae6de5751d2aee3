package ledger

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Search filters records by fuzzy-matching the query against record
// descriptions, case- and accent-insensitively. Results are ordered by
// match quality; an empty query returns the input unchanged.
func Search(records []Record, query string) []Record {
	if query == "" {
		return records
	}

	type ranked struct {
		rec  Record
		rank int
	}

	matches := make([]ranked, 0, len(records))
	for _, rec := range records {
		r := fuzzy.RankMatchNormalizedFold(query, rec.Description)
		if r < 0 {
			continue
		}
		matches = append(matches, ranked{rec: rec, rank: r})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	out := make([]Record, len(matches))
	for i, m := range matches {
		out[i] = m.rec
	}
	return out
}
