// Package search finds items in a sectioned storage by fuzzy text match.
package search

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tui-listview/internal/storage"
)

// TextFunc extracts the searchable text from an opaque item.
type TextFunc func(item any) string

// Match pairs an item position with its fuzzy match rank. Lower ranks are
// better matches.
type Match struct {
	Position storage.Position
	Text     string
	Rank     int
}

// Find returns positions whose extracted text fuzzy-matches the query,
// best ranks first; ties keep storage order. An empty query matches
// nothing.
func Find(store storage.Storage, text TextFunc, query string) []Match {
	if query == "" || text == nil {
		return nil
	}

	var matches []Match
	for s := 0; s < store.NumberOfSections(); s++ {
		for i := 0; i < store.NumberOfItems(s); i++ {
			p := storage.Position{Item: i, Section: s}
			item, ok := store.ItemAt(p)
			if !ok {
				continue
			}
			candidate := text(item)
			rank := fuzzy.RankMatchFold(query, candidate)
			if rank < 0 {
				continue
			}
			matches = append(matches, Match{Position: p, Text: candidate, Rank: rank})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Rank < matches[j].Rank
	})
	return matches
}

// Next returns the first match positioned strictly after the given
// position in (section, item) order, wrapping around to the overall first
// match. The second result is false when there are no matches.
func Next(matches []Match, after storage.Position) (Match, bool) {
	if len(matches) == 0 {
		return Match{}, false
	}
	ordered := make([]Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := ordered[i].Position, ordered[j].Position
		if pi.Section != pj.Section {
			return pi.Section < pj.Section
		}
		return pi.Item < pj.Item
	})
	for _, m := range ordered {
		p := m.Position
		if p.Section > after.Section || (p.Section == after.Section && p.Item > after.Item) {
			return m, true
		}
	}
	return ordered[0], true
}
