// Package storage implements an ordered, sectioned item collection with a
// batch update protocol for incremental list rendering.
package storage

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOutOfBounds is returned by position-addressed mutations when the
// position does not exist in the current storage state.
var ErrOutOfBounds = errors.New("position out of bounds")

// Position addresses one item: item index within a section index.
type Position struct {
	Item    int
	Section int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Item, p.Section)
}

// SortPositions returns a sorted copy of positions, ordered by section
// index first and item index second. The descending direction is the
// exact reverse of the ascending order, not a per-key reversal.
func SortPositions(positions []Position, ascending bool) []Position {
	sorted := make([]Position, len(positions))
	copy(sorted, positions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Section != sorted[j].Section {
			return sorted[i].Section < sorted[j].Section
		}
		return sorted[i].Item < sorted[j].Item
	})
	if !ascending {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}
	return sorted
}

// dedupePositions drops repeated positions, keeping first occurrences.
func dedupePositions(positions []Position) []Position {
	seen := make(map[Position]struct{}, len(positions))
	result := make([]Position, 0, len(positions))
	for _, p := range positions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	return result
}
