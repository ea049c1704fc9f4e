package storage

import (
	"sort"

	"github.com/davecgh/go-spew/spew"
)

// IndexSet is an unordered set of section indexes.
type IndexSet map[int]struct{}

// Add inserts an index into the set.
func (s IndexSet) Add(index int) {
	s[index] = struct{}{}
}

// Contains reports whether the index is in the set.
func (s IndexSet) Contains(index int) bool {
	_, ok := s[index]
	return ok
}

// Len returns the number of indexes in the set.
func (s IndexSet) Len() int {
	return len(s)
}

// Values returns the indexes in ascending order.
func (s IndexSet) Values() []int {
	values := make([]int, 0, len(s))
	for index := range s {
		values = append(values, index)
	}
	sort.Ints(values)
	return values
}

// Move records one item relocation.
type Move struct {
	From Position
	To   Position
}

// Update accumulates one batch of storage changes. Deleted and moved-from
// positions refer to the pre-update state; inserted and moved-to
// positions refer to the post-update state. Within each sequence the
// order of entries carries no meaning.
type Update struct {
	InsertedItems []Position
	DeletedItems  []Position
	UpdatedItems  []Position
	MovedItems    []Move

	InsertedSections IndexSet
	DeletedSections  IndexSet
	UpdatedSections  IndexSet

	// Animated tells the consumer to animate the transition. False asks
	// for a full reload instead.
	Animated bool
}

// NewUpdate creates an empty update record with animation enabled.
func NewUpdate() *Update {
	return &Update{
		InsertedSections: make(IndexSet),
		DeletedSections:  make(IndexSet),
		UpdatedSections:  make(IndexSet),
		Animated:         true,
	}
}

// IsEmpty reports whether the batch recorded no changes.
func (u *Update) IsEmpty() bool {
	return len(u.InsertedItems) == 0 &&
		len(u.DeletedItems) == 0 &&
		len(u.UpdatedItems) == 0 &&
		len(u.MovedItems) == 0 &&
		len(u.InsertedSections) == 0 &&
		len(u.DeletedSections) == 0 &&
		len(u.UpdatedSections) == 0
}

// Dump renders the record for debug logs.
func (u *Update) Dump() string {
	return spew.Sdump(u)
}

// Observer receives one finished Update per completed batch. The callback
// must not mutate the storage that delivered it.
type Observer interface {
	StorageUpdated(update *Update)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(update *Update)

func (f ObserverFunc) StorageUpdated(update *Update) {
	f(update)
}
