package storage

import "fmt"

// Section is an ordered, mutable sequence of opaque items. A section may
// be empty but still present; the storage never prunes it.
type Section struct {
	items []any
}

// NewSection creates a section holding the given items in order.
func NewSection(items ...any) *Section {
	s := &Section{items: make([]any, len(items))}
	copy(s.items, items)
	return s
}

// Items returns a snapshot of the section's items in order. The snapshot
// is never nil, so an empty section reads as an empty sequence.
func (s *Section) Items() []any {
	snapshot := make([]any, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

// Count returns the number of items in the section.
func (s *Section) Count() int {
	return len(s.items)
}

// ItemAt returns the item at index, or false when the index is out of
// range.
func (s *Section) ItemAt(index int) (any, bool) {
	if index < 0 || index >= len(s.items) {
		return nil, false
	}
	return s.items[index], true
}

// Append adds an item at the end of the section.
func (s *Section) Append(item any) {
	s.items = append(s.items, item)
}

// Insert places an item at index, shifting later items right. The index
// may equal Count, which appends.
func (s *Section) Insert(item any, index int) error {
	if index < 0 || index > len(s.items) {
		return fmt.Errorf("index %d of %d items: %w", index, len(s.items), ErrOutOfBounds)
	}
	s.items = append(s.items, nil)
	copy(s.items[index+1:], s.items[index:])
	s.items[index] = item
	return nil
}

// RemoveAt removes and returns the item at index, shifting later items
// left.
func (s *Section) RemoveAt(index int) (any, error) {
	if index < 0 || index >= len(s.items) {
		return nil, fmt.Errorf("index %d of %d items: %w", index, len(s.items), ErrOutOfBounds)
	}
	item := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	return item, nil
}

// ReplaceAt overwrites the item at index.
func (s *Section) ReplaceAt(index int, item any) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("index %d of %d items: %w", index, len(s.items), ErrOutOfBounds)
	}
	s.items[index] = item
	return nil
}
