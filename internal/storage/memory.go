package storage

import (
	"fmt"
	"reflect"
)

// EqualityFunc compares two opaque items for value-based lookups.
type EqualityFunc func(a, b any) bool

// SupplementaryProvider resolves a per-section supplementary model for a
// kind tag.
type SupplementaryProvider func(kind string, section int) any

// MemoryStorage is the in-memory sectioned storage engine. It is
// single-owner: all calls must come from one goroutine, and the observer
// must not mutate the storage from inside its callback.
type MemoryStorage struct {
	sections []*Section
	observer Observer
	equals   EqualityFunc

	// current is non-nil while a batch is open. Explicit batches are
	// opened by StartUpdate; mutations outside a bracket open and flush
	// their own single-call batch.
	current *Update

	headerKind    string
	footerKind    string
	supplementary SupplementaryProvider
}

// NewMemoryStorage creates an empty storage. Value-based lookups use
// reflect.DeepEqual until SetEqualityFunc replaces it.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{equals: reflect.DeepEqual}
}

// SetObserver registers the update receiver. Only one observer is held;
// a later call replaces the earlier one.
func (m *MemoryStorage) SetObserver(observer Observer) {
	m.observer = observer
}

// SetEqualityFunc replaces the equality predicate used by value-based
// lookups and removals.
func (m *MemoryStorage) SetEqualityFunc(equals EqualityFunc) {
	if equals != nil {
		m.equals = equals
	}
}

// StartUpdate opens an explicit batch. An unflushed record from an
// unbalanced earlier bracket is discarded.
func (m *MemoryStorage) StartUpdate() {
	m.current = NewUpdate()
}

// FinishUpdate delivers the open batch to the observer and closes it.
// A batch that recorded no changes is dropped without a callback.
func (m *MemoryStorage) FinishUpdate() {
	update := m.current
	m.current = nil
	if update == nil || update.IsEmpty() {
		return
	}
	if m.observer != nil {
		m.observer.StorageUpdated(update)
	}
}

// perform runs a mutation inside the open batch, or wraps it in an
// implicit single-call batch when none is open.
func (m *MemoryStorage) perform(mutate func(u *Update) error) error {
	if m.current != nil {
		return mutate(m.current)
	}
	m.StartUpdate()
	err := mutate(m.current)
	m.FinishUpdate()
	return err
}

// materializeSection grows the section list until index exists, recording
// every created section in the batch.
func (m *MemoryStorage) materializeSection(index int, u *Update) *Section {
	for i := len(m.sections); i <= index; i++ {
		m.sections = append(m.sections, NewSection())
		u.InsertedSections.Add(i)
	}
	return m.sections[index]
}

func (m *MemoryStorage) sectionIfExists(index int) *Section {
	if index < 0 || index >= len(m.sections) {
		return nil
	}
	return m.sections[index]
}

// SectionAt returns the section at index, creating it and all missing
// sections before it. Requesting index 5 of an empty storage leaves six
// sections behind, the first five empty. Created sections are reported to
// the observer. A negative index returns nil.
func (m *MemoryStorage) SectionAt(index int) *Section {
	if index < 0 {
		return nil
	}
	var section *Section
	m.perform(func(u *Update) error {
		section = m.materializeSection(index, u)
		return nil
	})
	return section
}

// AddItem appends an item to the end of a section, creating the section
// and any before it as needed.
func (m *MemoryStorage) AddItem(item any, section int) {
	m.AddItems([]any{item}, section)
}

// AddItems appends items to the end of a section in order, creating the
// section and any before it as needed. One insertion is recorded per
// item, at contiguous positions.
func (m *MemoryStorage) AddItems(items []any, section int) {
	if section < 0 {
		return
	}
	m.perform(func(u *Update) error {
		target := m.materializeSection(section, u)
		for _, item := range items {
			target.Append(item)
			u.InsertedItems = append(u.InsertedItems, Position{Item: target.Count() - 1, Section: section})
		}
		return nil
	})
}

// InsertItem places an item at p, shifting later items in the section
// right. The section is materialized if missing; the item index must not
// exceed the section's count.
func (m *MemoryStorage) InsertItem(item any, p Position) error {
	if p.Section < 0 || p.Item < 0 {
		return fmt.Errorf("insert item at %s: %w", p, ErrOutOfBounds)
	}
	return m.perform(func(u *Update) error {
		target := m.materializeSection(p.Section, u)
		if err := target.Insert(item, p.Item); err != nil {
			return fmt.Errorf("insert item at %s: %w", p, err)
		}
		u.InsertedItems = append(u.InsertedItems, p)
		return nil
	})
}

// ReplaceItem swaps the first item equal to old for replacement and
// records an update at its position. A value not present is a silent
// no-op.
func (m *MemoryStorage) ReplaceItem(old, replacement any) {
	p, ok := m.PositionForItem(old)
	if !ok {
		return
	}
	m.perform(func(u *Update) error {
		if err := m.sections[p.Section].ReplaceAt(p.Item, replacement); err != nil {
			return err
		}
		u.UpdatedItems = append(u.UpdatedItems, p)
		return nil
	})
}

// RemoveItem removes the first item equal to the given value. A value not
// present is a silent no-op: nothing is recorded and no callback fires.
func (m *MemoryStorage) RemoveItem(item any) {
	p, ok := m.PositionForItem(item)
	if !ok {
		return
	}
	m.perform(func(u *Update) error {
		if _, err := m.sections[p.Section].RemoveAt(p.Item); err != nil {
			return err
		}
		u.DeletedItems = append(u.DeletedItems, p)
		return nil
	})
}

// RemoveItems resolves each value to its current position, drops values
// that are not found, and removes the remaining positions. A value listed
// twice resolves to the same position and is removed once.
func (m *MemoryStorage) RemoveItems(items []any) {
	m.RemoveItemsAt(m.PositionsForItems(items))
}

// RemoveItemsAt removes the items at the given positions. The input may
// span sections, arrive in any order, and contain duplicates. Removal
// happens in descending position order so earlier removals never shift
// positions still pending; recorded deletions carry the pre-removal
// coordinates. Any invalid position fails the whole call before the
// storage is touched.
func (m *MemoryStorage) RemoveItemsAt(positions []Position) error {
	distinct := SortPositions(dedupePositions(positions), false)
	for _, p := range distinct {
		section := m.sectionIfExists(p.Section)
		if section == nil || p.Item < 0 || p.Item >= section.Count() {
			return fmt.Errorf("remove item at %s: %w", p, ErrOutOfBounds)
		}
	}
	return m.perform(func(u *Update) error {
		for _, p := range distinct {
			if _, err := m.sections[p.Section].RemoveAt(p.Item); err != nil {
				return err
			}
			u.DeletedItems = append(u.DeletedItems, p)
		}
		return nil
	})
}

// MoveItem relocates the item at from to the to position and records one
// move. The destination uses insertion semantics: its item index may
// equal the target section's count, and the target section may be the
// immediate next new section index, in which case it is created.
func (m *MemoryStorage) MoveItem(from, to Position) error {
	source := m.sectionIfExists(from.Section)
	if source == nil || from.Item < 0 || from.Item >= source.Count() {
		return fmt.Errorf("move item from %s: %w", from, ErrOutOfBounds)
	}
	if to.Item < 0 || to.Section < 0 || to.Section > len(m.sections) {
		return fmt.Errorf("move item to %s: %w", to, ErrOutOfBounds)
	}
	targetCount := 0
	if target := m.sectionIfExists(to.Section); target != nil {
		targetCount = target.Count()
	}
	if to.Item > targetCount {
		return fmt.Errorf("move item to %s: %w", to, ErrOutOfBounds)
	}
	return m.perform(func(u *Update) error {
		target := m.materializeSection(to.Section, u)
		item, err := source.RemoveAt(from.Item)
		if err != nil {
			return err
		}
		index := to.Item
		if index > target.Count() {
			// Same-section move to the old last slot: the item already
			// left the section, so the insert index shrinks by one.
			index = target.Count()
		}
		if err := target.Insert(item, index); err != nil {
			return err
		}
		u.MovedItems = append(u.MovedItems, Move{From: from, To: to})
		return nil
	})
}

// ResetItems replaces the entire contents of the storage in one
// non-animated batch, asking the consumer for a full reload.
func (m *MemoryStorage) ResetItems(sections [][]any) {
	m.StartUpdate()
	u := m.current
	old := len(m.sections)
	m.sections = make([]*Section, 0, len(sections))
	for s, items := range sections {
		m.sections = append(m.sections, NewSection(items...))
		if s < old {
			u.UpdatedSections.Add(s)
		} else {
			u.InsertedSections.Add(s)
		}
	}
	for s := len(sections); s < old; s++ {
		u.DeletedSections.Add(s)
	}
	u.Animated = false
	m.FinishUpdate()
}

// ItemAt returns the item at p, or false when p is out of bounds. Lookups
// never fail hard: a consumer may probe between an external change and
// the flushed record that describes it.
func (m *MemoryStorage) ItemAt(p Position) (any, bool) {
	section := m.sectionIfExists(p.Section)
	if section == nil {
		return nil, false
	}
	return section.ItemAt(p.Item)
}

// PositionForItem returns the first position whose item equals the value,
// scanning sections and items in ascending order.
func (m *MemoryStorage) PositionForItem(item any) (Position, bool) {
	for si, section := range m.sections {
		for ii, existing := range section.items {
			if m.equals(existing, item) {
				return Position{Item: ii, Section: si}, true
			}
		}
	}
	return Position{}, false
}

// PositionsForItems resolves each value to its first position, silently
// skipping values that are not found. The result may be shorter than the
// input.
func (m *MemoryStorage) PositionsForItems(items []any) []Position {
	positions := make([]Position, 0, len(items))
	for _, item := range items {
		if p, ok := m.PositionForItem(item); ok {
			positions = append(positions, p)
		}
	}
	return positions
}

// ItemsInSection returns a snapshot of a section's items, or nil when the
// section does not exist. An existing empty section reads as an empty
// sequence, not nil.
func (m *MemoryStorage) ItemsInSection(section int) []any {
	s := m.sectionIfExists(section)
	if s == nil {
		return nil
	}
	return s.Items()
}

// NumberOfSections returns the current section count.
func (m *MemoryStorage) NumberOfSections() int {
	return len(m.sections)
}

// NumberOfItems returns a section's item count, 0 when the section does
// not exist.
func (m *MemoryStorage) NumberOfItems(section int) int {
	s := m.sectionIfExists(section)
	if s == nil {
		return 0
	}
	return s.Count()
}

// SetSupplementaryProvider installs the lookup used to resolve
// per-section supplementary models.
func (m *MemoryStorage) SetSupplementaryProvider(provider SupplementaryProvider) {
	m.supplementary = provider
}

// SetHeaderKind configures the kind tag resolved by HeaderModel.
func (m *MemoryStorage) SetHeaderKind(kind string) {
	m.headerKind = kind
}

// SetFooterKind configures the kind tag resolved by FooterModel.
func (m *MemoryStorage) SetFooterKind(kind string) {
	m.footerKind = kind
}

// SupplementaryModel resolves a per-section value for a kind tag, nil
// when no provider is installed.
func (m *MemoryStorage) SupplementaryModel(kind string, section int) any {
	if m.supplementary == nil {
		return nil
	}
	return m.supplementary(kind, section)
}

// HeaderModel resolves the header model for a section. Calling it before
// SetHeaderKind is a programming error and panics.
func (m *MemoryStorage) HeaderModel(section int) any {
	if m.headerKind == "" {
		panic("storage: header kind not configured")
	}
	return m.SupplementaryModel(m.headerKind, section)
}

// FooterModel resolves the footer model for a section. Calling it before
// SetFooterKind is a programming error and panics.
func (m *MemoryStorage) FooterModel(section int) any {
	if m.footerKind == "" {
		panic("storage: footer kind not configured")
	}
	return m.SupplementaryModel(m.footerKind, section)
}
