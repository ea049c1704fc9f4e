package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver collects every flushed update record.
type recordingObserver struct {
	updates []*Update
}

func (r *recordingObserver) StorageUpdated(update *Update) {
	r.updates = append(r.updates, update)
}

func (r *recordingObserver) last(t *testing.T) *Update {
	t.Helper()
	if len(r.updates) == 0 {
		t.Fatal("no update was delivered")
	}
	return r.updates[len(r.updates)-1]
}

func newTestStorage() (*MemoryStorage, *recordingObserver) {
	m := NewMemoryStorage()
	observer := &recordingObserver{}
	m.SetObserver(observer)
	return m, observer
}

// twoSections builds section 0 = [1,2,3], section 1 = [4,5,6].
func twoSections() (*MemoryStorage, *recordingObserver) {
	m, observer := newTestStorage()
	m.AddItems([]any{1, 2, 3}, 0)
	m.AddItems([]any{4, 5, 6}, 1)
	observer.updates = nil
	return m, observer
}

func TestAddItemAppends(t *testing.T) {
	m, observer := newTestStorage()

	m.AddItem("a", 0)
	m.AddItem("b", 0)

	assert.Equal(t, 1, m.NumberOfSections())
	assert.Equal(t, []any{"a", "b"}, m.ItemsInSection(0))

	require.Len(t, observer.updates, 2)
	assert.Equal(t, []Position{{Item: 1, Section: 0}}, observer.updates[1].InsertedItems)
}

func TestAddItemsContiguousPositions(t *testing.T) {
	m, observer := newTestStorage()

	m.AddItems([]any{"a", "b", "c"}, 0)

	require.Len(t, observer.updates, 1)
	assert.Equal(t, []Position{
		{Item: 0, Section: 0},
		{Item: 1, Section: 0},
		{Item: 2, Section: 0},
	}, observer.updates[0].InsertedItems)
}

func TestLazySectionMaterialization(t *testing.T) {
	m, observer := newTestStorage()

	m.AddItems([]any{1, 2}, 1)

	if m.NumberOfSections() != 2 {
		t.Fatalf("section count: got %d, want 2", m.NumberOfSections())
	}
	items := m.ItemsInSection(0)
	if items == nil {
		t.Fatal("ItemsInSection(0) should be an empty sequence, not nil")
	}
	if len(items) != 0 {
		t.Errorf("section 0 should be empty, got %v", items)
	}
	assert.Equal(t, []any{1, 2}, m.ItemsInSection(1))

	update := observer.last(t)
	assert.ElementsMatch(t, []int{0, 1}, update.InsertedSections.Values())
}

func TestSectionAtMaterializesInterveningSections(t *testing.T) {
	m, observer := newTestStorage()

	section := m.SectionAt(3)

	require.NotNil(t, section)
	assert.Equal(t, 4, m.NumberOfSections())
	assert.Equal(t, []int{0, 1, 2, 3}, observer.last(t).InsertedSections.Values())

	// Requesting an existing section again creates nothing and stays
	// silent.
	observer.updates = nil
	m.SectionAt(2)
	assert.Empty(t, observer.updates)
}

func TestInsertItemShiftsRight(t *testing.T) {
	m, observer := newTestStorage()
	m.AddItems([]any{"a", "c"}, 0)

	err := m.InsertItem("b", Position{Item: 1, Section: 0})

	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, m.ItemsInSection(0))
	assert.Equal(t, []Position{{Item: 1, Section: 0}}, observer.last(t).InsertedItems)
}

func TestInsertItemOutOfBounds(t *testing.T) {
	m, observer := newTestStorage()
	m.AddItem("a", 0)
	observer.updates = nil

	err := m.InsertItem("b", Position{Item: 5, Section: 0})

	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	assert.Empty(t, observer.updates, "a failed insert must not deliver a record")
}

func TestRemoveItemByValue(t *testing.T) {
	m, observer := twoSections()

	m.RemoveItem(5)

	assert.Equal(t, []any{4, 6}, m.ItemsInSection(1))
	assert.Equal(t, []Position{{Item: 1, Section: 1}}, observer.last(t).DeletedItems)
}

func TestRemoveItemNotFoundIsIdempotentNoOp(t *testing.T) {
	m, observer := twoSections()

	m.RemoveItem(5)
	require.Len(t, observer.updates, 1)

	// Second removal of the same value: nothing left to remove, no event,
	// no callback.
	m.RemoveItem(5)
	assert.Len(t, observer.updates, 1)
	assert.Equal(t, []any{4, 6}, m.ItemsInSection(1))
}

func TestRemoveItemsByValueSpanningSections(t *testing.T) {
	m, _ := twoSections()

	m.RemoveItems([]any{2, 3, 4, 5})

	require.Equal(t, 1, m.NumberOfItems(0))
	require.Equal(t, 1, m.NumberOfItems(1))

	item, ok := m.ItemAt(Position{Item: 0, Section: 0})
	require.True(t, ok)
	assert.Equal(t, 1, item)

	item, ok = m.ItemAt(Position{Item: 0, Section: 1})
	require.True(t, ok)
	assert.Equal(t, 6, item)
}

func TestRemoveItemsSkipsUnknownAndDuplicateValues(t *testing.T) {
	m, observer := twoSections()

	m.RemoveItems([]any{2, 2, 99})

	assert.Equal(t, []any{1, 3}, m.ItemsInSection(0))
	assert.Len(t, observer.last(t).DeletedItems, 1)
}

func TestRemoveItemsAtSpanningSections(t *testing.T) {
	m, _ := twoSections()

	err := m.RemoveItemsAt([]Position{
		{Item: 1, Section: 0},
		{Item: 2, Section: 0},
		{Item: 0, Section: 1},
		{Item: 2, Section: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, []any{1}, m.ItemsInSection(0))
	assert.Equal(t, []any{5}, m.ItemsInSection(1))
}

func TestRemoveItemsAtMatchesDescendingOneByOne(t *testing.T) {
	// Batch removal must equal removing each distinct position
	// individually in strictly descending total order.
	positions := []Position{
		{Item: 0, Section: 0},
		{Item: 2, Section: 1},
		{Item: 2, Section: 1}, // duplicate
		{Item: 1, Section: 0},
		{Item: 0, Section: 2},
	}

	batch, _ := newTestStorage()
	batch.AddItems([]any{"a", "b", "c"}, 0)
	batch.AddItems([]any{"d", "e", "f"}, 1)
	batch.AddItems([]any{"g"}, 2)
	require.NoError(t, batch.RemoveItemsAt(positions))

	oneByOne, _ := newTestStorage()
	oneByOne.AddItems([]any{"a", "b", "c"}, 0)
	oneByOne.AddItems([]any{"d", "e", "f"}, 1)
	oneByOne.AddItems([]any{"g"}, 2)
	for _, p := range SortPositions(dedupePositions(positions), false) {
		require.NoError(t, oneByOne.RemoveItemsAt([]Position{p}))
	}

	for s := 0; s < 3; s++ {
		assert.Equal(t, oneByOne.ItemsInSection(s), batch.ItemsInSection(s), "section %d", s)
	}
}

func TestRemoveItemsAtDuplicatesRemovedOnce(t *testing.T) {
	m, observer := twoSections()

	err := m.RemoveItemsAt([]Position{
		{Item: 2, Section: 0},
		{Item: 2, Section: 0},
		{Item: 2, Section: 0},
	})

	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, m.ItemsInSection(0))
	assert.Len(t, observer.last(t).DeletedItems, 1)
}

func TestRemoveItemsAtInvalidPositionLeavesStorageUntouched(t *testing.T) {
	m, observer := twoSections()

	err := m.RemoveItemsAt([]Position{
		{Item: 0, Section: 0},
		{Item: 9, Section: 1},
	})

	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	assert.Equal(t, []any{1, 2, 3}, m.ItemsInSection(0))
	assert.Empty(t, observer.updates)
}

func TestRemoveItemsAtDeletionsCarryPreRemovalPositions(t *testing.T) {
	m, observer := twoSections()

	require.NoError(t, m.RemoveItemsAt([]Position{
		{Item: 0, Section: 0},
		{Item: 2, Section: 0},
	}))

	assert.Equal(t, []Position{
		{Item: 2, Section: 0},
		{Item: 0, Section: 0},
	}, observer.last(t).DeletedItems)
}

func TestMoveItemWithinSection(t *testing.T) {
	m, observer := twoSections()

	err := m.MoveItem(Position{Item: 0, Section: 0}, Position{Item: 2, Section: 0})

	require.NoError(t, err)
	assert.Equal(t, []any{2, 3, 1}, m.ItemsInSection(0))
	assert.Equal(t, []Move{{
		From: Position{Item: 0, Section: 0},
		To:   Position{Item: 2, Section: 0},
	}}, observer.last(t).MovedItems)
}

func TestMoveItemAcrossSections(t *testing.T) {
	m, _ := twoSections()

	err := m.MoveItem(Position{Item: 1, Section: 0}, Position{Item: 0, Section: 1})

	require.NoError(t, err)
	assert.Equal(t, []any{1, 3}, m.ItemsInSection(0))
	assert.Equal(t, []any{2, 4, 5, 6}, m.ItemsInSection(1))
}

func TestMoveItemToNextNewSection(t *testing.T) {
	m, observer := twoSections()

	err := m.MoveItem(Position{Item: 0, Section: 0}, Position{Item: 0, Section: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, m.NumberOfSections())
	assert.Equal(t, []any{1}, m.ItemsInSection(2))
	assert.Equal(t, []int{2}, observer.last(t).InsertedSections.Values())
}

func TestMoveItemInvalidPositions(t *testing.T) {
	m, _ := twoSections()

	tests := []struct {
		name string
		from Position
		to   Position
	}{
		{"from item out of range", Position{Item: 3, Section: 0}, Position{Item: 0, Section: 1}},
		{"from section missing", Position{Item: 0, Section: 5}, Position{Item: 0, Section: 0}},
		{"to item beyond count", Position{Item: 0, Section: 0}, Position{Item: 4, Section: 1}},
		{"to section beyond next", Position{Item: 0, Section: 0}, Position{Item: 0, Section: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.MoveItem(tt.from, tt.to)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("expected ErrOutOfBounds, got %v", err)
			}
		})
	}
}

func TestReplaceItem(t *testing.T) {
	m, observer := twoSections()

	m.ReplaceItem(5, 50)

	assert.Equal(t, []any{4, 50, 6}, m.ItemsInSection(1))
	assert.Equal(t, []Position{{Item: 1, Section: 1}}, observer.last(t).UpdatedItems)

	// Replacing an absent value stays silent.
	observer.updates = nil
	m.ReplaceItem(99, 100)
	assert.Empty(t, observer.updates)
}

func TestItemAtDefensiveLookup(t *testing.T) {
	m, _ := twoSections()

	if _, ok := m.ItemAt(Position{Item: 9, Section: 0}); ok {
		t.Error("out-of-range item index should report false")
	}
	if _, ok := m.ItemAt(Position{Item: 0, Section: 9}); ok {
		t.Error("out-of-range section index should report false")
	}
	if _, ok := m.ItemAt(Position{Item: -1, Section: -1}); ok {
		t.Error("negative position should report false")
	}
}

func TestPositionForItemFirstMatchOrder(t *testing.T) {
	m, _ := newTestStorage()
	m.AddItems([]any{"x", "dup"}, 0)
	m.AddItems([]any{"dup"}, 1)

	p, ok := m.PositionForItem("dup")

	require.True(t, ok)
	assert.Equal(t, Position{Item: 1, Section: 0}, p)
}

func TestPositionForItemMissReturnsFalse(t *testing.T) {
	m, _ := twoSections()

	if _, ok := m.PositionForItem("nope"); ok {
		t.Error("absent value should report false")
	}
}

func TestPositionsForItemsSkipsMissing(t *testing.T) {
	m, _ := twoSections()

	positions := m.PositionsForItems([]any{2, "missing", 6})

	assert.Equal(t, []Position{
		{Item: 1, Section: 0},
		{Item: 2, Section: 1},
	}, positions)
}

func TestCustomEqualityFunc(t *testing.T) {
	type task struct {
		ID    int
		Title string
	}
	m, _ := newTestStorage()
	m.SetEqualityFunc(func(a, b any) bool {
		ta, ok1 := a.(task)
		tb, ok2 := b.(task)
		return ok1 && ok2 && ta.ID == tb.ID
	})
	m.AddItems([]any{task{ID: 1, Title: "old"}, task{ID: 2, Title: "keep"}}, 0)

	m.RemoveItem(task{ID: 1, Title: "different title"})

	assert.Equal(t, []any{task{ID: 2, Title: "keep"}}, m.ItemsInSection(0))
}

func TestImplicitBatchDeliversExactlyOneRecord(t *testing.T) {
	m, observer := newTestStorage()

	m.AddItems([]any{"a", "b"}, 0)

	require.Len(t, observer.updates, 1)
	update := observer.updates[0]
	assert.Len(t, update.InsertedItems, 2)
	assert.Equal(t, []int{0}, update.InsertedSections.Values())
	assert.True(t, update.Animated)
}

func TestExplicitBatchCoalescesCalls(t *testing.T) {
	m, observer := newTestStorage()

	m.StartUpdate()
	m.AddItem("a", 0)
	m.AddItem("b", 1)
	m.RemoveItem("a")
	assert.Empty(t, observer.updates, "nothing flushes before FinishUpdate")
	m.FinishUpdate()

	require.Len(t, observer.updates, 1)
	update := observer.updates[0]
	assert.Len(t, update.InsertedItems, 2)
	assert.Len(t, update.DeletedItems, 1)
}

func TestStartUpdateDiscardsUnflushedRecord(t *testing.T) {
	m, observer := newTestStorage()

	m.StartUpdate()
	m.AddItem("a", 0)
	m.StartUpdate() // defensive reset, previous accumulation is dropped
	m.AddItem("b", 0)
	m.FinishUpdate()

	require.Len(t, observer.updates, 1)
	assert.Equal(t, []Position{{Item: 1, Section: 0}}, observer.updates[0].InsertedItems)
}

func TestFinishUpdateWithoutChangesStaysSilent(t *testing.T) {
	m, observer := newTestStorage()

	m.StartUpdate()
	m.FinishUpdate()
	m.FinishUpdate() // unmatched finish

	assert.Empty(t, observer.updates)
}

func TestResetItemsForcesFullReload(t *testing.T) {
	m, observer := twoSections()

	m.ResetItems([][]any{{"x"}})

	assert.Equal(t, 1, m.NumberOfSections())
	assert.Equal(t, []any{"x"}, m.ItemsInSection(0))

	update := observer.last(t)
	assert.False(t, update.Animated)
	assert.Equal(t, []int{0}, update.UpdatedSections.Values())
	assert.Equal(t, []int{1}, update.DeletedSections.Values())
}

func TestResetItemsGrowsSections(t *testing.T) {
	m, observer := newTestStorage()
	m.AddItem("a", 0)
	observer.updates = nil

	m.ResetItems([][]any{{"x"}, {"y", "z"}})

	update := observer.last(t)
	assert.Equal(t, []int{0}, update.UpdatedSections.Values())
	assert.Equal(t, []int{1}, update.InsertedSections.Values())
	assert.Equal(t, []any{"y", "z"}, m.ItemsInSection(1))
}

func TestSupplementaryModelLookup(t *testing.T) {
	m, _ := newTestStorage()
	m.AddItem("a", 0)
	m.SetSupplementaryProvider(func(kind string, section int) any {
		if kind == HeaderKind {
			return "Section header"
		}
		return nil
	})

	assert.Equal(t, "Section header", m.SupplementaryModel(HeaderKind, 0))
	assert.Nil(t, m.SupplementaryModel(FooterKind, 0))

	m.SetHeaderKind(HeaderKind)
	assert.Equal(t, "Section header", m.HeaderModel(0))
}

func TestSupplementaryModelWithoutProviderIsNil(t *testing.T) {
	m, _ := newTestStorage()

	assert.Nil(t, m.SupplementaryModel(HeaderKind, 0))
}

func TestHeaderModelWithoutKindPanics(t *testing.T) {
	m, _ := newTestStorage()

	assert.Panics(t, func() { m.HeaderModel(0) })
	assert.Panics(t, func() { m.FooterModel(0) })
}

func TestStorageInterfaceSatisfied(t *testing.T) {
	var _ Storage = NewMemoryStorage()
}
