package storage

import (
	"errors"
	"testing"
)

func TestSectionInsertShiftsRight(t *testing.T) {
	s := NewSection("a", "c")

	if err := s.Insert("b", 1); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	items := s.Items()
	if len(items) != 3 || items[0] != "a" || items[1] != "b" || items[2] != "c" {
		t.Errorf("unexpected items after insert: %v", items)
	}
}

func TestSectionInsertAtCountAppends(t *testing.T) {
	s := NewSection("a")

	if err := s.Insert("b", 1); err != nil {
		t.Fatalf("Insert at count failed: %v", err)
	}
	if s.Count() != 2 {
		t.Errorf("count: got %d, want 2", s.Count())
	}
}

func TestSectionInsertOutOfBounds(t *testing.T) {
	s := NewSection("a")

	err := s.Insert("b", 2)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	err = s.Insert("b", -1)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds for negative index, got %v", err)
	}
}

func TestSectionRemoveAtShiftsLeft(t *testing.T) {
	s := NewSection("a", "b", "c")

	item, err := s.RemoveAt(1)
	if err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}
	if item != "b" {
		t.Errorf("removed item: got %v, want b", item)
	}

	items := s.Items()
	if len(items) != 2 || items[0] != "a" || items[1] != "c" {
		t.Errorf("unexpected items after remove: %v", items)
	}
}

func TestSectionRemoveAtOutOfBounds(t *testing.T) {
	s := NewSection("a")

	if _, err := s.RemoveAt(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestSectionReplaceAt(t *testing.T) {
	s := NewSection("a", "b")

	if err := s.ReplaceAt(1, "z"); err != nil {
		t.Fatalf("ReplaceAt failed: %v", err)
	}
	if item, _ := s.ItemAt(1); item != "z" {
		t.Errorf("item at 1: got %v, want z", item)
	}

	if err := s.ReplaceAt(2, "y"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestSectionItemsSnapshotIsIndependent(t *testing.T) {
	s := NewSection("a", "b")

	snapshot := s.Items()
	snapshot[0] = "mutated"

	if item, _ := s.ItemAt(0); item != "a" {
		t.Errorf("section was mutated through snapshot: %v", item)
	}
}

func TestEmptySectionItemsNotNil(t *testing.T) {
	s := NewSection()

	if s.Items() == nil {
		t.Error("Items of empty section should be an empty slice, not nil")
	}
}
