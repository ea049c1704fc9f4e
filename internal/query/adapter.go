package query

import (
	"github.com/pstuifzand/tui-listview/internal/storage"
)

// Adapter exposes a Controller as a storage.Storage. It consumes the
// controller's change callbacks and translates each refresh into one
// storage update record, so consumers see the same update interface
// regardless of the backend.
type Adapter struct {
	controller *Controller
	observer   storage.Observer

	// current is non-nil between WillChangeContent and DidChangeContent.
	current *storage.Update
}

// NewAdapter wires an adapter as the controller's change observer.
func NewAdapter(controller *Controller) *Adapter {
	a := &Adapter{controller: controller}
	controller.SetObserver(a)
	return a
}

// ItemAt returns the Row at p, or false when p is out of bounds.
func (a *Adapter) ItemAt(p storage.Position) (any, bool) {
	row, ok := a.controller.RowAt(p)
	if !ok {
		return nil, false
	}
	return row, true
}

// NumberOfSections returns the section count of the mirrored snapshot.
func (a *Adapter) NumberOfSections() int {
	return a.controller.NumberOfSections()
}

// NumberOfItems returns a section's row count.
func (a *Adapter) NumberOfItems(section int) int {
	return a.controller.NumberOfRows(section)
}

// SupplementaryModel derives the header model from the underlying query
// result's section name. Other kinds resolve to nil.
func (a *Adapter) SupplementaryModel(kind string, section int) any {
	if kind != storage.HeaderKind {
		return nil
	}
	name, ok := a.controller.SectionName(section)
	if !ok {
		return nil
	}
	return name
}

// SetObserver registers the update receiver.
func (a *Adapter) SetObserver(observer storage.Observer) {
	a.observer = observer
}

// WillChangeContent opens the batch for one refresh.
func (a *Adapter) WillChangeContent() {
	a.current = storage.NewUpdate()
}

// ensureUpdate tolerates change callbacks arriving without a preceding
// WillChangeContent.
func (a *Adapter) ensureUpdate() *storage.Update {
	if a.current == nil {
		a.current = storage.NewUpdate()
	}
	return a.current
}

// DidChangeRow records one row change. The insert half of a change is
// dropped when its section index is already in the batch's
// inserted-section set, and the delete half when its section is in the
// deleted-section set; a whole-section event covers its rows. Moves
// contribute one insertion and one deletion, each suppressed
// independently.
func (a *Adapter) DidChangeRow(row Row, at *storage.Position, change ChangeType, to *storage.Position) {
	u := a.ensureUpdate()
	switch change {
	case ChangeInsert:
		if to != nil && !u.InsertedSections.Contains(to.Section) {
			u.InsertedItems = append(u.InsertedItems, *to)
		}
	case ChangeDelete:
		if at != nil && !u.DeletedSections.Contains(at.Section) {
			u.DeletedItems = append(u.DeletedItems, *at)
		}
	case ChangeMove:
		if to != nil && !u.InsertedSections.Contains(to.Section) {
			u.InsertedItems = append(u.InsertedItems, *to)
		}
		if at != nil && !u.DeletedSections.Contains(at.Section) {
			u.DeletedItems = append(u.DeletedItems, *at)
		}
	case ChangeUpdate:
		if at != nil {
			u.UpdatedItems = append(u.UpdatedItems, *at)
		}
	}
}

// DidChangeSection records one section insertion or deletion.
func (a *Adapter) DidChangeSection(index int, change ChangeType) {
	u := a.ensureUpdate()
	switch change {
	case ChangeInsert:
		u.InsertedSections.Add(index)
	case ChangeDelete:
		u.DeletedSections.Add(index)
	}
}

// DidChangeContent flushes the batch to the observer. A refresh that
// found no differences stays silent.
func (a *Adapter) DidChangeContent() {
	update := a.current
	a.current = nil
	if update == nil || update.IsEmpty() {
		return
	}
	if a.observer != nil {
		a.observer.StorageUpdated(update)
	}
}
