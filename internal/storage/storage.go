package storage

// Conventional supplementary kinds used by the bundled consumers.
const (
	HeaderKind = "header"
	FooterKind = "footer"
)

// Storage is the read-side boundary shared by the in-memory engine and
// the query adapter. Consumers render from it and receive change batches
// through the registered observer.
type Storage interface {
	// ItemAt returns the item at p, or false when p is out of bounds.
	ItemAt(p Position) (any, bool)

	// NumberOfSections returns the current section count.
	NumberOfSections() int

	// NumberOfItems returns the item count of a section, 0 when the
	// section does not exist.
	NumberOfItems(section int) int

	// SupplementaryModel resolves a per-section value for a kind tag,
	// nil when none is configured.
	SupplementaryModel(kind string, section int) any

	// SetObserver registers the receiver for finished update records.
	SetObserver(observer Observer)
}
