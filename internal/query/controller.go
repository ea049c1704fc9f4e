// Package query mirrors a sectioned SQLite query into the storage update
// protocol. A Controller snapshots the query result; every Refresh diffs
// the new result against the previous snapshot and reports the changes as
// a will/did-change callback sequence, which the Adapter turns into
// storage update records.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pstuifzand/tui-listview/internal/storage"
)

// Row is one fetched result row.
type Row struct {
	ID      int64
	Section string
	Fields  []string
}

// fingerprint identifies the row's content for update detection.
func (r Row) fingerprint() string {
	return strings.Join(r.Fields, "\x1f")
}

// ChangeType classifies one row or section change between refreshes.
type ChangeType int

const (
	ChangeInsert ChangeType = iota
	ChangeDelete
	ChangeMove
	ChangeUpdate
)

func (c ChangeType) String() string {
	switch c {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeMove:
		return "move"
	case ChangeUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// ChangeObserver receives the change callbacks computed by a Refresh.
// Callbacks arrive between WillChangeContent and DidChangeContent, on the
// goroutine that called Refresh. Section changes are always delivered
// before row changes. Positions in delete and move-from callbacks use
// pre-refresh section indexes; insert and move-to positions use
// post-refresh indexes.
type ChangeObserver interface {
	WillChangeContent()
	DidChangeRow(row Row, at *storage.Position, change ChangeType, to *storage.Position)
	DidChangeSection(index int, change ChangeType)
	DidChangeContent()
}

// Controller runs a sectioned query and reports differences between
// consecutive refreshes. The query's first selected column must be a
// unique integer id and the second the section value; any remaining
// columns become the row's fields. Rows of one section must be contiguous
// under the query's ORDER BY; sections appear in first-appearance order.
type Controller struct {
	db       *sql.DB
	query    string
	observer ChangeObserver

	sections []snapshotSection
}

type snapshotSection struct {
	name string
	rows []Row
}

// Open opens the SQLite database at path and verifies the connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewController prepares a controller. No rows are fetched until the
// first Refresh.
func NewController(db *sql.DB, query string) *Controller {
	return &Controller{db: db, query: query}
}

// SetObserver registers the change receiver.
func (c *Controller) SetObserver(observer ChangeObserver) {
	c.observer = observer
}

// NumberOfSections returns the section count of the current snapshot.
func (c *Controller) NumberOfSections() int {
	return len(c.sections)
}

// NumberOfRows returns a section's row count, 0 when the section does not
// exist.
func (c *Controller) NumberOfRows(section int) int {
	if section < 0 || section >= len(c.sections) {
		return 0
	}
	return len(c.sections[section].rows)
}

// SectionName returns the section value shared by a section's rows.
func (c *Controller) SectionName(section int) (string, bool) {
	if section < 0 || section >= len(c.sections) {
		return "", false
	}
	return c.sections[section].name, true
}

// RowAt returns the row at p, or false when p is out of bounds.
func (c *Controller) RowAt(p storage.Position) (Row, bool) {
	if p.Section < 0 || p.Section >= len(c.sections) {
		return Row{}, false
	}
	rows := c.sections[p.Section].rows
	if p.Item < 0 || p.Item >= len(rows) {
		return Row{}, false
	}
	return rows[p.Item], true
}

// Refresh refetches the query, reports the differences from the previous
// snapshot to the observer, and installs the new snapshot.
func (c *Controller) Refresh(ctx context.Context) error {
	next, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	if c.observer != nil {
		diffSnapshots(c.observer, c.sections, next)
	}
	c.sections = next
	return nil
}

func (c *Controller) fetch(ctx context.Context) ([]snapshotSection, error) {
	rows, err := c.db.QueryContext(ctx, c.query)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	if len(columns) < 2 {
		return nil, fmt.Errorf("query must select at least id and section columns, got %d", len(columns))
	}
	fieldCount := len(columns) - 2

	var sections []snapshotSection
	index := make(map[string]int)
	for rows.Next() {
		var id int64
		var sectionName sql.NullString
		fields := make([]sql.NullString, fieldCount)
		dest := make([]any, 0, len(columns))
		dest = append(dest, &id, &sectionName)
		for i := range fields {
			dest = append(dest, &fields[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := Row{ID: id, Section: sectionName.String, Fields: make([]string, fieldCount)}
		for i, f := range fields {
			row.Fields[i] = f.String
		}

		si, ok := index[row.Section]
		if !ok {
			si = len(sections)
			index[row.Section] = si
			sections = append(sections, snapshotSection{name: row.Section})
		}
		sections[si].rows = append(sections[si].rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return sections, nil
}

// diffSnapshots computes the change events between two snapshots. Rows
// are matched by ID, sections by name.
func diffSnapshots(observer ChangeObserver, old, next []snapshotSection) {
	observer.WillChangeContent()
	defer observer.DidChangeContent()

	oldSections := make(map[string]int, len(old))
	for i, s := range old {
		oldSections[s.name] = i
	}
	newSections := make(map[string]int, len(next))
	for i, s := range next {
		newSections[s.name] = i
	}

	for i, s := range old {
		if _, ok := newSections[s.name]; !ok {
			observer.DidChangeSection(i, ChangeDelete)
		}
	}
	for i, s := range next {
		if _, ok := oldSections[s.name]; !ok {
			observer.DidChangeSection(i, ChangeInsert)
		}
	}

	oldPositions := make(map[int64]storage.Position)
	oldRows := make(map[int64]Row)
	for si, s := range old {
		for ri, row := range s.rows {
			oldPositions[row.ID] = storage.Position{Item: ri, Section: si}
			oldRows[row.ID] = row
		}
	}

	seen := make(map[int64]bool)
	for si, s := range next {
		for ri, row := range s.rows {
			position := storage.Position{Item: ri, Section: si}
			previous, existed := oldPositions[row.ID]
			seen[row.ID] = true
			switch {
			case !existed:
				observer.DidChangeRow(row, nil, ChangeInsert, &position)
			case previous != position:
				from := previous
				observer.DidChangeRow(row, &from, ChangeMove, &position)
			case oldRows[row.ID].fingerprint() != row.fingerprint():
				at := previous
				observer.DidChangeRow(row, &at, ChangeUpdate, nil)
			}
		}
	}

	// Deleted rows, reported at their old positions in ascending order
	// for deterministic delivery.
	var deleted []int64
	for id := range oldPositions {
		if !seen[id] {
			deleted = append(deleted, id)
		}
	}
	sort.Slice(deleted, func(i, j int) bool {
		pi, pj := oldPositions[deleted[i]], oldPositions[deleted[j]]
		if pi.Section != pj.Section {
			return pi.Section < pj.Section
		}
		return pi.Item < pj.Item
	})
	for _, id := range deleted {
		at := oldPositions[id]
		observer.DidChangeRow(oldRows[id], &at, ChangeDelete, nil)
	}
}
