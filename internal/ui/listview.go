package ui

import (
	"fmt"

	"github.com/pstuifzand/tui-listview/internal/storage"
	"github.com/pstuifzand/tui-listview/internal/theme"
)

// highlightTicks is how many render ticks a changed row stays highlighted.
const highlightTicks = 12

// RowRenderer turns an opaque storage item into one display line.
type RowRenderer func(item any) string

type lineKind int

const (
	lineHeader lineKind = iota
	lineItem
	lineFooter
)

type displayLine struct {
	kind    lineKind
	text    string
	section int
	pos     storage.Position // valid for lineItem only
}

// ListView renders a sectioned storage and applies its update records.
// It registers itself as the storage's observer; an animated update
// highlights the affected rows and lets the highlight decay over render
// ticks, a non-animated one repaints without any highlight.
type ListView struct {
	store  storage.Storage
	render RowRenderer
	theme  *theme.Theme

	lines          []displayLine
	selectedIdx    int
	viewportOffset int

	// remaining highlight ticks per item position
	highlights map[storage.Position]int
}

// NewListView builds a view over the storage and registers it as the
// storage's observer.
func NewListView(store storage.Storage, render RowRenderer, th *theme.Theme) *ListView {
	if render == nil {
		render = func(item any) string { return fmt.Sprint(item) }
	}
	if th == nil {
		th = theme.Default()
	}
	lv := &ListView{
		store:      store,
		render:     render,
		theme:      th,
		highlights: make(map[storage.Position]int),
	}
	lv.Rebuild()
	store.SetObserver(lv)
	return lv
}

// Rebuild reflattens the storage into display lines, keeping the
// selection in range.
func (lv *ListView) Rebuild() {
	lines := make([]displayLine, 0, len(lv.lines))
	for s := 0; s < lv.store.NumberOfSections(); s++ {
		if header := lv.store.SupplementaryModel(storage.HeaderKind, s); header != nil {
			lines = append(lines, displayLine{kind: lineHeader, text: fmt.Sprint(header), section: s})
		}
		for i := 0; i < lv.store.NumberOfItems(s); i++ {
			p := storage.Position{Item: i, Section: s}
			item, ok := lv.store.ItemAt(p)
			if !ok {
				continue
			}
			lines = append(lines, displayLine{kind: lineItem, text: lv.render(item), section: s, pos: p})
		}
		if footer := lv.store.SupplementaryModel(storage.FooterKind, s); footer != nil {
			lines = append(lines, displayLine{kind: lineFooter, text: fmt.Sprint(footer), section: s})
		}
	}
	lv.lines = lines
	if lv.selectedIdx >= len(lv.lines) {
		lv.selectedIdx = len(lv.lines) - 1
	}
	if lv.selectedIdx < 0 {
		lv.selectedIdx = 0
	}
}

// StorageUpdated applies one finished update record.
func (lv *ListView) StorageUpdated(update *storage.Update) {
	followTo, follow := lv.moveTarget(update)

	lv.Rebuild()

	if !update.Animated {
		// Full reload: drop all pending highlights.
		lv.highlights = make(map[storage.Position]int)
		return
	}

	if follow {
		lv.SelectPosition(followTo)
	}
	for _, p := range update.InsertedItems {
		lv.highlights[p] = highlightTicks
	}
	for _, p := range update.UpdatedItems {
		lv.highlights[p] = highlightTicks
	}
	for _, mv := range update.MovedItems {
		lv.highlights[mv.To] = highlightTicks
	}
}

// moveTarget reports where the currently selected item ends up if the
// update moves it.
func (lv *ListView) moveTarget(update *storage.Update) (storage.Position, bool) {
	selected, ok := lv.SelectedPosition()
	if !ok {
		return storage.Position{}, false
	}
	for _, mv := range update.MovedItems {
		if mv.From == selected {
			return mv.To, true
		}
	}
	return storage.Position{}, false
}

// LineCount returns the number of display lines, headers and footers
// included.
func (lv *ListView) LineCount() int {
	return len(lv.lines)
}

// SelectedPosition returns the storage position of the selected line, or
// false when the selection rests on a header or footer, or the view is
// empty.
func (lv *ListView) SelectedPosition() (storage.Position, bool) {
	if lv.selectedIdx < 0 || lv.selectedIdx >= len(lv.lines) {
		return storage.Position{}, false
	}
	line := lv.lines[lv.selectedIdx]
	if line.kind != lineItem {
		return storage.Position{}, false
	}
	return line.pos, true
}

// SelectPosition moves the selection to the line showing p, if present.
func (lv *ListView) SelectPosition(p storage.Position) {
	for i, line := range lv.lines {
		if line.kind == lineItem && line.pos == p {
			lv.selectedIdx = i
			return
		}
	}
}

// SelectNext moves the selection down to the next item line.
func (lv *ListView) SelectNext() {
	for i := lv.selectedIdx + 1; i < len(lv.lines); i++ {
		if lv.lines[i].kind == lineItem {
			lv.selectedIdx = i
			return
		}
	}
}

// SelectPrev moves the selection up to the previous item line.
func (lv *ListView) SelectPrev() {
	for i := lv.selectedIdx - 1; i >= 0; i-- {
		if lv.lines[i].kind == lineItem {
			lv.selectedIdx = i
			return
		}
	}
}

// SelectFirstItem puts the selection on the first item line.
func (lv *ListView) SelectFirstItem() {
	for i, line := range lv.lines {
		if line.kind == lineItem {
			lv.selectedIdx = i
			return
		}
	}
}

// Tick advances the highlight decay by one render tick.
func (lv *ListView) Tick() {
	for p, remaining := range lv.highlights {
		if remaining <= 1 {
			delete(lv.highlights, p)
			continue
		}
		lv.highlights[p] = remaining - 1
	}
}

// HighlightFraction returns how strongly an item position is currently
// highlighted, 0 when it is not.
func (lv *ListView) HighlightFraction(p storage.Position) float64 {
	remaining, ok := lv.highlights[p]
	if !ok {
		return 0
	}
	return float64(remaining) / float64(highlightTicks)
}

// ensureVisible scrolls the viewport so the selection stays on screen.
func (lv *ListView) ensureVisible(height int) {
	if height <= 0 {
		return
	}
	if lv.selectedIdx < lv.viewportOffset {
		lv.viewportOffset = lv.selectedIdx
	}
	if lv.selectedIdx >= lv.viewportOffset+height {
		lv.viewportOffset = lv.selectedIdx - height + 1
	}
	if lv.viewportOffset < 0 {
		lv.viewportOffset = 0
	}
}

// Render draws the visible lines into the given screen region.
func (lv *ListView) Render(screen *Screen, x, y, width, height int) {
	lv.ensureVisible(height)

	for row := 0; row < height; row++ {
		idx := lv.viewportOffset + row
		if idx >= len(lv.lines) {
			break
		}
		line := lv.lines[idx]

		style := lv.theme.Base
		text := line.text
		switch line.kind {
		case lineHeader:
			style = lv.theme.Header
		case lineFooter:
			style = lv.theme.Footer
		case lineItem:
			text = "  " + text
			if frac := lv.HighlightFraction(line.pos); frac > 0 {
				style = lv.theme.HighlightStyle(frac)
			}
			if idx == lv.selectedIdx {
				style = lv.theme.Selected
			}
		}

		screen.FillLine(y+row, x+width, style)
		screen.DrawText(x, y+row, Truncate(text, width), style, width)
	}
}
