package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Screen manages the tcell screen lifecycle.
type Screen struct {
	tcellScreen tcell.Screen
}

// NewScreen creates and initializes a terminal screen.
func NewScreen() (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	return &Screen{tcellScreen: tcellScreen}, nil
}

// Size returns the current screen dimensions.
func (s *Screen) Size() (int, int) {
	return s.tcellScreen.Size()
}

// PollEvent blocks until the next terminal event.
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// Clear clears the screen with a style.
func (s *Screen) Clear(style tcell.Style) {
	s.tcellScreen.Fill(' ', style)
}

// Show flushes pending drawing to the terminal.
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// DrawText writes a string starting at (x, y), clipping at maxWidth
// columns.
func (s *Screen) DrawText(x, y int, text string, style tcell.Style, maxWidth int) {
	col := x
	for _, r := range text {
		w := RuneWidth(r)
		if col+w > x+maxWidth {
			break
		}
		s.tcellScreen.SetContent(col, y, r, nil, style)
		col += w
	}
}

// FillLine paints a full row with a style.
func (s *Screen) FillLine(y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		s.tcellScreen.SetContent(x, y, ' ', nil, style)
	}
}

// Close shuts the screen down and restores the terminal.
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}
