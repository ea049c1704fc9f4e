// Package theme holds the color palettes used by the list view.
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the styles the list view renders with.
type Theme struct {
	Name     string
	Base     tcell.Style
	Header   tcell.Style
	Footer   tcell.Style
	Selected tcell.Style
	Status   tcell.Style

	highlight  colorful.Color
	background colorful.Color
}

// Default returns the default theme.
func Default() *Theme {
	return tokyoNight()
}

// Named returns the theme with the given name, or the default when the
// name is unknown.
func Named(name string) *Theme {
	switch strings.ToLower(name) {
	case "tokyo-night":
		return tokyoNight()
	case "light":
		return light()
	default:
		return Default()
	}
}

func tokyoNight() *Theme {
	bg := mustHex("#1a1b26")
	fg := mustHex("#c0caf5")
	accent := mustHex("#7aa2f7")
	highlight := mustHex("#3d59a1")

	base := tcell.StyleDefault.
		Background(toTcell(bg)).
		Foreground(toTcell(fg))
	return &Theme{
		Name:       "tokyo-night",
		Base:       base,
		Header:     base.Foreground(toTcell(accent)).Bold(true),
		Footer:     base.Foreground(toTcell(mustHex("#565f89"))).Italic(true),
		Selected:   base.Background(toTcell(mustHex("#283457"))),
		Status:     base.Foreground(toTcell(mustHex("#9ece6a"))),
		highlight:  highlight,
		background: bg,
	}
}

func light() *Theme {
	bg := mustHex("#fafafa")
	fg := mustHex("#383a42")
	accent := mustHex("#4078f2")
	highlight := mustHex("#d0d9f5")

	base := tcell.StyleDefault.
		Background(toTcell(bg)).
		Foreground(toTcell(fg))
	return &Theme{
		Name:       "light",
		Base:       base,
		Header:     base.Foreground(toTcell(accent)).Bold(true),
		Footer:     base.Foreground(toTcell(mustHex("#a0a1a7"))).Italic(true),
		Selected:   base.Background(toTcell(mustHex("#e5e5e6"))),
		Status:     base.Foreground(toTcell(mustHex("#50a14f"))),
		highlight:  highlight,
		background: bg,
	}
}

// HighlightStyle blends the highlight color toward the base background as
// a change animation decays. frac 1 is fully highlighted, 0 is back to
// the base style.
func (t *Theme) HighlightStyle(frac float64) tcell.Style {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	blended := t.highlight.BlendLab(t.background, 1-frac)
	return t.Base.Background(toTcell(blended))
}

// HexToColor converts a hex color string (#RRGGBB or #RGB) to
// tcell.Color.
func HexToColor(hexColor string) tcell.Color {
	hexColor = strings.TrimPrefix(hexColor, "#")

	if len(hexColor) == 3 {
		hexColor = string(hexColor[0]) + string(hexColor[0]) +
			string(hexColor[1]) + string(hexColor[1]) +
			string(hexColor[2]) + string(hexColor[2])
	}
	if len(hexColor) != 6 {
		return tcell.ColorDefault
	}

	c, err := colorful.Hex("#" + hexColor)
	if err != nil {
		return tcell.ColorDefault
	}
	return toTcell(c)
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic("theme: bad hex color " + hex)
	}
	return c
}
