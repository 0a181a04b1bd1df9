package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// StatusItem is one segment of a StatusBar.
type StatusItem struct {
	Text  string
	Style vaxis.Style
}

// StatusBar is a single row of segments separated by " | ":
//
//	 q quit | r refresh | ready | updated 2 seconds ago
type StatusBar struct {
	items []StatusItem
}

// NewStatusBar creates a StatusBar with the given segments.
func NewStatusBar(items ...StatusItem) *StatusBar {
	return &StatusBar{items: items}
}

// SetItems replaces every segment.
func (sb *StatusBar) SetItems(items ...StatusItem) {
	sb.items = items
}

// Items returns the current segments.
func (sb *StatusBar) Items() []StatusItem {
	return sb.items
}

// Draw renders the status bar as a single row, cutting segments that do not fit.
func (sb *StatusBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sb)

	col := uint16(0)
	put := func(text string, style vaxis.Style) bool {
		for _, ch := range ctx.Characters(text) {
			if col+uint16(ch.Width) > ctx.Max.Width {
				return false
			}
			s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
			col += uint16(ch.Width)
		}
		return true
	}

	for i, item := range sb.items {
		if i > 0 && !put(" | ", vaxis.Style{Attribute: vaxis.AttrDim}) {
			break
		}
		if !put(" "+item.Text, item.Style) {
			break
		}
	}

	return s, nil
}
