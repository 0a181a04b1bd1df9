package widgets

import (
	"strings"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// ShareChart renders each category's share of the total as a table row with a
// proportional bar, percentage and raw value.
//
//	China      ██████████        43.5%      50
//	US         ██████            26.1%      30
type ShareChart struct {
	Slices   []Bar
	BarWidth int // width of the bar column (default 20)
}

var shareColors = []vaxis.Color{
	vaxis.IndexColor(4),
	vaxis.IndexColor(6),
	vaxis.IndexColor(2),
	vaxis.IndexColor(3),
	vaxis.IndexColor(1),
}

// Total sums every slice.
func (sc *ShareChart) Total() float64 {
	var total float64
	for _, b := range sc.Slices {
		total += b.Value
	}
	return total
}

// Table lays the slices out as a Table.
func (sc *ShareChart) Table() *Table {
	barWidth := sc.BarWidth
	if barWidth == 0 {
		barWidth = 20
	}
	total := sc.Total()

	t := &Table{
		Columns: []TableColumn{
			{Width: 0, Style: vaxis.Style{Attribute: vaxis.AttrBold}},
			{Width: barWidth},
			{Width: 7, AlignRight: true},
			{Width: 8, AlignRight: true},
		},
		Gap: 2,
		// Each bar takes the next color of the palette.
		CellStyle: func(row, col int, base vaxis.Style) vaxis.Style {
			if col == 1 {
				return vaxis.Style{Foreground: shareColors[row%len(shareColors)]}
			}
			return base
		},
	}
	for _, b := range sc.Slices {
		n := 0
		if total > 0 {
			n = int(b.Value / total * float64(barWidth))
		}
		t.Rows = append(t.Rows, []string{
			b.Label,
			strings.Repeat(string(barFilled), n),
			FormatPercent(b.Value, total),
			FormatValue(b.Value),
		})
	}
	return t
}

// Draw renders the share table.
func (sc *ShareChart) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	return sc.Table().Draw(ctx)
}
