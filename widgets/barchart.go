package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Bar is one row of a BarChart.
type Bar struct {
	Label string
	Value float64
}

// BarChart renders ranked values as horizontal bars scaled to the largest one.
//
//	Post 1      [████████████████████]  100
//	Post 2      [████████████████░░░░]   80
type BarChart struct {
	Bars       []Bar
	LabelWidth int // left column width (default 16)
	ValueWidth int // right column width (default 8)
}

const (
	barFilled = '█' // U+2588
	barEmpty  = '░' // U+2591
)

// barColor returns the color for a bar filled to pct percent of the scale.
func barColor(pct float64) vaxis.Color {
	switch {
	case pct >= 85:
		return vaxis.IndexColor(2) // green
	case pct >= 40:
		return vaxis.IndexColor(4) // blue
	default:
		return vaxis.IndexColor(6) // cyan
	}
}

// Draw renders one row per bar, as many as fit.
func (bc *BarChart) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	labelWidth := bc.LabelWidth
	if labelWidth == 0 {
		labelWidth = 16
	}
	valueWidth := bc.ValueWidth
	if valueWidth == 0 {
		valueWidth = 8
	}

	height := min(uint16(len(bc.Bars)), ctx.Max.Height)
	s := vxfw.NewSurface(ctx.Max.Width, height, bc)

	// label, space, brackets, space, value
	barWidth := int(ctx.Max.Width) - labelWidth - 1 - 2 - 1 - valueWidth
	if barWidth < 1 {
		barWidth = 1
	}

	maxV := 0.0
	for _, b := range bc.Bars {
		maxV = max(maxV, b.Value)
	}

	for i, b := range bc.Bars {
		if uint16(i) >= height {
			break
		}
		row := uint16(i)
		writeText(&s, 0, row, labelWidth, b.Label, vaxis.Style{Attribute: vaxis.AttrBold}, false)
		col := uint16(labelWidth + 1)

		pct := 0.0
		if maxV > 0 {
			pct = b.Value / maxV * 100
		}
		filled := int(pct / 100 * float64(barWidth))
		color := barColor(pct)

		for _, ch := range ctx.Characters("[") {
			s.WriteCell(col, row, vaxis.Cell{Character: ch})
			col += uint16(ch.Width)
		}
		for j := 0; j < barWidth; j++ {
			r := barEmpty
			style := vaxis.Style{Foreground: vaxis.IndexColor(8)} // dim for empty
			if j < filled {
				r = barFilled
				style = vaxis.Style{Foreground: color}
			}
			for _, c := range ctx.Characters(string(r)) {
				s.WriteCell(col, row, vaxis.Cell{Character: c, Style: style})
				col += uint16(c.Width)
			}
		}
		for _, ch := range ctx.Characters("]") {
			s.WriteCell(col, row, vaxis.Cell{Character: ch})
			col += uint16(ch.Width)
		}

		writeText(&s, col+1, row, valueWidth, FormatValue(b.Value), vaxis.Style{}, true)
	}

	return s, nil
}
