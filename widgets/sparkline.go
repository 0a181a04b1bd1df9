package widgets

import (
	"math"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Block characters for sparkline rendering (8 levels).
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a series as columns of block characters, one column group
// per point, with the point labels on the bottom row. With fewer than three
// rows available it falls back to a single-row sparkline scaled between the
// series minimum and maximum.
type Sparkline struct {
	labels []string
	values []float64
}

// NewSparkline creates an empty Sparkline.
func NewSparkline() *Sparkline {
	return &Sparkline{}
}

// SetSeries replaces the plotted labels and values. Both slices are copied.
func (sl *Sparkline) SetSeries(labels []string, values []float64) {
	sl.labels = append([]string(nil), labels...)
	sl.values = append([]float64(nil), values...)
}

// Count returns the number of points plotted.
func (sl *Sparkline) Count() int {
	return len(sl.values)
}

// Max returns the largest value, or 0 for an empty series.
func (sl *Sparkline) Max() float64 {
	m := 0.0
	for _, v := range sl.values {
		m = math.Max(m, v)
	}
	return m
}

var sparkStyle = vaxis.Style{Foreground: vaxis.IndexColor(6)} // cyan

// Draw renders the sparkline.
func (sl *Sparkline) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if ctx.Max.Height < 3 {
		return sl.drawRow(ctx)
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, sl)
	n := len(sl.values)
	if n == 0 || ctx.Max.Width == 0 {
		return s, nil
	}

	colWidth := int(ctx.Max.Width) / n
	if colWidth == 0 {
		// Too narrow for every point: show the most recent ones.
		colWidth = 1
	}
	first := max(0, n-int(ctx.Max.Width)/colWidth)
	barWidth := max(1, colWidth-1)
	rows := int(ctx.Max.Height) - 1
	maxV := sl.Max()

	for i, v := range sl.values[first:] {
		col := i * colWidth
		eighths := 0
		if maxV > 0 {
			eighths = int(math.Round(v / maxV * float64(rows*8)))
		}
		for r := 0; r < rows; r++ {
			fill := eighths - r*8
			if fill <= 0 {
				break
			}
			ch := sparkBlocks[min(fill, 8)-1]
			y := uint16(rows - 1 - r)
			for x := 0; x < barWidth; x++ {
				for _, c := range ctx.Characters(string(ch)) {
					s.WriteCell(uint16(col+x), y, vaxis.Cell{Character: c, Style: sparkStyle})
				}
			}
		}
		if idx := first + i; idx < len(sl.labels) {
			writeText(&s, uint16(col), uint16(rows), barWidth, sl.labels[idx], vaxis.Style{Attribute: vaxis.AttrDim}, false)
		}
	}

	return s, nil
}

// drawRow renders the series as a single row.
func (sl *Sparkline) drawRow(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sl)

	vals := sl.values
	if len(vals) == 0 {
		return s, nil
	}

	// Limit to available width
	width := int(ctx.Max.Width)
	if len(vals) > width {
		vals = vals[len(vals)-width:]
	}

	minV, maxV := vals[0], vals[0]
	for _, v := range vals[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	for i, v := range vals {
		level := 0
		if maxV > minV {
			level = min(int(math.Round((v-minV)/(maxV-minV)*7)), 7)
		} else if maxV > 0 {
			level = 4 // flat non-zero line
		}

		for _, c := range ctx.Characters(string(sparkBlocks[level])) {
			s.WriteCell(uint16(i), 0, vaxis.Cell{Character: c, Style: sparkStyle})
		}
	}

	return s, nil
}
