package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// TableColumn defines a column in a Table.
type TableColumn struct {
	Width      int         // fixed character width; 0 takes the space left over
	AlignRight bool        // right-align text within the column
	Style      vaxis.Style // applied to all cells in this column
}

// Table renders rows of text in columns. Each row is a []string matching Columns.
// At most one column should have a zero Width.
type Table struct {
	Columns []TableColumn
	Rows    [][]string
	Header  []string // optional header row rendered with AttrDim
	Gap     int      // spaces between columns (default 1)

	// CellStyle, if set, picks the style of each data cell given its column style.
	CellStyle func(row, col int, base vaxis.Style) vaxis.Style
}

// widths resolves column widths for the given total width.
func (t *Table) widths(total, gap int) []int {
	out := make([]int, len(t.Columns))
	used := 0
	flex := -1
	for i, c := range t.Columns {
		if c.Width == 0 && flex < 0 {
			flex = i
			continue
		}
		out[i] = c.Width
		used += c.Width
	}
	if flex >= 0 {
		used += gap * (len(t.Columns) - 1)
		out[flex] = max(1, total-used)
	}
	return out
}

// Draw renders the table header (if set) and as many rows as fit.
func (t *Table) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	gap := t.Gap
	if gap == 0 {
		gap = 1
	}

	totalRows := len(t.Rows)
	if t.Header != nil {
		totalRows++
	}
	height := min(uint16(totalRows), ctx.Max.Height)

	s := vxfw.NewSurface(ctx.Max.Width, height, t)
	widths := t.widths(int(ctx.Max.Width), gap)

	drawRow := func(row uint16, dataRow int, cells []string, header bool) {
		col := 0
		for i, c := range t.Columns {
			if col >= int(ctx.Max.Width) {
				break
			}
			text := ""
			if i < len(cells) {
				text = cells[i]
			}
			style := c.Style
			if header {
				style = vaxis.Style{Attribute: vaxis.AttrDim}
			} else if t.CellStyle != nil {
				style = t.CellStyle(dataRow, i, style)
			}
			width := min(widths[i], int(ctx.Max.Width)-col)
			writeText(&s, uint16(col), row, width, text, style, c.AlignRight)
			col += widths[i] + gap
		}
	}

	row := uint16(0)
	if t.Header != nil && row < height {
		drawRow(row, -1, t.Header, true)
		row++
	}
	for i, cells := range t.Rows {
		if row >= height {
			break
		}
		drawRow(row, i, cells, false)
		row++
	}

	return s, nil
}
