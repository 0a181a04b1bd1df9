package widgets

import (
	"strconv"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/dustin/go-humanize"
)

// writeText writes s into surf at (col, row) within maxWidth and returns the
// number of columns used. Right-aligned text is padded on the left; text that
// does not fit is cut at maxWidth.
func writeText(surf *vxfw.Surface, col, row uint16, maxWidth int, s string, style vaxis.Style, alignRight bool) int {
	chars := vaxis.Characters(s)

	displayWidth := 0
	for _, ch := range chars {
		displayWidth += ch.Width
	}

	offset := 0
	if alignRight && displayWidth < maxWidth {
		offset = maxWidth - displayWidth
	}

	pos := offset
	for _, ch := range chars {
		if pos+ch.Width > maxWidth {
			break
		}
		surf.WriteCell(col+uint16(pos), row, vaxis.Cell{
			Character: ch,
			Style:     style,
		})
		pos += ch.Width
	}
	return pos
}

// FormatValue renders a series value: integers with thousands separators,
// fractions with one decimal.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 1)
}

// FormatPercent renders part/total as a percentage with one decimal.
func FormatPercent(part, total float64) string {
	if total <= 0 {
		return "0.0%"
	}
	return strconv.FormatFloat(part/total*100, 'f', 1, 64) + "%"
}
