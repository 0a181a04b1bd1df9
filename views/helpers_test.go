package views_test

import (
	"strings"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

func testDrawContext(w, h uint16) vxfw.DrawContext {
	return vxfw.DrawContext{
		Max: vxfw.Size{Width: w, Height: h},
		Min: vxfw.Size{},
		Characters: func(s string) []vaxis.Character {
			chars := make([]vaxis.Character, 0, len(s))
			for _, r := range s {
				chars = append(chars, vaxis.Character{Grapheme: string(r), Width: 1})
			}
			return chars
		},
	}
}

// flatten composes a surface and its children into one grid of graphemes.
func flatten(s vxfw.Surface) [][]string {
	grid := make([][]string, s.Size.Height)
	for r := range grid {
		grid[r] = make([]string, s.Size.Width)
	}
	paint(grid, s, 0, 0)
	return grid
}

func paint(grid [][]string, s vxfw.Surface, row, col int) {
	w := int(s.Size.Width)
	for i, c := range s.Buffer {
		if c.Character.Grapheme == "" || w == 0 {
			continue
		}
		r, cc := row+i/w, col+i%w
		if r < len(grid) && cc < len(grid[r]) {
			grid[r][cc] = c.Character.Grapheme
		}
	}
	for _, child := range s.Children {
		paint(grid, child.Surface, row+child.Origin.Row, col+child.Origin.Col)
	}
}

// screenText renders a flattened surface as lines, blanks as spaces.
func screenText(s vxfw.Surface) []string {
	grid := flatten(s)
	lines := make([]string, len(grid))
	for r, cells := range grid {
		var b strings.Builder
		for _, g := range cells {
			if g == "" {
				g = " "
			}
			b.WriteString(g)
		}
		lines[r] = b.String()
	}
	return lines
}
