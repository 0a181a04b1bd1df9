package widgets_test

import (
	"testing"

	"git.sr.ht/~rockorager/vaxis"
	"github.com/deevus/blogstats/widgets"
)

func TestTable_Draw_AlignedColumns(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 10},
			{Width: 6, AlignRight: true},
			{Width: 8, AlignRight: true},
		},
		Header: []string{"COUNTRY", "SHARE", "VIEWS"},
		Rows: [][]string{
			{"China", "43.5%", "50"},
			{"US", "26.1%", "30"},
		},
		Gap: 2,
	}

	ctx := testDrawContext(40, 10)
	surf, err := tbl.Draw(ctx)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// header + 2 data rows
	if surf.Size.Height != 3 {
		t.Fatalf("expected height=3, got %d", surf.Size.Height)
	}

	if g := cellText(surf.Buffer[0]); g != "C" {
		t.Errorf("header col 0: expected 'C', got %q", g)
	}

	// "SHARE" is right-aligned in width 6 starting at col 12 (10+2 gap), so col 13.
	if g := cellText(surf.Buffer[13]); g != "S" {
		t.Errorf("header SHARE col 13: expected 'S', got %q", g)
	}

	// Row 1 starts at offset 40.
	if g := cellText(surf.Buffer[40]); g != "C" {
		t.Errorf("row1 col 0: expected 'C', got %q", g)
	}
	// "43.5%" is 5 chars right-aligned in 6, col 13.
	if g := cellText(surf.Buffer[40+13]); g != "4" {
		t.Errorf("row1 share col 13: expected '4', got %q", g)
	}
	if g := cellText(surf.Buffer[80+13]); g != "2" {
		t.Errorf("row2 share col 13: expected '2', got %q", g)
	}
}

func TestTable_Draw_NoHeader(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{{Width: 8}, {Width: 6}},
		Rows:    [][]string{{"hello", "world"}},
	}

	surf, err := tbl.Draw(testDrawContext(30, 5))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if surf.Size.Height != 1 {
		t.Errorf("expected height=1 (no header), got %d", surf.Size.Height)
	}
}

func TestTable_Draw_TruncatesLongText(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{{Width: 4}},
		Rows:    [][]string{{"toolongname"}},
	}

	surf, err := tbl.Draw(testDrawContext(20, 5))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if g := cellText(surf.Buffer[3]); g != "l" {
		t.Errorf("col 3: expected 'l', got %q", g)
	}
	if g := cellText(surf.Buffer[4]); g != "" {
		t.Errorf("col 4: expected empty, got %q", g)
	}
}

func TestTable_Draw_FlexColumnFillsWidth(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 0},
			{Width: 4, AlignRight: true},
		},
		Rows: [][]string{{"label", "99"}},
	}

	surf, err := tbl.Draw(testDrawContext(20, 1))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	// flex column is 20-4-1 = 15 wide, value column spans 16..19
	if g := cellText(surf.Buffer[18]); g != "9" {
		t.Errorf("col 18: expected '9', got %q", g)
	}
	if g := cellText(surf.Buffer[19]); g != "9" {
		t.Errorf("col 19: expected '9', got %q", g)
	}
}

func TestTable_Draw_CellStyle(t *testing.T) {
	red := vaxis.Style{Foreground: vaxis.IndexColor(1)}
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{{Width: 3}, {Width: 3}},
		Rows:    [][]string{{"a", "b"}, {"c", "d"}},
		CellStyle: func(row, col int, base vaxis.Style) vaxis.Style {
			if row == 1 && col == 1 {
				return red
			}
			return base
		},
	}

	surf, err := tbl.Draw(testDrawContext(7, 2))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if surf.Buffer[7+4].Style != red {
		t.Errorf("expected styled cell at row 1 col 4")
	}
	if surf.Buffer[4].Style == red {
		t.Errorf("row 0 col 4 should keep the column style")
	}
}
