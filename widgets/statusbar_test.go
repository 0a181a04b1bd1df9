package widgets_test

import (
	"strings"
	"testing"

	"git.sr.ht/~rockorager/vaxis"
	"github.com/deevus/blogstats/widgets"
)

func TestStatusBar_New(t *testing.T) {
	sb := widgets.NewStatusBar(widgets.StatusItem{Text: "q quit"}, widgets.StatusItem{Text: "r refresh"})
	if len(sb.Items()) != 2 {
		t.Errorf("expected 2 items, got %d", len(sb.Items()))
	}
}

func TestStatusBar_SetItems(t *testing.T) {
	sb := widgets.NewStatusBar()
	sb.SetItems(widgets.StatusItem{Text: "ready"})
	if len(sb.Items()) != 1 || sb.Items()[0].Text != "ready" {
		t.Errorf("unexpected items %+v", sb.Items())
	}
}

func TestStatusBar_Draw(t *testing.T) {
	bold := vaxis.Style{Attribute: vaxis.AttrBold}
	sb := widgets.NewStatusBar(
		widgets.StatusItem{Text: "q quit"},
		widgets.StatusItem{Text: "ready", Style: bold},
	)

	s, err := sb.Draw(testDrawContext(40, 1))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if s.Size.Height != 1 {
		t.Errorf("expected height=1, got %d", s.Size.Height)
	}
	if got := strings.TrimRight(rowText(s, 0), " "); got != " q quit |  ready" {
		t.Errorf("unexpected row %q", got)
	}
	// "ready" starts after " q quit" (7) + " | " (3) + " " (1).
	if s.Buffer[11].Style != bold {
		t.Errorf("expected bold style on the second segment")
	}
}

func TestStatusBar_Draw_Truncates(t *testing.T) {
	sb := widgets.NewStatusBar(widgets.StatusItem{Text: "a very long status message"})
	s, err := sb.Draw(testDrawContext(10, 1))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if got := rowText(s, 0); got != " a very lo" {
		t.Errorf("unexpected row %q", got)
	}
}
