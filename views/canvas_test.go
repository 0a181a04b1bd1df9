package views_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/deevus/blogstats/source"
	"github.com/deevus/blogstats/views"
)

func newTestCanvas() *views.Canvas {
	return views.NewCanvas(views.CanvasParams{
		Regions: []string{"pageViewsChart", "popularPostsChart", "visitorLocationChart"},
		Titles: map[views.Kind]string{
			views.KindTimeSeries: "Daily Page Views",
			views.KindRanked:     "Most Popular Posts",
			views.KindShare:      "Visitor Locations",
		},
	})
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if strings.Contains(l, want) {
			return true
		}
	}
	return false
}

func TestCanvas_CreateUnknownRegion(t *testing.T) {
	c := newTestCanvas()
	_, err := c.Create("nowhere", views.KindRanked, nil)
	if !errors.Is(err, views.ErrRegionNotFound) {
		t.Errorf("expected ErrRegionNotFound, got %v", err)
	}
}

func TestCanvas_CreateTwice(t *testing.T) {
	c := newTestCanvas()
	if _, err := c.Create("popularPostsChart", views.KindRanked, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Create("popularPostsChart", views.KindShare, nil); err == nil {
		t.Error("expected error attaching a second chart")
	}
}

func TestCanvas_UpdateCopiesSeries(t *testing.T) {
	c := newTestCanvas()
	h, err := c.Create("popularPostsChart", views.KindRanked, []source.Point{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Region() != "popularPostsChart" {
		t.Errorf("unexpected region %q", h.Region())
	}

	pts := []source.Point{{Label: "Post 1", Value: 100}, {Label: "Post 2", Value: 80}}
	if err := c.Update(h, pts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pts[0].Value = 1
	got := c.Series("popularPostsChart")
	if got[0].Value != 100 {
		t.Error("canvas should hold its own copy of the series")
	}

	// Same series again leaves the chart unchanged.
	if err := c.Update(h, got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(c.Series("popularPostsChart"), got) {
		t.Error("repeated update changed the series")
	}
}

func TestCanvas_UpdateForeignHandle(t *testing.T) {
	c := newTestCanvas()
	other := newTestCanvas()
	h, err := other.Create("popularPostsChart", views.KindRanked, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Update(h, nil); err == nil {
		t.Error("expected error for a handle from another canvas")
	}
	if err := c.Update(&recHandle{region: "popularPostsChart"}, nil); err == nil {
		t.Error("expected error for a foreign handle type")
	}
}

func TestCanvas_ShowErrorAndClear(t *testing.T) {
	c := newTestCanvas()
	h, _ := c.Create("visitorLocationChart", views.KindShare, nil)

	if err := c.ShowError("visitorLocationChart", "Failed to load statistics data"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.ErrorMessage("visitorLocationChart"); got != "Failed to load statistics data" {
		t.Errorf("unexpected message %q", got)
	}
	if err := c.ShowError("nowhere", "x"); !errors.Is(err, views.ErrRegionNotFound) {
		t.Errorf("expected ErrRegionNotFound, got %v", err)
	}

	if err := c.Update(h, []source.Point{{Label: "US", Value: 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.ErrorMessage("visitorLocationChart"); got != "" {
		t.Errorf("expected error cleared by update, got %q", got)
	}
}

func TestCanvas_DrawEmpty(t *testing.T) {
	c := newTestCanvas()
	s, err := c.Draw(testDrawContext(60, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Width != 60 || s.Size.Height != 12 {
		t.Errorf("unexpected size %dx%d", s.Size.Width, s.Size.Height)
	}
	if len(s.Children) != 0 {
		t.Errorf("expected nothing drawn, got %d children", len(s.Children))
	}
}

func TestCanvas_DrawLoadingThenData(t *testing.T) {
	c := newTestCanvas()
	h, _ := c.Create("popularPostsChart", views.KindRanked, []source.Point{})

	s, err := c.Draw(testDrawContext(60, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := screenText(s)
	if !containsLine(lines, "Most Popular Posts") {
		t.Errorf("expected title, got %q", lines)
	}
	if !containsLine(lines, "Loading...") {
		t.Errorf("expected loading message, got %q", lines)
	}

	_ = c.Update(h, []source.Point{{Label: "Post 1", Value: 100}, {Label: "Post 2", Value: 80}})
	s, err = c.Draw(testDrawContext(60, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines = screenText(s)
	if containsLine(lines, "Loading...") {
		t.Error("loading message should be gone after update")
	}
	if !containsLine(lines, "Post 1") || !containsLine(lines, "Post 2") {
		t.Errorf("expected bars, got %q", lines)
	}
}

func TestCanvas_DrawError(t *testing.T) {
	c := newTestCanvas()
	_, _ = c.Create("pageViewsChart", views.KindTimeSeries, []source.Point{{Label: "3/10/2024"}})
	_, _ = c.Create("visitorLocationChart", views.KindShare, []source.Point{})
	_ = c.ShowError("pageViewsChart", "Failed to load statistics data")
	_ = c.ShowError("visitorLocationChart", "Failed to load statistics data")

	s, err := c.Draw(testDrawContext(60, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := 0
	for _, l := range screenText(s) {
		if strings.Contains(l, "Failed to load statistics data") {
			n++
		}
	}
	if n != 2 {
		t.Errorf("expected the error in both regions, found %d", n)
	}
}
