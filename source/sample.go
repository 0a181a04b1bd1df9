package source

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultDateLayout is the time series label layout used when none is set.
const DefaultDateLayout = "2006-01-02"

var (
	samplePosts = []Point{
		{Label: "Post 1", Value: 100},
		{Label: "Post 2", Value: 80},
		{Label: "Post 3", Value: 60},
		{Label: "Post 4", Value: 40},
		{Label: "Post 5", Value: 20},
	}
	sampleLocations = []Point{
		{Label: "China", Value: 50},
		{Label: "US", Value: 30},
		{Label: "Japan", Value: 20},
		{Label: "Germany", Value: 10},
		{Label: "UK", Value: 5},
	}
)

// Sample serves placeholder statistics for running without an analytics backend.
// Daily page views are random in [0, 100); posts and locations are fixed.
type Sample struct {
	mu     sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
	layout string
	loc    *time.Location
}

// NewSample creates a Sample. A zero seed picks a random one.
func NewSample(seed uint64) *Sample {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Sample{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:    time.Now,
		layout: DefaultDateLayout,
		loc:    time.Local,
	}
}

// WithClock overrides the clock used for time series labels.
func (s *Sample) WithClock(now func() time.Time) *Sample {
	s.now = now
	return s
}

// WithLabels sets the layout and location of time series labels. An empty
// layout or nil location keeps the current one.
func (s *Sample) WithLabels(layout string, loc *time.Location) *Sample {
	if layout != "" {
		s.layout = layout
	}
	if loc != nil {
		s.loc = loc
	}
	return s
}

func (s *Sample) TimeSeries(ctx context.Context, windowDays int) ([]Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable("sample time series", err)
	}
	if windowDays < 0 {
		return nil, Unavailable("sample time series", fmt.Errorf("negative window %d", windowDays))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	days := dayLabels(s.now(), s.loc, windowDays, s.layout)
	pts := make([]Point, windowDays)
	for i := range pts {
		pts[i] = Point{Label: days[i], Value: float64(s.rng.IntN(100))}
	}
	return pts, nil
}

// dayLabels formats the n calendar days ending on the day of now in loc,
// oldest first.
func dayLabels(now time.Time, loc *time.Location, n int, layout string) []string {
	t := now.In(loc)
	// Noon keeps AddDate clear of DST transitions at midnight.
	today := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
	out := make([]string, 0, max(n, 0))
	for i := n - 1; i >= 0; i-- {
		out = append(out, today.AddDate(0, 0, -i).Format(layout))
	}
	return out
}

func (s *Sample) Ranked(ctx context.Context, limit int) ([]Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable("sample ranked", err)
	}
	n := max(0, min(limit, len(samplePosts)))
	return append([]Point(nil), samplePosts[:n]...), nil
}

func (s *Sample) CategoricalShare(ctx context.Context) ([]Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable("sample share", err)
	}
	return append([]Point(nil), sampleLocations...), nil
}
