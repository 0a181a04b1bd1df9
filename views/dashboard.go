package views

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/deevus/blogstats/source"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultWindowDays   = 7
	DefaultTopN         = 5
	DefaultTimeout      = 10 * time.Second
	DefaultDateLayout   = "1/2/2006"
	DefaultErrorMessage = "Failed to load statistics data"
)

// errNotInitialized is reported by Refresh before Initialize has attached the panels.
var errNotInitialized = errors.New("dashboard is not initialized")

// DashboardParams holds configuration for creating a Dashboard.
type DashboardParams struct {
	Source   source.DataSource
	Renderer Renderer
	Regions  Regions

	WindowDays   int           // trailing days on the time-series panel
	TopN         int           // posts on the ranked panel
	Timeout      time.Duration // per query
	DateLayout   string        // time.Format layout for window labels
	Location     *time.Location
	Now          func() time.Time
	ErrorMessage string // shown in every region when a refresh fails

	Logger *zap.Logger
}

// RefreshResult is the outcome of one refresh cycle.
type RefreshResult struct {
	Series   map[Kind][]source.Point // fetched series, only set when Err is nil
	Failures map[Kind]error          // per-panel failures, including cancelled siblings
	Err      error                   // first failure of the cycle
}

// OK reports whether every panel was updated.
func (r RefreshResult) OK() bool {
	return r.Err == nil
}

// Dashboard owns the three statistics panels and runs their refresh cycle.
//
// A cycle either updates every panel or none: when any query fails, every
// region shows the same error message and the charts keep their previous series.
type Dashboard struct {
	source     source.DataSource
	renderer   Renderer
	regions    Regions
	windowDays int
	topN       int
	timeout    time.Duration
	dateLayout string
	loc        *time.Location
	now        func() time.Time
	errMessage string
	log        *zap.Logger

	flight singleflight.Group

	mu          sync.RWMutex
	panels      map[Kind]*Panel
	initialized bool
	lastRefresh time.Time
	lastErr     error
}

// NewDashboard validates p and creates a Dashboard. Panels are not attached
// until Initialize.
func NewDashboard(p DashboardParams) (*Dashboard, error) {
	if p.Source == nil {
		return nil, errors.New("dashboard needs a data source")
	}
	if p.Renderer == nil {
		return nil, errors.New("dashboard needs a renderer")
	}
	if err := p.Regions.validate(); err != nil {
		return nil, err
	}

	d := &Dashboard{
		source:     p.Source,
		renderer:   p.Renderer,
		regions:    make(Regions, len(p.Regions)),
		windowDays: p.WindowDays,
		topN:       p.TopN,
		timeout:    p.Timeout,
		dateLayout: p.DateLayout,
		loc:        p.Location,
		now:        p.Now,
		errMessage: p.ErrorMessage,
		log:        p.Logger,
	}
	for k, id := range p.Regions {
		d.regions[k] = id
	}
	if d.windowDays <= 0 {
		d.windowDays = DefaultWindowDays
	}
	if d.topN <= 0 {
		d.topN = DefaultTopN
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	if d.dateLayout == "" {
		d.dateLayout = DefaultDateLayout
	}
	if d.loc == nil {
		d.loc = time.Local
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.errMessage == "" {
		d.errMessage = DefaultErrorMessage
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	return d, nil
}

// Initialize attaches every panel to its region in the loading state and runs
// the first refresh. It fails only when a panel cannot be attached, with a
// *ConfigurationError. Data failures are shown on the dashboard instead.
func (d *Dashboard) Initialize(ctx context.Context) error {
	if err := d.attach(); err != nil {
		d.log.Error("attaching dashboard panels", zap.Error(err))
		return err
	}
	d.Refresh(ctx)
	return nil
}

func (d *Dashboard) attach() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return errors.New("dashboard is already initialized")
	}

	panels := make(map[Kind]*Panel, len(Kinds))
	for _, k := range Kinds {
		region := d.regions[k]
		initial := d.initialSeries(k)
		h, err := d.renderer.Create(region, k, initial)
		if err != nil {
			return &ConfigurationError{Kind: k, Region: region, Err: err}
		}
		panels[k] = &Panel{Kind: k, Region: region, Handle: h, State: StateLoading, Series: initial}
	}
	d.panels = panels
	d.initialized = true
	return nil
}

// initialSeries is what a panel shows before its first refresh: the window's
// days at zero for the time series, nothing for the others.
func (d *Dashboard) initialSeries(k Kind) []source.Point {
	if k != KindTimeSeries {
		return []source.Point{}
	}
	pts := make([]source.Point, 0, d.windowDays)
	for label := range d.WindowLabels(d.windowDays) {
		pts = append(pts, source.Point{Label: label})
	}
	return pts
}

// WindowLabels yields the last n day labels ending today, oldest first.
func (d *Dashboard) WindowLabels(n int) iter.Seq[string] {
	return WindowLabels(d.now, d.loc, n, d.dateLayout)
}

// Refresh runs one refresh cycle. Calls made while a cycle is in flight wait
// for it and share its result.
func (d *Dashboard) Refresh(ctx context.Context) RefreshResult {
	if !d.Initialized() {
		return RefreshResult{Err: errNotInitialized}
	}
	v, _, _ := d.flight.Do("refresh", func() (any, error) {
		return d.cycle(ctx), nil
	})
	return v.(RefreshResult)
}

type query struct {
	kind  Kind
	op    string
	fetch func(context.Context) ([]source.Point, error)
	check func([]source.Point) error
}

func (d *Dashboard) queries() []query {
	return []query{
		{
			kind: KindTimeSeries,
			op:   "page views",
			fetch: func(ctx context.Context) ([]source.Point, error) {
				return d.source.TimeSeries(ctx, d.windowDays)
			},
			check: func(pts []source.Point) error { return source.ValidateTimeSeries(pts, d.windowDays) },
		},
		{
			kind: KindRanked,
			op:   "popular posts",
			fetch: func(ctx context.Context) ([]source.Point, error) {
				return d.source.Ranked(ctx, d.topN)
			},
			check: func(pts []source.Point) error { return source.ValidateRanked(pts, d.topN) },
		},
		{
			kind:  KindShare,
			op:    "visitor locations",
			fetch: d.source.CategoricalShare,
			check: source.ValidateShare,
		},
	}
}

func (d *Dashboard) cycle(ctx context.Context) RefreshResult {
	start := d.now()
	d.setStates(StateLoading)

	var mu sync.Mutex
	series := make(map[Kind][]source.Point, len(Kinds))
	failures := make(map[Kind]error)

	g, gctx := errgroup.WithContext(ctx)
	for _, q := range d.queries() {
		g.Go(func() error {
			pts, err := d.run(gctx, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[q.kind] = err
				return fmt.Errorf("%s panel: %w", q.kind, err)
			}
			series[q.kind] = pts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		d.fail(err, failures)
		return RefreshResult{Failures: failures, Err: err}
	}

	updated := make([]Kind, 0, len(Kinds))
	for _, k := range Kinds {
		h := d.handle(k)
		if err := d.renderer.Update(h, series[k]); err != nil {
			err = fmt.Errorf("%s panel: update %q: %w", k, h.Region(), err)
			failures[k] = err
			d.rollback(updated)
			d.fail(err, failures)
			return RefreshResult{Failures: failures, Err: err}
		}
		updated = append(updated, k)
	}

	d.mu.Lock()
	for _, k := range Kinds {
		p := d.panels[k]
		p.State = StateReady
		p.Series = series[k]
	}
	d.lastRefresh = d.now()
	d.lastErr = nil
	d.mu.Unlock()

	d.log.Debug("dashboard refreshed",
		zap.Duration("took", d.now().Sub(start)),
		zap.Int("days", len(series[KindTimeSeries])),
		zap.Int("posts", len(series[KindRanked])),
		zap.Int("categories", len(series[KindShare])),
	)
	return RefreshResult{Series: series, Failures: failures}
}

// run performs one query under the per-query timeout and checks its result.
func (d *Dashboard) run(ctx context.Context, q query) ([]source.Point, error) {
	qctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	pts, err := q.fetch(qctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("no answer within %s: %w", d.timeout, err)
		}
		return nil, source.Unavailable(q.op, err)
	}
	if err := q.check(pts); err != nil {
		return nil, err
	}
	return pts, nil
}

// rollback puts the series of the last successful cycle back on the handles
// of kinds already updated in a cycle that then failed.
func (d *Dashboard) rollback(kinds []Kind) {
	for _, k := range kinds {
		d.mu.RLock()
		p := d.panels[k]
		h, prev := p.Handle, p.Series
		d.mu.RUnlock()
		if err := d.renderer.Update(h, prev); err != nil {
			d.log.Warn("restoring previous series", zap.String("region", h.Region()), zap.Error(err))
		}
	}
}

// fail moves every panel to the error state and replaces every region with the
// error message. Handles keep the series of the last successful cycle.
func (d *Dashboard) fail(err error, failures map[Kind]error) {
	d.setStates(StateError)
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()

	failed := make([]string, 0, len(failures))
	for _, k := range Kinds {
		if _, ok := failures[k]; ok {
			failed = append(failed, k.String())
		}
	}
	d.log.Error("refreshing dashboard", zap.Error(err), zap.Strings("failed", failed))

	for _, k := range Kinds {
		region := d.regions[k]
		if serr := d.renderer.ShowError(region, d.errMessage); serr != nil {
			d.log.Warn("showing dashboard error", zap.String("region", region), zap.Error(serr))
		}
	}
}

func (d *Dashboard) setStates(s State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.panels {
		p.State = s
	}
}

func (d *Dashboard) handle(k Kind) Handle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.panels[k].Handle
}

// Initialized reports whether the panels have been attached.
func (d *Dashboard) Initialized() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.initialized
}

// Panel returns a copy of the panel of the given kind.
func (d *Dashboard) Panel(k Kind) (Panel, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.panels[k]
	if !ok {
		return Panel{}, false
	}
	return *p, true
}

// Panels returns copies of every attached panel in display order.
func (d *Dashboard) Panels() []Panel {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Panel, 0, len(d.panels))
	for _, k := range Kinds {
		if p, ok := d.panels[k]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// LastRefresh returns when the last successful cycle finished.
func (d *Dashboard) LastRefresh() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastRefresh
}

// LastError returns the failure of the most recent cycle, or nil.
func (d *Dashboard) LastError() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastErr
}

// Regions returns the region id of every panel kind.
func (d *Dashboard) Regions() Regions {
	out := make(Regions, len(d.regions))
	for k, id := range d.regions {
		out[k] = id
	}
	return out
}
