package views

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/blogstats/source"
	"github.com/deevus/blogstats/widgets"
)

// CanvasParams holds configuration for creating a Canvas.
type CanvasParams struct {
	// Regions are the display regions the canvas offers, top to bottom.
	Regions []string
	// Titles are shown above each chart; missing kinds use the kind name.
	Titles map[Kind]string
}

// Canvas is the terminal Renderer. It stacks its regions vertically and draws
// each attached chart with the widget for its kind.
type Canvas struct {
	titles map[Kind]string

	mu      sync.Mutex
	order   []string
	regions map[string]*region
}

type region struct {
	id     string
	chart  *chart
	errMsg string
}

// chart is the Handle the Canvas hands out.
type chart struct {
	region  string
	kind    Kind
	series  []source.Point
	updated bool // false until the first Update
}

func (c *chart) Region() string { return c.region }

var (
	_ Renderer    = (*Canvas)(nil)
	_ vxfw.Widget = (*Canvas)(nil)
)

// NewCanvas creates a Canvas offering the given regions.
func NewCanvas(p CanvasParams) *Canvas {
	c := &Canvas{
		titles:  make(map[Kind]string, len(p.Titles)),
		regions: make(map[string]*region, len(p.Regions)),
	}
	for k, t := range p.Titles {
		c.titles[k] = t
	}
	for _, id := range p.Regions {
		if _, dup := c.regions[id]; dup {
			continue
		}
		c.order = append(c.order, id)
		c.regions[id] = &region{id: id}
	}
	return c
}

// Create attaches a chart to an offered region.
func (c *Canvas) Create(id string, kind Kind, initial []source.Point) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.regions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRegionNotFound, id)
	}
	if r.chart != nil {
		return nil, fmt.Errorf("region %q already shows a %s chart", id, r.chart.kind)
	}
	r.chart = &chart{region: id, kind: kind, series: slices.Clone(initial)}
	r.errMsg = ""
	return r.chart, nil
}

// Update replaces the chart's series and clears any error shown in its region.
func (c *Canvas) Update(h Handle, series []source.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch, ok := h.(*chart)
	if !ok || ch == nil {
		return errors.New("handle was not created by this canvas")
	}
	r, ok := c.regions[ch.region]
	if !ok || r.chart != ch {
		return errors.New("handle was not created by this canvas")
	}
	ch.series = slices.Clone(series)
	ch.updated = true
	r.errMsg = ""
	return nil
}

// ShowError replaces the region's content with message.
func (c *Canvas) ShowError(id, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.regions[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrRegionNotFound, id)
	}
	r.errMsg = message
	return nil
}

// Series returns a copy of the series shown in region id.
func (c *Canvas) Series(id string) []source.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.regions[id]; ok && r.chart != nil {
		return slices.Clone(r.chart.series)
	}
	return nil
}

// ErrorMessage returns the error shown in region id, or "".
func (c *Canvas) ErrorMessage(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.regions[id]; ok {
		return r.errMsg
	}
	return ""
}

func (c *Canvas) title(k Kind) string {
	if t, ok := c.titles[k]; ok && t != "" {
		return t
	}
	return k.String()
}

// regionView is a snapshot of one region taken under the lock for drawing.
type regionView struct {
	title   string
	kind    Kind
	series  []source.Point
	updated bool
	errMsg  string
}

func (c *Canvas) snapshot() []regionView {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]regionView, 0, len(c.order))
	for _, id := range c.order {
		r := c.regions[id]
		if r.chart == nil {
			continue
		}
		out = append(out, regionView{
			title:   c.title(r.chart.kind),
			kind:    r.chart.kind,
			series:  slices.Clone(r.chart.series),
			updated: r.chart.updated,
			errMsg:  r.errMsg,
		})
	}
	return out
}

// Draw stacks every attached region, splitting the height evenly. Each region
// is a title row followed by its chart, error or loading message.
func (c *Canvas) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, c)
	views := c.snapshot()
	if len(views) == 0 {
		return s, nil
	}

	total := int(ctx.Max.Height)
	each := total / len(views)
	row := 0
	for i, v := range views {
		h := each
		if i == len(views)-1 {
			h = total - row
		}
		if h <= 0 {
			break
		}
		surf, err := c.drawRegion(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(h)}), v)
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, surf)
		row += h
	}
	return s, nil
}

func (c *Canvas) drawRegion(ctx vxfw.DrawContext, v regionView) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, c)

	title := richtext.New([]vaxis.Segment{
		{Text: " " + v.title, Style: vaxis.Style{Attribute: vaxis.AttrBold}},
	})
	titleSurf, err := title.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, titleSurf)

	if ctx.Max.Height < 2 {
		return s, nil
	}
	bodyCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 1})

	var body vxfw.Surface
	switch {
	case v.errMsg != "":
		body, err = drawMessage(bodyCtx, c, " "+v.errMsg, errorStyle)
	case !v.updated && v.kind != KindTimeSeries:
		body, err = drawLoadingState(bodyCtx, c)
	default:
		body, err = chartWidget(v).Draw(bodyCtx)
	}
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, body)
	return s, nil
}

// chartWidget picks the widget that draws a region's kind.
func chartWidget(v regionView) vxfw.Widget {
	switch v.kind {
	case KindTimeSeries:
		sl := widgets.NewSparkline()
		sl.SetSeries(source.Labels(v.series), source.Values(v.series))
		return sl
	case KindRanked:
		return &widgets.BarChart{Bars: toBars(v.series)}
	default:
		return &widgets.ShareChart{Slices: toBars(v.series)}
	}
}

func toBars(pts []source.Point) []widgets.Bar {
	bars := make([]widgets.Bar, len(pts))
	for i, p := range pts {
		bars[i] = widgets.Bar{Label: p.Label, Value: p.Value}
	}
	return bars
}
