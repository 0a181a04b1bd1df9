// Package export renders the dashboard as a static HTML page.
package export

import (
	"errors"
	"fmt"
	"html"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/deevus/blogstats/source"
	"github.com/deevus/blogstats/views"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/valyala/fasttemplate"
)

const errorPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{title}</title>
</head>
<body>
<h1>{title}</h1>
{regions}
</body>
</html>
`

const errorRegion = `<div id="{id}" class="chart-error">{message}</div>
`

var (
	pageTemplate   = fasttemplate.New(errorPage, "{", "}")
	regionTemplate = fasttemplate.New(errorRegion, "{", "}")
)

// HTMLParams holds configuration for creating an HTML renderer.
type HTMLParams struct {
	Regions   []string
	Titles    map[views.Kind]string
	PageTitle string
}

// HTML is a views.Renderer that collects chart series and writes them out as
// one go-echarts page. Charts are built from the stored series when rendered.
type HTML struct {
	titles    map[views.Kind]string
	pageTitle string

	mu      sync.Mutex
	order   []string
	regions map[string]*htmlRegion
}

type htmlRegion struct {
	chart  *htmlChart
	errMsg string
}

type htmlChart struct {
	region string
	kind   views.Kind
	series []source.Point
}

func (c *htmlChart) Region() string { return c.region }

var _ views.Renderer = (*HTML)(nil)

// NewHTML creates an HTML renderer offering the given regions.
func NewHTML(p HTMLParams) *HTML {
	h := &HTML{
		titles:    make(map[views.Kind]string, len(p.Titles)),
		pageTitle: p.PageTitle,
		regions:   make(map[string]*htmlRegion, len(p.Regions)),
	}
	if h.pageTitle == "" {
		h.pageTitle = "Blog Statistics"
	}
	for k, t := range p.Titles {
		h.titles[k] = t
	}
	for _, id := range p.Regions {
		if _, dup := h.regions[id]; dup {
			continue
		}
		h.order = append(h.order, id)
		h.regions[id] = &htmlRegion{}
	}
	return h
}

func (h *HTML) Create(region string, kind views.Kind, initial []source.Point) (views.Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.regions[region]
	if !ok {
		return nil, fmt.Errorf("%w: %q", views.ErrRegionNotFound, region)
	}
	if r.chart != nil {
		return nil, fmt.Errorf("region %q already holds a chart", region)
	}
	r.chart = &htmlChart{region: region, kind: kind, series: slices.Clone(initial)}
	return r.chart, nil
}

func (h *HTML) Update(handle views.Handle, series []source.Point) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := handle.(*htmlChart)
	if !ok || c == nil {
		return errors.New("handle was not created by this renderer")
	}
	r, ok := h.regions[c.region]
	if !ok || r.chart != c {
		return errors.New("handle was not created by this renderer")
	}
	c.series = slices.Clone(series)
	r.errMsg = ""
	return nil
}

func (h *HTML) ShowError(region, message string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.regions[region]
	if !ok {
		return fmt.Errorf("%w: %q", views.ErrRegionNotFound, region)
	}
	r.errMsg = message
	return nil
}

// Failed reports whether any region shows an error.
func (h *HTML) Failed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.regions {
		if r.errMsg != "" {
			return true
		}
	}
	return false
}

// Render writes the page to w. When any region shows an error the page is a
// plain error page listing every region's message, and no chart is drawn.
func (h *HTML) Render(w io.Writer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, id := range h.order {
		if h.regions[id].errMsg != "" {
			return h.renderError(w)
		}
	}

	page := components.NewPage()
	page.PageTitle = h.pageTitle
	for _, id := range h.order {
		c := h.regions[id].chart
		if c == nil {
			continue
		}
		page.AddCharts(h.chart(c))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering charts: %w", err)
	}
	return nil
}

func (h *HTML) renderError(w io.Writer) error {
	var regions strings.Builder
	for _, id := range h.order {
		r := h.regions[id]
		if r.chart == nil {
			continue
		}
		regionTemplate.ExecuteFunc(&regions, func(w io.Writer, tag string) (int, error) {
			switch tag {
			case "id":
				return io.WriteString(w, html.EscapeString(id))
			case "message":
				return io.WriteString(w, html.EscapeString(r.errMsg))
			}
			return 0, nil
		})
	}

	_, err := pageTemplate.ExecuteFunc(w, func(w io.Writer, tag string) (int, error) {
		switch tag {
		case "title":
			return io.WriteString(w, html.EscapeString(h.pageTitle))
		case "regions":
			return io.WriteString(w, regions.String())
		}
		return 0, nil
	})
	if err != nil {
		return fmt.Errorf("rendering error page: %w", err)
	}
	return nil
}

func (h *HTML) title(k views.Kind) string {
	if t, ok := h.titles[k]; ok && t != "" {
		return t
	}
	return k.String()
}

// chart builds the go-echarts chart for one region.
func (h *HTML) chart(c *htmlChart) components.Charter {
	initOpts := charts.WithInitializationOpts(opts.Initialization{ChartID: c.region, Width: "900px", Height: "400px"})
	title := charts.WithTitleOpts(opts.Title{Title: h.title(c.kind)})

	switch c.kind {
	case views.KindTimeSeries:
		data := make([]opts.LineData, len(c.series))
		for i, p := range c.series {
			data[i] = opts.LineData{Value: p.Value}
		}
		line := charts.NewLine()
		line.SetGlobalOptions(initOpts, title)
		line.SetXAxis(source.Labels(c.series)).AddSeries("Page Views", data)
		return line
	case views.KindRanked:
		data := make([]opts.BarData, len(c.series))
		for i, p := range c.series {
			data[i] = opts.BarData{Value: p.Value}
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(initOpts, title)
		bar.SetXAxis(source.Labels(c.series)).AddSeries("Views", data)
		return bar
	default:
		data := make([]opts.PieData, len(c.series))
		for i, p := range c.series {
			data[i] = opts.PieData{Name: p.Label, Value: p.Value}
		}
		pie := charts.NewPie()
		pie.SetGlobalOptions(initOpts, title)
		pie.AddSeries("Visitors", data, charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}))
		return pie
	}
}
