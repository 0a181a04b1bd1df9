package app

import (
	"context"
	"fmt"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/blogstats/views"
	"github.com/deevus/blogstats/widgets"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Params holds configuration for creating the root App widget.
type Params struct {
	Dashboard *views.Dashboard
	Canvas    *views.Canvas
	Title     string
	Logger    *zap.Logger
}

// App is the root vxfw widget for blogstats: a title line, the dashboard
// canvas and a status bar.
type App struct {
	dashboard *views.Dashboard
	canvas    *views.Canvas
	title     string
	status    *widgets.StatusBar
	log       *zap.Logger
}

// New creates the root App widget.
func New(p Params) *App {
	a := &App{
		dashboard: p.Dashboard,
		canvas:    p.Canvas,
		title:     p.Title,
		status:    widgets.NewStatusBar(),
		log:       p.Logger,
	}
	if a.title == "" {
		a.title = "Blog Statistics"
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	a.updateStatus()
	return a
}

// Refresh runs one dashboard refresh cycle and updates the status bar.
func (a *App) Refresh(ctx context.Context) views.RefreshResult {
	res := a.dashboard.Refresh(ctx)
	a.updateStatus()
	return res
}

// StatusItems returns the status bar segments, for tests.
func (a *App) StatusItems() []widgets.StatusItem {
	return a.status.Items()
}

var (
	hintStyle  = vaxis.Style{Attribute: vaxis.AttrDim}
	okStyle    = vaxis.Style{Foreground: vaxis.IndexColor(2)}
	errStyle   = vaxis.Style{Foreground: vaxis.IndexColor(1), Attribute: vaxis.AttrBold}
	titleStyle = vaxis.Style{Attribute: vaxis.AttrBold | vaxis.AttrReverse}
)

func (a *App) updateStatus() {
	items := []widgets.StatusItem{
		{Text: "q quit", Style: hintStyle},
		{Text: "r refresh", Style: hintStyle},
	}

	panels := a.dashboard.Panels()
	ready := 0
	for _, p := range panels {
		if p.State == views.StateReady {
			ready++
		}
	}
	switch {
	case len(panels) == 0:
		items = append(items, widgets.StatusItem{Text: "loading"})
	case a.dashboard.LastError() != nil:
		items = append(items, widgets.StatusItem{Text: "refresh failed", Style: errStyle})
	default:
		items = append(items, widgets.StatusItem{Text: fmt.Sprintf("%d/%d ready", ready, len(panels)), Style: okStyle})
	}

	if last := a.dashboard.LastRefresh(); !last.IsZero() {
		items = append(items, widgets.StatusItem{Text: "updated " + humanize.Time(last)})
	}
	a.status.SetItems(items...)
}

// Draw renders the title line, the canvas and the status bar.
func (a *App) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)
	if ctx.Max.Height < 3 {
		return s, nil
	}

	title := richtext.New([]vaxis.Segment{{Text: " " + a.title + " ", Style: titleStyle}})
	titleSurf, err := title.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, titleSurf)

	canvasCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 2})
	canvasSurf, err := a.canvas.Draw(canvasCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, canvasSurf)

	statusSurf, err := a.status.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, int(ctx.Max.Height)-1, statusSurf)

	return s, nil
}

// CaptureEvent handles global keybindings.
func (a *App) CaptureEvent(ev vaxis.Event) (vxfw.Command, error) {
	switch ev := ev.(type) {
	case vaxis.Key:
		switch {
		case ev.Matches('q'):
			return vxfw.QuitCmd{}, nil
		case ev.Matches('r'):
			if res := a.Refresh(context.Background()); !res.OK() {
				a.log.Debug("manual refresh failed", zap.Error(res.Err))
			}
			return vxfw.ConsumeAndRedraw(), nil
		}
	}
	return nil, nil
}
