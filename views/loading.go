package views

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
)

var (
	loadingStyle = vaxis.Style{Attribute: vaxis.AttrDim}
	errorStyle   = vaxis.Style{Foreground: vaxis.IndexColor(1), Attribute: vaxis.AttrBold}
)

// drawMessage renders a one-line message in the top-left of the area.
func drawMessage(ctx vxfw.DrawContext, owner vxfw.Widget, text string, style vaxis.Style) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, owner)
	if ctx.Max.Height == 0 {
		return s, nil
	}
	label := richtext.New([]vaxis.Segment{{Text: text, Style: style}})
	labelSurf, err := label.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, labelSurf)
	return s, nil
}

// drawLoadingState renders a "Loading..." message.
func drawLoadingState(ctx vxfw.DrawContext, owner vxfw.Widget) (vxfw.Surface, error) {
	return drawMessage(ctx, owner, "Loading...", loadingStyle)
}
