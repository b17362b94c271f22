package term

import (
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/petrijr/pointer/pkg/api"
	"github.com/petrijr/pointer/pkg/surface/memdoc"
)

// ActorAttribute marks nodes that are drawn as pointer glyphs.
const ActorAttribute = "data-pointer-id"

var (
	styleElement = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleLink    = tcell.StyleDefault.Foreground(tcell.ColorAqua).Underline(true)
	styleOverlay = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	styleTitle   = styleOverlay.Bold(true)
	styleActor   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	stylePulse   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

const (
	actorGlyph  = '➤'
	activeGlyph = '●'
)

// Draw renders the document onto the screen and shows it.
func (s *Surface) Draw() {
	now := s.opts.Now()
	vp := s.Viewport()
	views := s.Snapshot()

	s.screen.Clear()
	var actors, overlays []memdoc.NodeView
	for _, v := range views {
		if v.State&api.StateHidden != 0 {
			continue
		}
		if _, ok := v.Attrs[ActorAttribute]; ok {
			actors = append(actors, v)
			continue
		}
		s.drawElement(v, vp)
		if v.Overlay != nil && v.OverlayShown {
			overlays = append(overlays, v)
		}
	}
	for _, v := range actors {
		if v.State&api.StateVisible == 0 {
			continue
		}
		if v.Overlay != nil && v.OverlayShown {
			overlays = append(overlays, v)
		}
		s.drawActor(v, vp, now)
	}
	for _, v := range overlays {
		s.drawOverlay(v, vp)
	}
	s.screen.Show()
}

func cell(v float64) int {
	if v < 0 {
		return int(v) - 1
	}
	return int(v)
}

func (s *Surface) drawElement(v memdoc.NodeView, vp api.Rect) {
	x0, y0 := cell(v.Rect.Left-vp.Left), cell(v.Rect.Top-vp.Top)
	w, h := int(v.Rect.Width), int(v.Rect.Height)

	style := styleElement
	if v.Tag == "a" {
		style = styleLink
	} else {
		for dy := 0; dy < h; dy++ {
			for dx := 0; dx < w; dx++ {
				s.screen.SetContent(x0+dx, y0+dy, ' ', nil, style)
			}
		}
	}
	if v.Content != "" {
		s.drawText(x0, y0+h/2, w, stripTags(v.Content), style)
	}
}

func (s *Surface) drawActor(v memdoc.NodeView, vp api.Rect, now time.Time) {
	x, y := cell(v.Rect.Left-vp.Left), cell(v.Rect.Top-vp.Top)

	glyph, style := actorGlyph, styleActor
	if v.State&api.StatePulsing != 0 && (now.UnixNano()/int64(s.opts.PulsePeriod))%2 == 0 {
		style = stylePulse
	}
	if v.State&api.StateActive != 0 {
		glyph = activeGlyph
		style = style.Reverse(true)
	}
	s.screen.SetContent(x, y, glyph, nil, style)
}

// drawOverlay puts the annotation on the row above the node, or below when
// the node sits on the first row.
func (s *Surface) drawOverlay(v memdoc.NodeView, vp api.Rect) {
	x := cell(v.Rect.Left - vp.Left)
	y := cell(v.Rect.Top-vp.Top) - 1
	if v.Overlay.Placement == "bottom" || y < 0 {
		y = cell(v.Rect.Top-vp.Top) + max(int(v.Rect.Height), 1)
	}

	sw, _ := s.screen.Size()
	x += s.drawText(x, y, sw-x, overlayTitle(v.Overlay), styleTitle)
	s.drawText(x, y, sw-x, " "+stripTags(v.Overlay.Content)+" ", styleOverlay)
}

func overlayTitle(o *api.Overlay) string {
	if o.Title == "" {
		return ""
	}
	return " " + o.Title + ":"
}

// stripTags drops markup from HTML overlay content.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// drawText writes s from (x, y), clipped to width cells, and returns the
// number of cells used.
func (s *Surface) drawText(x, y, width int, text string, style tcell.Style) int {
	used := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if used+rw > width {
			break
		}
		s.screen.SetContent(x+used, y, r, nil, style)
		used += rw
	}
	return used
}
