package gui

import (
	"math"
	"strings"

	"github.com/thiagokokada/loggraph/internal/graph"
	"github.com/thiagokokada/loggraph/internal/gui/tkutil"
	"github.com/thiagokokada/loggraph/internal/layout"
	"github.com/thiagokokada/loggraph/internal/paint"

	. "modernc.org/tk9.0"
)

const (
	labelGap      = 8
	labelFont     = "TkDefaultFont 10"
	overscanRows  = 5
	minGraphWidth = 3
)

type canvasState struct {
	redrawPending bool
	// hovered is the fragment highlighted under the pointer.
	hovered *graph.Fragment
}

// tkSurface draws paint primitives on a Tk canvas, offset by a row top.
type tkSurface struct {
	path string
	top  float64
}

func (s *tkSurface) Line(from, to paint.Point, stroke paint.Stroke) {
	dash := ""
	if stroke.Dashed {
		dash = " -dash {4 4}"
	}
	tkutil.EvalOrEmpty("%s create line %.2f %.2f %.2f %.2f -fill %s -width %.2f -capstyle round%s",
		s.path, from.X, from.Y+s.top, to.X, to.Y+s.top, stroke.Color, stroke.Width, dash)
}

func (s *tkSurface) Circle(center paint.Point, radius float64, fill string) {
	tkutil.EvalOrEmpty("%s create oval %.2f %.2f %.2f %.2f -fill %s -outline {}",
		s.path, center.X-radius, center.Y+s.top-radius, center.X+radius, center.Y+s.top+radius, fill)
}

func (a *Controller) scheduleRedraw() {
	if a.canvas.redrawPending {
		return
	}
	a.canvas.redrawPending = true
	PostEvent(func() {
		a.canvas.redrawPending = false
		a.redrawGraph()
	}, false)
}

// redrawGraph repaints the rows currently scrolled into view.
func (a *Controller) redrawGraph() {
	canvas := a.ui.graph
	sess := a.data.sess
	if canvas == nil || sess == nil {
		return
	}
	path := canvas.String()
	canvas.Delete("all")

	h := a.painter.RowHeight
	rows := sess.RowCount()
	var graphWidth float64
	sess.View(func(_ *graph.Graph, l *layout.Layout) {
		graphWidth = paint.ElementWidth(h) * float64(max(minGraphWidth, l.MaxWidth()))
	})
	width := max(tkutil.Atof(tkutil.EvalOrEmpty("winfo width %s", path)), graphWidth+400)
	tkutil.EvalOrEmpty("%s configure -scrollregion {0 0 %.0f %.0f}", path, width, h*float64(rows))

	top := tkutil.Atof(tkutil.EvalOrEmpty("%s canvasy 0", path))
	height := tkutil.Atof(tkutil.EvalOrEmpty("winfo height %s", path))
	first, last := visibleRows(top, height, h, rows)

	surface := &tkSurface{path: path}
	for row := first; row < last; row++ {
		surface.top = h * float64(row)
		a.painter.Paint(surface, sess.PrintElements(row))
		n, err := sess.NodeAt(row)
		if err != nil {
			continue
		}
		a.drawLabel(path, graphWidth+labelGap, surface.top+h/2, n.Hash)
	}
}

func (a *Controller) drawLabel(path string, x, y float64, hash string) {
	text := rowLabel(hash, a.data.history.Subject(hash), a.data.labels[hash])
	tkutil.EvalOrEmpty("%s create text %.2f %.2f -anchor w -font {%s} -fill %s -text %s",
		path, x, y, labelFont, a.theme.palette.Foreground, tkutil.Quote(text))
}

// rowLabel is the text next to a commit: abbreviated hash, subject and
// decorations.
func rowLabel(hash, subject string, labels []string) string {
	short := hash
	if len(short) > 8 {
		short = short[:8]
	}
	text := short + "  " + subject
	if len(labels) > 0 {
		text += "  [" + strings.Join(labels, ", ") + "]"
	}
	return text
}

// visibleRows returns the half-open row range intersecting [top, top+height)
// plus a few rows of overscan, clamped to [0, rows).
func visibleRows(top, height, rowHeight float64, rows int) (int, int) {
	if rows == 0 || rowHeight <= 0 {
		return 0, 0
	}
	if height <= 1 {
		return 0, rows
	}
	first := int(math.Floor(top/rowHeight)) - overscanRows
	last := int(math.Ceil((top+height)/rowHeight)) + overscanRows
	return max(0, first), min(rows, max(0, last))
}

// rowAt splits a canvas y coordinate into a row index and the row-local y.
func rowAt(y, rowHeight float64) (int, float64) {
	if y < 0 || rowHeight <= 0 {
		return -1, 0
	}
	row := int(y / rowHeight)
	return row, y - float64(row)*rowHeight
}

// elementAt returns the print element under the canvas point, or nil.
func (a *Controller) elementAt(x, y float64) layout.Element {
	sess := a.data.sess
	if sess == nil {
		return nil
	}
	row, localY := rowAt(y, a.painter.RowHeight)
	if row < 0 || row >= sess.RowCount() {
		return nil
	}
	return a.painter.ElementUnderCursor(sess.PrintElements(row), x, localY)
}

func (a *Controller) canvasPoint(e *Event) (float64, float64) {
	path := a.ui.graph.String()
	x := tkutil.Atof(tkutil.EvalOrEmpty("%s canvasx %d", path, e.X))
	y := tkutil.Atof(tkutil.EvalOrEmpty("%s canvasy %d", path, e.Y))
	return x, y
}

func (a *Controller) onCanvasClick(e *Event) {
	if e == nil || a.data.sess == nil {
		return
	}
	el := a.elementAt(a.canvasPoint(e))
	if el == nil {
		return
	}
	a.canvas.hovered = nil
	a.data.sess.Select(nil)
	a.reportToggle(a.data.sess.ToggleAt(el))
	a.redrawGraph()
}

// onCanvasMotion highlights the fragment a click would toggle.
func (a *Controller) onCanvasMotion(e *Event) {
	sess := a.data.sess
	if e == nil || sess == nil {
		return
	}
	f := a.fragmentFor(a.elementAt(a.canvasPoint(e)))
	if f == a.canvas.hovered {
		return
	}
	a.canvas.hovered = f
	sess.Select(f)
	a.scheduleRedraw()
}

func (a *Controller) fragmentFor(el layout.Element) *graph.Fragment {
	if el == nil {
		return nil
	}
	f, err := a.data.sess.FragmentAt(el)
	if err != nil {
		return nil
	}
	return f
}

func (a *Controller) clearHover() {
	if a.data.sess == nil || a.canvas.hovered == nil {
		return
	}
	a.canvas.hovered = nil
	a.data.sess.Select(nil)
	a.scheduleRedraw()
}

func (a *Controller) scrollGraph(delta int, unit string) {
	if a.ui.graph == nil || delta == 0 {
		return
	}
	if _, err := tkutil.Eval("%s yview scroll %d %s", a.ui.graph, delta, unit); err != nil {
		return
	}
	a.scheduleRedraw()
}

func (a *Controller) scrollGraphTo(fraction float64) {
	if a.ui.graph == nil {
		return
	}
	tkutil.EvalOrEmpty("%s yview moveto %g", a.ui.graph, fraction)
	a.scheduleRedraw()
}
