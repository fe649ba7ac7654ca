package hatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/polyline"
)

// relativeTolerance scales the boundary diagonal into the loop tolerance.
const relativeTolerance = 1e-3

// Option configures a Reconstructor.
type Option func(*options)

type options struct {
	tolerance float64
	onDrop    func(loop int, err error)
}

func defaultOptions() options {
	return options{}
}

// WithTolerance overrides the loop tolerance derived from the boundary
// extent.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithDropHook registers a function called for every loop BuildRegion
// leaves out.
func WithDropHook(fn func(loop int, err error)) Option {
	return func(o *options) {
		o.onDrop = fn
	}
}

// Reconstructor turns the boundary loops of a hatch into closed,
// consistently oriented paths.
type Reconstructor struct {
	hatch  *Hatch
	tol    float64
	toWCS  dwgdraw.Transform
	onDrop func(loop int, err error)
}

// New creates a reconstructor for h. The tolerance is 0.1% of the
// boundary diagonal unless WithTolerance is given.
func New(h *Hatch, opts ...Option) *Reconstructor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	tol := o.tolerance
	if tol <= 0 {
		r := h.Range
		if r.IsEmpty() || r.Diagonal() == 0 {
			r = h.loopsRange()
		}
		tol = math.Max(r.Diagonal()*relativeTolerance, 1e-10)
	}

	normal := h.Normal
	if normal.IsZero() || normal.IsNaN() {
		normal = dwgdraw.UnitZ
	}
	toWCS := dwgdraw.ArbitraryAxis(normal).
		Multiply(dwgdraw.Translation(dwgdraw.V3(0, 0, h.Elevation)))

	return &Reconstructor{
		hatch:  h,
		tol:    tol,
		toWCS:  toWCS,
		onDrop: o.onDrop,
	}
}

// Tolerance returns the distance below which points are coincident.
func (r *Reconstructor) Tolerance() float64 { return r.tol }

// BoundaryType classifies loop i. A loop that is neither external nor
// outermost, or that surrounds text, is a hole. A loop flagged not
// closed is open when the hatch has other loops; a lone loop is closed
// regardless.
func (r *Reconstructor) BoundaryType(i int) dwgdraw.BoundaryType {
	t := r.hatch.Loops[i].Type
	switch {
	case t.Has(LoopNotClosed) && len(r.hatch.Loops) > 1:
		return dwgdraw.BoundaryOpen
	case t.Has(LoopTextbox):
		return dwgdraw.BoundaryInner
	case !t.Has(LoopExternal) && !t.Has(LoopOutermost):
		return dwgdraw.BoundaryInner
	default:
		return dwgdraw.BoundaryOuter
	}
}

// skipped reports whether the fill style excludes loop i.
func (r *Reconstructor) skipped(i int) bool {
	t := r.hatch.Loops[i].Type
	if !t.Has(LoopNotClosed) {
		return false
	}
	switch r.hatch.Style {
	case StyleOuter:
		return !t.Has(LoopOutermost)
	case StyleIgnore:
		return true
	default:
		return false
	}
}

// BuildLoopPath builds loop i in world coordinates. It returns
// ErrSkipLoop when the fill style excludes the loop and
// ErrDegenerateLoop when nothing of it remains.
func (r *Reconstructor) BuildLoopPath(i int) (*dwgdraw.CurveVector, error) {
	if i < 0 || i >= len(r.hatch.Loops) {
		return nil, fmt.Errorf("loop %d of %d: %w", i, len(r.hatch.Loops), ErrInvalidLoop)
	}
	if r.skipped(i) {
		return nil, ErrSkipLoop
	}

	loop := &r.hatch.Loops[i]
	boundary := r.BoundaryType(i)

	var (
		path *dwgdraw.CurveVector
		err  error
	)
	switch {
	case loop.IsPolyline():
		path, err = r.polylinePath(loop, boundary)
	case len(loop.Edges) > 0:
		path, err = r.edgePath(loop, boundary)
	default:
		err = ErrInvalidLoop
	}
	if err != nil {
		return nil, err
	}

	path.Transform(r.toWCS)
	if r.hatch.Gradient && boundary.IsClosed() {
		r.orient(path)
	}
	return path, nil
}

// polylinePath builds a vertex encoded loop.
func (r *Reconstructor) polylinePath(loop *Loop, boundary dwgdraw.BoundaryType) (*dwgdraw.CurveVector, error) {
	if len(loop.Points) < 2 {
		return nil, ErrInvalidLoop
	}
	m := polyline.FromVertices(loop.Points, loop.Bulges, boundary != dwgdraw.BoundaryOpen)
	path := polyline.BuildCurveGeometry(m, false)
	if path == nil || path.IsDegenerate(r.tol) {
		return nil, ErrDegenerateLoop
	}
	path.Boundary = boundary
	return path, nil
}

// edgePath builds an edge encoded loop.
func (r *Reconstructor) edgePath(loop *Loop, boundary dwgdraw.BoundaryType) (*dwgdraw.CurveVector, error) {
	closed := boundary != dwgdraw.BoundaryOpen
	edges := r.cleanEdges(loop.Edges, closed)
	if len(edges) == 0 {
		return nil, ErrDegenerateLoop
	}
	if r.hasGap(edges, closed) {
		edges = r.closeGapsShortest(edges, closed)
	}

	path := dwgdraw.NewCurveVector(boundary)
	for _, e := range edges {
		path.Append(e)
	}
	if path.IsDegenerate(r.tol) {
		return nil, ErrDegenerateLoop
	}
	return path, nil
}

// orient reverses a loop whose area normal opposes the hatch normal.
func (r *Reconstructor) orient(path *dwgdraw.CurveVector) {
	normal := r.toWCS.ColumnZ()
	if path.AreaNormal().Dot(normal) < 0 {
		path.Reverse()
	}
}

// BuildRegion assembles all usable loops into a parity region. Loops
// that cannot be used are logged and left out; ErrNoUsableLoops is
// returned when none remain.
func (r *Reconstructor) BuildRegion() (*dwgdraw.CurveVector, error) {
	region := dwgdraw.NewCurveVector(dwgdraw.BoundaryParityRegion)
	for i := range r.hatch.Loops {
		path, err := r.BuildLoopPath(i)
		if err == nil && !path.Boundary.IsClosed() {
			err = fmt.Errorf("loop %d is open: %w", i, ErrSkipLoop)
		}
		if err != nil {
			level := slog.LevelWarn
			if errors.Is(err, ErrSkipLoop) {
				level = slog.LevelDebug
			}
			dwgdraw.Logger().Log(context.Background(), level, "hatch: dropping loop",
				"loop", i, "type", uint32(r.hatch.Loops[i].Type), "err", err)
			if r.onDrop != nil {
				r.onDrop(i, err)
			}
			continue
		}
		region.AddLoop(path)
	}
	if len(region.Loops) == 0 {
		return nil, ErrNoUsableLoops
	}
	return region, nil
}
