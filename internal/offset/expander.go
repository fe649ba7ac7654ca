package offset

import (
	"math"

	"github.com/gogpu/dwgdraw"
)

// Segment is a straight segment in the XY plane.
type Segment struct {
	P0, P1 dwgdraw.Point3
}

// Side selects which side of a segment an offset is taken on, relative
// to the segment direction.
type Side int

const (
	Right Side = iota
	Left
)

// OffsetSegment offsets the segment p0→p1 by half of w0 at the start and
// half of w1 at the end. It reports false for a zero-length segment.
func OffsetSegment(p0, p1 dwgdraw.Point3, w0, w1 float64, side Side) (Segment, bool) {
	tangent := p1.Sub(p0)
	tangent.Z = 0
	length := tangent.Length()
	if length == 0 {
		return Segment{}, false
	}
	norm := tangent.PerpXY().Mul(1 / length)
	if side == Right {
		norm = norm.Neg()
	}
	return Segment{
		P0: p0.AddScaled(norm, 0.5*w0),
		P1: p1.AddScaled(norm, 0.5*w1),
	}, true
}

// Intersect returns the intersection of the infinite lines through a and
// b. It reports false when the lines are parallel.
func Intersect(a, b Segment) (dwgdraw.Point3, bool) {
	ab := a.P1.Sub(a.P0)
	cd := b.P1.Sub(b.P0)
	cross := ab.CrossXY(cd)
	if math.Abs(cross) <= 1e-12*math.Max(1, ab.Length()*cd.Length()) {
		return dwgdraw.Point3{}, false
	}
	t := b.P0.Sub(a.P0).CrossXY(cd) / cross
	p := a.P0.AddScaled(ab, t)
	p.Z = a.P1.Z
	return p, true
}

// Expander converts a variable-width polyline to a closed outline.
type Expander struct {
	forward  []dwgdraw.Point3
	backward []dwgdraw.Point3
	output   []dwgdraw.Point3

	lastRight Segment
	lastLeft  Segment
	started   bool
}

// NewExpander creates an expander.
func NewExpander() *Expander {
	return &Expander{}
}

// Expand returns the outline of an open polyline. widths[i] holds the
// start and end width of the segment that starts at points[i]. The
// result is a closed ring: the last point repeats the first. Nil is
// returned when fewer than two distinct points remain.
func (e *Expander) Expand(points []dwgdraw.Point3, widths [][2]float64) []dwgdraw.Point3 {
	e.reset()

	for i := 0; i+1 < len(points); i++ {
		var w [2]float64
		if i < len(widths) {
			w = widths[i]
		}
		right, ok := OffsetSegment(points[i], points[i+1], w[0], w[1], Right)
		if !ok {
			continue
		}
		left, _ := OffsetSegment(points[i], points[i+1], w[0], w[1], Left)
		e.doSegment(right, left)
	}
	if !e.started {
		return nil
	}
	e.finish()
	return e.output
}

func (e *Expander) reset() {
	e.forward = e.forward[:0]
	e.backward = e.backward[:0]
	e.output = nil
	e.lastRight = Segment{}
	e.lastLeft = Segment{}
	e.started = false
}

// doSegment extends both chains with one pair of offset segments.
func (e *Expander) doSegment(right, left Segment) {
	if !e.started {
		e.forward = append(e.forward, right.P0)
		e.backward = append(e.backward, left.P0)
		e.started = true
	} else {
		e.forward = append(e.forward, join(e.lastRight, right))
		e.backward = append(e.backward, join(e.lastLeft, left))
	}
	e.lastRight = right
	e.lastLeft = left
}

// join returns the corner between two consecutive offset segments.
func join(prev, next Segment) dwgdraw.Point3 {
	if p, ok := Intersect(prev, next); ok {
		return p
	}
	return prev.P1
}

// finish closes the outline: forward chain, end cap, reversed backward
// chain, start cap.
func (e *Expander) finish() {
	e.forward = append(e.forward, e.lastRight.P1)
	e.backward = append(e.backward, e.lastLeft.P1)

	out := make([]dwgdraw.Point3, 0, len(e.forward)+len(e.backward)+1)
	out = append(out, e.forward...)
	out = appendReversed(out, e.backward)
	out = append(out, e.forward[0])
	e.output = out
}

// appendReversed appends src to dst in reverse order.
func appendReversed(dst, src []dwgdraw.Point3) []dwgdraw.Point3 {
	for i := len(src) - 1; i >= 0; i-- {
		dst = append(dst, src[i])
	}
	return dst
}

// ExpandRing offsets a closed polygon by half of width on both sides.
// points must not repeat the first point at the end. Both results are
// closed rings. It returns nil rings when fewer than three distinct
// vertices remain.
func (e *Expander) ExpandRing(points []dwgdraw.Point3, width float64) (right, left []dwgdraw.Point3) {
	var rights, lefts []Segment
	n := len(points)
	for i := range n {
		r, ok := OffsetSegment(points[i], points[(i+1)%n], width, width, Right)
		if !ok {
			continue
		}
		l, _ := OffsetSegment(points[i], points[(i+1)%n], width, width, Left)
		rights = append(rights, r)
		lefts = append(lefts, l)
	}
	if len(rights) < 3 {
		return nil, nil
	}
	return ringCorners(rights), ringCorners(lefts)
}

// ringCorners joins each offset segment with its predecessor, wrapping
// around, and closes the ring.
func ringCorners(segs []Segment) []dwgdraw.Point3 {
	out := make([]dwgdraw.Point3, 0, len(segs)+1)
	prev := segs[len(segs)-1]
	for _, s := range segs {
		out = append(out, join(prev, s))
		prev = s
	}
	return append(out, out[0])
}
