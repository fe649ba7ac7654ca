package dwgdraw

import "math"

// Curve primitives in 3D. Every primitive is also a Geometry so that it
// can be emitted on its own.

// Range3 is an axis-aligned 3D box. The zero value is not empty; use
// EmptyRange to start accumulating.
type Range3 struct {
	Low, High Point3
}

// EmptyRange returns a range that contains nothing.
func EmptyRange() Range3 {
	inf := math.Inf(1)
	return Range3{
		Low:  Point3{X: inf, Y: inf, Z: inf},
		High: Point3{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the range contains no point.
func (r Range3) IsEmpty() bool {
	return r.Low.X > r.High.X || r.Low.Y > r.High.Y || r.Low.Z > r.High.Z
}

// Extend grows the range to include p.
func (r Range3) Extend(p Point3) Range3 {
	return Range3{
		Low:  Point3{X: math.Min(r.Low.X, p.X), Y: math.Min(r.Low.Y, p.Y), Z: math.Min(r.Low.Z, p.Z)},
		High: Point3{X: math.Max(r.High.X, p.X), Y: math.Max(r.High.Y, p.Y), Z: math.Max(r.High.Z, p.Z)},
	}
}

// Union returns the smallest range containing both r and other.
func (r Range3) Union(other Range3) Range3 {
	if other.IsEmpty() {
		return r
	}
	return r.Extend(other.Low).Extend(other.High)
}

// Diagonal returns the length of the range diagonal, 0 for an empty range.
func (r Range3) Diagonal() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Low.Distance(r.High)
}

// CurvePrimitive is a single bounded curve.
type CurvePrimitive interface {
	Geometry
	StartPoint() Point3
	EndPoint() Point3
	Length() float64
	// PointAt evaluates the curve at a fraction in [0,1] of its parameter range.
	PointAt(f float64) Point3
	Range() Range3
	Transformed(t Transform) CurvePrimitive
	Reversed() CurvePrimitive
	isCurvePrimitive()
}

// -------------------------------------------------------------------
// LineSegment
// -------------------------------------------------------------------

// LineSegment is a straight segment from P0 to P1.
type LineSegment struct {
	P0, P1 Point3
}

func (LineSegment) isGeometry()       {}
func (LineSegment) isCurvePrimitive() {}

// Kind implements Geometry.
func (LineSegment) Kind() string { return "line" }

func (l LineSegment) StartPoint() Point3 { return l.P0 }
func (l LineSegment) EndPoint() Point3   { return l.P1 }
func (l LineSegment) Length() float64    { return l.P0.Distance(l.P1) }

func (l LineSegment) PointAt(f float64) Point3 { return l.P0.Lerp(l.P1, f) }

func (l LineSegment) Range() Range3 { return EmptyRange().Extend(l.P0).Extend(l.P1) }

func (l LineSegment) Transformed(t Transform) CurvePrimitive {
	return LineSegment{P0: t.TransformPoint(l.P0), P1: t.TransformPoint(l.P1)}
}

func (l LineSegment) Reversed() CurvePrimitive { return LineSegment{P0: l.P1, P1: l.P0} }

// -------------------------------------------------------------------
// LineString
// -------------------------------------------------------------------

// LineString is an open chain of straight segments.
type LineString struct {
	Points []Point3
}

func (*LineString) isGeometry()       {}
func (*LineString) isCurvePrimitive() {}

// Kind implements Geometry.
func (*LineString) Kind() string { return "linestring" }

func (s *LineString) StartPoint() Point3 {
	if len(s.Points) == 0 {
		return Point3{}
	}
	return s.Points[0]
}

func (s *LineString) EndPoint() Point3 {
	if len(s.Points) == 0 {
		return Point3{}
	}
	return s.Points[len(s.Points)-1]
}

func (s *LineString) Length() float64 {
	var total float64
	for i := 1; i < len(s.Points); i++ {
		total += s.Points[i-1].Distance(s.Points[i])
	}
	return total
}

// PointAt evaluates the chain by arc length.
func (s *LineString) PointAt(f float64) Point3 {
	n := len(s.Points)
	switch {
	case n == 0:
		return Point3{}
	case n == 1 || f <= 0:
		return s.Points[0]
	case f >= 1:
		return s.Points[n-1]
	}
	target := f * s.Length()
	for i := 1; i < n; i++ {
		d := s.Points[i-1].Distance(s.Points[i])
		if target <= d && d > 0 {
			return s.Points[i-1].Lerp(s.Points[i], target/d)
		}
		target -= d
	}
	return s.Points[n-1]
}

func (s *LineString) Range() Range3 {
	r := EmptyRange()
	for _, p := range s.Points {
		r = r.Extend(p)
	}
	return r
}

func (s *LineString) Transformed(t Transform) CurvePrimitive {
	out := &LineString{Points: append([]Point3(nil), s.Points...)}
	t.TransformPoints(out.Points)
	return out
}

func (s *LineString) Reversed() CurvePrimitive {
	n := len(s.Points)
	out := &LineString{Points: make([]Point3, n)}
	for i, p := range s.Points {
		out.Points[n-1-i] = p
	}
	return out
}

// -------------------------------------------------------------------
// EllipticArc
// -------------------------------------------------------------------

// EllipticArc is the arc P(θ) = Center + V0·cos θ + V90·sin θ for θ in
// [Start, Start+Sweep]. A negative sweep runs clockwise. A circular arc
// has perpendicular vectors of equal length.
type EllipticArc struct {
	Center Point3
	V0     Vec3
	V90    Vec3
	Start  float64
	Sweep  float64
}

func (*EllipticArc) isGeometry()       {}
func (*EllipticArc) isCurvePrimitive() {}

// Kind implements Geometry.
func (*EllipticArc) Kind() string { return "arc" }

// CircularArc builds an arc of the given radius in the plane whose
// extrusion direction is normal. Angles are measured from the x axis of
// the plane's entity coordinate system.
func CircularArc(center Point3, radius float64, normal Vec3, start, sweep float64) *EllipticArc {
	ecs := ArbitraryAxis(normal)
	return &EllipticArc{
		Center: center,
		V0:     ecs.ColumnX().Mul(radius),
		V90:    ecs.ColumnY().Mul(radius),
		Start:  start,
		Sweep:  sweep,
	}
}

// ArcFrom3Points builds the circular arc that starts at p0, passes
// through p1 and ends at p2. It reports false for collinear points.
func ArcFrom3Points(p0, p1, p2 Point3) (*EllipticArc, bool) {
	center, x, y, ok := circleFrame(p0, p1, p2)
	if !ok {
		return nil, false
	}
	d := p2.Sub(center)
	sweep := math.Atan2(d.Dot(y), d.Dot(x))
	if sweep <= 0 {
		sweep += 2 * math.Pi
	}
	return &EllipticArc{Center: center, V0: x, V90: y, Sweep: sweep}, true
}

// CircleFrom3Points builds the full circle through three points.
func CircleFrom3Points(p0, p1, p2 Point3) (*EllipticArc, bool) {
	center, x, y, ok := circleFrame(p0, p1, p2)
	if !ok {
		return nil, false
	}
	return &EllipticArc{Center: center, V0: x, V90: y, Sweep: 2 * math.Pi}, true
}

// circleFrame returns the circumcenter of three points and two scaled
// axes, x toward p0 and y a quarter turn ahead in the p0→p1→p2 direction.
func circleFrame(p0, p1, p2 Point3) (Point3, Vec3, Vec3, bool) {
	a := p1.Sub(p0)
	b := p2.Sub(p0)
	n := a.Cross(b)
	nn := n.LengthSq()
	if nn < 1e-24 {
		return Point3{}, Vec3{}, Vec3{}, false
	}
	offset := b.Mul(a.LengthSq()).Sub(a.Mul(b.LengthSq())).Cross(n).Mul(1 / (2 * nn))
	center := p0.Add(offset)
	x := p0.Sub(center)
	y := n.Normalize().Cross(x)
	return center, x, y, true
}

// ArcFromBulge builds the arc between p0 and p1 encoded by a polyline
// bulge factor, the tangent of a quarter of the included angle. A
// positive bulge turns counter-clockwise about +Z. The arc lies in the
// plane z = p0.Z.
func ArcFromBulge(p0, p1 Point3, bulge float64) *EllipticArc {
	chord := p1.Sub(p0)
	chord.Z = 0
	c := chord.Length()
	u := chord.Mul(1 / c)
	d := c * (1 - bulge*bulge) / (4 * bulge)
	mid := p0.Lerp(p1, 0.5)
	center := mid.AddScaled(u.PerpXY(), d)
	center.Z = p0.Z
	r := c * (1 + bulge*bulge) / (4 * math.Abs(bulge))
	start := math.Atan2(p0.Y-center.Y, p0.X-center.X)
	return &EllipticArc{
		Center: center,
		V0:     V3(r, 0, 0),
		V90:    V3(0, r, 0),
		Start:  start,
		Sweep:  4 * math.Atan(bulge),
	}
}

// IsCircular reports whether the arc is a circular arc.
func (a *EllipticArc) IsCircular() bool {
	r0, r90 := a.V0.Length(), a.V90.Length()
	tol := 1e-10 * math.Max(1, r0)
	return math.Abs(r0-r90) <= tol && math.Abs(a.V0.Dot(a.V90)) <= tol*math.Max(1, r0)
}

// IsFullEllipse reports whether the sweep covers a full turn.
func (a *EllipticArc) IsFullEllipse() bool {
	return math.Abs(math.Abs(a.Sweep)-2*math.Pi) < 1e-10
}

// Normal returns the unit plane normal, oriented by V0 × V90.
func (a *EllipticArc) Normal() Vec3 { return a.V0.Cross(a.V90).Normalize() }

func (a *EllipticArc) at(theta float64) Point3 {
	s, c := math.Sincos(theta)
	return a.Center.Add(a.V0.Mul(c)).Add(a.V90.Mul(s))
}

func (a *EllipticArc) StartPoint() Point3 { return a.at(a.Start) }
func (a *EllipticArc) EndPoint() Point3   { return a.at(a.Start + a.Sweep) }

func (a *EllipticArc) PointAt(f float64) Point3 { return a.at(a.Start + f*a.Sweep) }

// Length returns the arc length. Elliptic arcs are integrated with
// Simpson's rule.
func (a *EllipticArc) Length() float64 {
	if a.IsCircular() {
		return a.V0.Length() * math.Abs(a.Sweep)
	}
	const n = 64
	speed := func(theta float64) float64 {
		s, c := math.Sincos(theta)
		return a.V90.Mul(c).Sub(a.V0.Mul(s)).Length()
	}
	h := a.Sweep / n
	sum := speed(a.Start) + speed(a.Start+a.Sweep)
	for i := 1; i < n; i++ {
		w := 2.0
		if i%2 == 1 {
			w = 4
		}
		sum += w * speed(a.Start+float64(i)*h)
	}
	return math.Abs(sum * h / 3)
}

func (a *EllipticArc) Range() Range3 {
	return sampledRange(a, 64)
}

func (a *EllipticArc) Transformed(t Transform) CurvePrimitive {
	return &EllipticArc{
		Center: t.TransformPoint(a.Center),
		V0:     t.TransformVector(a.V0),
		V90:    t.TransformVector(a.V90),
		Start:  a.Start,
		Sweep:  a.Sweep,
	}
}

func (a *EllipticArc) Reversed() CurvePrimitive {
	out := *a
	out.Start = a.Start + a.Sweep
	out.Sweep = -a.Sweep
	return &out
}

// -------------------------------------------------------------------
// BSplineCurve
// -------------------------------------------------------------------

// BSplineCurve is a (possibly rational) B-spline. When Knots is empty a
// clamped uniform knot vector is assumed. Weights may be nil.
type BSplineCurve struct {
	Order   int
	Poles   []Point3
	Weights []float64
	Knots   []float64
	Closed  bool
}

func (*BSplineCurve) isGeometry()       {}
func (*BSplineCurve) isCurvePrimitive() {}

// Kind implements Geometry.
func (*BSplineCurve) Kind() string { return "bspline" }

func (b *BSplineCurve) knots() []float64 {
	if len(b.Knots) == len(b.Poles)+b.Order {
		return b.Knots
	}
	n, k := len(b.Poles), b.Order
	knots := make([]float64, n+k)
	interior := n - k
	for i := range knots {
		switch {
		case i < k:
			knots[i] = 0
		case i >= n:
			knots[i] = 1
		default:
			knots[i] = float64(i-k+1) / float64(interior+1)
		}
	}
	return knots
}

func (b *BSplineCurve) weight(i int) float64 {
	if len(b.Weights) != len(b.Poles) {
		return 1
	}
	return b.Weights[i]
}

// PointAt evaluates the curve with de Boor's algorithm.
func (b *BSplineCurve) PointAt(f float64) Point3 {
	n, k := len(b.Poles), b.Order
	if n == 0 {
		return Point3{}
	}
	if k < 2 || n < k {
		return b.Poles[0].Lerp(b.Poles[n-1], f)
	}
	knots := b.knots()
	lo, hi := knots[k-1], knots[n]
	u := lo + math.Max(0, math.Min(1, f))*(hi-lo)

	span := k - 1
	for span < n-1 && u >= knots[span+1] {
		span++
	}

	// Homogeneous control points of the active span.
	type hpt struct{ x, y, z, w float64 }
	d := make([]hpt, k)
	for j := 0; j < k; j++ {
		i := span - k + 1 + j
		w := b.weight(i)
		p := b.Poles[i]
		d[j] = hpt{p.X * w, p.Y * w, p.Z * w, w}
	}
	for r := 1; r < k; r++ {
		for j := k - 1; j >= r; j-- {
			i := span - k + 1 + j
			den := knots[i+k-r] - knots[i]
			alpha := 0.0
			if den != 0 {
				alpha = (u - knots[i]) / den
			}
			d[j] = hpt{
				x: (1-alpha)*d[j-1].x + alpha*d[j].x,
				y: (1-alpha)*d[j-1].y + alpha*d[j].y,
				z: (1-alpha)*d[j-1].z + alpha*d[j].z,
				w: (1-alpha)*d[j-1].w + alpha*d[j].w,
			}
		}
	}
	h := d[k-1]
	if h.w == 0 {
		return Point3{X: h.x, Y: h.y, Z: h.z}
	}
	return Point3{X: h.x / h.w, Y: h.y / h.w, Z: h.z / h.w}
}

func (b *BSplineCurve) StartPoint() Point3 { return b.PointAt(0) }
func (b *BSplineCurve) EndPoint() Point3   { return b.PointAt(1) }

// Length approximates the arc length with a 64-segment chord sum.
func (b *BSplineCurve) Length() float64 {
	return sampledLength(b, 64)
}

func (b *BSplineCurve) Range() Range3 {
	r := EmptyRange()
	for _, p := range b.Poles {
		r = r.Extend(p)
	}
	return r
}

func (b *BSplineCurve) Transformed(t Transform) CurvePrimitive {
	out := *b
	out.Poles = append([]Point3(nil), b.Poles...)
	t.TransformPoints(out.Poles)
	return &out
}

func (b *BSplineCurve) Reversed() CurvePrimitive {
	out := *b
	n := len(b.Poles)
	out.Poles = make([]Point3, n)
	for i, p := range b.Poles {
		out.Poles[n-1-i] = p
	}
	if len(b.Weights) == n {
		out.Weights = make([]float64, n)
		for i, w := range b.Weights {
			out.Weights[n-1-i] = w
		}
	}
	if knots := b.knots(); len(knots) > 0 {
		m := len(knots)
		a, z := knots[0], knots[m-1]
		out.Knots = make([]float64, m)
		for i, k := range knots {
			out.Knots[m-1-i] = a + z - k
		}
	}
	return &out
}

// -------------------------------------------------------------------
// PointString
// -------------------------------------------------------------------

// PointString is a set of disconnected points, such as a row of dots.
type PointString struct {
	Points []Point3
}

func (*PointString) isGeometry()       {}
func (*PointString) isCurvePrimitive() {}

// Kind implements Geometry.
func (*PointString) Kind() string { return "points" }

func (s *PointString) StartPoint() Point3 {
	if len(s.Points) == 0 {
		return Point3{}
	}
	return s.Points[0]
}

func (s *PointString) EndPoint() Point3 {
	if len(s.Points) == 0 {
		return Point3{}
	}
	return s.Points[len(s.Points)-1]
}

// Length is always zero; points have no extent.
func (*PointString) Length() float64 { return 0 }

func (s *PointString) PointAt(f float64) Point3 {
	if len(s.Points) == 0 {
		return Point3{}
	}
	i := int(math.Round(f * float64(len(s.Points)-1)))
	return s.Points[max(0, min(i, len(s.Points)-1))]
}

func (s *PointString) Range() Range3 {
	r := EmptyRange()
	for _, p := range s.Points {
		r = r.Extend(p)
	}
	return r
}

func (s *PointString) Transformed(t Transform) CurvePrimitive {
	out := &PointString{Points: append([]Point3(nil), s.Points...)}
	t.TransformPoints(out.Points)
	return out
}

func (s *PointString) Reversed() CurvePrimitive {
	n := len(s.Points)
	out := &PointString{Points: make([]Point3, n)}
	for i, p := range s.Points {
		out.Points[n-1-i] = p
	}
	return out
}

// -------------------------------------------------------------------
// Sampling helpers
// -------------------------------------------------------------------

// Sample returns n+1 evenly spaced points along c, endpoints included.
func Sample(c CurvePrimitive, n int) []Point3 {
	if n < 1 {
		n = 1
	}
	pts := make([]Point3, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = c.PointAt(float64(i) / float64(n))
	}
	return pts
}

// DistanceToCurve approximates the distance from p to c. Line segments
// and line strings are exact; other curves use 64 chords.
func DistanceToCurve(c CurvePrimitive, p Point3) float64 {
	var pts []Point3
	switch v := c.(type) {
	case LineSegment:
		return distanceToSegment(p, v.P0, v.P1)
	case *LineString:
		pts = v.Points
	default:
		pts = Sample(c, 64)
	}
	if len(pts) == 1 {
		return p.Distance(pts[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		best = math.Min(best, distanceToSegment(p, pts[i-1], pts[i]))
	}
	return best
}

func distanceToSegment(p, a, b Point3) float64 {
	ab := b.Sub(a)
	l2 := ab.LengthSq()
	if l2 == 0 {
		return p.Distance(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Distance(a.AddScaled(ab, t))
}

func sampledLength(c CurvePrimitive, n int) float64 {
	pts := Sample(c, n)
	var total float64
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].Distance(pts[i])
	}
	return total
}

func sampledRange(c CurvePrimitive, n int) Range3 {
	r := EmptyRange()
	for _, p := range Sample(c, n) {
		r = r.Extend(p)
	}
	return r
}
