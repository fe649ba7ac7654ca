package dwgdraw

import "math"

// BoundaryType tells how a CurveVector is to be interpreted.
type BoundaryType uint8

const (
	// BoundaryNone is an unstructured collection of curves.
	BoundaryNone BoundaryType = iota
	// BoundaryOpen is a single open path.
	BoundaryOpen
	// BoundaryOuter is a closed loop enclosing an area.
	BoundaryOuter
	// BoundaryInner is a closed loop cutting a hole.
	BoundaryInner
	// BoundaryParityRegion is a set of loops combined with the even-odd rule.
	BoundaryParityRegion
	// BoundaryUnionRegion is a set of regions combined by union.
	BoundaryUnionRegion
)

var boundaryNames = [...]string{"none", "open", "outer", "inner", "parity", "union"}

func (b BoundaryType) String() string {
	if int(b) < len(boundaryNames) {
		return boundaryNames[b]
	}
	return "unknown"
}

// IsClosed reports whether the boundary type describes an area.
func (b BoundaryType) IsClosed() bool {
	return b == BoundaryOuter || b == BoundaryInner
}

// IsRegion reports whether the boundary type holds child loops.
func (b BoundaryType) IsRegion() bool {
	return b == BoundaryParityRegion || b == BoundaryUnionRegion
}

// CurveVector is a path made of curve primitives, or, for region
// boundary types, a set of child loops.
type CurveVector struct {
	Boundary   BoundaryType
	Primitives []CurvePrimitive
	Loops      []*CurveVector
}

func (*CurveVector) isGeometry() {}

// Kind implements Geometry.
func (cv *CurveVector) Kind() string { return "curves/" + cv.Boundary.String() }

// NewCurveVector creates an empty path of the given boundary type.
func NewCurveVector(b BoundaryType) *CurveVector {
	return &CurveVector{
		Boundary:   b,
		Primitives: make([]CurvePrimitive, 0, 4),
	}
}

// Append adds a primitive to the path.
func (cv *CurveVector) Append(p CurvePrimitive) {
	cv.Primitives = append(cv.Primitives, p)
}

// AddLoop adds a child loop to a region.
func (cv *CurveVector) AddLoop(loop *CurveVector) {
	cv.Loops = append(cv.Loops, loop)
}

// IsEmpty reports whether the path has no primitives and no loops.
func (cv *CurveVector) IsEmpty() bool {
	return len(cv.Primitives) == 0 && len(cv.Loops) == 0
}

// StartPoint returns the start of the first primitive.
func (cv *CurveVector) StartPoint() Point3 {
	if len(cv.Primitives) == 0 {
		return Point3{}
	}
	return cv.Primitives[0].StartPoint()
}

// EndPoint returns the end of the last primitive.
func (cv *CurveVector) EndPoint() Point3 {
	if len(cv.Primitives) == 0 {
		return Point3{}
	}
	return cv.Primitives[len(cv.Primitives)-1].EndPoint()
}

// Length returns the total length of the primitives and child loops.
func (cv *CurveVector) Length() float64 {
	var total float64
	for _, p := range cv.Primitives {
		total += p.Length()
	}
	for _, l := range cv.Loops {
		total += l.Length()
	}
	return total
}

// Range returns the bounding range of the path.
func (cv *CurveVector) Range() Range3 {
	r := EmptyRange()
	for _, p := range cv.Primitives {
		r = r.Union(p.Range())
	}
	for _, l := range cv.Loops {
		r = r.Union(l.Range())
	}
	return r
}

// IsLinear reports whether every primitive is a line or line string.
func (cv *CurveVector) IsLinear() bool {
	for _, p := range cv.Primitives {
		switch p.(type) {
		case LineSegment, *LineString:
		default:
			return false
		}
	}
	return len(cv.Loops) == 0
}

// LinearPoints flattens a linear path into its vertex chain, dropping
// the shared point between consecutive primitives. It returns false if
// the path contains curves.
func (cv *CurveVector) LinearPoints() ([]Point3, bool) {
	if !cv.IsLinear() {
		return nil, false
	}
	var pts []Point3
	add := func(p Point3) {
		if len(pts) > 0 && pts[len(pts)-1] == p {
			return
		}
		pts = append(pts, p)
	}
	for _, prim := range cv.Primitives {
		switch v := prim.(type) {
		case LineSegment:
			add(v.P0)
			add(v.P1)
		case *LineString:
			for _, p := range v.Points {
				add(p)
			}
		}
	}
	return pts, true
}

// Transform transforms the path in place.
func (cv *CurveVector) Transform(t Transform) {
	for i, p := range cv.Primitives {
		cv.Primitives[i] = p.Transformed(t)
	}
	for _, l := range cv.Loops {
		l.Transform(t)
	}
}

// Reverse reverses the direction of the path in place.
func (cv *CurveVector) Reverse() {
	n := len(cv.Primitives)
	out := make([]CurvePrimitive, n)
	for i, p := range cv.Primitives {
		out[n-1-i] = p.Reversed()
	}
	cv.Primitives = out
}

// Clone returns a deep copy of the path structure. Primitives are
// immutable values and are shared.
func (cv *CurveVector) Clone() *CurveVector {
	out := &CurveVector{
		Boundary:   cv.Boundary,
		Primitives: append([]CurvePrimitive(nil), cv.Primitives...),
	}
	for _, l := range cv.Loops {
		out.Loops = append(out.Loops, l.Clone())
	}
	return out
}

// AreaNormal returns the area-weighted normal of a closed loop using
// Newell's method over a sampled outline. Its length is twice the
// enclosed area.
func (cv *CurveVector) AreaNormal() Vec3 {
	var pts []Point3
	for _, p := range cv.Primitives {
		var s []Point3
		switch v := p.(type) {
		case LineSegment:
			s = []Point3{v.P0, v.P1}
		case *LineString:
			s = v.Points
		default:
			s = Sample(p, 32)
		}
		for _, q := range s {
			if len(pts) > 0 && pts[len(pts)-1] == q {
				continue
			}
			pts = append(pts, q)
		}
	}
	var n Vec3
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// IsClosedWithin reports whether the path ends within tol of its start.
func (cv *CurveVector) IsClosedWithin(tol float64) bool {
	if len(cv.Primitives) == 0 {
		return false
	}
	if len(cv.Primitives) == 1 {
		if a, ok := cv.Primitives[0].(*EllipticArc); ok && a.IsFullEllipse() {
			return true
		}
	}
	return cv.StartPoint().Approx(cv.EndPoint(), tol)
}

// IsDegenerate reports whether every primitive collapses to a point.
func (cv *CurveVector) IsDegenerate(tol float64) bool {
	r := cv.Range()
	return r.IsEmpty() || r.Diagonal() <= tol || math.IsNaN(r.Diagonal())
}
