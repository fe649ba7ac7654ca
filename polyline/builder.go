package polyline

import (
	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/internal/offset"
)

// MinWidth is the smallest constant width that produces an outline.
const MinWidth = 1e-5

// BuildCurveGeometry converts a model to a path of line strings and
// bulge arcs in world coordinates. Straight segments accumulate into
// one line string until an arc interrupts them. When useElevation is
// set the points are placed at the model elevation before the ECS is
// applied. A closed model yields an Outer boundary, an open one Open.
// Nil is returned for fewer than two distinct points.
func BuildCurveGeometry(m *Model, useElevation bool) *dwgdraw.CurveVector {
	nseg := m.NumSegments()
	if nseg == 0 {
		return nil
	}

	pts := m.planarPoints(useElevation)
	boundary := dwgdraw.BoundaryOpen
	if m.Closed {
		boundary = dwgdraw.BoundaryOuter
	}
	cv := dwgdraw.NewCurveVector(boundary)

	var pending []dwgdraw.Point3
	flush := func() {
		if len(pending) >= 2 {
			cv.Append(&dwgdraw.LineString{Points: pending})
		}
		pending = nil
	}

	n := len(pts)
	for i := range nseg {
		p0, p1 := pts[i], pts[(i+1)%n]
		if b := m.Bulge(i); IsArcBulge(b) && p0 != p1 {
			flush()
			cv.Append(dwgdraw.ArcFromBulge(p0, p1, b))
			continue
		}
		if len(pending) == 0 {
			pending = append(pending, p0)
		}
		pending = append(pending, p1)
	}
	flush()

	if cv.IsEmpty() {
		return nil
	}
	if !m.ECS.IsIdentity() {
		cv.Transform(m.ECS)
	}
	return cv
}

// planarPoints returns a copy of the points, optionally lifted to the
// elevation.
func (m *Model) planarPoints(useElevation bool) []dwgdraw.Point3 {
	pts := append([]dwgdraw.Point3(nil), m.Points...)
	if useElevation {
		for i := range pts {
			pts[i].Z = m.Elevation
		}
	}
	return pts
}

// CanBuildVariableWidth reports whether the model is drawn as a single
// variable-width outline: it has per-vertex widths, no constant width,
// no arcs, and it is open.
func CanBuildVariableWidth(m *Model) bool {
	return m.HasWidths() && m.ConstantWidth == nil && !m.HasBulges() && !m.Closed && len(m.Points) >= 2
}

// BuildVariableWidthShape outlines a variable-width polyline. The right
// side offsets are chained forward and the left side backward into one
// closed Outer loop. It reports false when the model does not qualify
// or the outline degenerates.
func BuildVariableWidthShape(m *Model) (*dwgdraw.CurveVector, bool) {
	if !CanBuildVariableWidth(m) {
		return nil, false
	}
	pts := m.planarPoints(true)
	widths := make([][2]float64, len(pts)-1)
	for i := range widths {
		widths[i] = m.Width(i)
	}

	ring := offset.NewExpander().Expand(pts, widths)
	if len(ring) < 4 {
		return nil, false
	}
	cv := dwgdraw.NewCurveVector(dwgdraw.BoundaryOuter)
	cv.Append(&dwgdraw.LineString{Points: ring})
	if !m.ECS.IsIdentity() {
		cv.Transform(m.ECS)
	}
	return cv, true
}

// ApplyConstantWidth outlines a linear path at a constant width. An
// open path becomes one Outer loop; a closed path becomes a parity
// region of its two offset rings. Only paths in the XY plane, that is
// with an identity ECS, are outlined. It reports false when nothing
// was produced.
func ApplyConstantWidth(cv *dwgdraw.CurveVector, width float64, ecs dwgdraw.Transform) (*dwgdraw.CurveVector, bool) {
	if cv == nil || width < MinWidth || !ecs.IsIdentity() {
		return nil, false
	}
	pts, ok := cv.LinearPoints()
	if !ok || len(pts) < 2 {
		return nil, false
	}

	e := offset.NewExpander()
	if !cv.Boundary.IsClosed() {
		widths := make([][2]float64, len(pts)-1)
		for i := range widths {
			widths[i] = [2]float64{width, width}
		}
		ring := e.Expand(pts, widths)
		if ring == nil {
			return nil, false
		}
		out := dwgdraw.NewCurveVector(dwgdraw.BoundaryOuter)
		out.Append(&dwgdraw.LineString{Points: ring})
		return out, true
	}

	if n := len(pts); n > 1 && pts[n-1] == pts[0] {
		pts = pts[:n-1]
	}
	right, left := e.ExpandRing(pts, width)
	if right == nil {
		return nil, false
	}
	region := dwgdraw.NewCurveVector(dwgdraw.BoundaryParityRegion)
	for _, ring := range [][]dwgdraw.Point3{right, left} {
		loop := dwgdraw.NewCurveVector(dwgdraw.BoundaryOuter)
		loop.Append(&dwgdraw.LineString{Points: ring})
		region.AddLoop(loop)
	}
	return region, true
}

// ApplyThickness extrudes a path along normal by thickness. Closed
// paths are capped. It reports false when the thickness is too small.
func ApplyThickness(cv *dwgdraw.CurveVector, normal dwgdraw.Vec3, thickness float64, closed bool) (*dwgdraw.Extrusion, bool) {
	if cv == nil || !dwgdraw.IsValidThickness(thickness) {
		return nil, false
	}
	n := normal.Normalize()
	if n.IsZero() {
		n = dwgdraw.UnitZ
	}
	return &dwgdraw.Extrusion{
		Profile:   cv.Clone(),
		Direction: n.Mul(thickness),
		Capped:    closed,
	}, true
}
