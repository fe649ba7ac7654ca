package polyline

import (
	"github.com/gogpu/dwgdraw"
)

// Bulge factors outside (MinBulge, MaxBulge) are drawn as straight
// segments. MaxBulge is the tangent of 89.9 degrees.
const (
	MinBulge = 1e-8
	MaxBulge = 572.96
)

// Source is the per-vertex view of a polyline entity.
type Source interface {
	NumVerts() int
	// Point returns vertex i in the entity coordinate system.
	Point(i int) dwgdraw.Point3
	Bulge(i int) float64
	// Widths returns the start and end width of the segment starting at i.
	Widths(i int) (start, end float64)
	// ConstantWidth reports the constant width, if the polyline has one.
	ConstantWidth() (float64, bool)
	Elevation() float64
	Thickness() float64
	Normal() dwgdraw.Vec3
	IsClosed() bool
}

// Model is the vertex data of a polyline, normalized for shape building.
type Model struct {
	Points []dwgdraw.Point3
	// Widths holds the start and end width of the segment starting at
	// each point. Nil when the polyline has no per-vertex widths.
	Widths [][2]float64
	// Bulges holds the bulge of the segment starting at each point. Nil
	// when every segment is straight.
	Bulges        []float64
	ConstantWidth *float64
	Elevation     float64
	Thickness     float64
	Normal        dwgdraw.Vec3
	Closed        bool
	// ECS maps entity coordinates to world coordinates.
	ECS dwgdraw.Transform
}

// FromPoints builds a model from world points. Adjacent duplicates are
// collapsed; a closed model drops a final point equal to the first.
func FromPoints(points []dwgdraw.Point3, closed bool) *Model {
	m := &Model{
		Normal: dwgdraw.UnitZ,
		Closed: closed,
		ECS:    dwgdraw.Identity(),
	}
	for _, p := range points {
		if n := len(m.Points); n > 0 && m.Points[n-1] == p {
			continue
		}
		m.Points = append(m.Points, p)
	}
	m.dropClosingPoint()
	return m
}

// FromEntity reads a polyline entity. closed is combined with the
// entity's own closed flag; pass false to force an open model.
func FromEntity(src Source, closed bool) *Model {
	normal := src.Normal()
	if normal.IsZero() || normal.IsNaN() {
		normal = dwgdraw.UnitZ
	}
	m := &Model{
		Elevation: src.Elevation(),
		Thickness: src.Thickness(),
		Normal:    normal.Normalize(),
		Closed:    closed && src.IsClosed(),
		ECS:       dwgdraw.ArbitraryAxis(normal),
	}
	if w, ok := src.ConstantWidth(); ok {
		m.ConstantWidth = &w
	}

	n := src.NumVerts()
	for i := range n {
		w0, w1 := src.Widths(i)
		m.appendVertex(src.Point(i), [2]float64{w0, w1}, src.Bulge(i))
	}
	m.trimSegmentData()
	m.dropClosingPoint()
	return m
}

// FromVertices builds a model from points in the XY plane with a bulge
// per vertex, as hatch boundaries store them.
func FromVertices(points []dwgdraw.Point3, bulges []float64, closed bool) *Model {
	m := &Model{
		Normal: dwgdraw.UnitZ,
		Closed: closed,
		ECS:    dwgdraw.Identity(),
	}
	for i, p := range points {
		var b float64
		if i < len(bulges) {
			b = bulges[i]
		}
		m.appendVertex(p, [2]float64{}, b)
	}
	m.trimSegmentData()
	m.dropClosingPoint()
	return m
}

// appendVertex adds a vertex with the data of the segment leaving it.
// A repeated vertex ends a zero-length segment, so it only replaces the
// segment data of the previous vertex.
func (m *Model) appendVertex(p dwgdraw.Point3, w [2]float64, b float64) {
	if k := len(m.Points); k > 0 && m.Points[k-1] == p {
		m.Widths[k-1] = w
		m.Bulges[k-1] = b
		return
	}
	m.Points = append(m.Points, p)
	m.Widths = append(m.Widths, w)
	m.Bulges = append(m.Bulges, b)
}

// trimSegmentData drops widths and bulges that are all zero.
func (m *Model) trimSegmentData() {
	if !m.HasWidths() {
		m.Widths = nil
	}
	hasBulges := false
	for _, b := range m.Bulges {
		if b != 0 {
			hasBulges = true
			break
		}
	}
	if !hasBulges {
		m.Bulges = nil
	}
}

// dropClosingPoint removes a last point that repeats the first on a
// closed model, together with its segment data.
func (m *Model) dropClosingPoint() {
	n := len(m.Points)
	if !m.Closed || n < 2 || m.Points[n-1] != m.Points[0] {
		return
	}
	m.Points = m.Points[:n-1]
	if len(m.Widths) == n {
		m.Widths = m.Widths[:n-1]
	}
	if len(m.Bulges) == n {
		m.Bulges = m.Bulges[:n-1]
	}
}

// NumSegments returns the number of segments, counting the closing
// segment of a closed model.
func (m *Model) NumSegments() int {
	n := len(m.Points)
	switch {
	case n < 2:
		return 0
	case m.Closed:
		return n
	default:
		return n - 1
	}
}

// Bulge returns the bulge of segment i, or 0.
func (m *Model) Bulge(i int) float64 {
	if i < len(m.Bulges) {
		return m.Bulges[i]
	}
	return 0
}

// Width returns the start and end width of segment i, or zeros.
func (m *Model) Width(i int) [2]float64 {
	if i < len(m.Widths) {
		return m.Widths[i]
	}
	return [2]float64{}
}

// HasBulges reports whether any segment is drawn as an arc.
func (m *Model) HasBulges() bool {
	for _, b := range m.Bulges {
		if IsArcBulge(b) {
			return true
		}
	}
	return false
}

// HasWidths reports whether any segment has a non-zero width.
func (m *Model) HasWidths() bool {
	for _, w := range m.Widths {
		if w[0] != 0 || w[1] != 0 {
			return true
		}
	}
	return false
}

// IsArcBulge reports whether a bulge factor produces an arc.
func IsArcBulge(b float64) bool {
	if b < 0 {
		b = -b
	}
	return b > MinBulge && b < MaxBulge
}

// Transform applies t to the points and the normal in place.
func (m *Model) Transform(t dwgdraw.Transform) {
	t.TransformPoints(m.Points)
	if n := t.TransformVector(m.Normal); !n.IsZero() {
		m.Normal = n.Normalize()
	}
}
