package hatch

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/dwgdraw"
)

func line(x0, y0, x1, y1 float64) dwgdraw.CurvePrimitive {
	return dwgdraw.LineSegment{P0: dwgdraw.Pt(x0, y0, 0), P1: dwgdraw.Pt(x1, y1, 0)}
}

// squareEdges returns the counter-clockwise edges of a 10×10 square.
func squareEdges() []dwgdraw.CurvePrimitive {
	return []dwgdraw.CurvePrimitive{
		line(0, 0, 10, 0),
		line(10, 0, 10, 10),
		line(10, 10, 0, 10),
		line(0, 10, 0, 0),
	}
}

func squarePoints(x0, y0, size float64) []dwgdraw.Point3 {
	return []dwgdraw.Point3{
		dwgdraw.Pt(x0, y0, 0), dwgdraw.Pt(x0+size, y0, 0),
		dwgdraw.Pt(x0+size, y0+size, 0), dwgdraw.Pt(x0, y0+size, 0),
	}
}

func edgeHatch(edges []dwgdraw.CurvePrimitive) *Hatch {
	return &Hatch{Loops: []Loop{{Type: LoopExternal, Edges: edges}}}
}

func TestBoundaryType(t *testing.T) {
	tests := []struct {
		name  string
		flags LoopType
		loops int
		want  dwgdraw.BoundaryType
	}{
		{"external", LoopExternal, 2, dwgdraw.BoundaryOuter},
		{"outermost", LoopOutermost, 2, dwgdraw.BoundaryOuter},
		{"island", LoopDerived, 2, dwgdraw.BoundaryInner},
		{"textbox", LoopExternal | LoopTextbox, 2, dwgdraw.BoundaryInner},
		{"not closed with others", LoopExternal | LoopNotClosed, 2, dwgdraw.BoundaryOpen},
		{"lone not closed", LoopExternal | LoopNotClosed, 1, dwgdraw.BoundaryOuter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Hatch{}
			for range tt.loops {
				h.Loops = append(h.Loops, Loop{Type: LoopDerived, Points: squarePoints(0, 0, 1)})
			}
			h.Loops[0].Type = tt.flags
			if got := New(h).BoundaryType(0); got != tt.want {
				t.Errorf("BoundaryType = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildLoopPathSkipRules(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		flags LoopType
		skip  bool
	}{
		{"outer style, not outermost", StyleOuter, LoopExternal | LoopPolyline | LoopNotClosed, true},
		{"outer style, outermost", StyleOuter, LoopOutermost | LoopPolyline | LoopNotClosed, false},
		{"ignore style", StyleIgnore, LoopOutermost | LoopPolyline | LoopNotClosed, true},
		{"normal style", StyleNormal, LoopExternal | LoopPolyline | LoopNotClosed, false},
		{"closed loop under ignore", StyleIgnore, LoopExternal | LoopPolyline, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Hatch{
				Style: tt.style,
				Loops: []Loop{{Type: tt.flags, Points: squarePoints(0, 0, 10)}},
			}
			_, err := New(h).BuildLoopPath(0)
			if got := errors.Is(err, ErrSkipLoop); got != tt.skip {
				t.Errorf("skipped = %v (err %v), want %v", got, err, tt.skip)
			}
		})
	}
}

func TestBuildLoopPathPolyline(t *testing.T) {
	pts := append(squarePoints(0, 0, 10), dwgdraw.Pt(0, 0, 0))
	h := &Hatch{
		Loops:     []Loop{{Type: LoopExternal | LoopPolyline, Points: pts, Bulges: []float64{0, 0.5, 0, 0, 0}}},
		Elevation: 3,
	}
	path, err := New(h).BuildLoopPath(0)
	if err != nil {
		t.Fatalf("BuildLoopPath: %v", err)
	}
	if path.Boundary != dwgdraw.BoundaryOuter {
		t.Errorf("Boundary = %v, want outer", path.Boundary)
	}
	if len(path.Primitives) != 3 {
		t.Errorf("got %d primitives, want line string, arc, line string", len(path.Primitives))
	}
	if !path.IsClosedWithin(1e-9) {
		t.Error("loop does not close")
	}
	if z := path.StartPoint().Z; math.Abs(z-3) > 1e-12 {
		t.Errorf("loop at z=%v, want elevation 3", z)
	}
}

func TestBuildLoopPathDegenerate(t *testing.T) {
	p := dwgdraw.Pt(2, 2, 0)
	h := &Hatch{Loops: []Loop{{Type: LoopExternal | LoopPolyline, Points: []dwgdraw.Point3{p, p, p}}}}
	if _, err := New(h).BuildLoopPath(0); !errors.Is(err, ErrDegenerateLoop) {
		t.Errorf("err = %v, want ErrDegenerateLoop", err)
	}
	if _, err := New(h).BuildLoopPath(5); !errors.Is(err, ErrInvalidLoop) {
		t.Errorf("out of range err = %v, want ErrInvalidLoop", err)
	}
}

func TestEdgePipeline(t *testing.T) {
	sq := squareEdges()
	spline := &dwgdraw.BSplineCurve{
		Order: 3,
		Poles: []dwgdraw.Point3{dwgdraw.Pt(0, 0, 0), dwgdraw.Pt(5, 0, 0), dwgdraw.Pt(10, 0, 0)},
	}
	tinyArc := dwgdraw.CircularArc(dwgdraw.Pt(10, 0, 0), 1e-5, dwgdraw.UnitZ, 0, 1)

	tests := []struct {
		name  string
		edges []dwgdraw.CurvePrimitive
		want  int
	}{
		{"clean square", sq, 4},
		{"zero-length arc", []dwgdraw.CurvePrimitive{sq[0], tinyArc, sq[1], sq[2], sq[3]}, 4},
		{"repeated reversed edge", []dwgdraw.CurvePrimitive{sq[0], line(10, 0, 0, 0), sq[1], sq[2], sq[3]}, 4},
		{"spline on previous edge", []dwgdraw.CurvePrimitive{sq[0], spline, sq[1], sq[2], sq[3]}, 4},
		{"dangling spike", []dwgdraw.CurvePrimitive{sq[0], line(10, 0, 15, 0), sq[1], sq[2], sq[3]}, 4},
		{"trailing overlap", []dwgdraw.CurvePrimitive{sq[0], sq[1], sq[2], sq[3], sq[0]}, 4},
		{"small gap", []dwgdraw.CurvePrimitive{sq[0], line(10, 0.001, 10, 10), sq[2], sq[3]}, 4},
		{"large gap", []dwgdraw.CurvePrimitive{sq[0], line(10, 1, 10, 10), sq[2], sq[3]}, 5},
		{"shuffled", []dwgdraw.CurvePrimitive{sq[0], sq[2], sq[1], sq[3]}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := New(edgeHatch(tt.edges)).BuildLoopPath(0)
			if err != nil {
				t.Fatalf("BuildLoopPath: %v", err)
			}
			if len(path.Primitives) != tt.want {
				t.Errorf("got %d edges, want %d", len(path.Primitives), tt.want)
			}
			if !path.IsClosedWithin(1e-9) {
				t.Errorf("loop does not close: %+v .. %+v", path.StartPoint(), path.EndPoint())
			}
			for i := 1; i < len(path.Primitives); i++ {
				end := path.Primitives[i-1].EndPoint()
				if start := path.Primitives[i].StartPoint(); !end.Approx(start, 1e-9) {
					t.Errorf("gap between edge %d and %d: %+v .. %+v", i-1, i, end, start)
				}
			}
		})
	}
}

func TestGradientOrientation(t *testing.T) {
	cw := []dwgdraw.Point3{
		dwgdraw.Pt(0, 0, 0), dwgdraw.Pt(0, 10, 0), dwgdraw.Pt(10, 10, 0), dwgdraw.Pt(10, 0, 0),
	}
	for _, gradient := range []bool{false, true} {
		h := &Hatch{
			Gradient: gradient,
			Normal:   dwgdraw.UnitZ,
			Loops:    []Loop{{Type: LoopExternal | LoopPolyline, Points: cw}},
		}
		path, err := New(h).BuildLoopPath(0)
		if err != nil {
			t.Fatalf("BuildLoopPath: %v", err)
		}
		ccw := path.AreaNormal().Z > 0
		if ccw != gradient {
			t.Errorf("gradient=%v: counter-clockwise=%v", gradient, ccw)
		}
	}
}

func TestBuildRegion(t *testing.T) {
	p := dwgdraw.Pt(5, 5, 0)
	h := &Hatch{Loops: []Loop{
		{Type: LoopExternal | LoopPolyline, Points: squarePoints(0, 0, 10)},
		{Type: LoopPolyline, Points: squarePoints(2, 2, 3)},
		{Type: LoopPolyline, Points: []dwgdraw.Point3{p, p}},
		{Type: LoopExternal, Edges: squareEdges()},
	}}

	var dropped []int
	region, err := New(h, WithDropHook(func(i int, err error) {
		if !errors.Is(err, ErrDegenerateLoop) {
			t.Errorf("loop %d dropped with %v, want ErrDegenerateLoop", i, err)
		}
		dropped = append(dropped, i)
	})).BuildRegion()
	if err != nil {
		t.Fatalf("BuildRegion: %v", err)
	}
	if region.Boundary != dwgdraw.BoundaryParityRegion {
		t.Errorf("Boundary = %v, want parity region", region.Boundary)
	}
	if len(region.Loops) != 3 {
		t.Errorf("got %d loops, want 3", len(region.Loops))
	}
	if len(dropped) != 1 || dropped[0] != 2 {
		t.Errorf("dropped loops %v, want [2]", dropped)
	}
	if region.Loops[1].Boundary != dwgdraw.BoundaryInner {
		t.Errorf("island boundary = %v, want inner", region.Loops[1].Boundary)
	}
}

func TestBuildRegionNoUsableLoops(t *testing.T) {
	h := &Hatch{
		Style: StyleIgnore,
		Loops: []Loop{{Type: LoopExternal | LoopPolyline | LoopNotClosed, Points: squarePoints(0, 0, 1)}},
	}
	if _, err := New(h).BuildRegion(); !errors.Is(err, ErrNoUsableLoops) {
		t.Errorf("err = %v, want ErrNoUsableLoops", err)
	}
}

func TestTolerance(t *testing.T) {
	r := New(edgeHatch(squareEdges()))
	want := math.Sqrt(200) * 1e-3
	if math.Abs(r.Tolerance()-want) > 1e-12 {
		t.Errorf("Tolerance = %v, want %v", r.Tolerance(), want)
	}
	h := edgeHatch(squareEdges())
	h.Range = dwgdraw.EmptyRange().Extend(dwgdraw.Pt(0, 0, 0)).Extend(dwgdraw.Pt(30, 40, 0))
	if got := New(h).Tolerance(); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("Tolerance from Range = %v, want 0.05", got)
	}
	if got := New(edgeHatch(squareEdges()), WithTolerance(0.5)).Tolerance(); got != 0.5 {
		t.Errorf("WithTolerance: Tolerance = %v, want 0.5", got)
	}
}

// upperHalf returns the counter-clockwise half circle of radius 10 from
// (10,0) to (-10,0).
func upperHalf() *dwgdraw.EllipticArc {
	return dwgdraw.CircularArc(dwgdraw.Pt(0, 0, 0), 10, dwgdraw.UnitZ, 0, math.Pi)
}

func TestGapBeforeCurveSnapsStraightEdge(t *testing.T) {
	arc := upperHalf()
	end := arc.EndPoint()
	edges := []dwgdraw.CurvePrimitive{
		arc,
		line(end.X, end.Y, 0, 0),
		line(0, 0, math.Nextafter(10, 11), 0),
	}
	r := New(edgeHatch(edges))
	path, err := r.BuildLoopPath(0)
	if err != nil {
		t.Fatalf("BuildLoopPath: %v", err)
	}
	if len(path.Primitives) != 3 {
		t.Fatalf("got %d edges, want 3", len(path.Primitives))
	}
	for i, e := range path.Primitives {
		if e.Length() < r.Tolerance() {
			t.Errorf("edge %d is degenerate: length %v", i, e.Length())
		}
	}
	if !path.IsClosedWithin(1e-12) {
		t.Errorf("loop does not close: %+v .. %+v", path.StartPoint(), path.EndPoint())
	}
}

func TestBuildLoopPathIdempotent(t *testing.T) {
	arc := upperHalf()
	end := arc.EndPoint()
	tests := []struct {
		name  string
		edges []dwgdraw.CurvePrimitive
	}{
		{"square", squareEdges()},
		{"half disk with small gap", []dwgdraw.CurvePrimitive{
			arc,
			line(end.X, end.Y, 0, 0),
			line(0, 0.001, 10, 0),
		}},
		{"half disk with wide gap", []dwgdraw.CurvePrimitive{
			arc,
			line(end.X, end.Y, 0, 0),
			line(0, 2, 10, 0),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := New(edgeHatch(tt.edges)).BuildLoopPath(0)
			if err != nil {
				t.Fatalf("first pass: %v", err)
			}
			second, err := New(edgeHatch(first.Primitives)).BuildLoopPath(0)
			if err != nil {
				t.Fatalf("second pass: %v", err)
			}
			if len(second.Primitives) != len(first.Primitives) {
				t.Errorf("edge count %d, then %d", len(first.Primitives), len(second.Primitives))
			}
			l1, l2 := pathLength(first.Primitives), pathLength(second.Primitives)
			if math.Abs(l1-l2) > 1e-9 {
				t.Errorf("length %v, then %v", l1, l2)
			}
		})
	}
}
