package hatch

import (
	"errors"

	"github.com/gogpu/dwgdraw"
)

// Errors returned by the reconstructor.
var (
	// ErrSkipLoop is returned for a loop the fill style excludes.
	ErrSkipLoop = errors.New("hatch: loop excluded by fill style")

	// ErrDegenerateLoop is returned for a loop that collapses to a point.
	ErrDegenerateLoop = errors.New("hatch: degenerate loop")

	// ErrInvalidLoop is returned for a loop index out of range or a loop
	// without boundary data.
	ErrInvalidLoop = errors.New("hatch: invalid loop")

	// ErrNoUsableLoops is returned when no loop of a hatch survives.
	ErrNoUsableLoops = errors.New("hatch: no usable loops")
)

// LoopType holds the boundary loop flags of a hatch.
type LoopType uint32

const (
	LoopExternal         LoopType = 0x1
	LoopPolyline         LoopType = 0x2
	LoopDerived          LoopType = 0x4
	LoopTextbox          LoopType = 0x8
	LoopOutermost        LoopType = 0x10
	LoopNotClosed        LoopType = 0x20
	LoopSelfIntersecting LoopType = 0x40
	LoopTextIsland       LoopType = 0x80
	LoopDuplicate        LoopType = 0x100
)

// Has reports whether all flags in f are set.
func (t LoopType) Has(f LoopType) bool { return t&f == f }

// Style is the island detection style of a hatch.
type Style uint8

const (
	// StyleNormal fills alternate nested areas.
	StyleNormal Style = iota
	// StyleOuter fills only the outermost area.
	StyleOuter
	// StyleIgnore fills everything inside the outer boundary.
	StyleIgnore
)

func (s Style) String() string {
	switch s {
	case StyleNormal:
		return "normal"
	case StyleOuter:
		return "outer"
	case StyleIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Loop is one boundary loop in the hatch plane. A polyline loop stores
// vertices and bulges; any other loop stores its edges.
type Loop struct {
	Type   LoopType
	Points []dwgdraw.Point3
	Bulges []float64
	Edges  []dwgdraw.CurvePrimitive
}

// IsPolyline reports whether the loop is vertex encoded.
func (l *Loop) IsPolyline() bool { return l.Type.Has(LoopPolyline) }

// Hatch is the boundary description of a hatch entity. Loop geometry
// is in the hatch plane; Normal and Elevation place that plane.
type Hatch struct {
	Loops     []Loop
	Style     Style
	Normal    dwgdraw.Vec3
	Elevation float64
	Gradient  bool
	// Range is the extent of the boundary. When unset or empty it is
	// computed from the loops.
	Range dwgdraw.Range3
}

// loopsRange returns the extent of all loop geometry.
func (h *Hatch) loopsRange() dwgdraw.Range3 {
	r := dwgdraw.EmptyRange()
	for i := range h.Loops {
		l := &h.Loops[i]
		for _, p := range l.Points {
			r = r.Extend(p)
		}
		for _, e := range l.Edges {
			r = r.Union(e.Range())
		}
	}
	return r
}
