package hatch

import (
	"github.com/gogpu/dwgdraw"
)

// splineSamples is the number of interior points compared when testing
// whether a spline edge repeats its neighbor.
const splineSamples = 8

// cleanEdges drops zero-length arcs, repeated edges, a trailing edge
// that overlaps the first one and dangling edges.
func (r *Reconstructor) cleanEdges(in []dwgdraw.CurvePrimitive, closed bool) []dwgdraw.CurvePrimitive {
	edges := make([]dwgdraw.CurvePrimitive, 0, len(in))
	for _, e := range in {
		if e == nil || r.isZeroLength(e) {
			continue
		}
		if n := len(edges); n > 0 && r.repeats(edges[n-1], e) {
			if e.Length() > edges[n-1].Length() {
				edges[n-1] = e
			}
			continue
		}
		edges = append(edges, e)
	}

	if n := len(edges); closed && n > 2 && r.repeats(edges[0], edges[n-1]) {
		edges = edges[:n-1]
	}
	return r.dropDangling(edges, closed)
}

// isZeroLength reports whether an edge collapses to a point. Arcs
// shorter than the tolerance count as collapsed.
func (r *Reconstructor) isZeroLength(e dwgdraw.CurvePrimitive) bool {
	if _, ok := e.(*dwgdraw.EllipticArc); ok {
		return e.Length() < r.tol
	}
	return e.Length() == 0
}

// repeats reports whether cur traces the same curve as prev: their
// endpoints coincide in either order, or a spline lies on the other
// edge.
func (r *Reconstructor) repeats(prev, cur dwgdraw.CurvePrimitive) bool {
	ps, pe := prev.StartPoint(), prev.EndPoint()
	cs, ce := cur.StartPoint(), cur.EndPoint()
	sameEnds := (ps.Approx(cs, r.tol) && pe.Approx(ce, r.tol)) ||
		(ps.Approx(ce, r.tol) && pe.Approx(cs, r.tol))

	_, prevSpline := prev.(*dwgdraw.BSplineCurve)
	_, curSpline := cur.(*dwgdraw.BSplineCurve)
	if !prevSpline && !curSpline {
		if !sameEnds {
			return false
		}
		// A closed edge pair such as two half circles shares both ends
		// without repeating; compare midpoints too.
		return r.liesOn(cur, prev)
	}
	if curSpline {
		return r.liesOn(cur, prev)
	}
	return r.liesOn(prev, cur)
}

// liesOn reports whether sampled interior points of a lie on b.
func (r *Reconstructor) liesOn(a, b dwgdraw.CurvePrimitive) bool {
	for i := 1; i < splineSamples; i++ {
		p := a.PointAt(float64(i) / splineSamples)
		if dwgdraw.DistanceToCurve(b, p) > r.tol {
			return false
		}
	}
	return true
}

// dropDangling removes edges that stick out of the boundary: an edge
// whose neighbors meet each other while it does not lead back to them.
func (r *Reconstructor) dropDangling(edges []dwgdraw.CurvePrimitive, closed bool) []dwgdraw.CurvePrimitive {
	if len(edges) < 3 {
		return edges
	}
	out := make([]dwgdraw.CurvePrimitive, 0, len(edges))
	n := len(edges)
	for i, e := range edges {
		var prev, next dwgdraw.CurvePrimitive
		switch {
		case i > 0:
			prev = edges[i-1]
		case closed:
			prev = edges[n-1]
		}
		switch {
		case i+1 < n:
			next = edges[i+1]
		case closed:
			next = edges[0]
		}
		if prev != nil && next != nil && r.dangles(prev, e, next) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r *Reconstructor) dangles(prev, e, next dwgdraw.CurvePrimitive) bool {
	junction := prev.EndPoint()
	if !junction.Approx(next.StartPoint(), r.tol) {
		return false
	}
	startsAt := e.StartPoint().Approx(junction, r.tol)
	endsAt := e.EndPoint().Approx(junction, r.tol)
	// An edge touching the junction at exactly one end goes nowhere.
	return startsAt != endsAt
}

// gapAt returns the distance from the end of edge i to the start of the
// edge after it.
func gapAt(edges []dwgdraw.CurvePrimitive, i int) float64 {
	next := edges[(i+1)%len(edges)]
	return edges[i].EndPoint().Distance(next.StartPoint())
}

// hasGap reports whether consecutive edges fail to meet exactly.
func (r *Reconstructor) hasGap(edges []dwgdraw.CurvePrimitive, closed bool) bool {
	last := len(edges) - 1
	if closed {
		last++
	}
	for i := range last {
		if gapAt(edges, i) > 0 {
			return true
		}
	}
	return false
}

// closeGapsShortest closes the gaps of the edges in their given order
// and in nearest-neighbor order, and keeps the shorter result.
func (r *Reconstructor) closeGapsShortest(edges []dwgdraw.CurvePrimitive, closed bool) []dwgdraw.CurvePrimitive {
	original := r.closeGaps(edges, closed)
	reordered := r.closeGaps(reorder(edges), closed)
	if pathLength(reordered) < pathLength(original) {
		return reordered
	}
	return original
}

// closeGaps joins consecutive edges. A gap within tolerance is closed
// by moving the start of the following straight edge, or the end of the
// preceding one when the following edge is a curve. Only gaps wider
// than the tolerance get a bridging line.
func (r *Reconstructor) closeGaps(edges []dwgdraw.CurvePrimitive, closed bool) []dwgdraw.CurvePrimitive {
	work := append([]dwgdraw.CurvePrimitive(nil), edges...)
	out := make([]dwgdraw.CurvePrimitive, 0, len(work)+2)
	n := len(work)
	for i := range n {
		out = append(out, work[i])
		if i == n-1 && !closed {
			break
		}
		j := (i + 1) % n
		last := len(out) - 1
		end := out[last].EndPoint()
		start := work[j].StartPoint()
		gap := end.Distance(start)
		if gap == 0 {
			continue
		}
		if gap > r.tol {
			out = append(out, dwgdraw.LineSegment{P0: end, P1: start})
			continue
		}
		if moved, ok := withStart(work[j], end); ok {
			if j == 0 {
				out[0] = moved
			}
			work[j] = moved
			continue
		}
		if moved, ok := withEnd(out[last], start); ok {
			out[last] = moved
		}
		// Two curves meeting within tolerance are left as they are.
	}
	return out
}

// reorder chains edges greedily: starting from the first, it appends
// the remaining edge with an endpoint nearest to the current end,
// reversing it when its end is the nearer one.
func reorder(edges []dwgdraw.CurvePrimitive) []dwgdraw.CurvePrimitive {
	rest := append([]dwgdraw.CurvePrimitive(nil), edges[1:]...)
	out := make([]dwgdraw.CurvePrimitive, 0, len(edges))
	out = append(out, edges[0])
	for len(rest) > 0 {
		end := out[len(out)-1].EndPoint()
		best, bestDist, reverse := 0, -1.0, false
		for k, e := range rest {
			if d := end.Distance(e.StartPoint()); bestDist < 0 || d < bestDist {
				best, bestDist, reverse = k, d, false
			}
			if d := end.Distance(e.EndPoint()); d < bestDist {
				best, bestDist, reverse = k, d, true
			}
		}
		e := rest[best]
		if reverse {
			e = e.Reversed()
		}
		out = append(out, e)
		rest = append(rest[:best], rest[best+1:]...)
	}
	return out
}

// withStart returns a copy of a straight edge starting at p.
func withStart(e dwgdraw.CurvePrimitive, p dwgdraw.Point3) (dwgdraw.CurvePrimitive, bool) {
	switch v := e.(type) {
	case dwgdraw.LineSegment:
		return dwgdraw.LineSegment{P0: p, P1: v.P1}, true
	case *dwgdraw.LineString:
		if len(v.Points) == 0 {
			return nil, false
		}
		pts := append([]dwgdraw.Point3(nil), v.Points...)
		pts[0] = p
		return &dwgdraw.LineString{Points: pts}, true
	default:
		return nil, false
	}
}

// withEnd returns a copy of a straight edge ending at p.
func withEnd(e dwgdraw.CurvePrimitive, p dwgdraw.Point3) (dwgdraw.CurvePrimitive, bool) {
	switch v := e.(type) {
	case dwgdraw.LineSegment:
		return dwgdraw.LineSegment{P0: v.P0, P1: p}, true
	case *dwgdraw.LineString:
		if len(v.Points) == 0 {
			return nil, false
		}
		pts := append([]dwgdraw.Point3(nil), v.Points...)
		pts[len(pts)-1] = p
		return &dwgdraw.LineString{Points: pts}, true
	default:
		return nil, false
	}
}

func pathLength(edges []dwgdraw.CurvePrimitive) float64 {
	var total float64
	for _, e := range edges {
		total += e.Length()
	}
	return total
}
