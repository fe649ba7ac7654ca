package dispatch

import (
	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/polyline"
)

// segmentRange exposes a run of consecutive segments of a polyline as
// an open polyline of its own.
type segmentRange struct {
	polyline.Source
	from, count, total int
}

func newSegmentRange(src polyline.Source, from, n int) polyline.Source {
	total := src.NumVerts()
	available := total - 1
	if src.IsClosed() {
		available = total
	}
	from = max(from, 0)
	segs := available - from
	if n > 0 && n < segs {
		segs = n
	}
	segs = max(segs, 0)
	if from == 0 && segs == available {
		return src
	}
	return &segmentRange{Source: src, from: from, count: segs + 1, total: total}
}

func (r *segmentRange) index(i int) int { return (r.from + i) % r.total }

func (r *segmentRange) NumVerts() int {
	if r.total == 0 {
		return 0
	}
	return r.count
}

func (r *segmentRange) Point(i int) dwgdraw.Point3 { return r.Source.Point(r.index(i)) }

func (r *segmentRange) Bulge(i int) float64 {
	if i >= r.count-1 {
		return 0
	}
	return r.Source.Bulge(r.index(i))
}

func (r *segmentRange) Widths(i int) (start, end float64) {
	if i >= r.count-1 {
		return 0, 0
	}
	return r.Source.Widths(r.index(i))
}

func (r *segmentRange) IsClosed() bool { return false }
