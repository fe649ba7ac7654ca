// Package offset builds filled outlines of polylines whose width varies
// from vertex to vertex.
//
// The outline is made of two parallel offset chains:
//   - Forward chain: each segment offset to the right by half its width
//   - Backward chain: each segment offset to the left by half its width
//
// Consecutive offset segments of a chain meet at the intersection of
// their supporting lines, a miter join without limit. Parallel segments
// fall back to the end point of the earlier segment.
//
// The closed outline is the forward chain followed by the reversed
// backward chain.
//
// # Usage
//
//	e := offset.NewExpander()
//	outline := e.Expand(points, widths)
//
// All computations happen in the XY plane; Z follows the input vertices.
package offset
