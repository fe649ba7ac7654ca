// Package hatch rebuilds the boundary loops of hatch entities.
//
// Each loop is read either from polyline vertices with bulges or from a
// list of edges. Edge loops are cleaned before use: collapsed arcs,
// repeated and dangling edges are removed, edges are reordered when that
// shortens the loop, and remaining gaps are closed. Loops are then
// classified as outer, inner or open and placed in world coordinates.
//
// A Reconstructor assembles the usable loops of a hatch into a parity
// region:
//
//	r := hatch.New(h, hatch.WithDropHook(func(loop int, err error) {
//		log.Printf("loop %d: %v", loop, err)
//	}))
//	region, err := r.BuildRegion()
package hatch
