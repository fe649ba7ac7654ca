// Package dwgdraw turns the draw callback stream of a CAD toolkit into
// semantic geometry with resolved symbology.
//
// # Overview
//
// A toolkit replays a drawing's entities, including nested block
// references, by calling back into a drawable for every primitive. The
// packages of this module consume that stream:
//
//   - symbology: per-entity visual state and ByBlock/ByLayer inheritance
//   - polyline: bulge arcs, variable and constant width outlines, thickness
//   - hatch: boundary loop reconstruction into parity regions
//   - dispatch: the callback contract, frame stacks and the output map
//
// The root package holds the shared value types: ids, colors, line
// weights, entity kinds, 3D points and transforms, curve primitives and
// the other geometry payloads.
//
// # Coordinate System
//
// All geometry is 3D and right-handed. Planar entities carry an
// extrusion direction; [ArbitraryAxis] builds their entity coordinate
// system. Angles are in radians and increase counter-clockwise about
// the plane normal.
//
// # Logging
//
// Nothing is logged by default. Call [SetLogger] to route diagnostics to
// a slog handler. Malformed input is skipped and logged at Info,
// unexpected structure and resolution fallbacks at Warn.
package dwgdraw
