// Package polyline builds curve geometry from polyline vertex data.
//
// A [Model] holds the normalized vertices of a polyline with their
// bulge factors and segment widths. [BuildCurveGeometry] turns it into
// line strings and circular arcs; [BuildVariableWidthShape] and
// [ApplyConstantWidth] turn a wide polyline into a filled outline;
// [ApplyThickness] extrudes a path. [Factory] combines these steps.
package polyline
