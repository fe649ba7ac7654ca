package polyline

import (
	"github.com/gogpu/dwgdraw"
)

// Factory builds the geometry of one polyline the way the draw
// dispatcher emits it: a width outline when the polyline has widths,
// the plain path otherwise, and an extrusion when it has thickness.
type Factory struct {
	model   *Model
	applied bool
	// world is set for bare point arrays, whose points carry their own z.
	world bool
}

// NewFactory creates a factory for a polyline entity. forceOpen draws a
// closed polyline as an open path, as shaded and rendered views do.
func NewFactory(src Source, forceOpen bool) *Factory {
	return &Factory{model: FromEntity(src, !forceOpen)}
}

// NewPointsFactory creates a factory for a bare point array.
func NewPointsFactory(points []dwgdraw.Point3, closed bool) *Factory {
	return &Factory{model: FromPoints(points, closed), world: true}
}

// Model returns the normalized vertex data.
func (f *Factory) Model() *Model { return f.model }

// CurveVector returns the path of the polyline, or its variable-width
// outline when that applies. Nil means nothing can be drawn.
func (f *Factory) CurveVector() *dwgdraw.CurveVector {
	if shape, ok := BuildVariableWidthShape(f.model); ok {
		f.applied = true
		return shape
	}
	return BuildCurveGeometry(f.model, !f.world)
}

// ApplyConstantWidth returns the constant-width outline of cv, or nil
// when the polyline has no constant width or cv cannot be outlined.
func (f *Factory) ApplyConstantWidth(cv *dwgdraw.CurveVector) *dwgdraw.CurveVector {
	if f.model.ConstantWidth == nil {
		return nil
	}
	shape, ok := ApplyConstantWidth(cv, *f.model.ConstantWidth, f.model.ECS)
	if !ok {
		return nil
	}
	f.applied = true
	return shape
}

// HasAppliedWidths reports whether a width outline replaced the path.
// Such outlines are drawn filled with a continuous linetype.
func (f *Factory) HasAppliedWidths() bool { return f.applied }

// ApplyThickness extrudes cv along the polyline normal by its thickness.
func (f *Factory) ApplyThickness(cv *dwgdraw.CurveVector) *dwgdraw.Extrusion {
	closed := f.model.Closed || (cv != nil && cv.Boundary.IsClosed())
	ext, ok := ApplyThickness(cv, f.model.Normal, f.model.Thickness, closed)
	if !ok {
		return nil
	}
	return ext
}
