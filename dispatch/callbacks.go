package dispatch

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/hatch"
	"github.com/gogpu/dwgdraw/polyline"
	"github.com/gogpu/dwgdraw/symbology"
)

// Geometry is the callback contract the toolkit draws through. All
// coordinates are in the local system of the entity being drawn; the
// current model transform maps them to the target model.
type Geometry interface {
	CircleByCenter(center dwgdraw.Point3, radius float64, normal dwgdraw.Vec3)
	CircleBy3Points(p0, p1, p2 dwgdraw.Point3)
	ArcByCenter(center dwgdraw.Point3, radius float64, normal, startVector dwgdraw.Vec3, sweep float64, arcType ArcType)
	ArcBy3Points(p0, p1, p2 dwgdraw.Point3, arcType ArcType)
	Curve(c *dwgdraw.BSplineCurve)
	Ellipse(arc *dwgdraw.EllipticArc, arcType ArcType)
	Edges(cv *dwgdraw.CurveVector)

	Polyline(points []dwgdraw.Point3, normal *dwgdraw.Vec3, marker int64)
	Pline(src polyline.Source, from, n int)
	Polygon(points []dwgdraw.Point3)
	Mesh(rows, cols int, points []dwgdraw.Point3, edges *EdgeData, faces *FaceData)
	Shell(points []dwgdraw.Point3, faceList []int, edges *EdgeData, faces *FaceData)
	Hatch(h *hatch.Hatch, solid bool, gradient *symbology.GradientFill) error

	Text(pos dwgdraw.Point3, normal, xdir dwgdraw.Vec3, height, width, oblique float64, s string)
	StyledText(pos dwgdraw.Point3, normal, xdir dwgdraw.Vec3, s string, raw bool, style *TextStyle)

	Xline(p1, p2 dwgdraw.Point3)
	Ray(origin, through dwgdraw.Point3)
	RowOfDots(count int, start dwgdraw.Point3, step dwgdraw.Vec3)
	WorldLine(p0, p1 dwgdraw.Point3)
	Image(img ImageBGRA, origin dwgdraw.Point3, u, v dwgdraw.Vec3)

	PushModelTransform(t dwgdraw.Transform)
	PopModelTransform()
	ModelTransform() dwgdraw.Transform
	PushClipBoundary(c ClipBoundary)
	PopClipBoundary()

	// State returns the symbology draw methods may change.
	State() *symbology.VisualState
	// Draw draws a nested block or entity.
	Draw(dr Drawable) error
}

var _ Geometry = (*Dispatcher)(nil)

// ArcType tells how an arc is closed.
type ArcType uint8

const (
	// ArcSimple is an open arc.
	ArcSimple ArcType = iota
	// ArcSector is closed through the center.
	ArcSector
	// ArcChord is closed by the chord.
	ArcChord
)

// ClipBoundary is a clip volume pushed around nested geometry.
type ClipBoundary struct {
	Points    []dwgdraw.Point3
	Normal    dwgdraw.Vec3
	Transform dwgdraw.Transform
	// Front and Back bound the volume along Normal when clipping is on.
	Front, Back         float64
	ClipFront, ClipBack bool
}

// ImageBGRA is an uncompressed 32-bit image with bytes in B, G, R, A order.
type ImageBGRA struct {
	Width, Height int
	Pix           []byte
}

// Distances beyond maxCoordinate are treated as garbage input.
const maxCoordinate = 1e12

// defaultInfiniteLength sizes rays and construction lines when the
// drawing extents are unknown.
const defaultInfiniteLength = 1e5

func validPoint(p dwgdraw.Point3) bool {
	for _, c := range [...]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) || math.Abs(c) > maxCoordinate {
			return false
		}
	}
	return true
}

// validPoints reports whether every point is finite and in range.
func validPoints(points []dwgdraw.Point3) bool {
	for _, p := range points {
		if !validPoint(p) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) malformed(what string, args ...any) {
	d.opts.metrics.skipped(SkipMalformed)
	dwgdraw.Logger().Info("dispatch: skipping "+what, args...)
}

func (d *Dispatcher) unexpected(what string, args ...any) {
	d.opts.metrics.skipped(SkipUnexpected)
	dwgdraw.Logger().Warn("dispatch: "+what, args...)
}

// withThickness extrudes a profile by the entity thickness when the
// target is 3D.
func (d *Dispatcher) withThickness(cv *dwgdraw.CurveVector, normal dwgdraw.Vec3, capped bool) dwgdraw.Geometry {
	if d.opts.target2d {
		return cv
	}
	if ext, ok := polyline.ApplyThickness(cv, normal, d.state.Thickness(), capped); ok {
		return ext
	}
	return cv
}

func single(b dwgdraw.BoundaryType, p dwgdraw.CurvePrimitive) *dwgdraw.CurveVector {
	cv := dwgdraw.NewCurveVector(b)
	cv.Append(p)
	return cv
}

// CircleByCenter draws a circle, extruded when the entity has thickness.
func (d *Dispatcher) CircleByCenter(center dwgdraw.Point3, radius float64, normal dwgdraw.Vec3) {
	if !validPoint(center) || !(radius > 0) {
		d.malformed("circle", "center", center, "radius", radius)
		return
	}
	arc := dwgdraw.CircularArc(center, radius, normal, 0, 2*math.Pi)
	d.appendGeometry(d.withThickness(single(dwgdraw.BoundaryOuter, arc), normal, true))
}

// CircleBy3Points draws the circle through three points, extruded like
// CircleByCenter.
func (d *Dispatcher) CircleBy3Points(p0, p1, p2 dwgdraw.Point3) {
	arc, ok := dwgdraw.CircleFrom3Points(p0, p1, p2)
	if !ok {
		d.malformed("circle through collinear points")
		return
	}
	d.appendGeometry(d.withThickness(single(dwgdraw.BoundaryOuter, arc), arc.Normal(), true))
}

// ArcByCenter draws a circular arc starting along startVector. Sector
// and chord arcs are not drawn.
func (d *Dispatcher) ArcByCenter(center dwgdraw.Point3, radius float64, normal, startVector dwgdraw.Vec3, sweep float64, arcType ArcType) {
	if arcType != ArcSimple {
		return
	}
	n := normal.Normalize()
	x := startVector.Normalize()
	if !validPoint(center) || !(radius > 0) || n.IsZero() || x.IsZero() {
		d.malformed("arc", "center", center, "radius", radius)
		return
	}
	arc := &dwgdraw.EllipticArc{
		Center: center,
		V0:     x.Mul(radius),
		V90:    n.Cross(x).Normalize().Mul(radius),
		Sweep:  sweep,
	}
	d.appendGeometry(d.withThickness(single(dwgdraw.BoundaryOpen, arc), n, false))
}

// ArcBy3Points draws the arc from p0 through p1 to p2.
func (d *Dispatcher) ArcBy3Points(p0, p1, p2 dwgdraw.Point3, arcType ArcType) {
	if arcType != ArcSimple {
		return
	}
	arc, ok := dwgdraw.ArcFrom3Points(p0, p1, p2)
	if !ok {
		d.malformed("arc through collinear points")
		return
	}
	d.appendGeometry(d.withThickness(single(dwgdraw.BoundaryOpen, arc), arc.Normal(), false))
}

// Curve draws a B-spline.
func (d *Dispatcher) Curve(c *dwgdraw.BSplineCurve) {
	if c == nil || len(c.Poles) < 2 {
		d.malformed("curve without poles")
		return
	}
	b := dwgdraw.BoundaryOpen
	if c.Closed {
		b = dwgdraw.BoundaryOuter
	}
	d.appendGeometry(single(b, c))
}

// Ellipse draws an elliptic arc or a full ellipse. Sector and chord
// arcs are not drawn.
func (d *Dispatcher) Ellipse(arc *dwgdraw.EllipticArc, arcType ArcType) {
	if arcType != ArcSimple || arc == nil {
		return
	}
	b := dwgdraw.BoundaryOpen
	if arc.IsFullEllipse() {
		b = dwgdraw.BoundaryOuter
	}
	d.appendGeometry(single(b, arc))
}

// Edges draws a prepared path as is.
func (d *Dispatcher) Edges(cv *dwgdraw.CurveVector) {
	if cv == nil || cv.IsEmpty() {
		d.malformed("empty edge set")
		return
	}
	d.appendGeometry(cv)
}

// Polyline draws a point array. When a normal is given the polyline
// is extruded by the entity thickness.
func (d *Dispatcher) Polyline(points []dwgdraw.Point3, normal *dwgdraw.Vec3, marker int64) {
	if len(points) < 2 || !validPoints(points) {
		d.malformed("polyline", "points", len(points))
		return
	}
	if marker >= 0 {
		d.state.SetSelectionMarker(marker)
	}
	cv := polyline.NewPointsFactory(points, false).CurveVector()
	if cv == nil {
		d.malformed("degenerate polyline", "points", len(points))
		return
	}
	if normal != nil {
		d.appendGeometry(d.withThickness(cv, *normal, false))
		return
	}
	d.appendGeometry(cv)
}

// Pline draws n segments of a polyline entity starting at vertex from.
// A non-positive n draws the whole polyline.
//
// Widths turn the path into a filled outline drawn with a continuous
// linetype. Shaded and rendered views draw closed polylines open.
func (d *Dispatcher) Pline(src polyline.Source, from, n int) {
	if from > 0 || n > 0 {
		src = newSegmentRange(src, from, n)
	}
	f := polyline.NewFactory(src, d.regen.IsRendered())
	cv := f.CurveVector()
	if cv == nil {
		d.malformed("degenerate polyline", "vertices", src.NumVerts())
		return
	}
	if shape := f.ApplyConstantWidth(cv); shape != nil {
		cv = shape
	}
	if f.HasAppliedWidths() {
		d.state.SetFillType(symbology.FillAlways)
		d.state.SetLinetypeContinuous()
	}
	if d.opts.target2d {
		d.appendGeometry(cv)
		return
	}
	if ext := f.ApplyThickness(cv); ext != nil {
		d.state.SetLinetypeContinuous()
		d.appendGeometry(ext)
		return
	}
	d.appendGeometry(cv)
}

// Polygon draws a closed point array, extruded in a 3D model.
func (d *Dispatcher) Polygon(points []dwgdraw.Point3) {
	if len(points) < 3 || !validPoints(points) {
		d.malformed("polygon", "points", len(points))
		return
	}
	f := polyline.NewPointsFactory(points, true)
	cv := f.CurveVector()
	if cv == nil {
		d.malformed("degenerate polygon", "points", len(points))
		return
	}
	d.appendGeometry(d.withThickness(cv, dwgdraw.UnitZ, true))
}

// Hatch draws the boundary of a hatch as a region. Solid and gradient
// hatches are filled. Loops that cannot be closed are left out. When no
// loop survives nothing is drawn and an error wrapping
// hatch.ErrNoUsableLoops is returned, so the caller can draw the hatch
// some other way.
func (d *Dispatcher) Hatch(h *hatch.Hatch, solid bool, gradient *symbology.GradientFill) error {
	r := hatch.New(h, hatch.WithDropHook(func(int, error) {
		d.opts.metrics.hatchLoopDropped()
	}))
	region, err := r.BuildRegion()
	if err != nil {
		d.unexpected("hatch without usable loops", "loops", len(h.Loops), "err", err)
		return fmt.Errorf("dispatch: hatch with %d loops: %w", len(h.Loops), err)
	}
	switch {
	case h.Gradient && gradient != nil:
		d.state.SetFillType(symbology.FillAlways)
		d.state.SetGradientFromHatch(gradient)
	case solid:
		d.state.SetFillType(symbology.FillAlways)
	}
	d.appendGeometry(region)
	return nil
}

// infiniteLength is the half length of construction lines.
func (d *Dispatcher) infiniteLength() float64 {
	if d.opts.hasExtents {
		if diag := d.opts.extMax.Distance(d.opts.extMin); diag > 0 && !math.IsInf(diag, 0) {
			return 2 * diag
		}
	}
	return defaultInfiniteLength
}

// Xline draws an infinite line through p1 and p2 as a long segment
// centered on p1.
func (d *Dispatcher) Xline(p1, p2 dwgdraw.Point3) {
	v := p2.Sub(p1).Normalize()
	if !validPoint(p1) || v.IsZero() || v.IsNaN() {
		d.malformed("xline", "p1", p1, "p2", p2)
		return
	}
	l := d.infiniteLength()
	d.appendGeometry(single(dwgdraw.BoundaryOpen, dwgdraw.LineSegment{
		P0: p1.AddScaled(v, -l),
		P1: p1.AddScaled(v, l),
	}))
}

// Ray draws a half-infinite line from origin through the given point.
func (d *Dispatcher) Ray(origin, through dwgdraw.Point3) {
	v := through.Sub(origin).Normalize()
	if !validPoint(origin) || v.IsZero() || v.IsNaN() {
		d.malformed("ray", "origin", origin, "through", through)
		return
	}
	d.appendGeometry(single(dwgdraw.BoundaryOpen, dwgdraw.LineSegment{
		P0: origin,
		P1: origin.AddScaled(v, d.infiniteLength()),
	}))
}

// RowOfDots draws count points spaced by step.
func (d *Dispatcher) RowOfDots(count int, start dwgdraw.Point3, step dwgdraw.Vec3) {
	if count <= 0 || !validPoint(start) {
		d.malformed("row of dots", "count", count)
		return
	}
	pts := make([]dwgdraw.Point3, count)
	for i := range pts {
		pts[i] = start.AddScaled(step, float64(i))
	}
	d.appendGeometry(&dwgdraw.PointString{Points: pts})
}

// WorldLine draws a segment given in world coordinates. Model
// transforms do not apply to it.
func (d *Dispatcher) WorldLine(p0, p1 dwgdraw.Point3) {
	if !validPoint(p0) || !validPoint(p1) {
		d.malformed("world line", "p0", p0, "p1", p1)
		return
	}
	d.appendWithTransform(single(dwgdraw.BoundaryOpen, dwgdraw.LineSegment{P0: p0, P1: p1}), d.opts.base)
}

// Image draws a raster. u and v are the extents of one pixel along the
// image rows and columns.
func (d *Dispatcher) Image(img ImageBGRA, origin dwgdraw.Point3, u, v dwgdraw.Vec3) {
	if img.Width <= 0 || img.Height <= 0 || len(img.Pix) < img.Width*img.Height*4 {
		d.malformed("image", "width", img.Width, "height", img.Height, "bytes", len(img.Pix))
		return
	}
	pix := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height*4; i += 4 {
		pix.Pix[i+0] = img.Pix[i+2]
		pix.Pix[i+1] = img.Pix[i+1]
		pix.Pix[i+2] = img.Pix[i+0]
		pix.Pix[i+3] = img.Pix[i+3]
	}
	d.appendGeometry(&dwgdraw.Image{Origin: origin, U: u, V: v, Pixels: pix})
}

// PushModelTransform composes t with the current model transform. A
// transform with NaN entries is replaced by the identity.
func (d *Dispatcher) PushModelTransform(t dwgdraw.Transform) {
	if t.HasNaN() {
		dwgdraw.Logger().Info("dispatch: NaN model transform, using identity")
		t = dwgdraw.Identity()
	}
	if n := len(d.transforms); n > 0 {
		t = d.transforms[n-1].Multiply(t)
	}
	d.transforms = append(d.transforms, t)
}

// PopModelTransform restores the model transform before the last push.
func (d *Dispatcher) PopModelTransform() {
	n := len(d.transforms)
	if n == 0 {
		dwgdraw.Logger().Warn("dispatch: pop of empty model transform stack")
		return
	}
	d.transforms = d.transforms[:n-1]
}

// ModelTransform returns the composed model transform, without the
// base transform.
func (d *Dispatcher) ModelTransform() dwgdraw.Transform {
	if n := len(d.transforms); n > 0 {
		return d.transforms[n-1]
	}
	return dwgdraw.Identity()
}

func (d *Dispatcher) currentTransform() dwgdraw.Transform {
	return d.opts.base.Multiply(d.ModelTransform())
}

// PushClipBoundary records a clip boundary. Geometry is not clipped.
func (d *Dispatcher) PushClipBoundary(c ClipBoundary) {
	d.clips = append(d.clips, c)
	dwgdraw.Logger().Debug("dispatch: push clip boundary", "points", len(c.Points), "depth", len(d.clips))
}

// PopClipBoundary drops the last clip boundary.
func (d *Dispatcher) PopClipBoundary() {
	n := len(d.clips)
	if n == 0 {
		dwgdraw.Logger().Warn("dispatch: pop of empty clip stack")
		return
	}
	d.clips = d.clips[:n-1]
	dwgdraw.Logger().Debug("dispatch: pop clip boundary", "depth", len(d.clips))
}

// ClipDepth returns the number of clip boundaries pushed.
func (d *Dispatcher) ClipDepth() int { return len(d.clips) }
