package dwgdraw

import "math"

// Transform represents a 3D affine transformation matrix.
// It uses a 3x4 matrix in row-major order:
//
//	| xx  xy  xz  tx |
//	| yx  yy  yz  ty |
//	| zx  zy  zz  tz |
//
// This represents the transformation:
//
//	x' = xx*x + xy*y + xz*z + tx
//	y' = yx*x + yy*y + yz*z + ty
//	z' = zx*x + zy*y + zz*z + tz
type Transform struct {
	XX, XY, XZ, TX float64
	YX, YY, YZ, TY float64
	ZX, ZY, ZZ, TZ float64
}

// Identity returns the identity transformation.
func Identity() Transform {
	return Transform{XX: 1, YY: 1, ZZ: 1}
}

// Translation creates a translation transform.
func Translation(v Vec3) Transform {
	return Transform{
		XX: 1, TX: v.X,
		YY: 1, TY: v.Y,
		ZZ: 1, TZ: v.Z,
	}
}

// Scaling creates a scaling transform.
func Scaling(sx, sy, sz float64) Transform {
	return Transform{XX: sx, YY: sy, ZZ: sz}
}

// RotationZ creates a rotation about the Z axis (angle in radians).
func RotationZ(angle float64) Transform {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Transform{
		XX: cos, XY: -sin,
		YX: sin, YY: cos,
		ZZ: 1,
	}
}

// FromAxes creates a transform whose columns are the given axes and whose
// translation is origin.
func FromAxes(origin Point3, x, y, z Vec3) Transform {
	return Transform{
		XX: x.X, XY: y.X, XZ: z.X, TX: origin.X,
		YX: x.Y, YY: y.Y, YZ: z.Y, TY: origin.Y,
		ZX: x.Z, ZY: y.Z, ZZ: z.Z, TZ: origin.Z,
	}
}

// FromXZ builds a rotation from an x direction and a normal. The y axis
// completes a right-handed frame.
func FromXZ(xdir, normal Vec3) Transform {
	z := normal.Normalize()
	x := xdir.Normalize()
	y := z.Cross(x).Normalize()
	return FromAxes(Point3{}, x, y, z)
}

// ArbitraryAxis returns the entity coordinate system for a planar entity
// whose extrusion direction is normal.
func ArbitraryAxis(normal Vec3) Transform {
	const limit = 1.0 / 64.0
	n := normal.Normalize()
	if n.IsZero() {
		return Identity()
	}
	var ax Vec3
	if math.Abs(n.X) < limit && math.Abs(n.Y) < limit {
		ax = V3(0, 1, 0).Cross(n)
	} else {
		ax = UnitZ.Cross(n)
	}
	ax = ax.Normalize()
	ay := n.Cross(ax).Normalize()
	return FromAxes(Point3{}, ax, ay, n)
}

// Multiply multiplies two transforms (t * other). The result applies other first.
func (t Transform) Multiply(other Transform) Transform {
	return Transform{
		XX: t.XX*other.XX + t.XY*other.YX + t.XZ*other.ZX,
		XY: t.XX*other.XY + t.XY*other.YY + t.XZ*other.ZY,
		XZ: t.XX*other.XZ + t.XY*other.YZ + t.XZ*other.ZZ,
		TX: t.XX*other.TX + t.XY*other.TY + t.XZ*other.TZ + t.TX,

		YX: t.YX*other.XX + t.YY*other.YX + t.YZ*other.ZX,
		YY: t.YX*other.XY + t.YY*other.YY + t.YZ*other.ZY,
		YZ: t.YX*other.XZ + t.YY*other.YZ + t.YZ*other.ZZ,
		TY: t.YX*other.TX + t.YY*other.TY + t.YZ*other.TZ + t.TY,

		ZX: t.ZX*other.XX + t.ZY*other.YX + t.ZZ*other.ZX,
		ZY: t.ZX*other.XY + t.ZY*other.YY + t.ZZ*other.ZY,
		ZZ: t.ZX*other.XZ + t.ZY*other.YZ + t.ZZ*other.ZZ,
		TZ: t.ZX*other.TX + t.ZY*other.TY + t.ZZ*other.TZ + t.TZ,
	}
}

// TransformPoint applies the transformation to a point.
func (t Transform) TransformPoint(p Point3) Point3 {
	return Point3{
		X: t.XX*p.X + t.XY*p.Y + t.XZ*p.Z + t.TX,
		Y: t.YX*p.X + t.YY*p.Y + t.YZ*p.Z + t.TY,
		Z: t.ZX*p.X + t.ZY*p.Y + t.ZZ*p.Z + t.TZ,
	}
}

// TransformPoints transforms points in place.
func (t Transform) TransformPoints(points []Point3) {
	for i := range points {
		points[i] = t.TransformPoint(points[i])
	}
}

// TransformVector applies the transformation to a vector (no translation).
func (t Transform) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: t.XX*v.X + t.XY*v.Y + t.XZ*v.Z,
		Y: t.YX*v.X + t.YY*v.Y + t.YZ*v.Z,
		Z: t.ZX*v.X + t.ZY*v.Y + t.ZZ*v.Z,
	}
}

// ColumnX returns the image of the x axis.
func (t Transform) ColumnX() Vec3 { return Vec3{X: t.XX, Y: t.YX, Z: t.ZX} }

// ColumnY returns the image of the y axis.
func (t Transform) ColumnY() Vec3 { return Vec3{X: t.XY, Y: t.YY, Z: t.ZY} }

// ColumnZ returns the image of the z axis.
func (t Transform) ColumnZ() Vec3 { return Vec3{X: t.XZ, Y: t.YZ, Z: t.ZZ} }

// Origin returns the translation part.
func (t Transform) Origin() Point3 { return Point3{X: t.TX, Y: t.TY, Z: t.TZ} }

// Determinant returns the determinant of the linear part.
func (t Transform) Determinant() float64 {
	return t.XX*(t.YY*t.ZZ-t.YZ*t.ZY) -
		t.XY*(t.YX*t.ZZ-t.YZ*t.ZX) +
		t.XZ*(t.YX*t.ZY-t.YY*t.ZX)
}

// Inverse returns the inverse transform.
// The second result is false if the transform is singular.
func (t Transform) Inverse() (Transform, bool) {
	det := t.Determinant()
	if math.Abs(det) < 1e-14 {
		return Identity(), false
	}
	inv := 1.0 / det
	r := Transform{
		XX: (t.YY*t.ZZ - t.YZ*t.ZY) * inv,
		XY: (t.XZ*t.ZY - t.XY*t.ZZ) * inv,
		XZ: (t.XY*t.YZ - t.XZ*t.YY) * inv,
		YX: (t.YZ*t.ZX - t.YX*t.ZZ) * inv,
		YY: (t.XX*t.ZZ - t.XZ*t.ZX) * inv,
		YZ: (t.XZ*t.YX - t.XX*t.YZ) * inv,
		ZX: (t.YX*t.ZY - t.YY*t.ZX) * inv,
		ZY: (t.XY*t.ZX - t.XX*t.ZY) * inv,
		ZZ: (t.XX*t.YY - t.XY*t.YX) * inv,
	}
	o := r.TransformVector(Vec3{X: t.TX, Y: t.TY, Z: t.TZ})
	r.TX, r.TY, r.TZ = -o.X, -o.Y, -o.Z
	return r, true
}

// IsIdentity returns true if the transform is the identity within 1e-12.
func (t Transform) IsIdentity() bool {
	const eps = 1e-12
	near := func(a, b float64) bool { return math.Abs(a-b) <= eps }
	return near(t.XX, 1) && near(t.XY, 0) && near(t.XZ, 0) && near(t.TX, 0) &&
		near(t.YX, 0) && near(t.YY, 1) && near(t.YZ, 0) && near(t.TY, 0) &&
		near(t.ZX, 0) && near(t.ZY, 0) && near(t.ZZ, 1) && near(t.TZ, 0)
}

// HasNaN reports whether the transform is unusable.
func (t Transform) HasNaN() bool {
	return math.IsNaN(t.ColumnX().Length()) || t.ColumnY().IsNaN() ||
		t.ColumnZ().IsNaN() || t.Origin().IsNaN()
}
