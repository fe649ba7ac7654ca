package dwgdraw

import "math"

// Point3 represents a position in 3D space.
type Point3 struct {
	X, Y, Z float64
}

// Pt is a convenience function to create a Point3.
func Pt(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Pt2 creates a Point3 on the XY plane.
func Pt2(x, y float64) Point3 {
	return Point3{X: x, Y: y}
}

// Add returns the point displaced by v.
func (p Point3) Add(v Vec3) Point3 {
	return Point3{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z}
}

// AddScaled returns p + v*s.
func (p Point3) AddScaled(v Vec3, s float64) Point3 {
	return Point3{X: p.X + v.X*s, Y: p.Y + v.Y*s, Z: p.Z + v.Z*s}
}

// Sub returns the vector from q to p.
func (p Point3) Sub(q Point3) Vec3 {
	return Vec3{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Distance returns the distance between two points.
func (p Point3) Distance(q Point3) float64 {
	return p.Sub(q).Length()
}

// DistanceXY returns the distance between two points projected on the XY plane.
func (p Point3) DistanceXY(q Point3) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q, intermediate values interpolate.
func (p Point3) Lerp(q Point3, t float64) Point3 {
	return Point3{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
		Z: p.Z + (q.Z-p.Z)*t,
	}
}

// Approx returns true if two points are within tol of each other.
func (p Point3) Approx(q Point3, tol float64) bool {
	return p.Distance(q) <= tol
}

// IsNaN reports whether any coordinate is NaN.
func (p Point3) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z)
}

// Vec returns the point as a vector from the origin.
func (p Point3) Vec() Vec3 {
	return Vec3(p)
}
