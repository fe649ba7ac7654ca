package dwgdraw

import (
	"math"
	"testing"
)

func TestTransformIsIdentity(t *testing.T) {
	tests := []struct {
		name string
		m    Transform
		want bool
	}{
		{"identity", Identity(), true},
		{"zero translation", Translation(Vec3{}), true},
		{"translation", Translation(V3(1, 2, 3)), false},
		{"unit scale", Scaling(1, 1, 1), true},
		{"scale", Scaling(2, 2, 2), false},
		{"rotation 0", RotationZ(0), true},
		{"rotation 90deg", RotationZ(math.Pi / 2), false},
		{"zero matrix", Transform{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsIdentity(); got != tt.want {
				t.Errorf("Transform%+v.IsIdentity() = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestTransformMultiplyOrder(t *testing.T) {
	// Multiply applies the right operand first.
	m := Translation(V3(10, 0, 0)).Multiply(RotationZ(math.Pi / 2))
	got := m.TransformPoint(Pt(1, 0, 0))
	want := Pt(10, 1, 0)
	if !got.Approx(want, 1e-12) {
		t.Errorf("TransformPoint = %+v, want %+v", got, want)
	}
}

func TestTransformInverseRoundTrip(t *testing.T) {
	transforms := []Transform{
		Identity(),
		Translation(V3(-4, 7.5, 2)),
		Scaling(2, 0.5, 3),
		RotationZ(0.3).Multiply(Translation(V3(1, 1, 1))),
		ArbitraryAxis(V3(0.3, -0.2, 0.9)),
		FromAxes(Pt(5, 5, 5), V3(0, 1, 0), V3(-1, 0, 0), V3(0, 0, 2)),
	}
	points := []Point3{Pt(0, 0, 0), Pt(1, 2, 3), Pt(-100, 50.5, -0.25)}

	for i, m := range transforms {
		inv, ok := m.Inverse()
		if !ok {
			t.Fatalf("transform %d: Inverse reported singular", i)
		}
		for _, p := range points {
			back := inv.TransformPoint(m.TransformPoint(p))
			if !back.Approx(p, 1e-9) {
				t.Errorf("transform %d: round trip of %+v = %+v", i, p, back)
			}
		}
	}
}

func TestTransformInverseSingular(t *testing.T) {
	_, ok := Scaling(1, 0, 1).Inverse()
	if ok {
		t.Error("Inverse of a singular transform should report false")
	}
}

func TestArbitraryAxis(t *testing.T) {
	ecs := ArbitraryAxis(UnitZ)
	if !ecs.IsIdentity() {
		t.Errorf("ArbitraryAxis(+Z) = %+v, want identity", ecs)
	}

	flipped := ArbitraryAxis(V3(0, 0, -1))
	x := flipped.ColumnX()
	if !x.Approx(V3(-1, 0, 0), 1e-12) {
		t.Errorf("ArbitraryAxis(-Z) x axis = %+v, want (-1,0,0)", x)
	}
	if d := flipped.Determinant(); math.Abs(d-1) > 1e-12 {
		t.Errorf("ArbitraryAxis(-Z) determinant = %v, want 1", d)
	}
}

func TestTransformHasNaN(t *testing.T) {
	m := Identity()
	if m.HasNaN() {
		t.Error("identity should not report NaN")
	}
	m.XX = math.NaN()
	if !m.HasNaN() {
		t.Error("expected NaN transform to be reported")
	}
}
