package dwgdraw

import (
	"math"
	"testing"
)

func TestVec3_Cross(t *testing.T) {
	tests := []struct {
		name   string
		v, w   Vec3
		expect Vec3
	}{
		{"x cross y", V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)},
		{"y cross x", V3(0, 1, 0), V3(1, 0, 0), V3(0, 0, -1)},
		{"parallel", V3(2, 0, 0), V3(5, 0, 0), V3(0, 0, 0)},
		{"general", V3(1, 2, 3), V3(4, 5, 6), V3(-3, 6, -3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v.Cross(tt.w)
			if !result.Approx(tt.expect, 1e-12) {
				t.Errorf("%v.Cross(%v) = %v, want %v", tt.v, tt.w, result, tt.expect)
			}
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name   string
		v      Vec3
		expect Vec3
	}{
		{"unit x", V3(3, 0, 0), V3(1, 0, 0)},
		{"3-4-0", V3(3, 4, 0), V3(0.6, 0.8, 0)},
		{"zero", V3(0, 0, 0), V3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v.Normalize()
			if !result.Approx(tt.expect, 1e-12) {
				t.Errorf("%v.Normalize() = %v, want %v", tt.v, result, tt.expect)
			}
		})
	}
}

func TestVec3_PerpXY(t *testing.T) {
	v := V3(1, 0, 5).PerpXY()
	if !v.Approx(V3(0, 1, 0), 1e-12) {
		t.Errorf("PerpXY = %v, want (0,1,0)", v)
	}
	if got := V3(1, 0, 0).CrossXY(V3(0, 1, 0)); got != 1 {
		t.Errorf("CrossXY = %v, want 1", got)
	}
}

func TestVec3_Angle(t *testing.T) {
	got := V3(1, 0, 0).Angle(V3(0, 0, 3))
	if math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("Angle = %v, want pi/2", got)
	}
}

func TestPoint3_Distance(t *testing.T) {
	p := Pt(1, 2, 3)
	q := Pt(4, 6, 3)
	if got := p.Distance(q); math.Abs(got-5) > 1e-12 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := Pt(0, 0, 0).DistanceXY(Pt(3, 4, 100)); math.Abs(got-5) > 1e-12 {
		t.Errorf("DistanceXY = %v, want 5", got)
	}
	if !p.Approx(Pt(1, 2, 3+1e-9), 1e-6) {
		t.Error("Approx rejected nearly equal points")
	}
	if !Pt(math.NaN(), 0, 0).IsNaN() {
		t.Error("IsNaN = false for NaN point")
	}
}
