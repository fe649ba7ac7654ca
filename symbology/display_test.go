package symbology

import (
	"math"
	"testing"

	"github.com/gogpu/dwgdraw"
)

func TestDefaultWeightMap(t *testing.T) {
	tests := []struct {
		w    dwgdraw.LineWeight
		want uint32
	}{
		{dwgdraw.WeightByLayer, 0},
		{dwgdraw.WeightByDefault, 0},
		{0, 0},
		{5, 1},
		{13, 3},
		{14, 4},
		{50, 11},
		{211, 23},
		{400, 23},
	}
	for _, tt := range tests {
		if got := DefaultWeightMap(tt.w); got != tt.want {
			t.Errorf("DefaultWeightMap(%d) = %d, want %d", tt.w, got, tt.want)
		}
	}
}

func TestDisplayParamsByLayerInModelSpace(t *testing.T) {
	db := testDB()
	s := rootState(byLayerEntity(db, layerRed, db.Hdr.ModelSpace))

	dp := s.DisplayParams(ProjectionContext{Category: 7, SubCategory: 8})
	if dp.Category != 7 || dp.SubCategory != 8 {
		t.Errorf("category = %d/%d, want 7/8", dp.Category, dp.SubCategory)
	}
	if dp.LineColor != nil || dp.LineStyle != nil || dp.Weight != nil || dp.Material != nil || dp.Transparency != nil {
		t.Errorf("ByLayer entity got overrides: %+v", dp)
	}
	if dp.GeometryClass != GeometryClassPrimary {
		t.Errorf("GeometryClass = %d, want primary", dp.GeometryClass)
	}
}

func TestDisplayParamsOverrides(t *testing.T) {
	db := testDB()
	ent := byLayerEntity(db, layerRed, db.Hdr.ModelSpace)
	ent.Color = dwgdraw.ColorIndex(3)
	ent.Weight = 50
	ent.Transparency = dwgdraw.Transparency{Method: dwgdraw.TransparencyByAlpha, Alpha: 0}
	s := rootState(ent)

	dp := s.DisplayParams(ProjectionContext{})
	if dp.LineColor == nil || *dp.LineColor != (dwgdraw.ColorDef{R: 0, G: 255, B: 0}) {
		t.Errorf("LineColor = %v, want green", dp.LineColor)
	}
	if dp.Weight == nil || *dp.Weight != 11 {
		t.Errorf("Weight = %v, want 11", dp.Weight)
	}
	if dp.Transparency == nil || *dp.Transparency != 1 {
		t.Errorf("Transparency = %v, want 1", dp.Transparency)
	}
	if dp.FillTransparency != nil {
		t.Error("FillTransparency set on an unfilled entity")
	}
	if dp.LineStyle != nil {
		t.Errorf("ByLayer linetype got override %+v", dp.LineStyle)
	}
}

func TestDisplayParamsLayerZeroInBlock(t *testing.T) {
	db := testDB()
	parent := rootState(byLayerEntity(db, layerRed, db.Hdr.ModelSpace))
	child := NewVisualState(byLayerEntity(db, db.Hdr.Layer0, blockDef), &parent)

	dp := child.DisplayParams(ProjectionContext{})
	if dp.LineColor == nil || *dp.LineColor != (dwgdraw.ColorDef{R: 255}) {
		t.Errorf("LineColor = %v, want red from the parent layer", dp.LineColor)
	}
	if dp.LineStyle == nil || dp.LineStyle.Linetype != ltDashed {
		t.Errorf("LineStyle = %+v, want dashed", dp.LineStyle)
	}

	// The same entity owned by a layout may use ByLayer.
	db.Layouts[blockDef] = true
	child = NewVisualState(byLayerEntity(db, db.Hdr.Layer0, blockDef), &parent)
	if dp := child.DisplayParams(ProjectionContext{}); dp.LineColor != nil {
		t.Errorf("layout-owned layer 0 entity got color override %v", dp.LineColor)
	}
}

func TestDisplayParamsLinetypeScale(t *testing.T) {
	db := testDB()
	db.Hdr.MSLTScale = true
	db.Hdr.AnnotationScale = 4

	tests := []struct {
		name      string
		linetype  dwgdraw.ObjectID
		scale     float64
		wantScale float64
	}{
		{"annotation scaled", ltHidden, 2, 0.5},
		{"unit after scaling", ltHidden, 4, 0},
		{"continuous ignores scale", db.Hdr.LinetypeContinuous, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ent := byLayerEntity(db, layerRed, db.Hdr.ModelSpace)
			ent.Linetype = tt.linetype
			ent.LinetypeScale = tt.scale
			s := rootState(ent)

			dp := s.DisplayParams(ProjectionContext{})
			if dp.LineStyle == nil {
				t.Fatal("no line style override")
			}
			if math.Abs(dp.LineStyle.Scale-tt.wantScale) > 1e-12 {
				t.Errorf("Scale = %v, want %v", dp.LineStyle.Scale, tt.wantScale)
			}
		})
	}
}

func TestFillDisplay(t *testing.T) {
	db := testDB()
	width := 0.5

	tests := []struct {
		name string
		kind dwgdraw.EntityKind
		fill FillType
		want FillDisplay
	}{
		{"solid filled", dwgdraw.Solid{}, FillAlways, FillDisplayAlways},
		{"solid default", dwgdraw.Solid{}, FillDefault, FillDisplayNever},
		{"lwpolyline without width", dwgdraw.LWPolyline{}, FillAlways, FillDisplayNever},
		{"lwpolyline with width", dwgdraw.LWPolyline{ConstantWidth: &width}, FillAlways, FillDisplayAlways},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ent := byLayerEntity(db, layerRed, db.Hdr.ModelSpace)
			ent.Kind = tt.kind
			s := rootState(ent)
			s.SetFillType(tt.fill)
			if got := s.FillDisplay(); got != tt.want {
				t.Errorf("FillDisplay = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDisplayParamsFill(t *testing.T) {
	db := testDB()
	ent := byLayerEntity(db, layerRed, db.Hdr.ModelSpace)
	ent.Kind = dwgdraw.Solid{}
	ent.Transparency = dwgdraw.Transparency{Method: dwgdraw.TransparencyByAlpha, Alpha: 255}
	s := rootState(ent)
	s.SetFillType(FillAlways)

	dp := s.DisplayParams(ProjectionContext{})
	if dp.FillColor == nil || *dp.FillColor != (dwgdraw.ColorDef{R: 255}) {
		t.Errorf("FillColor = %v, want red", dp.FillColor)
	}
	if dp.FillTransparency == nil || *dp.FillTransparency != 0 {
		t.Errorf("FillTransparency = %v, want 0", dp.FillTransparency)
	}

	s.SetGradientFromHatch(&GradientFill{Name: "LINEAR", Colors: []dwgdraw.ColorDef{{R: 1}, {B: 1}}})
	dp = s.DisplayParams(ProjectionContext{})
	if dp.Gradient == nil || dp.Gradient.Name != "LINEAR" {
		t.Errorf("Gradient = %+v, want LINEAR", dp.Gradient)
	}
	if dp.FillColor != nil {
		t.Error("FillColor set alongside a gradient")
	}
}

func TestDisplayParamsCustomWeightMap(t *testing.T) {
	db := testDB()
	ent := byLayerEntity(db, layerRed, db.Hdr.ModelSpace)
	ent.Weight = 30
	s := rootState(ent)

	dp := s.DisplayParams(ProjectionContext{
		WeightMap: func(w dwgdraw.LineWeight) uint32 { return uint32(w) / 10 },
	})
	if dp.Weight == nil || *dp.Weight != 3 {
		t.Errorf("Weight = %v, want 3", dp.Weight)
	}
}
