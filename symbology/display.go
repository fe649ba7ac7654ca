package symbology

import (
	"math"

	"github.com/gogpu/dwgdraw"
)

// CategoryID identifies a category in the target repository.
type CategoryID uint64

// SubCategoryID identifies a sub-category in the target repository.
type SubCategoryID uint64

// IsValid reports whether the id is set.
func (id CategoryID) IsValid() bool { return id != 0 }

// IsValid reports whether the id is set.
func (id SubCategoryID) IsValid() bool { return id != 0 }

// FillDisplay tells whether a shape is filled when displayed.
type FillDisplay uint8

const (
	FillDisplayNever FillDisplay = iota
	FillDisplayByView
	FillDisplayAlways
	FillDisplayBlanking
)

// GeometryClass classifies geometry for display.
type GeometryClass uint8

const (
	GeometryClassPrimary GeometryClass = iota
	GeometryClassConstruction
	GeometryClassDimension
	GeometryClassPattern
)

// LineStyle is a linetype override.
type LineStyle struct {
	Linetype   dwgdraw.ObjectID
	Scale      float64 // 0 when the linetype is drawn at its native scale
	Continuous bool
}

// DisplayParams are the display parameters attached to a geometry
// record. A nil override means the sub-category appearance applies.
type DisplayParams struct {
	Category    CategoryID
	SubCategory SubCategoryID

	LineColor        *dwgdraw.ColorDef
	FillDisplay      FillDisplay
	FillColor        *dwgdraw.ColorDef
	Gradient         *GradientFill
	LineStyle        *LineStyle
	Weight           *uint32
	Transparency     *float64
	FillTransparency *float64
	Material         *dwgdraw.ObjectID

	GeometryClass   GeometryClass
	DisplayPriority int32
}

// ProjectionContext carries what DisplayParams needs beyond the state.
type ProjectionContext struct {
	Category    CategoryID
	SubCategory SubCategoryID

	// WeightMap maps a DWG line weight to a display weight. When nil,
	// DefaultWeightMap is used.
	WeightMap func(dwgdraw.LineWeight) uint32
}

// dwgWeights are the standard DWG line weights in hundredths of a
// millimetre. The display weight of a line weight is its index here.
var dwgWeights = [...]dwgdraw.LineWeight{
	0, 5, 9, 13, 15, 18, 20, 25, 30, 35, 40, 50,
	53, 60, 70, 80, 90, 100, 106, 120, 140, 158, 200, 211,
}

// DefaultWeightMap maps a line weight to the index of the closest
// standard weight not below it, capped at 31. Sentinels map to 0.
func DefaultWeightMap(w dwgdraw.LineWeight) uint32 {
	if w <= 0 {
		return 0
	}
	for i, std := range dwgWeights {
		if w <= std {
			return min(uint32(i), 31)
		}
	}
	return min(uint32(len(dwgWeights)-1), 31)
}

// EffectiveColor resolves the color the entity is displayed in.
func (s *VisualState) EffectiveColor() dwgdraw.ColorDef {
	c := s.color
	switch {
	case s.IsColorByBlock():
		c = s.effective.Color
	case c.IsByLayer():
		c = s.colorFromLayer()
	}
	// An effective color still unresolved here belongs to a root that
	// was never passed through ResolveRoot.
	switch {
	case c.IsByLayer():
		c = s.colorFromLayer()
	case c.IsByBlock():
		c = dwgdraw.ColorIndex(255)
	}
	return c.Resolve()
}

// EffectiveWeight resolves the line weight the entity is displayed with.
func (s *VisualState) EffectiveWeight() dwgdraw.LineWeight {
	w := s.weight
	switch {
	case s.IsWeightByBlock():
		w = s.effective.Weight
	case w == dwgdraw.WeightByLayer:
		w = s.weightFromLayer()
	}
	if w < 0 {
		w = dwgdraw.Weight000
	}
	return w
}

// EffectiveLinetype resolves the linetype the entity is displayed with.
func (s *VisualState) EffectiveLinetype() dwgdraw.ObjectID {
	lt := s.linetype
	if s.IsLinetypeByBlock() {
		lt = s.effective.Linetype
	}
	if s.db != nil {
		h := s.db.Header()
		switch lt {
		case h.LinetypeByLayer:
			lt = s.linetypeFromLayer()
		case h.LinetypeByBlock:
			lt = h.LinetypeContinuous
		}
	}
	if !lt.IsValid() {
		lt = s.continuous()
	}
	return lt
}

// EffectiveMaterial resolves the material the entity is displayed with.
// An invalid material becomes the global material.
func (s *VisualState) EffectiveMaterial() dwgdraw.ObjectID {
	m := s.material
	if s.IsMaterialByBlock() {
		m = s.effective.Material
	}
	if !m.IsValid() && s.db != nil {
		m = s.db.Header().MaterialGlobal
	}
	return m
}

// IsContinuous reports whether the effective linetype is Continuous.
func (s *VisualState) IsContinuous() bool {
	return s.db != nil && s.EffectiveLinetype() == s.db.Header().LinetypeContinuous
}

// EffectiveLinetypeScale returns the linetype scale. Model space
// entities are scaled down by the annotation scale when MSLTSCALE is on.
func (s *VisualState) EffectiveLinetypeScale() float64 {
	scale := s.linetypeScale
	if s.db == nil || s.source == nil {
		return scale
	}
	h := s.db.Header()
	if h.MSLTScale && s.source.Owner == h.ModelSpace && h.AnnotationScale > 0 {
		scale /= h.AnnotationScale
	}
	return scale
}

// FillDisplay returns how the entity's shapes are filled.
func (s *VisualState) FillDisplay() FillDisplay {
	if s.source != nil {
		if lw, ok := s.source.Kind.(dwgdraw.LWPolyline); ok {
			if lw.ConstantWidth == nil || *lw.ConstantWidth < 1e-5 {
				return FillDisplayNever
			}
		}
	}
	if s.fillType == FillAlways {
		return FillDisplayAlways
	}
	return FillDisplayNever
}

// canUseByLayer reports whether a ByLayer value may be left to the
// sub-category instead of being written as an override.
func (s *VisualState) canUseByLayer(isByLayer bool) bool {
	if !isByLayer {
		return false
	}
	if !s.isLayerByBlock {
		return true
	}
	if s.db == nil || s.source == nil {
		return false
	}
	owner := s.source.Owner
	return owner == s.db.Header().ModelSpace || s.db.IsLayout(owner)
}

// DisplayParams projects the state into display parameters.
func (s *VisualState) DisplayParams(ctx ProjectionContext) DisplayParams {
	dp := DisplayParams{
		Category:        ctx.Category,
		SubCategory:     ctx.SubCategory,
		GeometryClass:   GeometryClassPrimary,
		DisplayPriority: s.displayPriority,
	}

	if !s.canUseByLayer(s.color.IsByLayer()) {
		c := s.EffectiveColor()
		dp.LineColor = &c
	}

	dp.FillDisplay = s.FillDisplay()
	if dp.FillDisplay != FillDisplayNever {
		if g, ok := s.fill.(*GradientFill); ok {
			dp.Gradient = g.Clone().(*GradientFill)
		} else {
			c := s.EffectiveColor()
			dp.FillColor = &c
		}
	}

	isLinetypeByLayer := s.db != nil && s.linetype == s.db.Header().LinetypeByLayer
	if !s.canUseByLayer(isLinetypeByLayer) {
		ls := &LineStyle{Linetype: s.EffectiveLinetype(), Continuous: s.IsContinuous()}
		scale := 1.0
		if !ls.Continuous {
			scale = s.EffectiveLinetypeScale()
		}
		if !ls.Continuous && scale > 0 && math.Abs(scale-1) > 1e-3 {
			ls.Scale = scale
		}
		dp.LineStyle = ls
	}

	if !s.canUseByLayer(s.weight == dwgdraw.WeightByLayer) {
		mapWeight := ctx.WeightMap
		if mapWeight == nil {
			mapWeight = DefaultWeightMap
		}
		w := mapWeight(s.EffectiveWeight())
		dp.Weight = &w
	}

	if !s.canUseByLayer(s.transparency.IsByLayer()) {
		t := s.transparencyFraction()
		dp.Transparency = &t
		if dp.FillDisplay != FillDisplayNever {
			ft := t
			dp.FillTransparency = &ft
		}
	}

	isMaterialByLayer := s.db != nil && s.material == s.db.Header().MaterialByLayer
	if !s.canUseByLayer(isMaterialByLayer) {
		m := s.EffectiveMaterial()
		dp.Material = &m
	}

	return dp
}

// transparencyFraction resolves the transparency as a fraction where 0
// is opaque.
func (s *VisualState) transparencyFraction() float64 {
	t := s.transparency
	if t.IsByLayer() {
		if l := s.resolveLayer(s.symbologyLayer()); l != nil {
			t = l.Transparency
		}
	}
	return t.Fraction()
}
