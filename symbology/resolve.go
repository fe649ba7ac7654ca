package symbology

import (
	"github.com/gogpu/dwgdraw"
)

// resolveEffectiveByBlock computes the ByBlock symbology for this
// entity's children from the parent's state.
//
// A layer 0 entity floats to the parent's effective layer, so a chain
// of layer 0 entities ends on the nearest ancestor with a real layer,
// or on the root's own layer. Attributes that are
// ByBlock (or ByLayer on layer 0) resolve from the parent: a ByLayer
// parent reads its layer, a ByBlock parent passes on what it inherited
// from its own parent, a concrete parent value is adopted directly.
// Because the parent's effective values were resolved the same way in
// its own frame, the chain resolves to the nearest concrete ancestor
// at any depth.
func (s *VisualState) resolveEffectiveByBlock(parent *VisualState) {
	s.effective.Layer = s.layer
	if !s.effective.Layer.IsValid() || s.isLayerByBlock {
		s.effective.Layer = parent.EffectiveLayer()
	}

	s.resolveColor(parent)
	s.resolveLinetype(parent)
	s.resolveMaterial(parent)
	s.resolveWeight(parent)
}

func (s *VisualState) resolveColor(parent *VisualState) {
	if !s.IsColorByBlock() {
		s.effective.Color = s.color
		return
	}
	switch {
	case parent.color.IsByLayer() || (s.color.IsByLayer() && s.isLayerByBlock):
		s.effective.Color = parent.colorFromLayer()
	case parent.color.IsByBlock():
		inherited := parent.effective.Color
		switch {
		case inherited.IsByBlock():
			s.effective.Color = dwgdraw.ColorIndex(255)
		case inherited.IsByLayer():
			s.effective.Color = parent.colorFromLayer()
		default:
			s.effective.Color = inherited
		}
	default:
		s.effective.Color = parent.color
	}
}

func (s *VisualState) resolveLinetype(parent *VisualState) {
	if s.db == nil || !s.IsLinetypeByBlock() {
		s.effective.Linetype = s.linetype
		return
	}
	h := s.db.Header()
	switch {
	case parent.linetype == h.LinetypeByLayer || (s.linetype == h.LinetypeByLayer && s.isLayerByBlock):
		s.effective.Linetype = parent.linetypeFromLayer()
	case parent.linetype == h.LinetypeByBlock:
		inherited := parent.effective.Linetype
		switch inherited {
		case h.LinetypeByBlock:
			s.effective.Linetype = h.LinetypeContinuous
		case h.LinetypeByLayer:
			s.effective.Linetype = parent.linetypeFromLayer()
		default:
			s.effective.Linetype = inherited
		}
	default:
		s.effective.Linetype = parent.linetype
	}
}

func (s *VisualState) resolveMaterial(parent *VisualState) {
	if s.db == nil || !s.IsMaterialByBlock() {
		s.effective.Material = s.material
		return
	}
	h := s.db.Header()
	switch {
	case parent.material == h.MaterialByLayer || (s.material == h.MaterialByLayer && s.isLayerByBlock):
		s.effective.Material = parent.materialFromLayer()
	case parent.material == h.MaterialByBlock:
		inherited := parent.effective.Material
		switch inherited {
		case h.MaterialByBlock:
			s.effective.Material = h.MaterialGlobal
		case h.MaterialByLayer:
			s.effective.Material = parent.materialFromLayer()
		default:
			s.effective.Material = inherited
		}
	default:
		s.effective.Material = parent.material
	}
}

func (s *VisualState) resolveWeight(parent *VisualState) {
	if !s.IsWeightByBlock() {
		s.effective.Weight = s.weight
		return
	}
	switch {
	case parent.weight == dwgdraw.WeightByLayer || (s.weight == dwgdraw.WeightByLayer && s.isLayerByBlock):
		s.effective.Weight = parent.weightFromLayer()
	case parent.weight == dwgdraw.WeightByBlock:
		inherited := parent.effective.Weight
		switch inherited {
		case dwgdraw.WeightByBlock:
			s.effective.Weight = dwgdraw.Weight000
		case dwgdraw.WeightByLayer:
			s.effective.Weight = parent.weightFromLayer()
		default:
			s.effective.Weight = inherited
		}
	default:
		s.effective.Weight = parent.weight
	}
}

// ResolveRoot resolves the effective ByBlock symbology of an entity
// drawn directly from model or paper space. ByLayer values are read
// from the layer; ByBlock values have nothing to inherit and take the
// root defaults: color 255, Continuous, the global material, weight 0.
func (s *VisualState) ResolveRoot() {
	switch {
	case s.effective.Color.IsByLayer():
		s.effective.Color = s.colorFromLayer()
	case s.effective.Color.IsByBlock():
		s.effective.Color = dwgdraw.ColorIndex(255)
	}

	if s.db != nil {
		h := s.db.Header()
		switch s.effective.Linetype {
		case h.LinetypeByBlock:
			s.effective.Linetype = h.LinetypeContinuous
		case h.LinetypeByLayer:
			s.effective.Linetype = s.linetypeFromLayer()
		}
		switch s.effective.Material {
		case h.MaterialByBlock:
			s.effective.Material = h.MaterialGlobal
		case h.MaterialByLayer:
			s.effective.Material = s.materialFromLayer()
		}
	}

	switch s.effective.Weight {
	case dwgdraw.WeightByLayer:
		s.effective.Weight = s.weightFromLayer()
	case dwgdraw.WeightByBlock:
		s.effective.Weight = dwgdraw.Weight000
	}
}

// resolveDisplayStatus decides whether the entity is displayed.
//
// A frozen parent layer hides all children unless the parent is on
// layer 0, which takes its display from its own parent instead. A layer
// 0 child adopts its parent's status. Any other entity is displayed
// when its layer is neither frozen nor off.
func (s *VisualState) resolveDisplayStatus(parent *VisualState) {
	s.parentFrozen = false
	s.displayed = true

	if parent != nil {
		if l, ok := parent.lookupLayer(parent.layer); ok {
			s.parentFrozen = l.Frozen
		}
		if (parent.parentFrozen || s.parentFrozen) && !parent.isLayerByBlock {
			s.displayed = false
			return
		}
		if s.isLayerByBlock {
			s.displayed = parent.displayed
			return
		}
	}

	if l, ok := s.lookupLayer(s.EffectiveLayer()); ok {
		s.displayed = !l.Frozen && !l.Off
	}
}

// IsColorByBlock reports whether children resolve the color from the
// parent: ByBlock, or ByLayer on layer 0.
func (s *VisualState) IsColorByBlock() bool {
	return s.color.IsByBlock() || (s.isLayerByBlock && s.color.IsByLayer())
}

// IsLinetypeByBlock reports whether the linetype resolves from the
// parent: ByBlock, or ByLayer on layer 0.
func (s *VisualState) IsLinetypeByBlock() bool {
	if s.db == nil {
		return false
	}
	h := s.db.Header()
	return s.linetype == h.LinetypeByBlock || (s.isLayerByBlock && s.linetype == h.LinetypeByLayer)
}

// IsMaterialByBlock reports whether the material resolves from the
// parent. Both ByBlock and ByLayer materials do, on any layer.
func (s *VisualState) IsMaterialByBlock() bool {
	if s.db == nil {
		return false
	}
	h := s.db.Header()
	return s.material == h.MaterialByBlock || s.material == h.MaterialByLayer
}

// IsWeightByBlock reports whether the weight resolves from the parent.
// Both ByBlock and ByLayer weights do, on any layer.
func (s *VisualState) IsWeightByBlock() bool {
	return s.weight == dwgdraw.WeightByBlock || s.weight == dwgdraw.WeightByLayer
}

// symbologyLayer is the layer ByLayer values are read from.
func (s *VisualState) symbologyLayer() dwgdraw.ObjectID {
	if s.isLayerByBlock && s.effective.Layer.IsValid() {
		return s.effective.Layer
	}
	return s.layer
}

func (s *VisualState) colorFromLayer() dwgdraw.Color {
	if l := s.resolveLayer(s.symbologyLayer()); l != nil {
		return l.Color
	}
	return dwgdraw.ColorIndex(255)
}

func (s *VisualState) linetypeFromLayer() dwgdraw.ObjectID {
	if l := s.resolveLayer(s.symbologyLayer()); l != nil && l.Linetype.IsValid() {
		return l.Linetype
	}
	return s.continuous()
}

// materialFromLayer reads the entity's own layer, not the inherited one.
func (s *VisualState) materialFromLayer() dwgdraw.ObjectID {
	if l := s.resolveLayer(s.layer); l != nil && l.Material.IsValid() {
		return l.Material
	}
	if s.db != nil {
		return s.db.Header().MaterialGlobal
	}
	return 0
}

func (s *VisualState) weightFromLayer() dwgdraw.LineWeight {
	if l := s.resolveLayer(s.symbologyLayer()); l != nil {
		return l.Weight
	}
	return dwgdraw.Weight000
}

func (s *VisualState) continuous() dwgdraw.ObjectID {
	if s.db != nil {
		return s.db.Header().LinetypeContinuous
	}
	return 0
}

// lookupLayer finds a layer record in the entity's file, then in the
// top-level file.
func (s *VisualState) lookupLayer(id dwgdraw.ObjectID) (*dwgdraw.Layer, bool) {
	if !id.IsValid() {
		return nil, false
	}
	if s.db != nil {
		if l, ok := s.db.Layer(id); ok {
			return l, true
		}
	}
	if s.rootDB != nil && s.rootDB != s.db {
		if l, ok := s.rootDB.Layer(id); ok {
			return l, true
		}
	}
	return nil, false
}

// resolveLayer is lookupLayer with the layer 0 fallback: an unresolved
// reference logs a warning and continues with layer 0 of the top-level
// file, never the block-local file.
func (s *VisualState) resolveLayer(id dwgdraw.ObjectID) *dwgdraw.Layer {
	if l, ok := s.lookupLayer(id); ok {
		return l
	}
	dwgdraw.Logger().Warn("symbology: unresolved layer, using layer 0",
		"layer", uint64(id), "entity", uint64(s.entityID()))
	if s.rootDB == nil {
		return nil
	}
	l, _ := s.rootDB.Layer(s.rootDB.Header().Layer0)
	return l
}

func (s *VisualState) entityID() dwgdraw.ObjectID {
	if s.source == nil {
		return 0
	}
	return s.source.ID
}
