package symbology

import (
	"github.com/gogpu/dwgdraw"
)

// FillType is the fill mode set by an entity's draw method.
type FillType uint8

const (
	FillDefault FillType = iota
	FillAlways
	FillNever
)

// Fill is an explicit fill descriptor set during a draw.
type Fill interface {
	Clone() Fill
}

// GradientFill is a gradient fill taken from a hatch.
type GradientFill struct {
	Name   string
	Colors []dwgdraw.ColorDef
	Angle  float64
	Shift  float64
	Tint   float64
}

// Clone implements Fill.
func (g *GradientFill) Clone() Fill {
	out := *g
	out.Colors = append([]dwgdraw.ColorDef(nil), g.Colors...)
	return &out
}

// EffectiveByBlock is the symbology an entity's children inherit for
// their ByBlock attributes.
type EffectiveByBlock struct {
	Color    dwgdraw.Color
	Linetype dwgdraw.ObjectID
	Material dwgdraw.ObjectID
	Weight   dwgdraw.LineWeight
	Layer    dwgdraw.ObjectID
}

// VisualState is the symbology in effect while one entity draws.
//
// A VisualState is a value. Assigning it copies it; the only reference
// it holds, the fill, is treated as immutable and replaced on SetFill.
// Use Clone when the copy must not share the fill.
type VisualState struct {
	color         dwgdraw.Color
	layer         dwgdraw.ObjectID
	linetype      dwgdraw.ObjectID
	material      dwgdraw.ObjectID
	transparency  dwgdraw.Transparency
	weight        dwgdraw.LineWeight
	fillType      FillType
	fill          Fill
	linetypeScale float64
	thickness     float64
	markerID      int64

	source *dwgdraw.Entity
	db     dwgdraw.Database
	rootDB dwgdraw.Database
	layer0 dwgdraw.ObjectID

	effective        EffectiveByBlock
	isLayerByBlock   bool
	parentFrozen     bool
	displayed        bool
	materialOverride bool
	displayPriority  int32
}

// Option configures NewVisualState.
type Option func(*options)

type options struct {
	template         *dwgdraw.Entity
	rootDB           dwgdraw.Database
	materialOverride bool
	displayPriority  int32
}

func defaultOptions() options {
	return options{}
}

// WithTemplate supplies an entity whose layer, linetype, material and
// database are used where the drawn entity has none. New entities
// created by a draw method have no database of their own.
func WithTemplate(ent *dwgdraw.Entity) Option {
	return func(o *options) {
		o.template = ent
	}
}

// WithRootDatabase sets the top-level drawing file. It is the last
// fallback for the entity database and the source of layer 0 when a
// layer reference cannot be resolved.
func WithRootDatabase(db dwgdraw.Database) Option {
	return func(o *options) {
		o.rootDB = db
	}
}

// WithMaterialOverrides allows draw methods to override the entity material.
func WithMaterialOverrides(allow bool) Option {
	return func(o *options) {
		o.materialOverride = allow
	}
}

// WithDisplayPriority sets the display priority stamped on display params.
func WithDisplayPriority(p int32) Option {
	return func(o *options) {
		o.displayPriority = p
	}
}

// NewVisualState builds the state of ent. When parent is non-nil the
// ByBlock symbology is resolved against it; parent is only read.
func NewVisualState(ent *dwgdraw.Entity, parent *VisualState, opts ...Option) VisualState {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	tmpl := o.template
	s := VisualState{
		color:            ent.Color,
		layer:            ent.Layer,
		linetype:         ent.Linetype,
		material:         ent.Material,
		transparency:     ent.Transparency,
		weight:           ent.Weight,
		fillType:         FillDefault,
		linetypeScale:    ent.LinetypeScale,
		thickness:        dwgdraw.Thickness(ent.Kind),
		markerID:         -1,
		source:           ent,
		db:               ent.Database,
		rootDB:           o.rootDB,
		materialOverride: o.materialOverride,
		displayPriority:  o.displayPriority,
	}
	if tmpl != nil {
		if !s.layer.IsValid() {
			s.layer = tmpl.Layer
		}
		if !s.linetype.IsValid() {
			s.linetype = tmpl.Linetype
		}
		if !s.material.IsValid() {
			s.material = tmpl.Material
		}
		if s.db == nil {
			s.db = tmpl.Database
		}
	}
	if s.db == nil {
		s.db = o.rootDB
	}
	if s.rootDB == nil {
		s.rootDB = s.db
	}

	// Layer 0 is a layer ByBlock.
	if s.db != nil {
		s.layer0 = s.db.Header().Layer0
		s.isLayerByBlock = s.layer == s.layer0
	}

	if parent == nil {
		s.effective = EffectiveByBlock{
			Color:    s.color,
			Linetype: s.linetype,
			Material: s.material,
			Weight:   s.weight,
			Layer:    s.layer,
		}
	} else {
		s.resolveEffectiveByBlock(parent)
	}
	s.resolveDisplayStatus(parent)
	return s
}

// Clone returns a copy that owns its fill.
func (s VisualState) Clone() VisualState {
	if s.fill != nil {
		s.fill = s.fill.Clone()
	}
	return s
}

// Color returns the entity's own color.
func (s *VisualState) Color() dwgdraw.Color { return s.color }

// Layer returns the entity's own layer.
func (s *VisualState) Layer() dwgdraw.ObjectID { return s.layer }

// Linetype returns the entity's own linetype.
func (s *VisualState) Linetype() dwgdraw.ObjectID { return s.linetype }

// Material returns the entity's own material.
func (s *VisualState) Material() dwgdraw.ObjectID { return s.material }

// Weight returns the entity's own line weight.
func (s *VisualState) Weight() dwgdraw.LineWeight { return s.weight }

// Transparency returns the entity's own transparency.
func (s *VisualState) Transparency() dwgdraw.Transparency { return s.transparency }

func (s *VisualState) FillType() FillType         { return s.fillType }
func (s *VisualState) Fill() Fill                 { return s.fill }
func (s *VisualState) LinetypeScale() float64     { return s.linetypeScale }
func (s *VisualState) Thickness() float64         { return s.thickness }
func (s *VisualState) SelectionMarker() int64     { return s.markerID }
func (s *VisualState) Source() *dwgdraw.Entity    { return s.source }
func (s *VisualState) Database() dwgdraw.Database { return s.db }

// Effective returns the ByBlock symbology children inherit.
func (s *VisualState) Effective() EffectiveByBlock { return s.effective }

// IsLayerByBlock reports whether the entity is on layer 0.
func (s *VisualState) IsLayerByBlock() bool { return s.isLayerByBlock }

// IsDisplayed reports whether the entity is visible after layer status
// of the entity and its ancestors is applied.
func (s *VisualState) IsDisplayed() bool { return s.displayed }

// EffectiveLayer returns the layer used for category assignment: the
// inherited layer for layer 0 entities, the own layer otherwise.
func (s *VisualState) EffectiveLayer() dwgdraw.ObjectID {
	if s.isLayerByBlock {
		return s.effective.Layer
	}
	return s.layer
}

// Setters called by draw methods. They change only this frame's state.

func (s *VisualState) SetColor(c dwgdraw.Color)               { s.color = c }
func (s *VisualState) SetLayer(id dwgdraw.ObjectID)           { s.layer = id }
func (s *VisualState) SetLinetype(id dwgdraw.ObjectID)        { s.linetype = id }
func (s *VisualState) SetSelectionMarker(id int64)            { s.markerID = id }
func (s *VisualState) SetFillType(t FillType)                 { s.fillType = t }
func (s *VisualState) SetLineWeight(w dwgdraw.LineWeight)     { s.weight = w }
func (s *VisualState) SetLinetypeScale(scale float64)         { s.linetypeScale = scale }
func (s *VisualState) SetThickness(t float64)                 { s.thickness = t }
func (s *VisualState) SetTransparency(t dwgdraw.Transparency) { s.transparency = t }

// SetFill stores a copy of f. Nil clears the fill.
func (s *VisualState) SetFill(f Fill) {
	if f == nil {
		s.fill = nil
		return
	}
	s.fill = f.Clone()
}

// SetMaterial overrides the material when overrides are allowed.
func (s *VisualState) SetMaterial(id dwgdraw.ObjectID) {
	if s.materialOverride {
		s.material = id
	}
}

// SetLinetypeContinuous switches the linetype to Continuous.
func (s *VisualState) SetLinetypeContinuous() {
	if s.db != nil {
		s.linetype = s.db.Header().LinetypeContinuous
	}
}

// SetGradientFromHatch stores a gradient taken from a hatch. Draw
// methods do not report the gradient of a hatch through SetFill.
func (s *VisualState) SetGradientFromHatch(g *GradientFill) {
	if g != nil {
		s.fill = g.Clone()
	}
}
