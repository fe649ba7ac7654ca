package dispatch

import (
	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/symbology"
	"github.com/gogpu/dwgdraw/text"
)

// RegenType is the kind of display the toolkit generates geometry for.
type RegenType uint8

const (
	RegenStandard RegenType = iota
	RegenHideOrShade
	RegenRender
)

// IsRendered reports whether the regen type shades surfaces.
func (r RegenType) IsRendered() bool {
	return r == RegenHideOrShade || r == RegenRender
}

func (r RegenType) String() string {
	switch r {
	case RegenStandard:
		return "standard"
	case RegenHideOrShade:
		return "hide-or-shade"
	case RegenRender:
		return "render"
	default:
		return "unknown"
	}
}

// SpatialFilter rejects entities clipped away as a whole.
type SpatialFilter interface {
	IsEntityFilteredOut(ent *dwgdraw.Entity) bool
}

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	categories   CategoryResolver
	extensions   *ExtensionRegistry
	filter       SpatialFilter
	target2d     bool
	regen        RegenType
	metrics      *Metrics
	base         dwgdraw.Transform
	fonts        *text.Measurer
	extMin       dwgdraw.Point3
	extMax       dwgdraw.Point3
	hasExtents   bool
	weightMap    func(dwgdraw.LineWeight) uint32
	viewport     dwgdraw.ObjectID
	defaultCat   symbology.CategoryID
	defaultSub   symbology.SubCategoryID
	materials    bool
	codepage     string
	cacheEntries int
}

func defaultOptions() options {
	return options{
		regen:     RegenStandard,
		base:      dwgdraw.Identity(),
		weightMap: symbology.DefaultWeightMap,
	}
}

// WithCategories sets the collaborator that assigns display categories.
// Without one every record gets the default category.
func WithCategories(r CategoryResolver) Option {
	return func(o *options) {
		o.categories = r
	}
}

// WithExtensions sets the protocol extensions consulted before an
// entity draws its primitives.
func WithExtensions(r *ExtensionRegistry) Option {
	return func(o *options) {
		o.extensions = r
	}
}

// WithSpatialFilter skips entities the filter rejects.
func WithSpatialFilter(f SpatialFilter) Option {
	return func(o *options) {
		o.filter = f
	}
}

// WithTarget2d declares that the geometry is for a 2D (drawing) model.
// Thickness is not extruded and 3D meshes are rejected.
func WithTarget2d(is2d bool) Option {
	return func(o *options) {
		o.target2d = is2d
	}
}

// WithRegenType sets the initial regen type.
func WithRegenType(r RegenType) Option {
	return func(o *options) {
		o.regen = r
	}
}

// WithMetrics records counters into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithBaseTransform sets the transform applied below every model
// transform.
func WithBaseTransform(t dwgdraw.Transform) Option {
	return func(o *options) {
		o.base = t
	}
}

// WithFonts measures text for decorations with m.
func WithFonts(m *text.Measurer) Option {
	return func(o *options) {
		o.fonts = m
	}
}

// WithExtents sets the drawing extents used to size infinite lines.
func WithExtents(lo, hi dwgdraw.Point3) Option {
	return func(o *options) {
		o.extMin, o.extMax = lo, hi
		o.hasExtents = true
	}
}

// WithWeightMap maps DWG line weights to display weights.
func WithWeightMap(fn func(dwgdraw.LineWeight) uint32) Option {
	return func(o *options) {
		if fn != nil {
			o.weightMap = fn
		}
	}
}

// WithViewport sets the viewport passed to drawing category lookups.
func WithViewport(id dwgdraw.ObjectID) Option {
	return func(o *options) {
		o.viewport = id
	}
}

// WithDefaultCategory sets the category used when resolution fails.
func WithDefaultCategory(cat symbology.CategoryID, sub symbology.SubCategoryID) Option {
	return func(o *options) {
		o.defaultCat, o.defaultSub = cat, sub
	}
}

// WithMaterialOverrides lets draw methods override entity materials.
func WithMaterialOverrides(allow bool) Option {
	return func(o *options) {
		o.materials = allow
	}
}

// WithCodepage sets the code page of multibyte text passed to StyledText.
func WithCodepage(name string) Option {
	return func(o *options) {
		o.codepage = name
	}
}

// WithCategoryCacheSize sets how many category lookups are memoized.
func WithCategoryCacheSize(n int) Option {
	return func(o *options) {
		o.cacheEntries = n
	}
}
