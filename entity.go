package dwgdraw

// ObjectID identifies a database object. Zero is the null id.
type ObjectID uint64

// IsValid reports whether the id refers to an object.
func (id ObjectID) IsValid() bool { return id != 0 }

// LineWeight is a DWG line weight in hundredths of a millimetre,
// or one of the sentinel values below.
type LineWeight int16

// Line weight sentinels.
const (
	WeightByLayer   LineWeight = -1
	WeightByBlock   LineWeight = -2
	WeightByDefault LineWeight = -3
	Weight000       LineWeight = 0
)

// TransparencyMethod tells how a Transparency is to be interpreted.
type TransparencyMethod uint8

const (
	TransparencyByLayer TransparencyMethod = iota
	TransparencyByBlock
	TransparencyByAlpha
)

// Transparency is an entity transparency. Alpha 255 is opaque.
type Transparency struct {
	Method TransparencyMethod
	Alpha  uint8
}

// IsByLayer reports whether the transparency defers to the layer.
func (t Transparency) IsByLayer() bool { return t.Method == TransparencyByLayer }

// Fraction returns the transparency in [0,1], where 0 is opaque.
func (t Transparency) Fraction() float64 {
	if t.Method != TransparencyByAlpha {
		return 0
	}
	return 1 - float64(t.Alpha)/255
}

// EntityKind is the closed set of entity kinds the draw pipeline
// distinguishes. Each kind carries the data the pipeline needs from it.
type EntityKind interface {
	isEntityKind()
	// Name returns the DXF-style class name used for extension lookup.
	Name() string
}

// Arc is a circular arc entity.
type Arc struct{ Thickness float64 }

// Circle is a circle entity.
type Circle struct{ Thickness float64 }

// Polyline2d is a heavyweight 2D polyline.
type Polyline2d struct{ Thickness float64 }

// LWPolyline is a lightweight polyline. ConstantWidth is nil when the
// polyline has per-vertex widths or none at all.
type LWPolyline struct {
	Thickness     float64
	ConstantWidth *float64
}

// Line is a line entity.
type Line struct{ Thickness float64 }

// Point is a point entity.
type Point struct{ Thickness float64 }

// Solid is a 2D solid (filled triangle or quad).
type Solid struct{ Thickness float64 }

// Trace is a trace entity.
type Trace struct{ Thickness float64 }

// Text is a single-line text entity.
type Text struct{ Thickness float64 }

// BlockReference is an insert of a block definition. Attributes are
// drawn after the reference itself.
type BlockReference struct {
	Block      ObjectID
	Attributes []*Entity
}

// AttributeDefinition is an attribute template inside a block definition.
type AttributeDefinition struct{}

// Attribute is an attribute value attached to a block reference.
type Attribute struct{}

// Dimension is any dimension entity. Its children on the Defpoints layer
// follow the dimension's own layer display.
type Dimension struct{}

// Hatch is a hatch entity.
type Hatch struct{ Gradient bool }

// Shape3d is an ASM based entity (3D solid, region, body, surface).
type Shape3d struct{ Planar bool }

// Other is any entity the pipeline treats generically.
type Other struct{ Class string }

func (Arc) isEntityKind()                 {}
func (Circle) isEntityKind()              {}
func (Polyline2d) isEntityKind()          {}
func (LWPolyline) isEntityKind()          {}
func (Line) isEntityKind()                {}
func (Point) isEntityKind()               {}
func (Solid) isEntityKind()               {}
func (Trace) isEntityKind()               {}
func (Text) isEntityKind()                {}
func (BlockReference) isEntityKind()      {}
func (AttributeDefinition) isEntityKind() {}
func (Attribute) isEntityKind()           {}
func (Dimension) isEntityKind()           {}
func (Hatch) isEntityKind()               {}
func (Shape3d) isEntityKind()             {}
func (Other) isEntityKind()               {}

func (Arc) Name() string                 { return "ARC" }
func (Circle) Name() string              { return "CIRCLE" }
func (Polyline2d) Name() string          { return "POLYLINE" }
func (LWPolyline) Name() string          { return "LWPOLYLINE" }
func (Line) Name() string                { return "LINE" }
func (Point) Name() string               { return "POINT" }
func (Solid) Name() string               { return "SOLID" }
func (Trace) Name() string               { return "TRACE" }
func (Text) Name() string                { return "TEXT" }
func (BlockReference) Name() string      { return "INSERT" }
func (AttributeDefinition) Name() string { return "ATTDEF" }
func (Attribute) Name() string           { return "ATTRIB" }
func (Dimension) Name() string           { return "DIMENSION" }
func (Hatch) Name() string               { return "HATCH" }
func (Shape3d) Name() string             { return "3DSOLID" }
func (o Other) Name() string             { return o.Class }

// Thickness returns the extrusion thickness carried by the entity kind.
// Kinds without a thickness return 0.
func Thickness(k EntityKind) float64 {
	switch v := k.(type) {
	case Arc:
		return v.Thickness
	case Circle:
		return v.Thickness
	case Polyline2d:
		return v.Thickness
	case LWPolyline:
		return v.Thickness
	case Line:
		return v.Thickness
	case Point:
		return v.Thickness
	case Solid:
		return v.Thickness
	case Trace:
		return v.Thickness
	case Text:
		return v.Thickness
	default:
		return 0
	}
}

// IsValidThickness reports whether a thickness is large enough to extrude.
func IsValidThickness(t float64) bool {
	return t > 1e-6 || t < -1e-6
}

// Visibility is the stored visibility flag of an entity.
type Visibility uint8

const (
	Visible Visibility = iota
	Invisible
)

// Entity carries the stored attributes of one drawing entity.
type Entity struct {
	ID    ObjectID
	Owner ObjectID
	Kind  EntityKind
	Layer ObjectID
	Color Color
	// Linetype and Material hold table record ids, including the
	// ByLayer/ByBlock records of the database.
	Linetype      ObjectID
	Material      ObjectID
	Weight        LineWeight
	Transparency  Transparency
	LinetypeScale float64
	Visibility    Visibility
	// Database is the file the entity lives in. Nil means the top-level file.
	Database Database
}

// IsDimension reports whether the entity is a dimension.
func (e *Entity) IsDimension() bool {
	_, ok := e.Kind.(Dimension)
	return ok
}

// KindName returns the class name of the entity kind, or "" when unset.
func (e *Entity) KindName() string {
	if e == nil || e.Kind == nil {
		return ""
	}
	return e.Kind.Name()
}
