package dwgdraw

// Layer is a layer table record.
type Layer struct {
	ID           ObjectID
	Name         string
	Color        Color
	Linetype     ObjectID
	Material     ObjectID
	Weight       LineWeight
	Transparency Transparency
	Off          bool
	Frozen       bool
}

// Header carries the well-known object ids and header variables of a
// drawing file that symbology resolution depends on.
type Header struct {
	ModelSpace ObjectID
	Layer0     ObjectID
	Defpoints  ObjectID

	LinetypeByLayer    ObjectID
	LinetypeByBlock    ObjectID
	LinetypeContinuous ObjectID

	MaterialByLayer ObjectID
	MaterialByBlock ObjectID
	MaterialGlobal  ObjectID

	// MSLTScale mirrors the MSLTSCALE header variable.
	MSLTScale bool
	// AnnotationScale is the CANNOSCALE factor (drawing units per paper unit).
	AnnotationScale float64
}

// Database is the read-only view of a drawing file. The top-level file
// and every loaded xref each provide one.
type Database interface {
	// FileID identifies the file for provenance.
	FileID() uint32
	Header() *Header
	Layer(id ObjectID) (*Layer, bool)
	// IsLayout reports whether a block is a paper space layout block.
	IsLayout(block ObjectID) bool
}

// Block identifies a block definition being drawn.
type Block struct {
	ID       ObjectID
	Name     string
	Database Database
}

// MemDatabase is an in-memory Database. It is used by fixtures and tests.
type MemDatabase struct {
	File    uint32
	Hdr     Header
	Layers  map[ObjectID]*Layer
	Layouts map[ObjectID]bool
}

// NewMemDatabase returns a database with layer 0 and the standard
// linetype and material records allocated at fixed low ids.
func NewMemDatabase(file uint32) *MemDatabase {
	db := &MemDatabase{
		File: file,
		Hdr: Header{
			ModelSpace:         1,
			Layer0:             2,
			Defpoints:          3,
			LinetypeByLayer:    4,
			LinetypeByBlock:    5,
			LinetypeContinuous: 6,
			MaterialByLayer:    7,
			MaterialByBlock:    8,
			MaterialGlobal:     9,
			AnnotationScale:    1,
		},
		Layers:  make(map[ObjectID]*Layer),
		Layouts: make(map[ObjectID]bool),
	}
	db.AddLayer(&Layer{ID: 2, Name: "0", Color: ColorIndex(7), Linetype: 6, Material: 9, Weight: WeightByDefault})
	db.AddLayer(&Layer{ID: 3, Name: "Defpoints", Color: ColorIndex(7), Linetype: 6, Material: 9, Weight: WeightByDefault})
	return db
}

// AddLayer registers a layer record.
func (db *MemDatabase) AddLayer(l *Layer) { db.Layers[l.ID] = l }

// FileID implements Database.
func (db *MemDatabase) FileID() uint32 { return db.File }

// Header implements Database.
func (db *MemDatabase) Header() *Header { return &db.Hdr }

// Layer implements Database.
func (db *MemDatabase) Layer(id ObjectID) (*Layer, bool) {
	l, ok := db.Layers[id]
	return l, ok
}

// IsLayout implements Database.
func (db *MemDatabase) IsLayout(block ObjectID) bool { return db.Layouts[block] }
