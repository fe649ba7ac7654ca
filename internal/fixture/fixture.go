package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/dispatch"
)

var (
	ErrUnknownPrimitive = errors.New("fixture: unknown primitive")
	ErrUnknownLayer     = errors.New("fixture: unknown layer")
	ErrUnknownBlock     = errors.New("fixture: unknown block")
	ErrDuplicateBlock   = errors.New("fixture: duplicate block")
	ErrBlockCycle       = errors.New("fixture: block references itself")
	// ErrReservedID is returned for layer and block ids below 10, which
	// hold the standard table records.
	ErrReservedID = errors.New("fixture: reserved object id")
)

// firstFreeID is the lowest id a fixture may assign.
const firstFreeID = 10

// Document is the YAML form of a fixture.
type Document struct {
	File     uint32       `yaml:"file"`
	Layers   []LayerSpec  `yaml:"layers"`
	Layouts  []uint64     `yaml:"layouts"`
	Blocks   []BlockSpec  `yaml:"blocks"`
	Entities []EntitySpec `yaml:"entities"`
}

// LayerSpec describes a layer table record.
type LayerSpec struct {
	ID     uint64 `yaml:"id"`
	Name   string `yaml:"name"`
	Color  string `yaml:"color"`
	Weight *int16 `yaml:"weight"`
	Off    bool   `yaml:"off"`
	Frozen bool   `yaml:"frozen"`
}

// BlockSpec describes a block definition.
type BlockSpec struct {
	ID       uint64       `yaml:"id"`
	Name     string       `yaml:"name"`
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec describes one entity and the primitives it draws.
type EntitySpec struct {
	ID   uint64 `yaml:"id"`
	Kind string `yaml:"kind"`
	// Layer 0 is layer "0".
	Layer     uint64           `yaml:"layer"`
	Color     string           `yaml:"color"`
	Weight    *int16           `yaml:"weight"`
	Invisible bool             `yaml:"invisible"`
	Props     map[string]any   `yaml:"props"`
	Prims     []map[string]any `yaml:"prims"`
	Children  []EntitySpec     `yaml:"children"`

	// Insert names the block drawn by an INSERT.
	Insert     string       `yaml:"insert"`
	At         []float64    `yaml:"at"`
	Scale      float64      `yaml:"scale"`
	Rotation   float64      `yaml:"rotation"`
	Attributes []EntitySpec `yaml:"attributes"`
}

// Fixture is a decoded drawing ready to be replayed.
type Fixture struct {
	DB     *dwgdraw.MemDatabase
	Blocks map[string]dwgdraw.Block

	roots []*entityNode
}

// Load decodes a fixture from r.
func Load(r io.Reader) (*Fixture, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("fixture: decode: %w", err)
	}
	return Parse(&doc)
}

// LoadFile decodes the fixture file at path.
func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	defer f.Close()
	return Load(f)
}

type builder struct {
	db        *dwgdraw.MemDatabase
	specs     map[string]*BlockSpec
	nodes     map[string]*blockNode
	expanding map[string]bool
}

// Parse builds a fixture from a decoded document.
func Parse(doc *Document) (*Fixture, error) {
	file := doc.File
	if file == 0 {
		file = 1
	}
	b := &builder{
		db:        dwgdraw.NewMemDatabase(file),
		specs:     make(map[string]*BlockSpec, len(doc.Blocks)),
		nodes:     make(map[string]*blockNode, len(doc.Blocks)),
		expanding: make(map[string]bool),
	}

	for _, ls := range doc.Layers {
		if err := b.addLayer(ls); err != nil {
			return nil, err
		}
	}
	for _, id := range doc.Layouts {
		b.db.Layouts[dwgdraw.ObjectID(id)] = true
	}
	for i := range doc.Blocks {
		bs := &doc.Blocks[i]
		if bs.ID < firstFreeID {
			return nil, fmt.Errorf("%w: block %q has id %d", ErrReservedID, bs.Name, bs.ID)
		}
		if _, dup := b.specs[bs.Name]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateBlock, bs.Name)
		}
		b.specs[bs.Name] = bs
	}

	fx := &Fixture{DB: b.db, Blocks: make(map[string]dwgdraw.Block, len(doc.Blocks))}
	for i := range doc.Blocks {
		n, err := b.block(doc.Blocks[i].Name)
		if err != nil {
			return nil, err
		}
		fx.Blocks[n.block.Name] = n.block
	}

	ms := b.db.Hdr.ModelSpace
	for i := range doc.Entities {
		n, err := b.entity(&doc.Entities[i], ms)
		if err != nil {
			return nil, err
		}
		fx.roots = append(fx.roots, n)
	}
	dwgdraw.Logger().Debug("fixture: parsed", "layers", len(doc.Layers), "blocks", len(doc.Blocks), "entities", len(doc.Entities))
	return fx, nil
}

func (b *builder) addLayer(ls LayerSpec) error {
	if ls.ID < firstFreeID {
		return fmt.Errorf("%w: layer %q has id %d", ErrReservedID, ls.Name, ls.ID)
	}
	c := dwgdraw.ColorIndex(7)
	if ls.Color != "" {
		var err error
		if c, err = parseColor(ls.Color); err != nil {
			return fmt.Errorf("fixture: layer %q: %w", ls.Name, err)
		}
	}
	w := dwgdraw.WeightByDefault
	if ls.Weight != nil {
		w = dwgdraw.LineWeight(*ls.Weight)
	}
	h := b.db.Header()
	b.db.AddLayer(&dwgdraw.Layer{
		ID:       dwgdraw.ObjectID(ls.ID),
		Name:     ls.Name,
		Color:    c,
		Linetype: h.LinetypeContinuous,
		Material: h.MaterialGlobal,
		Weight:   w,
		Off:      ls.Off,
		Frozen:   ls.Frozen,
	})
	return nil
}

// block returns the node of the named block, building it on first use.
func (b *builder) block(name string) (*blockNode, error) {
	if n, ok := b.nodes[name]; ok {
		return n, nil
	}
	bs, ok := b.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownBlock, name)
	}
	if b.expanding[name] {
		return nil, fmt.Errorf("%w: %q", ErrBlockCycle, name)
	}
	b.expanding[name] = true
	defer delete(b.expanding, name)

	n := &blockNode{block: dwgdraw.Block{ID: dwgdraw.ObjectID(bs.ID), Name: bs.Name, Database: b.db}}
	for i := range bs.Entities {
		en, err := b.entity(&bs.Entities[i], n.block.ID)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", name, err)
		}
		n.entities = append(n.entities, en)
	}
	b.nodes[name] = n
	return n, nil
}

func (b *builder) entity(es *EntitySpec, owner dwgdraw.ObjectID) (*entityNode, error) {
	ent, err := b.entityRecord(es, owner)
	if err != nil {
		return nil, fmt.Errorf("entity %d: %w", es.ID, err)
	}
	n := &entityNode{entity: ent}

	for i, pm := range es.Prims {
		p, err := decodePrimitive(pm)
		if err != nil {
			return nil, fmt.Errorf("entity %d prim %d: %w", es.ID, i, err)
		}
		n.prims = append(n.prims, p)
	}
	for i := range es.Children {
		c, err := b.entity(&es.Children[i], owner)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, c)
	}

	if es.Insert != "" {
		ref, ok := ent.Kind.(dwgdraw.BlockReference)
		if !ok {
			return nil, fmt.Errorf("entity %d: %s cannot insert a block", es.ID, es.Kind)
		}
		blk, err := b.block(es.Insert)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", es.ID, err)
		}
		p := placement{At: es.At, Rotation: es.Rotation, Scale: es.Scale}
		if n.insert, err = p.transform(); err != nil {
			return nil, fmt.Errorf("entity %d: insert point: %w", es.ID, err)
		}
		n.block = blk
		ref.Block = blk.block.ID
		for i := range es.Attributes {
			as := &es.Attributes[i]
			if as.Kind == "" {
				as.Kind = "ATTRIB"
			}
			a, err := b.entity(as, owner)
			if err != nil {
				return nil, err
			}
			n.attributes = append(n.attributes, a)
			ref.Attributes = append(ref.Attributes, a.entity)
		}
		ent.Kind = ref
	}
	return n, nil
}

func (b *builder) entityRecord(es *EntitySpec, owner dwgdraw.ObjectID) (*dwgdraw.Entity, error) {
	h := b.db.Header()
	layer := h.Layer0
	if es.Layer != 0 {
		layer = dwgdraw.ObjectID(es.Layer)
		if _, ok := b.db.Layer(layer); !ok {
			return nil, fmt.Errorf("%w %d", ErrUnknownLayer, es.Layer)
		}
	}
	c, err := parseColor(es.Color)
	if err != nil {
		return nil, err
	}
	kind, err := entityKind(es)
	if err != nil {
		return nil, err
	}
	w := dwgdraw.WeightByLayer
	if es.Weight != nil {
		w = dwgdraw.LineWeight(*es.Weight)
	}
	ent := &dwgdraw.Entity{
		ID:            dwgdraw.ObjectID(es.ID),
		Owner:         owner,
		Kind:          kind,
		Layer:         layer,
		Color:         c,
		Linetype:      h.LinetypeByLayer,
		Material:      h.MaterialByLayer,
		Weight:        w,
		LinetypeScale: 1,
		Database:      b.db,
	}
	if es.Invisible {
		ent.Visibility = dwgdraw.Invisible
	}
	return ent, nil
}

type kindProps struct {
	Thickness float64  `mapstructure:"thickness"`
	Width     *float64 `mapstructure:"width"`
	Planar    bool     `mapstructure:"planar"`
	Gradient  bool     `mapstructure:"gradient"`
	Class     string   `mapstructure:"class"`
}

// entityKind maps a DXF class name and its props to an entity kind.
// Unrecognized classes become Other.
func entityKind(es *EntitySpec) (dwgdraw.EntityKind, error) {
	var p kindProps
	if err := decodeMap(es.Props, &p); err != nil {
		return nil, fmt.Errorf("props: %w", err)
	}
	name := strings.ToUpper(es.Kind)
	if es.Insert != "" && name == "" {
		name = "INSERT"
	}
	switch name {
	case "ARC":
		return dwgdraw.Arc{Thickness: p.Thickness}, nil
	case "CIRCLE":
		return dwgdraw.Circle{Thickness: p.Thickness}, nil
	case "POLYLINE":
		return dwgdraw.Polyline2d{Thickness: p.Thickness}, nil
	case "LWPOLYLINE":
		return dwgdraw.LWPolyline{Thickness: p.Thickness, ConstantWidth: p.Width}, nil
	case "LINE":
		return dwgdraw.Line{Thickness: p.Thickness}, nil
	case "POINT":
		return dwgdraw.Point{Thickness: p.Thickness}, nil
	case "SOLID":
		return dwgdraw.Solid{Thickness: p.Thickness}, nil
	case "TRACE":
		return dwgdraw.Trace{Thickness: p.Thickness}, nil
	case "TEXT":
		return dwgdraw.Text{Thickness: p.Thickness}, nil
	case "INSERT":
		if es.Insert == "" {
			return nil, errors.New("INSERT without insert block")
		}
		return dwgdraw.BlockReference{}, nil
	case "ATTDEF":
		return dwgdraw.AttributeDefinition{}, nil
	case "ATTRIB":
		return dwgdraw.Attribute{}, nil
	case "DIMENSION":
		return dwgdraw.Dimension{}, nil
	case "HATCH":
		return dwgdraw.Hatch{Gradient: p.Gradient}, nil
	case "3DSOLID", "REGION", "BODY":
		return dwgdraw.Shape3d{Planar: p.Planar}, nil
	case "":
		return nil, errors.New("missing kind")
	default:
		if p.Class != "" {
			name = p.Class
		}
		return dwgdraw.Other{Class: name}, nil
	}
}

// parseColor reads bylayer, byblock, an index color 1..255 or #rrggbb.
// The empty string is ByLayer.
func parseColor(s string) (dwgdraw.Color, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); {
	case v == "" || v == "bylayer":
		return dwgdraw.ColorByLayer(), nil
	case v == "byblock":
		return dwgdraw.ColorByBlock(), nil
	case strings.HasPrefix(v, "#"):
		if len(v) != 7 {
			return dwgdraw.Color{}, fmt.Errorf("bad color %q", s)
		}
		rgb, err := strconv.ParseUint(v[1:], 16, 32)
		if err != nil {
			return dwgdraw.Color{}, fmt.Errorf("bad color %q", s)
		}
		return dwgdraw.ColorRGB(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb)), nil
	default:
		i, err := strconv.ParseUint(v, 10, 8)
		if err != nil || i == 0 {
			return dwgdraw.Color{}, fmt.Errorf("bad color %q", s)
		}
		return dwgdraw.ColorIndex(uint8(i)), nil
	}
}

func parseColors(ss []string) ([]dwgdraw.Color, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	out := make([]dwgdraw.Color, len(ss))
	for i, s := range ss {
		c, err := parseColor(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Drawables returns a drawable per model space entity.
func (f *Fixture) Drawables() []dispatch.Drawable {
	out := make([]dispatch.Drawable, len(f.roots))
	for i, n := range f.roots {
		out[i] = n
	}
	return out
}

// Events returns the depth-first traversal of model space. An INSERT
// expands to its block under the insert transform, followed by its
// attributes.
func (f *Fixture) Events() []dispatch.Event {
	var evs []dispatch.Event
	for _, n := range f.roots {
		evs = n.events(evs)
	}
	return evs
}

// Draw draws every model space entity through d and joins the errors.
func (f *Fixture) Draw(d *dispatch.Dispatcher) error {
	var errs []error
	for _, n := range f.roots {
		if err := d.Draw(n); err != nil {
			errs = append(errs, fmt.Errorf("entity %d: %w", n.entity.ID, err))
		}
	}
	return errors.Join(errs...)
}

type entityNode struct {
	entity     *dwgdraw.Entity
	prims      []primitive
	children   []*entityNode
	block      *blockNode
	insert     dwgdraw.Transform
	attributes []*entityNode
}

var _ dispatch.AttributeSource = (*entityNode)(nil)

func (n *entityNode) Block() (dwgdraw.Block, bool)    { return dwgdraw.Block{}, false }
func (n *entityNode) Entity() (*dwgdraw.Entity, bool) { return n.entity, true }

func (n *entityNode) Draw(g dispatch.Geometry) error {
	var errs []error
	for _, p := range n.prims {
		if err := p(g); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range n.children {
		if err := g.Draw(c); err != nil {
			errs = append(errs, err)
		}
	}
	if n.block != nil {
		g.PushModelTransform(n.insert)
		err := g.Draw(n.block)
		g.PopModelTransform()
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *entityNode) Attributes() []dispatch.Drawable {
	out := make([]dispatch.Drawable, len(n.attributes))
	for i, a := range n.attributes {
		out[i] = a
	}
	return out
}

func (n *entityNode) events(evs []dispatch.Event) []dispatch.Event {
	evs = append(evs, dispatch.Event{Kind: dispatch.EventEnterEntity, Entity: n.entity})
	evs = n.body(evs)
	for _, a := range n.attributes {
		evs = append(evs, dispatch.Event{Kind: dispatch.EventEnterAttribute, Entity: a.entity})
		evs = a.body(evs)
		evs = append(evs, dispatch.Event{Kind: dispatch.EventLeave})
	}
	return append(evs, dispatch.Event{Kind: dispatch.EventLeave})
}

func (n *entityNode) body(evs []dispatch.Event) []dispatch.Event {
	for _, p := range n.prims {
		evs = append(evs, dispatch.Event{Kind: dispatch.EventPrimitive, Primitive: p})
	}
	for _, c := range n.children {
		evs = c.events(evs)
	}
	if n.block != nil {
		t := n.insert
		evs = append(evs, dispatch.Event{Kind: dispatch.EventPrimitive, Primitive: func(g dispatch.Geometry) error {
			g.PushModelTransform(t)
			return nil
		}})
		evs = append(evs, dispatch.Event{Kind: dispatch.EventEnterBlock, Block: n.block.block})
		for _, e := range n.block.entities {
			evs = e.events(evs)
		}
		evs = append(evs,
			dispatch.Event{Kind: dispatch.EventLeave},
			dispatch.Event{Kind: dispatch.EventPrimitive, Primitive: func(g dispatch.Geometry) error {
				g.PopModelTransform()
				return nil
			}},
		)
	}
	return evs
}

type blockNode struct {
	block    dwgdraw.Block
	entities []*entityNode
}

func (n *blockNode) Block() (dwgdraw.Block, bool)    { return n.block, true }
func (n *blockNode) Entity() (*dwgdraw.Entity, bool) { return nil, false }

func (n *blockNode) Draw(g dispatch.Geometry) error {
	var errs []error
	for _, e := range n.entities {
		if err := g.Draw(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// plineSource is the polyline.Source of a pline primitive.
type plineSource struct {
	points    []dwgdraw.Point3
	bulges    []float64
	widths    [][2]float64
	width     *float64
	elevation float64
	thickness float64
	normal    dwgdraw.Vec3
	closed    bool
}

func (s *plineSource) NumVerts() int              { return len(s.points) }
func (s *plineSource) Point(i int) dwgdraw.Point3 { return s.points[i] }
func (s *plineSource) Elevation() float64         { return s.elevation }
func (s *plineSource) Thickness() float64         { return s.thickness }
func (s *plineSource) Normal() dwgdraw.Vec3       { return s.normal }
func (s *plineSource) IsClosed() bool             { return s.closed }

func (s *plineSource) Bulge(i int) float64 {
	if i < len(s.bulges) {
		return s.bulges[i]
	}
	return 0
}

func (s *plineSource) Widths(i int) (float64, float64) {
	if i < len(s.widths) {
		return s.widths[i][0], s.widths[i][1]
	}
	return 0, 0
}

func (s *plineSource) ConstantWidth() (float64, bool) {
	if s.width == nil {
		return 0, false
	}
	return *s.width, true
}
