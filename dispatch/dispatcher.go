package dispatch

import (
	"fmt"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/symbology"
	"github.com/gogpu/dwgdraw/text"
)

// Drawable is a block definition or an entity the toolkit can draw.
// Draw emits primitives through g; it may draw nested drawables through
// g.Draw.
type Drawable interface {
	// Block reports the block definition drawn, if the drawable is one.
	Block() (dwgdraw.Block, bool)
	// Entity reports the entity drawn, if the drawable is one.
	Entity() (*dwgdraw.Entity, bool)
	Draw(g Geometry) error
}

// AttributeSource is implemented by block reference drawables whose
// attributes are drawn after the reference.
type AttributeSource interface {
	Attributes() []Drawable
}

type blockFrame struct {
	block  dwgdraw.Block
	fileID uint32
	count  int
}

type entityFrame struct {
	entity *dwgdraw.Entity
	// saved is the state in effect before the entity was entered.
	saved symbology.VisualState
	// initial is the entity's state as resolved on entry, before draw
	// callbacks changed it. Attributes resolve against it.
	initial symbology.VisualState
	regen   RegenType
}

// Dispatcher receives draw callbacks and turns them into geometry
// records with resolved symbology.
//
// Frames are entered and left explicitly, either by the toolkit through
// Draw, by an Iterator through Walk, or by calling EnterBlock,
// EnterEntity and their Leave counterparts directly. The Dispatcher is
// not safe for concurrent use.
type Dispatcher struct {
	opts options
	db   dwgdraw.Database

	blocks   []blockFrame
	entities []entityFrame

	state symbology.VisualState
	regen RegenType

	transforms []dwgdraw.Transform
	clips      []ClipBoundary

	output     *Output
	handles    KernelHandles
	categories *categoryCache

	fonts       *text.Measurer
	fontsFailed bool
}

// New creates a dispatcher for the drawing db. root is the space the
// walk starts in; a zero root means model space.
func New(db dwgdraw.Database, root dwgdraw.Block, opts ...Option) *Dispatcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if !root.ID.IsValid() {
		root.ID = db.Header().ModelSpace
		root.Name = "*Model_Space"
	}
	if root.Database == nil {
		root.Database = db
	}

	d := &Dispatcher{
		opts:       o,
		db:         db,
		blocks:     make([]blockFrame, 0, 8),
		entities:   make([]entityFrame, 0, 8),
		regen:      o.regen,
		transforms: make([]dwgdraw.Transform, 0, 8),
		output:     newOutput(),
		fonts:      o.fonts,
	}
	if o.categories != nil {
		d.categories = newCategoryCache(o.categories, o.cacheEntries)
	}
	d.blocks = append(d.blocks, blockFrame{block: root, fileID: fileID(root.Database)})

	// Primitives drawn outside any entity use layer 0 with ByLayer symbology.
	h := db.Header()
	rootEnt := &dwgdraw.Entity{
		Owner:    root.ID,
		Layer:    h.Layer0,
		Color:    dwgdraw.ColorByLayer(),
		Linetype: h.LinetypeByLayer,
		Material: h.MaterialByLayer,
		Weight:   dwgdraw.WeightByLayer,
		Database: db,
	}
	d.state = symbology.NewVisualState(rootEnt, nil, d.stateOptions()...)
	d.state.ResolveRoot()
	return d
}

func (d *Dispatcher) stateOptions() []symbology.Option {
	return []symbology.Option{
		symbology.WithRootDatabase(d.db),
		symbology.WithMaterialOverrides(d.opts.materials),
	}
}

// Output returns the records appended so far.
func (d *Dispatcher) Output() *Output { return d.output }

// State returns the symbology of the current frame. Draw methods change
// it through its setters; changes last until the frame is left.
func (d *Dispatcher) State() *symbology.VisualState { return &d.state }

// RegenType returns the regen type in effect.
func (d *Dispatcher) RegenType() RegenType { return d.regen }

// Is2d reports whether geometry is produced for a 2D model.
func (d *Dispatcher) Is2d() bool { return d.opts.target2d }

// KernelHandles returns the kernel bodies owned by the dispatcher.
func (d *Dispatcher) KernelHandles() *KernelHandles { return &d.handles }

// Close releases the kernel bodies collected while drawing.
func (d *Dispatcher) Close() error {
	d.handles.Close()
	return nil
}

// isDrawingBlock reports whether a block below the root space is open.
func (d *Dispatcher) isDrawingBlock() bool { return len(d.blocks) > 1 }

func (d *Dispatcher) currentBlock() *blockFrame { return &d.blocks[len(d.blocks)-1] }

// EnterBlock starts drawing a block definition. Records appended until
// the matching LeaveBlock belong to it.
func (d *Dispatcher) EnterBlock(b dwgdraw.Block) {
	if b.Database == nil {
		b.Database = d.state.Database()
	}
	d.blocks = append(d.blocks, blockFrame{block: b, fileID: fileID(b.Database)})
	d.opts.metrics.frameEntered("block")
	dwgdraw.Logger().Debug("dispatch: enter block", "block", b.Name, "id", uint64(b.ID), "depth", len(d.blocks)-1)
}

// LeaveBlock finishes the innermost block. The root space cannot be left.
func (d *Dispatcher) LeaveBlock() error {
	if len(d.blocks) <= 1 {
		return fmt.Errorf("leave block: %w", ErrUnbalancedFrame)
	}
	f := d.currentBlock()
	dwgdraw.Logger().Debug("dispatch: leave block", "block", f.block.Name, "records", f.count)
	d.blocks = d.blocks[:len(d.blocks)-1]
	return nil
}

// EnterEntity starts drawing ent. It reports false when the entity is
// skipped or was converted by a protocol extension; in that case no
// frame is pushed and the entity's primitives must not be drawn.
func (d *Dispatcher) EnterEntity(ent *dwgdraw.Entity) bool {
	if _, ok := ent.Kind.(dwgdraw.AttributeDefinition); ok && d.isDrawingBlock() {
		d.skip(ent, SkipAttdef)
		return false
	}
	var parent *symbology.VisualState
	if len(d.entities) > 0 {
		parent = &d.state
	}
	return d.enter(ent, parent)
}

// EnterAttribute starts drawing an attribute of the block reference
// being drawn. The attribute resolves ByBlock symbology against the
// reference as it was entered.
func (d *Dispatcher) EnterAttribute(attr *dwgdraw.Entity) bool {
	var parent *symbology.VisualState
	if n := len(d.entities); n > 0 {
		parent = &d.entities[n-1].initial
	}
	return d.enter(attr, parent)
}

func (d *Dispatcher) enter(ent *dwgdraw.Entity, parent *symbology.VisualState) bool {
	if reason, skip := d.skipReason(ent); skip {
		d.skip(ent, reason)
		return false
	}

	child := symbology.NewVisualState(ent, parent, d.stateOptions()...)
	if parent == nil {
		child.ResolveRoot()
	}

	saved := d.state.Clone()
	if d.convert(ent, child) {
		d.state = saved
		return false
	}

	d.entities = append(d.entities, entityFrame{
		entity:  ent,
		saved:   saved,
		initial: child.Clone(),
		regen:   d.regen,
	})
	d.state = child
	if _, ok := ent.Kind.(dwgdraw.Shape3d); ok {
		d.regen = RegenRender
	}
	d.opts.metrics.frameEntered("entity")
	dwgdraw.Logger().Debug("dispatch: enter entity", "kind", ent.KindName(), "id", uint64(ent.ID), "depth", len(d.entities))
	return true
}

// LeaveEntity finishes the innermost entity and restores the state and
// regen type that were in effect when it was entered.
func (d *Dispatcher) LeaveEntity() error {
	n := len(d.entities)
	if n == 0 {
		return fmt.Errorf("leave entity: %w", ErrUnbalancedFrame)
	}
	f := d.entities[n-1]
	d.entities = d.entities[:n-1]
	d.state = f.saved
	d.regen = f.regen
	dwgdraw.Logger().Debug("dispatch: leave entity", "kind", f.entity.KindName(), "id", uint64(f.entity.ID))
	return nil
}

func (d *Dispatcher) skipReason(ent *dwgdraw.Entity) (string, bool) {
	if ent.Visibility == dwgdraw.Invisible {
		return SkipInvisible, true
	}
	if d.opts.filter != nil && d.opts.filter.IsEntityFilteredOut(ent) {
		return SkipFiltered, true
	}
	if d.isSuppressedDimensionChild(ent) {
		return SkipDimensionChild, true
	}
	return "", false
}

// isSuppressedDimensionChild reports whether ent lies on the Defpoints
// layer inside a dimension whose own layer is off or frozen.
func (d *Dispatcher) isSuppressedDimensionChild(ent *dwgdraw.Entity) bool {
	db := ent.Database
	if db == nil {
		db = d.state.Database()
	}
	if db == nil || ent.Layer != db.Header().Defpoints {
		return false
	}
	for i := len(d.entities) - 1; i >= 0; i-- {
		dim := d.entities[i].entity
		if !dim.IsDimension() {
			continue
		}
		dimDB := dim.Database
		if dimDB == nil {
			dimDB = db
		}
		l, ok := dimDB.Layer(dim.Layer)
		return ok && (l.Off || l.Frozen)
	}
	return false
}

func (d *Dispatcher) skip(ent *dwgdraw.Entity, reason string) {
	d.opts.metrics.skipped(reason)
	dwgdraw.Logger().Debug("dispatch: skip entity", "kind", ent.KindName(), "id", uint64(ent.ID), "reason", reason)
}

// convert offers ent to its protocol extension. It reports whether the
// extension produced the entity's geometry.
func (d *Dispatcher) convert(ent *dwgdraw.Entity, state symbology.VisualState) bool {
	ext, ok := d.opts.extensions.Lookup(ent.KindName())
	if !ok {
		return false
	}
	if s, ok := ent.Kind.(dwgdraw.Shape3d); ok && !s.Planar && d.opts.target2d {
		dwgdraw.Logger().Debug("dispatch: non-planar body in 2d model", "id", uint64(ent.ID))
		return false
	}

	geom, err := ext.ConvertToGeometry(ent, d.opts.target2d, &state)
	if err != nil {
		// A body built before the failure is not recorded; release it.
		if body, ok := geom.(*dwgdraw.SolidBody); ok && body != nil && !body.Owned && body.Handle != nil {
			body.Handle.Release()
		}
		dwgdraw.Logger().Warn("dispatch: extension failed, drawing primitives",
			"kind", ent.KindName(), "id", uint64(ent.ID), "err", err)
		return false
	}
	if geom == nil {
		return false
	}

	d.state = state
	d.appendGeometry(geom)
	if body, ok := geom.(*dwgdraw.SolidBody); ok && !body.Owned {
		d.handles.Add(body.Handle)
	}
	return true
}

// Draw draws a nested drawable. Block drawables are drawn inside a block
// frame and entity drawables inside an entity frame, followed by their
// attributes. A panic in the drawable is recovered and returned as an
// error wrapping ErrDrawPanic; frames it left open are closed.
func (d *Dispatcher) Draw(dr Drawable) error {
	if d == nil {
		return ErrNoGeometryOptions
	}

	if blk, ok := dr.Block(); ok {
		d.EnterBlock(blk)
		err := d.drawRecovered(dr)
		if lerr := d.LeaveBlock(); err == nil {
			err = lerr
		}
		return err
	}

	ent, ok := dr.Entity()
	if !ok {
		return d.drawRecovered(dr)
	}
	if !d.EnterEntity(ent) {
		return nil
	}
	err := d.drawRecovered(dr)
	if src, ok := dr.(AttributeSource); ok {
		for _, attr := range src.Attributes() {
			if aerr := d.drawAttribute(attr); err == nil {
				err = aerr
			}
		}
	}
	if lerr := d.LeaveEntity(); err == nil {
		err = lerr
	}
	return err
}

func (d *Dispatcher) drawAttribute(attr Drawable) error {
	ent, ok := attr.Entity()
	if !ok || !d.EnterAttribute(ent) {
		return nil
	}
	err := d.drawRecovered(attr)
	if lerr := d.LeaveEntity(); err == nil {
		err = lerr
	}
	return err
}

type frameDepth struct {
	blocks, entities, transforms, clips int
}

func (d *Dispatcher) depth() frameDepth {
	return frameDepth{
		blocks:     len(d.blocks),
		entities:   len(d.entities),
		transforms: len(d.transforms),
		clips:      len(d.clips),
	}
}

// unwind closes frames opened since fd was taken.
func (d *Dispatcher) unwind(fd frameDepth) {
	for len(d.entities) > fd.entities {
		_ = d.LeaveEntity()
	}
	if len(d.blocks) > fd.blocks {
		d.blocks = d.blocks[:fd.blocks]
	}
	if len(d.transforms) > fd.transforms {
		d.transforms = d.transforms[:fd.transforms]
	}
	if len(d.clips) > fd.clips {
		d.clips = d.clips[:fd.clips]
	}
}

func (d *Dispatcher) drawRecovered(dr Drawable) (err error) {
	fd := d.depth()
	defer func() {
		if r := recover(); r != nil {
			d.unwind(fd)
			d.opts.metrics.skipped(SkipUnexpected)
			dwgdraw.Logger().Warn("dispatch: drawable panicked", "panic", r)
			err = fmt.Errorf("%w: %v", ErrDrawPanic, r)
		}
	}()
	return dr.Draw(d)
}

// appendGeometry appends g under the current model transform.
func (d *Dispatcher) appendGeometry(g dwgdraw.Geometry) {
	d.appendWithTransform(g, d.currentTransform())
}

func (d *Dispatcher) appendWithTransform(g dwgdraw.Geometry, t dwgdraw.Transform) {
	cat, sub := d.category()
	params := d.state.DisplayParams(symbology.ProjectionContext{
		Category:    cat,
		SubCategory: sub,
		WeightMap:   d.opts.weightMap,
	})

	f := d.currentBlock()
	f.count++
	d.output.append(GeometryRecord{
		Geometry:  g,
		Display:   params,
		Transform: t,
		BlockID:   f.block.ID,
		BlockName: f.block.Name,
		FileID:    f.fileID,
	})
	d.opts.metrics.recordAppended(f.block.Name)
}

// category resolves the display category of the current state.
func (d *Dispatcher) category() (symbology.CategoryID, symbology.SubCategoryID) {
	cat, sub := d.opts.defaultCat, d.opts.defaultSub
	if d.categories == nil {
		return cat, sub
	}

	layer := d.state.EffectiveLayer()
	var xref dwgdraw.Database
	if db := d.state.Database(); db != nil && db.FileID() != d.db.FileID() {
		xref = db
	}

	var p categoryPair
	if d.opts.target2d {
		p = d.categories.drawing(layer, d.opts.viewport, xref)
	} else {
		p = d.categories.spatial(layer, xref)
		if d.isDrawingBlock() && p.cat.IsValid() && p.sub.IsValid() {
			p.sub = d.categories.matchVisibility(p.cat, p.sub, d.state.IsDisplayed())
		}
	}
	if p.cat.IsValid() {
		cat = p.cat
	}
	if p.sub.IsValid() {
		sub = p.sub
	}
	return cat, sub
}
