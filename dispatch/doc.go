// Package dispatch turns the draw callbacks of a CAD toolkit into
// geometry records with resolved symbology.
//
// A Dispatcher implements Geometry, the callback contract a drawable
// draws through. Nested blocks and entities are tracked on explicit
// frame stacks, so a drawing can be driven either by a toolkit that
// recurses through Draw or by an Iterator of flat events through Walk:
//
//	d := dispatch.New(db, dwgdraw.Block{}, dispatch.WithCategories(catalog))
//	defer d.Close()
//
//	err := d.Walk(dispatch.NewSliceIterator([]dispatch.Event{
//		{Kind: dispatch.EventEnterEntity, Entity: circle},
//		{Kind: dispatch.EventPrimitive, Primitive: func(g dispatch.Geometry) error {
//			g.CircleByCenter(dwgdraw.Pt(0, 0, 0), 5, dwgdraw.UnitZ)
//			return nil
//		}},
//		{Kind: dispatch.EventLeave},
//	}))
//
//	for _, id := range d.Output().BlockIDs() {
//		records := d.Output().Records(id)
//		...
//	}
//
// Entering an entity saves the current VisualState and resolves the
// entity's own state against it. Leaving restores the saved copy, so
// symbology set while drawing one entity never reaches its siblings.
//
// Protocol extensions registered in an ExtensionRegistry convert whole
// entities, typically solids, before the toolkit draws any primitive.
// Kernel bodies they return are released by Close.
package dispatch
