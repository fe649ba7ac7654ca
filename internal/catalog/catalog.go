// Package catalog is an in-memory category collaborator for the draw
// dispatcher. Each layer gets one category with a visible default
// sub-category; alternates are added on demand.
package catalog

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/dispatch"
	"github.com/gogpu/dwgdraw/symbology"
)

// namespace seeds the name-based UUIDs of alternate sub-categories, so
// that the same alternate gets the same id in every run.
var namespace = uuid.MustParse("8f2c6f0e-3f7a-4c55-9c1e-0d9a4b7e21c4")

// Category is one category of the catalog.
type Category struct {
	ID   symbology.CategoryID
	Name string
	// Drawing is set for categories of 2D drawing models.
	Drawing  bool
	Viewport dwgdraw.ObjectID
	Subs     []dispatch.SubCategory
}

type key struct {
	file     uint32
	layer    dwgdraw.ObjectID
	viewport dwgdraw.ObjectID
	drawing  bool
}

// Catalog implements dispatch.CategoryResolver. It is safe for
// concurrent use.
type Catalog struct {
	mu   sync.Mutex
	db   dwgdraw.Database
	next uint64

	byKey map[key]*Category
	byID  map[symbology.CategoryID]*Category
	// alternates maps an alternate id to the UUID it was derived from.
	alternates map[symbology.SubCategoryID]uuid.UUID
}

var _ dispatch.CategoryResolver = (*Catalog)(nil)

// New returns an empty catalog for the drawing db.
func New(db dwgdraw.Database) *Catalog {
	return &Catalog{
		db:         db,
		byKey:      make(map[key]*Category),
		byID:       make(map[symbology.CategoryID]*Category),
		alternates: make(map[symbology.SubCategoryID]uuid.UUID),
	}
}

// SpatialCategory implements dispatch.CategoryResolver.
func (c *Catalog) SpatialCategory(layer dwgdraw.ObjectID, xref dwgdraw.Database) (symbology.CategoryID, symbology.SubCategoryID) {
	cat := c.category(key{layer: layer}, xref)
	return cat.ID, cat.Subs[0].ID
}

// DrawingCategory implements dispatch.CategoryResolver.
func (c *Catalog) DrawingCategory(layer, viewport dwgdraw.ObjectID, xref dwgdraw.Database) (symbology.CategoryID, symbology.SubCategoryID) {
	cat := c.category(key{layer: layer, viewport: viewport, drawing: true}, xref)
	return cat.ID, cat.Subs[0].ID
}

func (c *Catalog) category(k key, xref dwgdraw.Database) *Category {
	db := c.db
	if xref != nil {
		db = xref
	}
	if db != nil {
		k.file = db.FileID()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cat, ok := c.byKey[k]; ok {
		return cat
	}

	name := fmt.Sprintf("layer-%d", k.layer)
	if db != nil {
		if l, ok := db.Layer(k.layer); ok && l.Name != "" {
			name = l.Name
		}
	}
	if xref != nil {
		name = fmt.Sprintf("%d|%s", k.file, name)
	}

	cat := &Category{
		ID:       symbology.CategoryID(c.allocate()),
		Name:     name,
		Drawing:  k.drawing,
		Viewport: k.viewport,
	}
	cat.Subs = []dispatch.SubCategory{{
		ID:       symbology.SubCategoryID(c.allocate()),
		Category: cat.ID,
		Name:     name,
		Visible:  true,
	}}
	c.byKey[k] = cat
	c.byID[cat.ID] = cat
	dwgdraw.Logger().Debug("catalog: new category", "name", name, "id", uint64(cat.ID), "drawing", k.drawing)
	return cat
}

func (c *Catalog) allocate() uint64 {
	c.next++
	return c.next
}

// SubCategories implements dispatch.CategoryResolver.
func (c *Catalog) SubCategories(id symbology.CategoryID) []dispatch.SubCategory {
	c.mu.Lock()
	defer c.mu.Unlock()

	cat, ok := c.byID[id]
	if !ok {
		return nil
	}
	return append([]dispatch.SubCategory(nil), cat.Subs...)
}

// InsertAlternateSubCategory implements dispatch.CategoryResolver. The
// id of the alternate is derived from a name-based UUID of sub and the
// visibility.
func (c *Catalog) InsertAlternateSubCategory(sub dispatch.SubCategory, visible bool) symbology.SubCategoryID {
	c.mu.Lock()
	defer c.mu.Unlock()

	cat, ok := c.byID[sub.Category]
	if !ok {
		dwgdraw.Logger().Warn("catalog: alternate for unknown category", "category", uint64(sub.Category))
		return sub.ID
	}

	u := uuid.NewSHA1(namespace, fmt.Appendf(nil, "%d/%d/%t", sub.Category, sub.ID, visible))
	id := alternateID(u)
	for _, s := range cat.Subs {
		if s.ID == id {
			return id
		}
	}

	suffix := "hidden"
	if visible {
		suffix = "visible"
	}
	cat.Subs = append(cat.Subs, dispatch.SubCategory{
		ID:       id,
		Category: cat.ID,
		Name:     sub.Name + " (" + suffix + ")",
		Visible:  visible,
	})
	c.alternates[id] = u
	return id
}

// alternateID folds a UUID into a sub-category id. The top bit is set,
// so alternates never collide with the sequential ids of the catalog.
func alternateID(u uuid.UUID) symbology.SubCategoryID {
	return symbology.SubCategoryID(binary.BigEndian.Uint64(u[:8]) | 1<<63)
}

// AlternateUUID returns the UUID an alternate sub-category id was
// derived from.
func (c *Catalog) AlternateUUID(id symbology.SubCategoryID) (uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.alternates[id]
	return u, ok
}

// Categories returns all categories ordered by id.
func (c *Catalog) Categories() []Category {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Category, 0, len(c.byID))
	for _, cat := range c.byID {
		cp := *cat
		cp.Subs = append([]dispatch.SubCategory(nil), cat.Subs...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lookup returns the category with the given id.
func (c *Catalog) Lookup(id symbology.CategoryID) (Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cat, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	cp := *cat
	cp.Subs = append([]dispatch.SubCategory(nil), cat.Subs...)
	return cp, true
}
