package dispatch

import (
	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/cache"
	"github.com/gogpu/dwgdraw/symbology"
)

// SubCategory describes a sub-category known to the category collaborator.
type SubCategory struct {
	ID       symbology.SubCategoryID
	Category symbology.CategoryID
	Name     string
	Visible  bool
}

// CategoryResolver assigns display categories to layers. The xref
// database is nil for geometry of the top-level file.
type CategoryResolver interface {
	SpatialCategory(layer dwgdraw.ObjectID, xref dwgdraw.Database) (symbology.CategoryID, symbology.SubCategoryID)
	DrawingCategory(layer, viewport dwgdraw.ObjectID, xref dwgdraw.Database) (symbology.CategoryID, symbology.SubCategoryID)
	// SubCategories lists the sub-categories of a category.
	SubCategories(cat symbology.CategoryID) []SubCategory
	// InsertAlternateSubCategory adds a copy of sub with the given
	// visibility and returns its id.
	InsertAlternateSubCategory(sub SubCategory, visible bool) symbology.SubCategoryID
}

type categoryKey struct {
	layer    dwgdraw.ObjectID
	viewport dwgdraw.ObjectID
	file     uint32
	xref     bool
	drawing  bool
}

type categoryPair struct {
	cat symbology.CategoryID
	sub symbology.SubCategoryID
}

type alternateKey struct {
	sub     symbology.SubCategoryID
	visible bool
}

// categoryCache memoizes category lookups. Layers repeat for nearly
// every primitive of a drawing.
type categoryCache struct {
	resolver   CategoryResolver
	pairs      *cache.Cache[categoryKey, categoryPair]
	alternates *cache.Cache[alternateKey, symbology.SubCategoryID]
}

func newCategoryCache(r CategoryResolver, capacity int) *categoryCache {
	return &categoryCache{
		resolver:   r,
		pairs:      cache.New[categoryKey, categoryPair](capacity),
		alternates: cache.New[alternateKey, symbology.SubCategoryID](capacity),
	}
}

func (c *categoryCache) spatial(layer dwgdraw.ObjectID, xref dwgdraw.Database) categoryPair {
	key := categoryKey{layer: layer, file: fileID(xref), xref: xref != nil}
	return c.pairs.GetOrCreate(key, func() categoryPair {
		cat, sub := c.resolver.SpatialCategory(layer, xref)
		return categoryPair{cat: cat, sub: sub}
	})
}

func (c *categoryCache) drawing(layer, viewport dwgdraw.ObjectID, xref dwgdraw.Database) categoryPair {
	key := categoryKey{layer: layer, viewport: viewport, file: fileID(xref), xref: xref != nil, drawing: true}
	return c.pairs.GetOrCreate(key, func() categoryPair {
		cat, sub := c.resolver.DrawingCategory(layer, viewport, xref)
		return categoryPair{cat: cat, sub: sub}
	})
}

// matchVisibility returns a sub-category of cat whose visibility equals
// visible. The given sub-category is kept when it matches; otherwise a
// sibling that matches is used, or an alternate is inserted.
func (c *categoryCache) matchVisibility(cat symbology.CategoryID, sub symbology.SubCategoryID, visible bool) symbology.SubCategoryID {
	key := alternateKey{sub: sub, visible: visible}
	if id, ok := c.alternates.Get(key); ok {
		return id
	}

	siblings := c.resolver.SubCategories(cat)
	var own *SubCategory
	for i := range siblings {
		if siblings[i].ID == sub {
			own = &siblings[i]
			break
		}
	}
	if own == nil || own.Visible == visible {
		return sub
	}

	id := symbology.SubCategoryID(0)
	for _, s := range siblings {
		if s.Visible == visible {
			id = s.ID
			break
		}
	}
	if !id.IsValid() {
		id = c.resolver.InsertAlternateSubCategory(*own, visible)
	}
	c.alternates.Set(key, id)
	return id
}

func fileID(db dwgdraw.Database) uint32 {
	if db == nil {
		return 0
	}
	return db.FileID()
}
