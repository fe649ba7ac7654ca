package dispatch

import (
	"sort"
	"sync"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/symbology"
)

// Extension converts entities of one kind straight to geometry, without
// the toolkit drawing their primitives. Solid and region conversions
// are the usual case.
type Extension interface {
	// ConvertToGeometry returns the geometry of ent under state. A nil
	// geometry or an error makes the dispatcher fall back to the
	// primitives the toolkit draws for the entity.
	ConvertToGeometry(ent *dwgdraw.Entity, target2d bool, state *symbology.VisualState) (dwgdraw.Geometry, error)
}

// ExtensionFunc adapts a function to Extension.
type ExtensionFunc func(ent *dwgdraw.Entity, target2d bool, state *symbology.VisualState) (dwgdraw.Geometry, error)

// ConvertToGeometry implements Extension.
func (f ExtensionFunc) ConvertToGeometry(ent *dwgdraw.Entity, target2d bool, state *symbology.VisualState) (dwgdraw.Geometry, error) {
	return f(ent, target2d, state)
}

// ExtensionRegistry maps entity class names to extensions. It is safe
// for concurrent use.
type ExtensionRegistry struct {
	mu         sync.RWMutex
	extensions map[string]Extension
}

// NewExtensionRegistry returns an empty registry.
func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{extensions: make(map[string]Extension)}
}

// Register registers ext for entities whose kind name is kind, such as
// "3DSOLID". It panics if ext is nil or kind is already registered, so
// that conflicting registrations surface at startup.
func (r *ExtensionRegistry) Register(kind string, ext Extension) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ext == nil {
		panic("dispatch: Register extension is nil")
	}
	if _, dup := r.extensions[kind]; dup {
		panic("dispatch: Register called twice for " + kind)
	}
	r.extensions[kind] = ext
}

// Unregister removes the extension of kind. It does nothing when none
// is registered.
func (r *ExtensionRegistry) Unregister(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.extensions, kind)
}

// Lookup returns the extension of kind. A nil registry has none.
func (r *ExtensionRegistry) Lookup(kind string) (Extension, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext, ok := r.extensions[kind]
	return ext, ok
}

// Kinds returns the registered kind names, sorted.
func (r *ExtensionRegistry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.extensions))
	for name := range r.extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
