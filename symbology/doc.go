// Package symbology resolves the visual attributes of drawing entities.
//
// Every entity drawn by the dispatcher gets a [VisualState] built from
// its stored attributes and, for entities inside a block reference, from
// the state of the parent entity. Attributes set to ByBlock inherit the
// parent's resolved value; attributes set to ByLayer read the layer
// table, where an entity on layer 0 floats to the layer of its parent.
//
// Resolution is transitive: the parent's [EffectiveByBlock] has already
// been resolved against its own parent, so a chain of ByBlock entities
// of any depth ends at the nearest concrete value, or at the root
// defaults (color 255, Continuous, the global material, weight 0).
//
// [VisualState.DisplayParams] projects a resolved state into the display
// parameters attached to each geometry record. Attributes that can be
// left to the layer's sub-category are omitted; all others become
// explicit overrides.
package symbology
