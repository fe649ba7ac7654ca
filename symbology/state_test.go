package symbology

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/dwgdraw"
)

const (
	layerRed    dwgdraw.ObjectID = 10
	layerFrozen dwgdraw.ObjectID = 11
	layerOff    dwgdraw.ObjectID = 12
	ltDashed    dwgdraw.ObjectID = 20
	ltHidden    dwgdraw.ObjectID = 21
	matSteel    dwgdraw.ObjectID = 30
	blockDef    dwgdraw.ObjectID = 50
)

func testDB() *dwgdraw.MemDatabase {
	db := dwgdraw.NewMemDatabase(1)
	db.AddLayer(&dwgdraw.Layer{ID: layerRed, Name: "Red", Color: dwgdraw.ColorIndex(1), Linetype: ltDashed, Material: matSteel, Weight: 50})
	db.AddLayer(&dwgdraw.Layer{ID: layerFrozen, Name: "Frozen", Color: dwgdraw.ColorIndex(2), Linetype: 6, Material: 9, Frozen: true})
	db.AddLayer(&dwgdraw.Layer{ID: layerOff, Name: "Off", Color: dwgdraw.ColorIndex(3), Linetype: 6, Material: 9, Off: true})
	return db
}

// byLayerEntity returns an entity whose attributes all defer to the layer.
func byLayerEntity(db *dwgdraw.MemDatabase, layer, owner dwgdraw.ObjectID) *dwgdraw.Entity {
	h := db.Header()
	return &dwgdraw.Entity{
		ID:            100,
		Owner:         owner,
		Kind:          dwgdraw.Line{},
		Layer:         layer,
		Color:         dwgdraw.ColorByLayer(),
		Linetype:      h.LinetypeByLayer,
		Material:      h.MaterialByLayer,
		Weight:        dwgdraw.WeightByLayer,
		LinetypeScale: 1,
		Database:      db,
	}
}

// byBlockEntity returns an entity whose attributes all defer to the parent.
func byBlockEntity(db *dwgdraw.MemDatabase, layer dwgdraw.ObjectID) *dwgdraw.Entity {
	h := db.Header()
	return &dwgdraw.Entity{
		ID:            200,
		Owner:         blockDef,
		Kind:          dwgdraw.Line{},
		Layer:         layer,
		Color:         dwgdraw.ColorByBlock(),
		Linetype:      h.LinetypeByBlock,
		Material:      h.MaterialByBlock,
		Weight:        dwgdraw.WeightByBlock,
		LinetypeScale: 1,
		Database:      db,
	}
}

func rootState(ent *dwgdraw.Entity) VisualState {
	s := NewVisualState(ent, nil)
	s.ResolveRoot()
	return s
}

func TestConcreteValuesIgnoreParent(t *testing.T) {
	db := testDB()
	parent := rootState(byLayerEntity(db, layerRed, db.Hdr.ModelSpace))

	ent := byLayerEntity(db, layerRed, blockDef)
	ent.Color = dwgdraw.ColorIndex(3)
	ent.Linetype = ltHidden
	ent.Weight = 35
	ent.Material = matSteel

	s := NewVisualState(ent, &parent)
	if got, want := s.EffectiveColor(), dwgdraw.ColorIndex(3).Resolve(); got != want {
		t.Errorf("EffectiveColor = %+v, want %+v", got, want)
	}
	if got := s.EffectiveLinetype(); got != ltHidden {
		t.Errorf("EffectiveLinetype = %d, want %d", got, ltHidden)
	}
	if got := s.EffectiveWeight(); got != 35 {
		t.Errorf("EffectiveWeight = %d, want 35", got)
	}
	if got := s.EffectiveMaterial(); got != matSteel {
		t.Errorf("EffectiveMaterial = %d, want %d", got, matSteel)
	}
}

func TestByBlockChain(t *testing.T) {
	tests := []struct {
		name      string
		rootColor dwgdraw.Color
		want      dwgdraw.Color
	}{
		{"concrete root", dwgdraw.ColorIndex(5), dwgdraw.ColorIndex(5)},
		{"bylayer root", dwgdraw.ColorByLayer(), dwgdraw.ColorIndex(1)},
		{"byblock root", dwgdraw.ColorByBlock(), dwgdraw.ColorIndex(255)},
	}
	for _, tt := range tests {
		for _, depth := range []int{1, 2, 5} {
			t.Run(tt.name, func(t *testing.T) {
				db := testDB()
				rootEnt := byLayerEntity(db, layerRed, db.Hdr.ModelSpace)
				rootEnt.Color = tt.rootColor
				state := rootState(rootEnt)

				for range depth {
					child := NewVisualState(byBlockEntity(db, layerRed), &state)
					state = child
				}

				if got, want := state.EffectiveColor(), tt.want.Resolve(); got != want {
					t.Errorf("depth %d: EffectiveColor = %+v, want %+v", depth, got, want)
				}
			})
		}
	}
}

func TestByBlockChainOtherAttributes(t *testing.T) {
	db := testDB()
	rootEnt := byLayerEntity(db, layerRed, db.Hdr.ModelSpace)
	rootEnt.Weight = 70
	rootEnt.Linetype = ltHidden
	state := rootState(rootEnt)
	for range 3 {
		state = NewVisualState(byBlockEntity(db, layerRed), &state)
	}

	if got := state.EffectiveWeight(); got != 70 {
		t.Errorf("EffectiveWeight = %d, want 70", got)
	}
	if got := state.EffectiveLinetype(); got != ltHidden {
		t.Errorf("EffectiveLinetype = %d, want %d", got, ltHidden)
	}
	// The root material is ByLayer, read from the red layer.
	if got := state.EffectiveMaterial(); got != matSteel {
		t.Errorf("EffectiveMaterial = %d, want %d", got, matSteel)
	}
}

func TestByBlockRootDefaults(t *testing.T) {
	db := testDB()
	s := rootState(byBlockEntity(db, layerRed))

	eff := s.Effective()
	if eff.Color != dwgdraw.ColorIndex(255) {
		t.Errorf("root color = %+v, want ACI 255", eff.Color)
	}
	if eff.Linetype != db.Hdr.LinetypeContinuous {
		t.Errorf("root linetype = %d, want Continuous", eff.Linetype)
	}
	if eff.Material != db.Hdr.MaterialGlobal {
		t.Errorf("root material = %d, want global", eff.Material)
	}
	if eff.Weight != dwgdraw.Weight000 {
		t.Errorf("root weight = %d, want 0", eff.Weight)
	}
}

func TestLayerZeroFloats(t *testing.T) {
	db := testDB()
	parent := rootState(byLayerEntity(db, layerRed, db.Hdr.ModelSpace))

	child := NewVisualState(byLayerEntity(db, db.Hdr.Layer0, blockDef), &parent)
	if !child.IsLayerByBlock() {
		t.Fatal("layer 0 entity not layer-by-block")
	}
	if got := child.EffectiveLayer(); got != layerRed {
		t.Errorf("EffectiveLayer = %d, want %d", got, layerRed)
	}
	// ByLayer on layer 0 reads the parent's layer.
	if got, want := child.EffectiveColor(), dwgdraw.ColorIndex(1).Resolve(); got != want {
		t.Errorf("EffectiveColor = %+v, want %+v", got, want)
	}
	if got := child.EffectiveLinetype(); got != ltDashed {
		t.Errorf("EffectiveLinetype = %d, want %d", got, ltDashed)
	}

	// An entity on another layer keeps its own.
	own := NewVisualState(byLayerEntity(db, layerOff, blockDef), &parent)
	if got := own.EffectiveLayer(); got != layerOff {
		t.Errorf("EffectiveLayer = %d, want %d", got, layerOff)
	}
}

func TestLayerZeroChain(t *testing.T) {
	db := testDB()
	for depth := 1; depth <= 4; depth++ {
		parent := rootState(byLayerEntity(db, layerRed, db.Hdr.ModelSpace))
		for range depth {
			parent = NewVisualState(byLayerEntity(db, db.Hdr.Layer0, blockDef), &parent)
		}
		if got := parent.EffectiveLayer(); got != layerRed {
			t.Errorf("depth %d: EffectiveLayer = %d, want %d", depth, got, layerRed)
		}
		if got, want := parent.EffectiveColor(), dwgdraw.ColorIndex(1).Resolve(); got != want {
			t.Errorf("depth %d: EffectiveColor = %+v, want %+v", depth, got, want)
		}
		if got := parent.EffectiveWeight(); got != 50 {
			t.Errorf("depth %d: EffectiveWeight = %d, want 50", depth, got)
		}
	}

	// A root on layer 0 stays final for the whole chain.
	root := rootState(byLayerEntity(db, db.Hdr.Layer0, db.Hdr.ModelSpace))
	mid := NewVisualState(byLayerEntity(db, db.Hdr.Layer0, blockDef), &root)
	leaf := NewVisualState(byLayerEntity(db, db.Hdr.Layer0, blockDef), &mid)
	if got := leaf.EffectiveLayer(); got != db.Hdr.Layer0 {
		t.Errorf("EffectiveLayer under layer 0 root = %d, want %d", got, db.Hdr.Layer0)
	}
}

func TestDisplayStatus(t *testing.T) {
	db := testDB()
	ms := db.Hdr.ModelSpace

	tests := []struct {
		name        string
		parentLayer dwgdraw.ObjectID
		childLayer  dwgdraw.ObjectID
		want        bool
	}{
		{"visible parent and child", layerRed, layerRed, true},
		{"frozen parent hides child", layerFrozen, layerRed, false},
		{"frozen parent hides layer 0 child", layerFrozen, 2, false},
		{"off parent hides layer 0 child", layerOff, 2, false},
		{"off parent keeps own-layer child", layerOff, layerRed, true},
		{"off child", layerRed, layerOff, false},
		{"frozen child", layerRed, layerFrozen, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := rootState(byLayerEntity(db, tt.parentLayer, ms))
			child := NewVisualState(byLayerEntity(db, tt.childLayer, blockDef), &parent)
			if got := child.IsDisplayed(); got != tt.want {
				t.Errorf("IsDisplayed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisplayStatusThroughLayerZero(t *testing.T) {
	db := testDB()
	root := rootState(byLayerEntity(db, layerOff, db.Hdr.ModelSpace))
	mid := NewVisualState(byLayerEntity(db, db.Hdr.Layer0, blockDef), &root)
	leaf := NewVisualState(byLayerEntity(db, db.Hdr.Layer0, blockDef), &mid)
	if mid.IsDisplayed() || leaf.IsDisplayed() {
		t.Errorf("layer 0 chain under an off layer displayed: mid=%v leaf=%v", mid.IsDisplayed(), leaf.IsDisplayed())
	}
}

func TestTemplateSuppliesMissingReferences(t *testing.T) {
	db := testDB()
	tmpl := byLayerEntity(db, layerRed, db.Hdr.ModelSpace)
	tmpl.Linetype = ltHidden

	ent := &dwgdraw.Entity{Kind: dwgdraw.Line{}, Color: dwgdraw.ColorIndex(4)}
	s := NewVisualState(ent, nil, WithTemplate(tmpl))
	if s.Layer() != layerRed {
		t.Errorf("Layer = %d, want %d", s.Layer(), layerRed)
	}
	if s.Linetype() != ltHidden {
		t.Errorf("Linetype = %d, want %d", s.Linetype(), ltHidden)
	}
	if s.Database() != dwgdraw.Database(db) {
		t.Error("database not taken from template")
	}
}

func TestUnresolvedLayerFallsBackToRootLayerZero(t *testing.T) {
	var buf bytes.Buffer
	dwgdraw.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	defer dwgdraw.SetLogger(nil)

	root := testDB()
	xref := dwgdraw.NewMemDatabase(2)
	xref.Layers = map[dwgdraw.ObjectID]*dwgdraw.Layer{}
	root.Layers[root.Hdr.Layer0].Color = dwgdraw.ColorIndex(6)

	ent := byLayerEntity(xref, 999, xref.Hdr.ModelSpace)
	s := NewVisualState(ent, nil, WithRootDatabase(root))
	s.ResolveRoot()

	if got, want := s.EffectiveColor(), dwgdraw.ColorIndex(6).Resolve(); got != want {
		t.Errorf("EffectiveColor = %+v, want root layer 0 color %+v", got, want)
	}
	if !strings.Contains(buf.String(), "unresolved layer") {
		t.Errorf("no warning logged, got %q", buf.String())
	}
}

func TestXrefLayerFoundInRootDatabase(t *testing.T) {
	root := testDB()
	xref := dwgdraw.NewMemDatabase(2)
	ent := byLayerEntity(xref, layerRed, xref.Hdr.ModelSpace)
	s := NewVisualState(ent, nil, WithRootDatabase(root))
	s.ResolveRoot()
	if got, want := s.EffectiveColor(), dwgdraw.ColorIndex(1).Resolve(); got != want {
		t.Errorf("EffectiveColor = %+v, want %+v", got, want)
	}
}

func TestValueSemantics(t *testing.T) {
	db := testDB()
	s := rootState(byLayerEntity(db, layerRed, db.Hdr.ModelSpace))
	s.SetFill(&GradientFill{Name: "LINEAR", Colors: []dwgdraw.ColorDef{{R: 1}, {R: 2}}})

	saved := s.Clone()
	s.SetColor(dwgdraw.ColorIndex(3))
	s.SetLineWeight(100)
	s.Fill().(*GradientFill).Colors[0] = dwgdraw.ColorDef{R: 9}

	if !saved.Color().IsByLayer() {
		t.Errorf("saved color changed to %+v", saved.Color())
	}
	if saved.Weight() != dwgdraw.WeightByLayer {
		t.Errorf("saved weight changed to %d", saved.Weight())
	}
	if got := saved.Fill().(*GradientFill).Colors[0].R; got != 1 {
		t.Errorf("saved fill shares colors with the copy: R=%d", got)
	}
}

func TestSetMaterialRequiresOverrides(t *testing.T) {
	db := testDB()
	ent := byLayerEntity(db, layerRed, db.Hdr.ModelSpace)

	s := NewVisualState(ent, nil)
	s.SetMaterial(matSteel + 1)
	if s.Material() != db.Hdr.MaterialByLayer {
		t.Errorf("material overridden without permission: %d", s.Material())
	}

	s = NewVisualState(ent, nil, WithMaterialOverrides(true))
	s.SetMaterial(matSteel + 1)
	if s.Material() != matSteel+1 {
		t.Errorf("Material = %d, want %d", s.Material(), matSteel+1)
	}
}
