package fixture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/dispatch"
	"github.com/gogpu/dwgdraw/hatch"
)

const doorFixture = `
file: 1
layers:
  - {id: 10, name: Walls, color: "1"}
blocks:
  - id: 100
    name: Door
    entities:
      - id: 300
        kind: LINE
        layer: 0
        color: byblock
        prims: [{type: line, from: [0, 0, 0], to: [1, 0, 0]}]
entities:
  - id: 200
    kind: CIRCLE
    layer: 10
    props: {thickness: 2}
    prims: [{type: circle, center: [0, 0, 0], radius: 5}]
  - id: 201
    kind: INSERT
    layer: 10
    color: "2"
    insert: Door
    at: [5, 0, 0]
    attributes:
      - id: 202
        color: byblock
        prims: [{type: line, from: [0, 1], to: [1, 1]}]
`

func load(t *testing.T, src string) *Fixture {
	t.Helper()
	fx, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	return fx
}

func TestLoadAndDraw(t *testing.T) {
	fx := load(t, doorFixture)
	require.Contains(t, fx.Blocks, "Door")
	assert.Equal(t, dwgdraw.ObjectID(100), fx.Blocks["Door"].ID)

	d := dispatch.New(fx.DB, dwgdraw.Block{})
	require.NoError(t, fx.Draw(d))

	model := d.Output().Records(fx.DB.Hdr.ModelSpace)
	require.Len(t, model, 2, "circle and attribute")

	attr := model[1]
	require.NotNil(t, attr.Display.LineColor)
	assert.Equal(t, dwgdraw.ColorDef{R: 255, G: 255}, *attr.Display.LineColor, "attribute follows the reference color")

	door := d.Output().Records(100)
	require.Len(t, door, 1)
	require.NotNil(t, door[0].Display.LineColor)
	assert.Equal(t, dwgdraw.ColorDef{R: 255, G: 255}, *door[0].Display.LineColor)
	assert.Equal(t, dwgdraw.Pt(5, 0, 0), door[0].Transform.Origin())
}

func TestEventsMatchDrawables(t *testing.T) {
	fx := load(t, doorFixture)

	drawn := dispatch.New(fx.DB, dwgdraw.Block{})
	for _, dr := range fx.Drawables() {
		require.NoError(t, drawn.Draw(dr))
	}
	walked := dispatch.New(fx.DB, dwgdraw.Block{})
	require.NoError(t, walked.Walk(dispatch.NewSliceIterator(fx.Events())))

	require.Equal(t, drawn.Output().BlockIDs(), walked.Output().BlockIDs())
	for _, id := range drawn.Output().BlockIDs() {
		want, got := drawn.Output().Records(id), walked.Output().Records(id)
		require.Len(t, got, len(want), "block %d", id)
		for i := range want {
			assert.Equal(t, want[i].Display, got[i].Display, "block %d record %d", id, i)
			assert.Equal(t, want[i].Transform, got[i].Transform, "block %d record %d", id, i)
		}
	}
}

func TestInsertEventOrder(t *testing.T) {
	fx := load(t, doorFixture)

	var kinds []dispatch.EventKind
	for _, ev := range fx.Events() {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []dispatch.EventKind{
		// circle
		dispatch.EventEnterEntity, dispatch.EventPrimitive, dispatch.EventLeave,
		// insert: transform, block, untransform, attribute
		dispatch.EventEnterEntity,
		dispatch.EventPrimitive,
		dispatch.EventEnterBlock,
		dispatch.EventEnterEntity, dispatch.EventPrimitive, dispatch.EventLeave,
		dispatch.EventLeave,
		dispatch.EventPrimitive,
		dispatch.EventEnterAttribute, dispatch.EventPrimitive, dispatch.EventLeave,
		dispatch.EventLeave,
	}, kinds)
}

func TestPrimitiveState(t *testing.T) {
	fx := load(t, `
entities:
  - id: 10
    kind: LINE
    prims:
      - {type: push, at: [0, 0, 5]}
      - {type: line, from: [0, 0], to: [1, 0]}
      - {type: pop}
      - {type: color, value: "1"}
      - {type: line, from: [0, 0], to: [1, 0]}
`)
	d := dispatch.New(fx.DB, dwgdraw.Block{})
	require.NoError(t, fx.Draw(d))

	recs := d.Output().Records(fx.DB.Hdr.ModelSpace)
	require.Len(t, recs, 2)
	assert.Equal(t, dwgdraw.Pt(0, 0, 5), recs[0].Transform.Origin())
	assert.Nil(t, recs[0].Display.LineColor)
	assert.True(t, recs[1].Transform.IsIdentity())
	require.NotNil(t, recs[1].Display.LineColor)
	assert.Equal(t, dwgdraw.ColorDef{R: 255}, *recs[1].Display.LineColor)
}

func TestUnusableHatchDrawsOutlines(t *testing.T) {
	fx := load(t, `
entities:
  - id: 10
    kind: HATCH
    prims:
      - type: hatch
        solid: true
        style: ignore
        loops: [{points: [[0, 0], [4, 0], [4, 4], [0, 4]], external: true, open: true}]
`)
	d := dispatch.New(fx.DB, dwgdraw.Block{})
	require.NoError(t, fx.Draw(d))

	recs := d.Output().Records(fx.DB.Hdr.ModelSpace)
	require.Len(t, recs, 1)
	cv, ok := recs[0].Geometry.(*dwgdraw.CurveVector)
	require.True(t, ok)
	assert.NotEqual(t, dwgdraw.BoundaryParityRegion, cv.Boundary)

	fx = load(t, `
entities:
  - id: 10
    kind: HATCH
    prims: [{type: hatch, solid: true, loops: [{points: [], external: true}]}]
`)
	d = dispatch.New(fx.DB, dwgdraw.Block{})
	assert.ErrorIs(t, fx.Draw(d), hatch.ErrNoUsableLoops)
	assert.Zero(t, d.Output().Len())
}

func TestEveryPrimitiveDecodes(t *testing.T) {
	_, err := Load(strings.NewReader(`
entities:
  - id: 10
    kind: MTEXT
    prims:
      - {type: line, from: [0, 0], to: [1, 0]}
      - {type: polyline, points: [[0, 0], [1, 0], [1, 1]], normal: [0, 0, 1], marker: 3}
      - {type: polygon, points: [[0, 0], [1, 0], [1, 1]]}
      - {type: circle, center: [0, 0], radius: 1}
      - {type: circle3, points: [[1, 0], [0, 1], [-1, 0]]}
      - {type: arc, center: [0, 0], radius: 1, start: 0, sweep: 90, kind: sector}
      - {type: arc3, points: [[1, 0], [0, 1], [-1, 0]], kind: chord}
      - {type: ellipse, center: [0, 0], major: [2, 0, 0], ratio: 0.5, sweep: 180}
      - {type: spline, order: 3, poles: [[0, 0], [1, 1], [2, 0]]}
      - {type: pline, points: [[0, 0], [1, 0], [1, 1]], bulges: [0, 0.5], width: 0.2, closed: true, from: 1, count: 1}
      - type: hatch
        solid: true
        style: outer
        gradient: ["1", "#00ff00"]
        loops:
          - {points: [[0, 0], [4, 0], [4, 4], [0, 4]], external: true}
          - {points: [[1, 1], [2, 1], [2, 2]]}
      - {type: mesh, rows: 2, cols: 2, points: [[0, 0], [1, 0], [0, 1], [1, 1]]}
      - {type: shell, points: [[0, 0], [1, 0], [1, 1]], faces: [3, 0, 1, 2], invisible: [1], edge_colors: ["1"], face_colors: ["2"]}
      - {type: text, at: [0, 0], text: A, height: 2.5, oblique: 15}
      - {type: mtext, at: [0, 0], text: "%%uA", height: 1, underline: true, width_factor: 0.8}
      - {type: xline, p1: [0, 0], p2: [1, 1]}
      - {type: ray, p1: [0, 0], p2: [1, 0]}
      - {type: dots, count: 3, start: [0, 0], step: [1, 0]}
      - {type: worldline, p1: [0, 0], p2: [0, 1]}
      - {type: image, width: 1, height: 1, bgra: [1, 2, 3, 255], origin: [0, 0]}
      - {type: fill, value: always}
      - {type: clip, points: [[0, 0], [1, 0], [1, 1]], front: 1}
      - {type: unclip}
`))
	require.NoError(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "unknown primitive",
			src:  `entities: [{id: 10, kind: LINE, prims: [{type: spiral}]}]`,
			want: ErrUnknownPrimitive,
		},
		{
			name: "unknown layer",
			src:  `entities: [{id: 10, kind: LINE, layer: 42}]`,
			want: ErrUnknownLayer,
		},
		{
			name: "unknown block",
			src:  `entities: [{id: 10, kind: INSERT, insert: Nope}]`,
			want: ErrUnknownBlock,
		},
		{
			name: "reserved layer",
			src:  `layers: [{id: 3, name: Mine}]`,
			want: ErrReservedID,
		},
		{
			name: "duplicate block",
			src:  `blocks: [{id: 10, name: A}, {id: 11, name: A}]`,
			want: ErrDuplicateBlock,
		},
		{
			name: "cycle",
			src: `
blocks:
  - {id: 10, name: A, entities: [{id: 20, kind: INSERT, insert: B}]}
  - {id: 11, name: B, entities: [{id: 21, kind: INSERT, insert: A}]}`,
			want: ErrBlockCycle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	for name, src := range map[string]string{
		"prim":   `entities: [{id: 10, kind: LINE, prims: [{type: line, from: [0, 0], to: [1, 0], bogus: 1}]}]`,
		"props":  `entities: [{id: 10, kind: CIRCLE, props: {radius: 2}}]`,
		"entity": `entities: [{id: 10, kind: LINE, colour: "1"}]`,
		"insert": `entities: [{id: 10, kind: LINE, insert: A}]
blocks: [{id: 10, name: A}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    dwgdraw.Color
		wantErr bool
	}{
		{in: "", want: dwgdraw.ColorByLayer()},
		{in: "ByLayer", want: dwgdraw.ColorByLayer()},
		{in: "byblock", want: dwgdraw.ColorByBlock()},
		{in: "7", want: dwgdraw.ColorIndex(7)},
		{in: "#FF8000", want: dwgdraw.ColorRGB(255, 128, 0)},
		{in: "0", wantErr: true},
		{in: "256", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "red", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "parseColor(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "parseColor(%q)", tt.in)
		assert.Equal(t, tt.want, got, "parseColor(%q)", tt.in)
	}
}
