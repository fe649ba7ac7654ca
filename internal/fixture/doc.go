// Package fixture decodes YAML drawing fixtures into a database and a
// tree of drawables the dispatcher can replay.
//
// A fixture lists layers, block definitions and the entities of model
// space. Each entity carries the primitives it draws:
//
//	file: 1
//	layers:
//	  - {id: 10, name: Walls, color: "1"}
//	blocks:
//	  - id: 100
//	    name: Door
//	    entities:
//	      - {id: 300, kind: LINE, layer: 0, color: byblock,
//	         prims: [{type: line, from: [0, 0, 0], to: [1, 0, 0]}]}
//	entities:
//	  - id: 200
//	    kind: CIRCLE
//	    layer: 10
//	    props: {thickness: 2}
//	    prims: [{type: circle, center: [0, 0, 0], radius: 5}]
//	  - {id: 201, kind: INSERT, layer: 10, color: "2", insert: Door, at: [5, 0, 0]}
//
// Layer 0 is always present. Entity kinds use DXF names; props and
// primitives are decoded with mapstructure, so unknown keys are errors.
package fixture
