package dispatch

import (
	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/symbology"
)

// GeometryRecord is one piece of geometry with its resolved display
// parameters and provenance. Records are values and are not modified
// after they are appended.
type GeometryRecord struct {
	Geometry dwgdraw.Geometry
	Display  symbology.DisplayParams
	// Transform maps the geometry to the target model.
	Transform dwgdraw.Transform
	BlockID   dwgdraw.ObjectID
	BlockName string
	FileID    uint32
	// Index is the position of the record among the records of its block.
	Index int
}

// Output maps block ids to the records drawn in them, in draw order.
//
// The Output of a Dispatcher keeps growing while the dispatcher draws.
// Accessors return copies, so callers never alias the live buckets.
type Output struct {
	order   []dwgdraw.ObjectID
	records map[dwgdraw.ObjectID][]GeometryRecord
	count   int
}

func newOutput() *Output {
	return &Output{
		order:   make([]dwgdraw.ObjectID, 0, 4),
		records: make(map[dwgdraw.ObjectID][]GeometryRecord),
	}
}

// BlockIDs returns the ids of blocks with records, in the order their
// first record was appended.
func (o *Output) BlockIDs() []dwgdraw.ObjectID {
	return append([]dwgdraw.ObjectID(nil), o.order...)
}

// Records returns the records of a block in append order.
func (o *Output) Records(block dwgdraw.ObjectID) []GeometryRecord {
	return append([]GeometryRecord(nil), o.records[block]...)
}

// Len returns the total number of records.
func (o *Output) Len() int { return o.count }

// Each calls fn for every record, block by block in BlockIDs order,
// until fn returns false.
func (o *Output) Each(fn func(GeometryRecord) bool) {
	for _, id := range o.order {
		for _, r := range o.records[id] {
			if !fn(r) {
				return
			}
		}
	}
}

func (o *Output) append(r GeometryRecord) {
	bucket, ok := o.records[r.BlockID]
	if !ok {
		o.order = append(o.order, r.BlockID)
	}
	r.Index = len(bucket)
	o.records[r.BlockID] = append(bucket, r)
	o.count++
}
