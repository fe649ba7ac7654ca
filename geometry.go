package dwgdraw

import "image"

// Geometry is any geometry payload produced by the draw pipeline.
type Geometry interface {
	// Kind returns a short name of the payload type.
	Kind() string
	isGeometry()
}

// Polyface is an indexed mesh. Face indices are 1-based; a negative
// index hides the edge that starts at that vertex.
type Polyface struct {
	Points []Point3
	Faces  [][]int
	// Columns is the column count of a quad grid, or 0 for an indexed mesh.
	Columns int
}

func (*Polyface) isGeometry() {}

// Kind implements Geometry.
func (*Polyface) Kind() string { return "polyface" }

// QuadGrid builds a polyface from a rows×cols grid of points stored row
// by row.
func QuadGrid(rows, cols int, points []Point3) *Polyface {
	pf := &Polyface{Points: append([]Point3(nil), points...), Columns: cols}
	for r := 0; r+1 < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			i := r*cols + c + 1
			pf.Faces = append(pf.Faces, []int{i, i + 1, i + cols + 1, i + cols})
		}
	}
	return pf
}

// Extrusion is a planar profile swept along a direction.
type Extrusion struct {
	Profile   *CurveVector
	Direction Vec3
	Capped    bool
}

func (*Extrusion) isGeometry() {}

// Kind implements Geometry.
func (*Extrusion) Kind() string { return "extrusion" }

// TextString is a single run of text.
type TextString struct {
	Text        string
	Origin      Point3
	Orientation Transform
	Width       float64
	Height      float64
	Font        string
	Bold        bool
	Italic      bool
	Underlined  bool
}

func (*TextString) isGeometry() {}

// Kind implements Geometry.
func (*TextString) Kind() string { return "text" }

// Image is a raster placed by an origin and two pixel axis vectors.
type Image struct {
	Origin Point3
	U, V   Vec3
	Pixels *image.NRGBA
}

func (*Image) isGeometry() {}

// Kind implements Geometry.
func (*Image) Kind() string { return "image" }

// KernelHandle is a body owned by an external solid modeling kernel.
type KernelHandle interface {
	// Release frees the body. It is called at most once.
	Release()
}

// SolidBody wraps a kernel body. When Owned is false the draw pipeline
// takes ownership and releases the body on teardown.
type SolidBody struct {
	Handle KernelHandle
	Owned  bool
}

func (*SolidBody) isGeometry() {}

// Kind implements Geometry.
func (*SolidBody) Kind() string { return "solid" }
