package dispatch

import (
	"math"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/polyline"
	"github.com/gogpu/dwgdraw/symbology"
)

// EdgeData carries per-edge overrides of a mesh or shell. Slices are
// indexed by edge in face-list order and may be nil.
type EdgeData struct {
	Colors     []dwgdraw.Color
	Visibility []dwgdraw.Visibility
}

// FaceData carries per-face overrides of a mesh or shell.
type FaceData struct {
	Colors []dwgdraw.Color
}

// planarZ is the largest |z| a vertex may have in a 2D model.
const planarZ = 1e-4

// Shells with longer face lists are not scanned for their largest face.
const (
	scanFaceListLimit = 1000
	assumedMaxFace    = 100
)

// Mesh draws a rows×cols grid of points. A single quad is drawn as a
// closed shape; anything larger becomes a quad grid, which a 2D model
// accepts only when it is flat.
func (d *Dispatcher) Mesh(rows, cols int, points []dwgdraw.Point3, edges *EdgeData, faces *FaceData) {
	total := rows * cols
	if rows <= 0 || cols <= 0 || len(points) < total {
		d.malformed("mesh", "rows", rows, "cols", cols, "points", len(points))
		return
	}

	// A mesh the draw method left at the default fill is shown unfilled.
	if d.state.FillType() == symbology.FillDefault {
		d.state.SetFillType(symbology.FillNever)
	}

	if rows == 2 && cols == 2 {
		shape := []dwgdraw.Point3{points[0], points[1], points[3], points[2], points[0]}
		if cv := polyline.NewPointsFactory(shape, true).CurveVector(); cv != nil {
			d.appendGeometry(cv)
		}
		return
	}

	if d.opts.target2d {
		for _, p := range points[:total] {
			if math.Abs(p.Z) > planarZ {
				return
			}
		}
	}
	d.applyColorOverride(faces, edges)
	d.appendGeometry(dwgdraw.QuadGrid(rows, cols, points[:total]))
}

// Shell draws an indexed face list. Each face is its vertex count
// followed by that many 0-based point indices; a negative count marks
// a hole. A 2D model gets one closed loop per face, a 3D model a
// polyface with invisible edges hidden.
func (d *Dispatcher) Shell(points []dwgdraw.Point3, faceList []int, edges *EdgeData, faces *FaceData) {
	if len(points) == 0 || len(faceList) == 0 {
		d.malformed("shell", "points", len(points), "faces", len(faceList))
		return
	}
	if d.opts.target2d {
		d.shellLoops(points, faceList)
		return
	}

	pf := &dwgdraw.Polyface{Points: append([]dwgdraw.Point3(nil), points...)}
	edge := 0
	for i := 0; i < len(faceList); {
		n := abs(faceList[i])
		i++
		if i+n > len(faceList) {
			d.unexpected("shell face list is truncated", "face", len(pf.Faces))
			return
		}
		face := make([]int, n)
		for k := range face {
			idx := abs(faceList[i])
			i++
			if idx >= len(points) {
				d.unexpected("shell vertex index out of range", "index", idx, "points", len(points))
				return
			}
			face[k] = idx + 1
			if edges != nil && edge < len(edges.Visibility) && edges.Visibility[edge] == dwgdraw.Invisible {
				face[k] = -face[k]
			}
			edge++
		}
		pf.Faces = append(pf.Faces, face)
	}
	d.applyColorOverride(faces, edges)
	d.appendGeometry(pf)
}

func (d *Dispatcher) shellLoops(points []dwgdraw.Point3, faceList []int) {
	maxFace := 0
	if len(faceList) > scanFaceListLimit {
		maxFace = assumedMaxFace
		if n := abs(faceList[0]); n > maxFace {
			maxFace = 20 * n
		}
	} else {
		for i := 0; i < len(faceList); {
			n := abs(faceList[i])
			maxFace = max(maxFace, n)
			i += n + 1
		}
	}

	loops := make([]*dwgdraw.CurveVector, 0, 4)
	for i := 0; i < len(faceList); {
		boundary := dwgdraw.BoundaryOuter
		if faceList[i] < 0 {
			boundary = dwgdraw.BoundaryInner
		}
		n := abs(faceList[i])
		i++
		if n > maxFace {
			d.unexpected("skipped a shell with an unexpected face vertex count", "count", n, "expected", maxFace)
			return
		}
		if i+n > len(faceList) {
			d.unexpected("shell face list is truncated", "face", len(loops))
			return
		}

		// Solids and traces repeat the first vertex; drop the repeats.
		verts := make([]dwgdraw.Point3, 0, n+1)
		for k := 0; k < n; k++ {
			idx := faceList[i]
			i++
			if idx < 0 || idx >= len(points) {
				d.unexpected("shell vertex index out of range", "index", idx, "points", len(points))
				return
			}
			v := points[idx]
			if math.Abs(v.Z) > planarZ {
				return
			}
			if k == 0 || v != verts[0] {
				verts = append(verts, v)
			}
		}
		if len(verts) < 2 {
			continue
		}
		loop := dwgdraw.NewCurveVector(boundary)
		loop.Append(&dwgdraw.LineString{Points: append(verts, verts[0])})
		loops = append(loops, loop)
	}
	for _, loop := range loops {
		d.appendGeometry(loop)
	}
}

// applyColorOverride takes the color of the first face or edge. The
// face color wins in rendered views, the edge color otherwise.
func (d *Dispatcher) applyColorOverride(faces *FaceData, edges *EdgeData) {
	var (
		c       dwgdraw.Color
		hasFace bool
	)
	if faces != nil && len(faces.Colors) > 0 {
		c, hasFace = faces.Colors[0], true
	}
	if edges != nil && len(edges.Colors) > 0 && (!hasFace || !d.regen.IsRendered()) {
		d.state.SetColor(edges.Colors[0])
		return
	}
	if hasFace {
		d.state.SetColor(c)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
