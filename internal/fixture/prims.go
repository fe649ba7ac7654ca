package fixture

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/dispatch"
	"github.com/gogpu/dwgdraw/hatch"
	"github.com/gogpu/dwgdraw/symbology"
)

// primitive draws one recorded callback.
type primitive func(g dispatch.Geometry) error

// decodeMap decodes a YAML mapping into out. Unknown keys are errors.
func decodeMap(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func point(v []float64) (dwgdraw.Point3, error) {
	switch len(v) {
	case 2:
		return dwgdraw.Pt(v[0], v[1], 0), nil
	case 3:
		return dwgdraw.Pt(v[0], v[1], v[2]), nil
	default:
		return dwgdraw.Point3{}, fmt.Errorf("point needs 2 or 3 coordinates, got %d", len(v))
	}
}

func points(vs [][]float64) ([]dwgdraw.Point3, error) {
	out := make([]dwgdraw.Point3, len(vs))
	for i, v := range vs {
		p, err := point(v)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// vector decodes an optional vector, defaulting to def.
func vector(v []float64, def dwgdraw.Vec3) (dwgdraw.Vec3, error) {
	if len(v) == 0 {
		return def, nil
	}
	p, err := point(v)
	if err != nil {
		return dwgdraw.Vec3{}, err
	}
	return p.Vec(), nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func arcType(s string) (dispatch.ArcType, error) {
	switch strings.ToLower(s) {
	case "", "simple":
		return dispatch.ArcSimple, nil
	case "sector":
		return dispatch.ArcSector, nil
	case "chord":
		return dispatch.ArcChord, nil
	default:
		return 0, fmt.Errorf("unknown arc type %q", s)
	}
}

type primDecoder func(m map[string]any) (primitive, error)

var primDecoders map[string]primDecoder

func init() {
	primDecoders = map[string]primDecoder{
		"line":      decodeLine,
		"polyline":  decodePolyline,
		"polygon":   decodePolygon,
		"circle":    decodeCircle,
		"circle3":   decodeCircle3,
		"arc":       decodeArc,
		"arc3":      decodeArc3,
		"ellipse":   decodeEllipse,
		"spline":    decodeSpline,
		"pline":     decodePline,
		"hatch":     decodeHatch,
		"mesh":      decodeMesh,
		"shell":     decodeShell,
		"text":      decodeText,
		"mtext":     decodeStyledText,
		"xline":     decodeXline,
		"ray":       decodeRay,
		"dots":      decodeDots,
		"worldline": decodeWorldLine,
		"image":     decodeImage,
		"color":     decodeColor,
		"fill":      decodeFill,
		"push":      decodePush,
		"pop":       decodePop,
		"clip":      decodeClip,
		"unclip":    decodeUnclip,
	}
}

// decodePrimitive decodes one entry of an entity's prims list.
func decodePrimitive(m map[string]any) (primitive, error) {
	kind, _ := m["type"].(string)
	dec, ok := primDecoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPrimitive, kind)
	}
	rest := make(map[string]any, len(m))
	for k, v := range m {
		if k != "type" {
			rest[k] = v
		}
	}
	p, err := dec(rest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return p, nil
}

func decodeLine(m map[string]any) (primitive, error) {
	var s struct {
		From []float64 `mapstructure:"from"`
		To   []float64 `mapstructure:"to"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	p0, err := point(s.From)
	if err != nil {
		return nil, err
	}
	p1, err := point(s.To)
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.Polyline([]dwgdraw.Point3{p0, p1}, nil, -1)
		return nil
	}, nil
}

func decodePolyline(m map[string]any) (primitive, error) {
	var s struct {
		Points [][]float64 `mapstructure:"points"`
		Normal []float64   `mapstructure:"normal"`
		Marker *int64      `mapstructure:"marker"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	pts, err := points(s.Points)
	if err != nil {
		return nil, err
	}
	var normal *dwgdraw.Vec3
	if len(s.Normal) > 0 {
		n, err := vector(s.Normal, dwgdraw.UnitZ)
		if err != nil {
			return nil, err
		}
		normal = &n
	}
	marker := int64(-1)
	if s.Marker != nil {
		marker = *s.Marker
	}
	return func(g dispatch.Geometry) error {
		g.Polyline(pts, normal, marker)
		return nil
	}, nil
}

func decodePolygon(m map[string]any) (primitive, error) {
	var s struct {
		Points [][]float64 `mapstructure:"points"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	pts, err := points(s.Points)
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.Polygon(pts)
		return nil
	}, nil
}

func decodeCircle(m map[string]any) (primitive, error) {
	var s struct {
		Center []float64 `mapstructure:"center"`
		Radius float64   `mapstructure:"radius"`
		Normal []float64 `mapstructure:"normal"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	c, err := point(s.Center)
	if err != nil {
		return nil, err
	}
	n, err := vector(s.Normal, dwgdraw.UnitZ)
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.CircleByCenter(c, s.Radius, n)
		return nil
	}, nil
}

func decodeCircle3(m map[string]any) (primitive, error) {
	var s struct {
		Points [][]float64 `mapstructure:"points"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	pts, err := points(s.Points)
	if err != nil {
		return nil, err
	}
	if len(pts) != 3 {
		return nil, fmt.Errorf("needs 3 points, got %d", len(pts))
	}
	return func(g dispatch.Geometry) error {
		g.CircleBy3Points(pts[0], pts[1], pts[2])
		return nil
	}, nil
}

// decodeArc reads an arc whose start and sweep are in degrees, measured
// in the plane of the normal.
func decodeArc(m map[string]any) (primitive, error) {
	var s struct {
		Center []float64 `mapstructure:"center"`
		Radius float64   `mapstructure:"radius"`
		Normal []float64 `mapstructure:"normal"`
		Start  float64   `mapstructure:"start"`
		Sweep  float64   `mapstructure:"sweep"`
		Kind   string    `mapstructure:"kind"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	c, err := point(s.Center)
	if err != nil {
		return nil, err
	}
	n, err := vector(s.Normal, dwgdraw.UnitZ)
	if err != nil {
		return nil, err
	}
	at, err := arcType(s.Kind)
	if err != nil {
		return nil, err
	}
	a := radians(s.Start)
	start := dwgdraw.ArbitraryAxis(n).TransformVector(dwgdraw.V3(math.Cos(a), math.Sin(a), 0))
	sweep := radians(s.Sweep)
	return func(g dispatch.Geometry) error {
		g.ArcByCenter(c, s.Radius, n, start, sweep, at)
		return nil
	}, nil
}

func decodeArc3(m map[string]any) (primitive, error) {
	var s struct {
		Points [][]float64 `mapstructure:"points"`
		Kind   string      `mapstructure:"kind"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	pts, err := points(s.Points)
	if err != nil {
		return nil, err
	}
	if len(pts) != 3 {
		return nil, fmt.Errorf("needs 3 points, got %d", len(pts))
	}
	at, err := arcType(s.Kind)
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.ArcBy3Points(pts[0], pts[1], pts[2], at)
		return nil
	}, nil
}

func decodeEllipse(m map[string]any) (primitive, error) {
	var s struct {
		Center []float64 `mapstructure:"center"`
		Major  []float64 `mapstructure:"major"`
		Ratio  float64   `mapstructure:"ratio"`
		Normal []float64 `mapstructure:"normal"`
		Start  float64   `mapstructure:"start"`
		Sweep  *float64  `mapstructure:"sweep"`
		Kind   string    `mapstructure:"kind"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	c, err := point(s.Center)
	if err != nil {
		return nil, err
	}
	major, err := vector(s.Major, dwgdraw.Vec3{})
	if err != nil {
		return nil, err
	}
	n, err := vector(s.Normal, dwgdraw.UnitZ)
	if err != nil {
		return nil, err
	}
	at, err := arcType(s.Kind)
	if err != nil {
		return nil, err
	}
	sweep := 2 * math.Pi
	if s.Sweep != nil {
		sweep = radians(*s.Sweep)
	}
	arc := &dwgdraw.EllipticArc{
		Center: c,
		V0:     major,
		V90:    n.Normalize().Cross(major).Mul(s.Ratio),
		Start:  radians(s.Start),
		Sweep:  sweep,
	}
	return func(g dispatch.Geometry) error {
		g.Ellipse(arc, at)
		return nil
	}, nil
}

func decodeSpline(m map[string]any) (primitive, error) {
	var s struct {
		Order   int         `mapstructure:"order"`
		Poles   [][]float64 `mapstructure:"poles"`
		Weights []float64   `mapstructure:"weights"`
		Knots   []float64   `mapstructure:"knots"`
		Closed  bool        `mapstructure:"closed"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	poles, err := points(s.Poles)
	if err != nil {
		return nil, err
	}
	if s.Order == 0 {
		s.Order = 4
	}
	c := &dwgdraw.BSplineCurve{Order: s.Order, Poles: poles, Weights: s.Weights, Knots: s.Knots, Closed: s.Closed}
	return func(g dispatch.Geometry) error {
		g.Curve(c)
		return nil
	}, nil
}

func decodePline(m map[string]any) (primitive, error) {
	var s struct {
		Points    [][]float64 `mapstructure:"points"`
		Bulges    []float64   `mapstructure:"bulges"`
		Widths    [][]float64 `mapstructure:"widths"`
		Width     *float64    `mapstructure:"width"`
		Elevation float64     `mapstructure:"elevation"`
		Thickness float64     `mapstructure:"thickness"`
		Normal    []float64   `mapstructure:"normal"`
		Closed    bool        `mapstructure:"closed"`
		From      int         `mapstructure:"from"`
		Count     int         `mapstructure:"count"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	pts, err := points(s.Points)
	if err != nil {
		return nil, err
	}
	n, err := vector(s.Normal, dwgdraw.UnitZ)
	if err != nil {
		return nil, err
	}
	src := &plineSource{
		points:    pts,
		bulges:    s.Bulges,
		width:     s.Width,
		elevation: s.Elevation,
		thickness: s.Thickness,
		normal:    n,
		closed:    s.Closed,
	}
	for i, w := range s.Widths {
		if len(w) != 2 {
			return nil, fmt.Errorf("width %d needs start and end", i)
		}
		src.widths = append(src.widths, [2]float64{w[0], w[1]})
	}
	from, count := s.From, s.Count
	return func(g dispatch.Geometry) error {
		g.Pline(src, from, count)
		return nil
	}, nil
}

type hatchLoopSpec struct {
	Points   [][]float64 `mapstructure:"points"`
	Bulges   []float64   `mapstructure:"bulges"`
	External bool        `mapstructure:"external"`
	Open     bool        `mapstructure:"open"`
}

func decodeHatch(m map[string]any) (primitive, error) {
	var s struct {
		Loops    []hatchLoopSpec `mapstructure:"loops"`
		Solid    bool            `mapstructure:"solid"`
		Style    string          `mapstructure:"style"`
		Normal   []float64       `mapstructure:"normal"`
		Gradient []string        `mapstructure:"gradient"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	n, err := vector(s.Normal, dwgdraw.UnitZ)
	if err != nil {
		return nil, err
	}
	h := &hatch.Hatch{Normal: n}
	switch strings.ToLower(s.Style) {
	case "", "normal":
		h.Style = hatch.StyleNormal
	case "outer":
		h.Style = hatch.StyleOuter
	case "ignore":
		h.Style = hatch.StyleIgnore
	default:
		return nil, fmt.Errorf("unknown hatch style %q", s.Style)
	}
	for i, ls := range s.Loops {
		pts, err := points(ls.Points)
		if err != nil {
			return nil, fmt.Errorf("loop %d: %w", i, err)
		}
		t := hatch.LoopPolyline | hatch.LoopDerived
		if ls.External {
			t = hatch.LoopPolyline | hatch.LoopExternal
		}
		if ls.Open {
			t |= hatch.LoopNotClosed
		}
		h.Loops = append(h.Loops, hatch.Loop{Type: t, Points: pts, Bulges: ls.Bulges})
	}

	var gradient *symbology.GradientFill
	if len(s.Gradient) > 0 {
		h.Gradient = true
		gradient = &symbology.GradientFill{}
		for _, cs := range s.Gradient {
			c, err := parseColor(cs)
			if err != nil {
				return nil, err
			}
			gradient.Colors = append(gradient.Colors, c.Resolve())
		}
	}
	solid := s.Solid
	return func(g dispatch.Geometry) error {
		err := g.Hatch(h, solid, gradient)
		if !errors.Is(err, hatch.ErrNoUsableLoops) {
			return err
		}
		// No region: draw the loops as outlines instead.
		drawn := false
		for _, l := range h.Loops {
			if len(l.Points) >= 2 {
				g.Polyline(l.Points, nil, -1)
				drawn = true
			}
		}
		if drawn {
			return nil
		}
		return err
	}, nil
}

func decodeMesh(m map[string]any) (primitive, error) {
	var s struct {
		Rows   int         `mapstructure:"rows"`
		Cols   int         `mapstructure:"cols"`
		Points [][]float64 `mapstructure:"points"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	pts, err := points(s.Points)
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.Mesh(s.Rows, s.Cols, pts, nil, nil)
		return nil
	}, nil
}

func decodeShell(m map[string]any) (primitive, error) {
	var s struct {
		Points     [][]float64 `mapstructure:"points"`
		Faces      []int       `mapstructure:"faces"`
		Invisible  []int       `mapstructure:"invisible"`
		EdgeColors []string    `mapstructure:"edge_colors"`
		FaceColors []string    `mapstructure:"face_colors"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	pts, err := points(s.Points)
	if err != nil {
		return nil, err
	}

	var edges *dispatch.EdgeData
	if len(s.Invisible) > 0 || len(s.EdgeColors) > 0 {
		edges = &dispatch.EdgeData{}
		for _, i := range s.Invisible {
			if i < 0 {
				return nil, fmt.Errorf("negative edge index %d", i)
			}
			for len(edges.Visibility) <= i {
				edges.Visibility = append(edges.Visibility, dwgdraw.Visible)
			}
			edges.Visibility[i] = dwgdraw.Invisible
		}
		if edges.Colors, err = parseColors(s.EdgeColors); err != nil {
			return nil, err
		}
	}
	var faces *dispatch.FaceData
	if len(s.FaceColors) > 0 {
		faces = &dispatch.FaceData{}
		if faces.Colors, err = parseColors(s.FaceColors); err != nil {
			return nil, err
		}
	}
	return func(g dispatch.Geometry) error {
		g.Shell(pts, s.Faces, edges, faces)
		return nil
	}, nil
}

type textSpec struct {
	At      []float64 `mapstructure:"at"`
	Text    string    `mapstructure:"text"`
	Height  float64   `mapstructure:"height"`
	Normal  []float64 `mapstructure:"normal"`
	XDir    []float64 `mapstructure:"xdir"`
	Oblique float64   `mapstructure:"oblique"`
}

func (s *textSpec) frame() (dwgdraw.Point3, dwgdraw.Vec3, dwgdraw.Vec3, error) {
	pos, err := point(s.At)
	if err != nil {
		return pos, dwgdraw.Vec3{}, dwgdraw.Vec3{}, err
	}
	n, err := vector(s.Normal, dwgdraw.UnitZ)
	if err != nil {
		return pos, n, dwgdraw.Vec3{}, err
	}
	x, err := vector(s.XDir, dwgdraw.V3(1, 0, 0))
	return pos, n, x, err
}

func decodeText(m map[string]any) (primitive, error) {
	var s struct {
		textSpec `mapstructure:",squash"`
		Width    float64 `mapstructure:"width"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	pos, n, x, err := s.frame()
	if err != nil {
		return nil, err
	}
	if s.Height == 0 {
		s.Height = 1
	}
	return func(g dispatch.Geometry) error {
		g.Text(pos, n, x, s.Height, s.Width, radians(s.Oblique), s.Text)
		return nil
	}, nil
}

func decodeStyledText(m map[string]any) (primitive, error) {
	var s struct {
		textSpec      `mapstructure:",squash"`
		WidthFactor   float64 `mapstructure:"width_factor"`
		Font          string  `mapstructure:"font"`
		BigFont       string  `mapstructure:"big_font"`
		Raw           bool    `mapstructure:"raw"`
		Bold          bool    `mapstructure:"bold"`
		Italic        bool    `mapstructure:"italic"`
		Underline     bool    `mapstructure:"underline"`
		Overline      bool    `mapstructure:"overline"`
		Strikethrough bool    `mapstructure:"strikethrough"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	pos, n, x, err := s.frame()
	if err != nil {
		return nil, err
	}
	if s.Height == 0 {
		s.Height = 1
	}
	style := &dispatch.TextStyle{
		Font:          s.Font,
		BigFont:       s.BigFont,
		Height:        s.Height,
		WidthFactor:   s.WidthFactor,
		Oblique:       radians(s.Oblique),
		Bold:          s.Bold,
		Italic:        s.Italic,
		Underlined:    s.Underline,
		Overlined:     s.Overline,
		Strikethrough: s.Strikethrough,
	}
	return func(g dispatch.Geometry) error {
		g.StyledText(pos, n, x, s.Text, s.Raw, style)
		return nil
	}, nil
}

func decodeTwoPoints(m map[string]any) (dwgdraw.Point3, dwgdraw.Point3, error) {
	var s struct {
		P1 []float64 `mapstructure:"p1"`
		P2 []float64 `mapstructure:"p2"`
	}
	if err := decodeMap(m, &s); err != nil {
		return dwgdraw.Point3{}, dwgdraw.Point3{}, err
	}
	p1, err := point(s.P1)
	if err != nil {
		return p1, dwgdraw.Point3{}, err
	}
	p2, err := point(s.P2)
	return p1, p2, err
}

func decodeXline(m map[string]any) (primitive, error) {
	p1, p2, err := decodeTwoPoints(m)
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.Xline(p1, p2)
		return nil
	}, nil
}

func decodeRay(m map[string]any) (primitive, error) {
	p1, p2, err := decodeTwoPoints(m)
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.Ray(p1, p2)
		return nil
	}, nil
}

func decodeDots(m map[string]any) (primitive, error) {
	var s struct {
		Count int       `mapstructure:"count"`
		Start []float64 `mapstructure:"start"`
		Step  []float64 `mapstructure:"step"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	start, err := point(s.Start)
	if err != nil {
		return nil, err
	}
	step, err := vector(s.Step, dwgdraw.Vec3{})
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.RowOfDots(s.Count, start, step)
		return nil
	}, nil
}

func decodeWorldLine(m map[string]any) (primitive, error) {
	p1, p2, err := decodeTwoPoints(m)
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.WorldLine(p1, p2)
		return nil
	}, nil
}

// decodeImage reads a raster given as rows of BGRA byte values.
func decodeImage(m map[string]any) (primitive, error) {
	var s struct {
		Width  int       `mapstructure:"width"`
		Height int       `mapstructure:"height"`
		BGRA   []uint8   `mapstructure:"bgra"`
		Origin []float64 `mapstructure:"origin"`
		U      []float64 `mapstructure:"u"`
		V      []float64 `mapstructure:"v"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	origin, err := point(s.Origin)
	if err != nil {
		return nil, err
	}
	u, err := vector(s.U, dwgdraw.V3(1, 0, 0))
	if err != nil {
		return nil, err
	}
	v, err := vector(s.V, dwgdraw.V3(0, 1, 0))
	if err != nil {
		return nil, err
	}
	img := dispatch.ImageBGRA{Width: s.Width, Height: s.Height, Pix: s.BGRA}
	return func(g dispatch.Geometry) error {
		g.Image(img, origin, u, v)
		return nil
	}, nil
}

// decodeColor sets the color of the symbology for the primitives that
// follow, as draw methods do for sub-entities.
func decodeColor(m map[string]any) (primitive, error) {
	var s struct {
		Value string `mapstructure:"value"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	c, err := parseColor(s.Value)
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.State().SetColor(c)
		return nil
	}, nil
}

func decodeFill(m map[string]any) (primitive, error) {
	var s struct {
		Value string `mapstructure:"value"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	var ft symbology.FillType
	switch strings.ToLower(s.Value) {
	case "", "default":
		ft = symbology.FillDefault
	case "always":
		ft = symbology.FillAlways
	case "never":
		ft = symbology.FillNever
	default:
		return nil, fmt.Errorf("unknown fill %q", s.Value)
	}
	return func(g dispatch.Geometry) error {
		g.State().SetFillType(ft)
		return nil
	}, nil
}

type placement struct {
	At       []float64 `mapstructure:"at"`
	Rotation float64   `mapstructure:"rotation"`
	Scale    float64   `mapstructure:"scale"`
}

// transform returns translate × rotate × scale. Rotation is in degrees.
func (p placement) transform() (dwgdraw.Transform, error) {
	at := dwgdraw.Point3{}
	if len(p.At) > 0 {
		var err error
		if at, err = point(p.At); err != nil {
			return dwgdraw.Transform{}, err
		}
	}
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	return dwgdraw.Translation(at.Vec()).
		Multiply(dwgdraw.RotationZ(radians(p.Rotation))).
		Multiply(dwgdraw.Scaling(scale, scale, scale)), nil
}

func decodePush(m map[string]any) (primitive, error) {
	var p placement
	if err := decodeMap(m, &p); err != nil {
		return nil, err
	}
	t, err := p.transform()
	if err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.PushModelTransform(t)
		return nil
	}, nil
}

func decodePop(m map[string]any) (primitive, error) {
	if err := decodeMap(m, &struct{}{}); err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.PopModelTransform()
		return nil
	}, nil
}

func decodeClip(m map[string]any) (primitive, error) {
	var s struct {
		Points [][]float64 `mapstructure:"points"`
		Front  *float64    `mapstructure:"front"`
		Back   *float64    `mapstructure:"back"`
	}
	if err := decodeMap(m, &s); err != nil {
		return nil, err
	}
	pts, err := points(s.Points)
	if err != nil {
		return nil, err
	}
	c := dispatch.ClipBoundary{Points: pts, Normal: dwgdraw.UnitZ, Transform: dwgdraw.Identity()}
	if s.Front != nil {
		c.Front, c.ClipFront = *s.Front, true
	}
	if s.Back != nil {
		c.Back, c.ClipBack = *s.Back, true
	}
	return func(g dispatch.Geometry) error {
		g.PushClipBoundary(c)
		return nil
	}, nil
}

func decodeUnclip(m map[string]any) (primitive, error) {
	if err := decodeMap(m, &struct{}{}); err != nil {
		return nil, err
	}
	return func(g dispatch.Geometry) error {
		g.PopClipBoundary()
		return nil
	}, nil
}
