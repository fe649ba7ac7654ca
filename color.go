package dwgdraw

import (
	"image/color"
	"math"
)

// ColorMethod tells how an entity color is to be interpreted.
type ColorMethod uint8

const (
	// ColorMethodByLayer defers to the color stored on the entity's layer.
	ColorMethodByLayer ColorMethod = iota
	// ColorMethodByBlock defers to the color of the enclosing block instance.
	ColorMethodByBlock
	// ColorMethodACI is an AutoCAD Color Index in the range 1..255.
	ColorMethodACI
	// ColorMethodTrue is a 24-bit RGB color.
	ColorMethodTrue
	// ColorMethodForeground is the drawing foreground color.
	ColorMethodForeground
)

// Color is an entity color as stored in a drawing.
// The zero value is ByLayer.
type Color struct {
	Method  ColorMethod
	Index   uint8
	R, G, B uint8
}

// ColorByLayer returns the ByLayer color.
func ColorByLayer() Color { return Color{Method: ColorMethodByLayer} }

// ColorByBlock returns the ByBlock color.
func ColorByBlock() Color { return Color{Method: ColorMethodByBlock} }

// ColorIndex returns an indexed (ACI) color.
func ColorIndex(i uint8) Color { return Color{Method: ColorMethodACI, Index: i} }

// ColorRGB returns a true color.
func ColorRGB(r, g, b uint8) Color { return Color{Method: ColorMethodTrue, R: r, G: g, B: b} }

// IsByLayer reports whether the color defers to the layer.
func (c Color) IsByLayer() bool { return c.Method == ColorMethodByLayer }

// IsByBlock reports whether the color defers to the enclosing block.
func (c Color) IsByBlock() bool { return c.Method == ColorMethodByBlock }

// IsByACI reports whether the color is an index color.
func (c Color) IsByACI() bool { return c.Method == ColorMethodACI }

// ColorDef is a resolved RGB color.
type ColorDef struct {
	R, G, B uint8
}

// Color converts ColorDef to the standard color.Color interface.
func (c ColorDef) Color() color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Resolve converts a concrete entity color to RGB. ByLayer and ByBlock colors
// must be resolved by the caller first; they map to white here.
func (c Color) Resolve() ColorDef {
	switch c.Method {
	case ColorMethodTrue:
		return ColorDef{R: c.R, G: c.G, B: c.B}
	case ColorMethodACI:
		return ACIToColorDef(c.Index)
	case ColorMethodForeground:
		return ACIToColorDef(7)
	default:
		return ACIToColorDef(255)
	}
}

// aciFixed holds index colors 1..9.
var aciFixed = [10]ColorDef{
	{0, 0, 0},
	{255, 0, 0},
	{255, 255, 0},
	{0, 255, 0},
	{0, 255, 255},
	{0, 0, 255},
	{255, 0, 255},
	{255, 255, 255},
	{128, 128, 128},
	{192, 192, 192},
}

// aciGrays holds index colors 250..255.
var aciGrays = [6]ColorDef{
	{51, 51, 51},
	{91, 91, 91},
	{132, 132, 132},
	{173, 173, 173},
	{214, 214, 214},
	{255, 255, 255},
}

// aciValues are the brightness levels of the five shade pairs.
var aciValues = [5]float64{1.0, 0.65, 0.5, 0.3, 0.15}

// ACIToColorDef returns the RGB value of an AutoCAD Color Index.
// Indices 10..249 form 24 hues in 15 degree steps, each with five
// brightness levels in a saturated and a half-saturated variant.
// Index 0 is treated as ByBlock and returns black.
func ACIToColorDef(index uint8) ColorDef {
	switch {
	case index < 10:
		return aciFixed[index]
	case index >= 250:
		return aciGrays[index-250]
	}
	n := int(index) - 10
	hue := float64(n/10) * 15
	shade := n % 10
	sat := 1.0
	if shade%2 == 1 {
		sat = 0.5
	}
	return hsv(hue, sat, aciValues[shade/2])
}

// hsv converts a hue in degrees and saturation/value in [0,1] to RGB.
func hsv(h, s, v float64) ColorDef {
	c := v * s
	hp := math.Mod(h/60, 6)
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := v - c
	return ColorDef{
		R: uint8(clamp255(math.Round((r + m) * 255))),
		G: uint8(clamp255(math.Round((g + m) * 255))),
		B: uint8(clamp255(math.Round((b + m) * 255))),
	}
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
