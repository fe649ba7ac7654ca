package dispatch

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/text"
)

// TextStyle is the resolved text style of a styled text run.
type TextStyle struct {
	Font string
	// BigFont names the big font of multibyte text. Strings drawn with
	// a big font are decoded from the dispatcher's code page.
	BigFont     string
	Height      float64
	WidthFactor float64
	// Oblique is the slant angle in radians.
	Oblique       float64
	Bold          bool
	Italic        bool
	Underlined    bool
	Overlined     bool
	Strikethrough bool
}

// textFrame validates a text run and returns its orientation. Text
// whose normal points down the z axis is unmirrored.
func (d *Dispatcher) textFrame(pos dwgdraw.Point3, normal, xdir dwgdraw.Vec3, s string) (dwgdraw.Transform, bool) {
	switch {
	case s == "":
		d.malformed("empty text")
		return dwgdraw.Transform{}, false
	case !validPoint(pos):
		d.malformed("out of range text", "position", pos)
		return dwgdraw.Transform{}, false
	case strings.TrimSpace(s) == "":
		d.malformed("text containing all white spaces")
		return dwgdraw.Transform{}, false
	}

	x, z := xdir.Normalize(), normal.Normalize()
	if x.IsZero() || z.IsZero() {
		d.malformed("text without direction", "xdir", xdir, "normal", normal)
		return dwgdraw.Transform{}, false
	}
	if math.Abs(z.Z+1) < 0.001 {
		x, z = x.Neg(), z.Neg()
	}
	return dwgdraw.FromXZ(x, z), true
}

// Text draws a text run in the default font.
func (d *Dispatcher) Text(pos dwgdraw.Point3, normal, xdir dwgdraw.Vec3, height, width, oblique float64, s string) {
	orient, ok := d.textFrame(pos, normal, xdir, s)
	if !ok {
		return
	}
	d.appendGeometry(&dwgdraw.TextString{
		Text:        s,
		Origin:      pos,
		Orientation: orient,
		Width:       width,
		Height:      height,
		Italic:      oblique != 0,
	})
}

// StyledText draws a text run with a text style. Unless raw is set,
// escape codes are decoded and their underlines and overlines drawn as
// lines. A strikethrough is drawn at half the measured text height.
func (d *Dispatcher) StyledText(pos dwgdraw.Point3, normal, xdir dwgdraw.Vec3, s string, raw bool, style *TextStyle) {
	if style == nil {
		style = &TextStyle{Height: 1, WidthFactor: 1}
	}
	if style.BigFont != "" && !text.IsASCII(s) {
		decoded, err := text.Decode([]byte(s), d.opts.codepage)
		if err != nil {
			d.malformed("undecodable big font text", "codepage", d.opts.codepage, "err", err)
			return
		}
		s = decoded
	}

	orient, ok := d.textFrame(pos, normal, xdir, s)
	if !ok {
		return
	}

	wf := style.WidthFactor
	if wf == 0 {
		wf = 1
	}
	height := style.Height

	var dec text.Decoded
	switch {
	case !raw:
		dec = text.DecodeEscapes(s)
	case style.Underlined:
		dec = text.Decoded{Text: s, Underlines: []text.Span{{Start: 0, End: utf8.RuneCountInString(s)}}}
	case style.Overlined:
		dec = text.Decoded{Text: s, Overlines: []text.Span{{Start: 0, End: utf8.RuneCountInString(s)}}}
	default:
		dec = text.Decoded{Text: s}
	}

	d.appendGeometry(&dwgdraw.TextString{
		Text:        dec.Text,
		Origin:      pos,
		Orientation: orient,
		Width:       height * wf,
		Height:      height,
		Font:        style.Font,
		Bold:        style.Bold,
		Italic:      style.Italic || style.Oblique != 0,
		Underlined:  style.Underlined,
	})

	if dec.IsPlain() && !style.Strikethrough {
		return
	}
	m := d.measurer()
	if m == nil {
		return
	}
	under, over := m.Decorations(dec, height, wf)
	for _, seg := range under {
		d.appendDecoration(pos, orient, seg)
	}
	for _, seg := range over {
		d.appendDecoration(pos, orient, seg)
	}
	if style.Strikethrough {
		d.appendDecoration(pos, orient, m.Strikethrough(dec.Text, height, wf))
	}
}

func (d *Dispatcher) appendDecoration(pos dwgdraw.Point3, orient dwgdraw.Transform, seg text.Segment) {
	place := func(x float64) dwgdraw.Point3 {
		return pos.Add(orient.TransformVector(dwgdraw.V3(x, seg.Y, 0)))
	}
	d.appendGeometry(single(dwgdraw.BoundaryOpen, dwgdraw.LineSegment{P0: place(seg.X0), P1: place(seg.X1)}))
}

// measurer returns the text measurer, loading the default font on
// first use. Nil means text cannot be measured.
func (d *Dispatcher) measurer() *text.Measurer {
	if d.fonts != nil || d.fontsFailed {
		return d.fonts
	}
	m, err := text.NewMeasurer()
	if err != nil {
		d.fontsFailed = true
		dwgdraw.Logger().Warn("dispatch: no font to measure text", "err", err)
		return nil
	}
	d.fonts = m
	return m
}
