package text

import (
	"bytes"
	"math"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/dwgdraw/cache"
)

// shapeSize is the font size strings are shaped at. Extents are
// divided by it to get text-height units.
const shapeSize = 64

// Decoration offsets in text-height units, measured up from the baseline.
const (
	UnderlineOffset = -0.2
	OverlineOffset  = 1.2
)

// Extents is the size of a shaped string in text-height units.
type Extents struct {
	// Width is the advance width of the string.
	Width float64
	// Ascent and Descent are the line bounds above and below the
	// baseline. Both are non-negative.
	Ascent  float64
	Descent float64
}

// Scaled returns the extents for a text of the given height and width
// factor.
func (e Extents) Scaled(height, widthFactor float64) Extents {
	if widthFactor <= 0 {
		widthFactor = 1
	}
	return Extents{
		Width:   e.Width * height * widthFactor,
		Ascent:  e.Ascent * height,
		Descent: e.Descent * height,
	}
}

// Segment is a horizontal decoration line in text coordinates, where the
// baseline starts at the origin and x runs along the text.
type Segment struct {
	X0, X1 float64
	Y      float64
}

// MeasurerOption configures a Measurer.
type MeasurerOption func(*measurerOptions)

type measurerOptions struct {
	fontData []byte
	capacity int
}

func defaultMeasurerOptions() measurerOptions {
	return measurerOptions{
		fontData: goregular.TTF,
		capacity: cache.DefaultCapacity,
	}
}

// WithFontData measures with the given TrueType or OpenType font
// instead of Go Regular.
func WithFontData(data []byte) MeasurerOption {
	return func(o *measurerOptions) {
		o.fontData = data
	}
}

// WithCacheCapacity sets how many measured strings are kept.
func WithCacheCapacity(n int) MeasurerOption {
	return func(o *measurerOptions) {
		o.capacity = n
	}
}

// Measurer computes string extents by shaping them with
// go-text/typesetting. Results are cached per string.
//
// Measurer is safe for concurrent use. The parsed font is shared; the
// shaper, which keeps internal buffers, is pooled.
type Measurer struct {
	font       *font.Font
	shaperPool sync.Pool
	extents    *cache.Cache[string, Extents]
}

// NewMeasurer parses the measuring font.
func NewMeasurer(opts ...MeasurerOption) (*Measurer, error) {
	o := defaultMeasurerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.fontData) == 0 {
		return nil, ErrEmptyFontData
	}

	face, err := font.ParseTTF(bytes.NewReader(o.fontData))
	if err != nil {
		return nil, err
	}
	return &Measurer{
		font: face.Font,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		extents: cache.New[string, Extents](o.capacity),
	}, nil
}

// Measure returns the extents of s for a text of the given height and
// width factor.
func (m *Measurer) Measure(s string, height, widthFactor float64) Extents {
	return m.unitExtents(s).Scaled(height, widthFactor)
}

// unitExtents returns the extents of s at height 1.
func (m *Measurer) unitExtents(s string) Extents {
	return m.extents.GetOrCreate(s, func() Extents {
		return m.shape(s)
	})
}

func (m *Measurer) shape(s string) Extents {
	runes := []rune(s)
	if len(runes) == 0 {
		return Extents{}
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(m.font),
		Size:      fixed.I(shapeSize),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := m.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	m.shaperPool.Put(hb)

	return Extents{
		Width:   fixedToFloat(out.Advance) / shapeSize,
		Ascent:  math.Abs(fixedToFloat(out.LineBounds.Ascent)) / shapeSize,
		Descent: math.Abs(fixedToFloat(out.LineBounds.Descent)) / shapeSize,
	}
}

// Decorations returns the underline and overline segments of d for a
// text of the given height and width factor.
func (m *Measurer) Decorations(d Decoded, height, widthFactor float64) (underlines, overlines []Segment) {
	if d.IsPlain() {
		return nil, nil
	}
	runes := []rune(d.Text)
	span := func(sp Span, offset float64) Segment {
		x0 := m.Measure(string(runes[:sp.Start]), height, widthFactor).Width
		x1 := m.Measure(string(runes[:sp.End]), height, widthFactor).Width
		return Segment{X0: x0, X1: x1, Y: offset * height}
	}
	for _, sp := range d.Underlines {
		underlines = append(underlines, span(sp, UnderlineOffset))
	}
	for _, sp := range d.Overlines {
		overlines = append(overlines, span(sp, OverlineOffset))
	}
	return underlines, overlines
}

// Strikethrough returns the strikethrough segment of s, halfway up the
// line bounds.
func (m *Measurer) Strikethrough(s string, height, widthFactor float64) Segment {
	e := m.Measure(s, height, widthFactor)
	return Segment{X0: 0, X1: e.Width, Y: (e.Ascent - e.Descent) / 2}
}

// Stats returns the hit and miss counts of the extents cache.
func (m *Measurer) Stats() cache.Stats { return m.extents.Stats() }

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
