package text

import (
	"errors"
	"math"
	"testing"
)

func newTestMeasurer(t *testing.T) *Measurer {
	t.Helper()
	m, err := NewMeasurer()
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	return m
}

func TestNewMeasurerEmptyFont(t *testing.T) {
	if _, err := NewMeasurer(WithFontData(nil)); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("err = %v, want ErrEmptyFontData", err)
	}
}

func TestMeasure(t *testing.T) {
	m := newTestMeasurer(t)

	short := m.Measure("ab", 1, 1)
	long := m.Measure("abcd", 1, 1)
	if short.Width <= 0 || long.Width <= short.Width {
		t.Errorf("widths: ab=%v abcd=%v", short.Width, long.Width)
	}
	if short.Ascent <= 0 || short.Descent <= 0 {
		t.Errorf("line bounds: %+v", short)
	}

	scaled := m.Measure("ab", 2.5, 0.8)
	if math.Abs(scaled.Width-short.Width*2.5*0.8) > 1e-9 {
		t.Errorf("scaled width = %v, want %v", scaled.Width, short.Width*2)
	}
	if math.Abs(scaled.Ascent-short.Ascent*2.5) > 1e-9 {
		t.Errorf("scaled ascent = %v, want %v", scaled.Ascent, short.Ascent*2.5)
	}

	if e := m.Measure("", 1, 1); e.Width != 0 {
		t.Errorf("empty width = %v, want 0", e.Width)
	}
}

func TestMeasureCaches(t *testing.T) {
	m := newTestMeasurer(t)
	m.Measure("cached", 1, 1)
	m.Measure("cached", 3, 1)
	if s := m.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 miss", s)
	}
}

func TestDecorations(t *testing.T) {
	m := newTestMeasurer(t)
	d := DecodeEscapes("a%%ubc%%u%%od%%o")
	under, over := m.Decorations(d, 2, 1)
	if len(under) != 1 || len(over) != 1 {
		t.Fatalf("got %d underlines and %d overlines", len(under), len(over))
	}

	a := m.Measure("a", 2, 1).Width
	abc := m.Measure("abc", 2, 1).Width
	abcd := m.Measure("abcd", 2, 1).Width
	if under[0].X0 != a || under[0].X1 != abc {
		t.Errorf("underline x = [%v,%v], want [%v,%v]", under[0].X0, under[0].X1, a, abc)
	}
	if under[0].Y != UnderlineOffset*2 {
		t.Errorf("underline y = %v", under[0].Y)
	}
	if over[0].X0 != abc || over[0].X1 != abcd || over[0].Y != OverlineOffset*2 {
		t.Errorf("overline = %+v", over[0])
	}

	if u, o := m.Decorations(DecodeEscapes("plain"), 1, 1); u != nil || o != nil {
		t.Error("plain text has decorations")
	}
}

func TestStrikethrough(t *testing.T) {
	m := newTestMeasurer(t)
	e := m.Measure("Strike", 1, 1)
	s := m.Strikethrough("Strike", 1, 1)
	if s.X0 != 0 || s.X1 != e.Width {
		t.Errorf("strikethrough x = [%v,%v], want [0,%v]", s.X0, s.X1, e.Width)
	}
	if s.Y <= -e.Descent || s.Y >= e.Ascent {
		t.Errorf("strikethrough y = %v outside line bounds %+v", s.Y, e)
	}
}
