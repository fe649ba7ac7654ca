package dwgdraw

import "testing"

func TestACIToColorDef(t *testing.T) {
	tests := []struct {
		index uint8
		want  ColorDef
	}{
		{1, ColorDef{255, 0, 0}},
		{2, ColorDef{255, 255, 0}},
		{3, ColorDef{0, 255, 0}},
		{5, ColorDef{0, 0, 255}},
		{7, ColorDef{255, 255, 255}},
		{10, ColorDef{255, 0, 0}},
		{11, ColorDef{255, 128, 128}},
		{12, ColorDef{166, 0, 0}},
		{130, ColorDef{0, 255, 255}},
		{250, ColorDef{51, 51, 51}},
		{255, ColorDef{255, 255, 255}},
	}
	for _, tt := range tests {
		if got := ACIToColorDef(tt.index); got != tt.want {
			t.Errorf("ACIToColorDef(%d) = %+v, want %+v", tt.index, got, tt.want)
		}
	}
}

func TestColorPredicates(t *testing.T) {
	var zero Color
	if !zero.IsByLayer() {
		t.Error("zero Color should be ByLayer")
	}
	if !ColorByBlock().IsByBlock() {
		t.Error("ColorByBlock().IsByBlock() = false")
	}
	if !ColorIndex(3).IsByACI() {
		t.Error("ColorIndex(3).IsByACI() = false")
	}
	if ColorRGB(1, 2, 3).IsByACI() {
		t.Error("true color reported as ACI")
	}
}

func TestColorResolve(t *testing.T) {
	if got := ColorRGB(10, 20, 30).Resolve(); got != (ColorDef{10, 20, 30}) {
		t.Errorf("true color resolved to %+v", got)
	}
	if got := ColorIndex(1).Resolve(); got != (ColorDef{255, 0, 0}) {
		t.Errorf("ACI 1 resolved to %+v", got)
	}
	if got := ColorByBlock().Resolve(); got != (ColorDef{255, 255, 255}) {
		t.Errorf("orphaned ByBlock resolved to %+v, want white", got)
	}
}
