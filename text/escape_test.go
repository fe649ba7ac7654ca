package text

import (
	"reflect"
	"testing"
)

func TestDecodeEscapes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		under []Span
		over  []Span
	}{
		{"plain", "Room 101", "Room 101", nil, nil},
		{"degree", "90%%d", "90°", nil, nil},
		{"diameter", "%%c25", "⌀25", nil, nil},
		{"plus minus upper case", "%%P0.5", "±0.5", nil, nil},
		{"percent", "50%%%", "50%", nil, nil},
		{"decimal code", "%%065BC", "ABC", nil, nil},
		{"unknown code kept", "a%%zb", "a%%zb", nil, nil},
		{"trailing marker", "abc%%", "abc%%", nil, nil},
		{"underline", "a%%ubc%%ud", "abcd", []Span{{1, 3}}, nil},
		{"open underline", "%%uabc", "abc", []Span{{0, 3}}, nil},
		{"overline and underline", "%%o%%uab%%Ocd", "abcd", []Span{{0, 4}}, []Span{{0, 2}}},
		{"empty toggle", "a%%u%%ub", "ab", nil, nil},
		{"multibyte", "%%u日本%%u語", "日本語", []Span{{0, 2}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecodeEscapes(tt.in)
			if d.Text != tt.want {
				t.Errorf("Text = %q, want %q", d.Text, tt.want)
			}
			if !reflect.DeepEqual(d.Underlines, tt.under) {
				t.Errorf("Underlines = %v, want %v", d.Underlines, tt.under)
			}
			if !reflect.DeepEqual(d.Overlines, tt.over) {
				t.Errorf("Overlines = %v, want %v", d.Overlines, tt.over)
			}
		})
	}
}
