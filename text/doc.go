// Package text supports the text runs of a drawing.
//
// DWG text strings carry inline control codes (%%d for a degree sign,
// %%u to toggle underlining and so on) and may be stored in the ANSI
// code page of the drawing rather than in Unicode. DecodeEscapes and
// Decode turn them into plain Unicode text.
//
// Measurer shapes strings with a HarfBuzz compatible shaper to obtain
// their extents, which place underline, overline and strikethrough
// segments:
//
//	m, err := text.NewMeasurer()
//	if err != nil {
//		return err
//	}
//	ext := m.Measure("Room 101", 2.5, 1)
package text
