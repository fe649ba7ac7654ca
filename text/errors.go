package text

import "errors"

// Sentinel errors for the text package.
var (
	// ErrUnknownCodepage is returned by Decode for a code page it has no
	// decoder for.
	ErrUnknownCodepage = errors.New("text: unknown code page")

	// ErrEmptyFontData is returned when a measurer is given no font.
	ErrEmptyFontData = errors.New("text: empty font data")
)
