package text

import (
	"strings"
	"unicode/utf8"
)

// Span is a half-open range of rune indices in decoded text.
type Span struct {
	Start, End int
}

// Decoded is a string with its control codes applied.
type Decoded struct {
	Text string
	// Underlines and Overlines hold the decorated rune ranges in order.
	Underlines []Span
	Overlines  []Span
}

// IsPlain reports whether the text has no decorations.
func (d Decoded) IsPlain() bool {
	return len(d.Underlines) == 0 && len(d.Overlines) == 0
}

// Special characters produced by control codes.
const (
	DegreeSign   = '°'
	DiameterSign = '⌀'
	PlusMinus    = '±'
)

// DecodeEscapes applies the %% control codes of a single-line text
// string:
//
//	%%d  degree sign
//	%%c  diameter sign
//	%%p  plus/minus sign
//	%%%  percent sign
//	%%nnn  the character with decimal code nnn
//	%%u  toggle underline
//	%%o  toggle overline
//
// Codes are case insensitive. Unknown codes are kept as written.
func DecodeEscapes(s string) Decoded {
	if !strings.Contains(s, "%%") {
		return Decoded{Text: s}
	}

	var (
		out        strings.Builder
		d          Decoded
		n          int // runes written
		underStart = -1
		overStart  = -1
	)
	out.Grow(len(s))
	emit := func(r rune) {
		out.WriteRune(r)
		n++
	}

	for i := 0; i < len(s); {
		if !strings.HasPrefix(s[i:], "%%") || i+2 >= len(s) {
			r, size := utf8.DecodeRuneInString(s[i:])
			emit(r)
			i += size
			continue
		}

		code := s[i+2]
		switch code {
		case 'd', 'D':
			emit(DegreeSign)
		case 'c', 'C':
			emit(DiameterSign)
		case 'p', 'P':
			emit(PlusMinus)
		case '%':
			emit('%')
		case 'u', 'U':
			if underStart < 0 {
				underStart = n
			} else {
				d.Underlines = appendSpan(d.Underlines, underStart, n)
				underStart = -1
			}
		case 'o', 'O':
			if overStart < 0 {
				overStart = n
			} else {
				d.Overlines = appendSpan(d.Overlines, overStart, n)
				overStart = -1
			}
		default:
			if r, ok := decimalCode(s[i+2:]); ok {
				emit(r)
				i += 5
				continue
			}
			emit('%')
			emit('%')
			i += 2
			continue
		}
		i += 3
	}

	if underStart >= 0 {
		d.Underlines = appendSpan(d.Underlines, underStart, n)
	}
	if overStart >= 0 {
		d.Overlines = appendSpan(d.Overlines, overStart, n)
	}
	d.Text = out.String()
	return d
}

// decimalCode parses the three digits of a %%nnn code.
func decimalCode(s string) (rune, bool) {
	if len(s) < 3 {
		return 0, false
	}
	var r rune
	for i := range 3 {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		r = r*10 + rune(c-'0')
	}
	return r, true
}

// appendSpan adds a non-empty span.
func appendSpan(spans []Span, start, end int) []Span {
	if end <= start {
		return spans
	}
	return append(spans, Span{Start: start, End: end})
}
