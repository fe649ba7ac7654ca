package text

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// codepages maps DWGCODEPAGE names to their encodings.
var codepages = map[string]encoding.Encoding{
	"ANSI_874":  charmap.Windows874,
	"ANSI_1250": charmap.Windows1250,
	"ANSI_1251": charmap.Windows1251,
	"ANSI_1252": charmap.Windows1252,
	"ANSI_1253": charmap.Windows1253,
	"ANSI_1254": charmap.Windows1254,
	"ANSI_1255": charmap.Windows1255,
	"ANSI_1256": charmap.Windows1256,
	"ANSI_1257": charmap.Windows1257,
	"ANSI_1258": charmap.Windows1258,
	"ANSI_932":  japanese.ShiftJIS,
	"ANSI_936":  simplifiedchinese.GBK,
	"ANSI_949":  korean.EUCKR,
	"ANSI_950":  traditionalchinese.Big5,
}

// Decode converts text stored in a drawing code page to UTF-8. The
// code page is named as in the DWGCODEPAGE header variable, for example
// "ANSI_1252" or "ANSI_932". An empty name or "UTF-8" accepts valid
// UTF-8 as is.
func Decode(b []byte, codepage string) (string, error) {
	name := strings.ToUpper(strings.TrimSpace(codepage))
	if name == "" || name == "UTF-8" || name == "UTF8" {
		if !utf8.Valid(b) {
			return "", fmt.Errorf("text: invalid UTF-8 input")
		}
		return string(b), nil
	}

	enc, ok := codepages[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", codepage, ErrUnknownCodepage)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("text: decode %s: %w", name, err)
	}
	return string(out), nil
}

// IsASCII reports whether s has only 7-bit characters. Such strings
// never need a big font.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
