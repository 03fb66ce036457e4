package pdf

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// WinAnsiEncoding is the single-byte encoding used for the standard
// fonts. It matches Windows code page 1252 for every printable code.
const WinAnsiEncoding Name = "WinAnsiEncoding"

// EncodeWinAnsi converts text to WinAnsiEncoding bytes. Characters that
// have no code in the encoding are reported as an error instead of
// being replaced.
func EncodeWinAnsi(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return nil, fmt.Errorf("character %q at byte %d has no WinAnsiEncoding code", r, i)
		}
		out = append(out, b)
	}
	return out, nil
}

// DecodeWinAnsi converts WinAnsiEncoding bytes to text
func DecodeWinAnsi(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = charmap.Windows1252.DecodeByte(b)
	}
	return string(runes)
}
