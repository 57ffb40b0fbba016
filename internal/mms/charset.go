package mms

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText returns UTF-8 text. Older extracts carry Windows-1252
// descriptions, so anything that is not valid UTF-8 is decoded as such.
func decodeText(raw []byte) ([]byte, error) {
	if utf8.Valid(raw) {
		return raw, nil
	}
	return charmap.Windows1252.NewDecoder().Bytes(raw)
}
