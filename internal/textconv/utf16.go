// Package textconv converts ReFS's on-disk UTF-16LE name bytes into Go
// strings. Grounded on saferwall/pe's helper.go, which uses
// golang.org/x/text/encoding/unicode to decode UTF-16LE version/resource
// strings; ReFS directory and attribute names follow the same encoding,
// with unpaired surrogates permitted.
package textconv

import (
	"golang.org/x/text/encoding/unicode"
)

var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// UTF16LEToUTF8 decodes raw UTF-16LE bytes (as stored in directory-entry and
// attribute-record names) into a UTF-8 string. Unpaired surrogates are
// replaced with the Unicode replacement character rather than rejected,
// since the on-disk format explicitly permits them.
func UTF16LEToUTF8(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	out, err := utf16leDecoder.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
