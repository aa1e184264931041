package encoding

import (
	"bytes"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var ErrUnknownEncoding = errors.New("unknown encoding")

// prefix patterns, checked longest first
var (
	patUTF16LE4B = []byte{0x3C, 0x00, 0x3F, 0x00}
	patUTF16BE4B = []byte{0x00, 0x3C, 0x00, 0x3F}
	patUTF8      = []byte{0xEF, 0xBB, 0xBF}
	patUTF16LE2B = []byte{0xFF, 0xFE}
	patUTF16BE2B = []byte{0xFE, 0xFF}
	patUTF16LELt = []byte{0x3C, 0x00}
	patUTF16BELt = []byte{0x00, 0x3C}
)

// Detect looks at the first bytes of a normalized buffer for a BOM or a
// '<' encoded as UTF-16. It returns the detected kind and the number of
// BOM bytes to skip. Buffers that match nothing are reported as
// SingleByte.
func Detect(b []byte) (Kind, int) {
	switch {
	case bytes.HasPrefix(b, patUTF16LE4B):
		return UTF16LE, 0
	case bytes.HasPrefix(b, patUTF16BE4B):
		return UTF16BE, 0
	case bytes.HasPrefix(b, patUTF8):
		return UTF8, len(patUTF8)
	case bytes.HasPrefix(b, patUTF16LE2B):
		return UTF16LE, len(patUTF16LE2B)
	case bytes.HasPrefix(b, patUTF16BE2B):
		return UTF16BE, len(patUTF16BE2B)
	case len(b)%2 == 0 && bytes.HasPrefix(b, patUTF16LELt):
		return UTF16LE, 0
	case len(b)%2 == 0 && bytes.HasPrefix(b, patUTF16BELt):
		return UTF16BE, 0
	}
	return SingleByte, 0
}

// Decode converts b, whose family was decided by Normalize, into UTF-8.
// If forced is not empty it names the encoding to use regardless of
// what was detected.
func Decode(b []byte, kind Kind, forced string) ([]byte, error) {
	if forced != "" {
		e := Load(forced)
		if e == nil {
			return nil, ErrUnknownEncoding
		}
		return e.NewDecoder().Bytes(b)
	}

	if kind == SingleByte {
		var skip int
		kind, skip = Detect(b)
		b = b[skip:]
	}

	switch kind {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	}

	if utf8.Valid(b) {
		return b, nil
	}
	// not UTF-8, so it's the ANSI code page
	return charmap.Windows1252.NewDecoder().Bytes(b)
}
