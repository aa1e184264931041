// Package encoding wraps around the various encoding stuff in
// golang.org/x/text/encoding, and holds the byte-level steps that run
// before any markup is tokenized: leading BOM/whitespace normalization,
// encoding detection, and decoding to UTF-8.
package encoding

import (
	"strings"

	enc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Kind is the coarse encoding family decided by Normalize and Detect.
type Kind int

const (
	SingleByte Kind = iota
	UTF16LE
	UTF16BE
	UTF8
)

func (k Kind) String() string {
	switch k {
	case SingleByte:
		return "single-byte"
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	case UTF8:
		return "utf-8"
	}
	return "unknown"
}

// Load returns the encoding registered under name, or nil if the name
// is not known.
func Load(name string) enc.Encoding {
	switch strings.ToLower(name) {
	case "utf8", "utf-8":
		return unicode.UTF8
	case "utf-16", "utf16", "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "euc-jp":
		return japanese.EUCJP
	case "shift_jis", "shift-jis", "shiftjis", "cp932":
		return japanese.ShiftJIS
	case "jis", "iso-2022-jp":
		return japanese.ISO2022JP
	case "big5":
		return traditionalchinese.Big5
	case "euc-kr":
		return korean.EUCKR
	case "gbk", "cp936":
		return simplifiedchinese.GBK
	case "hz-gb2312":
		return simplifiedchinese.HZGB2312
	case "cp437":
		return charmap.CodePage437
	case "cp866":
		return charmap.CodePage866
	case "iso-8859-2":
		return charmap.ISO8859_2
	case "iso-8859-5":
		return charmap.ISO8859_5
	case "iso-8859-7":
		return charmap.ISO8859_7
	case "iso-8859-15":
		return charmap.ISO8859_15
	case "koi8r", "koi8-r":
		return charmap.KOI8R
	case "windows1250", "windows-1250":
		return charmap.Windows1250
	case "windows1251", "windows-1251":
		return charmap.Windows1251
	case "iso-8859-1", "windows1252", "windows-1252", "ansi":
		return charmap.Windows1252
	case "windows1253", "windows-1253":
		return charmap.Windows1253
	case "windows1254", "windows-1254":
		return charmap.Windows1254
	case "windows874":
		return charmap.Windows874
	}
	return nil
}
