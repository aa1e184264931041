package encoding

type byteOrder int

const (
	orderUnknown byteOrder = iota
	orderLE
	orderBE
)

const (
	bomNative  = 0xFEFF
	bomSwapped = 0xFFFE
)

// UTF-16 whitespace code units as read in little-endian register order.
// The big-endian forms are the same values byte-swapped.
var utf16Blanks = [...]uint16{0x0020, 0x0009, 0x000D, 0x000A, 0x00A0}

func isBlankCh(c byte) bool {
	return c == 0x20 || c == 0x9 || c == 0xa || c == 0xd
}

func swap16(u uint16) uint16 {
	return u<<8 | u>>8
}

func isUTF16Blank(u uint16, order byteOrder) bool {
	if order == orderBE {
		u = swap16(u)
	}
	for _, b := range utf16Blanks {
		if u == b {
			return true
		}
	}
	return false
}

// Normalize strips a leading byte order mark and leading whitespace from
// b, and reports whether the buffer looks like UTF-16 or single-byte
// text. The returned slice is a view into b; nothing is copied.
//
// Even-length buffers are first probed as UTF-16: a BOM or a whitespace
// code unit of known byte order confirms UTF-16, after which all UTF-16
// whitespace is skipped. A code unit made of two single-byte whitespace
// bytes, or any other code unit seen before the byte order is known,
// drops back to single-byte mode, where single-byte whitespace is
// skipped instead.
func Normalize(b []byte) ([]byte, Kind) {
	if len(b)%2 == 0 {
		if rest, kind, ok := normalizeUTF16(b); ok {
			return rest, kind
		}
	}

	i := 0
	for i < len(b) && isBlankCh(b[i]) {
		i++
	}
	return b[i:], SingleByte
}

func normalizeUTF16(b []byte) ([]byte, Kind, bool) {
	order := orderUnknown
	i := 0
	for ; i+1 < len(b); i += 2 {
		u := uint16(b[i]) | uint16(b[i+1])<<8
		switch {
		case u == bomNative && order != orderBE:
			order = orderLE
			continue
		case u == bomSwapped && order != orderLE:
			order = orderBE
			continue
		}

		if order != orderUnknown {
			if isUTF16Blank(u, order) {
				continue
			}
			break
		}

		// byte order still undecided
		switch {
		case isUTF16Blank(u, orderLE):
			order = orderLE
			continue
		case isUTF16Blank(u, orderBE):
			order = orderBE
			continue
		}
		// ambiguous pair of single-byte blanks, or plain single-byte text
		return nil, SingleByte, false
	}

	if order == orderUnknown {
		// only reachable with an empty buffer
		return nil, SingleByte, false
	}
	if order == orderBE {
		return b[i:], UTF16BE, true
	}
	return b[i:], UTF16LE, true
}
