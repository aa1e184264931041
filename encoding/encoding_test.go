package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestISO88591(t *testing.T) {
	e := Load("iso-8859-1")
	require.NotNil(t, e, `Load("iso-8859-1") should succeed`)

	dec := e.NewDecoder()
	enc := e.NewEncoder()
	for i := 0x20; i <= 0xff; i++ {
		if i >= 0x7f && i <= 0x9f {
			continue
		}
		v := string([]byte{byte(i)})
		s, err := dec.String(v)
		require.NoError(t, err, "decoding %#x should succeed", i)

		v1, err := enc.String(s)
		require.NoError(t, err, "encoding '%s' should succeed", s)
		require.Equal(t, v, v1, "round trip for %#x", i)
	}
}

func TestLoad(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF-16", "utf-16be", "Shift_JIS", "windows-1252", "euc-kr"} {
		require.NotNil(t, Load(name), "Load(%q) should succeed", name)
	}
	require.Nil(t, Load("x-no-such-encoding"), "unknown names return nil")
}

func TestNormalize(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		for _, in := range [][]byte{
			[]byte(`<Page/>`),
			[]byte(`<Page />`),
			{0x3C, 0x00, 0x50, 0x00},
		} {
			out, _ := Normalize(in)
			require.Len(t, out, len(in), "nothing should be stripped from %q", in)
			require.Same(t, &in[0], &out[0], "the same view should come back for %q", in)

			again, _ := Normalize(out)
			require.Same(t, &out[0], &again[0], "normalizing twice changes nothing")
		}
	})
	t.Run("empty", func(t *testing.T) {
		out, kind := Normalize(nil)
		require.Empty(t, out)
		require.Equal(t, SingleByte, kind)
	})
	t.Run("three leading spaces, single byte", func(t *testing.T) {
		in := []byte("   <Page/>")
		out, kind := Normalize(in)
		require.Equal(t, SingleByte, kind)
		require.Equal(t, len(in)-3, len(out), "exactly 3 bytes stripped")
		require.Equal(t, byte('<'), out[0])
	})
	t.Run("odd length, single byte", func(t *testing.T) {
		out, kind := Normalize([]byte("\t\n <Page/>"))
		require.Equal(t, SingleByte, kind)
		require.Equal(t, "<Page/>", string(out))
	})
	t.Run("CRLF pair is ambiguous and falls back", func(t *testing.T) {
		out, kind := Normalize([]byte("\r\n<Page/>"))
		require.Equal(t, SingleByte, kind)
		require.Equal(t, "<Page/>", string(out))
	})

	utf16 := func(order unicode.Endianness, bom unicode.BOMPolicy, s string) []byte {
		b, err := unicode.UTF16(order, bom).NewEncoder().Bytes([]byte(s))
		require.NoError(t, err)
		return b
	}

	testcases := []struct {
		name     string
		input    []byte
		kind     Kind
		stripped int
	}{
		{"LE BOM", utf16(unicode.LittleEndian, unicode.UseBOM, "<Page/>"), UTF16LE, 2},
		{"BE BOM", utf16(unicode.BigEndian, unicode.UseBOM, "<Page/>"), UTF16BE, 2},
		{"LE BOM and blanks", utf16(unicode.LittleEndian, unicode.UseBOM, " \r\n\t<Page/>"), UTF16LE, 10},
		{"LE blanks, no BOM", utf16(unicode.LittleEndian, unicode.IgnoreBOM, "  <Page/>"), UTF16LE, 4},
		{"BE blanks, no BOM", utf16(unicode.BigEndian, unicode.IgnoreBOM, " <Page/>"), UTF16BE, 2},
		{"BOM only", []byte{0xFF, 0xFE}, UTF16LE, 2},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			out, kind := Normalize(tc.input)
			require.Equal(t, tc.kind, kind, "kind should match")
			require.Equal(t, len(tc.input)-tc.stripped, len(out), "stripped byte count should match")
		})
	}
}

func TestDetectBOM(t *testing.T) {
	data := map[Kind][][]byte{
		UTF8:       {{0xEF, 0xBB, 0xBF, 0x3C}},
		UTF16LE:    {{0x3C, 0x00, 0x3F, 0x00}, {0xFF, 0xFE}, {0x3C, 0x00, 0x50, 0x00}},
		UTF16BE:    {{0x00, 0x3C, 0x00, 0x3F}, {0xFE, 0xFF}, {0x00, 0x3C, 0x00, 0x50}},
		SingleByte: {{0xde, 0xad, 0xbe, 0xef}, []byte("<Page/>")},
	}

	for expected, inputs := range data {
		for i, input := range inputs {
			kind, _ := Detect(input)
			require.Equal(t, expected, kind, "Detect returns %s for sequence %d (%#v)", expected, i, input)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Run("UTF-16LE", func(t *testing.T) {
		in, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(`<Page Title="héllo"/>`))
		require.NoError(t, err)
		out, err := Decode(in, UTF16LE, "")
		require.NoError(t, err)
		require.Equal(t, `<Page Title="héllo"/>`, string(out))
	})
	t.Run("UTF-8 BOM is dropped", func(t *testing.T) {
		out, err := Decode(append([]byte{0xEF, 0xBB, 0xBF}, "<Page/>"...), SingleByte, "")
		require.NoError(t, err)
		require.Equal(t, "<Page/>", string(out))
	})
	t.Run("ANSI fallback", func(t *testing.T) {
		out, err := Decode([]byte("<Page Title=\"caf\xe9\"/>"), SingleByte, "")
		require.NoError(t, err)
		require.Equal(t, `<Page Title="café"/>`, string(out))
	})
	t.Run("forced encoding", func(t *testing.T) {
		out, err := Decode([]byte("<Page Title=\"\xe9\"/>"), SingleByte, "iso-8859-1")
		require.NoError(t, err)
		require.Equal(t, `<Page Title="é"/>`, string(out))
	})
	t.Run("unknown forced encoding", func(t *testing.T) {
		_, err := Decode([]byte("<Page/>"), SingleByte, "klingon")
		require.ErrorIs(t, err, ErrUnknownEncoding)
	})
}
