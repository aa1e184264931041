package xaml

import (
	"errors"
	"testing"

	"github.com/lestrrat-go/xaml/internal/scanner"
	"github.com/lestrrat-go/xaml/internal/xmlreader"
	"github.com/lestrrat-go/xaml/schema"
	"github.com/stretchr/testify/require"
)

func TestPullParserOpenFramesAtEOF(t *testing.T) {
	const src = `<Button xmlns="` + schema.PresentationNamespace + `"/>`

	s := scanner.New(xmlreader.New([]byte(src)))
	require.NoError(t, s.Init())

	p := newPullParser(buttonContext(t), s)
	p.frames.Push(frame{kind: objectFrame, typ: schema.NewUnknownType("", "", "Outer", false)})

	var err error
	for range 10 {
		if _, err = p.next(); err != nil {
			break
		}
	}
	require.ErrorIs(t, err, xmlreader.ErrPrematureEOF)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, CodeMalformedMarkup, perr.Code)
	require.Equal(t, 1, perr.Line, "line numbers are 1-based")
	require.Equal(t, len(src)+1, perr.Column, "the error points past the last token")
}
