package xaml_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lestrrat-go/xaml"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeMessage(t *testing.T) {
	testcases := []struct {
		Code     xaml.ErrorCode
		Params   []string
		Expected string
		Kind     error
	}{
		{Code: xaml.CodeUnknownType, Params: []string{"Nope", "urn:a"}, Expected: "the type 'Nope' was not found in namespace 'urn:a'", Kind: xaml.ErrUnknownType},
		{Code: xaml.CodeUnknownNamespace, Params: []string{"foo"}, Expected: "unknown namespace 'foo' for type ''", Kind: xaml.ErrUnknownType},
		{Code: xaml.CodeCannotAddChildren, Params: []string{"Rectangle", "extra"}, Expected: "cannot add children to type 'Rectangle'", Kind: xaml.ErrUnknownProperty},
		{Code: xaml.CodeUnbalancedConditionalScope, Expected: "conditional scope ended without a matching start", Kind: xaml.ErrUnbalancedConditionalScope},
		{Code: xaml.CodeInvalidPropertyName, Params: []string{"a.b.c"}, Expected: "invalid property name 'a.b.c'", Kind: xaml.ErrInvalidPropertyNameSyntax},
	}
	for _, tc := range testcases {
		t.Run(tc.Code.String(), func(t *testing.T) {
			require.Equal(t, tc.Expected, tc.Code.Message(tc.Params...))
			require.Equal(t, tc.Kind, tc.Code.Kind())
		})
	}

	require.Equal(t, "unknown error code 99", xaml.ErrorCode(99).Message())
	require.Equal(t, "ErrorCode(99)", xaml.ErrorCode(99).String())
}

func TestParseError(t *testing.T) {
	cause := errors.New("cause")
	err := error(&xaml.ParseError{
		Code:   xaml.CodeUnknownProperty,
		Line:   4,
		Column: 7,
		Params: []string{"Foo", "Button"},
		Err:    cause,
	})
	require.EqualError(t, err, "unknown member 'Foo' on type 'Button' at line 4, column 7")
	require.ErrorIs(t, err, xaml.ErrUnknownProperty)
	require.False(t, errors.Is(err, xaml.ErrUnknownType))
	require.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("reading: %w", err)
	var perr *xaml.ParseError
	require.True(t, errors.As(wrapped, &perr))
	require.Equal(t, 4, perr.Line)
}
