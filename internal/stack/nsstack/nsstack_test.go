package nsstack_test

import (
	"testing"

	"github.com/lestrrat-go/xaml/internal/stack/nsstack"
	"github.com/lestrrat-go/xaml/schema"
	"github.com/stretchr/testify/require"
)

func TestNsStack(t *testing.T) {
	s := nsstack.New()

	ns, ok := s.Lookup("xml")
	require.True(t, ok, "xml is always bound")
	require.Equal(t, schema.XMLNamespace, ns.URI())

	s.PushScope()
	s.Declare("", schema.PresentationNamespace)
	s.Declare("x", schema.XAMLNamespace)
	require.Len(t, s.Declared(), 2)

	s.PushScope()
	s.Declare("x", "urn:shadow")

	ns, ok = s.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "urn:shadow", ns.URI(), "inner scope shadows outer")

	ns, ok = s.Lookup("")
	require.True(t, ok)
	require.Equal(t, schema.PresentationNamespace, ns.URI())

	s.PopScope()
	ns, ok = s.Lookup("x")
	require.True(t, ok)
	require.Equal(t, schema.XAMLNamespace, ns.URI())

	s.PopScope()
	_, ok = s.Lookup("x")
	require.False(t, ok)

	s.PopScope()
	require.Empty(t, s.Declared(), "root scope is never popped")
	ns, ok = s.Lookup("xml")
	require.True(t, ok)
	require.Equal(t, schema.XMLNamespace, ns.URI())
}
