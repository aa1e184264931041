package node_test

import (
	"testing"

	"github.com/lestrrat-go/xaml/node"
	"github.com/lestrrat-go/xaml/schema"
	"github.com/stretchr/testify/require"
)

func TestNode(t *testing.T) {
	li := node.LineInfo{Line: 3, Column: 7}
	typ := schema.NewUnknownType("urn:a", "a", "Thing", true)

	testcases := []struct {
		Node   node.Node
		Kind   node.Kind
		String string
	}{
		{node.NewStartObject(typ, li), node.StartObject, "StartObject({urn:a}Thing)"},
		{node.NewEndObject(li), node.EndObject, "EndObject"},
		{node.NewStartMember(schema.NewUnknownProperty(typ, "Size", false), li), node.StartMember, "StartMember(Thing.Size)"},
		{node.NewEndMember(li), node.EndMember, "EndMember"},
		{node.NewText("hi", li), node.Text, `Text("hi")`},
		{node.NewStartConditionalScope("IsTypePresent(Foo)", li), node.StartConditionalScope, "StartConditionalScope(IsTypePresent(Foo))"},
		{node.NewEndConditionalScope(li), node.EndConditionalScope, "EndConditionalScope"},
		{node.NewPrefixDefinition(schema.NewNamespace("c", "urn:c?P()"), li), node.PrefixDefinition, "PrefixDefinition(c=urn:c?P())"},
	}

	for _, tc := range testcases {
		t.Run(tc.Kind.String(), func(t *testing.T) {
			require.Equal(t, tc.Kind, tc.Node.Kind())
			require.Equal(t, li, tc.Node.LineInfo())
			require.Equal(t, tc.String, tc.Node.String())
			require.False(t, tc.Node.IsZero())
		})
	}
}

func TestNodeAccessors(t *testing.T) {
	var zero node.Node
	require.True(t, zero.IsZero())

	n := node.NewStartConditionalScope("P()", node.LineInfo{Line: 1, Column: 1})
	require.Equal(t, "P()", n.Predicate())
	require.Equal(t, "", n.Text(), "predicate is not text")

	n = node.NewText("x", node.LineInfo{Line: 1, Column: 1})
	require.Equal(t, "x", n.Text())
	require.Equal(t, "", n.Predicate())
	require.Nil(t, n.Type())
	require.Nil(t, n.Property())
	require.Equal(t, "1:1", n.LineInfo().String())
	require.Equal(t, "Kind(42)", node.Kind(42).String())
}
