package xaml_test

import (
	"testing"

	"github.com/lestrrat-go/xaml"
	"github.com/lestrrat-go/xaml/node"
	"github.com/lestrrat-go/xaml/schema"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	li := node.LineInfo{Line: 1, Column: 1}
	unknown := schema.NewUnknownType(nsP, "", "Nope", true)
	grid := newTestContext(t).ResolveType(nsP, "Grid")

	t.Run("unknown names inside a conditional scope", func(t *testing.T) {
		v := xaml.NewValidator(xaml.NewReporter())
		stream := []node.Node{
			node.NewStartConditionalScope("IsTypePresent(Nope)", li),
			node.NewStartObject(unknown, li),
			node.NewStartMember(schema.NewUnknownProperty(unknown, "Foo", false), li),
			node.NewEndMember(li),
			node.NewStartMember(schema.NewUnknownContentProperty(unknown), li),
			node.NewEndMember(li),
			node.NewEndObject(li),
		}
		for _, n := range stream {
			require.NoError(t, v.Validate(n), "%s", n)
		}
		require.Equal(t, 1, v.Depth())
		require.NoError(t, v.Validate(node.NewEndConditionalScope(li)))
		require.Equal(t, 0, v.Depth())
	})
	t.Run("exactly one unknown type outside a scope", func(t *testing.T) {
		reporter := xaml.NewReporter()
		v := xaml.NewValidator(reporter)
		require.NoError(t, v.Validate(node.NewStartObject(grid, li)))

		err := v.Validate(node.NewStartObject(unknown, node.LineInfo{Line: 3, Column: 5}))
		require.ErrorIs(t, err, xaml.ErrUnknownType)
		require.Same(t, err, v.Err())

		again := v.Validate(node.NewStartObject(schema.NewUnknownType(nsP, "", "Other", true), li))
		require.Same(t, err, again, "the first error sticks")

		require.Len(t, reporter.Errors(), 1)
		perr := reporter.Errors()[0]
		require.Equal(t, xaml.CodeUnknownType, perr.Code)
		require.Equal(t, 3, perr.Line)
		require.Equal(t, 5, perr.Column)
		require.Equal(t, []string{"Nope", nsP}, perr.Params)
	})
	t.Run("end scope at depth 0", func(t *testing.T) {
		v := xaml.NewValidator(nil)
		err := v.Validate(node.NewEndConditionalScope(li))
		require.ErrorIs(t, err, xaml.ErrUnbalancedConditionalScope)
		require.Equal(t, 0, v.Depth(), "depth never goes negative")
	})
	t.Run("cannot add children", func(t *testing.T) {
		v := xaml.NewValidator(nil)
		err := v.Validate(node.NewStartMember(schema.NewUnknownContentProperty(grid), li))
		require.ErrorIs(t, err, xaml.ErrUnknownProperty)
		require.EqualError(t, err, "cannot add children to type 'Grid' at line 1, column 1")
	})
	t.Run("attached and normal properties", func(t *testing.T) {
		v := xaml.NewValidator(nil)
		err := v.Validate(node.NewStartMember(schema.NewUnknownProperty(grid, "Nope", true), li))
		var perr *xaml.ParseError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, xaml.CodeUnknownAttachedProperty, perr.Code)

		v = xaml.NewValidator(nil)
		err = v.Validate(node.NewStartMember(schema.NewUnknownProperty(grid, "Nope", false), li))
		require.ErrorAs(t, err, &perr)
		require.Equal(t, xaml.CodeUnknownProperty, perr.Code)
	})
	t.Run("known nodes pass", func(t *testing.T) {
		v := xaml.NewValidator(nil)
		sc := newTestContext(t)
		for _, n := range []node.Node{
			node.NewPrefixDefinition(schema.NewNamespace("", nsP), li),
			node.NewStartObject(grid, li),
			node.NewStartMember(sc.ResolveProperty(grid, "Row"), li),
			node.NewText("1", li),
			node.NewEndMember(li),
			node.NewStartMember(schema.NewDirectiveProperty(nsX, "Name"), li),
			node.NewEndMember(li),
			node.NewEndObject(li),
		} {
			require.NoError(t, v.Validate(n), "%s", n)
		}
		require.NoError(t, v.Err())
	})
}
