package xamlname_test

import (
	"testing"

	"github.com/lestrrat-go/xaml/xamlname"
	"github.com/stretchr/testify/require"
)

func TestParsePropertyName(t *testing.T) {
	t.Run("undotted round trip", func(t *testing.T) {
		for _, s := range []string{"Row", "Width", "_private", "Größe", "x1"} {
			n, err := xamlname.ParsePropertyName("", s)
			require.NoError(t, err, s)
			require.Equal(t, s, n.FullName())
			require.Equal(t, s, n.ScopedName())
			require.False(t, n.IsDotted())
			require.Nil(t, n.Owner())
			require.Equal(t, "", n.OwnerName())
		}
	})
	t.Run("dotted", func(t *testing.T) {
		n, err := xamlname.ParsePropertyName("", "Grid.Row")
		require.NoError(t, err)
		require.True(t, n.IsDotted())
		require.Equal(t, "Grid", n.OwnerName())
		require.Equal(t, "Row", n.Name())
		require.Equal(t, "Grid.Row", n.FullName())
		require.Equal(t, "Grid", n.Owner().FullName())
	})
	t.Run("prefix in text", func(t *testing.T) {
		n, err := xamlname.ParsePropertyName("", "local:Panel.Size")
		require.NoError(t, err)
		require.Equal(t, "local", n.Prefix())
		require.Equal(t, "Panel.Size", n.ScopedName())
		require.Equal(t, "local:Panel.Size", n.FullName())
		require.Equal(t, "local", n.Owner().Prefix())
	})
	t.Run("external prefix", func(t *testing.T) {
		n, err := xamlname.ParsePropertyName("local", "Panel.Size")
		require.NoError(t, err)
		require.Equal(t, "local:Panel.Size", n.FullName())

		_, err = xamlname.ParsePropertyName("local", "other:Panel.Size")
		require.ErrorIs(t, err, xamlname.ErrPrefixNotAllowed)
	})
	t.Run("malformed", func(t *testing.T) {
		for _, s := range []string{"", ".Row", "Grid.", "A.B.C", "1abc", "a b", ":Row", "Grid..Row"} {
			_, err := xamlname.ParsePropertyName("", s)
			require.ErrorIs(t, err, xamlname.ErrInvalidName, "%q", s)
		}
	})
}

func TestParseTypeName(t *testing.T) {
	n, err := xamlname.ParseTypeName("x:String")
	require.NoError(t, err)
	require.Equal(t, "x", n.Prefix())
	require.Equal(t, "String", n.Name())
	require.Equal(t, "x:String", n.FullName())
	require.Equal(t, "String", n.ScopedName())

	_, err = xamlname.ParseTypeName("Grid.Row")
	require.ErrorIs(t, err, xamlname.ErrInvalidName)
}

func TestMemoizedNamesAreConsistent(t *testing.T) {
	n, err := xamlname.ParsePropertyName("p", "Owner.Name")
	require.NoError(t, err)

	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = n.ScopedName()
			_ = n.FullName()
		}()
	}
	for range 8 {
		<-done
	}
	require.Equal(t, "Owner.Name", n.ScopedName())
	require.Equal(t, "p:Owner.Name", n.FullName())
}
