package asset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	t.Run("named", func(t *testing.T) {
		a := &Asset{Name: "Genesis Piece"}
		require.Equal(t, "Genesis Piece", a.DisplayName())
	})
	t.Run("unnamed falls back", func(t *testing.T) {
		require.Equal(t, "Unnamed cNFT", (&Asset{}).DisplayName())
	})
	t.Run("nil receiver", func(t *testing.T) {
		var a *Asset
		require.Equal(t, "Unnamed cNFT", a.DisplayName())
	})
}

func TestIsCompressed(t *testing.T) {
	var a *Asset
	require.False(t, a.IsCompressed())
	require.False(t, (&Asset{}).IsCompressed())
	require.True(t, (&Asset{Compression: Compression{Compressed: true}}).IsCompressed())
}
