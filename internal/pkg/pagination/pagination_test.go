package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeClampsBounds(t *testing.T) {
	page, limit := Normalize(0, 0)
	require.Equal(t, 1, page)
	require.Equal(t, 10, limit)

	page, limit = Normalize(-3, 500)
	require.Equal(t, 1, page)
	require.Equal(t, 100, limit)

	page, limit = Normalize(7, 25)
	require.Equal(t, 7, page)
	require.Equal(t, 25, limit)
}

func TestNewMetaMiddlePage(t *testing.T) {
	meta := NewMeta(2, 10, 35)

	require.Equal(t, 2, meta.CurrentPage)
	require.Equal(t, 4, meta.TotalPages)
	require.Equal(t, int64(35), meta.TotalItems)
	require.Equal(t, 10, meta.ItemsPerPage)
	require.True(t, meta.HasNextPage)
	require.True(t, meta.HasPrevPage)
}

func TestNewMetaBoundaries(t *testing.T) {
	first := NewMeta(1, 10, 35)
	require.False(t, first.HasPrevPage)
	require.True(t, first.HasNextPage)

	last := NewMeta(4, 10, 35)
	require.True(t, last.HasPrevPage)
	require.False(t, last.HasNextPage)
}

func TestNewMetaEmptyResultStillHasOnePage(t *testing.T) {
	meta := NewMeta(1, 10, 0)

	require.Equal(t, 1, meta.TotalPages)
	require.False(t, meta.HasNextPage)
	require.False(t, meta.HasPrevPage)
}

func TestNewMetaExactMultiple(t *testing.T) {
	meta := NewMeta(3, 10, 30)

	require.Equal(t, 3, meta.TotalPages)
	require.False(t, meta.HasNextPage)
}

func TestOffset(t *testing.T) {
	require.Equal(t, 0, Offset(1, 20))
	require.Equal(t, 40, Offset(3, 20))
	require.Equal(t, 0, Offset(0, 20))
}
