package set

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := New("a", "b")
	require.Equal(t, 2, s.Len())
	require.True(t, s.Contains("a"))
	require.False(t, s.Contains("c"))

	s.Add("c", "c")
	require.Equal(t, 3, s.Len())

	s.Remove("a")
	require.False(t, s.Contains("a"))
	require.False(t, s.Empty())

	require.Equal(t, []string{"b", "c"}, s.SortedSliceFunc(func(a, b string) bool { return a < b }))
}
