package coded

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.ytsaurus.tech/library/go/core/xerrors"
)

func TestRegisterRejectsDuplicates(t *testing.T) {
	code := Register("test", "registry", "unique")
	require.Equal(t, "test.registry.unique", code.ID())
	require.Panics(t, func() {
		Register("test", "registry", "unique")
	})
}

func TestContainsWalksWrappedChain(t *testing.T) {
	code := Register("test", "registry", "wrapped")
	other := Register("test", "registry", "other")

	err := Errorf(code, "inner failure")
	wrapped := xerrors.Errorf("outer: %w", err)

	require.True(t, code.Contains(wrapped))
	require.False(t, other.Contains(wrapped))
	require.False(t, code.Contains(xerrors.New("unrelated")))
}
