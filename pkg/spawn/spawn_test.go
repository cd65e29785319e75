package spawn

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/wengyanqing/cdbnode/internal/logger"
	"github.com/wengyanqing/cdbnode/pkg/errors/codes"
)

func TestBuildGangAssignsIdentities(t *testing.T) {
	spawner := NewSpawner(logger.Log, "true", prometheus.NewRegistry())

	gang, err := spawner.BuildGang(GangSpec{SliceID: 3, GangSize: 4, WriterIndex: 2})
	require.NoError(t, err)
	require.Len(t, gang, 4)

	writers := 0
	for i, member := range gang {
		require.True(t, member.Initialized)
		require.Equal(t, 3, member.SliceID)
		require.Equal(t, i, member.SliceIndex)
		require.Equal(t, 4, member.GangSize)
		if member.Writer {
			require.Equal(t, 2, i)
			writers++
		}
	}
	require.Equal(t, 1, writers)
}

func TestBuildGangCommandCountIsMonotonic(t *testing.T) {
	spawner := NewSpawner(logger.Log, "true", prometheus.NewRegistry())

	first, err := spawner.BuildGang(GangSpec{SliceID: 0, GangSize: 1})
	require.NoError(t, err)
	second, err := spawner.BuildGang(GangSpec{SliceID: 0, GangSize: 1})
	require.NoError(t, err)

	require.Greater(t, second[0].CommandCount, first[0].CommandCount)
}

func TestBuildGangRejectsBadSpecs(t *testing.T) {
	spawner := NewSpawner(logger.Log, "true", prometheus.NewRegistry())

	_, err := spawner.BuildGang(GangSpec{GangSize: 0})
	require.Error(t, err)
	require.True(t, codes.WorkerSpawnFailed.Contains(err))

	_, err = spawner.BuildGang(GangSpec{GangSize: 2, WriterIndex: 2})
	require.Error(t, err)
	require.True(t, codes.WorkerSpawnFailed.Contains(err))
}

func TestSpawnGangHandsIdentityThroughEnvironment(t *testing.T) {
	spawner := NewSpawner(logger.Log, "sh", prometheus.NewRegistry(),
		WithArgs("-c", `case "$`+IdentityEnvVar+`" in ProcessIdentity_Begin_*) exit 0;; *) exit 1;; esac`))

	err := spawner.SpawnGang(context.Background(), GangSpec{SliceID: 1, GangSize: 2, WriterIndex: 0})
	require.NoError(t, err)
}

func TestSpawnGangFailsWhenWorkerExhaustsRestarts(t *testing.T) {
	spawner := NewSpawner(logger.Log, "false", prometheus.NewRegistry(), WithMaxRestarts(1))

	err := spawner.SpawnGang(context.Background(), GangSpec{SliceID: 1, GangSize: 1, WriterIndex: 0})
	require.Error(t, err)
	require.True(t, codes.WorkerSpawnFailed.Contains(err))
}
