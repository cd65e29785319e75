package spawn

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/wengyanqing/cdbnode/internal/logger"
	"github.com/wengyanqing/cdbnode/pkg/config"
	"github.com/wengyanqing/cdbnode/pkg/identity"
	"github.com/wengyanqing/cdbnode/pkg/spawn"
	"go.ytsaurus.tech/library/go/core/xerrors"
)

func SpawnCommand(registry *prometheus.Registry) *cobra.Command {
	var configPath string
	var sliceID int
	var gangSize int
	var writerIndex int
	var workerBinary string

	spawnCommand := &cobra.Command{
		Use:     "spawn",
		Short:   "Spawn a worker gang for one plan slice",
		Example: "./cdbnode spawn --slice 2 --gang 4",
		RunE:    spawnGang(registry, &configPath, &sliceID, &gangSize, &writerIndex, &workerBinary),
	}
	spawnCommand.Flags().StringVar(&configPath, "config", "./node.yaml", "path to yaml file with node configuration")
	spawnCommand.Flags().IntVar(&sliceID, "slice", 0, "plan slice to execute")
	spawnCommand.Flags().IntVar(&gangSize, "gang", 1, "number of cooperating workers")
	spawnCommand.Flags().IntVar(&writerIndex, "writer-index", 0, "gang member designated as writer")
	spawnCommand.Flags().StringVar(&workerBinary, "worker-binary", "", "worker binary, defaults to re-executing this binary with the worker subcommand")

	return spawnCommand
}

func spawnGang(registry *prometheus.Registry, configPath *string, sliceID, gangSize, writerIndex *int, workerBinary *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return xerrors.Errorf("unable to load node config: %w", err)
		}

		node := identity.NewNodeIdentity(logger.Log,
			identity.WithHostname(cfg.Hostname),
			identity.WithBootstrapCheck(func() bool { return cfg.Bootstrap }))
		node.SetRole(cfg.Role)
		if !node.Capabilities().Motion {
			return xerrors.Errorf("role %s cannot dispatch slices: data motion is not permitted", node.Role())
		}

		binary := *workerBinary
		if binary == "" {
			binary = cfg.Worker.Binary
		}
		var workerArgs []string
		if binary == "" {
			binary, err = os.Executable()
			if err != nil {
				return xerrors.Errorf("unable to locate own binary: %w", err)
			}
			workerArgs = []string{"worker", "--role", cfg.Role}
		}

		spawner := spawn.NewSpawner(logger.Log, binary, registry,
			spawn.WithArgs(workerArgs...),
			spawn.WithMaxRestarts(uint64(cfg.Worker.MaxRestarts)))

		return spawner.SpawnGang(cmd.Context(), spawn.GangSpec{
			SliceID:     *sliceID,
			GangSize:    *gangSize,
			WriterIndex: *writerIndex,
		})
	}
}
