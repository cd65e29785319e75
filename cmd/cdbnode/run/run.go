package run

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wengyanqing/cdbnode/internal/logger"
	"github.com/wengyanqing/cdbnode/pkg/config"
	"github.com/wengyanqing/cdbnode/pkg/identity"
	"go.ytsaurus.tech/library/go/core/log"
	"go.ytsaurus.tech/library/go/core/xerrors"
)

func RunCommand() *cobra.Command {
	var configPath string

	runCommand := &cobra.Command{
		Use:     "run",
		Short:   "Resolve the node role and run until signalled",
		Example: "./cdbnode run --config ./node.yaml",
		RunE:    run(&configPath),
	}
	runCommand.Flags().StringVar(&configPath, "config", "./node.yaml", "path to yaml file with node configuration")

	return runCommand
}

func run(configPath *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return xerrors.Errorf("unable to load node config: %w", err)
		}

		node := identity.NewNodeIdentity(logger.Log,
			identity.WithHostname(cfg.Hostname),
			identity.WithBootstrapCheck(func() bool { return cfg.Bootstrap }))
		node.SetRole(cfg.Role)
		if cfg.Master.Host != "" {
			node.SetMasterAddress(cfg.Master.Host, cfg.Master.Port)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		logger.Log.Info("shutting down", log.String("node", node.Name()))
		return nil
	}
}
