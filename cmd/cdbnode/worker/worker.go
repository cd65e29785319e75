package worker

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wengyanqing/cdbnode/internal/logger"
	"github.com/wengyanqing/cdbnode/pkg/config"
	"github.com/wengyanqing/cdbnode/pkg/errors/coded"
	"github.com/wengyanqing/cdbnode/pkg/errors/codes"
	"github.com/wengyanqing/cdbnode/pkg/identity"
	"github.com/wengyanqing/cdbnode/pkg/spawn"
	"go.ytsaurus.tech/library/go/core/log"
	"go.ytsaurus.tech/library/go/core/xerrors"
)

func WorkerCommand() *cobra.Command {
	var configPath string
	var roleName string
	var identityToken string

	workerCommand := &cobra.Command{
		Use:     "worker",
		Short:   "Run as a spawned slice worker",
		Example: "./cdbnode worker --role segment",
		RunE:    worker(&configPath, &roleName, &identityToken),
	}
	workerCommand.Flags().StringVar(&configPath, "config", "", "path to yaml file with node configuration")
	workerCommand.Flags().StringVar(&roleName, "role", "", "node role, overrides the config value")
	workerCommand.Flags().StringVar(&identityToken, "identity-token", "", "encoded execution identity, overrides "+spawn.IdentityEnvVar)

	return workerCommand
}

func worker(configPath, roleName, identityToken *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return xerrors.Errorf("unable to load node config: %w", err)
		}

		role := *roleName
		if role == "" {
			role = cfg.Role
		}

		node := identity.NewNodeIdentity(logger.Log, identity.WithHostname(cfg.Hostname))
		node.SetRole(role)

		token := *identityToken
		if token == "" {
			token = os.Getenv(spawn.IdentityEnvVar)
		}

		// A worker that cannot establish its identity has nothing to execute.
		// The decode itself never aborts; the abort policy lives here.
		if !node.AssignProcessIdentity(token) {
			return coded.Errorf(codes.MalformedProcessIdentity, "worker cannot establish its identity from token %q", token)
		}

		logger.Log.Info("worker ready",
			log.String("node", node.Name()),
			log.String("identity", node.ProcessIdentityLabel()),
			log.Bool("writer", node.ProcessIdentity().Writer))
		return nil
	}
}
