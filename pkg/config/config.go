package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.ytsaurus.tech/library/go/core/xerrors"
)

// NodeConfig is everything a cdbnode process reads at startup. The role name
// is deliberately without a default: an absent or misspelled role is a fatal
// configuration error downstream, never a guessed value.
type NodeConfig struct {
	Role      string `koanf:"role"`
	Hostname  string `koanf:"hostname"`
	Bootstrap bool   `koanf:"bootstrap"`

	Master MasterConfig `koanf:"master"`
	Worker WorkerConfig `koanf:"worker"`
}

type MasterConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

type WorkerConfig struct {
	Binary      string `koanf:"binary"`
	MaxRestarts int    `koanf:"max_restarts"`
}

const envPrefix = "CDBNODE_"

// Load reads the yaml file at path (if non-empty), then applies environment
// overrides (CDBNODE_MASTER_HOST -> master.host).
func Load(path string) (*NodeConfig, error) {
	k := koanf.New(".")

	k.Set("master.port", 5432)
	k.Set("worker.max_restarts", 3)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, xerrors.Errorf("unable to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, xerrors.Errorf("unable to load environment overrides: %w", err)
	}

	var cfg NodeConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, xerrors.Errorf("unable to unmarshal config: %w", err)
	}
	return &cfg, nil
}
