package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/wengyanqing/cdbnode/cmd/cdbnode/run"
	spawncmd "github.com/wengyanqing/cdbnode/cmd/cdbnode/spawn"
	"github.com/wengyanqing/cdbnode/cmd/cdbnode/worker"
	"github.com/wengyanqing/cdbnode/internal/logger"
	"github.com/wengyanqing/cdbnode/internal/metrics"
	"github.com/wengyanqing/cdbnode/pkg/cobraaux"
	"github.com/wengyanqing/cdbnode/pkg/serverutil"
	zp "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.ytsaurus.tech/library/go/core/log"
	"go.ytsaurus.tech/library/go/core/log/zap"
	"go.ytsaurus.tech/library/go/core/xerrors"
)

var (
	defaultLogLevel  = "info"
	defaultLogConfig = "console"
)

func main() {
	loggerConfig := newLoggerConfig()
	logger.Log = zap.Must(loggerConfig)

	logLevel := defaultLogLevel
	logConfig := defaultLogConfig
	hcPort := 0
	metricsPort := 0
	runProfiler := false

	promRegistry := metrics.NewPrometheusRegistry()

	rootCommand := &cobra.Command{
		Use:          "cdbnode",
		Short:        "Cluster node identity and worker spawn tooling",
		Example:      "./cdbnode help",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch strings.ToLower(logConfig) {
			case "console":
			case "json":
				loggerConfig = zp.NewProductionConfig()
			case "minimal":
				loggerConfig.EncoderConfig = zapcore.EncoderConfig{
					MessageKey:  "message",
					LevelKey:    "level",
					LineEnding:  zapcore.DefaultLineEnding,
					EncodeLevel: zapcore.CapitalColorLevelEncoder,
				}
			default:
				return xerrors.Errorf("unsupported value %q for --log-config", logConfig)
			}
			switch strings.ToLower(logLevel) {
			case "panic":
				loggerConfig.Level.SetLevel(zapcore.PanicLevel)
			case "fatal":
				loggerConfig.Level.SetLevel(zapcore.FatalLevel)
			case "error":
				loggerConfig.Level.SetLevel(zapcore.ErrorLevel)
			case "warning":
				loggerConfig.Level.SetLevel(zapcore.WarnLevel)
			case "info":
				loggerConfig.Level.SetLevel(zapcore.InfoLevel)
			case "debug":
				loggerConfig.Level.SetLevel(zapcore.DebugLevel)
			default:
				return xerrors.Errorf("unsupported value %q for --log-level", logLevel)
			}
			logger.Log = zap.Must(loggerConfig)

			if runProfiler {
				go serverutil.RunPprof()
			}
			go func() {
				rootMux := http.NewServeMux()
				rootMux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
				logger.Log.Infof("Prometheus is uprising on port %v", metricsPort)
				if err := http.ListenAndServe(fmt.Sprintf(":%d", metricsPort), rootMux); err != nil {
					logger.Log.Error("failed to serve metrics", log.Error(err))
				}
			}()
			go serverutil.RunHealthCheckOnPort(hcPort)
			return nil
		},
	}

	cobraaux.RegisterCommand(rootCommand, run.RunCommand())
	cobraaux.RegisterCommand(rootCommand, worker.WorkerCommand())
	cobraaux.RegisterCommand(rootCommand, spawncmd.SpawnCommand(promRegistry))

	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "Logging level (\"panic\", \"fatal\", \"error\", \"warning\", \"info\", \"debug\")")
	rootCommand.PersistentFlags().StringVar(&logConfig, "log-config", defaultLogConfig, "Logging config (\"console\", \"json\", \"minimal\")")
	rootCommand.PersistentFlags().BoolVar(&runProfiler, "run-profiler", false, "Run go pprof for performance profiles on 8080 port")
	rootCommand.PersistentFlags().IntVar(&hcPort, "health-check-port", 3000, "Port used for the health-check API")
	rootCommand.PersistentFlags().IntVar(&metricsPort, "metrics-port", 9091, "Port used for Prometheus metrics")

	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLoggerConfig() zp.Config {
	cfg := logger.DefaultLoggerConfig(zapcore.InfoLevel)
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg
}
