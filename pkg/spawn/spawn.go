package spawn

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/wengyanqing/cdbnode/pkg/errors/coded"
	"github.com/wengyanqing/cdbnode/pkg/errors/codes"
	"github.com/wengyanqing/cdbnode/pkg/identity"
	"go.uber.org/atomic"
	"go.ytsaurus.tech/library/go/core/log"
	"golang.org/x/sync/errgroup"
)

// IdentityEnvVar carries the encoded execution identity from the spawning
// process to a worker child. The token string is the only artifact the two
// processes share; delivery is the environment of the exec'ed child.
const IdentityEnvVar = "CDB_PROCESS_IDENTITY"

// GangSpec describes one gang to launch for a plan slice.
type GangSpec struct {
	SliceID     int
	GangSize    int
	WriterIndex int // member designated for the write part of the slice
}

// Spawner launches worker gangs, handing each child its encoded execution
// identity. The command counter is monotonic across gangs so a reused worker
// slot can be told apart between commands.
type Spawner struct {
	logger      log.Logger
	binary      string
	args        []string
	maxRestarts uint64
	commands    atomic.Int64
	metrics     *spawnMetrics
}

type SpawnerOption func(*Spawner)

// WithArgs sets extra arguments passed to every worker invocation.
func WithArgs(args ...string) SpawnerOption {
	return func(s *Spawner) {
		s.args = args
	}
}

// WithMaxRestarts bounds how many times a crashed worker is relaunched
// before the gang is failed.
func WithMaxRestarts(n uint64) SpawnerOption {
	return func(s *Spawner) {
		s.maxRestarts = n
	}
}

func NewSpawner(lgr log.Logger, binary string, registry prometheus.Registerer, opts ...SpawnerOption) *Spawner {
	s := &Spawner{
		logger:  lgr,
		binary:  binary,
		metrics: newSpawnMetrics(registry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildGang assigns an execution identity to every member of the gang. The
// writer flag is set on exactly one member.
func (s *Spawner) BuildGang(spec GangSpec) ([]identity.ExecutionIdentity, error) {
	if spec.GangSize <= 0 {
		return nil, coded.Errorf(codes.WorkerSpawnFailed, "gang size must be positive, got %d", spec.GangSize)
	}
	if spec.WriterIndex < 0 || spec.WriterIndex >= spec.GangSize {
		return nil, coded.Errorf(codes.WorkerSpawnFailed, "writer index %d out of range for gang of %d", spec.WriterIndex, spec.GangSize)
	}

	commandCount := int(s.commands.Inc())
	gang := make([]identity.ExecutionIdentity, spec.GangSize)
	for i := range gang {
		gang[i] = identity.ExecutionIdentity{
			Initialized:  true,
			SliceID:      spec.SliceID,
			SliceIndex:   i,
			GangSize:     spec.GangSize,
			CommandCount: commandCount,
			Writer:       i == spec.WriterIndex,
		}
	}
	return gang, nil
}

// SpawnGang launches one worker process per gang member and waits for all of
// them. A crashed worker is relaunched with exponential backoff up to the
// restart bound; the first member that exhausts its restarts fails the gang
// and cancels the rest.
func (s *Spawner) SpawnGang(ctx context.Context, spec GangSpec) error {
	gang, err := s.BuildGang(spec)
	if err != nil {
		return err
	}

	session := uuid.New().String()
	s.logger.Info("spawning gang",
		log.String("session", session),
		log.Int("slice", spec.SliceID),
		log.Int("gang_size", spec.GangSize))

	group, ctx := errgroup.WithContext(ctx)
	for _, member := range gang {
		token, ok := identity.EncodeProcessIdentity(member)
		if !ok {
			return coded.Errorf(codes.WorkerSpawnFailed, "refusing to spawn worker without an assigned identity")
		}
		member := member
		group.Go(func() error {
			return s.runWorker(ctx, session, member, token)
		})
	}
	return group.Wait()
}

func (s *Spawner) runWorker(ctx context.Context, session string, member identity.ExecutionIdentity, token string) error {
	launch := func() error {
		s.metrics.launched.Inc()
		cmd := exec.CommandContext(ctx, s.binary, s.args...)
		cmd.Env = append(os.Environ(), IdentityEnvVar+"="+token)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return coded.Errorf(codes.WorkerSpawnFailed, "worker %s: %w", member.Label(), err)
		}
		return nil
	}

	notify := func(err error, delay time.Duration) {
		s.metrics.restarts.Inc()
		s.logger.Warn("worker crashed, relaunching",
			log.String("session", session),
			log.String("worker", member.Label()),
			log.Duration("delay", delay),
			log.Error(err))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRestarts), ctx)
	if err := backoff.RetryNotify(launch, policy, notify); err != nil {
		s.metrics.failures.Inc()
		return err
	}
	return nil
}

type spawnMetrics struct {
	launched prometheus.Counter
	restarts prometheus.Counter
	failures prometheus.Counter
}

func newSpawnMetrics(registry prometheus.Registerer) *spawnMetrics {
	factory := promauto.With(registry)
	return &spawnMetrics{
		launched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cdbnode",
			Subsystem: "spawn",
			Name:      "workers_launched_total",
			Help:      "Worker processes launched, including relaunches.",
		}),
		restarts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cdbnode",
			Subsystem: "spawn",
			Name:      "worker_restarts_total",
			Help:      "Worker relaunches after a crash.",
		}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cdbnode",
			Subsystem: "spawn",
			Name:      "worker_failures_total",
			Help:      "Workers that exhausted their restart budget.",
		}),
	}
}
