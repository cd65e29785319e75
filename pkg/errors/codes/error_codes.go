package codes

import "github.com/wengyanqing/cdbnode/pkg/errors/coded"

var (
	// identity
	InvalidNodeRole          = coded.Register("identity", "invalid_node_role")
	MalformedProcessIdentity = coded.Register("identity", "malformed_process_identity")

	// spawn
	WorkerSpawnFailed = coded.Register("spawn", "worker_spawn_failed")

	// other
	Unspecified = coded.Register("unspecified")
)
