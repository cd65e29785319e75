package identity

import (
	"fmt"
	"os"

	"go.ytsaurus.tech/library/go/core/log"
)

// NodeIdentity is the process-scoped identity context: the resolved cluster
// role, its derived capabilities, and the execution identity of a spawned
// worker. One instance is created at process start and threaded to whatever
// needs role or identity queries; nothing here is safe for concurrent
// mutation and nothing needs to be — role is set once during startup and the
// execution identity once during worker bootstrap.
type NodeIdentity struct {
	logger    log.Logger
	bootstrap func() bool
	hostname  string

	role NodeRole
	name string
	caps Capabilities

	masterHost string
	masterPort int
	masterSet  bool

	exec ExecutionIdentity
}

type Option func(*NodeIdentity)

// WithBootstrapCheck installs the collaborator-provided bootstrap-mode
// detector. When it reports true, SetRole forces RoleInitDB regardless of
// the requested name.
func WithBootstrapCheck(check func() bool) Option {
	return func(n *NodeIdentity) {
		n.bootstrap = check
	}
}

// WithHostname overrides the hostname used in the display name.
func WithHostname(hostname string) Option {
	return func(n *NodeIdentity) {
		n.hostname = hostname
	}
}

func NewNodeIdentity(lgr log.Logger, opts ...Option) *NodeIdentity {
	n := &NodeIdentity{
		logger:    lgr,
		bootstrap: func() bool { return false },
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.hostname == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "localhost"
		}
		n.hostname = hostname
	}
	return n
}

// SetRole resolves and pins the node role. It runs once, before any query
// work begins. An unrecognized role name is a configuration error the
// process cannot operate without: SetRole terminates the process through the
// logger's fatal path instead of returning an error, because no other
// component can function with an unresolved role.
//
// Resolving the role recomputes the capability set, rebuilds the display
// name and resets the execution identity to unset.
func (n *NodeIdentity) SetRole(requested string) {
	role := RoleInitDB
	if !n.bootstrap() {
		var err error
		role, err = ParseNodeRole(requested)
		if err != nil {
			n.logger.Fatal("cannot resolve node role", log.String("role", requested), log.Error(err))
			return // unreachable with a fatal logger; keeps role Invalid otherwise
		}
	}

	n.role = role
	n.caps = DeriveCapabilities(role)
	n.name = fmt.Sprintf("%s@%s", role, n.hostname)
	n.exec = ExecutionIdentity{}

	n.logger.Info("node role resolved",
		log.String("role", role.String()),
		log.String("name", n.name),
		log.Bool("login_as_default", n.caps.LoginAsDefault),
		log.Bool("motion", n.caps.Motion),
		log.Bool("log_sync", n.caps.LogSync))
}

func (n *NodeIdentity) Role() NodeRole             { return n.role }
func (n *NodeIdentity) Name() string               { return n.name }
func (n *NodeIdentity) Capabilities() Capabilities { return n.caps }

func (n *NodeIdentity) IsMaster() bool         { return n.role == RoleMaster }
func (n *NodeIdentity) IsStandby() bool        { return n.role == RoleStandby }
func (n *NodeIdentity) IsSegment() bool        { return n.role == RoleSegment }
func (n *NodeIdentity) IsGTM() bool            { return n.role == RoleGTM }
func (n *NodeIdentity) IsCatalogService() bool { return n.role == RoleCatalogService }

// SetMasterAddress caches the coordinator's location. Populated lazily by
// collaborators that learn it; not part of the identity protocol itself.
func (n *NodeIdentity) SetMasterAddress(host string, port int) {
	n.masterHost = host
	n.masterPort = port
	n.masterSet = true
}

func (n *NodeIdentity) MasterAddress() (host string, port int, ok bool) {
	return n.masterHost, n.masterPort, n.masterSet
}

// AssignProcessIdentity decodes token and, on success, installs the result
// as the live execution identity. A failed decode leaves the live identity
// exactly as it was; whether that is fatal is the caller's policy.
func (n *NodeIdentity) AssignProcessIdentity(token string) bool {
	id, ok := DecodeProcessIdentity(token)
	if !ok {
		n.logger.Warn("malformed process identity token", log.String("token", token))
		return false
	}
	n.exec = id
	n.logger.Info("process identity assigned", log.String("label", id.Label()))
	return true
}

// ProcessIdentity returns the live execution identity; Initialized is false
// unless a decode has succeeded since the role was last set.
func (n *NodeIdentity) ProcessIdentity() ExecutionIdentity { return n.exec }

// ProcessIdentityLabel is the display form for process listings and log
// prefixes; empty while no identity is assigned.
func (n *NodeIdentity) ProcessIdentityLabel() string { return n.exec.Label() }
