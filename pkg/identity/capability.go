package identity

// Capabilities is the permission set a node derives from its role. It is a
// pure function of the role and is recomputed on every role change, never
// cached on its own.
type Capabilities struct {
	// LoginAsDefault permits default client logins on this node.
	LoginAsDefault bool
	// Motion permits participation in inter-node data motion.
	Motion bool
	// LogSync permits replaying the primary's log stream.
	LogSync bool
}

// DeriveCapabilities maps a role to its capability set. Every role SetRole
// can assign must have an explicit case here; anything else falls through to
// the all-false default.
func DeriveCapabilities(role NodeRole) Capabilities {
	switch role {
	case RoleMaster:
		return Capabilities{Motion: true}
	case RoleStandby:
		return Capabilities{LogSync: true}
	case RoleSegment:
		return Capabilities{LoginAsDefault: true, Motion: true}
	default:
		// InitDB, GTM, CatalogService, Standalone, Invalid.
		return Capabilities{}
	}
}
