package identity

import (
	"github.com/wengyanqing/cdbnode/pkg/errors/coded"
	"github.com/wengyanqing/cdbnode/pkg/errors/codes"
)

// NodeRole is the fixed category of a cluster member process. It is resolved
// exactly once at process start and never changes afterwards.
type NodeRole int

const (
	RoleInvalid NodeRole = iota
	RoleInitDB
	RoleMaster
	RoleStandby
	RoleSegment
	RoleGTM
	RoleCatalogService
	RoleStandalone
)

var roleNames = map[NodeRole]string{
	RoleInvalid:        "invalid",
	RoleInitDB:         "initdb",
	RoleMaster:         "master",
	RoleStandby:        "standby",
	RoleSegment:        "segment",
	RoleGTM:            "gtm",
	RoleCatalogService: "catalogservice",
	RoleStandalone:     "standalone",
}

func (r NodeRole) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "invalid"
}

// roleVocabulary is the set of role names accepted from configuration.
// InitDB is reachable only through bootstrap mode; neither it nor
// Standalone is spellable from configuration.
var roleVocabulary = map[string]NodeRole{
	"segment":        RoleSegment,
	"master":         RoleMaster,
	"standby":        RoleStandby,
	"gtm":            RoleGTM,
	"catalogservice": RoleCatalogService,
}

// ParseNodeRole matches name against the role vocabulary. Matching is
// case-sensitive. The zero result on error is RoleInvalid.
func ParseNodeRole(name string) (NodeRole, error) {
	role, ok := roleVocabulary[name]
	if !ok {
		return RoleInvalid, coded.Errorf(codes.InvalidNodeRole, "unknown node role %q", name)
	}
	return role, nil
}
