package identity

import "fmt"

// ExecutionIdentity tags a worker process spawned to execute one slice of a
// distributed plan. It carries enough to disambiguate concurrently running
// workers of the same command in logs and process listings.
//
// The record is either fully assigned (Initialized) or unset; it is never
// partially valid. A worker receives it from its parent as an encoded token,
// see codec.go.
type ExecutionIdentity struct {
	Initialized  bool
	SliceID      int
	SliceIndex   int // rank among peers executing the same slice
	GangSize     int
	CommandCount int // sequence number of the command, monotonic across worker reuse
	Writer       bool
}

// Label renders the short form used for process titles and log prefixes,
// e.g. "slice2:0/4 cmd7 writer". Empty when the identity is unset.
func (e ExecutionIdentity) Label() string {
	if !e.Initialized {
		return ""
	}
	label := fmt.Sprintf("slice%d:%d/%d cmd%d", e.SliceID, e.SliceIndex, e.GangSize, e.CommandCount)
	if e.Writer {
		label += " writer"
	}
	return label
}
