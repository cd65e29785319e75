package identity

import (
	"strconv"
	"strings"
)

// Wire format of an encoded execution identity:
//
//	ProcessIdentity_Begin_slice_<int>_idx_<int>_gang_<int>_cmd_<int>_writer_<t|f>_End_ProcessIdentity
//
// Every field is closed by an underscore and the stream by a distinct end
// marker, so truncation and concatenation are detectable instead of being
// misparsed. The layout is parsed by components outside this module and must
// be reproduced byte for byte.
const (
	identityBegin = "ProcessIdentity_Begin_"
	identityEnd   = "End_ProcessIdentity"

	tokenSlice   = "slice_"
	tokenIndex   = "idx_"
	tokenGang    = "gang_"
	tokenCommand = "cmd_"
	tokenWriter  = "writer_"
)

// EncodeProcessIdentity serializes id into its wire form. An identity that
// was never assigned has no wire form: ok is false and callers must not hand
// anything to a child process.
func EncodeProcessIdentity(id ExecutionIdentity) (token string, ok bool) {
	if !id.Initialized {
		return "", false
	}

	var b strings.Builder
	b.WriteString(identityBegin)
	writeIntField(&b, tokenSlice, id.SliceID)
	writeIntField(&b, tokenIndex, id.SliceIndex)
	writeIntField(&b, tokenGang, id.GangSize)
	writeIntField(&b, tokenCommand, id.CommandCount)
	b.WriteString(tokenWriter)
	if id.Writer {
		b.WriteByte('t')
	} else {
		b.WriteByte('f')
	}
	b.WriteByte('_')
	b.WriteString(identityEnd)
	return b.String(), true
}

func writeIntField(b *strings.Builder, label string, value int) {
	b.WriteString(label)
	b.WriteString(strconv.Itoa(value))
	b.WriteByte('_')
}

// DecodeProcessIdentity parses token strictly left to right: begin marker,
// each field label literally, then its value, then the end marker. Any
// mismatch fails the whole decode; nothing is committed and the returned
// record is zero. Bytes after the end marker are not inspected — historical
// behavior, kept for wire compatibility.
func DecodeProcessIdentity(token string) (ExecutionIdentity, bool) {
	r := tokenReader{s: token}
	var id ExecutionIdentity
	var ok bool

	if !r.literal(identityBegin) {
		return ExecutionIdentity{}, false
	}
	if !r.literal(tokenSlice) {
		return ExecutionIdentity{}, false
	}
	if id.SliceID, ok = r.intField(); !ok {
		return ExecutionIdentity{}, false
	}
	if !r.literal(tokenIndex) {
		return ExecutionIdentity{}, false
	}
	if id.SliceIndex, ok = r.intField(); !ok {
		return ExecutionIdentity{}, false
	}
	if !r.literal(tokenGang) {
		return ExecutionIdentity{}, false
	}
	if id.GangSize, ok = r.intField(); !ok {
		return ExecutionIdentity{}, false
	}
	if !r.literal(tokenCommand) {
		return ExecutionIdentity{}, false
	}
	if id.CommandCount, ok = r.intField(); !ok {
		return ExecutionIdentity{}, false
	}
	if !r.literal(tokenWriter) {
		return ExecutionIdentity{}, false
	}
	if id.Writer, ok = r.boolField(); !ok {
		return ExecutionIdentity{}, false
	}
	if !r.literal(identityEnd) {
		return ExecutionIdentity{}, false
	}

	id.Initialized = true
	return id, true
}

// tokenReader is a cursor over the token string. Each method consumes input
// only on success, so a failed match pins the cursor at the offending byte.
type tokenReader struct {
	s   string
	pos int
}

func (r *tokenReader) literal(tok string) bool {
	if !strings.HasPrefix(r.s[r.pos:], tok) {
		return false
	}
	r.pos += len(tok)
	return true
}

// intField consumes a base-10 digit run (at least one digit) and its
// terminating underscore.
func (r *tokenReader) intField() (int, bool) {
	start := r.pos
	for r.pos < len(r.s) && r.s[r.pos] >= '0' && r.s[r.pos] <= '9' {
		r.pos++
	}
	if r.pos == start {
		return 0, false
	}
	value, err := strconv.Atoi(r.s[start:r.pos])
	if err != nil {
		return 0, false
	}
	if !r.literal("_") {
		return 0, false
	}
	return value, true
}

// boolField consumes exactly 't' or 'f' and the terminating underscore.
func (r *tokenReader) boolField() (bool, bool) {
	if r.pos >= len(r.s) {
		return false, false
	}
	var value bool
	switch r.s[r.pos] {
	case 't':
		value = true
	case 'f':
		value = false
	default:
		return false, false
	}
	r.pos++
	if !r.literal("_") {
		return false, false
	}
	return value, true
}
