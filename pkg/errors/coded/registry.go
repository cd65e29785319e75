package coded

import (
	"fmt"
	"strings"

	"github.com/wengyanqing/cdbnode/pkg/util/set"
	"go.ytsaurus.tech/library/go/core/xerrors"
)

// Code is a stable machine-readable error code. Codes are registered once at
// init time; registering a duplicate panics at start rather than shipping an
// ambiguous code.
type Code string

func (c Code) ID() string {
	return string(c)
}

// Contains reports whether err carries c anywhere in its chain.
func (c Code) Contains(err error) bool {
	var codedErr CodedError
	unwrapped := err
	for xerrors.As(unwrapped, &codedErr) {
		if codedErr.Code() == c {
			return true
		}
		unwrapped = xerrors.Unwrap(codedErr)
	}
	return false
}

type CodedError interface {
	error
	Code() Code
}

var knownCodes = set.New[Code]()

func Register(parts ...string) Code {
	code := Code(strings.Join(parts, "."))
	if knownCodes.Contains(code) {
		panic(fmt.Sprintf("code: %s already registered", code))
	}
	knownCodes.Add(code)
	return code
}

func All() []Code {
	return knownCodes.SortedSliceFunc(func(a, b Code) bool {
		return a < b
	})
}

type codedErr struct {
	code Code
	err  error
}

func (c *codedErr) Error() string {
	return c.err.Error()
}

func (c *codedErr) Code() Code {
	return c.code
}

func (c *codedErr) Unwrap() error {
	return c.err
}

// Errorf builds a coded error; format and args follow xerrors.Errorf.
func Errorf(code Code, format string, args ...interface{}) error {
	return &codedErr{code: code, err: xerrors.Errorf(format, args...)}
}
