package cli

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/weave/internal/manifest"
	"github.com/mesh-intelligence/weave/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// ExitError carries the process exit code out of a command. Execute turns
// it into os.Exit.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// userErrors are failures caused by the manifest or the request rather
// than by the environment.
var userErrors = []error{
	types.ErrDefinition,
	types.ErrComposition,
	types.ErrNotFound,
	types.ErrUnknownMember,
	types.ErrNotAccessible,
	types.ErrNotMethod,
	manifest.ErrUnknownFormat,
	manifest.ErrIncompatible,
	manifest.ErrDuplicateName,
	manifest.ErrUnknownName,
	manifest.ErrInvalidMember,
}

// classify wraps err with the exit code its cause calls for.
func classify(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return &ExitError{Code: exitUserError, Err: err}
		}
	}
	return &ExitError{Code: exitSysError, Err: err}
}
