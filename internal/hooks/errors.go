package hooks

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateHook indicates a hook name was registered twice in one pipeline
	ErrDuplicateHook = errors.New("duplicate hook")
	// ErrInvalidHook indicates a hook with an empty name or nil function
	ErrInvalidHook = errors.New("invalid hook")
	// ErrExternalsDiscarded indicates a hook dropped or reordered externals added before it ran
	ErrExternalsDiscarded = errors.New("hook discarded existing externals")
	// ErrHookPanicked indicates a hook panicked instead of returning an error
	ErrHookPanicked = errors.New("hook panicked")
)

// HookExecutionError reports the hook that aborted a pipeline run and where
// in the run it sat.
type HookExecutionError struct {
	Hook     string
	Position int // zero-based index in execution order
	Priority int
	Err      error
}

func (e *HookExecutionError) Error() string {
	return fmt.Sprintf("hook %q (position %d, priority %d) failed: %v", e.Hook, e.Position, e.Priority, e.Err)
}

func (e *HookExecutionError) Unwrap() error {
	return e.Err
}
