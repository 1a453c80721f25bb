package reposync

import (
	"errors"
	"fmt"
)

var (
	ErrNotRepo      = errors.New("journal directory is not a git repository (set one up with `dump sync --remote <url>`)")
	ErrNoRemote     = errors.New("no git remote configured (add one with `dump sync --remote <url>`)")
	ErrLocalChanges = errors.New("uncommitted local changes (run `dump sync` to synchronise)")
)

// Step names a stage of the sync protocol.
type Step string

const (
	StepPreflight Step = "preflight"
	StepDetect    Step = "detect"
	StepStash     Step = "stash"
	StepFetch     Step = "fetch"
	StepMerge     Step = "merge"
	StepUnstash   Step = "unstash"
	StepCommit    Step = "commit"
	StepPush      Step = "push"
)

// StepError is a failed step that left the repository consistent: retrying
// the operation is safe.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sync %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ConflictError is a failed merge or unstash that needs the user. Local work
// is never discarded: when Stashed is set it is still in `git stash list`.
type ConflictError struct {
	Step    Step
	Stashed bool
	Err     error
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("sync conflict during %s: %v", e.Step, e.Err)
	if e.Stashed {
		msg += "\nyour local changes are kept in the stash; resolve the conflict, then run `git stash pop`"
	}
	return msg
}

func (e *ConflictError) Unwrap() error { return e.Err }

// IsConflict reports whether err is (or wraps) a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
