package reposync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// StashMessage labels the stash a sync creates for in-flight local edits.
const StashMessage = "dump-auto-stash"

// Report describes what one Sync or Pull call did.
type Report struct {
	HasLocalChanges  bool   `json:"hasLocalChanges"`
	HasRemoteChanges bool   `json:"hasRemoteChanges"`
	Stashed          bool   `json:"stashed"`
	Unstashed        bool   `json:"unstashed"`
	Merged           bool   `json:"merged"`
	Committed        bool   `json:"committed"`
	CommitMessage    string `json:"commitMessage,omitempty"`
	Pushed           bool   `json:"pushed"`
}

// UpToDate reports whether the call found nothing to do.
func (r Report) UpToDate() bool {
	return !r.HasLocalChanges && !r.HasRemoteChanges && !r.Pushed
}

type Engine struct {
	Backend Backend
	Now     func() time.Time
	Logger  *slog.Logger
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.Now = now
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.Logger = log
		}
	}
}

func New(b Backend, opts ...Option) *Engine {
	e := &Engine{
		Backend: b,
		Now:     time.Now,
		Logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CommitMessage is the message Sync commits local changes with.
func CommitMessage(t time.Time) string {
	return "Log: " + t.Format("2006-01-02")
}

// Sync runs the full protocol: stash local edits, bring in remote changes,
// restore the edits, commit them and push. A second Sync with nothing new
// neither commits nor pushes.
func (e *Engine) Sync(ctx context.Context) (Report, error) {
	var rep Report
	if err := e.preflight(ctx); err != nil {
		return rep, err
	}
	b := e.Backend

	local, err := b.HasLocalChanges(ctx)
	if err != nil {
		return rep, &StepError{Step: StepDetect, Err: err}
	}
	rep.HasLocalChanges = local
	e.Logger.Debug("sync", "step", StepDetect, "local", local)

	if local {
		stashed, err := b.StashPush(ctx, StashMessage)
		if err != nil {
			return rep, &StepError{Step: StepStash, Err: err}
		}
		rep.Stashed = stashed
		e.Logger.Debug("sync", "step", StepStash, "stashed", stashed)
	}

	remote, err := e.fetch(ctx)
	if err != nil {
		return rep, e.restore(ctx, &rep, err)
	}
	rep.HasRemoteChanges = remote

	if remote {
		if err := b.Merge(ctx); err != nil {
			if e.mergeStopped(ctx) {
				// The tree is half-merged; popping onto it could lose edits.
				return rep, &ConflictError{Step: StepMerge, Stashed: rep.Stashed, Err: err}
			}
			return rep, e.restore(ctx, &rep, &StepError{Step: StepMerge, Err: err})
		}
		rep.Merged = true
		e.Logger.Debug("sync", "step", StepMerge)
	}

	if rep.Stashed {
		if err := b.StashPop(ctx); err != nil {
			return rep, &ConflictError{Step: StepUnstash, Stashed: true, Err: err}
		}
		rep.Unstashed = true
		e.Logger.Debug("sync", "step", StepUnstash)
	}

	if local {
		msg := CommitMessage(e.Now())
		committed, err := b.Commit(ctx, msg)
		if err != nil {
			return rep, &StepError{Step: StepCommit, Err: err}
		}
		rep.Committed = committed
		if committed {
			rep.CommitMessage = msg
		}
		e.Logger.Debug("sync", "step", StepCommit, "committed", committed)
	}

	// Pushing is decided by the branch state rather than by this run's
	// commit, so a push that failed last time is retried.
	ahead, err := b.NeedsPush(ctx)
	if err != nil {
		return rep, &StepError{Step: StepPush, Err: err}
	}
	if ahead {
		if err := b.Push(ctx); err != nil {
			return rep, &StepError{Step: StepPush, Err: err}
		}
		rep.Pushed = true
		e.Logger.Debug("sync", "step", StepPush)
	}
	return rep, nil
}

// Pull brings in remote changes without committing anything. It refuses to
// run over uncommitted local changes.
func (e *Engine) Pull(ctx context.Context) (Report, error) {
	var rep Report
	if err := e.preflight(ctx); err != nil {
		return rep, err
	}
	b := e.Backend

	local, err := b.HasLocalChanges(ctx)
	if err != nil {
		return rep, &StepError{Step: StepDetect, Err: err}
	}
	if local {
		rep.HasLocalChanges = true
		return rep, ErrLocalChanges
	}

	remote, err := e.fetch(ctx)
	if err != nil {
		return rep, err
	}
	rep.HasRemoteChanges = remote
	if !remote {
		return rep, nil
	}
	if err := b.Merge(ctx); err != nil {
		if e.mergeStopped(ctx) {
			return rep, &ConflictError{Step: StepMerge, Err: err}
		}
		return rep, &StepError{Step: StepMerge, Err: err}
	}
	rep.Merged = true
	return rep, nil
}

// AutoPull is the pull that precedes everyday commands. It never fails: a
// journal without a repository or remote is skipped silently and every other
// problem is handed to warn.
func (e *Engine) AutoPull(ctx context.Context, warn func(string)) Report {
	if warn == nil {
		warn = func(string) {}
	}
	rep, err := e.Pull(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotRepo), errors.Is(err, ErrNoRemote):
		e.Logger.Debug("autosync skipped", "reason", err)
	case errors.Is(err, ErrLocalChanges):
		warn("You have uncommitted local changes. Run `dump sync` to synchronise.")
	default:
		warn(fmt.Sprintf("could not pull remote changes: %v", err))
	}
	return rep
}

func (e *Engine) preflight(ctx context.Context) error {
	b := e.Backend
	if b == nil {
		return errors.New("reposync: nil backend")
	}
	ok, err := b.IsRepo(ctx)
	if err != nil {
		return &StepError{Step: StepPreflight, Err: err}
	}
	if !ok {
		return ErrNotRepo
	}
	ok, err = b.HasRemote(ctx)
	if err != nil {
		return &StepError{Step: StepPreflight, Err: err}
	}
	if !ok {
		return ErrNoRemote
	}
	op, err := b.InProgress(ctx)
	if err != nil {
		return &StepError{Step: StepPreflight, Err: err}
	}
	if op != "" {
		return &ConflictError{Step: StepMerge, Err: fmt.Errorf("a %s is in progress; finish or abort it first", op)}
	}
	return nil
}

func (e *Engine) fetch(ctx context.Context) (bool, error) {
	if err := e.Backend.Fetch(ctx); err != nil {
		return false, &StepError{Step: StepFetch, Err: err}
	}
	remote, err := e.Backend.HasRemoteChanges(ctx)
	if err != nil {
		return false, &StepError{Step: StepFetch, Err: err}
	}
	e.Logger.Debug("sync", "step", StepFetch, "remote", remote)
	return remote, nil
}

// mergeStopped reports whether a failed merge left an operation for the user
// to finish. When the state cannot be read it assumes one did.
func (e *Engine) mergeStopped(ctx context.Context) bool {
	op, err := e.Backend.InProgress(ctx)
	if err != nil {
		e.Logger.Debug("sync", "step", StepMerge, "inProgressErr", err)
		return true
	}
	return op != ""
}

// restore puts stashed edits back after a failure that left no merge
// behind, so an offline sync leaves the tree as it found it.
func (e *Engine) restore(ctx context.Context, rep *Report, cause error) error {
	if !rep.Stashed {
		return cause
	}
	if err := e.Backend.StashPop(ctx); err != nil {
		return &ConflictError{Step: StepUnstash, Stashed: true, Err: errors.Join(cause, err)}
	}
	rep.Unstashed = true
	return cause
}
