package reposync

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeRepo models just enough repository state for the protocol: a dirty
// working tree, commits not yet on the remote, remote commits not yet merged
// and a stash stack.
type fakeRepo struct {
	notRepo    bool
	noRemote   bool
	inProgress string

	dirty    bool
	ahead    int
	behind   int // visible only after fetch
	upstream int // remote commits not yet fetched
	stash    []string

	failFetch bool
	failMerge bool // conflict: leaves a rebase in progress
	mergeErr  error
	failPop   bool
	failPush  bool

	calls   []string
	commits []string
}

func (f *fakeRepo) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeRepo) IsRepo(context.Context) (bool, error) { return !f.notRepo, nil }
func (f *fakeRepo) HasRemote(context.Context) (bool, error) { return !f.noRemote, nil }
func (f *fakeRepo) InProgress(context.Context) (string, error) { return f.inProgress, nil }
func (f *fakeRepo) HasLocalChanges(context.Context) (bool, error) { return f.dirty, nil }

func (f *fakeRepo) StashPush(_ context.Context, msg string) (bool, error) {
	f.record("stash")
	if !f.dirty {
		return false, nil
	}
	f.stash = append(f.stash, msg)
	f.dirty = false
	return true, nil
}

func (f *fakeRepo) StashPop(context.Context) error {
	f.record("pop")
	if f.failPop {
		return errors.New("CONFLICT (content): Merge conflict in 2026012201.md")
	}
	if len(f.stash) == 0 {
		return errors.New("No stash entries found.")
	}
	f.stash = f.stash[:len(f.stash)-1]
	f.dirty = true
	return nil
}

func (f *fakeRepo) Fetch(context.Context) error {
	f.record("fetch")
	if f.failFetch {
		return errors.New("fatal: unable to access remote: Could not resolve host")
	}
	f.behind += f.upstream
	f.upstream = 0
	return nil
}

func (f *fakeRepo) HasRemoteChanges(context.Context) (bool, error) { return f.behind > 0, nil }

func (f *fakeRepo) Merge(context.Context) error {
	f.record("merge")
	if f.failMerge {
		f.inProgress = "rebase"
		return errors.New("CONFLICT (content): Merge conflict in 2026012201.md")
	}
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.behind = 0
	return nil
}

func (f *fakeRepo) Commit(_ context.Context, msg string) (bool, error) {
	f.record("commit")
	if !f.dirty {
		return false, nil
	}
	f.dirty = false
	f.ahead++
	f.commits = append(f.commits, msg)
	return true, nil
}

func (f *fakeRepo) NeedsPush(context.Context) (bool, error) { return f.ahead > 0, nil }

func (f *fakeRepo) Push(context.Context) error {
	f.record("push")
	if f.failPush {
		return errors.New("fatal: unable to access remote: Could not resolve host")
	}
	f.ahead = 0
	return nil
}

func fixedClock() time.Time { return time.Date(2026, 1, 22, 9, 30, 0, 0, time.UTC) }

func newEngine(f *fakeRepo) *Engine {
	return New(f, WithClock(fixedClock))
}

func TestSync_LocalAndRemoteChanges(t *testing.T) {
	f := &fakeRepo{dirty: true, upstream: 2}
	rep, err := newEngine(f).Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	want := "stash,fetch,merge,pop,commit,push"
	if got := strings.Join(f.calls, ","); got != want {
		t.Fatalf("calls = %s, want %s", got, want)
	}
	if !rep.HasLocalChanges || !rep.HasRemoteChanges || !rep.Stashed || !rep.Unstashed || !rep.Committed || !rep.Pushed {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.CommitMessage != "Log: 2026-01-22" {
		t.Fatalf("commit message = %q", rep.CommitMessage)
	}
	if len(f.stash) != 0 || f.dirty || f.ahead != 0 || f.behind != 0 {
		t.Fatalf("repo not settled: %+v", f)
	}
}

func TestSync_IsIdempotent(t *testing.T) {
	f := &fakeRepo{dirty: true}
	e := newEngine(f)
	if _, err := e.Sync(context.Background()); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	f.calls = nil

	rep, err := e.Sync(context.Background())
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if rep.Committed || rep.Pushed || rep.Stashed {
		t.Fatalf("second sync did work: %+v", rep)
	}
	if !rep.UpToDate() {
		t.Fatalf("expected up-to-date report: %+v", rep)
	}
	if got := strings.Join(f.calls, ","); got != "fetch" {
		t.Fatalf("calls = %s, want fetch only", got)
	}
	if len(f.commits) != 1 {
		t.Fatalf("commits = %v", f.commits)
	}
}

func TestSync_RemoteOnlySkipsStashAndCommit(t *testing.T) {
	f := &fakeRepo{upstream: 1}
	rep, err := newEngine(f).Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if got := strings.Join(f.calls, ","); got != "fetch,merge" {
		t.Fatalf("calls = %s", got)
	}
	if !rep.Merged || rep.Committed || rep.Pushed {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestSync_MergeConflictKeepsStash(t *testing.T) {
	f := &fakeRepo{dirty: true, upstream: 1, failMerge: true}
	_, err := newEngine(f).Sync(context.Background())

	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.Step != StepMerge || !ce.Stashed {
		t.Fatalf("unexpected conflict: %+v", ce)
	}
	if len(f.stash) != 1 {
		t.Fatalf("stash must be kept, got %v", f.stash)
	}
	for _, c := range f.calls {
		if c == "pop" || c == "commit" || c == "push" {
			t.Fatalf("ran %s after a failed merge: %v", c, f.calls)
		}
	}
	if !strings.Contains(err.Error(), "Merge conflict in 2026012201.md") {
		t.Fatalf("git message not carried: %v", err)
	}
}

func TestSync_MergeFailureWithoutConflictRestoresStash(t *testing.T) {
	f := &fakeRepo{dirty: true, upstream: 1, mergeErr: errors.New("fatal: could not read from remote repository")}
	e := newEngine(f)
	rep, err := e.Sync(context.Background())

	var se *StepError
	if !errors.As(err, &se) || se.Step != StepMerge {
		t.Fatalf("expected merge StepError, got %v", err)
	}
	if IsConflict(err) {
		t.Fatalf("nothing is in progress, got conflict: %v", err)
	}
	if !rep.Unstashed || len(f.stash) != 0 || !f.dirty {
		t.Fatalf("local changes not restored: rep=%+v repo=%+v", rep, f)
	}
	if got := strings.Join(f.calls, ","); got != "stash,fetch,merge,pop" {
		t.Fatalf("calls = %s", got)
	}

	// Retrying once the merge works commits the restored edits.
	f.mergeErr = nil
	rep, err = e.Sync(context.Background())
	if err != nil {
		t.Fatalf("retry Sync: %v", err)
	}
	if !rep.HasLocalChanges || !rep.Committed || !rep.Pushed || len(f.commits) != 1 {
		t.Fatalf("retry lost the local changes: rep=%+v commits=%v", rep, f.commits)
	}
}

func TestPull_MergeFailureWithoutConflict(t *testing.T) {
	f := &fakeRepo{upstream: 1, mergeErr: errors.New("fatal: needed a single revision")}
	_, err := newEngine(f).Pull(context.Background())

	var se *StepError
	if !errors.As(err, &se) || se.Step != StepMerge || IsConflict(err) {
		t.Fatalf("expected merge StepError, got %v", err)
	}
}

func TestSync_UnstashConflictKeepsStash(t *testing.T) {
	f := &fakeRepo{dirty: true, upstream: 1, failPop: true}
	_, err := newEngine(f).Sync(context.Background())

	var ce *ConflictError
	if !errors.As(err, &ce) || ce.Step != StepUnstash || !ce.Stashed {
		t.Fatalf("expected unstash ConflictError, got %v", err)
	}
	if len(f.stash) != 1 {
		t.Fatalf("stash must be kept, got %v", f.stash)
	}
	if len(f.commits) != 0 {
		t.Fatalf("committed after failed unstash: %v", f.commits)
	}
}

func TestSync_FetchFailureRestoresStash(t *testing.T) {
	f := &fakeRepo{dirty: true, failFetch: true}
	rep, err := newEngine(f).Sync(context.Background())

	var se *StepError
	if !errors.As(err, &se) || se.Step != StepFetch {
		t.Fatalf("expected fetch StepError, got %v", err)
	}
	if !rep.Unstashed || len(f.stash) != 0 || !f.dirty {
		t.Fatalf("local changes not restored: rep=%+v repo=%+v", rep, f)
	}
	if !strings.Contains(err.Error(), "Could not resolve host") {
		t.Fatalf("git message not carried: %v", err)
	}
}

func TestSync_PushFailureKeepsCommitAndRetries(t *testing.T) {
	f := &fakeRepo{dirty: true, failPush: true}
	e := newEngine(f)

	rep, err := e.Sync(context.Background())
	var se *StepError
	if !errors.As(err, &se) || se.Step != StepPush {
		t.Fatalf("expected push StepError, got %v", err)
	}
	if !rep.Committed || f.ahead != 1 {
		t.Fatalf("commit must be kept: rep=%+v ahead=%d", rep, f.ahead)
	}

	f.failPush = false
	f.calls = nil
	rep, err = e.Sync(context.Background())
	if err != nil {
		t.Fatalf("retry Sync: %v", err)
	}
	if rep.Committed || !rep.Pushed {
		t.Fatalf("retry should only push: %+v", rep)
	}
	if len(f.commits) != 1 {
		t.Fatalf("commits = %v", f.commits)
	}
}

func TestSync_Preflight(t *testing.T) {
	tests := []struct {
		name string
		repo *fakeRepo
		want error
	}{
		{"not a repo", &fakeRepo{notRepo: true}, ErrNotRepo},
		{"no remote", &fakeRepo{noRemote: true}, ErrNoRemote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEngine(tt.repo).Sync(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(tt.repo.calls) != 0 {
				t.Fatalf("ran steps: %v", tt.repo.calls)
			}
		})
	}

	f := &fakeRepo{inProgress: "rebase", dirty: true}
	_, err := newEngine(f).Sync(context.Background())
	if !IsConflict(err) {
		t.Fatalf("expected conflict for in-progress rebase, got %v", err)
	}
	if len(f.calls) != 0 {
		t.Fatalf("ran steps: %v", f.calls)
	}
}

func TestPull(t *testing.T) {
	f := &fakeRepo{upstream: 3}
	rep, err := newEngine(f).Pull(context.Background())
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if !rep.HasRemoteChanges || !rep.Merged {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if got := strings.Join(f.calls, ","); got != "fetch,merge" {
		t.Fatalf("calls = %s", got)
	}
}

func TestPull_RefusesLocalChanges(t *testing.T) {
	f := &fakeRepo{dirty: true, upstream: 1}
	_, err := newEngine(f).Pull(context.Background())
	if !errors.Is(err, ErrLocalChanges) {
		t.Fatalf("err = %v, want ErrLocalChanges", err)
	}
	if len(f.calls) != 0 {
		t.Fatalf("ran steps: %v", f.calls)
	}
}

func TestAutoPull_Warnings(t *testing.T) {
	tests := []struct {
		name     string
		repo     *fakeRepo
		wantWarn string
	}{
		{"clean", &fakeRepo{upstream: 1}, ""},
		{"not a repo", &fakeRepo{notRepo: true}, ""},
		{"no remote", &fakeRepo{noRemote: true}, ""},
		{"dirty", &fakeRepo{dirty: true}, "dump sync"},
		{"offline", &fakeRepo{failFetch: true}, "Could not resolve host"},
		{"conflict", &fakeRepo{upstream: 1, failMerge: true}, "Merge conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warnings []string
			newEngine(tt.repo).AutoPull(context.Background(), func(msg string) {
				warnings = append(warnings, msg)
			})
			if tt.wantWarn == "" {
				if len(warnings) != 0 {
					t.Fatalf("unexpected warnings: %v", warnings)
				}
				return
			}
			if len(warnings) != 1 || !strings.Contains(warnings[0], tt.wantWarn) {
				t.Fatalf("warnings = %v, want one containing %q", warnings, tt.wantWarn)
			}
		})
	}
}
