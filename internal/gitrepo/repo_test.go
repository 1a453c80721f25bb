package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"braindump/internal/reposync"
)

// cloneFixture returns a bare remote and one configured clone of it.
func cloneFixture(t *testing.T) (remote string, clone string) {
	t.Helper()
	requireGit(t)

	remote = filepath.Join(t.TempDir(), "remote.git")
	run(t, filepath.Dir(remote), "git", "init", "--bare", remote)
	run(t, remote, "git", "symbolic-ref", "HEAD", "refs/heads/main")

	clone = cloneOf(t, remote)
	return remote, clone
}

func cloneOf(t *testing.T, remote string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "dumps")
	run(t, filepath.Dir(dir), "git", "clone", remote, dir)
	configure(t, dir)
	return dir
}

func syncEngine(dir string) *reposync.Engine {
	clock := func() time.Time { return time.Date(2026, 1, 22, 8, 0, 0, 0, time.UTC) }
	return reposync.New(&Repo{Dir: dir}, reposync.WithClock(clock))
}

func TestRepo_IsRepoAndRemote(t *testing.T) {
	requireGit(t)
	ctx := context.Background()

	plain := &Repo{Dir: t.TempDir()}
	if ok, err := plain.IsRepo(ctx); err != nil || ok {
		t.Fatalf("IsRepo(plain dir) = %v, %v", ok, err)
	}

	local := &Repo{Dir: newRepo(t)}
	if ok, err := local.IsRepo(ctx); err != nil || !ok {
		t.Fatalf("IsRepo = %v, %v", ok, err)
	}
	if ok, err := local.HasRemote(ctx); err != nil || ok {
		t.Fatalf("HasRemote without remotes = %v, %v", ok, err)
	}
	if err := SetRemoteURL(ctx, nil, local.Dir, "", "https://example.com/dumps.git"); err != nil {
		t.Fatalf("SetRemoteURL: %v", err)
	}
	if ok, err := local.HasRemote(ctx); err != nil || !ok {
		t.Fatalf("HasRemote = %v, %v", ok, err)
	}
	url, err := RemoteURL(ctx, nil, local.Dir, "origin")
	if err != nil || url != "https://example.com/dumps.git" {
		t.Fatalf("RemoteURL = %q, %v", url, err)
	}
}

func TestRepo_StashRoundTrip(t *testing.T) {
	_, dir := cloneFixture(t)
	ctx := context.Background()
	r := &Repo{Dir: dir}

	if stashed, err := r.StashPush(ctx, reposync.StashMessage); err != nil || stashed {
		t.Fatalf("StashPush before first commit = %v, %v", stashed, err)
	}
	writeFile(t, filepath.Join(dir, "2026012200.md"), "- base\n")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "base")

	writeFile(t, filepath.Join(dir, "2026012201.md"), "- hello\n")
	stashed, err := r.StashPush(ctx, reposync.StashMessage)
	if err != nil || !stashed {
		t.Fatalf("StashPush = %v, %v", stashed, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2026012201.md")); !os.IsNotExist(err) {
		t.Fatalf("untracked entry should be stashed, stat err=%v", err)
	}
	if stashed, err := r.StashPush(ctx, reposync.StashMessage); err != nil || stashed {
		t.Fatalf("StashPush on clean tree = %v, %v", stashed, err)
	}
	if out := runOut(t, dir, "git", "stash", "list"); !strings.Contains(out, reposync.StashMessage) {
		t.Fatalf("stash not labelled %q: %q", reposync.StashMessage, out)
	}
	if err := r.StashPop(ctx); err != nil {
		t.Fatalf("StashPop: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2026012201.md")); err != nil {
		t.Fatalf("entry not restored: %v", err)
	}
}

func TestRepo_SyncBetweenDevices(t *testing.T) {
	remote, desktop := cloneFixture(t)
	ctx := context.Background()

	// First sync from an empty remote sets the upstream.
	writeFile(t, filepath.Join(desktop, "2026012201.md"), "- from desktop\n")
	rep, err := syncEngine(desktop).Sync(ctx)
	if err != nil {
		t.Fatalf("desktop Sync: %v", err)
	}
	if !rep.Committed || !rep.Pushed || rep.CommitMessage != "Log: 2026-01-22" {
		t.Fatalf("unexpected first report: %+v", rep)
	}

	laptop := cloneOf(t, remote)
	writeFile(t, filepath.Join(laptop, "2026012202.md"), "- from laptop\n")
	if _, err := syncEngine(laptop).Sync(ctx); err != nil {
		t.Fatalf("laptop Sync: %v", err)
	}

	// Desktop has its own edit while behind the remote.
	writeFile(t, filepath.Join(desktop, "2026012203.md"), "- desktop again\n")
	rep, err = syncEngine(desktop).Sync(ctx)
	if err != nil {
		t.Fatalf("desktop Sync (behind): %v", err)
	}
	if !rep.HasRemoteChanges || !rep.Stashed || !rep.Unstashed || !rep.Committed || !rep.Pushed {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if _, err := os.Stat(filepath.Join(desktop, "2026012202.md")); err != nil {
		t.Fatalf("laptop entry not merged: %v", err)
	}
	if n := commitCount(t, remote, "main"); n != 3 {
		t.Fatalf("remote commits = %d, want 3", n)
	}

	rep, err = syncEngine(desktop).Sync(ctx)
	if err != nil {
		t.Fatalf("idle Sync: %v", err)
	}
	if rep.Committed || rep.Pushed || !rep.UpToDate() {
		t.Fatalf("idle sync did work: %+v", rep)
	}

	if _, err := syncEngine(laptop).Pull(ctx); err != nil {
		t.Fatalf("laptop Pull: %v", err)
	}
	if _, err := os.Stat(filepath.Join(laptop, "2026012203.md")); err != nil {
		t.Fatalf("desktop entry not pulled: %v", err)
	}
}

// offlineAfterFetch takes the remote away once a fetch has completed.
type offlineAfterFetch struct {
	*Repo
	t      *testing.T
	remote string
}

func (o offlineAfterFetch) Fetch(ctx context.Context) error {
	if err := o.Repo.Fetch(ctx); err != nil {
		return err
	}
	if err := os.Rename(o.remote, o.remote+".away"); err != nil {
		o.t.Fatalf("move remote: %v", err)
	}
	return nil
}

func TestRepo_MergeUsesFetchedUpstreamOnly(t *testing.T) {
	remote, desktop := cloneFixture(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(desktop, "2026012201.md"), "- base\n")
	if _, err := syncEngine(desktop).Sync(ctx); err != nil {
		t.Fatalf("desktop Sync: %v", err)
	}
	laptop := cloneOf(t, remote)
	writeFile(t, filepath.Join(laptop, "2026012202.md"), "- from laptop\n")
	if _, err := syncEngine(laptop).Sync(ctx); err != nil {
		t.Fatalf("laptop Sync: %v", err)
	}

	wip := filepath.Join(desktop, "2026012203.md")
	writeFile(t, wip, "- wip\n")
	clock := func() time.Time { return time.Date(2026, 1, 22, 8, 0, 0, 0, time.UTC) }
	eng := reposync.New(offlineAfterFetch{Repo: &Repo{Dir: desktop}, t: t, remote: remote}, reposync.WithClock(clock))

	rep, err := eng.Sync(ctx)
	var se *reposync.StepError
	if !errors.As(err, &se) || se.Step != reposync.StepPush {
		t.Fatalf("Sync with remote gone after fetch = %v, want push StepError", err)
	}
	if !rep.Merged || !rep.Unstashed || !rep.Committed {
		t.Fatalf("merge should run offline: %+v", rep)
	}
	if _, err := os.Stat(wip); err != nil {
		t.Fatalf("wip entry lost: %v", err)
	}
	if _, err := os.Stat(filepath.Join(desktop, "2026012202.md")); err != nil {
		t.Fatalf("laptop entry not merged: %v", err)
	}
	if out := runOut(t, desktop, "git", "stash", "list"); out != "" {
		t.Fatalf("stash left behind: %q", out)
	}

	if err := os.Rename(remote+".away", remote); err != nil {
		t.Fatalf("restore remote: %v", err)
	}
	rep, err = syncEngine(desktop).Sync(ctx)
	if err != nil {
		t.Fatalf("retry Sync: %v", err)
	}
	if !rep.Pushed {
		t.Fatalf("retry should push the kept commit: %+v", rep)
	}
	if n := commitCount(t, remote, "main"); n != 3 {
		t.Fatalf("remote commits = %d, want 3", n)
	}
}

func TestRepo_PullRefusesDirtyTree(t *testing.T) {
	_, dir := cloneFixture(t)
	writeFile(t, filepath.Join(dir, "2026012201.md"), "- wip\n")
	_, err := syncEngine(dir).Pull(context.Background())
	if !errors.Is(err, reposync.ErrLocalChanges) {
		t.Fatalf("Pull = %v, want ErrLocalChanges", err)
	}
}

func TestIsNonFastForwardPushErr(t *testing.T) {
	if IsNonFastForwardPushErr(nil) {
		t.Fatalf("nil error")
	}
	if !IsNonFastForwardPushErr(errString("! [rejected] main -> main (fetch first)")) {
		t.Fatalf("expected rejection to match")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
