package gitrepo

import (
	"context"
	"log/slog"
	"strings"
)

func Fetch(ctx context.Context, log *slog.Logger, dir string) error {
	_, err := runGit(ctx, log, dir, "fetch", "--quiet")
	return err
}

// RebaseOntoUpstream replays local commits onto the already fetched upstream.
// It never touches the network.
func RebaseOntoUpstream(ctx context.Context, log *slog.Logger, dir string) error {
	_, err := runGit(ctx, log, dir, "rebase", "@{u}")
	return err
}

func Push(ctx context.Context, log *slog.Logger, dir string) error {
	_, err := runGit(ctx, log, dir, "push")
	return err
}

func PushSetUpstream(ctx context.Context, log *slog.Logger, dir, remote, branch string) error {
	_, err := runGit(ctx, log, dir, "push", "-u", remote, branch)
	return err
}

// StashPush stashes tracked and untracked changes. It reports false when git
// found nothing to stash.
func StashPush(ctx context.Context, log *slog.Logger, dir, message string) (bool, error) {
	out, err := runGit(ctx, log, dir, "stash", "push", "--include-untracked", "-m", message)
	if err != nil {
		return false, err
	}
	if strings.Contains(out, "No local changes to save") {
		return false, nil
	}
	return true, nil
}

func StashPop(ctx context.Context, log *slog.Logger, dir string) error {
	_, err := runGit(ctx, log, dir, "stash", "pop")
	return err
}

// CommitAll stages everything and commits it. It reports false when the
// index ended up empty.
func CommitAll(ctx context.Context, log *slog.Logger, dir, message string) (bool, error) {
	if _, err := runGit(ctx, log, dir, "add", "-A"); err != nil {
		return false, err
	}
	staged, err := git(ctx, log, dir, "diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(staged) == "" {
		return false, nil
	}
	if _, err := runGit(ctx, log, dir, "commit", "-m", message); err != nil {
		return false, err
	}
	return true, nil
}

func IsNonFastForwardPushErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"non-fast-forward",
		"fetch first",
		"rejected",
		"updates were rejected",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
