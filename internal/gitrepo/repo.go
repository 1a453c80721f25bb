package gitrepo

import (
	"context"
	"log/slog"
	"strings"
)

// Repo is a journal directory backed by the git binary.
type Repo struct {
	Dir string
	// Remote is pushed to when the branch has no upstream yet; defaults to
	// DefaultRemote.
	Remote string
	Logger *slog.Logger
}

func (r *Repo) remote() string {
	if s := strings.TrimSpace(r.Remote); s != "" {
		return s
	}
	return DefaultRemote
}

func (r *Repo) IsRepo(ctx context.Context) (bool, error) {
	if _, ok, err := FindGitDir(r.Dir); err != nil || !ok {
		return false, err
	}
	st, err := GetStatus(ctx, r.Logger, r.Dir)
	if err != nil {
		return false, err
	}
	return st.IsRepo, nil
}

func (r *Repo) HasRemote(ctx context.Context) (bool, error) {
	remotes, err := ListRemotes(ctx, r.Logger, r.Dir)
	if err != nil {
		return false, err
	}
	return len(remotes) > 0, nil
}

func (r *Repo) InProgress(context.Context) (string, error) {
	return InProgress(r.Dir)
}

func (r *Repo) HasLocalChanges(ctx context.Context) (bool, error) {
	st, err := GetStatus(ctx, r.Logger, r.Dir)
	if err != nil {
		return false, err
	}
	return st.Dirty, nil
}

func (r *Repo) StashPush(ctx context.Context, message string) (bool, error) {
	st, err := GetStatus(ctx, r.Logger, r.Dir)
	if err != nil {
		return false, err
	}
	if st.Head == "" {
		// git cannot stash before the first commit; there is nothing to
		// merge onto yet either.
		return false, nil
	}
	return StashPush(ctx, r.Logger, r.Dir, message)
}

func (r *Repo) StashPop(ctx context.Context) error {
	return StashPop(ctx, r.Logger, r.Dir)
}

func (r *Repo) Fetch(ctx context.Context) error {
	return Fetch(ctx, r.Logger, r.Dir)
}

func (r *Repo) HasRemoteChanges(ctx context.Context) (bool, error) {
	st, err := GetStatus(ctx, r.Logger, r.Dir)
	if err != nil {
		return false, err
	}
	return st.Behind > 0, nil
}

func (r *Repo) Merge(ctx context.Context) error {
	return RebaseOntoUpstream(ctx, r.Logger, r.Dir)
}

func (r *Repo) Commit(ctx context.Context, message string) (bool, error) {
	return CommitAll(ctx, r.Logger, r.Dir, message)
}

// NeedsPush is true when the branch is ahead of its upstream, or when it has
// commits but no upstream yet.
func (r *Repo) NeedsPush(ctx context.Context) (bool, error) {
	st, err := GetStatus(ctx, r.Logger, r.Dir)
	if err != nil {
		return false, err
	}
	if st.Upstream != "" {
		return st.Ahead > 0, nil
	}
	return st.Head != "" && st.Branch != "" && st.Branch != "HEAD", nil
}

func (r *Repo) Push(ctx context.Context) error {
	st, err := GetStatus(ctx, r.Logger, r.Dir)
	if err != nil {
		return err
	}
	if st.Upstream == "" {
		return PushSetUpstream(ctx, r.Logger, r.Dir, r.remote(), st.Branch)
	}
	return Push(ctx, r.Logger, r.Dir)
}
