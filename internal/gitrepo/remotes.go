package gitrepo

import (
	"context"
	"log/slog"
	"strings"
)

// DefaultRemote is used when no upstream is configured yet.
const DefaultRemote = "origin"

// RemoteURL returns the configured fetch URL for a remote (e.g. origin).
func RemoteURL(ctx context.Context, log *slog.Logger, dir, remoteName string) (string, error) {
	remoteName = strings.TrimSpace(remoteName)
	if remoteName == "" {
		remoteName = DefaultRemote
	}
	out, err := git(ctx, log, dir, "remote", "get-url", remoteName)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

type Remote struct {
	Name     string `json:"name"`
	FetchURL string `json:"fetchUrl,omitempty"`
}

func ListRemotes(ctx context.Context, log *slog.Logger, dir string) ([]Remote, error) {
	out, err := git(ctx, log, dir, "remote")
	if err != nil {
		return nil, err
	}
	var remotes []Remote
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(strings.TrimRight(line, "\r"))
		if name == "" {
			continue
		}
		r := Remote{Name: name}
		if fetchURL, err := git(ctx, log, dir, "remote", "get-url", name); err == nil {
			r.FetchURL = strings.TrimSpace(fetchURL)
		}
		remotes = append(remotes, r)
	}
	return remotes, nil
}

// SetRemoteURL points remoteName at url, adding the remote when missing.
func SetRemoteURL(ctx context.Context, log *slog.Logger, dir, remoteName, url string) error {
	remoteName = strings.TrimSpace(remoteName)
	if remoteName == "" {
		remoteName = DefaultRemote
	}
	if _, err := RemoteURL(ctx, log, dir, remoteName); err == nil {
		_, err := runGit(ctx, log, dir, "remote", "set-url", remoteName, url)
		return err
	}
	_, err := runGit(ctx, log, dir, "remote", "add", remoteName, url)
	return err
}

// Init creates a repository in dir. It is a no-op for an existing one.
func Init(ctx context.Context, log *slog.Logger, dir string) error {
	if _, ok, err := FindGitDir(dir); err == nil && ok {
		st, err := GetStatus(ctx, log, dir)
		if err == nil && st.IsRepo {
			return nil
		}
	}
	_, err := runGit(ctx, log, dir, "init")
	return err
}
