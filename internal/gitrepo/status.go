package gitrepo

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

type Status struct {
	IsRepo bool `json:"isRepo"`

	Root string `json:"root,omitempty"`

	Branch   string `json:"branch,omitempty"`
	Upstream string `json:"upstream,omitempty"`
	// UpstreamRemote is derived from Upstream (e.g. origin from origin/main).
	UpstreamRemote string `json:"upstreamRemote,omitempty"`

	Head string `json:"head,omitempty"`

	// Dirty counts untracked files too: a freshly created entry is untracked
	// until the next sync commits it.
	Dirty    bool `json:"dirty"`
	Unmerged bool `json:"unmerged"`

	Ahead  int `json:"ahead,omitempty"`
	Behind int `json:"behind,omitempty"`
}

func GetStatus(ctx context.Context, log *slog.Logger, dir string) (Status, error) {
	root, err := git(ctx, log, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		// "not a git repository" is the common case; report it as a status.
		return Status{IsRepo: false}, nil
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return Status{}, errors.New("git rev-parse returned empty root")
	}

	branch, _ := git(ctx, log, dir, "rev-parse", "--abbrev-ref", "HEAD")
	head, _ := git(ctx, log, dir, "rev-parse", "--short", "HEAD")
	upstream, _ := git(ctx, log, dir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	upstream = strings.TrimSpace(upstream)

	upstreamRemote := ""
	if remote, _, ok := strings.Cut(upstream, "/"); ok {
		upstreamRemote = strings.TrimSpace(remote)
	}

	porcelain, err := git(ctx, log, dir, "status", "--porcelain=v1")
	if err != nil {
		return Status{}, err
	}
	dirty, unmerged := parsePorcelain(porcelain)

	ahead, behind := 0, 0
	if upstream != "" {
		if counts, err := git(ctx, log, dir, "rev-list", "--left-right", "--count", "HEAD...@{u}"); err == nil {
			if a, b, ok := parseAheadBehind(counts); ok {
				ahead, behind = a, b
			}
		}
	}

	return Status{
		IsRepo:         true,
		Root:           root,
		Branch:         strings.TrimSpace(branch),
		Upstream:       upstream,
		UpstreamRemote: upstreamRemote,
		Head:           strings.TrimSpace(head),
		Dirty:          dirty,
		Unmerged:       unmerged,
		Ahead:          ahead,
		Behind:         behind,
	}, nil
}

func parsePorcelain(out string) (dirty bool, unmerged bool) {
	for _, ln := range strings.Split(out, "\n") {
		ln = strings.TrimRight(ln, "\r")
		if len(ln) < 2 {
			continue
		}
		xy := ln[:2]
		if strings.TrimSpace(xy) == "" {
			continue
		}
		dirty = true
		if isUnmergedXY(xy) {
			unmerged = true
		}
	}
	return dirty, unmerged
}

func isUnmergedXY(xy string) bool {
	if len(xy) != 2 {
		return false
	}
	switch xy {
	case "DD", "AA":
		return true
	}
	return xy[0] == 'U' || xy[1] == 'U'
}

// parseAheadBehind reads `git rev-list --left-right --count HEAD...@{u}`,
// which prints "<ahead>\t<behind>".
func parseAheadBehind(out string) (ahead int, behind int, ok bool) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(fields[0])
	b, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}
