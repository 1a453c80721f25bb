package gitrepo

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FindGitDir walks up from start and returns the git directory (e.g.
// /home/me/dumps/.git, or the target of a .git file for worktrees). It does
// not invoke the git binary.
func FindGitDir(start string) (gitDir string, ok bool, err error) {
	if strings.TrimSpace(start) == "" {
		return "", false, errors.New("empty start dir")
	}
	dir, err := filepath.Abs(strings.TrimSpace(start))
	if err != nil {
		return "", false, err
	}

	for {
		candidate := filepath.Join(dir, ".git")
		st, statErr := os.Stat(candidate)
		switch {
		case statErr == nil && st.IsDir():
			return candidate, true, nil
		case statErr == nil:
			target, err := readGitdirFile(candidate)
			if err != nil {
				return "", false, err
			}
			if target != "" {
				return target, true, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func readGitdirFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" {
			continue
		}
		p, ok := strings.CutPrefix(ln, "gitdir:")
		if !ok {
			break
		}
		p = strings.TrimSpace(p)
		if p == "" {
			return "", nil
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(path), p)
		}
		return filepath.Clean(p), nil
	}
	return "", sc.Err()
}

// InProgress names an interrupted merge-like operation ("merge", "rebase",
// "cherry-pick", "revert"), or "" when the repository is idle.
func InProgress(dir string) (string, error) {
	gitDir, ok, err := FindGitDir(dir)
	if err != nil || !ok {
		return "", err
	}
	switch {
	case exists(filepath.Join(gitDir, "MERGE_HEAD")):
		return "merge", nil
	case exists(filepath.Join(gitDir, "rebase-apply")), exists(filepath.Join(gitDir, "rebase-merge")):
		return "rebase", nil
	case exists(filepath.Join(gitDir, "CHERRY_PICK_HEAD")):
		return "cherry-pick", nil
	case exists(filepath.Join(gitDir, "REVERT_HEAD")):
		return "revert", nil
	}
	return "", nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
