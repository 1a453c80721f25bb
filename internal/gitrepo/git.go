// Package gitrepo runs the git binary against the journal directory. It is
// the production Backend for the reposync engine.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// runGit runs git with combined output; on failure the error carries git's
// own message unmodified.
func runGit(ctx context.Context, log *slog.Logger, dir string, args ...string) (string, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	logGit(log, args, start, err)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return string(out), fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return string(out), nil
}

// git is like runGit but keeps stdout and stderr apart, for commands whose
// stdout is parsed.
func git(ctx context.Context, log *slog.Logger, dir string, args ...string) (string, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	logGit(log, args, start, err)
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}

func logGit(log *slog.Logger, args []string, start time.Time, err error) {
	if log == nil {
		return
	}
	attrs := []any{
		slog.String("args", strings.Join(args, " ")),
		slog.Duration("took", time.Since(start)),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	log.Debug("git", attrs...)
}
