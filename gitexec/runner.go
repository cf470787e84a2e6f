// Package gitexec implements the stagehand repository interfaces by
// executing the git binary.
package gitexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git with a configurable binary path.
type Runner struct {
	GitBin string
}

// NewRunner creates a Runner. An empty gitBin falls back to "git" on PATH.
func NewRunner(gitBin string) *Runner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &Runner{GitBin: gitBin}
}

// Run executes git with args in root and returns stdout.
func (r *Runner) Run(ctx context.Context, root string, args ...string) (string, error) {
	return r.run(ctx, root, "", args...)
}

// RunStdin executes git with args in root, feeding stdin on the input
// channel, and returns stdout.
func (r *Runner) RunStdin(ctx context.Context, root, stdin string, args ...string) (string, error) {
	return r.run(ctx, root, stdin, args...)
}

func (r *Runner) run(ctx context.Context, root, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.GitBin, args...)
	if strings.TrimSpace(root) != "" {
		cmd.Dir = root
	}
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var out bytes.Buffer
	var errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errb.String())
		if msg == "" {
			msg = strings.TrimSpace(out.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", &GitError{Args: args, Stderr: msg, Err: err}
	}
	return out.String(), nil
}

// GitError describes a git invocation that failed. Stderr holds the
// diagnostic text exactly as git produced it.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), e.Stderr)
}

func (e *GitError) Unwrap() error { return e.Err }
