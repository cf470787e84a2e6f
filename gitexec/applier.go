package gitexec

import (
	"context"
	"errors"

	"github.com/hunklab/stagehand"
)

// Compile-time interface verification.
var _ stagehand.Applier = (*Applier)(nil)

// Applier applies unified-diff documents with "git apply", fed on stdin.
//
// Modal flags: none (forward, working tree), --cached (forward, index),
// --reverse (reverse, working tree), --cached --reverse (reverse, index).
// A non-zero exit surfaces as *stagehand.ApplyError with git's diagnostic
// text verbatim; there are no retries and no fallback strategies.
type Applier struct {
	root string
	r    *Runner
}

// NewApplier creates an Applier for the repository rooted at root.
func NewApplier(root string, r *Runner) *Applier {
	if r == nil {
		r = NewRunner("")
	}
	return &Applier{root: root, r: r}
}

// Apply feeds patch to "git apply" with the flag combination selected by
// target and direction.
func (a *Applier) Apply(ctx context.Context, patch string, target stagehand.ApplyTarget, direction stagehand.ApplyDirection) error {
	args := []string{"apply"}
	if target == stagehand.Index {
		args = append(args, "--cached")
	}
	if direction == stagehand.Reverse {
		args = append(args, "--reverse")
	}
	args = append(args, "-")

	if _, err := a.r.RunStdin(ctx, a.root, patch, args...); err != nil {
		var ge *GitError
		if errors.As(err, &ge) {
			return &stagehand.ApplyError{Message: ge.Stderr}
		}
		return err
	}
	return nil
}
