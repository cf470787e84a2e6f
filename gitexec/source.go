package gitexec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hunklab/stagehand"
)

// Compile-time interface verification.
var (
	_ stagehand.DiffSource   = (*Source)(nil)
	_ stagehand.ChangeLister = (*Source)(nil)
)

// Source retrieves diff text and file state from a repository using git.
type Source struct {
	root string
	r    *Runner
}

// NewSource creates a Source for the repository rooted at root.
func NewSource(root string, r *Runner) *Source {
	if r == nil {
		r = NewRunner("")
	}
	return &Source{root: root, r: r}
}

// Diff returns raw unified-diff text for path. The unstaged area compares
// the working tree against the index; the staged area compares the index
// against HEAD.
func (s *Source) Diff(ctx context.Context, path string, area stagehand.DiffArea) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if area == stagehand.StagedArea {
		args = append(args, "--cached")
	}
	args = append(args, "--", path)
	return s.r.Run(ctx, s.root, args...)
}

// IsUntracked reports whether path is present in the working tree but
// unknown to the index.
func (s *Source) IsUntracked(ctx context.Context, path string) (bool, error) {
	out, err := s.r.Run(ctx, s.root, "ls-files", "--others", "--exclude-standard", "--", path)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// ReadFile returns the working-tree content of path. The path must stay
// inside the repository root.
func (s *Source) ReadFile(ctx context.Context, path string) ([]byte, error) {
	abs, err := filepath.Abs(filepath.Join(s.root, path))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	root, err := filepath.Abs(s.root)
	if err != nil {
		return nil, fmt.Errorf("resolve repository root: %w", err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("path %q escapes repository root", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
