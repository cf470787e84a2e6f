package stagehand

import "context"

// DiffSource retrieves raw diff text and file state from a repository.
// Implementations may shell out to the git binary or simulate a repository
// for testing.
type DiffSource interface {
	// Diff returns the raw unified-diff text for path, computed from the
	// given area. An empty string means the file has no changes there.
	Diff(ctx context.Context, path string, area DiffArea) (string, error)

	// IsUntracked reports whether path is untracked (present in the
	// working tree but unknown to the index).
	IsUntracked(ctx context.Context, path string) (bool, error)

	// ReadFile returns the working-tree content of path. It is used only
	// to synthesize the addition hunk for untracked files and is confined
	// to the repository root.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// ChangeLister enumerates the paths in a repository that have uncommitted
// changes, staged, unstaged or untracked.
type ChangeLister interface {
	// Changed returns the changed paths, sorted and without duplicates.
	Changed(ctx context.Context) ([]string, error)
}
