package stagehand

import "context"

// Stager is the public staging surface. Views and CLI commands depend on
// this interface, never on git subprocesses directly.
//
// FileDiff values returned by Unstaged and Staged are snapshots: any
// mutation invalidates previously obtained hunk and line indices, and the
// caller must re-fetch before addressing hunks or lines again. Every
// mutating method re-fetches a fresh diff internally before acting.
type Stager interface {
	// Unstaged returns the working-tree-vs-index diff for path. Untracked
	// files yield a synthetic single-hunk, all-addition diff.
	Unstaged(ctx context.Context, path string) (*FileDiff, error)

	// Staged returns the index-vs-HEAD diff for path.
	Staged(ctx context.Context, path string) (*FileDiff, error)

	// StageHunk applies the hunk's captured patch to the index.
	StageHunk(ctx context.Context, path string, hunk int) error

	// UnstageHunk reverse-applies the hunk's captured patch to the index.
	UnstageHunk(ctx context.Context, path string, hunk int) error

	// DiscardHunk reverse-applies the hunk's captured patch to the
	// working tree.
	DiscardHunk(ctx context.Context, path string, hunk int) error

	// StageLines stages only the selected lines of the hunk.
	StageLines(ctx context.Context, path string, hunk int, lines []int) error

	// UnstageLines unstages only the selected lines of the hunk.
	UnstageLines(ctx context.Context, path string, hunk int, lines []int) error

	// DiscardLines discards only the selected lines of the hunk from the
	// working tree.
	DiscardLines(ctx context.Context, path string, hunk int, lines []int) error
}
