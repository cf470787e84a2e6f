package stagehand

import "context"

// ApplyTarget selects what a patch application mutates.
type ApplyTarget int

// Apply targets.
const (
	// WorkingTree applies the patch to working-tree files.
	WorkingTree ApplyTarget = iota
	// Index applies the patch to the staging area only.
	Index
)

// ApplyDirection selects whether a patch is applied as written or undone.
type ApplyDirection int

// Apply directions.
const (
	Forward ApplyDirection = iota
	Reverse
)

// Applier applies a unified-diff document to the index or the working tree.
// Application is deterministic for a stable diff snapshot: implementations
// perform no retries and no fallback strategies. A failed application is
// reported as an *ApplyError carrying the diagnostic text verbatim.
type Applier interface {
	Apply(ctx context.Context, patch string, target ApplyTarget, direction ApplyDirection) error
}
