package stagehand

import "context"

// Viewer presents repository changes to the user interactively.
type Viewer interface {
	// View displays the changes and blocks until the user exits.
	View(ctx context.Context) error
}
