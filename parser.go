package stagehand

import "io"

// Parser parses raw unified-diff content for one file into domain types.
type Parser interface {
	// Parse reads diff content for the file at path and returns the
	// parsed result. Unrecognized constructs are skipped, not errors.
	Parse(path string, r io.Reader) (*FileDiff, error)
}
