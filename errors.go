package stagehand

import "fmt"

// ValidationError reports malformed caller input: an out-of-range hunk
// index, an empty line selection, or a hunk missing its captured patch.
// It is returned before any subprocess is spawned and is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validationf constructs a *ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ApplyError reports that the patch-apply capability exited non-zero.
// Message holds its diagnostic text verbatim, suitable for direct,
// unmodified display to the user.
type ApplyError struct {
	Message string
}

func (e *ApplyError) Error() string { return e.Message }
