// Package stagehand provides domain types for staging, unstaging, and
// discarding version-controlled changes at file, hunk, and line granularity.
package stagehand

// FileDiff represents the parsed unified diff for a single file.
type FileDiff struct {
	Path      string     // path relative to the repository root
	OldPath   string     // previous path, set only for renames
	Status    FileStatus // Modified, Added, Deleted, Renamed, Untracked
	IsBinary  bool       // binary files have no hunks
	Additions int        // total added lines across all hunks
	Deletions int        // total deleted lines across all hunks
	Hunks     []Hunk
}

// FileStatus represents the kind of change recorded for a file.
type FileStatus int

// File statuses.
const (
	FileModified FileStatus = iota
	FileAdded
	FileDeleted
	FileRenamed
	FileUntracked
)

// Hunk represents a contiguous block of changes sharing one @@ header.
//
// RawPatch holds the literal patch text covering exactly this hunk (file
// header, hunk header, and body) and is a valid standalone patch against
// the state the diff was computed from.
type Hunk struct {
	Header   string // the full "@@ -a,b +c,d @@ ..." line
	OldStart int    // from @@ -X,...
	OldLines int    // from @@ -X,Y ...
	NewStart int    // from @@ ...,+X
	NewLines int    // from @@ ...,+X,Y
	Lines    []Line
	RawPatch string
}

// Line represents a single line within a hunk.
type Line struct {
	Type    LineType
	Content string // line text with the diff-marker column stripped
	OldLine int    // 0 if line is Added
	NewLine int    // 0 if line is Deleted
	Index   int    // 0-based position within the owning hunk, across all types
}

// LineType represents the type of a diff line.
type LineType int

// Line types.
const (
	LineContext LineType = iota
	LineAdded
	LineDeleted
)

// DiffArea selects which comparison a diff is computed from.
type DiffArea int

// Diff areas.
const (
	// UnstagedArea compares the working tree against the index.
	UnstagedArea DiffArea = iota
	// StagedArea compares the index against HEAD.
	StagedArea
)
