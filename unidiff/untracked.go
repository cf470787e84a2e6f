package unidiff

import (
	"fmt"
	"strings"

	"github.com/hunklab/stagehand"
)

// Untracked builds the diff for a file git knows nothing about yet: a
// single hunk with header "@@ -0,0 +1,N @@" in which every line is an
// addition. The synthetic hunk is addressable exactly like a parsed one,
// so line-level staging works uniformly for untracked files.
//
// Empty content yields a diff with no hunks.
func Untracked(path string, content []byte) *stagehand.FileDiff {
	fd := &stagehand.FileDiff{
		Path:   path,
		Status: stagehand.FileUntracked,
	}

	text := string(content)
	if text == "" {
		return fd
	}

	trailingNewline := strings.HasSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	if trailingNewline {
		lines = lines[:len(lines)-1]
	}

	hunk := stagehand.Hunk{
		Header:   fmt.Sprintf("@@ -0,0 +1,%d @@", len(lines)),
		OldStart: 0,
		OldLines: 0,
		NewStart: 1,
		NewLines: len(lines),
		Lines:    make([]stagehand.Line, len(lines)),
	}
	for i, content := range lines {
		hunk.Lines[i] = stagehand.Line{
			Type:    stagehand.LineAdded,
			Content: content,
			NewLine: i + 1,
			Index:   i,
		}
	}

	var sb strings.Builder
	writeFileHeader(&sb, path, true)
	sb.WriteString(hunk.Header)
	sb.WriteByte('\n')
	for _, l := range hunk.Lines {
		sb.WriteByte('+')
		sb.WriteString(l.Content)
		sb.WriteByte('\n')
	}
	if !trailingNewline {
		sb.WriteString("\\ No newline at end of file\n")
	}
	hunk.RawPatch = sb.String()

	fd.Additions = len(lines)
	fd.Hunks = []stagehand.Hunk{hunk}
	return fd
}
