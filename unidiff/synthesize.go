package unidiff

import (
	"fmt"
	"strings"

	"github.com/hunklab/stagehand"
)

// Synthesize produces a self-contained unified-diff document covering only
// the selected lines of one hunk.
//
// Per-line accounting: context lines are always emitted as context; a
// selected add line is emitted as an addition; an unselected add line is
// omitted entirely, because it exists only in the working tree and cannot
// serve as index-side context; a selected delete line is emitted as a
// deletion; an unselected delete line is demoted to context so the
// untouched content survives on both sides. Start offsets are copied from
// the source hunk; only the counts are recomputed.
//
// isNew marks a file absent from the index (added or untracked); its patch
// carries creation headers. The hunk shape alone cannot decide this: a
// tracked empty file that gained lines also produces "@@ -0,0 +1,N @@" but
// already exists in the index, and git rejects a creation patch for it.
//
// Callers must ensure selected is non-empty and contains only indices
// present in the hunk.
func Synthesize(path string, hunk stagehand.Hunk, selected []int, isNew bool) string {
	want := make(map[int]bool, len(selected))
	for _, i := range selected {
		want[i] = true
	}

	var body strings.Builder
	oldCount, newCount := 0, 0
	for _, line := range hunk.Lines {
		switch line.Type {
		case stagehand.LineContext:
			body.WriteByte(' ')
			body.WriteString(line.Content)
			body.WriteByte('\n')
			oldCount++
			newCount++
		case stagehand.LineAdded:
			if !want[line.Index] {
				continue
			}
			body.WriteByte('+')
			body.WriteString(line.Content)
			body.WriteByte('\n')
			newCount++
		case stagehand.LineDeleted:
			if want[line.Index] {
				body.WriteByte('-')
				body.WriteString(line.Content)
				body.WriteByte('\n')
				oldCount++
			} else {
				body.WriteByte(' ')
				body.WriteString(line.Content)
				body.WriteByte('\n')
				oldCount++
				newCount++
			}
		}
	}

	var sb strings.Builder
	writeFileHeader(&sb, path, isNew)
	fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, oldCount, hunk.NewStart, newCount)
	sb.WriteString(body.String())
	return sb.String()
}

// writeFileHeader writes the "diff --git" preamble shared by synthesized
// documents. git only accepts file creation with /dev/null headers.
func writeFileHeader(sb *strings.Builder, path string, isNew bool) {
	fmt.Fprintf(sb, "diff --git a/%s b/%s\n", path, path)
	if isNew {
		sb.WriteString("new file mode 100644\n")
		sb.WriteString("--- /dev/null\n")
	} else {
		fmt.Fprintf(sb, "--- a/%s\n", path)
	}
	fmt.Fprintf(sb, "+++ b/%s\n", path)
}
