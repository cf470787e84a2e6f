// Package unidiff parses unified-diff text into the stagehand domain model
// and synthesizes minimal patches for arbitrary line subsets of a hunk.
package unidiff

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/hunklab/stagehand"
)

// Compile-time interface verification.
var _ stagehand.Parser = (*Parser)(nil)

// hunkHeaderRe matches "@@ -oldStart[,oldLines] +newStart[,newLines] @@".
// The counts default to 1 when omitted, per the unified-diff format.
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// maxLineSize bounds a single diff line; generated files can carry very
// long lines that exceed bufio.Scanner's default 64KB buffer.
const maxLineSize = 16 * 1024 * 1024

// Parser parses raw unified-diff text for a single file.
//
// Parsing is permissive: lines inside a hunk that match no known marker
// are skipped rather than reported as errors, and the remaining hunks and
// lines are still returned.
type Parser struct{}

// NewParser creates a new unified-diff parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse scans diff content sequentially, building one FileDiff with
// ordered hunks. Each hunk captures its literal patch text (file header,
// hunk header, body) so that it can later be applied on its own.
func (p *Parser) Parse(path string, r io.Reader) (*stagehand.FileDiff, error) {
	fd := &stagehand.FileDiff{
		Path:   path,
		Status: stagehand.FileModified,
	}

	var (
		fileHeader []string         // raw lines before the first hunk
		hunk       *stagehand.Hunk  // hunk currently being scanned
		raw        []string         // raw lines consumed for the current hunk
		oldCtr     int              // next old-side line number
		newCtr     int              // next new-side line number
		index      int              // next line index within the current hunk
		seenDiff   bool             // saw a "diff --git" line already
	)

	finalize := func() {
		if hunk == nil {
			return
		}
		hunk.RawPatch = joinPatch(fileHeader, raw)
		fd.Hunks = append(fd.Hunks, *hunk)
		hunk = nil
		raw = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()

		if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
			finalize()
			hunk = &stagehand.Hunk{
				Header:   line,
				OldStart: atoi(m[1]),
				OldLines: atoiDefault(m[2], 1),
				NewStart: atoi(m[3]),
				NewLines: atoiDefault(m[4], 1),
			}
			oldCtr = hunk.OldStart
			newCtr = hunk.NewStart
			index = 0
			raw = append(raw, line)
			continue
		}

		if hunk == nil {
			if strings.HasPrefix(line, "diff --git") {
				if seenDiff {
					// Input is scoped to one file; a second file
					// header ends the scan.
					break
				}
				seenDiff = true
			}
			p.scanFileHeader(fd, line)
			fileHeader = append(fileHeader, line)
			continue
		}

		// A new file header after hunks also ends the single-file scan.
		if strings.HasPrefix(line, "diff --git") {
			break
		}

		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			hunk.Lines = append(hunk.Lines, stagehand.Line{
				Type:    stagehand.LineAdded,
				Content: line[1:],
				NewLine: newCtr,
				Index:   index,
			})
			newCtr++
			index++
			fd.Additions++
			raw = append(raw, line)
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			hunk.Lines = append(hunk.Lines, stagehand.Line{
				Type:    stagehand.LineDeleted,
				Content: line[1:],
				OldLine: oldCtr,
				Index:   index,
			})
			oldCtr++
			index++
			fd.Deletions++
			raw = append(raw, line)
		case strings.HasPrefix(line, " "):
			hunk.Lines = append(hunk.Lines, stagehand.Line{
				Type:    stagehand.LineContext,
				Content: line[1:],
				OldLine: oldCtr,
				NewLine: newCtr,
				Index:   index,
			})
			oldCtr++
			newCtr++
			index++
			raw = append(raw, line)
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file" belongs in the raw patch
			// but is not an addressable line.
			raw = append(raw, line)
		default:
			// Unrecognized construct inside a hunk: skipped by contract.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan diff: %w", err)
	}

	finalize()
	return fd, nil
}

// scanFileHeader updates file-level state from a header line seen before
// the first hunk.
func (p *Parser) scanFileHeader(fd *stagehand.FileDiff, line string) {
	switch {
	case strings.HasPrefix(line, "Binary files ") || line == "GIT binary patch":
		fd.IsBinary = true
	case strings.HasPrefix(line, "new file mode"):
		fd.Status = stagehand.FileAdded
	case strings.HasPrefix(line, "deleted file mode"):
		fd.Status = stagehand.FileDeleted
	case strings.HasPrefix(line, "rename from "):
		fd.Status = stagehand.FileRenamed
		fd.OldPath = strings.TrimPrefix(line, "rename from ")
	}
}

// joinPatch assembles a standalone patch from the file header and the raw
// lines consumed for one hunk.
func joinPatch(fileHeader, raw []string) string {
	var sb strings.Builder
	for _, l := range fileHeader {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	for _, l := range raw {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	return atoi(s)
}
