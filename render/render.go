// Package render formats file diffs as styled terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hunklab/stagehand"
)

// Default colors, loosely based on the One Dark theme.
const (
	colorAdded      = "#98c379"
	colorDeleted    = "#e06c75"
	colorHunkHeader = "#61afef"
	colorFileHeader = "#c678dd"
	colorLineNumber = "#5c6370"
	colorBinary     = "#5c6370"
)

// Renderer formats file diffs using lipgloss styles. Syntax highlighting is
// applied when a tokenizer and language detector are provided.
type Renderer struct {
	renderer  *lipgloss.Renderer
	tokenizer stagehand.Tokenizer
	detector  stagehand.LanguageDetector

	fileHeader lipgloss.Style
	hunkHeader lipgloss.Style
	added      lipgloss.Style
	deleted    lipgloss.Style
	lineNumber lipgloss.Style
	binary     lipgloss.Style
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRenderer sets the lipgloss renderer. Useful for testing with a fixed
// color profile.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(rd *Renderer) { rd.renderer = r }
}

// WithHighlighting enables syntax highlighting of line content.
func WithHighlighting(tok stagehand.Tokenizer, det stagehand.LanguageDetector) Option {
	return func(rd *Renderer) {
		rd.tokenizer = tok
		rd.detector = det
	}
}

// New creates a Renderer. With no options it uses the default lipgloss
// renderer and no syntax highlighting.
func New(opts ...Option) *Renderer {
	rd := &Renderer{}
	for _, opt := range opts {
		opt(rd)
	}
	if rd.renderer == nil {
		rd.renderer = lipgloss.DefaultRenderer()
	}

	newStyle := rd.renderer.NewStyle
	rd.fileHeader = newStyle().Foreground(lipgloss.Color(colorFileHeader)).Bold(true)
	rd.hunkHeader = newStyle().Foreground(lipgloss.Color(colorHunkHeader))
	rd.added = newStyle().Foreground(lipgloss.Color(colorAdded))
	rd.deleted = newStyle().Foreground(lipgloss.Color(colorDeleted))
	rd.lineNumber = newStyle().Foreground(lipgloss.Color(colorLineNumber))
	rd.binary = newStyle().Foreground(lipgloss.Color(colorBinary)).Italic(true)
	return rd
}

// File renders a complete file diff: header line, then each hunk.
func (rd *Renderer) File(fd *stagehand.FileDiff) string {
	var sb strings.Builder
	sb.WriteString(rd.FileHeader(fd))
	sb.WriteString("\n")

	if fd.IsBinary {
		sb.WriteString(rd.binary.Render("binary file"))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, hunk := range fd.Hunks {
		sb.WriteString(rd.HunkHeader(hunk))
		sb.WriteString("\n")
		for _, line := range rd.HunkLines(fd.Path, hunk) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FileHeader renders the header line for a file diff, including the change
// counts and any rename origin.
func (rd *Renderer) FileHeader(fd *stagehand.FileDiff) string {
	label := fd.Path
	if fd.Status == stagehand.FileRenamed && fd.OldPath != "" {
		label = fd.OldPath + " → " + fd.Path
	}

	var suffix string
	switch fd.Status {
	case stagehand.FileAdded, stagehand.FileUntracked:
		suffix = " (new)"
	case stagehand.FileDeleted:
		suffix = " (deleted)"
	}

	return rd.fileHeader.Render("── "+label+suffix) +
		rd.added.Render(fmt.Sprintf("  +%d", fd.Additions)) +
		rd.deleted.Render(fmt.Sprintf(" -%d", fd.Deletions))
}

// HunkHeader renders the @@ header for a hunk. A hunk without a captured
// header line gets one synthesized from its positions.
func (rd *Renderer) HunkHeader(h stagehand.Hunk) string {
	header := h.Header
	if header == "" {
		header = fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
	}
	return rd.hunkHeader.Render(header)
}

// HunkLines renders each line of a hunk, one string per line, with line
// numbers, the +/- marker and optional syntax highlighting. The path is used
// for language detection.
func (rd *Renderer) HunkLines(path string, h stagehand.Hunk) []string {
	language := ""
	if rd.detector != nil {
		language = rd.detector.DetectFromPath(path)
	}

	out := make([]string, 0, len(h.Lines))
	for _, line := range h.Lines {
		out = append(out, rd.line(language, line))
	}
	return out
}

func (rd *Renderer) line(language string, line stagehand.Line) string {
	gutter := rd.lineNumber.Render(lineNumbers(line))

	switch line.Type {
	case stagehand.LineAdded:
		return gutter + rd.added.Render("+"+line.Content)
	case stagehand.LineDeleted:
		return gutter + rd.deleted.Render("-"+line.Content)
	default:
		return gutter + " " + rd.highlight(language, line.Content)
	}
}

// highlight returns content with per-token foreground colors, or the
// content unchanged when highlighting is unavailable.
func (rd *Renderer) highlight(language, content string) string {
	if rd.tokenizer == nil || language == "" {
		return content
	}
	tokens := rd.tokenizer.Tokenize(language, content)
	if tokens == nil {
		return content
	}

	var sb strings.Builder
	for _, tok := range tokens {
		if tok.Color == "" {
			sb.WriteString(tok.Text)
			continue
		}
		sb.WriteString(rd.renderer.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
	}
	return sb.String()
}

// lineNumbers formats the old/new line number gutter. Absent numbers render
// as blanks so the columns stay aligned.
func lineNumbers(line stagehand.Line) string {
	old := "    "
	if line.OldLine > 0 {
		old = fmt.Sprintf("%4d", line.OldLine)
	}
	newer := "    "
	if line.NewLine > 0 {
		newer = fmt.Sprintf("%4d", line.NewLine)
	}
	return old + " " + newer + " "
}
