package render_test

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunklab/stagehand"
	"github.com/hunklab/stagehand/mock"
	"github.com/hunklab/stagehand/render"
)

// trueColorRenderer creates a lipgloss renderer that outputs true colors.
// This is useful for testing color output without affecting global state.
func trueColorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

// plainRenderer creates a renderer that emits no escape sequences, so tests
// can assert on text content directly.
func plainRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return r
}

func testFileDiff() *stagehand.FileDiff {
	return &stagehand.FileDiff{
		Path:      "main.go",
		Status:    stagehand.FileModified,
		Additions: 2,
		Deletions: 1,
		Hunks: []stagehand.Hunk{
			{
				Header:   "@@ -10,3 +10,4 @@ func main()",
				OldStart: 10, OldLines: 3,
				NewStart: 10, NewLines: 4,
				Lines: []stagehand.Line{
					{Type: stagehand.LineContext, Content: "unchanged", OldLine: 10, NewLine: 10, Index: 0},
					{Type: stagehand.LineDeleted, Content: "removed", OldLine: 11, Index: 1},
					{Type: stagehand.LineAdded, Content: "added one", NewLine: 11, Index: 2},
					{Type: stagehand.LineAdded, Content: "added two", NewLine: 12, Index: 3},
					{Type: stagehand.LineContext, Content: "tail", OldLine: 12, NewLine: 13, Index: 4},
				},
			},
		},
	}
}

func TestRenderer_File(t *testing.T) {
	t.Parallel()

	t.Run("renders header, hunk header and line markers", func(t *testing.T) {
		t.Parallel()

		rd := render.New(render.WithRenderer(plainRenderer()))
		out := rd.File(testFileDiff())

		assert.Contains(t, out, "── main.go")
		assert.Contains(t, out, "+2")
		assert.Contains(t, out, "-1")
		assert.Contains(t, out, "@@ -10,3 +10,4 @@ func main()")
		assert.Contains(t, out, "+added one")
		assert.Contains(t, out, "-removed")
		assert.Contains(t, out, " unchanged")
	})

	t.Run("renders line number gutters", func(t *testing.T) {
		t.Parallel()

		rd := render.New(render.WithRenderer(plainRenderer()))
		out := rd.File(testFileDiff())

		// Context line carries both numbers, added lines only the new one.
		assert.Contains(t, out, "  10   10  unchanged")
		assert.Contains(t, out, "       11 +added one")
		assert.Contains(t, out, "  11      -removed")
	})

	t.Run("marks binary files without hunks", func(t *testing.T) {
		t.Parallel()

		rd := render.New(render.WithRenderer(plainRenderer()))
		out := rd.File(&stagehand.FileDiff{Path: "logo.png", Status: stagehand.FileModified, IsBinary: true})

		assert.Contains(t, out, "── logo.png")
		assert.Contains(t, out, "binary file")
		assert.NotContains(t, out, "@@")
	})

	t.Run("shows rename origin and new-file suffix", func(t *testing.T) {
		t.Parallel()

		rd := render.New(render.WithRenderer(plainRenderer()))

		renamed := rd.FileHeader(&stagehand.FileDiff{
			Path: "new_name.go", OldPath: "old_name.go", Status: stagehand.FileRenamed,
		})
		assert.Contains(t, renamed, "old_name.go → new_name.go")

		untracked := rd.FileHeader(&stagehand.FileDiff{
			Path: "fresh.go", Status: stagehand.FileUntracked,
		})
		assert.Contains(t, untracked, "fresh.go (new)")
	})
}

func TestRenderer_Highlighting(t *testing.T) {
	t.Parallel()

	t.Run("applies token colors to context lines", func(t *testing.T) {
		t.Parallel()

		tok := &mock.Tokenizer{
			TokenizeFn: func(language, source string) []stagehand.Token {
				require.Equal(t, "Go", language)
				return []stagehand.Token{{Text: source, Color: "#c678dd"}}
			},
		}
		det := &mock.LanguageDetector{
			DetectFromPathFn: func(path string) string { return "Go" },
		}

		rd := render.New(
			render.WithRenderer(trueColorRenderer()),
			render.WithHighlighting(tok, det),
		)
		lines := rd.HunkLines("main.go", testFileDiff().Hunks[0])

		require.Len(t, lines, 5)
		// Context lines go through the tokenizer and carry its color.
		assert.Contains(t, lines[0], "\x1b[")
		assert.Contains(t, stripped(lines[0]), "unchanged")
	})

	t.Run("falls back to plain content when language is unknown", func(t *testing.T) {
		t.Parallel()

		tok := &mock.Tokenizer{
			TokenizeFn: func(language, source string) []stagehand.Token {
				t.Fatal("tokenizer should not be called for unknown language")
				return nil
			},
		}
		det := &mock.LanguageDetector{
			DetectFromPathFn: func(path string) string { return "" },
		}

		rd := render.New(
			render.WithRenderer(plainRenderer()),
			render.WithHighlighting(tok, det),
		)
		lines := rd.HunkLines("data.zzz", testFileDiff().Hunks[0])

		require.Len(t, lines, 5)
		assert.Contains(t, lines[0], "unchanged")
	})
}

// stripped removes ANSI escape sequences for content assertions.
func stripped(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
