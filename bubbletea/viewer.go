package bubbletea

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hunklab/stagehand"
	"github.com/hunklab/stagehand/render"
)

// Compile-time interface verification.
var _ stagehand.Viewer = (*Viewer)(nil)

// Viewer runs the interactive staging UI in the terminal.
type Viewer struct {
	stager stagehand.Stager
	lister stagehand.ChangeLister
	rd     *render.Renderer
}

// NewViewer creates a Viewer. A nil renderer falls back to the default.
func NewViewer(stager stagehand.Stager, lister stagehand.ChangeLister, rd *render.Renderer) *Viewer {
	return &Viewer{stager: stager, lister: lister, rd: rd}
}

// View runs the UI until the user quits or ctx is cancelled.
func (v *Viewer) View(ctx context.Context) error {
	var opts []Option
	if v.rd != nil {
		opts = append(opts, WithRenderer(v.rd))
	}
	m := NewModel(v.stager, v.lister, opts...)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run staging ui: %w", err)
	}
	return nil
}
