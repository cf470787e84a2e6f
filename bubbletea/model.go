// Package bubbletea provides an interactive terminal UI for staging changes.
package bubbletea

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hunklab/stagehand"
	"github.com/hunklab/stagehand/render"
)

// Messages produced by the model's commands.
type (
	filesLoadedMsg struct {
		files []string
		err   error
	}
	diffLoadedMsg struct {
		diff *stagehand.FileDiff
		err  error
	}
	appliedMsg struct {
		err error
	}
)

// Model is the interactive staging UI. It browses changed files, navigates
// hunks, and stages, unstages or discards the hunk or lines under the
// cursor. Every mutation re-fetches the diff, so hunk indexes never go
// stale.
type Model struct {
	stager stagehand.Stager
	lister stagehand.ChangeLister
	rd     *render.Renderer

	files   []string
	fileIdx int
	area    stagehand.DiffArea
	diff    *stagehand.FileDiff

	hunkIdx    int
	lineMode   bool
	lineCursor int
	selected   map[int]bool

	confirming bool
	notice     string

	vp     viewport.Model
	width  int
	height int
	ready  bool
}

// Option configures a Model.
type Option func(*Model)

// WithRenderer sets the diff renderer used for display.
func WithRenderer(rd *render.Renderer) Option {
	return func(m *Model) { m.rd = rd }
}

// NewModel creates the staging UI over the given stager and change lister.
func NewModel(stager stagehand.Stager, lister stagehand.ChangeLister, opts ...Option) Model {
	m := Model{
		stager:   stager,
		lister:   lister,
		area:     stagehand.UnstagedArea,
		selected: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.rd == nil {
		m.rd = render.New()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadFiles()
}

func (m Model) loadFiles() tea.Cmd {
	return func() tea.Msg {
		files, err := m.lister.Changed(context.Background())
		return filesLoadedMsg{files: files, err: err}
	}
}

func (m Model) loadDiff() tea.Cmd {
	if len(m.files) == 0 {
		return nil
	}
	path := m.files[m.fileIdx]
	area := m.area
	return func() tea.Msg {
		var diff *stagehand.FileDiff
		var err error
		if area == stagehand.StagedArea {
			diff, err = m.stager.Staged(context.Background(), path)
		} else {
			diff, err = m.stager.Unstaged(context.Background(), path)
		}
		return diffLoadedMsg{diff: diff, err: err}
	}
}

func apply(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return appliedMsg{err: op(context.Background())}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := msg.Height - chromeHeight
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, bodyHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = bodyHeight
		}
		m.rebuild()
		return m, nil

	case filesLoadedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		return m.setFiles(msg.files)

	case diffLoadedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.diff = msg.diff
		m.clampCursors()
		m.rebuild()
		return m, nil

	case appliedMsg:
		m.lineMode = false
		m.selected = make(map[int]bool)
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.notice = ""
		return m, tea.Batch(m.loadFiles(), m.loadDiff())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// chromeHeight is the number of rows used by the header and footer.
const chromeHeight = 2

func (m Model) setFiles(files []string) (tea.Model, tea.Cmd) {
	var current string
	if len(m.files) > 0 {
		current = m.files[m.fileIdx]
	}
	m.files = files

	if len(files) == 0 {
		m.fileIdx = 0
		m.diff = nil
		m.rebuild()
		return m, nil
	}

	m.fileIdx = 0
	for i, f := range files {
		if f == current {
			m.fileIdx = i
			break
		}
	}
	return m, m.loadDiff()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		if msg.String() == "y" {
			return m.discard()
		}
		m.notice = ""
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.area == stagehand.UnstagedArea {
			m.area = stagehand.StagedArea
		} else {
			m.area = stagehand.UnstagedArea
		}
		m.resetCursors()
		return m, m.loadDiff()

	case "left", "h":
		return m.moveFile(-1)
	case "right", "l":
		return m.moveFile(1)

	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil

	case "v":
		if m.currentHunk() == nil {
			return m, nil
		}
		m.lineMode = !m.lineMode
		m.lineCursor = 0
		m.selected = make(map[int]bool)
		m.rebuild()
		return m, nil

	case " ":
		if !m.lineMode {
			return m, nil
		}
		m.selected[m.lineCursor] = !m.selected[m.lineCursor]
		m.rebuild()
		return m, nil

	case "s":
		return m.stage()
	case "u":
		return m.unstage()
	case "d":
		if m.area != stagehand.UnstagedArea || m.currentHunk() == nil {
			return m, nil
		}
		m.confirming = true
		if m.lineMode {
			m.notice = "discard selected lines? (y/n)"
		} else {
			m.notice = "discard hunk? (y/n)"
		}
		return m, nil

	case "r":
		return m, tea.Batch(m.loadFiles(), m.loadDiff())
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) moveFile(delta int) (tea.Model, tea.Cmd) {
	if len(m.files) == 0 {
		return m, nil
	}
	next := m.fileIdx + delta
	if next < 0 || next >= len(m.files) {
		return m, nil
	}
	m.fileIdx = next
	m.resetCursors()
	return m, m.loadDiff()
}

func (m *Model) moveCursor(delta int) {
	hunk := m.currentHunk()
	if hunk == nil {
		return
	}
	if m.lineMode {
		next := m.lineCursor + delta
		if next >= 0 && next < len(hunk.Lines) {
			m.lineCursor = next
		}
	} else {
		next := m.hunkIdx + delta
		if next >= 0 && next < len(m.diff.Hunks) {
			m.hunkIdx = next
		}
	}
	m.rebuild()
}

func (m Model) stage() (tea.Model, tea.Cmd) {
	if m.area != stagehand.UnstagedArea || m.currentHunk() == nil {
		m.notice = "staging works in the unstaged view (tab to switch)"
		return m, nil
	}
	path, hunk := m.files[m.fileIdx], m.hunkIdx
	if m.lineMode {
		lines := m.selectedLines()
		if len(lines) == 0 {
			m.notice = "no lines selected (space to select)"
			return m, nil
		}
		return m, apply(func(ctx context.Context) error {
			return m.stager.StageLines(ctx, path, hunk, lines)
		})
	}
	return m, apply(func(ctx context.Context) error {
		return m.stager.StageHunk(ctx, path, hunk)
	})
}

func (m Model) unstage() (tea.Model, tea.Cmd) {
	if m.area != stagehand.StagedArea || m.currentHunk() == nil {
		m.notice = "unstaging works in the staged view (tab to switch)"
		return m, nil
	}
	path, hunk := m.files[m.fileIdx], m.hunkIdx
	if m.lineMode {
		lines := m.selectedLines()
		if len(lines) == 0 {
			m.notice = "no lines selected (space to select)"
			return m, nil
		}
		return m, apply(func(ctx context.Context) error {
			return m.stager.UnstageLines(ctx, path, hunk, lines)
		})
	}
	return m, apply(func(ctx context.Context) error {
		return m.stager.UnstageHunk(ctx, path, hunk)
	})
}

func (m Model) discard() (tea.Model, tea.Cmd) {
	path, hunk := m.files[m.fileIdx], m.hunkIdx
	if m.lineMode {
		lines := m.selectedLines()
		if len(lines) == 0 {
			m.notice = "no lines selected (space to select)"
			return m, nil
		}
		return m, apply(func(ctx context.Context) error {
			return m.stager.DiscardLines(ctx, path, hunk, lines)
		})
	}
	return m, apply(func(ctx context.Context) error {
		return m.stager.DiscardHunk(ctx, path, hunk)
	})
}

func (m Model) selectedLines() []int {
	lines := make([]int, 0, len(m.selected))
	for idx, on := range m.selected {
		if on {
			lines = append(lines, idx)
		}
	}
	sort.Ints(lines)
	return lines
}

func (m Model) currentHunk() *stagehand.Hunk {
	if m.diff == nil || m.hunkIdx >= len(m.diff.Hunks) {
		return nil
	}
	return &m.diff.Hunks[m.hunkIdx]
}

func (m *Model) resetCursors() {
	m.hunkIdx = 0
	m.lineMode = false
	m.lineCursor = 0
	m.selected = make(map[int]bool)
	m.notice = ""
}

func (m *Model) clampCursors() {
	if m.diff == nil || len(m.diff.Hunks) == 0 {
		m.hunkIdx = 0
		m.lineMode = false
		m.lineCursor = 0
		return
	}
	if m.hunkIdx >= len(m.diff.Hunks) {
		m.hunkIdx = len(m.diff.Hunks) - 1
	}
	if n := len(m.diff.Hunks[m.hunkIdx].Lines); m.lineCursor >= n {
		m.lineCursor = 0
	}
}

// rebuild recomposes the viewport content and keeps the cursor row visible.
func (m *Model) rebuild() {
	if !m.ready {
		return
	}
	if m.diff == nil || len(m.diff.Hunks) == 0 {
		m.vp.SetContent("no changes")
		return
	}

	var b strings.Builder
	cursorRow := 0
	row := 0
	for i, h := range m.diff.Hunks {
		onHunk := i == m.hunkIdx
		marker := "  "
		if onHunk && !m.lineMode {
			marker = "▸ "
			cursorRow = row
		}
		b.WriteString(marker + m.rd.HunkHeader(h) + "\n")
		row++

		for j, rendered := range m.rd.HunkLines(m.diff.Path, display(h)) {
			prefix := "  "
			if onHunk && m.lineMode {
				cur, sel := " ", " "
				if j == m.lineCursor {
					cur = "▸"
					cursorRow = row
				}
				if m.selected[j] {
					sel = "●"
				}
				prefix = cur + sel
			}
			b.WriteString(prefix + rendered + "\n")
			row++
		}
	}
	m.vp.SetContent(b.String())

	if cursorRow < m.vp.YOffset {
		m.vp.SetYOffset(cursorRow)
	} else if cursorRow >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(cursorRow - m.vp.Height + 1)
	}
}

// display returns a copy of the hunk with tab characters expanded, so the
// line-number gutters stay aligned in the viewport.
func display(h stagehand.Hunk) stagehand.Hunk {
	needsExpand := false
	for _, line := range h.Lines {
		if strings.ContainsRune(line.Content, '\t') {
			needsExpand = true
			break
		}
	}
	if !needsExpand {
		return h
	}

	lines := make([]stagehand.Line, len(h.Lines))
	copy(lines, h.Lines)
	for i := range lines {
		lines[i].Content = expandTabs(lines[i].Content)
	}
	h.Lines = lines
	return h
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	title := m.header()
	rule := ""
	if w := m.width - DisplayWidth(title); w > 0 {
		rule = " " + strings.Repeat("─", w-1)
	}

	return title + rule + "\n" + m.vp.View() + "\n" + m.footer()
}

func (m Model) header() string {
	area := "unstaged"
	if m.area == stagehand.StagedArea {
		area = "staged"
	}
	if len(m.files) == 0 {
		return fmt.Sprintf("stagehand · %s · no changed files", area)
	}
	return fmt.Sprintf("stagehand · %s · %s (%d/%d)",
		area, m.files[m.fileIdx], m.fileIdx+1, len(m.files))
}

func (m Model) footer() string {
	if m.notice != "" {
		return m.notice
	}
	help := "tab area · h/l file · j/k move · s stage · u unstage · d discard · v lines · q quit"
	if m.lineMode {
		help = "j/k move · space select · s stage · u unstage · d discard · v exit lines"
	}
	return lipgloss.NewStyle().Faint(true).Render(help)
}
