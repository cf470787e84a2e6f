// Command stagehand stages, unstages and discards changes at hunk and line
// granularity, and provides an interactive staging UI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hunklab/stagehand"
	"github.com/hunklab/stagehand/bubbletea"
	"github.com/hunklab/stagehand/chroma"
	"github.com/hunklab/stagehand/config"
	"github.com/hunklab/stagehand/gitexec"
	"github.com/hunklab/stagehand/render"
	"github.com/hunklab/stagehand/staging"
)

// FileOps performs whole-file operations. Hunk- and line-level operations go
// through the stager; whole files are delegated to git directly.
type FileOps interface {
	Stage(ctx context.Context, path string) error
	Unstage(ctx context.Context, path string) error
	Discard(ctx context.Context, path string) error
}

// App wires the subcommands to their dependencies.
type App struct {
	Stager   stagehand.Stager
	Lister   stagehand.ChangeLister
	Files    FileOps
	Viewer   stagehand.Viewer
	Renderer *render.Renderer
	Out      io.Writer
}

// Status prints every changed path with its staged and unstaged change
// counts. Diffs for the two areas are fetched concurrently.
func (a *App) Status(ctx context.Context) error {
	paths, err := a.Lister.Changed(ctx)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(a.Out, "no changes")
		return nil
	}

	type row struct {
		staged   *stagehand.FileDiff
		unstaged *stagehand.FileDiff
	}
	rows := make([]row, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			staged, err := a.Stager.Staged(gctx, path)
			if err != nil {
				return err
			}
			unstaged, err := a.Stager.Unstaged(gctx, path)
			if err != nil {
				return err
			}
			rows[i] = row{staged: staged, unstaged: unstaged}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range paths {
		r := rows[i]
		if r.unstaged != nil && r.unstaged.Status == stagehand.FileUntracked {
			fmt.Fprintf(a.Out, "%s\tuntracked +%d\n", path, r.unstaged.Additions)
			continue
		}
		fmt.Fprintf(a.Out, "%s\tstaged +%d -%d\tunstaged +%d -%d\n",
			path, r.staged.Additions, r.staged.Deletions,
			r.unstaged.Additions, r.unstaged.Deletions)
	}
	return nil
}

// Diff renders the diff for one file to the output.
func (a *App) Diff(ctx context.Context, path string, staged bool) error {
	var diff *stagehand.FileDiff
	var err error
	if staged {
		diff, err = a.Stager.Staged(ctx, path)
	} else {
		diff, err = a.Stager.Unstaged(ctx, path)
	}
	if err != nil {
		return err
	}
	if len(diff.Hunks) == 0 && !diff.IsBinary {
		fmt.Fprintln(a.Out, "no changes")
		return nil
	}
	fmt.Fprint(a.Out, a.Renderer.File(diff))
	return nil
}

// Stage stages a whole file, one hunk, or selected lines of a hunk.
// A negative hunk index means the whole file.
func (a *App) Stage(ctx context.Context, path string, hunk int, lines []int) error {
	switch {
	case hunk < 0:
		return a.Files.Stage(ctx, path)
	case len(lines) > 0:
		return a.Stager.StageLines(ctx, path, hunk, lines)
	default:
		return a.Stager.StageHunk(ctx, path, hunk)
	}
}

// Unstage unstages a whole file, one hunk, or selected lines of a hunk.
func (a *App) Unstage(ctx context.Context, path string, hunk int, lines []int) error {
	switch {
	case hunk < 0:
		return a.Files.Unstage(ctx, path)
	case len(lines) > 0:
		return a.Stager.UnstageLines(ctx, path, hunk, lines)
	default:
		return a.Stager.UnstageHunk(ctx, path, hunk)
	}
}

// Discard reverts a whole file, one hunk, or selected lines of a hunk in
// the working tree.
func (a *App) Discard(ctx context.Context, path string, hunk int, lines []int) error {
	switch {
	case hunk < 0:
		return a.Files.Discard(ctx, path)
	case len(lines) > 0:
		return a.Stager.DiscardLines(ctx, path, hunk, lines)
	default:
		return a.Stager.DiscardHunk(ctx, path, hunk)
	}
}

// TUI runs the interactive staging UI.
func (a *App) TUI(ctx context.Context) error {
	return a.Viewer.View(ctx)
}

// ParseLineList parses a line selection like "1,3-5" into sorted hunk-line
// indexes.
func ParseLineList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, ok := strings.Cut(part, "-")
		if !ok {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q", part)
			}
			seen[n] = true
			continue
		}
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid range %q", part)
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid range %q", part)
		}
		if to < from {
			return nil, fmt.Errorf("descending range %q", part)
		}
		for n := from; n <= to; n++ {
			seen[n] = true
		}
	}

	lines := make([]int, 0, len(seen))
	for n := range seen {
		lines = append(lines, n)
	}
	sort.Ints(lines)
	return lines, nil
}

// NewRootCmd builds the command tree over the app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "stagehand",
		Short:         "Stage, unstage and discard changes at hunk and line granularity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List changed files with staged and unstaged counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Status(cmd.Context())
		},
	})

	diffCmd := &cobra.Command{
		Use:   "diff <file>",
		Short: "Show the diff for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			staged, _ := cmd.Flags().GetBool("staged")
			return app.Diff(cmd.Context(), args[0], staged)
		},
	}
	diffCmd.Flags().Bool("staged", false, "show the staged diff instead of the unstaged one")
	root.AddCommand(diffCmd)

	type hunkOp func(ctx context.Context, path string, hunk int, lines []int) error
	addHunkCmd := func(use, short string, op hunkOp) {
		cmd := &cobra.Command{
			Use:   use + " <file>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hunk, _ := cmd.Flags().GetInt("hunk")
				rawLines, _ := cmd.Flags().GetString("lines")
				lines, err := ParseLineList(rawLines)
				if err != nil {
					return err
				}
				if len(lines) > 0 && hunk < 0 {
					return fmt.Errorf("--lines requires --hunk")
				}
				return op(cmd.Context(), args[0], hunk, lines)
			},
		}
		cmd.Flags().Int("hunk", -1, "hunk index (0-based); omit for the whole file")
		cmd.Flags().String("lines", "", "line indexes within the hunk, e.g. \"1,3-5\"")
		root.AddCommand(cmd)
	}

	addHunkCmd("stage", "Stage a file, hunk or line selection", app.Stage)
	addHunkCmd("unstage", "Unstage a file, hunk or line selection", app.Unstage)
	addHunkCmd("discard", "Discard working-tree changes for a file, hunk or line selection", app.Discard)

	root.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Browse and stage changes interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.TUI(cmd.Context())
		},
	})

	return root
}

// gitFileOps delegates whole-file operations to git.
type gitFileOps struct {
	root string
	r    *gitexec.Runner
}

func (g gitFileOps) Stage(ctx context.Context, path string) error {
	_, err := g.r.Run(ctx, g.root, "add", "--", path)
	return err
}

func (g gitFileOps) Unstage(ctx context.Context, path string) error {
	_, err := g.r.Run(ctx, g.root, "restore", "--staged", "--", path)
	return err
}

func (g gitFileOps) Discard(ctx context.Context, path string) error {
	_, err := g.r.Run(ctx, g.root, "restore", "--", path)
	return err
}

func newApp() (*App, error) {
	cfg, err := config.Load(config.DefaultConfigDir())
	if err != nil {
		return nil, err
	}
	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	runner := gitexec.NewRunner(cfg.GitBin)
	source := gitexec.NewSource(root, runner)
	stager := staging.New(source, gitexec.NewApplier(root, runner))

	var renderOpts []render.Option
	tok := chroma.NewTokenizer()
	if cfg.Color != "never" {
		renderOpts = append(renderOpts, render.WithHighlighting(tok, tok))
	}
	renderer := render.New(renderOpts...)

	return &App{
		Stager:   stager,
		Lister:   source,
		Files:    gitFileOps{root: root, r: runner},
		Viewer:   bubbletea.NewViewer(stager, source, renderer),
		Renderer: renderer,
		Out:      os.Stdout,
	}, nil
}

func main() {
	app, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "stagehand:", err)
		os.Exit(1)
	}
	if err := NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "stagehand:", err)
		os.Exit(1)
	}
}
