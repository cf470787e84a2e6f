// Package staging orchestrates hunk- and line-granular staging operations
// over a diff source and a patch applier.
package staging

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/hunklab/stagehand"
	"github.com/hunklab/stagehand/unidiff"
)

// Compile-time interface verification.
var _ stagehand.Stager = (*Stager)(nil)

// Stager composes the parser, synthesizer, and applier into the public
// staging surface.
//
// Every mutation re-fetches a fresh diff before acting: hunk and line
// indices are only meaningful against the snapshot that produced them.
// Mutations on one Stager are serialized through a weighted semaphore so
// concurrent callers cannot interleave against the shared index and
// working tree; acquisition honors the caller's context. Reads take no
// lock.
type Stager struct {
	source  stagehand.DiffSource
	applier stagehand.Applier
	parser  stagehand.Parser
	writers *semaphore.Weighted
}

// Option configures a Stager.
type Option func(*Stager)

// WithParser overrides the default unified-diff parser.
func WithParser(p stagehand.Parser) Option {
	return func(s *Stager) { s.parser = p }
}

// New creates a Stager over the given source and applier.
func New(source stagehand.DiffSource, applier stagehand.Applier, opts ...Option) *Stager {
	s := &Stager{
		source:  source,
		applier: applier,
		parser:  unidiff.NewParser(),
		writers: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Unstaged returns the working-tree-vs-index diff for path. An untracked
// file yields a synthetic single-hunk, all-addition diff built from its
// working-tree content.
func (s *Stager) Unstaged(ctx context.Context, path string) (*stagehand.FileDiff, error) {
	return s.fetch(ctx, path, stagehand.UnstagedArea)
}

// Staged returns the index-vs-HEAD diff for path.
func (s *Stager) Staged(ctx context.Context, path string) (*stagehand.FileDiff, error) {
	return s.fetch(ctx, path, stagehand.StagedArea)
}

// StageHunk applies the hunk's captured patch to the index, forward.
func (s *Stager) StageHunk(ctx context.Context, path string, hunk int) error {
	return s.applyHunk(ctx, path, hunk, stagehand.UnstagedArea, stagehand.Index, stagehand.Forward)
}

// UnstageHunk reverse-applies the hunk's captured patch to the index.
func (s *Stager) UnstageHunk(ctx context.Context, path string, hunk int) error {
	return s.applyHunk(ctx, path, hunk, stagehand.StagedArea, stagehand.Index, stagehand.Reverse)
}

// DiscardHunk reverse-applies the hunk's captured patch to the working
// tree.
func (s *Stager) DiscardHunk(ctx context.Context, path string, hunk int) error {
	return s.applyHunk(ctx, path, hunk, stagehand.UnstagedArea, stagehand.WorkingTree, stagehand.Reverse)
}

// StageLines stages only the selected lines of the hunk.
func (s *Stager) StageLines(ctx context.Context, path string, hunk int, lines []int) error {
	return s.applyLines(ctx, path, hunk, lines, stagehand.UnstagedArea, stagehand.Index, stagehand.Forward)
}

// UnstageLines unstages only the selected lines of the hunk.
func (s *Stager) UnstageLines(ctx context.Context, path string, hunk int, lines []int) error {
	return s.applyLines(ctx, path, hunk, lines, stagehand.StagedArea, stagehand.Index, stagehand.Reverse)
}

// DiscardLines discards only the selected lines of the hunk from the
// working tree.
func (s *Stager) DiscardLines(ctx context.Context, path string, hunk int, lines []int) error {
	return s.applyLines(ctx, path, hunk, lines, stagehand.UnstagedArea, stagehand.WorkingTree, stagehand.Reverse)
}

func (s *Stager) applyHunk(ctx context.Context, path string, hunk int, area stagehand.DiffArea, target stagehand.ApplyTarget, direction stagehand.ApplyDirection) error {
	if err := s.writers.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire write lock: %w", err)
	}
	defer s.writers.Release(1)

	fd, err := s.fetch(ctx, path, area)
	if err != nil {
		return err
	}
	h, err := validateHunk(fd, hunk)
	if err != nil {
		return err
	}
	return s.applier.Apply(ctx, h.RawPatch, target, direction)
}

func (s *Stager) applyLines(ctx context.Context, path string, hunk int, lines []int, area stagehand.DiffArea, target stagehand.ApplyTarget, direction stagehand.ApplyDirection) error {
	if err := s.writers.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire write lock: %w", err)
	}
	defer s.writers.Release(1)

	fd, err := s.fetch(ctx, path, area)
	if err != nil {
		return err
	}
	h, err := validateHunk(fd, hunk)
	if err != nil {
		return err
	}
	if err := validateLines(h, lines); err != nil {
		return err
	}

	isNew := fd.Status == stagehand.FileAdded || fd.Status == stagehand.FileUntracked
	patch := unidiff.Synthesize(fd.Path, *h, lines, isNew)
	return s.applier.Apply(ctx, patch, target, direction)
}

// fetch retrieves and parses a fresh diff snapshot for path.
func (s *Stager) fetch(ctx context.Context, path string, area stagehand.DiffArea) (*stagehand.FileDiff, error) {
	if area == stagehand.UnstagedArea {
		untracked, err := s.source.IsUntracked(ctx, path)
		if err != nil {
			return nil, err
		}
		if untracked {
			content, err := s.source.ReadFile(ctx, path)
			if err != nil {
				return nil, fmt.Errorf("read untracked file: %w", err)
			}
			return unidiff.Untracked(path, content), nil
		}
	}

	text, err := s.source.Diff(ctx, path, area)
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(path, strings.NewReader(text))
}

// validateHunk checks the hunk index against the snapshot. Validation
// failures short-circuit before any subprocess is spawned.
func validateHunk(fd *stagehand.FileDiff, hunk int) (*stagehand.Hunk, error) {
	if hunk < 0 || hunk >= len(fd.Hunks) {
		return nil, stagehand.Validationf("hunk index %d out of range [0,%d) for %s", hunk, len(fd.Hunks), fd.Path)
	}
	h := &fd.Hunks[hunk]
	if h.RawPatch == "" {
		return nil, stagehand.Validationf("hunk %d of %s has no captured patch", hunk, fd.Path)
	}
	return h, nil
}

// validateLines checks the line selection against the hunk.
func validateLines(h *stagehand.Hunk, lines []int) error {
	if len(lines) == 0 {
		return stagehand.Validationf("line selection is empty")
	}
	for _, idx := range lines {
		if idx < 0 || idx >= len(h.Lines) {
			return stagehand.Validationf("line index %d out of range [0,%d)", idx, len(h.Lines))
		}
	}
	return nil
}
