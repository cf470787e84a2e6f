// Package mock provides test doubles for the stagehand interfaces.
package mock

import (
	"context"

	"github.com/hunklab/stagehand"
)

// Compile-time interface verification.
var (
	_ stagehand.DiffSource       = (*DiffSource)(nil)
	_ stagehand.Applier          = (*Applier)(nil)
	_ stagehand.Stager           = (*Stager)(nil)
	_ stagehand.ChangeLister     = (*ChangeLister)(nil)
	_ stagehand.Tokenizer        = (*Tokenizer)(nil)
	_ stagehand.LanguageDetector = (*LanguageDetector)(nil)
)

// DiffSource implements stagehand.DiffSource for testing.
type DiffSource struct {
	DiffFn        func(ctx context.Context, path string, area stagehand.DiffArea) (string, error)
	IsUntrackedFn func(ctx context.Context, path string) (bool, error)
	ReadFileFn    func(ctx context.Context, path string) ([]byte, error)
}

func (m *DiffSource) Diff(ctx context.Context, path string, area stagehand.DiffArea) (string, error) {
	return m.DiffFn(ctx, path, area)
}

func (m *DiffSource) IsUntracked(ctx context.Context, path string) (bool, error) {
	if m.IsUntrackedFn == nil {
		return false, nil
	}
	return m.IsUntrackedFn(ctx, path)
}

func (m *DiffSource) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return m.ReadFileFn(ctx, path)
}

// Applier implements stagehand.Applier for testing.
type Applier struct {
	ApplyFn func(ctx context.Context, patch string, target stagehand.ApplyTarget, direction stagehand.ApplyDirection) error
}

func (m *Applier) Apply(ctx context.Context, patch string, target stagehand.ApplyTarget, direction stagehand.ApplyDirection) error {
	return m.ApplyFn(ctx, patch, target, direction)
}

// Stager implements stagehand.Stager for testing.
type Stager struct {
	UnstagedFn     func(ctx context.Context, path string) (*stagehand.FileDiff, error)
	StagedFn       func(ctx context.Context, path string) (*stagehand.FileDiff, error)
	StageHunkFn    func(ctx context.Context, path string, hunk int) error
	UnstageHunkFn  func(ctx context.Context, path string, hunk int) error
	DiscardHunkFn  func(ctx context.Context, path string, hunk int) error
	StageLinesFn   func(ctx context.Context, path string, hunk int, lines []int) error
	UnstageLinesFn func(ctx context.Context, path string, hunk int, lines []int) error
	DiscardLinesFn func(ctx context.Context, path string, hunk int, lines []int) error
}

func (m *Stager) Unstaged(ctx context.Context, path string) (*stagehand.FileDiff, error) {
	return m.UnstagedFn(ctx, path)
}

func (m *Stager) Staged(ctx context.Context, path string) (*stagehand.FileDiff, error) {
	return m.StagedFn(ctx, path)
}

func (m *Stager) StageHunk(ctx context.Context, path string, hunk int) error {
	return m.StageHunkFn(ctx, path, hunk)
}

func (m *Stager) UnstageHunk(ctx context.Context, path string, hunk int) error {
	return m.UnstageHunkFn(ctx, path, hunk)
}

func (m *Stager) DiscardHunk(ctx context.Context, path string, hunk int) error {
	return m.DiscardHunkFn(ctx, path, hunk)
}

func (m *Stager) StageLines(ctx context.Context, path string, hunk int, lines []int) error {
	return m.StageLinesFn(ctx, path, hunk, lines)
}

func (m *Stager) UnstageLines(ctx context.Context, path string, hunk int, lines []int) error {
	return m.UnstageLinesFn(ctx, path, hunk, lines)
}

func (m *Stager) DiscardLines(ctx context.Context, path string, hunk int, lines []int) error {
	return m.DiscardLinesFn(ctx, path, hunk, lines)
}

// ChangeLister implements stagehand.ChangeLister for testing.
type ChangeLister struct {
	ChangedFn func(ctx context.Context) ([]string, error)
}

func (m *ChangeLister) Changed(ctx context.Context) ([]string, error) {
	return m.ChangedFn(ctx)
}

// Tokenizer implements stagehand.Tokenizer for testing.
type Tokenizer struct {
	TokenizeFn func(language, source string) []stagehand.Token
}

func (m *Tokenizer) Tokenize(language, source string) []stagehand.Token {
	return m.TokenizeFn(language, source)
}

// LanguageDetector implements stagehand.LanguageDetector for testing.
type LanguageDetector struct {
	DetectFromPathFn func(path string) string
}

func (m *LanguageDetector) DetectFromPath(path string) string {
	return m.DetectFromPathFn(path)
}
