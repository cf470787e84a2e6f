package gitexec_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunklab/stagehand"
	"github.com/hunklab/stagehand/gitexec"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}
}

// initRepo creates a temp repository with one committed file and returns
// its root along with a helper for further git invocations.
func initRepo(t *testing.T) (string, func(args ...string)) {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	run("init")
	run("config", "user.email", "you@example.com")
	run("config", "user.name", "Your Name")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\ntwo\nthree\n"), 0o644))
	run("add", "a.txt")
	run("commit", "-m", "init")
	return dir, run
}

func TestRunner_CapturesStderr(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir, _ := initRepo(t)
	r := gitexec.NewRunner("")

	_, err := r.Run(context.Background(), dir, "rev-parse", "--verify", "no-such-ref")
	require.Error(t, err)

	var ge *gitexec.GitError
	require.ErrorAs(t, err, &ge)
	assert.NotEmpty(t, ge.Stderr)
}

func TestSource_Diff(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir, run := initRepo(t)
	src := gitexec.NewSource(dir, nil)
	ctx := context.Background()

	// Unstaged modification.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\nTWO\nthree\n"), 0o644))

	unstaged, err := src.Diff(ctx, "a.txt", stagehand.UnstagedArea)
	require.NoError(t, err)
	assert.Contains(t, unstaged, "-two")
	assert.Contains(t, unstaged, "+TWO")

	staged, err := src.Diff(ctx, "a.txt", stagehand.StagedArea)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(staged))

	// After staging, the change moves areas.
	run("add", "a.txt")
	unstaged, err = src.Diff(ctx, "a.txt", stagehand.UnstagedArea)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(unstaged))
	staged, err = src.Diff(ctx, "a.txt", stagehand.StagedArea)
	require.NoError(t, err)
	assert.Contains(t, staged, "+TWO")
}

func TestSource_IsUntracked(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir, _ := initRepo(t)
	src := gitexec.NewSource(dir, nil)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("hi\n"), 0o644))

	untracked, err := src.IsUntracked(ctx, "new.txt")
	require.NoError(t, err)
	assert.True(t, untracked)

	tracked, err := src.IsUntracked(ctx, "a.txt")
	require.NoError(t, err)
	assert.False(t, tracked)
}

func TestSource_ReadFile_ConfinedToRoot(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir, _ := initRepo(t)
	src := gitexec.NewSource(dir, nil)
	ctx := context.Background()

	data, err := src.ReadFile(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(data))

	_, err = src.ReadFile(ctx, "../outside.txt")
	assert.Error(t, err)
}

func TestApplier_FlagMatrix(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir, _ := initRepo(t)
	src := gitexec.NewSource(dir, nil)
	applier := gitexec.NewApplier(dir, nil)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\nTWO\nthree\n"), 0o644))
	patch, err := src.Diff(ctx, "a.txt", stagehand.UnstagedArea)
	require.NoError(t, err)

	// Forward to the index: change becomes staged, worktree untouched.
	require.NoError(t, applier.Apply(ctx, patch, stagehand.Index, stagehand.Forward))
	staged, err := src.Diff(ctx, "a.txt", stagehand.StagedArea)
	require.NoError(t, err)
	assert.Contains(t, staged, "+TWO")

	// Reverse from the index: back to unstaged.
	require.NoError(t, applier.Apply(ctx, patch, stagehand.Index, stagehand.Reverse))
	staged, err = src.Diff(ctx, "a.txt", stagehand.StagedArea)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(staged))

	// Reverse against the working tree: the modification is discarded.
	require.NoError(t, applier.Apply(ctx, patch, stagehand.WorkingTree, stagehand.Reverse))
	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(data))
}

func TestApplier_FailureSurfacesDiagnostic(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir, _ := initRepo(t)
	applier := gitexec.NewApplier(dir, nil)

	bad := "diff --git a/a.txt b/a.txt\n--- a/a.txt\n+++ b/a.txt\n@@ -100,1 +100,1 @@\n-not there\n+still not\n"
	err := applier.Apply(context.Background(), bad, stagehand.Index, stagehand.Forward)
	require.Error(t, err)

	var ae *stagehand.ApplyError
	require.ErrorAs(t, err, &ae)
	assert.NotEmpty(t, ae.Message)
}

func TestSource_Status(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir, run := initRepo(t)
	src := gitexec.NewSource(dir, nil)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("changed\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("new\n"), 0o644))
	run("add", "-N", "b.txt")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("loose\n"), 0o644))

	entries, err := src.Status(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byPath := make(map[string]gitexec.StatusEntry)
	for _, e := range entries {
		byPath[e.Path] = e
	}
	assert.Equal(t, "M", byPath["a.txt"].Code)
	assert.True(t, byPath["c.txt"].Untracked())
}

func TestSource_Status_RenamesAndQuotedPaths(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir, run := initRepo(t)
	src := gitexec.NewSource(dir, nil)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.txt"), []byte("lib\n"), 0o644))
	run("add", "lib.txt")
	run("commit", "-m", "add lib")

	run("mv", "a.txt", "b.txt")
	run("mv", "lib.txt", "sub -> lib.txt")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odd -> name.txt"), []byte("x\n"), 0o644))

	entries, err := src.Status(ctx)
	require.NoError(t, err)

	byPath := make(map[string]gitexec.StatusEntry)
	for _, e := range entries {
		byPath[e.Path] = e
	}

	// Renames report the destination, even when git quotes it.
	assert.Equal(t, "R", byPath["b.txt"].Code)
	assert.NotContains(t, byPath, "a.txt")
	require.Contains(t, byPath, "sub -> lib.txt")
	assert.Equal(t, "R", byPath["sub -> lib.txt"].Code)

	// An untracked name that happens to contain the separator stays whole.
	require.Contains(t, byPath, "odd -> name.txt")
	assert.True(t, byPath["odd -> name.txt"].Untracked())
}

func TestSource_Changed(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir, run := initRepo(t)
	src := gitexec.NewSource(dir, nil)
	ctx := context.Background()

	// a.txt gets both a staged and an unstaged change; it must appear once.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\nTWO\nthree\n"), 0o644))
	run("add", "a.txt")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\nTWO\nthree\nfour\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("new\n"), 0o644))

	paths, err := src.Changed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, paths)
}
