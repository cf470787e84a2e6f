package gitexec

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// StatusEntry is one changed path from "git status --porcelain".
type StatusEntry struct {
	Path string
	Code string // two-letter porcelain code, trimmed (e.g. "M", "A", "??")
}

// Untracked reports whether the entry is an untracked file.
func (e StatusEntry) Untracked() bool { return e.Code == "??" }

// Status lists changed paths under the repository root, sorted by path.
// Rename entries report the new path.
func (s *Source) Status(ctx context.Context) ([]StatusEntry, error) {
	out, err := s.r.Run(ctx, s.root, "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	var entries []StatusEntry
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 3 {
			continue
		}
		code := strings.TrimSpace(line[:2])
		rawPath := strings.TrimSpace(line[3:])
		if code == "" || rawPath == "" {
			continue
		}
		entries = append(entries, StatusEntry{Path: statusPath(code, rawPath), Code: code})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan git status: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// statusPath resolves the path field of one porcelain entry. Only rename and
// copy entries carry an " -> " separator, and each side is unquoted before
// the separator is looked for, so a path whose name literally contains
// " -> " stays intact.
func statusPath(code, raw string) string {
	if !strings.ContainsAny(code, "RC") {
		return unquotePath(raw)
	}
	_, rest := cutQuotedPath(raw)
	if after, ok := strings.CutPrefix(rest, " -> "); ok {
		return unquotePath(after)
	}
	if i := strings.Index(raw, " -> "); i >= 0 {
		return unquotePath(raw[i+len(" -> "):])
	}
	return unquotePath(raw)
}

// unquotePath decodes a C-style quoted path as emitted by git for names with
// special characters. Unquoted input is returned as is.
func unquotePath(s string) string {
	if strings.HasPrefix(s, "\"") {
		if decoded, err := strconv.Unquote(s); err == nil {
			return decoded
		}
	}
	return s
}

// cutQuotedPath consumes one quoted path from the front of s, returning the
// decoded path and the remainder. For unquoted input the whole string is the
// path and the remainder is empty.
func cutQuotedPath(s string) (string, string) {
	if !strings.HasPrefix(s, "\"") {
		return s, ""
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			if decoded, err := strconv.Unquote(s[:i+1]); err == nil {
				return decoded, s[i+1:]
			}
			return s[:i+1], s[i+1:]
		}
	}
	return s, ""
}

// Changed returns the changed paths, sorted and without duplicates. A path
// with both staged and unstaged modifications appears once.
func (s *Source) Changed(ctx context.Context) ([]string, error) {
	entries, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if len(paths) > 0 && paths[len(paths)-1] == e.Path {
			continue
		}
		paths = append(paths, e.Path)
	}
	return paths, nil
}
