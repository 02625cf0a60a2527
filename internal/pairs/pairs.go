// Package pairs builds the old/new file revision pairs a comparison run
// consumes. The git source reads both sides out of the object store so the
// working tree never has to be checked out twice.
package pairs

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	apperrors "apidrift/internal/core/errors"
)

// FilePair is one changed file across two revisions. A nil side means the
// file does not exist at that revision (added or deleted).
type FilePair struct {
	Path       string
	OldContent []byte
	NewContent []byte
}

// GitSource lists changed files between two revisions of a repository and
// loads both revisions of each file.
type GitSource struct {
	Root    string
	BaseRev string
	HeadRev string
}

// NewGitSource builds a source comparing baseRev against headRev in the
// repository at root. An empty headRev compares against the working tree HEAD.
func NewGitSource(root, baseRev, headRev string) *GitSource {
	if headRev == "" {
		headRev = "HEAD"
	}
	return &GitSource{Root: root, BaseRev: baseRev, HeadRev: headRev}
}

// IsGitAvailable reports whether the `git` binary is accessible via PATH.
func IsGitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Pairs returns one FilePair per file changed between BaseRev and HeadRev.
// Renames surface as a delete of the old path and an add of the new path.
func (g *GitSource) Pairs(ctx context.Context) ([]FilePair, error) {
	out, err := g.runGit(ctx, "diff", "--name-status", "--no-renames", g.BaseRev, g.HeadRev)
	if err != nil {
		wrapped := apperrors.Wrap(err, apperrors.CodeInternal, "git diff failed")
		return nil, apperrors.AddContext(wrapped, apperrors.CtxRevision, g.BaseRev)
	}

	var result []FilePair
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		status, path := fields[0], fields[1]

		pair := FilePair{Path: path}
		switch status[0] {
		case 'A':
			pair.NewContent = g.show(ctx, g.HeadRev, path)
		case 'D':
			pair.OldContent = g.show(ctx, g.BaseRev, path)
		case 'M', 'T':
			pair.OldContent = g.show(ctx, g.BaseRev, path)
			pair.NewContent = g.show(ctx, g.HeadRev, path)
		default:
			continue
		}
		result = append(result, pair)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading git diff output: %w", err)
	}
	return result, nil
}

// PairForPath loads a single file's two revisions, for watch-mode reruns.
func (g *GitSource) PairForPath(ctx context.Context, path string, workingTree []byte) FilePair {
	return FilePair{
		Path:       path,
		OldContent: g.show(ctx, g.BaseRev, path),
		NewContent: workingTree,
	}
}

// show returns the file content at rev, or nil when the file does not exist
// there.
func (g *GitSource) show(ctx context.Context, rev, path string) []byte {
	out, err := g.runGit(ctx, "show", rev+":"+path)
	if err != nil {
		return nil
	}
	return out
}

func (g *GitSource) runGit(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", g.Root}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}

// StaticSource serves a fixed pair list, used by tests and one-shot
// comparisons of explicit file pairs.
type StaticSource struct {
	Items []FilePair
}

func (s *StaticSource) Pairs(context.Context) ([]FilePair, error) {
	return s.Items, nil
}
