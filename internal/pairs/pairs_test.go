package pairs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestIsGitAvailable(t *testing.T) {
	// Informational; we do not fail the test if git is absent.
	t.Logf("IsGitAvailable() = %v", IsGitAvailable())
}

func TestStaticSource(t *testing.T) {
	src := &StaticSource{Items: []FilePair{
		{Path: "a.ts", OldContent: []byte("old"), NewContent: []byte("new")},
	}}
	got, err := src.Pairs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Path != "a.ts" {
		t.Fatalf("unexpected pairs: %+v", got)
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	if !IsGitAvailable() {
		t.Skip("git not available")
	}
	root := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", root}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-q", "-b", "main")
	return root
}

func TestGitSource_Pairs(t *testing.T) {
	root := initRepo(t)

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	commit := func(msg string) {
		t.Helper()
		for _, args := range [][]string{{"add", "-A"}, {"commit", "-q", "-m", msg}} {
			cmd := exec.Command("git", append([]string{"-C", root}, args...)...)
			cmd.Env = append(os.Environ(),
				"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
				"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
			)
			if out, err := cmd.CombinedOutput(); err != nil {
				t.Fatalf("git %v: %v\n%s", args, err, out)
			}
		}
	}

	write("api.ts", "export function greet(name: string): void {}\n")
	write("gone.ts", "export function f(): void {}\n")
	commit("base")

	write("api.ts", "export function greet(name: number): void {}\n")
	write("fresh.ts", "export function g(): void {}\n")
	if err := os.Remove(filepath.Join(root, "gone.ts")); err != nil {
		t.Fatal(err)
	}
	commit("head")

	src := NewGitSource(root, "HEAD~1", "HEAD")
	got, err := src.Pairs(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	byPath := make(map[string]FilePair, len(got))
	for _, p := range got {
		byPath[p.Path] = p
	}

	mod, ok := byPath["api.ts"]
	if !ok {
		t.Fatal("api.ts missing from pairs")
	}
	if mod.OldContent == nil || mod.NewContent == nil {
		t.Error("modified file should carry both sides")
	}

	added, ok := byPath["fresh.ts"]
	if !ok {
		t.Fatal("fresh.ts missing from pairs")
	}
	if added.OldContent != nil || added.NewContent == nil {
		t.Error("added file should carry only the new side")
	}

	deleted, ok := byPath["gone.ts"]
	if !ok {
		t.Fatal("gone.ts missing from pairs")
	}
	if deleted.OldContent == nil || deleted.NewContent != nil {
		t.Error("deleted file should carry only the old side")
	}
}

func TestGitSource_DefaultHead(t *testing.T) {
	src := NewGitSource("/tmp", "main", "")
	if src.HeadRev != "HEAD" {
		t.Errorf("HeadRev = %q, want HEAD", src.HeadRev)
	}
}
