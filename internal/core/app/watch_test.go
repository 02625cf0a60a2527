package app

import (
	"context"
	"testing"
	"time"

	"apidrift/internal/core/config"
	"apidrift/internal/core/ports"
	"apidrift/internal/pairs"
	"apidrift/internal/shared/util"
)

func TestWatchService_NotifyFansOut(t *testing.T) {
	a := newTestApp(t, nil, nil)
	s := &watchService{app: a, limiter: util.NewLimiter(1, 2)}

	var first, second []ports.WatchUpdate
	s.Subscribe(func(u ports.WatchUpdate) { first = append(first, u) })
	s.Subscribe(func(u ports.WatchUpdate) { second = append(second, u) })
	s.Subscribe(nil)

	update := ports.WatchUpdate{Path: "src/api.ts", At: time.Now()}
	s.notify(update)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("handlers called %d/%d times, want 1/1", len(first), len(second))
	}
	if first[0].Path != "src/api.ts" {
		t.Errorf("path = %q", first[0].Path)
	}
}

func TestWatchService_StartRequiresBaseline(t *testing.T) {
	a := newTestApp(t, nil, nil)
	if a.Baseline != nil {
		t.Fatal("static source should not carry a baseline")
	}

	err := a.WatchService().Start(context.Background())
	if err == nil {
		t.Fatal("expected error without a git-backed source")
	}
}

func TestWatchService_BaselineFromGitSource(t *testing.T) {
	source := pairs.NewGitSource(t.TempDir(), "HEAD~1", "HEAD")
	a, err := NewApp(config.Default(), source, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Baseline != source {
		t.Error("git source should become the watch baseline")
	}
}
