package ports

import (
	"context"
	"time"

	"apidrift/internal/findings"
	"apidrift/internal/pairs"
	"apidrift/internal/sig"
)

// SignatureExtractor abstracts per-language extraction of public API surfaces.
type SignatureExtractor interface {
	Extract(path string, source string) (*sig.Set, error)
}

// PairSource yields old/new revisions of changed files for a comparison run.
type PairSource interface {
	Pairs(ctx context.Context) ([]pairs.FilePair, error)
}

// RunRecord summarizes one persisted comparison run.
type RunRecord struct {
	ID           string
	BaseRev      string
	HeadRev      string
	FilesScanned int
	FindingCount int
	StartedAt    time.Time
}

// HistoryStore abstracts run persistence for trend workflows.
type HistoryStore interface {
	SaveRun(ctx context.Context, run RunRecord, results []findings.Finding) error
	LoadRuns(ctx context.Context, since time.Time) ([]RunRecord, error)
	FindingsForRun(ctx context.Context, runID string) ([]findings.Finding, error)
	Close() error
}

// Reporter renders a completed run's findings to some destination.
type Reporter interface {
	Report(run RunRecord, results []findings.Finding) error
}

// WatchUpdate carries state emitted to driving adapters during watch mode.
type WatchUpdate struct {
	Path     string
	Findings []findings.Finding
	At       time.Time
}

// WatchService exposes watch lifecycle and updates for driving adapters.
type WatchService interface {
	Start(ctx context.Context) error
	Subscribe(handler func(WatchUpdate))
}
