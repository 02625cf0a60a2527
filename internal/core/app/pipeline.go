package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/trace"

	"apidrift/internal/engine/diff"
	"apidrift/internal/extract"
	"apidrift/internal/findings"
	"apidrift/internal/openapi"
	"apidrift/internal/pairs"
	"apidrift/internal/shared/observability"
	"apidrift/internal/sig"
)

// ComparePair runs one file pair through the pipeline. Unsupported files,
// one-sided pairs, and unparseable revisions are skipped, never fatal: a
// file the pipeline cannot judge produces no findings.
func (a *App) ComparePair(ctx context.Context, pair pairs.FilePair) []findings.Finding {
	ctx, span := observability.Tracer.Start(ctx, "app.ComparePair", trace.WithAttributes())
	defer span.End()

	observability.FilesComparedTotal.Inc()

	if pair.OldContent == nil || pair.NewContent == nil {
		observability.FilesSkippedTotal.WithLabelValues("one-sided").Inc()
		return nil
	}

	if a.isOpenAPIPath(pair.Path) {
		results, err := openapi.Diff(pair.Path, pair.OldContent, pair.NewContent)
		if err != nil {
			slog.Warn("skipping unparseable openapi document", "path", pair.Path, "error", err)
			observability.FilesSkippedTotal.WithLabelValues("parse-error").Inc()
			return nil
		}
		a.countFindings(results)
		return results
	}

	extractors := a.Registry.ForPath(pair.Path)
	if len(extractors) == 0 {
		observability.FilesSkippedTotal.WithLabelValues("unsupported").Inc()
		return nil
	}
	// Several extractors can claim a path (wildcards, overrides). The
	// first-registered claimant judges the file; the rest never run.
	extractor := extractors[0]

	oldSet, ok := a.extractSide(extractor, pair.Path, pair.OldContent, "old")
	if !ok {
		return nil
	}
	newSet, ok := a.extractSide(extractor, pair.Path, pair.NewContent, "new")
	if !ok {
		return nil
	}

	start := time.Now()
	changes := diff.Diff(oldSet, newSet)
	observability.DiffDuration.Observe(time.Since(start).Seconds())

	for _, change := range changes {
		observability.FindingsTotal.WithLabelValues(string(change.Kind)).Inc()
	}

	return findings.Synthesize(pair.Path, changes)
}

func (a *App) extractSide(extractor extract.Extractor, path string, content []byte, side string) (*sig.Set, bool) {
	start := time.Now()
	set, err := extractor.Extract(path, string(content))
	observability.ExtractionDuration.WithLabelValues(extractor.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Warn("skipping unparseable revision", "path", path, "side", side, "language", extractor.Name(), "error", err)
		observability.FilesSkippedTotal.WithLabelValues("parse-error").Inc()
		return nil, false
	}
	return set, true
}

func (a *App) isOpenAPIPath(path string) bool {
	if len(a.openapiGlobs) == 0 {
		return false
	}
	normalized := filepath.ToSlash(path)
	base := filepath.Base(normalized)
	for _, g := range a.openapiGlobs {
		if g.Match(normalized) || g.Match(base) {
			return true
		}
	}
	return false
}

func (a *App) countFindings(results []findings.Finding) {
	for range results {
		observability.FindingsTotal.WithLabelValues("openapi").Inc()
	}
}
