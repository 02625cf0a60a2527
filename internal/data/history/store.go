package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"apidrift/internal/core/ports"
	"apidrift/internal/findings"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Store persists comparison runs and their findings in sqlite.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// NewRunID returns a fresh identifier for a comparison run.
func NewRunID() string {
	return uuid.NewString()
}

func (s *Store) SaveRun(ctx context.Context, run ports.RunRecord, results []findings.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.ID) == "" {
		run.ID = NewRunID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.FindingCount = len(results)

	return s.withRetry("save run", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (id, base_rev, head_rev, files_scanned, finding_count, started_at_utc)
VALUES (?, ?, ?, ?, ?, ?)
`, run.ID, run.BaseRev, run.HeadRev, run.FilesScanned, run.FindingCount,
			run.StartedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			_ = tx.Rollback()
			return err
		}

		for _, f := range results {
			metadata := ""
			if len(f.Metadata) > 0 {
				raw, err := json.Marshal(f.Metadata)
				if err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("marshal finding metadata: %w", err)
				}
				metadata = string(raw)
			}
			if _, err := tx.ExecContext(ctx, `
INSERT INTO findings (run_id, type, severity, title, description, file_path, remediation, metadata_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, run.ID, f.Type, f.Severity, f.Title, f.Description, f.FilePath, f.Remediation, metadata); err != nil {
				_ = tx.Rollback()
				return err
			}
		}

		return tx.Commit()
	})
}

func (s *Store) LoadRuns(ctx context.Context, since time.Time) ([]ports.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT id, base_rev, head_rev, files_scanned, finding_count, started_at_utc
FROM runs
`
	args := make([]any, 0, 1)
	if !since.IsZero() {
		query += " WHERE started_at_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY started_at_utc ASC"

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]ports.RunRecord, 0)
	for rows.Next() {
		var (
			run   ports.RunRecord
			tsRaw string
		)
		if err := rows.Scan(&run.ID, &run.BaseRev, &run.HeadRev, &run.FilesScanned, &run.FindingCount, &tsRaw); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.StartedAt = ts.UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

func (s *Store) FindingsForRun(ctx context.Context, runID string) ([]findings.Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load findings", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, `
SELECT type, severity, title, description, file_path, remediation, metadata_json
FROM findings WHERE run_id = ? ORDER BY id ASC
`, runID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]findings.Finding, 0)
	for rows.Next() {
		var (
			f        findings.Finding
			metadata string
		)
		if err := rows.Scan(&f.Type, &f.Severity, &f.Title, &f.Description, &f.FilePath, &f.Remediation, &metadata); err != nil {
			return nil, fmt.Errorf("scan finding row: %w", err)
		}
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &f.Metadata); err != nil {
				return nil, fmt.Errorf("parse finding metadata: %w", err)
			}
		}
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finding rows: %w", err)
	}
	return results, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
