package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"clipscribe/internal/config"
	"clipscribe/internal/segment"
)

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "runs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// SaveRun persists a run and its segments in one transaction.
func (s *Store) SaveRun(ctx context.Context, run *Run, segments []segment.Segment) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, media_path, language, full_text, aggregate_confidence,
            segment_count, low_confidence_count, improvements_applied,
            elapsed_seconds, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.MediaPath,
		run.Language,
		run.FullText,
		run.AggregateConfidence,
		len(segments),
		run.LowConfidenceCount,
		run.ImprovementsApplied,
		run.ElapsedSeconds,
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, seg := range segments {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO run_segments (
                run_id, segment_id, start_seconds, end_seconds, text,
                confidence, tier, avg_log_prob, no_speech_prob
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			seg.ID,
			seg.Start,
			seg.End,
			seg.Text,
			seg.Confidence,
			string(seg.Tier),
			seg.AvgLogProb,
			seg.NoSpeechProb,
		)
		if err != nil {
			return fmt.Errorf("insert segment %d: %w", seg.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

const runColumns = "id, media_path, language, full_text, aggregate_confidence, segment_count, low_confidence_count, improvements_applied, elapsed_seconds, created_at"

// GetRun fetches one run by identifier. A missing run returns (nil, nil).
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first, up to limit (0 means all).
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunSegments returns a run's segments ordered by segment id.
func (s *Store) RunSegments(ctx context.Context, runID string) ([]segment.Segment, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT segment_id, start_seconds, end_seconds, text, confidence, tier, avg_log_prob, no_speech_prob
         FROM run_segments WHERE run_id = ? ORDER BY segment_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segments []segment.Segment
	for rows.Next() {
		var (
			seg     segment.Segment
			tierStr string
		)
		if err := rows.Scan(&seg.ID, &seg.Start, &seg.End, &seg.Text, &seg.Confidence, &tierStr, &seg.AvgLogProb, &seg.NoSpeechProb); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		tier, err := segment.ParseTier(tierStr)
		if err != nil {
			return nil, fmt.Errorf("run %s segment %d: %w", runID, seg.ID, err)
		}
		seg.Tier = tier
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// DeleteRun removes a run and, via the cascade, its segments.
func (s *Store) DeleteRun(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes all runs.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		createdRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.MediaPath,
		&run.Language,
		&run.FullText,
		&run.AggregateConfidence,
		&run.SegmentCount,
		&run.LowConfidenceCount,
		&run.ImprovementsApplied,
		&run.ElapsedSeconds,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	return &run, nil
}
