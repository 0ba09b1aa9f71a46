package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const jobColumns = "video_id, title, keywords_json, downloaded, transcribed, rejected, reject_reason, artifact_path, transcript_path, last_error, attempts, created_at, updated_at"

// InsertNew inserts jobs awaiting metadata for the provided ids and returns
// the count of rows actually inserted. Ids already tracked are silently
// skipped, making ingestion idempotent.
func (s *Store) InsertNew(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	ctx = ensureContext(ctx)
	var inserted int64
	err := retryOnBusy(ctx, func() error {
		inserted = 0
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin insert tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for _, id := range ids {
			res, err := tx.ExecContext(
				ctx,
				`INSERT OR IGNORE INTO jobs (video_id, created_at, updated_at) VALUES (?, ?, ?)`,
				id,
				now,
				now,
			)
			if err != nil {
				return fmt.Errorf("insert job %q: %w", id, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			inserted += affected
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetByID fetches a job by identifier, or nil when untracked.
func (s *Store) GetByID(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE video_id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// NextForMetadata returns one job awaiting metadata collection, or nil.
func (s *Store) NextForMetadata(ctx context.Context) (*Job, error) {
	return s.nextWhere(ctx, `keywords_json IS NULL`)
}

// NextForDownload returns one accepted job awaiting download, or nil.
func (s *Store) NextForDownload(ctx context.Context) (*Job, error) {
	return s.nextWhere(ctx, `keywords_json IS NOT NULL AND rejected = 0 AND downloaded = 0`)
}

// NextForTranscription returns one downloaded job awaiting transcription, or nil.
func (s *Store) NextForTranscription(ctx context.Context) (*Job, error) {
	return s.nextWhere(ctx, `downloaded = 1 AND transcribed = 0`)
}

func (s *Store) nextWhere(ctx context.Context, predicate string) (*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + predicate + ` ORDER BY created_at LIMIT 1`
	row := s.db.QueryRowContext(ensureContext(ctx), query)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next job: %w", err)
	}
	return job, nil
}

// RecordMetadata sets the job's title and keywords exactly once.
func (s *Store) RecordMetadata(ctx context.Context, id, title string, keywords []string) error {
	if keywords == nil {
		keywords = []string{}
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs
         SET title = ?, keywords_json = ?, last_error = NULL, updated_at = ?
         WHERE video_id = ? AND keywords_json IS NULL`,
		title,
		string(keywordsJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("record metadata: %w", err)
	}
	return s.guardOutcome(ctx, res, id)
}

// RecordRejected marks the job rejected with a reason. Rejection is a one-way
// terminal transition reachable only before download starts.
func (s *Store) RecordRejected(ctx context.Context, id, reason string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs
         SET rejected = 1, reject_reason = ?, last_error = NULL, updated_at = ?
         WHERE video_id = ? AND rejected = 0 AND downloaded = 0 AND transcribed = 0`,
		reason,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("record rejected: %w", err)
	}
	return s.guardOutcome(ctx, res, id)
}

// RecordDownloaded marks the job downloaded and stores the artifact location.
func (s *Store) RecordDownloaded(ctx context.Context, id, artifactPath string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs
         SET downloaded = 1, artifact_path = ?, last_error = NULL, updated_at = ?
         WHERE video_id = ? AND keywords_json IS NOT NULL AND rejected = 0 AND downloaded = 0`,
		nullableString(artifactPath),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("record downloaded: %w", err)
	}
	return s.guardOutcome(ctx, res, id)
}

// RecordTranscribed marks the job transcribed and stores the transcript location.
func (s *Store) RecordTranscribed(ctx context.Context, id, transcriptPath string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs
         SET transcribed = 1, transcript_path = ?, last_error = NULL, updated_at = ?
         WHERE video_id = ? AND downloaded = 1 AND transcribed = 0`,
		nullableString(transcriptPath),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("record transcribed: %w", err)
	}
	return s.guardOutcome(ctx, res, id)
}

// RecordFailure stores the latest collaborator error and bumps the attempt
// counter. Eligibility is unchanged: the job re-enters the same selector on
// the next poll cycle.
func (s *Store) RecordFailure(ctx context.Context, id, message string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs SET last_error = ?, attempts = attempts + 1, updated_at = ? WHERE video_id = ?`,
		message,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("record failure: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// guardOutcome distinguishes an unknown id from a guarded transition that
// did not apply.
func (s *Store) guardOutcome(ctx context.Context, res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return fmt.Errorf("%w: %s is %s", ErrInvalidTransition, id, existing.State())
}

// List returns jobs filtered by derived state set (or all jobs when no state
// is provided), ordered by creation time.
func (s *Store) List(ctx context.Context, states ...State) ([]*Job, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+jobColumns+` FROM jobs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var wanted map[State]struct{}
	if len(states) > 0 {
		wanted = make(map[State]struct{}, len(states))
		for _, state := range states {
			wanted[state] = struct{}{}
		}
	}

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		if wanted != nil {
			if _, ok := wanted[job.State()]; !ok {
				continue
			}
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Stats returns a count of jobs grouped by derived state.
func (s *Store) Stats(ctx context.Context) (map[State]int, error) {
	jobs, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	stats := make(map[State]int, len(allStates))
	for _, job := range jobs {
		stats[job.State()]++
	}
	return stats, nil
}

// Health aggregates job state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for state, count := range stats {
		health.Total += count
		switch state {
		case StatePendingMetadata:
			health.PendingMetadata += count
		case StatePendingDownload:
			health.PendingDownload += count
		case StatePendingTranscription:
			health.PendingTranscription += count
		case StateRejected:
			health.Rejected += count
		case StateDone:
			health.Done += count
		}
	}
	return health, nil
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id             string
		title          sql.NullString
		keywordsRaw    sql.NullString
		downloaded     int
		transcribed    int
		rejected       int
		rejectReason   sql.NullString
		artifactPath   sql.NullString
		transcriptPath sql.NullString
		lastError      sql.NullString
		attempts       int
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&keywordsRaw,
		&downloaded,
		&transcribed,
		&rejected,
		&rejectReason,
		&artifactPath,
		&transcriptPath,
		&lastError,
		&attempts,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:             id,
		Title:          title.String,
		MetadataSet:    keywordsRaw.Valid,
		Downloaded:     downloaded != 0,
		Transcribed:    transcribed != 0,
		Rejected:       rejected != 0,
		RejectReason:   rejectReason.String,
		ArtifactPath:   artifactPath.String,
		TranscriptPath: transcriptPath.String,
		LastError:      lastError.String,
		Attempts:       attempts,
	}
	if keywordsRaw.Valid && keywordsRaw.String != "" {
		if err := json.Unmarshal([]byte(keywordsRaw.String), &job.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords for %s: %w", id, err)
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
