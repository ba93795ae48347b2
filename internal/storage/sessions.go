package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Session is a persisted exercise session with its aggregate results.
type Session struct {
	ID               string     `json:"id"`
	ExerciseID       string     `json:"exercise_id"`
	ExerciseName     string     `json:"exercise_name"`
	Category         string     `json:"category"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	RepCount         int        `json:"rep_count"`
	DurationSeconds  float64    `json:"duration_seconds"`
	AvgQuality       float64    `json:"avg_quality"`
	AvgConfidence    float64    `json:"avg_confidence"`
	AvgFormScore     float64    `json:"avg_form_score"`
	PhaseTransitions int        `json:"phase_transitions"`
}

// SessionFilter narrows QuerySessions results. Zero values mean no filter.
type SessionFilter struct {
	ExerciseID string
	Category   string
	Since      time.Time
	Until      time.Time
	Limit      int
}

// InsertSession records a newly started session.
func (db *DB) InsertSession(ctx context.Context, s *Session) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO sessions (id, exercise_id, exercise_name, category, started_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.ExerciseID, s.ExerciseName, s.Category, s.StartedAt)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// FinishSession stores the final aggregates when a session ends.
func (db *DB) FinishSession(ctx context.Context, s *Session) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE sessions
		SET ended_at = $2, rep_count = $3, duration_seconds = $4,
		    avg_quality = $5, avg_confidence = $6, avg_form_score = $7,
		    phase_transitions = $8
		WHERE id = $1`,
		s.ID, s.EndedAt, s.RepCount, s.DurationSeconds,
		s.AvgQuality, s.AvgConfidence, s.AvgFormScore, s.PhaseTransitions)
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSession returns a single session by id.
func (db *DB) GetSession(ctx context.Context, id string) (*Session, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, exercise_id, exercise_name, category, started_at, ended_at,
		       rep_count, duration_seconds, avg_quality, avg_confidence,
		       avg_form_score, phase_transitions
		FROM sessions WHERE id = $1`, id)

	var s Session
	err := row.Scan(&s.ID, &s.ExerciseID, &s.ExerciseName, &s.Category,
		&s.StartedAt, &s.EndedAt, &s.RepCount, &s.DurationSeconds,
		&s.AvgQuality, &s.AvgConfidence, &s.AvgFormScore, &s.PhaseTransitions)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return &s, nil
}

// QuerySessions returns sessions matching the filter, newest first.
func (db *DB) QuerySessions(ctx context.Context, f SessionFilter) ([]Session, error) {
	query := `
		SELECT id, exercise_id, exercise_name, category, started_at, ended_at,
		       rep_count, duration_seconds, avg_quality, avg_confidence,
		       avg_form_score, phase_transitions
		FROM sessions WHERE 1=1`
	args := []any{}
	argN := 1

	if f.ExerciseID != "" {
		query += fmt.Sprintf(" AND exercise_id = $%d", argN)
		args = append(args, f.ExerciseID)
		argN++
	}
	if f.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argN)
		args = append(args, f.Category)
		argN++
	}
	if !f.Since.IsZero() {
		query += fmt.Sprintf(" AND started_at >= $%d", argN)
		args = append(args, f.Since)
		argN++
	}
	if !f.Until.IsZero() {
		query += fmt.Sprintf(" AND started_at <= $%d", argN)
		args = append(args, f.Until)
		argN++
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY started_at DESC LIMIT $%d", argN)
	args = append(args, limit)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.ExerciseID, &s.ExerciseName, &s.Category,
			&s.StartedAt, &s.EndedAt, &s.RepCount, &s.DurationSeconds,
			&s.AvgQuality, &s.AvgConfidence, &s.AvgFormScore, &s.PhaseTransitions); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ExerciseStats aggregates completed sessions per exercise.
type ExerciseStats struct {
	ExerciseID   string  `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	Category     string  `json:"category"`
	Sessions     int     `json:"sessions"`
	TotalReps    int     `json:"total_reps"`
	AvgQuality   float64 `json:"avg_quality"`
	AvgFormScore float64 `json:"avg_form_score"`
}

// QueryExerciseStats returns per-exercise aggregates over finished sessions.
func (db *DB) QueryExerciseStats(ctx context.Context, since time.Time) ([]ExerciseStats, error) {
	query := `
		SELECT exercise_id, exercise_name, category,
		       COUNT(*), COALESCE(SUM(rep_count), 0),
		       COALESCE(AVG(avg_quality), 0), COALESCE(AVG(avg_form_score), 0)
		FROM sessions
		WHERE ended_at IS NOT NULL`
	args := []any{}
	if !since.IsZero() {
		query += " AND started_at >= $1"
		args = append(args, since)
	}
	query += `
		GROUP BY exercise_id, exercise_name, category
		ORDER BY COUNT(*) DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercise stats: %w", err)
	}
	defer rows.Close()

	var stats []ExerciseStats
	for rows.Next() {
		var st ExerciseStats
		if err := rows.Scan(&st.ExerciseID, &st.ExerciseName, &st.Category,
			&st.Sessions, &st.TotalReps, &st.AvgQuality, &st.AvgFormScore); err != nil {
			return nil, fmt.Errorf("scanning exercise stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
