package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RepEvent records a single completed repetition within a session.
type RepEvent struct {
	SessionID  string    `json:"session_id"`
	RepNumber  int       `json:"rep_number"`
	Quality    float64   `json:"quality"`
	AngleRange float64   `json:"angle_range"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InsertRepEvents batch-inserts rep events for a session.
func (db *DB) InsertRepEvents(ctx context.Context, events []RepEvent) error {
	if len(events) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(events))
	args := make([]any, 0, len(events)*5)
	for i, e := range events {
		n := i * 5
		placeholders = append(placeholders,
			fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5))
		args = append(args, e.SessionID, e.RepNumber, e.Quality, e.AngleRange, e.OccurredAt)
	}

	query := `
		INSERT INTO rep_events (session_id, rep_number, quality, angle_range, occurred_at)
		VALUES ` + strings.Join(placeholders, ", ") + `
		ON CONFLICT (session_id, rep_number) DO NOTHING`

	if _, err := db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting rep events: %w", err)
	}
	return nil
}

// QueryRepEvents returns all rep events for a session in rep order.
func (db *DB) QueryRepEvents(ctx context.Context, sessionID string) ([]RepEvent, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT session_id, rep_number, quality, angle_range, occurred_at
		FROM rep_events
		WHERE session_id = $1
		ORDER BY rep_number`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying rep events: %w", err)
	}
	defer rows.Close()

	var events []RepEvent
	for rows.Next() {
		var e RepEvent
		if err := rows.Scan(&e.SessionID, &e.RepNumber, &e.Quality, &e.AngleRange, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scanning rep event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
