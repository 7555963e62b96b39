package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/bulletin/internal/models"
)

// Record appends one resolved command.
func (db *DB) Record(ctx context.Context, e models.Execution) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO executions (notice_id, command, state, auto_run, exit_code, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.NoticeID, e.Command, string(e.State), e.AutoRun, e.ExitCode, e.Error,
		e.StartedAt.UTC(), e.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (db *DB) List(ctx context.Context, limit int) ([]models.Execution, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT notice_id, command, state, auto_run, exit_code, error, started_at, duration_ms
		FROM executions
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	defer rows.Close()

	var out []models.Execution
	for rows.Next() {
		var (
			e        models.Execution
			state    string
			duration int64
		)
		if err := rows.Scan(&e.NoticeID, &e.Command, &state, &e.AutoRun, &e.ExitCode, &e.Error, &e.StartedAt, &duration); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.State = models.ExecState(state)
		e.Duration = time.Duration(duration) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}
