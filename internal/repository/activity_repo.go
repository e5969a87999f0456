package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	sb "smart_budget"

	"github.com/google/uuid"
)

type ActivitySQLite struct {
	db *sql.DB
}

func NewActivitySQLite(db *sql.DB) *ActivitySQLite { return &ActivitySQLite{db: db} }

var _ ActivityRepo = (*ActivitySQLite)(nil)

const (
	insertActivitySQL = `
		INSERT INTO activity_log (id, occurred_at, username, type, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectActivitySQL = `SELECT id, occurred_at, username, type, message, meta FROM activity_log`

	// SQLite TIMESTAMP format
	sqliteTimeLayout = "2006-01-02 15:04:05"
)

// Append inserts a new event. Empty EventID/OccurredAt are filled in.
func (r *ActivitySQLite) Append(ctx context.Context, e sb.ActivityEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertActivitySQL,
		e.EventID,
		e.OccurredAt.Format(sqliteTimeLayout),
		e.Username,
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		metaPtr,
	)
	return err
}

// List returns the user's events filtered by [from, to] (inclusive) and/or
// type, ordered ascending by time.
func (r *ActivitySQLite) List(ctx context.Context, username string, from, to time.Time, typ string) ([]sb.ActivityEvent, error) {
	conds := []string{"username = ?"}
	args := []any{username}

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := selectActivitySQL + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sb.ActivityEvent, 0, 32)
	for rows.Next() {
		var ev sb.ActivityEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Username, &ev.Type, &ev.Description, &metaStr); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
