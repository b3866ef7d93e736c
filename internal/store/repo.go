package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// userKey is the single settings key the client depends on: the active
// user's display name. Its absence routes the UI to the entry screen before
// any other logic runs.
const userKey = "user"

// SettingsRepo reads and writes the key/value settings table.
type SettingsRepo struct {
	db *sql.DB
}

// User returns the stored display name, or "" when none is set.
func (r *SettingsRepo) User(ctx context.Context) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, userKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read user: %w", err)
	}
	return v, nil
}

// SetUser stores the display name, replacing any previous value.
func (r *SettingsRepo) SetUser(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		userKey, name)
	if err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

// ClearUser removes the stored display name.
func (r *SettingsRepo) ClearUser(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM settings WHERE key = ?`, userKey)
	if err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}

// SaveRecord is one successfully saved template, as remembered locally.
// The backend holds the template itself; this log only powers the history
// screen.
type SaveRecord struct {
	ID        string
	Topic     string
	SkillName string
	Format    int
	Type      string
	Grade     int
	Author    string
	SavedAt   time.Time
}

// SaveLogRepo appends to and reads the local save history.
type SaveLogRepo struct {
	db *sql.DB
}

// Append records a successful save. The ID is assigned here when empty.
func (r *SaveLogRepo) Append(ctx context.Context, rec SaveRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO save_log (id, topic, skill_name, format, type, grade, author, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Topic, rec.SkillName, rec.Format, rec.Type, rec.Grade, rec.Author, rec.SavedAt)
	if err != nil {
		return fmt.Errorf("append save record: %w", err)
	}
	return nil
}

// Recent returns up to limit save records, newest first.
func (r *SaveLogRepo) Recent(ctx context.Context, limit int) ([]SaveRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, topic, skill_name, format, type, grade, author, saved_at
		 FROM save_log ORDER BY saved_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query save log: %w", err)
	}
	defer rows.Close()

	var recs []SaveRecord
	for rows.Next() {
		var rec SaveRecord
		if err := rows.Scan(&rec.ID, &rec.Topic, &rec.SkillName, &rec.Format,
			&rec.Type, &rec.Grade, &rec.Author, &rec.SavedAt); err != nil {
			return nil, fmt.Errorf("scan save record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Clear wipes the save history.
func (r *SaveLogRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM save_log`)
	if err != nil {
		return fmt.Errorf("clear save log: %w", err)
	}
	return nil
}
