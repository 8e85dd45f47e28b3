// Package localstore is the durable key-value side of the dashboard: the
// category color map, receipt attachments and UI settings live here, in an
// embedded SQLite database, independent of the mirrored expense collection.
// The expense collection itself is never persisted locally.
package localstore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by point lookups for absent keys.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sql.DB
}

// Open creates the database file if needed, runs migrations and returns a
// ready repository.
func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadColors returns the persisted category→color mapping. Unreadable rows
// are skipped, not fatal: a corrupt mapping degrades to a smaller one.
func (r *Repository) LoadColors() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT name, color FROM category_colors`)
	if err != nil {
		return nil, fmt.Errorf("load category colors: %w", err)
	}
	defer rows.Close()

	colors := make(map[string]string)
	for rows.Next() {
		var name, color string
		if err := rows.Scan(&name, &color); err != nil {
			slog.Warn("Skipping unreadable category color row", "error", err)
			continue
		}
		colors[name] = color
	}
	if err := rows.Err(); err != nil {
		return colors, fmt.Errorf("iterate category colors: %w", err)
	}
	return colors, nil
}

// SaveColor upserts a single category color assignment.
func (r *Repository) SaveColor(name, color string) error {
	_, err := r.db.Exec(
		`INSERT INTO category_colors (name, color) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET color = excluded.color`,
		name, color)
	if err != nil {
		return fmt.Errorf("save category color: %w", err)
	}
	return nil
}

// LoadAttachments returns the full expense-id→payload mapping, used to
// reconstitute the attachment registry on startup.
func (r *Repository) LoadAttachments() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT expense_id, payload FROM attachments`)
	if err != nil {
		return nil, fmt.Errorf("load attachments: %w", err)
	}
	defer rows.Close()

	payloads := make(map[string]string)
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			slog.Warn("Skipping unreadable attachment row", "error", err)
			continue
		}
		payloads[id] = payload
	}
	if err := rows.Err(); err != nil {
		return payloads, fmt.Errorf("iterate attachments: %w", err)
	}
	return payloads, nil
}

// SaveAttachment upserts the payload for an expense id.
func (r *Repository) SaveAttachment(expenseID, payload string) error {
	_, err := r.db.Exec(
		`INSERT INTO attachments (expense_id, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(expense_id) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		expenseID, payload)
	if err != nil {
		return fmt.Errorf("save attachment: %w", err)
	}
	return nil
}

// DeleteAttachment removes the payload for an expense id. Deleting an
// absent id is a no-op.
func (r *Repository) DeleteAttachment(expenseID string) error {
	_, err := r.db.Exec(`DELETE FROM attachments WHERE expense_id = ?`, expenseID)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}

// LoadSetting returns the value for a settings key, or ErrNotFound.
func (r *Repository) LoadSetting(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load setting %s: %w", key, err)
	}
	return value, nil
}

// SaveSetting upserts a settings key.
func (r *Repository) SaveSetting(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}
