package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/veckert/daybook/internal/apperr"
	"github.com/veckert/daybook/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS items (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	priority    TEXT NOT NULL DEFAULT 'NORMAL',
	completed   INTEGER NOT NULL DEFAULT 0,
	pinned      INTEGER NOT NULL DEFAULT 0,
	due_date    DATETIME,
	quantity    TEXT NOT NULL DEFAULT '',
	list_type   TEXT NOT NULL,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_list_type ON items(list_type);
CREATE INDEX IF NOT EXISTS idx_items_due_date ON items(due_date) WHERE due_date IS NOT NULL;
`

// SQLite is the durable driver backed by mattn/go-sqlite3.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

const itemColumns = `id, title, description, priority, completed, pinned, due_date, quantity, list_type, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	var it models.Item
	var due sql.NullTime
	err := row.Scan(&it.ID, &it.Title, &it.Description, &it.Priority, &it.Completed,
		&it.Pinned, &due, &it.Quantity, &it.ListType, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		t := due.Time
		it.DueDate = &t
	}
	return &it, nil
}

// ListAll implements Store.
func (s *SQLite) ListAll(ctx context.Context, listType models.ListType) ([]models.Item, error) {
	q := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at ASC, id ASC`
	args := []any{}
	if listType != "" {
		q = `SELECT ` + itemColumns + ` FROM items WHERE list_type = ? ORDER BY created_at ASC, id ASC`
		args = append(args, string(listType))
	}
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	out := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

// GetByID implements Store.
func (s *SQLite) GetByID(ctx context.Context, id string) (*models.Item, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get: %w", err)
	}
	return it, nil
}

// Create implements Store. The server owns id and timestamp assignment.
func (s *SQLite) Create(ctx context.Context, draft models.Item) (*models.Item, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, apperr.ErrEmptyTitle
	}
	it := draft
	it.ID = uuid.NewString()
	it.Title = title
	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now
	if it.Priority == "" {
		it.Priority = models.PriorityNormal
	}
	if it.ListType == "" {
		it.ListType = models.ListTodo
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, it.ID, it.Title, it.Description, string(it.Priority), it.Completed, it.Pinned,
		nullTime(it.DueDate), it.Quantity, string(it.ListType), it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: insert item: %w", err)
	}
	if err := ftsUpsert(tx, it.ID, it.Title, it.Description); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return &it, nil
}

// Update implements Store.
func (s *SQLite) Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(current)
	current.UpdatedAt = bumpAfter(current.UpdatedAt)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		UPDATE items SET title = ?, description = ?, priority = ?, completed = ?,
			pinned = ?, due_date = ?, quantity = ?, list_type = ?, updated_at = ?
		WHERE id = ?
	`, current.Title, current.Description, string(current.Priority), current.Completed,
		current.Pinned, nullTime(current.DueDate), current.Quantity,
		string(current.ListType), current.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("store: update item: %w", err)
	}
	if err := ftsUpsert(tx, id, current.Title, current.Description); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return current, nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete item: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.ErrNotFound
	}
	ftsDelete(tx, id)
	return tx.Commit()
}

// ToggleComplete implements Store.
func (s *SQLite) ToggleComplete(ctx context.Context, id string) (*models.Item, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Completed = !current.Completed
	current.UpdatedAt = bumpAfter(current.UpdatedAt)

	_, err = s.conn.ExecContext(ctx, `UPDATE items SET completed = ?, updated_at = ? WHERE id = ?`,
		current.Completed, current.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("store: toggle item: %w", err)
	}
	return current, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
