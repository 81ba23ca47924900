package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

// WaitlistRepository implements persistence.WaitlistRepository using SQLite.
type WaitlistRepository struct {
	pool *ConnectionPool
}

// NewWaitlistRepository creates a new SQLite waitlist repository.
func NewWaitlistRepository(pool *ConnectionPool) *WaitlistRepository {
	return &WaitlistRepository{pool: pool}
}

// CreateEntry inserts a waitlist entry.
func (r *WaitlistRepository) CreateEntry(ctx context.Context, entry persistence.WaitlistEntry) error {
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO waitlist_entries (id, user_id, room_id, date, start_minute, end_minute, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.UserID,
		entry.RoomID,
		entry.Date,
		entry.StartMinute,
		entry.EndMinute,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return mapError(err)
}

// GetEntry retrieves a waitlist entry by ID.
func (r *WaitlistRepository) GetEntry(ctx context.Context, id string) (persistence.WaitlistEntry, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, user_id, room_id, date, start_minute, end_minute, created_at
		FROM waitlist_entries
		WHERE id = ?
	`, id)

	entry, err := scanWaitlistEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.WaitlistEntry{}, persistence.ErrNotFound
		}
		return persistence.WaitlistEntry{}, err
	}
	return entry, nil
}

// DeleteEntry removes a waitlist entry by ID.
func (r *WaitlistRepository) DeleteEntry(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM waitlist_entries WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListEntries lists waitlist entries matching the filter, oldest first with
// entry ID as the tie break.
func (r *WaitlistRepository) ListEntries(ctx context.Context, filter persistence.WaitlistFilter) ([]persistence.WaitlistEntry, error) {
	query := `
		SELECT id, user_id, room_id, date, start_minute, end_minute, created_at
		FROM waitlist_entries
	`

	var conditions []string
	var args []interface{}
	if filter.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.RoomID != nil {
		conditions = append(conditions, "room_id = ?")
		args = append(args, *filter.RoomID)
	}
	if filter.Date != nil {
		conditions = append(conditions, "date = ?")
		args = append(args, *filter.Date)
	}
	if filter.StartMinute != nil {
		conditions = append(conditions, "start_minute = ?")
		args = append(args, *filter.StartMinute)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.WaitlistEntry
	for rows.Next() {
		entry, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return entries, nil
}

func scanWaitlistEntry(row rowScanner) (persistence.WaitlistEntry, error) {
	var entry persistence.WaitlistEntry
	var createdAtStr string

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.RoomID,
		&entry.Date,
		&entry.StartMinute,
		&entry.EndMinute,
		&createdAtStr,
	)
	if err != nil {
		return persistence.WaitlistEntry{}, err
	}

	if entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr); err != nil {
		return persistence.WaitlistEntry{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return entry, nil
}
