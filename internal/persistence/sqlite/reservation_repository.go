package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository using SQLite.
type ReservationRepository struct {
	pool *ConnectionPool
}

// NewReservationRepository creates a new SQLite reservation repository.
func NewReservationRepository(pool *ConnectionPool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// CreateReservation inserts a reservation and its participant list.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var cancelledAt sql.NullString
		if reservation.CancelledAt != nil {
			cancelledAt.String = reservation.CancelledAt.UTC().Format(time.RFC3339Nano)
			cancelledAt.Valid = true
		}

		_, err := tx.Exec(`
			INSERT INTO reservations (id, room_id, owner_id, date, start_minute, end_minute, purpose, location, status, created_at, cancelled_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			reservation.ID,
			reservation.RoomID,
			reservation.OwnerID,
			reservation.Date,
			reservation.StartMinute,
			reservation.EndMinute,
			reservation.Purpose,
			reservation.Location,
			string(reservation.Status),
			reservation.CreatedAt.UTC().Format(time.RFC3339Nano),
			cancelledAt,
		)
		if err != nil {
			return mapError(err)
		}

		return insertParticipants(tx, reservation.ID, reservation.Participants)
	})
}

// GetReservation retrieves a reservation by ID.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, room_id, owner_id, date, start_minute, end_minute, purpose, location, status, created_at, cancelled_at
		FROM reservations
		WHERE id = ?
	`, id)

	reservation, err := scanReservation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Reservation{}, persistence.ErrNotFound
		}
		return persistence.Reservation{}, err
	}

	participants, err := r.loadParticipants(ctx, id)
	if err != nil {
		return persistence.Reservation{}, err
	}
	reservation.Participants = participants

	return reservation, nil
}

// UpdateReservation rewrites a reservation's row and participant list.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var cancelledAt sql.NullString
		if reservation.CancelledAt != nil {
			cancelledAt.String = reservation.CancelledAt.UTC().Format(time.RFC3339Nano)
			cancelledAt.Valid = true
		}

		result, err := tx.Exec(`
			UPDATE reservations
			SET room_id = ?, owner_id = ?, date = ?, start_minute = ?, end_minute = ?, purpose = ?, location = ?, status = ?, cancelled_at = ?
			WHERE id = ?
		`,
			reservation.RoomID,
			reservation.OwnerID,
			reservation.Date,
			reservation.StartMinute,
			reservation.EndMinute,
			reservation.Purpose,
			reservation.Location,
			string(reservation.Status),
			cancelledAt,
			reservation.ID,
		)
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

		if _, err := tx.Exec("DELETE FROM reservation_participants WHERE reservation_id = ?", reservation.ID); err != nil {
			return mapError(err)
		}
		return insertParticipants(tx, reservation.ID, reservation.Participants)
	})
}

// ListReservations lists reservations matching the filter, participant
// lists included.
func (r *ReservationRepository) ListReservations(ctx context.Context, filter persistence.ReservationFilter) ([]persistence.Reservation, error) {
	query, args := buildReservationQuery(filter)

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range reservations {
		participants, err := r.loadParticipants(ctx, reservations[i].ID)
		if err != nil {
			return nil, err
		}
		reservations[i].Participants = participants
	}

	return reservations, nil
}

func buildReservationQuery(filter persistence.ReservationFilter) (string, []interface{}) {
	query := `
		SELECT id, room_id, owner_id, date, start_minute, end_minute, purpose, location, status, created_at, cancelled_at
		FROM reservations
	`

	var conditions []string
	var args []interface{}

	if filter.RoomID != nil {
		conditions = append(conditions, "room_id = ?")
		args = append(args, *filter.RoomID)
	}
	if filter.Date != nil {
		conditions = append(conditions, "date = ?")
		args = append(args, *filter.Date)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.InvolvedUserID != nil {
		conditions = append(conditions, `(owner_id = ? OR EXISTS (
			SELECT 1 FROM reservation_participants p
			WHERE p.reservation_id = reservations.id AND p.user_id = ?
		))`)
		args = append(args, *filter.InvolvedUserID, *filter.InvolvedUserID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	return query, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	var status, createdAtStr string
	var cancelledAt sql.NullString

	err := row.Scan(
		&reservation.ID,
		&reservation.RoomID,
		&reservation.OwnerID,
		&reservation.Date,
		&reservation.StartMinute,
		&reservation.EndMinute,
		&reservation.Purpose,
		&reservation.Location,
		&status,
		&createdAtStr,
		&cancelledAt,
	)
	if err != nil {
		return persistence.Reservation{}, err
	}

	reservation.Status = persistence.ReservationStatus(status)
	if reservation.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if cancelledAt.Valid {
		parsed, err := time.Parse(time.RFC3339Nano, cancelledAt.String)
		if err != nil {
			return persistence.Reservation{}, fmt.Errorf("parsing cancelled_at: %w", err)
		}
		reservation.CancelledAt = &parsed
	}

	return reservation, nil
}

func insertParticipants(tx *sql.Tx, reservationID string, participants []persistence.Participant) error {
	for i, p := range participants {
		_, err := tx.Exec(
			"INSERT INTO reservation_participants (reservation_id, position, user_id, label) VALUES (?, ?, ?, ?)",
			reservationID, i, p.UserID, p.Label,
		)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *ReservationRepository) loadParticipants(ctx context.Context, reservationID string) ([]persistence.Participant, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT user_id, label
		FROM reservation_participants
		WHERE reservation_id = ?
		ORDER BY position ASC
	`, reservationID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var participants []persistence.Participant
	for rows.Next() {
		var p persistence.Participant
		if err := rows.Scan(&p.UserID, &p.Label); err != nil {
			return nil, mapError(err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return participants, nil
}
