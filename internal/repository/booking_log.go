// Package repository mirrors directory state to Postgres so bookings
// survive a process restart. The in-memory directory stays authoritative:
// the mirror is written after each commit and replayed once at startup.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusops/roombooking/internal/booking"
)

// BookingLogRepository persists registrations and committed bookings. It
// implements booking.CommitObserver.
type BookingLogRepository struct {
	pool *pgxpool.Pool
}

func NewBookingLogRepository(pool *pgxpool.Pool) *BookingLogRepository {
	return &BookingLogRepository{pool: pool}
}

// RoomRegistered upserts a room row. Conflicts are ignored so that replayed
// seed data does not error.
func (r *BookingLogRepository) RoomRegistered(ctx context.Context, room booking.RoomSummary) error {
	query := `
		INSERT INTO rooms (room_id, branch, capacity)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, room.ID, room.Branch, room.Capacity); err != nil {
		return fmt.Errorf("persist room: %w", err)
	}
	return nil
}

// ProfessorRegistered upserts a professor row.
func (r *BookingLogRepository) ProfessorRegistered(ctx context.Context, prof booking.ProfessorSummary) error {
	query := `
		INSERT INTO professors (professor_id, name, branch)
		VALUES ($1, $2, $3)
		ON CONFLICT (professor_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, prof.ID, prof.Name, prof.Branch); err != nil {
		return fmt.Errorf("persist professor: %w", err)
	}
	return nil
}

// BookingCommitted appends one commit to the log. The unique indexes on
// (room_id, booked_date, slot) and (professor_id, booked_date, slot) make
// the table reject anything the directory would have rejected, so a replay
// of the same log is idempotent.
func (r *BookingLogRepository) BookingCommitted(ctx context.Context, commit booking.Commit) error {
	query := `
		INSERT INTO booking_log (id, room_id, professor_id, booked_date, slot, course_name, purpose, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (room_id, booked_date, slot) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		commit.Record.ID,
		commit.Room,
		commit.Record.Professor,
		commit.Date,
		commit.Slot,
		commit.Record.CourseName,
		commit.Record.Purpose,
		commit.Record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("persist booking: %w", err)
	}
	return nil
}

// Rooms returns every persisted room.
func (r *BookingLogRepository) Rooms(ctx context.Context) ([]booking.RoomSummary, error) {
	query := `
		SELECT room_id, branch, capacity
		FROM rooms
		ORDER BY room_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	defer rows.Close()

	var out []booking.RoomSummary
	for rows.Next() {
		var room booking.RoomSummary
		if err := rows.Scan(&room.ID, &room.Branch, &room.Capacity); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// Professors returns every persisted professor.
func (r *BookingLogRepository) Professors(ctx context.Context) ([]booking.ProfessorSummary, error) {
	query := `
		SELECT professor_id, name, branch
		FROM professors
		ORDER BY professor_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load professors: %w", err)
	}
	defer rows.Close()

	var out []booking.ProfessorSummary
	for rows.Next() {
		var prof booking.ProfessorSummary
		if err := rows.Scan(&prof.ID, &prof.Name, &prof.Branch); err != nil {
			return nil, fmt.Errorf("scan professor: %w", err)
		}
		out = append(out, prof)
	}
	return out, rows.Err()
}

// Commits returns the booking log in commit order, for replay into a fresh
// directory.
func (r *BookingLogRepository) Commits(ctx context.Context) ([]booking.Commit, error) {
	query := `
		SELECT id, room_id, professor_id, booked_date, slot, course_name, purpose, created_at
		FROM booking_log
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load booking log: %w", err)
	}
	defer rows.Close()

	var out []booking.Commit
	for rows.Next() {
		var commit booking.Commit
		err := rows.Scan(
			&commit.Record.ID,
			&commit.Room,
			&commit.Record.Professor,
			&commit.Date,
			&commit.Slot,
			&commit.Record.CourseName,
			&commit.Record.Purpose,
			&commit.Record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking log row: %w", err)
		}
		out = append(out, commit)
	}
	return out, rows.Err()
}
