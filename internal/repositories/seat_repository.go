package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"navticket/internal/domain"
	"navticket/internal/domain/models"
)

// SeatRepository owns all SQL touching the seats table. Methods that
// check-and-set seat state take a DBTX so the service layer can scope
// them to one transaction holding the FOR UPDATE locks.
type SeatRepository struct {
	DB *sql.DB
}

const seatColumns = `id, trip_id, seat_number, seat_row, position, is_available, booking_id, passenger_name, reserved_until`

func scanSeats(rows *sql.Rows) ([]models.Seat, error) {
	defer rows.Close()

	seats := []models.Seat{}
	for rows.Next() {
		var s models.Seat
		var bookingID sql.NullInt64
		var passengerName sql.NullString
		var reservedUntil sql.NullTime
		if err := rows.Scan(
			&s.ID,
			&s.TripID,
			&s.SeatNumber,
			&s.Row,
			&s.Position,
			&s.IsAvailable,
			&bookingID,
			&passengerName,
			&reservedUntil,
		); err != nil {
			return nil, domain.InternalError{Msg: "failed to scan seat", Err: err}
		}
		if bookingID.Valid {
			id := bookingID.Int64
			s.BookingID = &id
		}
		s.PassengerName = passengerName.String
		if reservedUntil.Valid {
			ts := reservedUntil.Time
			s.ReservedUntil = &ts
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "failed to read seats", Err: err}
	}
	return seats, nil
}

// ListForTrip returns every seat of a trip in layout order.
func (r SeatRepository) ListForTrip(ctx context.Context, q DBTX, tripID int64) ([]models.Seat, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+seatColumns+` FROM seats WHERE trip_id=? ORDER BY seat_row, seat_number`, tripID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list seats", Err: err}
	}
	return scanSeats(rows)
}

// LockBySeatNumbers loads the matched seat rows under an exclusive lock.
// This is the serialization point for concurrent reserve/assign calls:
// two callers racing for an overlapping seat set block here, and the
// loser re-reads state the winner already committed.
func (r SeatRepository) LockBySeatNumbers(ctx context.Context, q DBTX, tripID int64, seatNumbers []string) ([]models.Seat, error) {
	if len(seatNumbers) == 0 {
		return []models.Seat{}, nil
	}
	query := `SELECT ` + seatColumns + ` FROM seats WHERE trip_id=? AND seat_number IN (` +
		placeholders(len(seatNumbers)) + `) FOR UPDATE`
	rows, err := q.QueryContext(ctx, query, seatArgs(tripID, seatNumbers)...)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to lock seats", Err: err}
	}
	return scanSeats(rows)
}

// HoldSeats marks the seats as temporarily reserved until the deadline.
// Callers must have verified availability under lock first.
func (r SeatRepository) HoldSeats(ctx context.Context, q DBTX, tripID int64, seatNumbers []string, until time.Time) error {
	query := `UPDATE seats SET is_available=0, reserved_until=? WHERE trip_id=? AND seat_number IN (` +
		placeholders(len(seatNumbers)) + `)`
	args := append([]any{until}, seatArgs(tripID, seatNumbers)...)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return domain.InternalError{Msg: "failed to hold seats", Err: err}
	}
	return nil
}

// ReleaseHeld frees held seats back to available. Seats owned by a
// booking are left untouched even when matched, so a stray release can
// never free confirmed seats.
func (r SeatRepository) ReleaseHeld(ctx context.Context, q DBTX, tripID int64, seatNumbers []string) (int64, error) {
	if len(seatNumbers) == 0 {
		return 0, nil
	}
	query := `UPDATE seats SET is_available=1, reserved_until=NULL
		WHERE trip_id=? AND booking_id IS NULL AND is_available=0 AND seat_number IN (` +
		placeholders(len(seatNumbers)) + `)`
	res, err := q.ExecContext(ctx, query, seatArgs(tripID, seatNumbers)...)
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to release seats", Err: err}
	}
	released, err := res.RowsAffected()
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to release seats", Err: err}
	}
	return released, nil
}

// AssignToBooking permanently assigns the seats to a booking. The only
// path that produces booked state.
func (r SeatRepository) AssignToBooking(ctx context.Context, q DBTX, tripID, bookingID int64, seatNumbers []string) error {
	query := `UPDATE seats SET booking_id=?, is_available=0, reserved_until=NULL, passenger_name=NULL
		WHERE trip_id=? AND seat_number IN (` + placeholders(len(seatNumbers)) + `)`
	args := append([]any{bookingID}, seatArgs(tripID, seatNumbers)...)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return domain.InternalError{Msg: "failed to assign seats", Err: err}
	}
	return nil
}

// UnassignBooking resets every seat owned by the booking to available.
// Running it twice is a no-op the second time.
func (r SeatRepository) UnassignBooking(ctx context.Context, q DBTX, bookingID int64) (int64, error) {
	res, err := q.ExecContext(ctx,
		`UPDATE seats SET booking_id=NULL, is_available=1, reserved_until=NULL, passenger_name=NULL WHERE booking_id=?`,
		bookingID)
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to unassign seats", Err: err}
	}
	freed, err := res.RowsAffected()
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to unassign seats", Err: err}
	}
	return freed, nil
}

// ReclaimExpiredForTrip resets held seats whose hold lapsed before now,
// scoped to one trip. Run inside reserve/seat-map transactions so holds
// never block seats longer than their TTL plus one read.
func (r SeatRepository) ReclaimExpiredForTrip(ctx context.Context, q DBTX, tripID int64, now time.Time) (int64, error) {
	res, err := q.ExecContext(ctx,
		`UPDATE seats SET is_available=1, reserved_until=NULL, passenger_name=NULL
		WHERE trip_id=? AND booking_id IS NULL AND is_available=0 AND reserved_until < ?`,
		tripID, now)
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to reclaim expired holds", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to reclaim expired holds", Err: err}
	}
	return n, nil
}

// ReclaimExpired is the global variant used by the sweep worker.
func (r SeatRepository) ReclaimExpired(ctx context.Context, q DBTX, now time.Time) (int64, error) {
	res, err := q.ExecContext(ctx,
		`UPDATE seats SET is_available=1, reserved_until=NULL, passenger_name=NULL
		WHERE booking_id IS NULL AND is_available=0 AND reserved_until < ?`,
		now)
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to sweep expired holds", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to sweep expired holds", Err: err}
	}
	return n, nil
}

// CountForTrip returns how many seats exist for a trip.
func (r SeatRepository) CountForTrip(ctx context.Context, q DBTX, tripID int64) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE trip_id=?`, tripID).Scan(&n); err != nil {
		return 0, domain.InternalError{Msg: "failed to count seats", Err: err}
	}
	return n, nil
}

// CountBooked returns how many seats of the trip belong to a confirmed or
// completed booking. Used to refuse destructive regeneration.
func (r SeatRepository) CountBooked(ctx context.Context, q DBTX, tripID int64) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seats s
		JOIN bookings b ON b.id = s.booking_id
		WHERE s.trip_id=? AND b.booking_status IN ('confirmed','completed')`,
		tripID).Scan(&n)
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to count booked seats", Err: err}
	}
	return n, nil
}

// DeleteForTrip removes every seat of a trip ahead of regeneration.
func (r SeatRepository) DeleteForTrip(ctx context.Context, q DBTX, tripID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM seats WHERE trip_id=?`, tripID); err != nil {
		return domain.InternalError{Msg: "failed to delete seats", Err: err}
	}
	return nil
}

// BulkInsert writes a generated seat set in one statement.
func (r SeatRepository) BulkInsert(ctx context.Context, q DBTX, seats []models.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO seats (trip_id, seat_number, seat_row, position, is_available) VALUES `)
	args := make([]any, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,1)")
		args = append(args, s.TripID, s.SeatNumber, s.Row, string(s.Position))
	}
	if _, err := q.ExecContext(ctx, sb.String(), args...); err != nil {
		return domain.InternalError{Msg: "failed to insert seats", Err: err}
	}
	return nil
}
