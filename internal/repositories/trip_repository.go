package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"navticket/internal/domain"
	"navticket/internal/domain/models"
	"navticket/internal/utils"
)

type TripRepository struct {
	DB *sql.DB
}

const tripColumns = `id, route_from, route_to, departure_date, departure_time,
	total_seats, available_seats, price, seat_layout, status, created_at`

func scanTrip(row *sql.Row) (models.Trip, error) {
	var t models.Trip
	var depDate time.Time
	err := row.Scan(
		&t.ID,
		&t.RouteFrom,
		&t.RouteTo,
		&depDate,
		&t.DepartureTime,
		&t.TotalSeats,
		&t.AvailableSeats,
		&t.Price,
		&t.SeatLayout,
		&t.Status,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.NotFoundError{Resource: "trip"}
		}
		return models.Trip{}, domain.InternalError{Msg: "failed to load trip", Err: err}
	}
	t.DepartureDate = utils.FormatDate(depDate)
	return t, nil
}

// GetTrip loads one trip by id.
func (r TripRepository) GetTrip(ctx context.Context, q DBTX, id int64) (models.Trip, error) {
	if id <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "trip_id", Msg: "invalid id"}
	}
	row := q.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=?`, id)
	return scanTrip(row)
}

// GetTripForUpdate loads a trip and locks its row for the transaction.
func (r TripRepository) GetTripForUpdate(ctx context.Context, q DBTX, id int64) (models.Trip, error) {
	if id <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "trip_id", Msg: "invalid id"}
	}
	row := q.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=? FOR UPDATE`, id)
	return scanTrip(row)
}

// ReserveCapacity atomically deducts seats from the trip-level ledger.
// The guard in the WHERE clause is the authoritative capacity check: the
// relative update is evaluated by the database, so concurrent bookings on
// the same trip cannot both pass with a stale read.
func (r TripRepository) ReserveCapacity(ctx context.Context, q DBTX, tripID int64, seats int) error {
	res, err := q.ExecContext(ctx,
		`UPDATE trips SET available_seats = available_seats - ? WHERE id = ? AND available_seats >= ?`,
		seats, tripID, seats,
	)
	if err != nil {
		return domain.InternalError{Msg: "failed to reserve capacity", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Msg: "failed to reserve capacity", Err: err}
	}
	if affected == 0 {
		return domain.ConflictError{Resource: "trip", Msg: "not enough seats available"}
	}
	return nil
}

// ResetCapacity sets the ledger to an absolute value, used when a seat
// map is regenerated from scratch.
func (r TripRepository) ResetCapacity(ctx context.Context, q DBTX, tripID int64, seats int) error {
	res, err := q.ExecContext(ctx,
		`UPDATE trips SET available_seats = ? WHERE id = ?`,
		seats, tripID,
	)
	if err != nil {
		return domain.InternalError{Msg: "failed to reset capacity", Err: err}
	}
	if _, err := res.RowsAffected(); err != nil {
		return domain.InternalError{Msg: "failed to reset capacity", Err: err}
	}
	return nil
}

// RestoreCapacity returns seats to the trip-level ledger on cancellation.
func (r TripRepository) RestoreCapacity(ctx context.Context, q DBTX, tripID int64, seats int) error {
	res, err := q.ExecContext(ctx,
		`UPDATE trips SET available_seats = available_seats + ? WHERE id = ?`,
		seats, tripID,
	)
	if err != nil {
		return domain.InternalError{Msg: "failed to restore capacity", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Msg: "failed to restore capacity", Err: err}
	}
	if affected == 0 {
		return domain.NotFoundError{Resource: "trip"}
	}
	return nil
}
