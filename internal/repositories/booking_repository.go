package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"navticket/internal/domain"
	"navticket/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `id, trip_id, user_id, booking_reference, ticket_price, platform_fee,
	total_amount, total_passengers, selected_seats, booking_status, payment_status,
	contact_email, contact_phone, created_at, cancelled_at, cancellation_reason`

func scanBooking(row *sql.Row) (models.Booking, error) {
	var b models.Booking
	var userID sql.NullInt64
	var selectedSeats sql.NullString
	var cancelledAt sql.NullTime
	var cancelReason sql.NullString
	err := row.Scan(
		&b.ID,
		&b.TripID,
		&userID,
		&b.BookingReference,
		&b.TicketPrice,
		&b.PlatformFee,
		&b.TotalAmount,
		&b.TotalPassengers,
		&selectedSeats,
		&b.BookingStatus,
		&b.PaymentStatus,
		&b.ContactEmail,
		&b.ContactPhone,
		&b.CreatedAt,
		&cancelledAt,
		&cancelReason,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, domain.InternalError{Msg: "failed to load booking", Err: err}
	}
	if userID.Valid {
		id := userID.Int64
		b.UserID = &id
	}
	b.SelectedSeats = []string{}
	if selectedSeats.Valid && strings.TrimSpace(selectedSeats.String) != "" {
		if err := json.Unmarshal([]byte(selectedSeats.String), &b.SelectedSeats); err != nil {
			return models.Booking{}, domain.InternalError{Msg: "failed to decode selected seats", Err: err}
		}
	}
	if cancelledAt.Valid {
		ts := cancelledAt.Time
		b.CancelledAt = &ts
	}
	b.CancelReason = cancelReason.String
	return b, nil
}

// Insert persists a new booking row and fills in its generated id.
func (r BookingRepository) Insert(ctx context.Context, q DBTX, b *models.Booking) error {
	seatsJSON, err := json.Marshal(b.SelectedSeats)
	if err != nil {
		return domain.InternalError{Msg: "failed to encode selected seats", Err: err}
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO bookings
		(trip_id, user_id, booking_reference, ticket_price, platform_fee, total_amount,
		 total_passengers, selected_seats, booking_status, payment_status,
		 contact_email, contact_phone, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,NOW())`,
		b.TripID,
		nullableID(b.UserID),
		b.BookingReference,
		b.TicketPrice,
		b.PlatformFee,
		b.TotalAmount,
		b.TotalPassengers,
		string(seatsJSON),
		b.BookingStatus,
		b.PaymentStatus,
		b.ContactEmail,
		b.ContactPhone,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return domain.ConflictError{Resource: "booking", Msg: "booking reference already exists"}
		}
		return domain.InternalError{Msg: "failed to insert booking", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Msg: "failed to read booking id", Err: err}
	}
	b.ID = id
	return nil
}

// InsertPassengers writes the passenger rows belonging to a booking.
func (r BookingRepository) InsertPassengers(ctx context.Context, q DBTX, bookingID int64, passengers []models.PassengerInput) error {
	for _, p := range passengers {
		_, err := q.ExecContext(ctx, `
			INSERT INTO passengers
			(booking_id, first_name, last_name, phone, id_type, id_number, age_category, seat_number, created_at)
			VALUES (?,?,?,?,?,?,?,?,NOW())`,
			bookingID,
			p.FirstName,
			p.LastName,
			p.Phone,
			p.IDType,
			p.IDNumber,
			string(p.AgeCategory),
			p.SeatNumber,
		)
		if err != nil {
			return domain.InternalError{Msg: "failed to insert passenger", Err: err}
		}
	}
	return nil
}

// GetByReference loads a booking by its public reference.
func (r BookingRepository) GetByReference(ctx context.Context, q DBTX, reference string) (models.Booking, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_reference=?`, reference)
	return scanBooking(row)
}

// GetByReferenceForUpdate loads a booking and locks its row, so state
// transitions (cancel, assign) serialize per booking.
func (r BookingRepository) GetByReferenceForUpdate(ctx context.Context, q DBTX, reference string) (models.Booking, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_reference=? FOR UPDATE`, reference)
	return scanBooking(row)
}

// CountActiveForTrip returns how many pending or confirmed bookings
// target the trip. Those bookings hold deductions on the capacity
// ledger, so destructive seat regeneration must refuse while any exist.
func (r BookingRepository) CountActiveForTrip(ctx context.Context, q DBTX, tripID int64) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE trip_id=? AND booking_status IN ('pending','confirmed')`,
		tripID).Scan(&n)
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to count active bookings", Err: err}
	}
	return n, nil
}

// ReferenceExists reports whether a reference is already taken.
func (r BookingRepository) ReferenceExists(ctx context.Context, q DBTX, reference string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE booking_reference=? LIMIT 1`, reference).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.InternalError{Msg: "failed to check booking reference", Err: err}
	}
	return true, nil
}

// MarkCancelled flips the booking to cancelled with the given timestamp
// and an optional caller-provided reason.
func (r BookingRepository) MarkCancelled(ctx context.Context, q DBTX, bookingID int64, at time.Time, reason string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE bookings SET booking_status=?, cancelled_at=?, cancellation_reason=? WHERE id=?`,
		models.BookingStatusCancelled, at, nullableString(reason), bookingID)
	if err != nil {
		return domain.InternalError{Msg: "failed to cancel booking", Err: err}
	}
	return nil
}

// UpdateSelectedSeats persists the seat numbers assigned to a booking.
func (r BookingRepository) UpdateSelectedSeats(ctx context.Context, q DBTX, bookingID int64, seatNumbers []string) error {
	seatsJSON, err := json.Marshal(seatNumbers)
	if err != nil {
		return domain.InternalError{Msg: "failed to encode selected seats", Err: err}
	}
	if _, err := q.ExecContext(ctx,
		`UPDATE bookings SET selected_seats=? WHERE id=?`, string(seatsJSON), bookingID); err != nil {
		return domain.InternalError{Msg: "failed to update selected seats", Err: err}
	}
	return nil
}

// ListPassengers returns the passengers of a booking in creation order.
func (r BookingRepository) ListPassengers(ctx context.Context, q DBTX, bookingID int64) ([]models.Passenger, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, booking_id, first_name, last_name, phone, id_type, id_number, age_category, seat_number
		FROM passengers WHERE booking_id=? ORDER BY id`, bookingID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list passengers", Err: err}
	}
	defer rows.Close()

	out := []models.Passenger{}
	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(
			&p.ID,
			&p.BookingID,
			&p.FirstName,
			&p.LastName,
			&p.Phone,
			&p.IDType,
			&p.IDNumber,
			&p.AgeCategory,
			&p.SeatNumber,
		); err != nil {
			return nil, domain.InternalError{Msg: "failed to scan passenger", Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "failed to read passengers", Err: err}
	}
	return out, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullableString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
