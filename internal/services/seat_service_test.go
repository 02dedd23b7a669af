package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"navticket/internal/domain"
	"navticket/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

var testClock = time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

func tripRows() []string {
	return []string{
		"id", "route_from", "route_to", "departure_date", "departure_time",
		"total_seats", "available_seats", "price", "seat_layout", "status", "created_at",
	}
}

func scheduledTripRow(id int64, layout string, total, available int) *sqlmock.Rows {
	departure := testClock.Add(48 * time.Hour)
	return sqlmock.NewRows(tripRows()).AddRow(
		id, "Abidjan", "Bouake",
		departure, departure.Format("15:04"),
		total, available, int64(5000), layout, "scheduled", testClock,
	)
}

func seatRows() []string {
	return []string{
		"id", "trip_id", "seat_number", "seat_row", "position",
		"is_available", "booking_id", "passenger_name", "reserved_until",
	}
}

func newSeatService(t *testing.T) (*SeatService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := &SeatService{
		DB:       db,
		Trips:    repositories.TripRepository{DB: db},
		Seats:    repositories.SeatRepository{DB: db},
		Bookings: repositories.BookingRepository{DB: db},
		HoldTTL:  5 * time.Minute,
		Clock:    func() time.Time { return testClock },
	}
	return svc, mock, func() { db.Close() }
}

func TestReserveHoldsAllSeats(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id=\?`).
		WithArgs(int64(1)).
		WillReturnRows(scheduledTripRow(1, "3x2", 45, 45))
	mock.ExpectQuery(`SELECT (.+) FROM seats WHERE trip_id=\? AND seat_number IN \(\?,\?\) FOR UPDATE`).
		WithArgs(int64(1), "1A", "1B").
		WillReturnRows(sqlmock.NewRows(seatRows()).
			AddRow(1, int64(1), "1A", 1, "left_window", true, nil, nil, nil).
			AddRow(2, int64(1), "1B", 1, "left_middle", true, nil, nil, nil))
	until := testClock.Add(5 * time.Minute)
	mock.ExpectExec(`UPDATE seats SET is_available=0, reserved_until=\?`).
		WithArgs(until, int64(1), "1A", "1B").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	res, err := svc.Reserve(context.Background(), 1, []string{" 1a", "1B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(res.SeatNumbers, []string{"1A", "1B"}) {
		t.Fatalf("unexpected seat numbers: %v", res.SeatNumbers)
	}
	if !res.ReservedUntil.Equal(until) {
		t.Fatalf("expected hold until %v, got %v", until, res.ReservedUntil)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveAllOrNothingOnConflict(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	held := testClock.Add(3 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id=\?`).
		WithArgs(int64(1)).
		WillReturnRows(scheduledTripRow(1, "3x2", 45, 45))
	mock.ExpectQuery(`SELECT (.+) FROM seats WHERE trip_id=\? AND seat_number IN \(\?,\?\) FOR UPDATE`).
		WithArgs(int64(1), "1A", "1B").
		WillReturnRows(sqlmock.NewRows(seatRows()).
			AddRow(1, int64(1), "1A", 1, "left_window", true, nil, nil, nil).
			AddRow(2, int64(1), "1B", 1, "left_middle", false, nil, nil, held))
	mock.ExpectRollback()

	_, err := svc.Reserve(context.Background(), 1, []string{"1A", "1B"})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if got := domain.ConflictSeats(err); !reflect.DeepEqual(got, []string{"1B"}) {
		t.Fatalf("expected conflict on [1B], got %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveExpiredHoldIsSelectable(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	lapsed := testClock.Add(-time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id=\?`).
		WithArgs(int64(1)).
		WillReturnRows(scheduledTripRow(1, "3x2", 45, 45))
	mock.ExpectQuery(`SELECT (.+) FROM seats WHERE trip_id=\? AND seat_number IN \(\?\) FOR UPDATE`).
		WithArgs(int64(1), "2C").
		WillReturnRows(sqlmock.NewRows(seatRows()).
			AddRow(8, int64(1), "2C", 2, "left_aisle", false, nil, nil, lapsed))
	mock.ExpectExec(`UPDATE seats SET is_available=0, reserved_until=\?`).
		WithArgs(testClock.Add(5*time.Minute), int64(1), "2C").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if _, err := svc.Reserve(context.Background(), 1, []string{"2C"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveUnknownSeat(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id=\?`).
		WithArgs(int64(1)).
		WillReturnRows(scheduledTripRow(1, "3x2", 45, 45))
	mock.ExpectQuery(`SELECT (.+) FROM seats WHERE trip_id=\? AND seat_number IN \(\?\) FOR UPDATE`).
		WithArgs(int64(1), "99Z").
		WillReturnRows(sqlmock.NewRows(seatRows()))
	mock.ExpectRollback()

	_, err := svc.Reserve(context.Background(), 1, []string{"99Z"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveRejectsDuplicates(t *testing.T) {
	svc, _, closeDB := newSeatService(t)
	defer closeDB()

	_, err := svc.Reserve(context.Background(), 1, []string{"1A", "1a"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegenerateBlockedByActiveBookings(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	// one pending booking without seat rows is enough to refuse: its
	// capacity deduction would be lost by resetting the ledger
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id=\? FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(scheduledTripRow(1, "3x2", 45, 43))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE trip_id=\? AND booking_status IN \('pending','confirmed'\)`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.Regenerate(context.Background(), 1)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegenerateBlockedByCompletedBookingSeats(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id=\? FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(scheduledTripRow(1, "3x2", 45, 40))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE trip_id=\?`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM seats s`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectRollback()

	_, err := svc.Regenerate(context.Background(), 1)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegenerateRebuildsSeats(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id=\? FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(scheduledTripRow(1, "2x2", 4, 2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE trip_id=\?`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM seats s`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM seats WHERE trip_id=\?`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`INSERT INTO seats`).
		WithArgs(
			int64(1), "1A", 1, "left_window",
			int64(1), "1B", 1, "left_aisle",
			int64(1), "1C", 1, "right_aisle",
			int64(1), "1D", 1, "right_window",
		).
		WillReturnResult(sqlmock.NewResult(4, 4))
	mock.ExpectExec(`UPDATE trips SET available_seats = \? WHERE id = \?`).
		WithArgs(4, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM seats WHERE trip_id=\? ORDER BY seat_row, seat_number`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(seatRows()).
			AddRow(1, int64(1), "1A", 1, "left_window", true, nil, nil, nil).
			AddRow(2, int64(1), "1B", 1, "left_aisle", true, nil, nil, nil).
			AddRow(3, int64(1), "1C", 1, "right_aisle", true, nil, nil, nil).
			AddRow(4, int64(1), "1D", 1, "right_window", true, nil, nil, nil))
	mock.ExpectCommit()

	seatMap, err := svc.Regenerate(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seatMap.Total != 4 || seatMap.Available != 4 || seatMap.Booked != 0 {
		t.Fatalf("unexpected seat map: %+v", seatMap)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	mock.ExpectExec(`UPDATE seats SET is_available=1, reserved_until=NULL, passenger_name=NULL\s+WHERE booking_id IS NULL AND is_available=0 AND reserved_until < \?`).
		WithArgs(testClock).
		WillReturnResult(sqlmock.NewResult(0, 6))

	n, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 reclaimed, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
