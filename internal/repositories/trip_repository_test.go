package repositories

import (
	"context"
	"testing"
	"time"

	"navticket/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestReserveCapacity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := TripRepository{DB: db}

	t.Run("deducts when enough seats", func(t *testing.T) {
		mock.ExpectExec(`UPDATE trips SET available_seats = available_seats - \? WHERE id = \? AND available_seats >= \?`).
			WithArgs(3, int64(1), 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.ReserveCapacity(context.Background(), db, 1, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("conflict when guard blocks", func(t *testing.T) {
		mock.ExpectExec(`UPDATE trips SET available_seats = available_seats -`).
			WithArgs(5, int64(1), 5).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReserveCapacity(context.Background(), db, 1, 5)
		if !domain.IsConflict(err) {
			t.Fatalf("expected conflict error, got %v", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRestoreCapacity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := TripRepository{DB: db}

	t.Run("restores seats", func(t *testing.T) {
		mock.ExpectExec(`UPDATE trips SET available_seats = available_seats \+ \? WHERE id = \?`).
			WithArgs(2, int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.RestoreCapacity(context.Background(), db, 9, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing trip", func(t *testing.T) {
		mock.ExpectExec(`UPDATE trips SET available_seats = available_seats \+`).
			WithArgs(2, int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RestoreCapacity(context.Background(), db, 404, 2)
		if !domain.IsNotFound(err) {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	departure := time.Date(2026, 4, 2, 9, 30, 0, 0, time.Local)
	rows := addTripRow(sqlmock.NewRows(tripRows()), 7, departure, 40, 5000, "3x2", "scheduled")

	mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id=\?`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	repo := TripRepository{DB: db}
	trip, err := repo.GetTrip(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.DepartureDate != "2026-04-02" || trip.DepartureTime != "09:30" {
		t.Fatalf("unexpected departure fields: %s %s", trip.DepartureDate, trip.DepartureTime)
	}
	if trip.Price != 5000 || trip.AvailableSeats != 40 {
		t.Fatalf("unexpected trip: %+v", trip)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetTripNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id=\?`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(tripRows()))

	repo := TripRepository{DB: db}
	_, err = repo.GetTrip(context.Background(), db, 42)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetTripInvalidID(t *testing.T) {
	repo := TripRepository{}
	if _, err := repo.GetTrip(context.Background(), nil, 0); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func tripRows() []string {
	return []string{
		"id", "route_from", "route_to", "departure_date", "departure_time",
		"total_seats", "available_seats", "price", "seat_layout", "status", "created_at",
	}
}

func addTripRow(rows *sqlmock.Rows, id int64, departure time.Time, available int, price int64, layout, status string) *sqlmock.Rows {
	return rows.AddRow(
		id, "Abidjan", "Bouake",
		departure, departure.Format("15:04"),
		45, available, price, layout, status, time.Now(),
	)
}
