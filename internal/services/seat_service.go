package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"navticket/internal/cache"
	"navticket/internal/domain"
	"navticket/internal/domain/models"
	"navticket/internal/repositories"
	"navticket/internal/seatmap"
	"navticket/internal/utils"
)

// SeatService owns seat map lifecycle and temporary holds. Every
// mutation runs inside one transaction so availability checks and state
// changes are atomic under the row locks.
type SeatService struct {
	DB       *sql.DB
	Trips    repositories.TripRepository
	Seats    repositories.SeatRepository
	Bookings repositories.BookingRepository
	Cache    *cache.SeatCache
	HoldTTL  time.Duration
	Clock    func() time.Time
}

func (s *SeatService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *SeatService) holdTTL() time.Duration {
	if s.HoldTTL > 0 {
		return s.HoldTTL
	}
	return 5 * time.Minute
}

// ReservationResult reports a successful hold.
type ReservationResult struct {
	TripID        int64     `json:"trip_id"`
	SeatNumbers   []string  `json:"seat_numbers"`
	ReservedUntil time.Time `json:"reserved_until"`
	ExpiresIn     int64     `json:"expires_in_seconds"`
}

// SeatMapForTrip returns the full seat map, generating it on first
// access for trips created before their seats. Expired holds are
// reclaimed in the same transaction so the map never shows dead holds.
func (s *SeatService) SeatMapForTrip(ctx context.Context, tripID int64) (models.SeatMap, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.SeatMap{}, domain.InternalError{Msg: "failed to begin transaction", Err: err}
	}
	defer tx.Rollback()

	trip, err := s.Trips.GetTrip(ctx, tx, tripID)
	if err != nil {
		return models.SeatMap{}, err
	}

	count, err := s.Seats.CountForTrip(ctx, tx, tripID)
	if err != nil {
		return models.SeatMap{}, err
	}
	if count == 0 && trip.TotalSeats > 0 {
		generated := seatmap.Generate(trip.ID, trip.SeatLayout, trip.TotalSeats)
		if err := s.Seats.BulkInsert(ctx, tx, generated); err != nil {
			return models.SeatMap{}, err
		}
	}

	if _, err := s.Seats.ReclaimExpiredForTrip(ctx, tx, tripID, s.now()); err != nil {
		return models.SeatMap{}, err
	}

	seats, err := s.Seats.ListForTrip(ctx, tx, tripID)
	if err != nil {
		return models.SeatMap{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.SeatMap{}, domain.InternalError{Msg: "failed to commit transaction", Err: err}
	}

	sum := models.Summarize(seats)
	s.Cache.SetSummary(ctx, tripID, sum)

	return models.SeatMap{
		TripID:        trip.ID,
		SeatLayout:    trip.SeatLayout,
		Total:         sum.Total,
		Available:     sum.Available,
		Booked:        sum.Booked,
		Held:          sum.Held,
		OccupancyRate: sum.OccupancyRate,
		Seats:         seats,
	}, nil
}

// Summary returns the availability counters, served from cache when a
// fresh entry exists.
func (s *SeatService) Summary(ctx context.Context, tripID int64) (models.SeatSummary, error) {
	if sum, ok := s.Cache.GetSummary(ctx, tripID); ok {
		return sum, nil
	}
	m, err := s.SeatMapForTrip(ctx, tripID)
	if err != nil {
		return models.SeatSummary{}, err
	}
	return models.SeatSummary{
		Total:         m.Total,
		Available:     m.Available,
		Booked:        m.Booked,
		Held:          m.Held,
		OccupancyRate: m.OccupancyRate,
	}, nil
}

// Regenerate deletes and rebuilds the seat map from the trip's layout
// and seat count, and resets the capacity ledger to match. Refused when
// any seat belongs to a confirmed or completed booking.
func (s *SeatService) Regenerate(ctx context.Context, tripID int64) (models.SeatMap, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.SeatMap{}, domain.InternalError{Msg: "failed to begin transaction", Err: err}
	}
	defer tx.Rollback()

	trip, err := s.Trips.GetTripForUpdate(ctx, tx, tripID)
	if err != nil {
		return models.SeatMap{}, err
	}

	// An active booking holds a deduction on the capacity ledger even
	// when it owns no seat rows yet; resetting the counter under it
	// would let a later cancel push available past total.
	active, err := s.Bookings.CountActiveForTrip(ctx, tx, tripID)
	if err != nil {
		return models.SeatMap{}, err
	}
	if active > 0 {
		return models.SeatMap{}, domain.ConflictError{
			Resource: "seat_map",
			Msg:      "regeneration blocked: trip has active bookings",
		}
	}

	booked, err := s.Seats.CountBooked(ctx, tx, tripID)
	if err != nil {
		return models.SeatMap{}, err
	}
	if booked > 0 {
		return models.SeatMap{}, domain.ConflictError{
			Resource: "seat_map",
			Msg:      "regeneration blocked: trip has seats on completed bookings",
		}
	}

	if err := s.Seats.DeleteForTrip(ctx, tx, tripID); err != nil {
		return models.SeatMap{}, err
	}
	generated := seatmap.Generate(trip.ID, trip.SeatLayout, trip.TotalSeats)
	if err := s.Seats.BulkInsert(ctx, tx, generated); err != nil {
		return models.SeatMap{}, err
	}
	if err := s.Trips.ResetCapacity(ctx, tx, tripID, trip.TotalSeats); err != nil {
		return models.SeatMap{}, err
	}

	seats, err := s.Seats.ListForTrip(ctx, tx, tripID)
	if err != nil {
		return models.SeatMap{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.SeatMap{}, domain.InternalError{Msg: "failed to commit transaction", Err: err}
	}

	s.Cache.InvalidateTrip(ctx, tripID)

	sum := models.Summarize(seats)
	return models.SeatMap{
		TripID:        trip.ID,
		SeatLayout:    trip.SeatLayout,
		Total:         sum.Total,
		Available:     sum.Available,
		Booked:        sum.Booked,
		Held:          sum.Held,
		OccupancyRate: sum.OccupancyRate,
		Seats:         seats,
	}, nil
}

// Reserve places a temporary hold on the requested seats. All or
// nothing: if any seat is booked or actively held, no seat is touched
// and the conflict error names every unavailable seat.
func (s *SeatService) Reserve(ctx context.Context, tripID int64, seatNumbers []string) (ReservationResult, error) {
	seatNumbers, err := validateSeatSelection(seatNumbers)
	if err != nil {
		return ReservationResult{}, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return ReservationResult{}, domain.InternalError{Msg: "failed to begin transaction", Err: err}
	}
	defer tx.Rollback()

	if _, err := s.Trips.GetTrip(ctx, tx, tripID); err != nil {
		return ReservationResult{}, err
	}

	now := s.now()
	locked, err := s.Seats.LockBySeatNumbers(ctx, tx, tripID, seatNumbers)
	if err != nil {
		return ReservationResult{}, err
	}
	if err := checkSeatsSelectable(seatNumbers, locked, now); err != nil {
		return ReservationResult{}, err
	}

	until := now.Add(s.holdTTL())
	if err := s.Seats.HoldSeats(ctx, tx, tripID, seatNumbers, until); err != nil {
		return ReservationResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return ReservationResult{}, domain.InternalError{Msg: "failed to commit transaction", Err: err}
	}

	s.Cache.InvalidateTrip(ctx, tripID)
	return ReservationResult{
		TripID:        tripID,
		SeatNumbers:   seatNumbers,
		ReservedUntil: until,
		ExpiresIn:     int64(s.holdTTL().Seconds()),
	}, nil
}

// Release frees held seats ahead of their expiry, e.g. when the user
// abandons checkout. Booked seats matched by the request stay put, and
// the returned count says how many were actually released.
func (s *SeatService) Release(ctx context.Context, tripID int64, seatNumbers []string) (int64, error) {
	seatNumbers, err := validateSeatSelection(seatNumbers)
	if err != nil {
		return 0, err
	}
	if _, err := s.Trips.GetTrip(ctx, s.DB, tripID); err != nil {
		return 0, err
	}
	released, err := s.Seats.ReleaseHeld(ctx, s.DB, tripID, seatNumbers)
	if err != nil {
		return 0, err
	}
	if released > 0 {
		s.Cache.InvalidateTrip(ctx, tripID)
	}
	return released, nil
}

// AssignWithinTx permanently binds seats to a booking inside a caller
// transaction. Seats must be available or held; booked seats conflict.
func (s *SeatService) AssignWithinTx(ctx context.Context, tx *sql.Tx, tripID, bookingID int64, seatNumbers []string) error {
	locked, err := s.Seats.LockBySeatNumbers(ctx, tx, tripID, seatNumbers)
	if err != nil {
		return err
	}
	if missing := utils.MissingSeats(seatNumbers, seatNumbersOf(locked)); len(missing) > 0 {
		return domain.ValidationError{Field: "seat_numbers", Msg: "unknown seats: " + strings.Join(missing, ", ")}
	}
	conflicts := []string{}
	for _, seat := range locked {
		if seat.IsBooked() && *seat.BookingID != bookingID {
			conflicts = append(conflicts, seat.SeatNumber)
		}
	}
	if len(conflicts) > 0 {
		return domain.ConflictError{Resource: "seats", Msg: "seats already booked", Seats: conflicts}
	}
	return s.Seats.AssignToBooking(ctx, tx, tripID, bookingID, seatNumbers)
}

// UnassignWithinTx frees every seat a booking owns, inside a caller
// transaction. Idempotent.
func (s *SeatService) UnassignWithinTx(ctx context.Context, tx *sql.Tx, bookingID int64) (int64, error) {
	return s.Seats.UnassignBooking(ctx, tx, bookingID)
}

// SweepExpired reclaims every lapsed hold across all trips. The worker
// calls this on a timer; the reserve path also reclaims lazily, so the
// sweep is a backstop, not a correctness requirement.
func (s *SeatService) SweepExpired(ctx context.Context) (int64, error) {
	return s.Seats.ReclaimExpired(ctx, s.DB, s.now())
}

func validateSeatSelection(seatNumbers []string) ([]string, error) {
	cleaned := utils.NormalizeSeats(seatNumbers)
	if len(cleaned) == 0 {
		return nil, domain.ValidationError{Field: "seat_numbers", Msg: "at least one seat is required"}
	}
	if dup := utils.DuplicateSeats(cleaned); len(dup) > 0 {
		return nil, domain.ValidationError{Field: "seat_numbers", Msg: "duplicate seats: " + strings.Join(dup, ", ")}
	}
	return cleaned, nil
}

// checkSeatsSelectable verifies every requested seat exists and is free
// to take at the given instant.
func checkSeatsSelectable(requested []string, locked []models.Seat, now time.Time) error {
	if missing := utils.MissingSeats(requested, seatNumbersOf(locked)); len(missing) > 0 {
		return domain.ValidationError{Field: "seat_numbers", Msg: "unknown seats: " + strings.Join(missing, ", ")}
	}
	conflicts := []string{}
	for _, seat := range locked {
		if !seat.IsSelectable(now) {
			conflicts = append(conflicts, seat.SeatNumber)
		}
	}
	if len(conflicts) > 0 {
		return domain.ConflictError{Resource: "seats", Msg: "seats are not available", Seats: conflicts}
	}
	return nil
}

func seatNumbersOf(seats []models.Seat) []string {
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		out = append(out, s.SeatNumber)
	}
	return out
}
