package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"navticket/internal/cache"
	"navticket/internal/domain"
	"navticket/internal/domain/models"
	"navticket/internal/events"
	"navticket/internal/repositories"
	"navticket/internal/utils"
)

// maxReferenceAttempts bounds the collision retry loop. The suffix space
// is 36^5, so more than a couple of attempts means something is wrong.
const maxReferenceAttempts = 10

// BookingService orchestrates the booking lifecycle: creation with
// atomic capacity deduction, seat assignment, and cancellation with
// capacity restore. It owns the transactions; repositories only run
// statements inside them.
type BookingService struct {
	DB          *sql.DB
	Trips       repositories.TripRepository
	Bookings    repositories.BookingRepository
	SeatSvc     *SeatService
	Cache       *cache.SeatCache
	Producer    *events.Producer
	PlatformFee int64
	RefPrefix   string
	Clock       func() time.Time
}

func (s *BookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// CreateBookingInput is the request payload for a new booking.
type CreateBookingInput struct {
	TripID       int64                   `json:"trip_id"`
	UserID       *int64                  `json:"user_id,omitempty"`
	Passengers   []models.PassengerInput `json:"passengers"`
	SeatNumbers  []string                `json:"seat_numbers,omitempty"`
	ContactEmail string                  `json:"contact_email"`
	ContactPhone string                  `json:"contact_phone"`
}

// BookingDetail pairs a booking with its passenger list.
type BookingDetail struct {
	Booking    models.Booking     `json:"booking"`
	Passengers []models.Passenger `json:"passengers"`
}

// CalculatePrice derives the ticket subtotal and grand total for a
// passenger count. The platform fee is flat per booking, not per seat.
func CalculatePrice(pricePerSeat int64, passengers int, platformFee int64) (ticket, total int64) {
	ticket = pricePerSeat * int64(passengers)
	return ticket, ticket + platformFee
}

// CreateBooking validates the trip and passengers, prices the booking,
// allocates a unique reference, and persists everything in one
// transaction together with the capacity deduction. When seat numbers
// are supplied they are bound to the booking in the same transaction,
// so a failure on any step leaves no trace.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (BookingDetail, error) {
	passengers, err := models.ValidatePassengers(in.Passengers)
	if err != nil {
		return BookingDetail{}, err
	}

	seatNumbers := utils.NormalizeSeats(in.SeatNumbers)
	if len(seatNumbers) > 0 {
		if dup := utils.DuplicateSeats(seatNumbers); len(dup) > 0 {
			return BookingDetail{}, domain.ValidationError{Field: "seat_numbers", Msg: "duplicate seats: " + strings.Join(dup, ", ")}
		}
		if len(seatNumbers) != len(passengers) {
			return BookingDetail{}, domain.ValidationError{Field: "seat_numbers", Msg: "seat count must match passenger count"}
		}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return BookingDetail{}, domain.InternalError{Msg: "failed to begin transaction", Err: err}
	}
	defer tx.Rollback()

	now := s.now()
	trip, err := s.Trips.GetTripForUpdate(ctx, tx, in.TripID)
	if err != nil {
		return BookingDetail{}, err
	}
	if !trip.IsBookable(now) {
		return BookingDetail{}, domain.StateError{Resource: "trip", Msg: "trip is not open for booking"}
	}

	ticket, total := CalculatePrice(trip.Price, len(passengers), s.PlatformFee)

	reference, err := s.allocateReference(ctx, tx, now)
	if err != nil {
		return BookingDetail{}, err
	}

	booking := models.Booking{
		TripID:           trip.ID,
		UserID:           in.UserID,
		BookingReference: reference,
		TicketPrice:      ticket,
		PlatformFee:      s.PlatformFee,
		TotalAmount:      total,
		TotalPassengers:  len(passengers),
		SelectedSeats:    seatNumbers,
		BookingStatus:    models.BookingStatusPending,
		PaymentStatus:    models.PaymentStatusPending,
		ContactEmail:     strings.TrimSpace(in.ContactEmail),
		ContactPhone:     strings.TrimSpace(in.ContactPhone),
		CreatedAt:        now,
	}
	if err := s.Bookings.Insert(ctx, tx, &booking); err != nil {
		return BookingDetail{}, err
	}
	if err := s.Bookings.InsertPassengers(ctx, tx, booking.ID, passengers); err != nil {
		return BookingDetail{}, err
	}

	// Deducted last so every validation above ran first; the guarded
	// UPDATE is what actually decides whether capacity remains.
	if err := s.Trips.ReserveCapacity(ctx, tx, trip.ID, len(passengers)); err != nil {
		return BookingDetail{}, err
	}

	if len(seatNumbers) > 0 {
		if err := s.SeatSvc.AssignWithinTx(ctx, tx, trip.ID, booking.ID, seatNumbers); err != nil {
			return BookingDetail{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return BookingDetail{}, domain.InternalError{Msg: "failed to commit transaction", Err: err}
	}

	s.Cache.InvalidateTrip(ctx, trip.ID)
	s.Producer.Publish(ctx, events.BookingEvent{
		Type:        events.TypeBookingCreated,
		Reference:   booking.BookingReference,
		TripID:      trip.ID,
		SeatNumbers: seatNumbers,
		Status:      string(booking.BookingStatus),
		TotalAmount: booking.TotalAmount,
		OccurredAt:  now,
	})

	saved, err := s.Bookings.ListPassengers(ctx, s.DB, booking.ID)
	if err != nil {
		return BookingDetail{Booking: booking}, nil
	}
	return BookingDetail{Booking: booking, Passengers: saved}, nil
}

// allocateReference draws references until one is unused. The existence
// check narrows the race window; the unique index catches the rest.
func (s *BookingService) allocateReference(ctx context.Context, q repositories.DBTX, now time.Time) (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref := utils.NewBookingReference(s.RefPrefix, now)
		taken, err := s.Bookings.ReferenceExists(ctx, q, ref)
		if err != nil {
			return "", err
		}
		if !taken {
			return ref, nil
		}
	}
	return "", domain.ConflictError{Resource: "booking", Msg: "could not allocate a unique booking reference"}
}

// GetBooking loads a booking and its passengers by reference.
func (s *BookingService) GetBooking(ctx context.Context, reference string) (BookingDetail, error) {
	reference = strings.TrimSpace(strings.ToUpper(reference))
	if reference == "" {
		return BookingDetail{}, domain.ValidationError{Field: "reference", Msg: "booking reference is required"}
	}
	booking, err := s.Bookings.GetByReference(ctx, s.DB, reference)
	if err != nil {
		return BookingDetail{}, err
	}
	passengers, err := s.Bookings.ListPassengers(ctx, s.DB, booking.ID)
	if err != nil {
		return BookingDetail{}, err
	}
	return BookingDetail{Booking: booking, Passengers: passengers}, nil
}

// CancelBooking cancels an active booking, frees its seats and restores
// trip capacity, all in one transaction. Cancellation closes two hours
// before departure. The reason is optional and stored verbatim.
func (s *BookingService) CancelBooking(ctx context.Context, reference, reason string) (models.Booking, error) {
	reference = strings.TrimSpace(strings.ToUpper(reference))
	if reference == "" {
		return models.Booking{}, domain.ValidationError{Field: "reference", Msg: "booking reference is required"}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to begin transaction", Err: err}
	}
	defer tx.Rollback()

	now := s.now()
	booking, err := s.Bookings.GetByReferenceForUpdate(ctx, tx, reference)
	if err != nil {
		return models.Booking{}, err
	}
	trip, err := s.Trips.GetTrip(ctx, tx, booking.TripID)
	if err != nil {
		return models.Booking{}, err
	}
	departureAt, err := trip.DepartureAt()
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to resolve departure time", Err: err}
	}
	if !booking.IsCancellable(now, departureAt) {
		if !booking.IsActive() {
			return models.Booking{}, domain.StateError{Resource: "booking", Msg: "booking is already " + string(booking.BookingStatus)}
		}
		return models.Booking{}, domain.StateError{Resource: "booking", Msg: "cancellation closes 2 hours before departure"}
	}

	if err := s.Bookings.MarkCancelled(ctx, tx, booking.ID, now, reason); err != nil {
		return models.Booking{}, err
	}
	if _, err := s.SeatSvc.UnassignWithinTx(ctx, tx, booking.ID); err != nil {
		return models.Booking{}, err
	}
	if err := s.Trips.RestoreCapacity(ctx, tx, booking.TripID, booking.TotalPassengers); err != nil {
		return models.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to commit transaction", Err: err}
	}

	booking.BookingStatus = models.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancelReason = strings.TrimSpace(reason)

	s.Cache.InvalidateTrip(ctx, booking.TripID)
	s.Producer.Publish(ctx, events.BookingEvent{
		Type:       events.TypeBookingCancelled,
		Reference:  booking.BookingReference,
		TripID:     booking.TripID,
		Status:     string(booking.BookingStatus),
		OccurredAt: now,
	})
	return booking, nil
}

// AssignSeats binds concrete seats to an existing active booking,
// replacing any previous assignment. Seat count must match the
// passenger count, and every seat must be free or merely held.
func (s *BookingService) AssignSeats(ctx context.Context, reference string, seatNumbers []string) (models.Booking, error) {
	reference = strings.TrimSpace(strings.ToUpper(reference))
	if reference == "" {
		return models.Booking{}, domain.ValidationError{Field: "reference", Msg: "booking reference is required"}
	}
	seatNumbers = utils.NormalizeSeats(seatNumbers)
	if len(seatNumbers) == 0 {
		return models.Booking{}, domain.ValidationError{Field: "seat_numbers", Msg: "at least one seat is required"}
	}
	if dup := utils.DuplicateSeats(seatNumbers); len(dup) > 0 {
		return models.Booking{}, domain.ValidationError{Field: "seat_numbers", Msg: "duplicate seats: " + strings.Join(dup, ", ")}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to begin transaction", Err: err}
	}
	defer tx.Rollback()

	now := s.now()
	booking, err := s.Bookings.GetByReferenceForUpdate(ctx, tx, reference)
	if err != nil {
		return models.Booking{}, err
	}
	if !booking.IsActive() {
		return models.Booking{}, domain.StateError{Resource: "booking", Msg: "booking is " + string(booking.BookingStatus)}
	}
	if len(seatNumbers) != booking.TotalPassengers {
		return models.Booking{}, domain.ValidationError{Field: "seat_numbers", Msg: "seat count must match passenger count"}
	}

	if _, err := s.SeatSvc.UnassignWithinTx(ctx, tx, booking.ID); err != nil {
		return models.Booking{}, err
	}
	if err := s.SeatSvc.AssignWithinTx(ctx, tx, booking.TripID, booking.ID, seatNumbers); err != nil {
		return models.Booking{}, err
	}
	if err := s.Bookings.UpdateSelectedSeats(ctx, tx, booking.ID, seatNumbers); err != nil {
		return models.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to commit transaction", Err: err}
	}

	booking.SelectedSeats = seatNumbers

	s.Cache.InvalidateTrip(ctx, booking.TripID)
	s.Producer.Publish(ctx, events.BookingEvent{
		Type:        events.TypeSeatsAssigned,
		Reference:   booking.BookingReference,
		TripID:      booking.TripID,
		SeatNumbers: seatNumbers,
		Status:      string(booking.BookingStatus),
		OccurredAt:  now,
	})
	return booking, nil
}
