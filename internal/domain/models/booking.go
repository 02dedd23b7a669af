package models

import (
	"strings"
	"time"

	"navticket/internal/domain"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

type AgeCategory string

const (
	AgeAdult  AgeCategory = "adult"
	AgeChild  AgeCategory = "child"
	AgeInfant AgeCategory = "infant"
)

// CancelBuffer is how long before departure a booking stays cancellable.
const CancelBuffer = 2 * time.Hour

// MaxPassengersPerBooking bounds a single booking.
const MaxPassengersPerBooking = 10

type Booking struct {
	ID               int64         `json:"id"`
	TripID           int64         `json:"trip_id"`
	UserID           *int64        `json:"user_id,omitempty"`
	BookingReference string        `json:"booking_reference"`
	TicketPrice      int64         `json:"ticket_price"`
	PlatformFee      int64         `json:"platform_fee"`
	TotalAmount      int64         `json:"total_amount"`
	TotalPassengers  int           `json:"total_passengers"`
	SelectedSeats    []string      `json:"selected_seats"`
	BookingStatus    BookingStatus `json:"booking_status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	ContactEmail     string        `json:"contact_email"`
	ContactPhone     string        `json:"contact_phone"`
	CreatedAt        time.Time     `json:"created_at"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty"`
	CancelReason     string        `json:"cancellation_reason,omitempty"`
}

// IsCancellable reports whether the booking may still be cancelled:
// not already terminal, and more than CancelBuffer before departure.
func (b Booking) IsCancellable(now, departureAt time.Time) bool {
	if b.BookingStatus == BookingStatusCancelled || b.BookingStatus == BookingStatusCompleted {
		return false
	}
	return departureAt.Sub(now) > CancelBuffer
}

// IsActive reports whether the booking still owns its seats.
func (b Booking) IsActive() bool {
	return b.BookingStatus == BookingStatusPending || b.BookingStatus == BookingStatusConfirmed
}

type Passenger struct {
	ID          int64       `json:"id"`
	BookingID   int64       `json:"booking_id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Phone       string      `json:"phone,omitempty"`
	IDType      string      `json:"id_type,omitempty"`
	IDNumber    string      `json:"id_number,omitempty"`
	AgeCategory AgeCategory `json:"age_category"`
	SeatNumber  string      `json:"seat_number,omitempty"`
}

// PassengerInput carries per-passenger data on booking creation.
type PassengerInput struct {
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Phone       string      `json:"phone"`
	IDType      string      `json:"id_type"`
	IDNumber    string      `json:"id_number"`
	AgeCategory AgeCategory `json:"age_category"`
	SeatNumber  string      `json:"seat_number"`
}

// ValidatePassengers checks count bounds and required fields before any
// mutation begins, and returns the inputs with names trimmed.
func ValidatePassengers(inputs []PassengerInput) ([]PassengerInput, error) {
	if len(inputs) == 0 {
		return nil, domain.ValidationError{Field: "passengers", Msg: "at least one passenger is required"}
	}
	if len(inputs) > MaxPassengersPerBooking {
		return nil, domain.ValidationError{Field: "passengers", Msg: "maximum 10 passengers per booking"}
	}
	clean := make([]PassengerInput, 0, len(inputs))
	for _, in := range inputs {
		in.FirstName = strings.TrimSpace(in.FirstName)
		in.LastName = strings.TrimSpace(in.LastName)
		if in.FirstName == "" || in.LastName == "" {
			return nil, domain.ValidationError{Field: "passengers", Msg: "passenger first and last name are required"}
		}
		if in.AgeCategory == "" {
			in.AgeCategory = AgeAdult
		}
		clean = append(clean, in)
	}
	return clean, nil
}
