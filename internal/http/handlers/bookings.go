package handlers

import (
	"net/http"

	"navticket/internal/http/middleware"
	"navticket/internal/services"
	"navticket/internal/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Bookings *services.BookingService
}

// POST /api/bookings
func (h BookingHandler) Create(c *gin.Context) {
	var req services.CreateBookingInput
	if !BindJSONOrError(c, &req) {
		return
	}
	if id, ok := middleware.UserID(c); ok {
		req.UserID = &id
	}
	detail, err := h.Bookings.CreateBooking(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "bookings", "create", "reference="+detail.Booking.BookingReference)
	c.JSON(http.StatusCreated, detail)
}

// GET /api/bookings/:reference
func (h BookingHandler) Get(c *gin.Context) {
	detail, err := h.Bookings.GetBooking(c.Request.Context(), c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// POST /api/bookings/:reference/cancel
func (h BookingHandler) Cancel(c *gin.Context) {
	// body is optional; only bind when one was sent
	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}
	booking, err := h.Bookings.CancelBooking(c.Request.Context(), c.Param("reference"), req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "bookings", "cancel", "reference="+booking.BookingReference)
	c.JSON(http.StatusOK, booking)
}

type assignSeatsRequest struct {
	SeatNumbers []string `json:"seat_numbers"`
}

// POST /api/bookings/:reference/seats
func (h BookingHandler) AssignSeats(c *gin.Context) {
	var req assignSeatsRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := h.Bookings.AssignSeats(c.Request.Context(), c.Param("reference"), req.SeatNumbers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "bookings", "assign_seats", "reference="+booking.BookingReference)
	c.JSON(http.StatusOK, booking)
}
