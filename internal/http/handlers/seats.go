package handlers

import (
	"net/http"
	"strconv"

	"navticket/internal/http/middleware"
	"navticket/internal/services"
	"navticket/internal/utils"

	"github.com/gin-gonic/gin"
)

// SeatHandler exposes the seat map and hold endpoints.
type SeatHandler struct {
	Seats *services.SeatService
}

type seatSelectionRequest struct {
	TripID      int64    `json:"trip_id"`
	SeatNumbers []string `json:"seat_numbers"`
}

// GET /api/trips/:id/seats
func (h SeatHandler) GetSeatMap(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	seatMap, err := h.Seats.SeatMapForTrip(c.Request.Context(), tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, seatMap)
}

// GET /api/trips/:id/seats/summary
func (h SeatHandler) GetSummary(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	sum, err := h.Seats.Summary(c.Request.Context(), tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// POST /api/trips/:id/seats/regenerate
func (h SeatHandler) Regenerate(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	seatMap, err := h.Seats.Regenerate(c.Request.Context(), tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "seats", "regenerate", "trip="+strconv.FormatInt(tripID, 10))
	c.JSON(http.StatusOK, seatMap)
}

// POST /api/seats/reserve
func (h SeatHandler) Reserve(c *gin.Context) {
	var req seatSelectionRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	result, err := h.Seats.Reserve(c.Request.Context(), req.TripID, req.SeatNumbers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/seats/release
func (h SeatHandler) Release(c *gin.Context) {
	var req seatSelectionRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	released, err := h.Seats.Release(c.Request.Context(), req.TripID, req.SeatNumbers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": released})
}
