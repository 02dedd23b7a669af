package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"

	intconfig "navticket/internal/config"
	h "navticket/internal/http/handlers"
	"navticket/internal/http/middleware"
	"navticket/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps carries the wired services the router mounts.
type Deps struct {
	DB       *sql.DB
	Seats    *services.SeatService
	Bookings *services.BookingService
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	system := h.SystemHandler{DB: deps.DB}
	seats := h.SeatHandler{Seats: deps.Seats}
	bookings := h.BookingHandler{Bookings: deps.Bookings}

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)
		api.GET("/db-check", system.DBCheck)

		trips := api.Group("/trips")
		trips.GET("/:id/seats", seats.GetSeatMap)
		trips.GET("/:id/seats/summary", seats.GetSummary)
		trips.POST("/:id/seats/regenerate",
			middleware.Auth(env.JWTSecret), middleware.RequireRoles("owner", "admin"),
			seats.Regenerate)

		seatGroup := api.Group("/seats")
		seatGroup.POST("/reserve", seats.Reserve)
		seatGroup.POST("/release", seats.Release)

		bookingGroup := api.Group("/bookings")
		bookingGroup.POST("", bookings.Create)
		bookingGroup.GET("/:reference", bookings.Get)
		bookingGroup.POST("/:reference/cancel", bookings.Cancel)
		bookingGroup.POST("/:reference/seats", bookings.AssignSeats)
	}

	return r
}
