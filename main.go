package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"navticket/internal/cache"
	intconfig "navticket/internal/config"
	"navticket/internal/events"
	router "navticket/internal/http"
	"navticket/internal/repositories"
	"navticket/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repositories.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema migration failed: %v", err)
	}
	cancel()

	var redisClient *redis.Client
	if env.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     env.RedisAddr,
			Password: env.RedisPassword,
			DB:       env.RedisDB,
		})
		defer redisClient.Close()
	}
	seatCache := cache.New(redisClient, env.SeatCacheTTL)

	producer := events.NewProducer(env.KafkaBrokers, env.BookingTopic)
	defer producer.Close()

	tripRepo := repositories.TripRepository{DB: db}
	seatRepo := repositories.SeatRepository{DB: db}
	bookingRepo := repositories.BookingRepository{DB: db}

	seatSvc := &services.SeatService{
		DB:       db,
		Trips:    tripRepo,
		Seats:    seatRepo,
		Bookings: bookingRepo,
		Cache:    seatCache,
		HoldTTL:  env.HoldTTL,
	}
	bookingSvc := &services.BookingService{
		DB:          db,
		Trips:       tripRepo,
		Bookings:    bookingRepo,
		SeatSvc:     seatSvc,
		Cache:       seatCache,
		Producer:    producer,
		PlatformFee: env.PlatformFee,
		RefPrefix:   env.ReferencePrefix,
	}

	r := router.NewRouter(env, router.Deps{DB: db, Seats: seatSvc, Bookings: bookingSvc})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("booking service listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}
