// The worker reclaims expired seat holds on a timer. The API also
// reclaims lazily on reads, so this is the backstop that keeps holds
// from lingering on trips nobody is looking at.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "navticket/internal/config"
	"navticket/internal/events"
	"navticket/internal/repositories"
	"navticket/internal/services"
)

func main() {
	env := intconfig.LoadEnv()

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	seatSvc := &services.SeatService{
		DB:       db,
		Trips:    repositories.TripRepository{DB: db},
		Seats:    repositories.SeatRepository{DB: db},
		Bookings: repositories.BookingRepository{DB: db},
	}

	producer := events.NewProducer(env.KafkaBrokers, env.BookingTopic)
	defer producer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(env.SweepInterval)
	defer ticker.Stop()

	log.Printf("hold sweeper running every %s", env.SweepInterval)
	for {
		select {
		case <-ctx.Done():
			log.Println("sweeper stopped")
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			n, err := seatSvc.SweepExpired(sweepCtx)
			cancel()
			if err != nil {
				log.Printf("sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("reclaimed %d expired holds", n)
				producer.Publish(ctx, events.BookingEvent{
					Type:  events.TypeHoldsExpired,
					Count: n,
				})
			}
		}
	}
}
