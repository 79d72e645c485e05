package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"atlas/internal/config"
	"atlas/internal/database"
	"atlas/internal/repository"
)

// The sweeper moves active bookings past their end time to completed.
// Completion is time-driven only; the API never performs it inline.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	repo := repository.NewBookingRepository(db, cfg.BookingRetryAttempts)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.SweepInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			n, err := repo.SweepCompleted(ctx, time.Now())
			if err != nil {
				log.Printf("sweep failed: %v", err)
				return
			}
			if n > 0 {
				log.Printf("swept %d bookings to completed", n)
			}
		}),
	)
	if err != nil {
		log.Fatalf("job: %v", err)
	}

	scheduler.Start()
	log.Printf("sweeper running, interval=%s", cfg.SweepInterval)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	if err := scheduler.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
