package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"tranquility/internal/config"
	"tranquility/internal/database"
	"tranquility/internal/modules/booking"
	"tranquility/internal/observability"
	"tranquility/internal/repository"
)

// expire_pending cancels PENDING bookings whose check-in date has passed.
// Meant to run from cron.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv)

	db, err := database.Connect(cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	svc := booking.NewService(
		repository.NewBookingRepository(db),
		repository.NewRoomRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
	n, err := svc.ExpirePending(ctx, cfg.ExpirePendingGrace)
	if err != nil {
		log.Fatal().Err(err).Int("expired", n).Msg("expire pending bookings failed")
	}
	log.Info().Int("expired", n).Dur("grace", cfg.ExpirePendingGrace).Msg("expire pending completed")
}
