package main

import (
	"context"
	"log"
	"os"

	"github.com/vetordigital/leadfunnel/internal/infrastructure/clients/postgres"
	"github.com/vetordigital/leadfunnel/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping bookings before bootstrap")
		if _, err := pgClient.DB().ExecContext(ctx, `DROP TABLE IF EXISTS bookings`); err != nil {
			log.Fatalf("Failed to drop bookings table: %v", err)
		}
	}

	// booking_date keeps the YYYY-MM-DD wire form so reads round-trip exactly.
	_, err = pgClient.DB().ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			lead_name TEXT NOT NULL,
			lead_email TEXT NOT NULL,
			lead_phone TEXT NOT NULL DEFAULT '',
			lead_company TEXT,
			page_variant TEXT NOT NULL DEFAULT '',
			notes TEXT,
			booking_date TEXT NOT NULL,
			slot TEXT NOT NULL,
			duration_minutes INT NOT NULL,
			starts_at TIMESTAMPTZ NOT NULL,
			ends_at TIMESTAMPTZ NOT NULL,
			event_id TEXT,
			meeting_link TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		log.Fatalf("Failed to create bookings table: %v", err)
	}

	_, err = pgClient.DB().ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_bookings_booking_date ON bookings (booking_date, starts_at)
	`)
	if err != nil {
		log.Fatalf("Failed to create bookings index: %v", err)
	}

	log.Println("Bookings schema ready")
}
