package main

import (
	"database/sql"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"clinic-server/config"
	"clinic-server/utils"
)

// seedAdminUser bootstraps the first ADMIN account when SEED_ADMIN=true.
// Runs against the raw connection so it works before any API is up.
func seedAdminUser() {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Warn().Msg("SEED_ADMIN set but SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD missing, skipping")
		return
	}

	db, err := sql.Open("postgres", config.AppConfig.Database.URL)
	if err != nil {
		log.Error().Err(err).Msg("Seed: failed to connect to database")
		return
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = 'ADMIN'`).Scan(&count); err != nil {
		log.Error().Err(err).Msg("Seed: failed to check for existing admins")
		return
	}
	if count > 0 {
		log.Info().Msg("Seed: admin account already exists, skipping")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Error().Err(err).Msg("Seed: failed to hash admin password")
		return
	}

	_, err = db.Exec(
		`INSERT INTO users (name, email, password_hash, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, 'ADMIN', true, NOW(), NOW())`,
		"Administrator", email, hash,
	)
	if err != nil {
		log.Error().Err(err).Msg("Seed: failed to insert admin user")
		return
	}

	log.Info().Str("email", email).Msg("Seed: admin account created")
}
