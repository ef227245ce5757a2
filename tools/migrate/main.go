package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq"
	_ "github.com/orgball2608/community-feed-engine/internal/migrations"
	"github.com/orgball2608/community-feed-engine/pkg/config"
	"github.com/pressly/goose/v3"
)

// Migrations are registered as Go migrations at import time; goose only
// needs an existing directory as a version source.
const migrationsDir = "."

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|status|reset|version]")
	}

	command := os.Args[1]

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		err = goose.Up(db, migrationsDir)
	case "down":
		err = goose.Down(db, migrationsDir)
	case "status":
		err = goose.Status(db, migrationsDir)
	case "reset":
		err = goose.Reset(db, migrationsDir)
	case "version":
		err = goose.Version(db, migrationsDir)
	default:
		log.Fatalf("Unknown command: %s", command)
	}
	if err != nil {
		log.Fatalf("Migration %s failed: %v", command, err)
	}
}
