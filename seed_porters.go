package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"railporter-server/utils"
)

// seedPorter mirrors the columns the seed script writes
type seedPorter struct {
	BadgeNumber    string
	Name           string
	Phone          string
	Station        string
	Password       string
	Experience     string
	Specialization string
	Languages      string
}

var demoPorters = []seedPorter{
	{
		BadgeNumber:    "NDLS-001",
		Name:           "Ramesh Kumar",
		Phone:          "9810000001",
		Station:        "NDLS",
		Password:       "porter123",
		Experience:     "8 years",
		Specialization: "Heavy luggage",
		Languages:      "Hindi, English",
	},
	{
		BadgeNumber:    "NDLS-002",
		Name:           "Suresh Yadav",
		Phone:          "9810000002",
		Station:        "NDLS",
		Password:       "porter123",
		Experience:     "3 years",
		Specialization: "Wheelchair assistance",
		Languages:      "Hindi",
	},
	{
		BadgeNumber:    "BCT-001",
		Name:           "Mahesh Patil",
		Phone:          "9820000001",
		Station:        "BCT",
		Password:       "porter123",
		Experience:     "12 years",
		Specialization: "Group bookings",
		Languages:      "Marathi, Hindi, English",
	},
}

// seedPorters inserts demo porters for local development.
// Run with: go run . seed
func seedPorters() {
	connString := os.Getenv("DB_URL")
	if connString == "" {
		log.Fatal("DB_URL is required for seeding")
	}

	db, err := sql.Open("postgres", connString)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	inserted := 0
	for _, p := range demoPorters {
		hash, err := utils.HashPassword(p.Password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", p.BadgeNumber, err)
		}

		result, err := db.Exec(`
			INSERT INTO porters
				(badge_number, name, phone_number, station, password_hash,
				 experience, specialization, languages, is_online, is_verified,
				 created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, true, $9, $9)
			ON CONFLICT (badge_number) DO NOTHING`,
			p.BadgeNumber, p.Name, p.Phone, p.Station, hash,
			p.Experience, p.Specialization, p.Languages, time.Now())
		if err != nil {
			log.Fatalf("Failed to insert porter %s: %v", p.BadgeNumber, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			inserted++
			log.Printf("✅ Seeded porter %s (%s)", p.Name, p.BadgeNumber)
		} else {
			log.Printf("ℹ️ Porter %s already exists, skipped", p.BadgeNumber)
		}
	}

	log.Printf("✅ Seeding complete: %d porter(s) inserted", inserted)
}
