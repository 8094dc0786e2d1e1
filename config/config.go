package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dsn := os.Getenv("DB_DSN")
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
}

// AlertInterval is how often the delay risk scan runs. Defaults to
// hourly; override with ALERT_INTERVAL (Go duration syntax, e.g. "1m"
// for local demos).
func AlertInterval() time.Duration {
	raw := os.Getenv("ALERT_INTERVAL")
	if raw == "" {
		return time.Hour
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Invalid ALERT_INTERVAL %q, falling back to 1h", raw)
		return time.Hour
	}
	return d
}

// AlertThresholdDays is how far ahead the scan looks for undelivered
// requirements. Defaults to 3 days; override with ALERT_THRESHOLD_DAYS.
func AlertThresholdDays() int {
	raw := os.Getenv("ALERT_THRESHOLD_DAYS")
	if raw == "" {
		return 3
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("Invalid ALERT_THRESHOLD_DAYS %q, falling back to 3", raw)
		return 3
	}
	return n
}
