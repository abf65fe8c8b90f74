package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"penny_count/internal/models"
	"penny_count/internal/store"
)

// InitStore loads .env and builds the persistence backend the rest of the
// process uses. The choice is explicit configuration, not availability
// probing: STORE_BACKEND=postgres (default) or STORE_BACKEND=file.
func InitStore() store.Store {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	switch backend := getEnv("STORE_BACKEND", "postgres"); backend {
	case "file":
		fs, err := store.NewFileStore(getEnv("DATA_DIR", "./data"))
		if err != nil {
			log.Fatalf("failed to open file store: %v", err)
		}
		return fs
	case "postgres":
		return store.NewGormStore(initDB())
	default:
		log.Fatalf("unknown STORE_BACKEND %q (want postgres or file)", backend)
		return nil
	}
}

// initDB opens the postgres connection from environment variables and runs
// the schema migration.
func initDB() *gorm.DB {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "password")
	dbname := getEnv("DB_NAME", "pennycount")
	sslmode := getEnv("DB_SSLMODE", "disable")
	timezone := getEnv("DB_TIMEZONE", "UTC")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbname, port, sslmode, timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Line{},
		&models.Borrower{},
		&models.Loan{},
		&models.Payment{},
		&models.Commission{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("auto-migration failed: %v", err)
	}

	return db
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}
