package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"virtual-airline/logger"
	"virtual-airline/models/acars"
	"virtual-airline/models/aircraft"
	"virtual-airline/models/airport"
	"virtual-airline/models/fare"
	"virtual-airline/models/flight"
	"virtual-airline/models/journal"
	"virtual-airline/models/pirep"
	"virtual-airline/models/user"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, username, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Create indexes for better performance
	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models
func autoMigrate() error {
	// First, migrate models without foreign key constraints in stages

	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&user.User{},
		&airport.Airport{},
		&aircraft.Aircraft{},
		&flight.Flight{},
		&fare.Fare{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models with dependencies on Stage 1
	stage2Models := []interface{}{
		&pirep.Pirep{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Rows owned by PIREPs
	remainingModels := []interface{}{
		&acars.Acars{},
		&fare.PirepFare{},
		&pirep.FieldValue{},
		&pirep.StatusEvent{},
		&journal.Transaction{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// PIREP indexes for duplicate detection and the live map
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_pireps_duplicate ON pireps(user_id, aircraft_id, dpt_airport_id, arr_airport_id, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create pirep duplicate index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_pireps_live ON pireps(state, updated_at)").Error; err != nil {
		return fmt.Errorf("failed to create pirep live index: %w", err)
	}

	// Telemetry ordering
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_acars_order ON acars(pirep_id, type, sim_time, id)").Error; err != nil {
		return fmt.Errorf("failed to create acars ordering index: %w", err)
	}

	// Journal lookups
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_journal_pirep ON journal_transactions(pirep_id)").Error; err != nil {
		return fmt.Errorf("failed to create journal pirep index: %w", err)
	}

	return nil
}
