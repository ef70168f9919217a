package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"virtual-airline/logger"
)

// Settings is the explicit configuration object handed to the state
// machine and the ingestion pipeline at construction. It replaces any
// implicit global settings lookup.
type Settings struct {
	// Guard toggles
	OnlyFlightsFromCurrentAirport bool
	RestrictAircraftToRank        bool
	OnlyAircraftAtDptAirport      bool

	// Whether a reused duplicate PIREP gets its fields refreshed from the
	// new prefile submission
	RefreshDuplicateFields bool

	// How far back the duplicate detector looks and how long a flight
	// without fresh positions stays on the live map
	DuplicateLookback  time.Duration
	LiveTrackingWindow time.Duration

	// Fallback fuel price when the departure airport has none configured
	DefaultFuelPrice float64
}

// Load reads settings from the environment, falling back to defaults
func Load() Settings {
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file found, using environment defaults")
	}

	return Settings{
		OnlyFlightsFromCurrentAirport: envBool("PILOTS_ONLY_FLIGHTS_FROM_CURRENT", false),
		RestrictAircraftToRank:        envBool("PIREPS_RESTRICT_AIRCRAFT_TO_RANK", false),
		OnlyAircraftAtDptAirport:      envBool("PIREPS_ONLY_AIRCRAFT_AT_DPT_AIRPORT", false),
		RefreshDuplicateFields:        envBool("PIREPS_REFRESH_DUPLICATE_FIELDS", false),
		DuplicateLookback:             envDuration("PIREPS_DUPLICATE_LOOKBACK", 24*time.Hour),
		LiveTrackingWindow:            envDuration("ACARS_LIVE_TRACKING_WINDOW", 2*time.Hour),
		DefaultFuelPrice:              envFloat("FINANCE_DEFAULT_FUEL_PRICE", 0.85),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warning("Invalid bool for " + key + ": " + v)
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warning("Invalid duration for " + key + ": " + v)
		return fallback
	}
	return d
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warning("Invalid float for " + key + ": " + v)
		return fallback
	}
	return f
}
