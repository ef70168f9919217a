package store

import (
	"time"

	"virtual-airline/models/acars"
	"virtual-airline/models/aircraft"
	"virtual-airline/models/airport"
	"virtual-airline/models/fare"
	"virtual-airline/models/flight"
	"virtual-airline/models/journal"
	"virtual-airline/models/pirep"
	"virtual-airline/models/user"
)

// The service layer talks to persistence through these contracts only, so
// the PIREP and telemetry shapes round-trip losslessly through any storage
// substitution. GormStore backs production, MemoryStore backs tests and
// standalone runs.

// PirepStore reads and writes flight reports and their owned rows
type PirepStore interface {
	Create(p *pirep.Pirep) error
	Get(id uint) (*pirep.Pirep, error)
	Save(p *pirep.Pirep) error

	// FindDuplicate returns the most recent non-cancelled PIREP for the
	// same user, aircraft and airport pair created at or after since, or
	// nil when there is none.
	FindDuplicate(userID, aircraftID uint, dptAirportID, arrAirportID string, since time.Time) (*pirep.Pirep, error)

	// LiveFlights returns in-progress PIREPs touched within the window
	LiveFlights(window time.Duration) ([]pirep.Pirep, error)

	ReplaceFares(pirepID uint, fares []fare.PirepFare) error
	Fares(pirepID uint) ([]fare.PirepFare, error)
	UpsertFields(pirepID uint, fields map[string]string) error

	AppendStatusEvent(ev *pirep.StatusEvent) error
}

// AcarsStore is the append-only telemetry store
type AcarsStore interface {
	Append(records []acars.Acars) (int, error)

	// ReplaceRoute atomically clears the PIREP's ROUTE set and inserts the
	// new one. No reader may observe a partially replaced set.
	ReplaceRoute(pirepID uint, points []acars.Acars) (int, error)

	List(pirepID uint, t acars.Type) ([]acars.Acars, error)
	LastPosition(pirepID uint) (*acars.Acars, error)
	HasRoute(pirepID uint) (bool, error)
}

// JournalStore holds the financial transactions computed per PIREP
type JournalStore interface {
	// Replace supersedes all transactions for the PIREP with the new set
	Replace(pirepID uint, rows []journal.Transaction) error
	ForPirep(pirepID uint) ([]journal.Transaction, error)
}

// LookupStore resolves the external entities the core only reads
type LookupStore interface {
	User(id uint) (*user.User, error)
	Aircraft(id uint) (*aircraft.Aircraft, error)
	Airport(id string) (*airport.Airport, error)
	Flight(id uint) (*flight.Flight, error)
	Fare(id uint) (*fare.Fare, error)
}

// Store bundles the four contracts a fully wired service stack needs
type Store struct {
	Pireps  PirepStore
	Acars   AcarsStore
	Journal JournalStore
	Lookup  LookupStore
}
