package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"virtual-airline/models/acars"
	"virtual-airline/models/aircraft"
	"virtual-airline/models/airport"
	"virtual-airline/models/fare"
	"virtual-airline/models/flight"
	"virtual-airline/models/journal"
	"virtual-airline/models/pirep"
	"virtual-airline/models/user"
	"virtual-airline/types"
)

// NewGormStore wires all four contracts onto one gorm connection
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Pireps:  &GormPirepStore{DB: db},
		Acars:   &GormAcarsStore{DB: db},
		Journal: &GormJournalStore{DB: db},
		Lookup:  &GormLookupStore{DB: db},
	}
}

// GormPirepStore is the Postgres-backed PirepStore
type GormPirepStore struct {
	DB *gorm.DB
}

// Create inserts a new PIREP record
func (s *GormPirepStore) Create(p *pirep.Pirep) error {
	return s.DB.Create(p).Error
}

// Get loads a PIREP by id
func (s *GormPirepStore) Get(id uint) (*pirep.Pirep, error) {
	var p pirep.Pirep
	err := s.DB.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save persists all fields of an existing PIREP
func (s *GormPirepStore) Save(p *pirep.Pirep) error {
	return s.DB.Save(p).Error
}

// FindDuplicate returns the most recent equivalent non-cancelled PIREP
func (s *GormPirepStore) FindDuplicate(userID, aircraftID uint, dptAirportID, arrAirportID string, since time.Time) (*pirep.Pirep, error) {
	var p pirep.Pirep
	err := s.DB.
		Where("user_id = ? AND aircraft_id = ?", userID, aircraftID).
		Where("dpt_airport_id = ? AND arr_airport_id = ?", dptAirportID, arrAirportID).
		Where("state <> ?", pirep.StateCancelled).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LiveFlights returns in-progress PIREPs updated within the window
func (s *GormPirepStore) LiveFlights(window time.Duration) ([]pirep.Pirep, error) {
	var pireps []pirep.Pirep
	err := s.DB.
		Where("state = ?", pirep.StateInProgress).
		Where("updated_at >= ?", time.Now().Add(-window)).
		Order("updated_at DESC").
		Find(&pireps).Error
	return pireps, err
}

// ReplaceFares supersedes the PIREP's fare selections
func (s *GormPirepStore) ReplaceFares(pirepID uint, fares []fare.PirepFare) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pirep_id = ?", pirepID).Delete(&fare.PirepFare{}).Error; err != nil {
			return err
		}
		if len(fares) == 0 {
			return nil
		}
		return tx.Create(&fares).Error
	})
}

// Fares lists the PIREP's fare selections
func (s *GormPirepStore) Fares(pirepID uint) ([]fare.PirepFare, error) {
	var rows []fare.PirepFare
	err := s.DB.Where("pirep_id = ?", pirepID).Order("fare_id").Find(&rows).Error
	return rows, err
}

// UpsertFields writes custom field values keyed by name
func (s *GormPirepStore) UpsertFields(pirepID uint, fields map[string]string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for name, value := range fields {
			var existing pirep.FieldValue
			err := tx.Where("pirep_id = ? AND name = ?", pirepID, name).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				row := pirep.FieldValue{PirepID: pirepID, Name: name, Value: value}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			existing.Value = value
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AppendStatusEvent records one lifecycle transition
func (s *GormPirepStore) AppendStatusEvent(ev *pirep.StatusEvent) error {
	return s.DB.Create(ev).Error
}

// GormAcarsStore is the Postgres-backed AcarsStore
type GormAcarsStore struct {
	DB *gorm.DB
}

// Append inserts telemetry records and returns how many were written
func (s *GormAcarsStore) Append(records []acars.Acars) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if err := s.DB.Create(&records).Error; err != nil {
		return 0, err
	}
	return len(records), nil
}

// ReplaceRoute clears and rewrites the PIREP's ROUTE set in one transaction
func (s *GormAcarsStore) ReplaceRoute(pirepID uint, points []acars.Acars) (int, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pirep_id = ? AND type = ?", pirepID, acars.TypeRoute).
			Delete(&acars.Acars{}).Error; err != nil {
			return err
		}
		if len(points) == 0 {
			return nil
		}
		return tx.Create(&points).Error
	})
	if err != nil {
		return 0, err
	}
	return len(points), nil
}

// List returns the PIREP's records of one type in their defined order:
// ROUTE by sequence, everything else by sim time with insertion order as
// the tie break.
func (s *GormAcarsStore) List(pirepID uint, t acars.Type) ([]acars.Acars, error) {
	var rows []acars.Acars
	q := s.DB.Where("pirep_id = ? AND type = ?", pirepID, t)
	if t == acars.TypeRoute {
		q = q.Order("\"order\" ASC")
	} else {
		q = q.Order("sim_time ASC, id ASC")
	}
	err := q.Find(&rows).Error
	return rows, err
}

// LastPosition returns the newest FLIGHT_PATH record, or nil when none
func (s *GormAcarsStore) LastPosition(pirepID uint) (*acars.Acars, error) {
	var row acars.Acars
	err := s.DB.
		Where("pirep_id = ? AND type = ?", pirepID, acars.TypeFlightPath).
		Order("sim_time DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// HasRoute reports whether any ROUTE records exist for the PIREP
func (s *GormAcarsStore) HasRoute(pirepID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&acars.Acars{}).
		Where("pirep_id = ? AND type = ?", pirepID, acars.TypeRoute).
		Count(&count).Error
	return count > 0, err
}

// GormJournalStore is the Postgres-backed JournalStore
type GormJournalStore struct {
	DB *gorm.DB
}

// Replace supersedes the PIREP's transactions with the new set
func (s *GormJournalStore) Replace(pirepID uint, rows []journal.Transaction) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pirep_id = ?", pirepID).Delete(&journal.Transaction{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// ForPirep lists the PIREP's transactions
func (s *GormJournalStore) ForPirep(pirepID uint) ([]journal.Transaction, error) {
	var rows []journal.Transaction
	err := s.DB.Where("pirep_id = ?", pirepID).Order("id").Find(&rows).Error
	return rows, err
}

// GormLookupStore resolves collaborator entities
type GormLookupStore struct {
	DB *gorm.DB
}

func (s *GormLookupStore) User(id uint) (*user.User, error) {
	var u user.User
	if err := first(s.DB, &u, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormLookupStore) Aircraft(id uint) (*aircraft.Aircraft, error) {
	var a aircraft.Aircraft
	if err := first(s.DB, &a, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormLookupStore) Airport(id string) (*airport.Airport, error) {
	var a airport.Airport
	err := s.DB.Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormLookupStore) Flight(id uint) (*flight.Flight, error) {
	var f flight.Flight
	if err := first(s.DB, &f, id); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *GormLookupStore) Fare(id uint) (*fare.Fare, error) {
	var f fare.Fare
	if err := first(s.DB, &f, id); err != nil {
		return nil, err
	}
	return &f, nil
}

func first(db *gorm.DB, dest interface{}, id uint) error {
	err := db.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ErrNotFound
	}
	return err
}
