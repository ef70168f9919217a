package finance

import (
	"errors"
	"fmt"
	"math"

	"virtual-airline/config"
	"virtual-airline/models/journal"
	"virtual-airline/models/pirep"
	"virtual-airline/store"
	"virtual-airline/types"
)

// Service recomputes the financial transactions of a PIREP. Each run is a
// deterministic function of the PIREP's persisted attributes and its fare
// selections, and fully supersedes the previous set, so re-running is
// always safe.
type Service struct {
	store    *store.Store
	settings config.Settings
}

// New creates a finance service
func New(st *store.Store, settings config.Settings) *Service {
	return &Service{store: st, settings: settings}
}

// Recalculate wipes and rewrites the transaction set for the PIREP's
// current disposition. Rejected flights earn no pilot pay and no fare
// revenue; their costs are still recorded.
func (s *Service) Recalculate(p *pirep.Pirep) ([]journal.Transaction, error) {
	rows, err := s.compute(p)
	if err != nil {
		return nil, err
	}
	if err := s.store.Journal.Replace(p.ID, rows); err != nil {
		return nil, err
	}
	return s.store.Journal.ForPirep(p.ID)
}

// TransactionsForPirep returns the currently persisted set
func (s *Service) TransactionsForPirep(pirepID uint) ([]journal.Transaction, error) {
	return s.store.Journal.ForPirep(pirepID)
}

func (s *Service) compute(p *pirep.Pirep) ([]journal.Transaction, error) {
	u, err := s.store.Lookup.User(p.UserID)
	if err != nil {
		return nil, fmt.Errorf("finance: pilot %d: %w", p.UserID, err)
	}

	rejected := p.State == pirep.StateRejected
	var rows []journal.Transaction

	if !rejected {
		hours := float64(p.FlightTime) / 60.0
		pay := round2(u.PayRate * hours)
		if pay > 0 {
			rows = append(rows, journal.Transaction{
				PirepID: p.ID,
				Group:   journal.GroupPilotPay,
				Memo:    fmt.Sprintf("Pilot pay: %s", u.Username),
				Debit:   pay,
			})
		}

		fares, err := s.store.Pireps.Fares(p.ID)
		if err != nil {
			return nil, fmt.Errorf("finance: fares for pirep %d: %w", p.ID, err)
		}
		for _, f := range fares {
			if f.Count == 0 {
				continue
			}
			rows = append(rows, journal.Transaction{
				PirepID: p.ID,
				Group:   journal.GroupFareRevenue,
				Memo:    fmt.Sprintf("Fare %d x %d", f.FareID, f.Count),
				Credit:  round2(f.Price * float64(f.Count)),
				Debit:   round2(f.Cost * float64(f.Count)),
			})
		}
	}

	if p.FuelUsed > 0 {
		price := s.settings.DefaultFuelPrice
		dpt, err := s.store.Lookup.Airport(p.DptAirportID)
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("finance: airport %s: %w", p.DptAirportID, err)
		}
		if dpt != nil && dpt.FuelJetAPrice > 0 {
			price = dpt.FuelJetAPrice
		}
		rows = append(rows, journal.Transaction{
			PirepID: p.ID,
			Group:   journal.GroupFuelCost,
			Memo:    fmt.Sprintf("Fuel at %s", p.DptAirportID),
			Debit:   round2(p.FuelUsed * price),
		})
	}

	for _, icao := range []string{p.DptAirportID, p.ArrAirportID} {
		apt, err := s.store.Lookup.Airport(icao)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("finance: airport %s: %w", icao, err)
		}
		if apt.GroundHandlingCost > 0 {
			rows = append(rows, journal.Transaction{
				PirepID: p.ID,
				Group:   journal.GroupGroundHandling,
				Memo:    fmt.Sprintf("Ground handling at %s", icao),
				Debit:   round2(apt.GroundHandlingCost),
			})
		}
	}

	return rows, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
