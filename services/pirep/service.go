package pirep

import (
	"fmt"
	"strings"
	"time"

	"virtual-airline/config"
	"virtual-airline/logger"
	acarsModel "virtual-airline/models/acars"
	aircraftModel "virtual-airline/models/aircraft"
	fareModel "virtual-airline/models/fare"
	"virtual-airline/models/journal"
	pirepModel "virtual-airline/models/pirep"
	userModel "virtual-airline/models/user"
	"virtual-airline/store"
	"virtual-airline/types"
	pirepTypes "virtual-airline/types/pirep"
)

// Recalculator is the finance collaborator triggered on File and on
// accept/reject
type Recalculator interface {
	Recalculate(p *pirepModel.Pirep) ([]journal.Transaction, error)
}

// Service owns the PIREP lifecycle. All state-mutating operations on one
// PIREP serialize through the lock arena; operations on different PIREPs
// never contend.
type Service struct {
	store    *store.Store
	finance  Recalculator
	settings config.Settings
	locks    *lockArena
	audit    *logger.AsyncLogger
}

// New creates the state machine service. audit may be nil.
func New(st *store.Store, fin Recalculator, settings config.Settings, audit *logger.AsyncLogger) *Service {
	return &Service{
		store:    st,
		finance:  fin,
		settings: settings,
		locks:    newLockArena(),
		audit:    audit,
	}
}

// Get loads one PIREP
func (s *Service) Get(id uint) (*pirepModel.Pirep, error) {
	return s.store.Pireps.Get(id)
}

// Prefile creates a new in-progress PIREP, or returns the existing
// equivalent one when the pilot prefiles the same flight again. All
// eligibility guards run before anything is persisted.
func (s *Service) Prefile(req pirepTypes.PrefileRequest) (*pirepModel.Pirep, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrValidationFailed, err)
	}

	u, err := s.store.Lookup.User(req.UserID)
	if err != nil {
		return nil, err
	}
	ac, err := s.store.Lookup.Aircraft(req.AircraftID)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAtDeparture(u, req.DptAirportID); err != nil {
		return nil, err
	}
	if err := s.checkAircraftAllowed(u, ac); err != nil {
		return nil, err
	}
	if err := s.checkAircraftAtDeparture(ac, req.DptAirportID); err != nil {
		return nil, err
	}

	// Idempotent prefile: hand back the flight already in progress. The
	// duplicate is re-validated for cancellation before reuse.
	if dup, err := s.FindDuplicate(req); err != nil {
		return nil, err
	} else if dup != nil && !dup.Cancelled() {
		if s.settings.RefreshDuplicateFields {
			s.applyDraft(dup, req)
			if err := s.store.Pireps.Save(dup); err != nil {
				return nil, err
			}
		}
		return dup, nil
	}

	p := &pirepModel.Pirep{
		UserID:       req.UserID,
		AircraftID:   req.AircraftID,
		FlightID:     req.FlightID,
		DptAirportID: req.DptAirportID,
		ArrAirportID: req.ArrAirportID,
		FlightNumber: req.FlightNumber,
		Route:        req.Route,
		Level:        req.Level,
		Source:       pirepModel.SourceAcars,
		State:        pirepModel.StateInProgress,
		Status:       pirepModel.StatusInitiated,
	}
	if req.FlightType != "" {
		p.FlightType = req.FlightType
	}
	if req.Source != nil {
		p.Source = pirepModel.Source(*req.Source)
	}
	if req.Status != "" {
		p.Status = pirepModel.Status(req.Status)
	}

	if err := s.store.Pireps.Create(p); err != nil {
		return nil, err
	}
	s.recordEvent(p, "prefile", u.Username)
	return p, nil
}

// Update mutates fields of a PIREP still open for edits. Dispositioned
// and cancelled reports are immutable; changing the aircraft re-checks
// the rank guard.
func (s *Service) Update(id uint, req pirepTypes.UpdateRequest) (*pirepModel.Pirep, error) {
	lock := s.locks.For(id)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.store.Pireps.Get(id)
	if err != nil {
		return nil, err
	}
	if p.Cancelled() {
		return nil, types.ErrPirepCancelled
	}
	if !p.State.CanBeUpdated() {
		return nil, fmt.Errorf("%w: pirep %d is %s and can no longer be updated", types.ErrValidationFailed, id, p.State)
	}

	if req.AircraftID != nil && *req.AircraftID != p.AircraftID {
		if err := s.recheckAircraft(p.UserID, *req.AircraftID); err != nil {
			return nil, err
		}
		p.AircraftID = *req.AircraftID
	}
	if req.Route != nil {
		p.Route = *req.Route
	}
	if req.FlightTime != nil {
		p.FlightTime = *req.FlightTime
	}
	if req.Level != nil {
		p.Level = req.Level
	}
	if req.Distance != nil {
		p.Distance = *req.Distance
	}
	if req.FuelUsed != nil {
		p.FuelUsed = *req.FuelUsed
	}

	if err := s.store.Pireps.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// File moves the PIREP to PENDING/ARRIVED and stamps submitted_at on the
// first transition only. Downstream fare, custom field, route synthesis
// and finance failures are collected as warnings; the transition itself
// never rolls back for them.
func (s *Service) File(id uint, req pirepTypes.FileRequest) (*pirepTypes.FileResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrValidationFailed, err)
	}

	lock := s.locks.For(id)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.store.Pireps.Get(id)
	if err != nil {
		return nil, err
	}
	if p.Cancelled() {
		return nil, types.ErrPirepCancelled
	}
	if !p.State.CanBeFiled() {
		return nil, fmt.Errorf("%w: pirep %d is %s and can no longer be filed", types.ErrValidationFailed, id, p.State)
	}

	if req.AircraftID != nil && *req.AircraftID != p.AircraftID {
		if err := s.recheckAircraft(p.UserID, *req.AircraftID); err != nil {
			return nil, err
		}
		p.AircraftID = *req.AircraftID
	}
	if req.FlightTime != nil {
		p.FlightTime = *req.FlightTime
	}
	if req.Distance != nil {
		p.Distance = *req.Distance
	}
	if req.FuelUsed != nil {
		p.FuelUsed = *req.FuelUsed
	}

	p.State = pirepModel.StatePending
	p.Status = pirepModel.StatusArrived
	if p.SubmittedAt == nil {
		// One-way ratchet: never reset by later transitions
		now := time.Now().UTC()
		p.SubmittedAt = &now
	}

	if err := s.store.Pireps.Save(p); err != nil {
		return nil, err
	}
	s.recordEvent(p, "file", "")

	result := &pirepTypes.FileResult{Pirep: p}

	if len(req.Fares) > 0 {
		if err := s.saveFares(p, req.Fares); err != nil {
			logger.Error("Failed to save fares for pirep", err)
			result.Warnings = append(result.Warnings, "fares: "+err.Error())
		}
	}
	if len(req.Fields) > 0 {
		if err := s.store.Pireps.UpsertFields(p.ID, req.Fields); err != nil {
			logger.Error("Failed to save custom fields for pirep", err)
			result.Warnings = append(result.Warnings, "fields: "+err.Error())
		}
	}
	if err := s.ensureRoute(p); err != nil {
		logger.Error("Failed to synthesize route for pirep", err)
		result.Warnings = append(result.Warnings, "route: "+err.Error())
	}
	if _, err := s.finance.Recalculate(p); err != nil {
		logger.Error("Failed to recalculate finances for pirep", err)
		result.Warnings = append(result.Warnings, "finance: "+err.Error())
	}

	return result, nil
}

// Cancel marks the PIREP cancelled. Idempotent, and legal from any state.
func (s *Service) Cancel(id uint, by string) (*pirepModel.Pirep, error) {
	lock := s.locks.For(id)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.store.Pireps.Get(id)
	if err != nil {
		return nil, err
	}

	alreadyCancelled := p.Cancelled()
	p.State = pirepModel.StateCancelled
	p.Status = pirepModel.StatusCancelled
	if err := s.store.Pireps.Save(p); err != nil {
		return nil, err
	}
	if !alreadyCancelled {
		s.recordEvent(p, "cancel", by)
	}
	return p, nil
}

// Accept dispositions a pending PIREP and re-triggers finance
func (s *Service) Accept(id uint, by string) (*pirepModel.Pirep, error) {
	return s.disposition(id, pirepModel.StateAccepted, "accept", by)
}

// Reject dispositions a pending PIREP and re-triggers finance
func (s *Service) Reject(id uint, by string) (*pirepModel.Pirep, error) {
	return s.disposition(id, pirepModel.StateRejected, "reject", by)
}

func (s *Service) disposition(id uint, state pirepModel.State, event, by string) (*pirepModel.Pirep, error) {
	lock := s.locks.For(id)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.store.Pireps.Get(id)
	if err != nil {
		return nil, err
	}
	if p.Cancelled() {
		return nil, types.ErrPirepCancelled
	}
	if !p.State.CanBeDispositioned() {
		return nil, fmt.Errorf("%w: pirep %d is %s, not pending", types.ErrValidationFailed, id, p.State)
	}

	p.State = state
	if err := s.store.Pireps.Save(p); err != nil {
		return nil, err
	}
	s.recordEvent(p, event, by)

	// Fare and payment rules depend on the final disposition
	if _, err := s.finance.Recalculate(p); err != nil {
		logger.Error("Failed to recalculate finances after disposition", err)
	}
	return p, nil
}

// RecalculateFinance manually re-runs the finance computation. Serialized
// with the lifecycle transitions so the journal always reflects the
// latest persisted snapshot, never one read mid-transition.
func (s *Service) RecalculateFinance(id uint) ([]journal.Transaction, error) {
	lock := s.locks.For(id)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.store.Pireps.Get(id)
	if err != nil {
		return nil, err
	}
	return s.finance.Recalculate(p)
}

// MarkAirborne advances INITIATED to AIRBORNE when the first position
// arrives. Idempotent beyond the first call.
func (s *Service) MarkAirborne(id uint) error {
	lock := s.locks.For(id)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.store.Pireps.Get(id)
	if err != nil {
		return err
	}
	if p.Cancelled() {
		return types.ErrPirepCancelled
	}
	if p.Status != pirepModel.StatusInitiated {
		return nil
	}

	p.Status = pirepModel.StatusAirborne
	if err := s.store.Pireps.Save(p); err != nil {
		return err
	}
	s.recordEvent(p, "airborne", "")
	return nil
}

// SaveFaresForPirep replaces the PIREP's fare selections outside of File
func (s *Service) SaveFaresForPirep(id uint, selections []pirepTypes.FareSelection) error {
	lock := s.locks.For(id)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.store.Pireps.Get(id)
	if err != nil {
		return err
	}
	if p.Cancelled() {
		return types.ErrPirepCancelled
	}
	for _, sel := range selections {
		if err := sel.Validate(); err != nil {
			return fmt.Errorf("%w: %v", types.ErrValidationFailed, err)
		}
	}
	return s.saveFares(p, selections)
}

// UpdateCustomFields writes custom field values for the PIREP
func (s *Service) UpdateCustomFields(id uint, fields map[string]string) error {
	lock := s.locks.For(id)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.store.Pireps.Get(id)
	if err != nil {
		return err
	}
	if p.Cancelled() {
		return types.ErrPirepCancelled
	}
	return s.store.Pireps.UpsertFields(p.ID, fields)
}

// Guards. Each fails closed: an enabled guard with missing data denies.

func (s *Service) checkUserAtDeparture(u *userModel.User, dptAirportID string) error {
	if !s.settings.OnlyFlightsFromCurrentAirport {
		return nil
	}
	if u.CurrentAirportID != dptAirportID {
		return types.ErrUserNotAtDepartureAirport
	}
	return nil
}

func (s *Service) checkAircraftAllowed(u *userModel.User, ac *aircraftModel.Aircraft) error {
	if !s.settings.RestrictAircraftToRank {
		return nil
	}
	if u.RankLevel < ac.MinRankLevel {
		return types.ErrAircraftPermissionDenied
	}
	return nil
}

func (s *Service) checkAircraftAtDeparture(ac *aircraftModel.Aircraft, dptAirportID string) error {
	if !s.settings.OnlyAircraftAtDptAirport {
		return nil
	}
	if ac.AirportID != dptAirportID {
		return types.ErrAircraftNotAtDepartureAirport
	}
	return nil
}

func (s *Service) recheckAircraft(userID, aircraftID uint) error {
	u, err := s.store.Lookup.User(userID)
	if err != nil {
		return err
	}
	ac, err := s.store.Lookup.Aircraft(aircraftID)
	if err != nil {
		return err
	}
	return s.checkAircraftAllowed(u, ac)
}

// saveFares snapshots price and cost from the fare definitions at
// selection time
func (s *Service) saveFares(p *pirepModel.Pirep, selections []pirepTypes.FareSelection) error {
	rows := make([]fareModel.PirepFare, 0, len(selections))
	for _, sel := range selections {
		def, err := s.store.Lookup.Fare(sel.FareID)
		if err != nil {
			return fmt.Errorf("fare %d: %w", sel.FareID, err)
		}
		rows = append(rows, fareModel.PirepFare{
			PirepID: p.ID,
			FareID:  def.ID,
			Count:   sel.Count,
			Price:   def.Price,
			Cost:    def.Cost,
		})
	}
	return s.store.Pireps.ReplaceFares(p.ID, rows)
}

// ensureRoute synthesizes ROUTE telemetry from the flight's planned route
// when the client never posted one
func (s *Service) ensureRoute(p *pirepModel.Pirep) error {
	has, err := s.store.Acars.HasRoute(p.ID)
	if err != nil || has {
		return err
	}

	route := p.Route
	if route == "" && p.FlightID != nil {
		f, err := s.store.Lookup.Flight(*p.FlightID)
		if err != nil {
			return err
		}
		route = f.Route
	}
	if route == "" {
		return nil
	}

	names := strings.Fields(route)
	points := make([]acarsModel.Acars, 0, len(names))
	simTime := time.Now().UTC()
	for i, name := range names {
		points = append(points, acarsModel.Acars{
			PirepID: p.ID,
			Type:    acarsModel.TypeRoute,
			Name:    name,
			Order:   i,
			SimTime: simTime,
		})
	}
	_, err = s.store.Acars.ReplaceRoute(p.ID, points)
	return err
}

func (s *Service) recordEvent(p *pirepModel.Pirep, event, by string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(pirepModel.StatusEvent{
		PirepID:   p.ID,
		State:     p.State,
		Status:    p.Status,
		Event:     event,
		CreatedBy: by,
	})
}

func (s *Service) applyDraft(p *pirepModel.Pirep, req pirepTypes.PrefileRequest) {
	p.AircraftID = req.AircraftID
	p.FlightID = req.FlightID
	p.FlightNumber = req.FlightNumber
	p.Route = req.Route
	p.Level = req.Level
	if req.FlightType != "" {
		p.FlightType = req.FlightType
	}
}
