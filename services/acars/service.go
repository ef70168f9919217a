package acars

import (
	"fmt"
	"time"

	"virtual-airline/logger"
	acarsModel "virtual-airline/models/acars"
	pirepModel "virtual-airline/models/pirep"
	pirepService "virtual-airline/services/pirep"
	"virtual-airline/store"
	"virtual-airline/types"
	acarsTypes "virtual-airline/types/acars"
)

// Service is the telemetry ingestion pipeline. Each post carries a batch
// of one declared type; appends of different types for the same PIREP do
// not contend, route replacement is atomic.
type Service struct {
	store  *store.Store
	pireps *pirepService.Service
}

// New creates the ingestion service
func New(st *store.Store, pireps *pirepService.Service) *Service {
	return &Service{store: st, pireps: pireps}
}

// PostPositions appends FLIGHT_PATH records. The first batch seen while
// the PIREP is still INITIATED flips it to AIRBORNE.
func (s *Service) PostPositions(pirepID uint, batch []acarsTypes.PositionRequest) (int, error) {
	p, err := s.guard(pirepID)
	if err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, fmt.Errorf("%w: no positions posted", types.ErrValidationFailed)
	}

	records := make([]acarsModel.Acars, 0, len(batch))
	for _, entry := range batch {
		if err := entry.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", types.ErrValidationFailed, err)
		}
		records = append(records, acarsModel.Acars{
			PirepID:     p.ID,
			Type:        acarsModel.TypeFlightPath,
			Lat:         entry.Lat,
			Lon:         entry.Lon,
			Heading:     entry.Heading,
			Altitude:    entry.Altitude,
			GroundSpeed: entry.GroundSpeed,
			SimTime:     normalize(entry.SimTime),
		})
	}

	count, err := s.store.Acars.Append(records)
	if err != nil {
		return 0, err
	}

	// First-position-seen transition, idempotent beyond the first call.
	// A cancellation racing in after the guard does not undo records
	// already appended, so the batch still reports success.
	if err := s.pireps.MarkAirborne(p.ID); err != nil {
		logger.Error("Failed to mark pirep airborne", err)
	}
	return count, nil
}

// PostLogs appends free-text LOG records
func (s *Service) PostLogs(pirepID uint, batch []acarsTypes.LogRequest) (int, error) {
	return s.postTexts(pirepID, batch, acarsModel.TypeLog)
}

// PostEvents appends free-text EVENT records
func (s *Service) PostEvents(pirepID uint, batch []acarsTypes.LogRequest) (int, error) {
	return s.postTexts(pirepID, batch, acarsModel.TypeEvent)
}

func (s *Service) postTexts(pirepID uint, batch []acarsTypes.LogRequest, t acarsModel.Type) (int, error) {
	p, err := s.guard(pirepID)
	if err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, fmt.Errorf("%w: no entries posted", types.ErrValidationFailed)
	}

	records := make([]acarsModel.Acars, 0, len(batch))
	for _, entry := range batch {
		if err := entry.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", types.ErrValidationFailed, err)
		}
		records = append(records, acarsModel.Acars{
			PirepID: p.ID,
			Type:    t,
			Log:     entry.Log,
			Lat:     entry.Lat,
			Lon:     entry.Lon,
			SimTime: normalize(entry.SimTime),
		})
	}
	return s.store.Acars.Append(records)
}

// PostRoute wholesale replaces the PIREP's planned route. An empty batch
// still clears the existing set and reports zero added, which is a valid
// result, not an error. Sequence positions follow input order.
func (s *Service) PostRoute(pirepID uint, batch []acarsTypes.RouteRequest) (int, error) {
	p, err := s.guard(pirepID)
	if err != nil {
		return 0, err
	}

	simTime := time.Now().UTC()
	points := make([]acarsModel.Acars, 0, len(batch))
	for i, entry := range batch {
		if err := entry.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", types.ErrValidationFailed, err)
		}
		points = append(points, acarsModel.Acars{
			PirepID:  p.ID,
			Type:     acarsModel.TypeRoute,
			Name:     entry.Name,
			Order:    i,
			Lat:      entry.Lat,
			Lon:      entry.Lon,
			Altitude: entry.Altitude,
			SimTime:  simTime,
		})
	}
	return s.store.Acars.ReplaceRoute(p.ID, points)
}

// DeleteRoute clears the PIREP's route set
func (s *Service) DeleteRoute(pirepID uint) error {
	p, err := s.guard(pirepID)
	if err != nil {
		return err
	}
	_, err = s.store.Acars.ReplaceRoute(p.ID, nil)
	return err
}

// GetRoute lists the PIREP's route points in sequence order
func (s *Service) GetRoute(pirepID uint) ([]acarsModel.Acars, error) {
	if _, err := s.store.Pireps.Get(pirepID); err != nil {
		return nil, err
	}
	return s.store.Acars.List(pirepID, acarsModel.TypeRoute)
}

// GetPositions lists the PIREP's flight path in simulated-time order
func (s *Service) GetPositions(pirepID uint) ([]acarsModel.Acars, error) {
	if _, err := s.store.Pireps.Get(pirepID); err != nil {
		return nil, err
	}
	return s.store.Acars.List(pirepID, acarsModel.TypeFlightPath)
}

// GetLogs lists the PIREP's log records in simulated-time order
func (s *Service) GetLogs(pirepID uint) ([]acarsModel.Acars, error) {
	if _, err := s.store.Pireps.Get(pirepID); err != nil {
		return nil, err
	}
	return s.store.Acars.List(pirepID, acarsModel.TypeLog)
}

// guard rejects posts for unknown or cancelled PIREPs. Cancellation does
// not cancel posts already past this check.
func (s *Service) guard(pirepID uint) (*pirepModel.Pirep, error) {
	p, err := s.store.Pireps.Get(pirepID)
	if err != nil {
		return nil, err
	}
	if p.Cancelled() {
		return nil, types.ErrPirepCancelled
	}
	return p, nil
}

// normalize fills a missing simulated time with now; FlexTime already
// holds UTC otherwise.
func normalize(t acarsTypes.FlexTime) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.Time
}
