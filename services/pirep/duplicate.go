package pirep

import (
	"time"

	"github.com/jinzhu/now"

	pirepModel "virtual-airline/models/pirep"
	pirepTypes "virtual-airline/types/pirep"
)

// FindDuplicate looks for an existing non-cancelled PIREP equivalent to
// the draft: same pilot, same airframe, same airport pair, created inside
// the lookback window. Pure query; the caller re-validates cancellation
// before reusing the result.
func (s *Service) FindDuplicate(req pirepTypes.PrefileRequest) (*pirepModel.Pirep, error) {
	since := s.lookbackStart(time.Now())
	return s.store.Pireps.FindDuplicate(req.UserID, req.AircraftID, req.DptAirportID, req.ArrAirportID, since)
}

// lookbackStart resolves the window opening. The default day-long policy
// means "the same calendar day", not a rolling 24 hours; longer windows
// fall back to a plain offset.
func (s *Service) lookbackStart(ref time.Time) time.Time {
	if s.settings.DuplicateLookback <= 24*time.Hour {
		return now.With(ref).BeginningOfDay()
	}
	return ref.Add(-s.settings.DuplicateLookback)
}
