package pirep

// State is the coarse lifecycle phase of a PIREP.
type State string

const (
	StateInProgress State = "in_progress"
	StatePending    State = "pending"
	StateAccepted   State = "accepted"
	StateRejected   State = "rejected"
	StateCancelled  State = "cancelled"
)

// Status is the finer-grained timeline within a state.
type Status string

const (
	StatusInitiated Status = "initiated"
	StatusAirborne  Status = "airborne"
	StatusArrived   Status = "arrived"
	StatusCancelled Status = "cancelled"
)

// Source identifies how a PIREP entered the system.
type Source int

const (
	SourceManual Source = iota
	SourceAcars
	SourceImported
)

// Helper methods for State
func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StateInProgress, StatePending, StateAccepted, StateRejected, StateCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further lifecycle transition is legal,
// except cancellation which is always allowed.
func (s State) IsTerminal() bool {
	return s == StateAccepted || s == StateRejected || s == StateCancelled
}

// CanBeUpdated returns true if field mutations are still allowed
func (s State) CanBeUpdated() bool {
	return s == StateInProgress || s == StatePending
}

// CanBeFiled returns true if the File transition is legal from this state
func (s State) CanBeFiled() bool {
	return s == StateInProgress || s == StatePending
}

// CanBeDispositioned returns true if accept/reject is legal from this state
func (s State) CanBeDispositioned() bool {
	return s == StatePending || s == StateAccepted || s == StateRejected
}

// GetAllStates returns all valid PIREP states
func GetAllStates() []State {
	return []State{
		StateInProgress,
		StatePending,
		StateAccepted,
		StateRejected,
		StateCancelled,
	}
}

// Helper methods for Status
func (st Status) String() string {
	return string(st)
}

func (st Status) IsValid() bool {
	switch st {
	case StatusInitiated, StatusAirborne, StatusArrived, StatusCancelled:
		return true
	default:
		return false
	}
}
