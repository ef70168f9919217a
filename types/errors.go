package types

import "errors"

// Error kinds raised by the PIREP core. Controllers map these onto HTTP
// statuses; everything else propagates as a 500.
var (
	ErrUserNotAtDepartureAirport    = errors.New("user is not at the departure airport")
	ErrAircraftPermissionDenied     = errors.New("aircraft not allowed for this pilot rank")
	ErrAircraftNotAtDepartureAirport = errors.New("aircraft is not at the departure airport")
	ErrPirepCancelled               = errors.New("pirep has been cancelled")
	ErrNotFound                     = errors.New("not found")
	ErrValidationFailed             = errors.New("validation failed")
)
