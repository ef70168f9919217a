package acars

// Type tags what kind of telemetry a record carries.
type Type int

const (
	TypeFlightPath Type = iota
	TypeRoute
	TypeLog
	TypeEvent
)

func (t Type) String() string {
	switch t {
	case TypeFlightPath:
		return "flight_path"
	case TypeRoute:
		return "route"
	case TypeLog:
		return "log"
	case TypeEvent:
		return "event"
	default:
		return "unknown"
	}
}

func (t Type) IsValid() bool {
	switch t {
	case TypeFlightPath, TypeRoute, TypeLog, TypeEvent:
		return true
	default:
		return false
	}
}
