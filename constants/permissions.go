package constants

// Airline permissions
const (
	// Admin permissions
	PermAdminFull      = "virtual-airline.admin.full-permit"
	PermDispatcherFull = "virtual-airline.dispatcher.full-permit"

	// Pilot and ACARS client permissions
	PermPilotFull = "virtual-airline.pilot.full-permit"
	PermAcarsFull = "virtual-airline.acars.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	FlightOpsPermissions = []string{
		PermAdminFull,
		PermDispatcherFull,
	}
)
