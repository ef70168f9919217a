package pirep

import (
	"fmt"

	pirepModel "virtual-airline/models/pirep"
)

// PrefileRequest carries the explicit, typed draft of a new PIREP. Unknown
// request fields are rejected at the boundary instead of passed through.
type PrefileRequest struct {
	UserID       uint   `json:"user_id" validate:"required"`
	AircraftID   uint   `json:"aircraft_id" validate:"required"`
	FlightID     *uint  `json:"flight_id,omitempty"`
	DptAirportID string `json:"dpt_airport_id" validate:"required,max=5"`
	ArrAirportID string `json:"arr_airport_id" validate:"required,max=5"`
	FlightNumber string `json:"flight_number" validate:"omitempty,max=10"`
	Route        string `json:"route"`
	FlightType   string `json:"flight_type" validate:"omitempty,len=1"`
	Level        *int   `json:"level,omitempty"`
	Source       *int   `json:"source,omitempty"`
	Status       string `json:"status,omitempty"` // caller-supplied initial status, optional
}

// Validate checks required prefile fields
func (r PrefileRequest) Validate() error {
	if r.UserID == 0 {
		return fmt.Errorf("user_id is required")
	}
	if r.AircraftID == 0 {
		return fmt.Errorf("aircraft_id is required")
	}
	if r.DptAirportID == "" {
		return fmt.Errorf("dpt_airport_id is required")
	}
	if r.ArrAirportID == "" {
		return fmt.Errorf("arr_airport_id is required")
	}
	if r.Status != "" && !pirepModel.Status(r.Status).IsValid() {
		return fmt.Errorf("status %q is not valid", r.Status)
	}
	return nil
}

// UpdateRequest mutates fields of a not-yet-dispositioned PIREP. Nil
// pointers leave the stored value untouched.
type UpdateRequest struct {
	AircraftID *uint    `json:"aircraft_id,omitempty"`
	Route      *string  `json:"route,omitempty"`
	FlightTime *int     `json:"flight_time,omitempty"`
	Level      *int     `json:"level,omitempty"`
	Distance   *float64 `json:"distance,omitempty"`
	FuelUsed   *float64 `json:"fuel_used,omitempty"`
}

// FileRequest carries the final figures submitted with the File transition
type FileRequest struct {
	AircraftID *uint    `json:"aircraft_id,omitempty"`
	FlightTime *int     `json:"flight_time,omitempty"`
	Distance   *float64 `json:"distance,omitempty"`
	FuelUsed   *float64 `json:"fuel_used,omitempty"`

	Fares  []FareSelection   `json:"fares,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Validate checks the figures submitted with a File call
func (r FileRequest) Validate() error {
	if r.FlightTime != nil && *r.FlightTime < 0 {
		return fmt.Errorf("flight_time must not be negative")
	}
	for _, f := range r.Fares {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FareSelection is one fare choice submitted by the client
type FareSelection struct {
	FareID uint `json:"fare_id" validate:"required"`
	Count  int  `json:"count" validate:"required,min=0"`
}

// Validate checks a single fare selection
func (f FareSelection) Validate() error {
	if f.FareID == 0 {
		return fmt.Errorf("fare_id is required")
	}
	if f.Count < 0 {
		return fmt.Errorf("fare count must not be negative")
	}
	return nil
}

// FileResult reports the outcome of a File transition. Warnings collects
// downstream failures (fares, custom fields, finance) that did not roll
// back the state transition itself.
type FileResult struct {
	Pirep    *pirepModel.Pirep `json:"pirep"`
	Warnings []string          `json:"warnings,omitempty"`
}
