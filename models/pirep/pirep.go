package pirep

import (
	"time"

	"virtual-airline/models/aircraft"
	"virtual-airline/models/airport"
	"virtual-airline/models/user"
)

// Pirep represents a single flight report filed by a pilot.
type Pirep struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for users relationship
	UserID uint      `gorm:"not null;index" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Foreign key for aircraft relationship
	AircraftID uint              `gorm:"not null;index" json:"aircraft_id"`
	Aircraft   aircraft.Aircraft `gorm:"foreignKey:AircraftID" json:"aircraft,omitempty"`

	// Flight reference is optional; ACARS clients may file free flights
	FlightID *uint `gorm:"index" json:"flight_id,omitempty"`

	DptAirportID string          `gorm:"type:varchar(5);not null;index" json:"dpt_airport_id"`
	DptAirport   airport.Airport `gorm:"foreignKey:DptAirportID" json:"dpt_airport,omitempty"`
	ArrAirportID string          `gorm:"type:varchar(5);not null;index" json:"arr_airport_id"`
	ArrAirport   airport.Airport `gorm:"foreignKey:ArrAirportID" json:"arr_airport,omitempty"`

	FlightNumber string  `gorm:"type:varchar(10)" json:"flight_number"`
	Route        string  `gorm:"type:text" json:"route"`
	FlightType   string  `gorm:"type:varchar(1);default:'J'" json:"flight_type"`
	FlightTime   int     `gorm:"type:int;default:0" json:"flight_time"` // minutes
	Level        *int    `json:"level,omitempty"`                      // cruise altitude, feet
	Distance     float64 `gorm:"type:numeric(10,2);default:0" json:"distance"`
	FuelUsed     float64 `gorm:"type:numeric(10,2);default:0" json:"fuel_used"`

	Source Source `gorm:"type:smallint;not null;default:0" json:"source"`
	State  State  `gorm:"type:varchar(20);not null;index" json:"state"`
	Status Status `gorm:"type:varchar(20);not null" json:"status"`

	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"index" json:"deleted_at,omitempty"` // Soft delete field
}

// TableName sets the table name for the Pirep model
func (Pirep) TableName() string {
	return "pireps"
}

// Cancelled is derived purely from the state field.
func (p *Pirep) Cancelled() bool {
	return p.State == StateCancelled
}
