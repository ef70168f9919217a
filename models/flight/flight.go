package flight

import (
	"time"
)

// Flight represents a scheduled flight a PIREP may be filed against. Its
// Route field is the planned route string used to synthesize ACARS ROUTE
// telemetry when a client never posted one.
type Flight struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Airline      string `gorm:"type:varchar(5);not null" json:"airline"`
	FlightNumber string `gorm:"type:varchar(10);not null" json:"flight_number"`

	DptAirportID string `gorm:"type:varchar(5);not null;index" json:"dpt_airport_id"`
	ArrAirportID string `gorm:"type:varchar(5);not null;index" json:"arr_airport_id"`

	Route    string  `gorm:"type:text" json:"route"` // space-separated waypoint names
	Level    *int    `json:"level,omitempty"`
	Distance float64 `gorm:"type:numeric(10,2);default:0" json:"distance"`

	Active bool `gorm:"type:bool;default:true" json:"active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Flight model
func (Flight) TableName() string {
	return "flights"
}
