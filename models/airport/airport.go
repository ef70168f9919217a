package airport

import (
	"time"
)

// Airport represents an airport keyed by its ICAO code
type Airport struct {
	ID   string `gorm:"type:varchar(5);primaryKey" json:"id"` // ICAO
	IATA string `gorm:"type:varchar(4)" json:"iata"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`

	Lat float64 `gorm:"type:numeric(10,5);default:0" json:"lat"`
	Lon float64 `gorm:"type:numeric(11,5);default:0" json:"lon"`

	// Per-movement costs consumed by finance recalculation
	GroundHandlingCost float64 `gorm:"type:numeric(10,2);default:0" json:"ground_handling_cost"`
	FuelJetAPrice      float64 `gorm:"type:numeric(10,4);default:0" json:"fuel_jeta_price"` // per unit

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Airport model
func (Airport) TableName() string {
	return "airports"
}
