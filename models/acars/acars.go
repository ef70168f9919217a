package acars

import (
	"time"
)

// Acars represents one timestamped telemetry observation belonging to a PIREP.
// Position payload fields are only meaningful for FLIGHT_PATH and ROUTE
// records; Log carries the text of LOG and EVENT records.
type Acars struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for pirep relationship (owned rows, no back model to
	// avoid an import cycle with models/pirep)
	PirepID uint `gorm:"not null;index:idx_acars_pirep_type" json:"pirep_id"`

	Type Type `gorm:"type:smallint;not null;index:idx_acars_pirep_type" json:"type"`

	// Position payload
	Lat         float64 `gorm:"type:numeric(10,5);default:0" json:"lat"`
	Lon         float64 `gorm:"type:numeric(11,5);default:0" json:"lon"`
	Heading     int     `gorm:"type:int;default:0" json:"heading"`
	Altitude    int     `gorm:"type:int;default:0" json:"altitude"`
	GroundSpeed int     `gorm:"type:int;default:0" json:"gs"`

	// Waypoint name and order within a ROUTE set
	Name  string `gorm:"type:varchar(50)" json:"name,omitempty"`
	Order int    `gorm:"type:int;default:0" json:"order"`

	// Free text for LOG and EVENT records
	Log string `gorm:"type:text" json:"log,omitempty"`

	// Simulator time of the observation, normalized to UTC
	SimTime   time.Time `gorm:"not null;index" json:"sim_time"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the Acars model
func (Acars) TableName() string {
	return "acars"
}
