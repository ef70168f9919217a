package aircraft

import (
	"time"
)

// Aircraft represents a fleet airframe
type Aircraft struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ICAO         string `gorm:"type:varchar(5);not null" json:"icao"`
	Registration string `gorm:"type:varchar(10);not null;unique" json:"registration"`
	Name         string `gorm:"type:varchar(100)" json:"name"`

	// Current location, updated when a PIREP is accepted
	AirportID string `gorm:"type:varchar(5);index" json:"airport_id"`

	// Minimum pilot rank allowed to book this airframe
	MinRankLevel int `gorm:"type:int;default:1" json:"min_rank_level"`

	Active bool `gorm:"type:bool;default:true" json:"active"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the Aircraft model
func (Aircraft) TableName() string {
	return "aircraft"
}
