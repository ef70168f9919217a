package fare

import (
	"time"
)

// Fare is a priced passenger or cargo unit sellable on a flight
type Fare struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Code     string  `gorm:"type:varchar(10);not null;unique" json:"code"`
	Name     string  `gorm:"type:varchar(100);not null" json:"name"`
	Price    float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	Cost     float64 `gorm:"type:numeric(10,2);default:0" json:"cost"`
	Capacity int     `gorm:"type:int;default:0" json:"capacity"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Fare model
func (Fare) TableName() string {
	return "fares"
}

// PirepFare is a fare selection attached to a PIREP: how many units of a
// fare were sold on that flight, with price and cost snapshotted at
// selection time so later fare edits do not change past finance runs.
type PirepFare struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PirepID uint `gorm:"not null;index:idx_pirep_fare,unique" json:"pirep_id"`
	FareID  uint `gorm:"not null;index:idx_pirep_fare,unique" json:"fare_id"`
	Fare    Fare `gorm:"foreignKey:FareID" json:"fare,omitempty"`

	Count int     `gorm:"type:int;not null" json:"count"`
	Price float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	Cost  float64 `gorm:"type:numeric(10,2);default:0" json:"cost"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the PirepFare model
func (PirepFare) TableName() string {
	return "pirep_fares"
}
