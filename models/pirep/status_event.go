package pirep

import (
	"time"
)

// StatusEvent represents a lifecycle change event for a PIREP
type StatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for pirep relationship
	PirepID uint  `gorm:"not null;index" json:"pirep_id"`
	Pirep   Pirep `gorm:"foreignKey:PirepID" json:"pirep,omitempty"`

	State     State     `gorm:"type:varchar(20);not null" json:"state"`
	Status    Status    `gorm:"type:varchar(20);not null" json:"status"`
	Event     string    `gorm:"type:varchar(50);not null" json:"event"`
	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the StatusEvent model
func (StatusEvent) TableName() string {
	return "pirep_status_events"
}
