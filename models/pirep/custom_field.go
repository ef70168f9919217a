package pirep

import (
	"time"
)

// FieldValue represents one custom field value attached to a PIREP
type FieldValue struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PirepID uint   `gorm:"not null;index:idx_pirep_field,unique" json:"pirep_id"`
	Name    string `gorm:"type:varchar(100);not null;index:idx_pirep_field,unique" json:"name"`
	Value   string `gorm:"type:text" json:"value"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the FieldValue model
func (FieldValue) TableName() string {
	return "pirep_field_values"
}
