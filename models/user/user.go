package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// User model with fields based on the JWT token structure plus the pilot
// attributes the PIREP guards and finance computation need
type User struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid     string  `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Username string  `gorm:"type:varchar(255);not null;unique" json:"username"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	Email    *string `gorm:"type:varchar(255);unique" json:"email"`

	// Pilot state
	CurrentAirportID string  `gorm:"type:varchar(5);index" json:"curr_airport_id"`
	HomeAirportID    string  `gorm:"type:varchar(5)" json:"home_airport_id"`
	RankLevel        int     `gorm:"type:int;default:1" json:"rank_level"`
	PayRate          float64 `gorm:"type:numeric(10,2);default:0" json:"pay_rate"` // per flight hour
	FlightTime       int     `gorm:"type:int;default:0" json:"flight_time"`        // total minutes

	Permissions StringSlice `gorm:"type:json" json:"permissions"` // Use JSON column to store slice of strings

	JoinedAt  *time.Time `json:"joined_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// StringSlice is a custom type to handle JSON serialization for PostgreSQL
type StringSlice []string

// Scan implements the Scanner interface for database deserialization
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, ss)
}

// Value implements the driver Valuer interface for database serialization
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	return json.Marshal(ss)
}
