package journal

import (
	"time"
)

// Transaction groups used by the recalculation trigger. Each recompute for
// a PIREP replaces all of its rows, so the set always reflects one
// deterministic pass over the PIREP's final attributes.
const (
	GroupPilotPay       = "pilot_pay"
	GroupFareRevenue    = "fares"
	GroupFuelCost       = "fuel"
	GroupGroundHandling = "ground_handling"
)

// Transaction is one journal line linked to exactly one PIREP
type Transaction struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PirepID uint   `gorm:"not null;index" json:"pirep_id"`
	Group   string `gorm:"type:varchar(50);not null" json:"group"`
	Memo    string `gorm:"type:varchar(255)" json:"memo"`

	Credit float64 `gorm:"type:numeric(12,2);default:0" json:"credit"`
	Debit  float64 `gorm:"type:numeric(12,2);default:0" json:"debit"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the Transaction model
func (Transaction) TableName() string {
	return "journal_transactions"
}
