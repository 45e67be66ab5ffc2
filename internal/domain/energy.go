package domain

import "time"

type Appliance struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	UserID           UserID    `gorm:"type:uuid;index;not null" db:"user_id" json:"-"`
	Name             string    `gorm:"type:text;not null" db:"name" json:"name"`
	PowerConsumption float64   `gorm:"not null;default:0" db:"power_consumption" json:"powerConsumption"`
	Hours            float64   `gorm:"not null;default:0" db:"hours" json:"hours"`
	CreatedAt        time.Time `gorm:"not null" db:"created_at" json:"-"`
}

func (Appliance) TableName() string { return "appliances" }

// EnergySummary is the derived per-user aggregate, one row per user,
// recomputed whenever the appliance set is resubmitted.
type EnergySummary struct {
	UserID             UserID    `gorm:"type:uuid;primaryKey" db:"user_id" json:"-"`
	DailyConsumption   float64   `gorm:"not null;default:0" db:"daily_consumption" json:"dailyConsumption"`
	MonthlyConsumption float64   `gorm:"not null;default:0" db:"monthly_consumption" json:"monthlyConsumption"`
	LastUpdated        time.Time `gorm:"not null" db:"last_updated" json:"lastUpdated"`
}

func (EnergySummary) TableName() string { return "user_energy_summary" }
