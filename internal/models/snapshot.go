package models

import "time"

// PropertySnapshot is the daily state of a property's investment figures
type PropertySnapshot struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID string    `gorm:"type:varchar(32);not null;index:idx_property_date" json:"property_id"`
	SnapshotAt time.Time `gorm:"type:date;not null;index:idx_property_date,priority:2;index:idx_snapshot_date" json:"snapshot_at"`

	Price              float64 `gorm:"type:decimal(14,2)" json:"price"`
	RentEstimate       float64 `gorm:"type:decimal(12,2)" json:"rent_estimate"`
	CapRate            float64 `gorm:"type:decimal(6,2)" json:"cap_rate"`
	CashOnCash         float64 `gorm:"type:decimal(6,2)" json:"cash_on_cash"`
	YearlyAppreciation float64 `gorm:"type:decimal(6,2)" json:"yearly_appreciation"`
	Status             string  `gorm:"type:varchar(20);not null" json:"status"`

	HasChanged bool   `gorm:"type:boolean;default:false" json:"has_changed"`
	ChangeNote string `gorm:"type:text" json:"change_note,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (PropertySnapshot) TableName() string {
	return "property_snapshots"
}

// PropertyChange represents a detected change between snapshots
type PropertyChange struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID      string    `gorm:"type:varchar(32);not null;index" json:"property_id"`
	SnapshotID      uint      `gorm:"type:bigint;not null" json:"snapshot_id"`
	ChangeType      string    `gorm:"type:varchar(50);not null" json:"change_type"`
	OldValue        string    `gorm:"type:text" json:"old_value,omitempty"`
	NewValue        string    `gorm:"type:text" json:"new_value,omitempty"`
	ChangeMagnitude *float64  `gorm:"type:decimal(14,2)" json:"change_magnitude,omitempty"` // For numerical changes
	DetectedAt      time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"detected_at"`
}

// TableName specifies the table name
func (PropertyChange) TableName() string {
	return "property_changes"
}

// ChangeType constants
const (
	ChangeTypePrice      = "price_changed"
	ChangeTypeRent       = "rent_changed"
	ChangeTypeCapRate    = "cap_rate_changed"
	ChangeTypeCashOnCash = "cash_on_cash_changed"
	ChangeTypeStatus     = "status_changed"
	ChangeTypeNew        = "new_property"
	ChangeTypeRemoved    = "property_removed"
)
