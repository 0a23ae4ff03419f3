package models

import "time"

// DeleteLog records a property that was physically purged from the store
type DeleteLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID string    `gorm:"type:varchar(32);not null;index" json:"property_id"`
	Address    string    `gorm:"type:text" json:"address"`
	Price      float64   `gorm:"type:decimal(14,2)" json:"price"`
	RemovedAt  time.Time `gorm:"type:datetime" json:"removed_at"`
	DeletedAt  time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"deleted_at"`
	Reason     string    `gorm:"type:varchar(50);not null" json:"reason"`
}

// TableName specifies the table name
func (DeleteLog) TableName() string {
	return "delete_logs"
}

// DeleteReason constants
const (
	DeleteReasonExpired = "retention_expired"
	DeleteReasonManual  = "manual_deletion"
)
