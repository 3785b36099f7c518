package models

import "time"

// Snapshot is the database row holding a serialized State
type Snapshot struct {
	Name      string    `gorm:"primaryKey;size:128"`
	Data      string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (Snapshot) TableName() string {
	return "snapshots"
}
