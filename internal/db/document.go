package db

import "gorm.io/gorm"

// UserDocument holds the whole domain state of one user as a single JSON
// snapshot. Every save overwrites the blob; there is no per-entity row.
type UserDocument struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex;not null"`
	Data   []byte `gorm:"type:blob"`
}
