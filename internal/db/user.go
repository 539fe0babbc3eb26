package db

import "gorm.io/gorm"

// User is an account record. Domain data lives in the user's document,
// not in relational tables.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FirstName    string
	LastName     string
}
