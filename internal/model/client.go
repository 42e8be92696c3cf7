package model

import "time"

// Client is a customer record. PhoneNumber holds national significant digits
// for home-region numbers and E.164 for foreign ones; it is the natural key
// used to detect duplicates.
type Client struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	PhoneNumber string `gorm:"uniqueIndex;not null"`
	Address     *string
	Notes       *string
	Email       *string
	CreatedAt   time.Time

	Jobs []Job `gorm:"foreignKey:ClientID"`
}
