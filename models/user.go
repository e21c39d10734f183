package models

import "time"

// User represents a row in the users table. Password holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	LastActiveAt *time.Time `json:"-"`
}

// UserActivity is the slice of a user read for presence classification.
type UserActivity struct {
	Username     string
	LastActiveAt *time.Time
}
