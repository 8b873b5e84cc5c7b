package domain

import "time"

// User is a registered shop account. Admin users can reach the back office.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"createdAt"`
}
