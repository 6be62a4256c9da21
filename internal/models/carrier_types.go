package models

// Carrier is the model for the 'carriers' table. This codebase only
// ever reads active carriers at notification time.
type Carrier struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	ContactEmail string `json:"contact_email" db:"contact_email"`
	IsActive     bool   `json:"is_active" db:"is_active"`
}
