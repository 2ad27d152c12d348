package models

// UserDB represents a user record in the database.
// Users are created once and never updated or deleted.
type UserDB struct {
	ID       int64  `json:"id" db:"id"`       // Auto-assigned primary key, starts at 1
	Name     string `json:"name" db:"name"`   // Display name, not unique
	Email    string `json:"email" db:"email"` // Unique login key, case-sensitive
	Password string `json:"-" db:"password"`  // Stored exactly as submitted
}
