package models

import "time"

// User represents an internal user model for the application/database.
// The password field only ever holds a bcrypt digest and is never serialized.
type User struct {
	ID       string    `json:"id" bson:"_id,omitempty" mapstructure:"id" db:"id"`
	Name     string    `json:"name" bson:"name" mapstructure:"name" db:"name"`
	Email    string    `json:"email" bson:"email" mapstructure:"email" db:"email"`
	Password string    `json:"-" bson:"password" mapstructure:"password" db:"password"`
	Bio      string    `json:"bio,omitempty" bson:"bio,omitempty" mapstructure:"bio" db:"bio"`
	JoinedAt time.Time `json:"joinedAt" bson:"joined_at" mapstructure:"joined_at" db:"joined_at"`
}

// NewUser holds the registration input for a user before it is persisted.
// Password is still plaintext here; the store hashes it on write.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Bio      string
}

// Sanitized returns a copy of the user with the password digest cleared,
// safe to hand back to callers.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clean := *u
	clean.Password = ""
	return &clean
}
