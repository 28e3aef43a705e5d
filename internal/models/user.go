package models

import "time"

// User is the database representation of an admin-panel user row.
type User struct {
	UserID                 string     `db:"user_id"`
	LoginName              string     `db:"login_name"`
	Name                   string     `db:"name"`
	Email                  string     `db:"email"`
	PasswordHash           string     `db:"password_hash"`
	Role                   string     `db:"role"`
	IsActive               bool       `db:"is_active"`
	RefreshTokenHash       *string    `db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `db:"refresh_token_expiry_time"`
	CreatedAt              time.Time  `db:"created_at"`
	CreatedBy              string     `db:"created_by"`
	LastUpdatedAt          time.Time  `db:"last_updated_at"`
	LastUpdatedBy          string     `db:"last_updated_by"`
}
