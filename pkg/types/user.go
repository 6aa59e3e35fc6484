package types

import "time"

// Role represents the access roles embedded in tokens
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Admin represents a back-office administrator account
type Admin struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Patient represents a registered patient account
type Patient struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Claims represents the verified content of an access token: who the
// token was issued to and in which role.
type Claims struct {
	Subject string `json:"subject"`
	Role    Role   `json:"role"`
}

// AuthToken represents an issued access token
type AuthToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// Credentials represents a login request
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}
