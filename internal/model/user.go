package model

import (
	"time"
)

// Role names assigned during onboarding.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
	RoleCrew   = "crew"
)

// User represents an authenticated identity.
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	CompanyID    *string    `json:"company_id,omitempty" db:"company_id"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// UserRegister represents data needed to create a new identity. Role and
// company are never taken from the request; they are resolved by onboarding.
type UserRegister struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Phone    string `json:"phone"`
}

// UserLogin represents data needed for login.
type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Identity is the resolved authorization context carried in token claims:
// who the user is, what role they hold and which client/company rows scope
// their queries.
type Identity struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
}

// TokenResponse is returned from register/login/refresh.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Identity     Identity  `json:"identity"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
