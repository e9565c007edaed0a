package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is a moving company served by the portal.
type Company struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Client is the domain profile of a portal user with the client role.
// One-to-one with an authenticated identity.
type Client struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CompanyID *string   `json:"company_id,omitempty" db:"company_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ClientDetails is a client joined with its owning company.
type ClientDetails struct {
	Client
	Company *Company `json:"company,omitempty"`
}

// ClientUpdate represents the fields a client may edit on their own profile.
type ClientUpdate struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone *string `json:"phone"`
}

// Invite is a single-use record pre-authorizing a role and company for a
// future signup by email.
type Invite struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	CompanyID *string   `json:"company_id,omitempty" db:"company_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ActivityEntry is one row of the client activity log.
type ActivityEntry struct {
	ID        string    `json:"id" db:"id"`
	ClientID  string    `json:"client_id" db:"client_id"`
	Action    string    `json:"action" db:"action"`
	Detail    *string   `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CatalogService is one entry of a company's service catalog.
type CatalogService struct {
	ID          string          `json:"id" db:"id"`
	CompanyID   string          `json:"company_id" db:"company_id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
