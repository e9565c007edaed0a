package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteLineItem is one priced line of a quote. Amounts are trusted as given
// by the company; the portal never recomputes totals.
type QuoteLineItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Quote is a priced proposal of line items for a move, requiring client
// approval. The approved flag only ever moves forward (false -> true).
type Quote struct {
	ID          string          `json:"id" db:"id"`
	MoveID      string          `json:"move_id" db:"move_id"`
	LineItems   []QuoteLineItem `json:"line_items" db:"-"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax         decimal.Decimal `json:"tax" db:"tax"`
	Total       decimal.Decimal `json:"total" db:"total"`
	Approved    bool            `json:"approved" db:"approved"`
	ClientNotes *string         `json:"client_notes,omitempty" db:"client_notes"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// QuoteDetails is a quote joined with its move.
type QuoteDetails struct {
	Quote
	Move Move `json:"move"`
}

// QuoteApproval represents the client's approval submission.
type QuoteApproval struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// Invoice is a billing record for a move, read-only for the client.
type Invoice struct {
	ID        string          `json:"id" db:"id"`
	MoveID    string          `json:"move_id" db:"move_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Status    string          `json:"status" db:"status"`
	DueDate   *time.Time      `json:"due_date,omitempty" db:"due_date"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Feedback is a client's rating of a completed move.
type Feedback struct {
	ID        string    `json:"id" db:"id"`
	MoveID    string    `json:"move_id" db:"move_id"`
	Stars     int       `json:"stars" db:"stars"`
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FeedbackCreate represents a feedback submission for a move.
type FeedbackCreate struct {
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}
