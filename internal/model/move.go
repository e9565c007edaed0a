package model

import (
	"fmt"
	"time"
)

// MoveStatus is the lifecycle stage of a move. The progression is strictly
// linear: quote_sent -> approved -> scheduled -> in_progress -> completed.
type MoveStatus string

const (
	StatusQuoteSent  MoveStatus = "quote_sent"
	StatusApproved   MoveStatus = "approved"
	StatusScheduled  MoveStatus = "scheduled"
	StatusInProgress MoveStatus = "in_progress"
	StatusCompleted  MoveStatus = "completed"
)

// moveStatusOrder fixes the forward order of the lifecycle.
var moveStatusOrder = []MoveStatus{
	StatusQuoteSent,
	StatusApproved,
	StatusScheduled,
	StatusInProgress,
	StatusCompleted,
}

var moveStatusLabels = map[MoveStatus]string{
	StatusQuoteSent:  "Quote Sent",
	StatusApproved:   "Quote Approved",
	StatusScheduled:  "Scheduled",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
}

// Valid reports whether s is one of the five lifecycle statuses.
func (s MoveStatus) Valid() bool {
	_, ok := moveStatusLabels[s]
	return ok
}

// Index returns the position of s in the lifecycle, or -1 for an unknown status.
func (s MoveStatus) Index() int {
	for i, st := range moveStatusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Label returns the display label for s.
func (s MoveStatus) Label() string {
	return moveStatusLabels[s]
}

// ParseMoveStatus converts a raw string into a MoveStatus.
func ParseMoveStatus(raw string) (MoveStatus, error) {
	s := MoveStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown move status %q", raw)
	}
	return s, nil
}

// ProgressStep is one entry of the lifecycle progress indicator.
type ProgressStep struct {
	Status  MoveStatus `json:"status"`
	Label   string     `json:"label"`
	Reached bool       `json:"reached"`
}

// ProgressSteps renders the full lifecycle for the given status. Every step
// up to and including the current one is marked as reached; for an unknown
// status no step is marked.
func ProgressSteps(current MoveStatus) []ProgressStep {
	idx := current.Index()
	steps := make([]ProgressStep, len(moveStatusOrder))
	for i, st := range moveStatusOrder {
		steps[i] = ProgressStep{
			Status:  st,
			Label:   st.Label(),
			Reached: idx >= 0 && i <= idx,
		}
	}
	return steps
}

// Move represents a single relocation engagement between a client and the
// moving company.
type Move struct {
	ID                string     `json:"id" db:"id"`
	ClientID          string     `json:"client_id" db:"client_id"`
	CompanyID         *string    `json:"company_id,omitempty" db:"company_id"`
	Date              time.Time  `json:"date" db:"date"`
	Origin            string     `json:"origin" db:"origin"`
	Destination       string     `json:"destination" db:"destination"`
	Status            MoveStatus `json:"status" db:"status"`
	CrewInfo          *string    `json:"crew_info,omitempty" db:"crew_info"`
	EstimatedDuration *string    `json:"estimated_duration,omitempty" db:"estimated_duration"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// MoveUpdate is a timestamped free-text narration attached to a move.
type MoveUpdate struct {
	ID        string    `json:"id" db:"id"`
	MoveID    string    `json:"move_id" db:"move_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MoveDetails is a move together with its updates and the rendered
// lifecycle progress.
type MoveDetails struct {
	Move
	Updates  []MoveUpdate   `json:"updates"`
	Progress []ProgressStep `json:"progress"`
}

// QuoteRequest represents data needed to request a new quote, which opens a
// move in the quote_sent stage.
type QuoteRequest struct {
	Origin            string `json:"origin" binding:"required"`
	Destination       string `json:"destination" binding:"required"`
	Date              string `json:"date" binding:"required,futuredate"`
	EstimatedDuration string `json:"estimated_duration"`
	SpecialRequests   string `json:"special_requests"`
}
