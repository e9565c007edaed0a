package service

import "errors"

// Errors the handlers translate into HTTP status codes.
var (
	// ErrNotFound covers rows that do not exist or belong to another client.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailInUse is returned when registering an existing email.
	ErrEmailInUse = errors.New("email already in use")

	// ErrAccountDisabled is returned for an inactive identity.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrMoveRequired is returned when a document upload names no move.
	ErrMoveRequired = errors.New("a move must be selected before uploading")

	// ErrMoveNotCompleted guards feedback submission.
	ErrMoveNotCompleted = errors.New("feedback is only accepted for completed moves")

	// ErrFeedbackExists is returned when a move was already rated.
	ErrFeedbackExists = errors.New("feedback was already submitted for this move")

	// ErrClaimsIssue is returned when the signup succeeded but authorization
	// claims could not be issued; the account needs manual reconciliation.
	ErrClaimsIssue = errors.New("signup recorded but authorization claims could not be issued")
)
