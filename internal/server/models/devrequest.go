package models

import "time"

// DeveloperRequestStatus is the state of a single developer-role request.
// PENDING is the only non-terminal state.
type DeveloperRequestStatus string

const (
	DeveloperRequestPending  DeveloperRequestStatus = "PENDING"
	DeveloperRequestApproved DeveloperRequestStatus = "APPROVED"
	DeveloperRequestRejected DeveloperRequestStatus = "REJECTED"
)

// DeveloperStatus is a user's effective developer standing, derived from the
// full request history rather than stored.
type DeveloperStatus string

const (
	DeveloperStatusUnsubmitted DeveloperStatus = "UNSUBMITTED"
	DeveloperStatusPending     DeveloperStatus = "PENDING"
	DeveloperStatusApproved    DeveloperStatus = "APPROVED"
	DeveloperStatusRejected    DeveloperStatus = "REJECTED"
)

// DeveloperRequest is one application to become a developer. Requests are
// never deleted; users accumulate a history and may re-apply after a
// rejection.
type DeveloperRequest struct {
	ID           string
	UserID       string
	Reason       string
	PortfolioURL string
	Status       DeveloperRequestStatus
	ResultReason string
	CreatedAt    time.Time
}
