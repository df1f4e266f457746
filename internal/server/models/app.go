package models

import "time"

// AppStatus is the publication state of an app listing. Transitions are
// validated by the app lifecycle service before persistence.
type AppStatus string

const (
	AppStatusDraft         AppStatus = "DRAFT"
	AppStatusPendingReview AppStatus = "PENDING_REVIEW"
	AppStatusPublished     AppStatus = "PUBLISHED"
	AppStatusPrivate       AppStatus = "PRIVATE"
	AppStatusArchived      AppStatus = "ARCHIVED"
	AppStatusSuspended     AppStatus = "SUSPENDED"
	AppStatusRejected      AppStatus = "REJECTED"
)

// Valid reports whether s is one of the known publication states.
func (s AppStatus) Valid() bool {
	switch s {
	case AppStatusDraft, AppStatusPendingReview, AppStatusPublished,
		AppStatusPrivate, AppStatusArchived, AppStatusSuspended, AppStatusRejected:
		return true
	}
	return false
}

// App is a published AI-app listing. Only the fields the lifecycle service
// touches are modeled here; the remaining listing fields are plain CRUD.
type App struct {
	ID        string
	CreatorID string
	Name      string
	Status    AppStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
