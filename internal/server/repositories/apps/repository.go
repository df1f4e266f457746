package apps

import (
	"context"
	"time"

	"github.com/sekijum/difyhub/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.App, error)
	// UpdateStatus moves the app from the status the caller validated
	// against to the new one. It returns common.ErrorConflict when the
	// stored status no longer matches, so a transition checked against a
	// stale read can never land.
	UpdateStatus(ctx context.Context, id string, from, to models.AppStatus, updatedAt time.Time) error
}
