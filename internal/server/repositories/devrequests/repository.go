package devrequests

import (
	"context"

	"github.com/sekijum/difyhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, request *models.DeveloperRequest) error
	GetByID(ctx context.Context, id string) (*models.DeveloperRequest, error)
	// ListByUser returns the user's full request history, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.DeveloperRequest, error)
	// UpdateDecision settles the request only if it is still PENDING and
	// returns common.ErrorInvalidState when it is already terminal.
	UpdateDecision(ctx context.Context, id string, status models.DeveloperRequestStatus, resultReason string) error
}
