package ratings

import (
	"context"

	"github.com/sekijum/difyhub/internal/server/models"
)

type Repository interface {
	Find(ctx context.Context, ownerID, appID string) (*models.Rating, error)
	// Create inserts the rating and returns common.ErrorAlreadyExists when
	// a rating for (owner, app) already exists.
	Create(ctx context.Context, rating *models.Rating) error
	UpdateKind(ctx context.Context, ownerID, appID string, kind models.RatingKind) error
	Delete(ctx context.Context, ownerID, appID string) error
}
