package users

import (
	"context"

	"github.com/sekijum/difyhub/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	// UpdateRole writes the user's role together with the developer name so
	// both land in the same statement when called inside a transaction.
	UpdateRole(ctx context.Context, id string, role models.Role, developerName string) error
}
