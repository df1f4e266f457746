package folders

import (
	"context"

	"github.com/sekijum/difyhub/internal/server/models"
)

type Repository interface {
	// Create inserts the folder and returns common.ErrorAlreadyExists when
	// the owner already has a folder with that name.
	Create(ctx context.Context, folder *models.BookmarkFolder) error
	GetByID(ctx context.Context, ownerID, folderID string) (*models.BookmarkFolder, error)
	GetByName(ctx context.Context, ownerID, name string) (*models.BookmarkFolder, error)
	List(ctx context.Context, ownerID string) ([]*models.BookmarkFolder, error)
	// Rename returns common.ErrorAlreadyExists when the new name collides
	// with another folder of the same owner.
	Rename(ctx context.Context, ownerID, folderID, name string) error
	Delete(ctx context.Context, ownerID, folderID string) error
}
