package bookmarks

import (
	"context"

	"github.com/sekijum/difyhub/internal/server/models"
)

type Repository interface {
	// Create inserts the bookmark and returns common.ErrorAlreadyExists
	// when the (owner, app, folder) key is already taken.
	Create(ctx context.Context, bookmark *models.Bookmark) error
	Find(ctx context.Context, ownerID, appID, folderID string) (*models.Bookmark, error)
	Delete(ctx context.Context, id string) error
	DeleteByFolder(ctx context.Context, folderID string) error
}
