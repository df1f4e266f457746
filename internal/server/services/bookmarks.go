package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sekijum/difyhub/internal/common"
	"github.com/sekijum/difyhub/internal/dbx"
	"github.com/sekijum/difyhub/internal/logging"
	"github.com/sekijum/difyhub/internal/server/models"
	"github.com/sekijum/difyhub/internal/server/repositories/repomanager"
)

// FolderRef selects the target folder of a bookmark toggle, either by id or
// by name. Exactly one field must be set; a name that does not resolve to an
// existing folder is created on the fly. Names are trimmed of surrounding
// whitespace before matching, then compared case-sensitively, so " Later"
// refers to "Later" but "later" does not.
type FolderRef struct {
	ID   *string
	Name *string
}

// BookmarkService is the idempotent bookmark toggle engine. Repeating the
// same call flips the bookmark off again; concurrent duplicates collapse to
// a single row via the (owner, app, folder) unique constraint.
type BookmarkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger

	now   func() time.Time
	newID func() string
}

func NewBookmarkService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *BookmarkService {
	return &BookmarkService{
		db:          db,
		repomanager: m,
		logger:      logger,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// Toggle creates the (owner, app, folder) bookmark if absent and returns it,
// or deletes it if present and returns nil. The folder resolution and the
// bookmark write share one transaction so an implicitly created folder never
// outlives a failed toggle.
func (s *BookmarkService) Toggle(ctx context.Context, ownerID, appID string, ref FolderRef) (*models.Bookmark, error) {
	if (ref.ID == nil) == (ref.Name == nil) {
		return nil, common.ErrorInvalidArgument
	}
	if ref.Name != nil && strings.TrimSpace(*ref.Name) == "" {
		return nil, common.ErrorInvalidArgument
	}

	if _, err := s.repomanager.Apps(s.db).GetByID(ctx, appID); err != nil {
		return nil, err
	}

	var result *models.Bookmark
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		folder, err := s.resolveFolder(ctx, tx, ownerID, ref)
		if err != nil {
			return err
		}

		repo := s.repomanager.Bookmarks(tx)

		existing, err := repo.Find(ctx, ownerID, appID, folder.ID)
		if err == nil {
			// Toggle off.
			if err := repo.Delete(ctx, existing.ID); err != nil {
				return fmt.Errorf("error deleting bookmark: %w", err)
			}
			result = nil
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error reading bookmark: %w", err)
		}

		bookmark := &models.Bookmark{
			ID:        s.newID(),
			OwnerID:   ownerID,
			AppID:     appID,
			FolderID:  folder.ID,
			CreatedAt: s.now(),
		}
		if err := repo.Create(ctx, bookmark); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				// A concurrent toggle won the insert; the app is bookmarked
				// either way, so report the surviving row.
				bookmark, err = repo.Find(ctx, ownerID, appID, folder.ID)
				if err != nil {
					return fmt.Errorf("error re-reading bookmark: %w", err)
				}
				result = bookmark
				return nil
			}
			return fmt.Errorf("error creating bookmark: %w", err)
		}
		result = bookmark
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// resolveFolder maps a FolderRef to a concrete folder of the owner. A
// missing named folder is created; losing the creation race to a concurrent
// request is resolved by re-reading the winner's row.
func (s *BookmarkService) resolveFolder(ctx context.Context, tx dbx.DBTX, ownerID string, ref FolderRef) (*models.BookmarkFolder, error) {
	repo := s.repomanager.Folders(tx)

	if ref.ID != nil {
		return repo.GetByID(ctx, ownerID, *ref.ID)
	}

	name := strings.TrimSpace(*ref.Name)

	folder, err := repo.GetByName(ctx, ownerID, name)
	if err == nil {
		return folder, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error reading folder: %w", err)
	}

	folder = &models.BookmarkFolder{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Name:      name,
		IsDefault: false,
		CreatedAt: s.now(),
	}
	err = repo.Create(ctx, folder)
	if err == nil {
		return folder, nil
	}
	if !errors.Is(err, common.ErrorAlreadyExists) {
		return nil, fmt.Errorf("error creating folder: %w", err)
	}

	folder, err = repo.GetByName(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("error re-reading folder: %w", err)
	}
	return folder, nil
}
