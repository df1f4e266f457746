// Package services contains the engagement and workflow engines of the
// marketplace core: bookmark folders, bookmark and rating toggles, the app
// publication lifecycle, and developer-role requests. Engines read state
// through repositories, decide the next state, and persist atomically; the
// notification dispatcher is invoked only after a successful write.
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

// DefaultFolderName is the name of the folder seeded at registration. The
// default folder can never be renamed or deleted.
const DefaultFolderName = "Favorites"

// FolderService owns bookmark folder lifecycle: explicit creation, renaming,
// deletion (cascading to bookmarks), and seeding the per-owner default.
type FolderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger

	now   func() time.Time
	newID func() string
}

func NewFolderService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *FolderService {
	return &FolderService{
		db:          db,
		repomanager: m,
		logger:      logger,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// CreateFolder creates a non-default folder. Names are stored trimmed of
// surrounding whitespace and compared case-sensitively; a collision with any
// of the owner's existing folders fails with common.ErrorConflict.
func (s *FolderService) CreateFolder(ctx context.Context, ownerID, name string) (*models.BookmarkFolder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrorInvalidArgument
	}

	folder := &models.BookmarkFolder{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Name:      name,
		IsDefault: false,
		CreatedAt: s.now(),
	}

	repo := s.repomanager.Folders(s.db)
	if err := repo.Create(ctx, folder); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating folder: %w", err)
	}

	return folder, nil
}

// CreateDefaultFolder seeds the owner's default folder. Called from owner
// registration; safe to call twice, the existing default wins.
func (s *FolderService) CreateDefaultFolder(ctx context.Context, ownerID string) (*models.BookmarkFolder, error) {
	folder := &models.BookmarkFolder{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Name:      DefaultFolderName,
		IsDefault: true,
		CreatedAt: s.now(),
	}

	repo := s.repomanager.Folders(s.db)
	err := repo.Create(ctx, folder)
	if err == nil {
		return folder, nil
	}
	if !errors.Is(err, common.ErrorAlreadyExists) {
		return nil, fmt.Errorf("error creating default folder: %w", err)
	}

	existing, err := repo.GetByName(ctx, ownerID, DefaultFolderName)
	if err != nil {
		return nil, fmt.Errorf("error reading default folder: %w", err)
	}
	return existing, nil
}

// RenameFolder renames a non-default folder. The new name is trimmed like in
// CreateFolder; renaming to the current name is a no-op success.
func (s *FolderService) RenameFolder(ctx context.Context, ownerID, folderID, newName string) (*models.BookmarkFolder, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, common.ErrorInvalidArgument
	}

	repo := s.repomanager.Folders(s.db)

	folder, err := repo.GetByID(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	if folder.IsDefault {
		return nil, common.ErrorForbidden
	}
	if folder.Name == newName {
		return folder, nil
	}

	if err := repo.Rename(ctx, ownerID, folderID, newName); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error renaming folder: %w", err)
	}

	folder.Name = newName
	return folder, nil
}

// DeleteFolder removes a non-default folder together with its bookmarks in
// one transaction.
func (s *FolderService) DeleteFolder(ctx context.Context, ownerID, folderID string) error {
	folder, err := s.repomanager.Folders(s.db).GetByID(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	if folder.IsDefault {
		return common.ErrorForbidden
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Bookmarks(tx).DeleteByFolder(ctx, folder.ID); err != nil {
			return fmt.Errorf("error deleting folder bookmarks: %w", err)
		}
		if err := s.repomanager.Folders(tx).Delete(ctx, ownerID, folder.ID); err != nil {
			return fmt.Errorf("error deleting folder: %w", err)
		}
		return nil
	})
}

// ListFolders returns the owner's folders, default first.
func (s *FolderService) ListFolders(ctx context.Context, ownerID string) ([]*models.BookmarkFolder, error) {
	result, err := s.repomanager.Folders(s.db).List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing folders: %w", err)
	}
	return result, nil
}
