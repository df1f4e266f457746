package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sekijum/difyhub/internal/common"
	"github.com/sekijum/difyhub/internal/dbx"
	"github.com/sekijum/difyhub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	query :=
		`INSERT INTO bookmarks (id, owner_id, app_id, folder_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (owner_id, app_id, folder_id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		bookmark.ID, bookmark.OwnerID, bookmark.AppID, bookmark.FolderID, bookmark.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorAlreadyExists
	}

	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, ownerID, appID, folderID string) (*models.Bookmark, error) {
	query :=
		`SELECT id, owner_id, app_id, folder_id, created_at FROM bookmarks
		 WHERE owner_id = $1 AND app_id = $2 AND folder_id = $3
		 `

	bookmark := &models.Bookmark{}
	err := r.db.QueryRowContext(ctx, query, ownerID, appID, folderID).
		Scan(&bookmark.ID, &bookmark.OwnerID, &bookmark.AppID, &bookmark.FolderID, &bookmark.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return bookmark, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM bookmarks
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) DeleteByFolder(ctx context.Context, folderID string) error {
	query :=
		`DELETE FROM bookmarks
		 WHERE folder_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, folderID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
