package folders

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

// Create inserts the folder. ON CONFLICT DO NOTHING keeps an enclosing
// transaction usable when the (owner, name) key is already taken; the lost
// insert is reported as common.ErrorAlreadyExists via the row count.
func (r *PostgresRepository) Create(ctx context.Context, folder *models.BookmarkFolder) error {
	query :=
		`INSERT INTO bookmark_folders (id, owner_id, name, is_default, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (owner_id, name) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		folder.ID, folder.OwnerID, folder.Name, folder.IsDefault, folder.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorAlreadyExists
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, folderID string) (*models.BookmarkFolder, error) {
	query :=
		`SELECT id, owner_id, name, is_default, created_at FROM bookmark_folders
		 WHERE id = $1 AND owner_id = $2
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, folderID, ownerID))
}

func (r *PostgresRepository) GetByName(ctx context.Context, ownerID, name string) (*models.BookmarkFolder, error) {
	query :=
		`SELECT id, owner_id, name, is_default, created_at FROM bookmark_folders
		 WHERE owner_id = $1 AND name = $2
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, ownerID, name))
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.BookmarkFolder, error) {
	query :=
		`SELECT id, owner_id, name, is_default, created_at FROM bookmark_folders
		 WHERE owner_id = $1
		 ORDER BY is_default DESC, created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.BookmarkFolder
	for rows.Next() {
		folder := &models.BookmarkFolder{}
		if err := rows.Scan(&folder.ID, &folder.OwnerID, &folder.Name, &folder.IsDefault, &folder.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, ownerID, folderID, name string) error {
	query :=
		`UPDATE bookmark_folders SET name = $3
		 WHERE id = $1 AND owner_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, folderID, ownerID, name)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, folderID string) error {
	query :=
		`DELETE FROM bookmark_folders
		 WHERE id = $1 AND owner_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, folderID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.BookmarkFolder, error) {
	folder := &models.BookmarkFolder{}
	err := row.Scan(&folder.ID, &folder.OwnerID, &folder.Name, &folder.IsDefault, &folder.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return folder, nil
}
