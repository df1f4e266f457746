package ratings

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

func (r *PostgresRepository) Find(ctx context.Context, ownerID, appID string) (*models.Rating, error) {
	query :=
		`SELECT owner_id, app_id, kind, created_at FROM ratings
		 WHERE owner_id = $1 AND app_id = $2
		 `

	rating := &models.Rating{}
	err := r.db.QueryRowContext(ctx, query, ownerID, appID).
		Scan(&rating.OwnerID, &rating.AppID, &rating.Kind, &rating.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rating, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rating *models.Rating) error {
	query :=
		`INSERT INTO ratings (owner_id, app_id, kind, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner_id, app_id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		rating.OwnerID, rating.AppID, rating.Kind, rating.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorAlreadyExists
	}

	return nil
}

func (r *PostgresRepository) UpdateKind(ctx context.Context, ownerID, appID string, kind models.RatingKind) error {
	query :=
		`UPDATE ratings SET kind = $3
		 WHERE owner_id = $1 AND app_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, ownerID, appID, kind)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, appID string) error {
	query :=
		`DELETE FROM ratings
		 WHERE owner_id = $1 AND app_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, ownerID, appID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
