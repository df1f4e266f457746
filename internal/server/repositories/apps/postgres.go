package apps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.App, error) {
	query :=
		`SELECT id, creator_id, name, status, created_at, updated_at FROM apps
		 WHERE id = $1
		 `

	app := &models.App{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&app.ID, &app.CreatorID, &app.Name, &app.Status, &app.CreatedAt, &app.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return app, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to models.AppStatus, updatedAt time.Time) error {
	query :=
		`UPDATE apps SET status = $2, updated_at = $3
		 WHERE id = $1 AND status = $4
		 `

	res, err := r.db.ExecContext(ctx, query, id, to, updatedAt, from)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorConflict
	}

	return nil
}
