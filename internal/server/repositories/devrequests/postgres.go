package devrequests

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

func (r *PostgresRepository) Create(ctx context.Context, request *models.DeveloperRequest) error {
	query :=
		`INSERT INTO developer_requests (id, user_id, reason, portfolio_url, status, result_reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		request.ID, request.UserID, request.Reason, request.PortfolioURL,
		request.Status, request.ResultReason, request.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.DeveloperRequest, error) {
	query :=
		`SELECT id, user_id, reason, portfolio_url, status, result_reason, created_at
		 FROM developer_requests
		 WHERE id = $1
		 `

	request := &models.DeveloperRequest{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&request.ID, &request.UserID, &request.Reason, &request.PortfolioURL,
			&request.Status, &request.ResultReason, &request.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return request, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.DeveloperRequest, error) {
	query :=
		`SELECT id, user_id, reason, portfolio_url, status, result_reason, created_at
		 FROM developer_requests
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.DeveloperRequest
	for rows.Next() {
		request := &models.DeveloperRequest{}
		if err := rows.Scan(&request.ID, &request.UserID, &request.Reason, &request.PortfolioURL,
			&request.Status, &request.ResultReason, &request.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// UpdateDecision writes the decision only while the request is still
// PENDING. A zero row count means a concurrent decide already settled the
// request; the terminal state must never be overwritten.
func (r *PostgresRepository) UpdateDecision(ctx context.Context, id string, status models.DeveloperRequestStatus, resultReason string) error {
	query :=
		`UPDATE developer_requests SET status = $2, result_reason = $3
		 WHERE id = $1 AND status = $4
		 `

	res, err := r.db.ExecContext(ctx, query, id, status, resultReason, models.DeveloperRequestPending)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorInvalidState
	}

	return nil
}
