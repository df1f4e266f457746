package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sekijum/difyhub/internal/common"
	"github.com/sekijum/difyhub/internal/dbx"
	"github.com/sekijum/difyhub/internal/logging"
	"github.com/sekijum/difyhub/internal/server/models"
	"github.com/sekijum/difyhub/internal/server/repositories/repomanager"
)

// RatingService is the tri-state rating toggle engine: no rating, LIKE, or
// DISLIKE per (owner, app). Repeating an identical input removes the rating,
// a different input replaces it in place; the row count never exceeds one.
type RatingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger

	now func() time.Time
}

func NewRatingService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *RatingService {
	return &RatingService{
		db:          db,
		repomanager: m,
		logger:      logger,
		now:         time.Now,
	}
}

// Toggle applies one rating input and returns the resulting rating, or nil
// when the input removed an identical existing rating.
func (s *RatingService) Toggle(ctx context.Context, ownerID, appID string, kind models.RatingKind) (*models.Rating, error) {
	if !kind.Valid() {
		return nil, common.ErrorInvalidArgument
	}

	if _, err := s.repomanager.Apps(s.db).GetByID(ctx, appID); err != nil {
		return nil, err
	}

	var result *models.Rating
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Ratings(tx)

		existing, err := repo.Find(ctx, ownerID, appID)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("error reading rating: %w", err)
			}

			rating := &models.Rating{
				OwnerID:   ownerID,
				AppID:     appID,
				Kind:      kind,
				CreatedAt: s.now(),
			}
			if err := repo.Create(ctx, rating); err != nil {
				if errors.Is(err, common.ErrorAlreadyExists) {
					// Lost the insert race; the concurrent request already
					// rated the app, so report the surviving row.
					rating, err = repo.Find(ctx, ownerID, appID)
					if err != nil {
						return fmt.Errorf("error re-reading rating: %w", err)
					}
					result = rating
					return nil
				}
				return fmt.Errorf("error creating rating: %w", err)
			}
			result = rating
			return nil
		}

		if existing.Kind == kind {
			// Identical input removes the rating.
			if err := repo.Delete(ctx, ownerID, appID); err != nil {
				return fmt.Errorf("error deleting rating: %w", err)
			}
			result = nil
			return nil
		}

		if err := repo.UpdateKind(ctx, ownerID, appID, kind); err != nil {
			return fmt.Errorf("error updating rating: %w", err)
		}
		existing.Kind = kind
		result = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
