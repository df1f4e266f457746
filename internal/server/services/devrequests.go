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
	"github.com/sekijum/difyhub/internal/server/notify"
	"github.com/sekijum/difyhub/internal/server/repositories/repomanager"
)

// DeveloperRequestService governs the request-to-become-a-developer
// workflow: users submit, administrators decide, and an approval elevates
// the user's role in the same transaction as the request update.
type DeveloperRequestService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	dispatcher  notify.Dispatcher

	now   func() time.Time
	newID func() string
}

func NewDeveloperRequestService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, dispatcher notify.Dispatcher) *DeveloperRequestService {
	return &DeveloperRequestService{
		db:          db,
		repomanager: m,
		logger:      logger,
		dispatcher:  dispatcher,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// EffectiveDeveloperStatus folds a request history (newest first) into the
// user's effective standing. Precedence: any approval wins, then a pending
// newest request, then rejected, then unsubmitted for an empty history.
func EffectiveDeveloperStatus(history []*models.DeveloperRequest) models.DeveloperStatus {
	if len(history) == 0 {
		return models.DeveloperStatusUnsubmitted
	}
	for _, r := range history {
		if r.Status == models.DeveloperRequestApproved {
			return models.DeveloperStatusApproved
		}
	}
	if history[0].Status == models.DeveloperRequestPending {
		return models.DeveloperStatusPending
	}
	return models.DeveloperStatusRejected
}

// Submit files a new PENDING request. Users who are already approved, or
// whose latest request is still pending, get common.ErrorConflict;
// re-applying after a rejection is allowed.
func (s *DeveloperRequestService) Submit(ctx context.Context, userID, reason, portfolioURL string) (*models.DeveloperRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, common.ErrorInvalidArgument
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		return nil, err
	}

	repo := s.repomanager.DeveloperRequests(s.db)

	history, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error reading request history: %w", err)
	}
	if EffectiveDeveloperStatus(history) == models.DeveloperStatusApproved {
		return nil, common.ErrorConflict
	}
	if len(history) > 0 && history[0].Status == models.DeveloperRequestPending {
		return nil, common.ErrorConflict
	}

	request := &models.DeveloperRequest{
		ID:           s.newID(),
		UserID:       userID,
		Reason:       reason,
		PortfolioURL: strings.TrimSpace(portfolioURL),
		Status:       models.DeveloperRequestPending,
		CreatedAt:    s.now(),
	}
	if err := repo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	return request, nil
}

// Decide settles a pending request. Approval writes the request status and
// the user's role elevation in one transaction; both commit or neither
// does. The requester is notified best-effort after the commit.
func (s *DeveloperRequestService) Decide(ctx context.Context, requestID string, decision models.DeveloperRequestStatus, resultReason string) (*models.DeveloperRequest, error) {
	if decision != models.DeveloperRequestApproved && decision != models.DeveloperRequestRejected {
		return nil, common.ErrorInvalidArgument
	}

	request, err := s.repomanager.DeveloperRequests(s.db).GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.DeveloperRequestPending {
		return nil, common.ErrorInvalidState
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, request.UserID)
	if err != nil {
		return nil, fmt.Errorf("error reading requester: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// The guarded update is the authoritative check: a concurrent decide
		// that settled the request first makes it affect zero rows, so a
		// terminal decision is never overwritten and the role write below
		// rolls back with it.
		if err := s.repomanager.DeveloperRequests(tx).UpdateDecision(ctx, request.ID, decision, resultReason); err != nil {
			if errors.Is(err, common.ErrorInvalidState) {
				return common.ErrorInvalidState
			}
			return fmt.Errorf("error updating request: %w", err)
		}
		if decision == models.DeveloperRequestApproved {
			developerName := user.DeveloperName
			if developerName == "" {
				developerName = user.Name
			}
			if err := s.repomanager.Users(tx).UpdateRole(ctx, user.ID, models.RoleDeveloper, developerName); err != nil {
				return fmt.Errorf("error elevating user role: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	request.Status = decision
	request.ResultReason = resultReason

	kind := notify.KindDeveloperRequestRejected
	if decision == models.DeveloperRequestApproved {
		kind = notify.KindDeveloperRequestApproved
	}
	dispatchAsync(s.logger, s.dispatcher, notify.Message{
		Kind:           kind,
		RecipientEmail: user.Email,
		RecipientName:  user.Name,
		Reason:         resultReason,
	})

	return request, nil
}
