package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sekijum/difyhub/internal/common"
	"github.com/sekijum/difyhub/internal/logging"
	"github.com/sekijum/difyhub/internal/server/models"
	"github.com/sekijum/difyhub/internal/server/notify"
	"github.com/sekijum/difyhub/internal/server/repositories/repomanager"
)

// forbiddenTransitions lists, per current status, the target statuses an app
// may not move to. Any pair not listed here is permitted; the table is a
// blacklist, not an allow-list.
var forbiddenTransitions = map[models.AppStatus][]models.AppStatus{
	models.AppStatusPublished: {models.AppStatusDraft},
	models.AppStatusArchived:  {models.AppStatusPublished},
	models.AppStatusPrivate:   {models.AppStatusPublished},
	models.AppStatusSuspended: {models.AppStatusPublished},
}

// statusNotifications maps target statuses to the notification template sent
// to the app's creator. Transitions into states not listed here are silent.
var statusNotifications = map[models.AppStatus]notify.Kind{
	models.AppStatusPublished: notify.KindAppPublished,
	models.AppStatusPrivate:   notify.KindAppPrivate,
	models.AppStatusSuspended: notify.KindAppSuspended,
	models.AppStatusArchived:  notify.KindAppArchived,
}

// AppService governs the publication lifecycle of app listings. Status is
// the only field it writes; everything else on an app is ordinary CRUD.
type AppService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	dispatcher  notify.Dispatcher

	now func() time.Time
}

func NewAppService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, dispatcher notify.Dispatcher) *AppService {
	return &AppService{
		db:          db,
		repomanager: m,
		logger:      logger,
		dispatcher:  dispatcher,
		now:         time.Now,
	}
}

// ChangeStatus moves an app to newStatus after validating the transition
// against the blacklist table, then notifies the creator best-effort. A
// self-transition skips validation and is persisted as a no-op write.
func (s *AppService) ChangeStatus(ctx context.Context, appID string, newStatus models.AppStatus, reason string) (*models.App, error) {
	if !newStatus.Valid() {
		return nil, common.ErrorInvalidArgument
	}

	app, err := s.repomanager.Apps(s.db).GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	if app.Status != newStatus {
		for _, forbidden := range forbiddenTransitions[app.Status] {
			if newStatus == forbidden {
				return nil, common.ErrorInvalidTransition
			}
		}
	}

	updatedAt := s.now()
	// The write is fenced on the status the validation saw. A concurrent
	// change makes it affect zero rows, so a transition that would be
	// forbidden against the new current status cannot slip through.
	if err := s.repomanager.Apps(s.db).UpdateStatus(ctx, app.ID, app.Status, newStatus, updatedAt); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error updating app status: %w", err)
	}
	app.Status = newStatus
	app.UpdatedAt = updatedAt

	s.notifyCreator(ctx, app, reason)

	return app, nil
}

// notifyCreator sends the transition-specific notification when the new
// status has one. Lookup or dispatch failures are logged only; the status
// change has already committed.
func (s *AppService) notifyCreator(ctx context.Context, app *models.App, reason string) {
	kind, ok := statusNotifications[app.Status]
	if !ok {
		return
	}

	creator, err := s.repomanager.Users(s.db).GetByID(ctx, app.CreatorID)
	if err != nil {
		s.logger.Error(ctx, "app status notification skipped: creator lookup failed",
			"app_id", app.ID, "creator_id", app.CreatorID, "error", err.Error())
		return
	}

	dispatchAsync(s.logger, s.dispatcher, notify.Message{
		Kind:           kind,
		RecipientEmail: creator.Email,
		RecipientName:  creator.Name,
		AppName:        app.Name,
		Reason:         reason,
	})
}
