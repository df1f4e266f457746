package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sekijum/difyhub/internal/common"
	"github.com/sekijum/difyhub/internal/dbx"
	"github.com/sekijum/difyhub/internal/logging"
	"github.com/sekijum/difyhub/internal/server/models"
	"github.com/sekijum/difyhub/internal/server/notify"
	appsrepo "github.com/sekijum/difyhub/internal/server/repositories/apps"
	bookmarksrepo "github.com/sekijum/difyhub/internal/server/repositories/bookmarks"
	devrequestsrepo "github.com/sekijum/difyhub/internal/server/repositories/devrequests"
	foldersrepo "github.com/sekijum/difyhub/internal/server/repositories/folders"
	ratingsrepo "github.com/sekijum/difyhub/internal/server/repositories/ratings"
	"github.com/sekijum/difyhub/internal/server/repositories/repomanager"
	usersrepo "github.com/sekijum/difyhub/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// captureDispatch replaces the async dispatch seam with a synchronous
// recorder for the duration of the test.
func captureDispatch(t *testing.T) *[]notify.Message {
	t.Helper()
	msgs := &[]notify.Message{}
	orig := dispatchAsync
	dispatchAsync = func(logger logging.Logger, d notify.Dispatcher, msg notify.Message) {
		*msgs = append(*msgs, msg)
	}
	t.Cleanup(func() { dispatchAsync = orig })
	return msgs
}

// --- users ---

type fakeUsers struct {
	byID          map[string]*models.User
	updateRoleErr error
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateRole(ctx context.Context, id string, role models.Role, developerName string) error {
	if f.updateRoleErr != nil {
		return f.updateRoleErr
	}
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Role = role
	u.DeveloperName = developerName
	return nil
}

// --- apps ---

type fakeApps struct {
	byID map[string]*models.App

	// statusRace, when set, flips the stored status to this value right
	// before the next UpdateStatus applies its fence, as if a concurrent
	// transition committed between the caller's read and its write.
	statusRace *models.AppStatus
}

func (f *fakeApps) GetByID(ctx context.Context, id string) (*models.App, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApps) UpdateStatus(ctx context.Context, id string, from, to models.AppStatus, updatedAt time.Time) error {
	a, ok := f.byID[id]
	if !ok {
		return common.ErrorConflict
	}
	if f.statusRace != nil {
		a.Status = *f.statusRace
		f.statusRace = nil
	}
	if a.Status != from {
		return common.ErrorConflict
	}
	a.Status = to
	a.UpdatedAt = updatedAt
	return nil
}

// --- folders ---

type fakeFolders struct {
	byID map[string]*models.BookmarkFolder

	// createRace, when set, makes the next Create lose to this competing
	// row: the row is stored and the call reports ErrorAlreadyExists.
	createRace *models.BookmarkFolder

	renamed   []string
	deleted   []string
	deleteErr error
}

func (f *fakeFolders) Create(ctx context.Context, folder *models.BookmarkFolder) error {
	if f.createRace != nil {
		competitor := f.createRace
		f.createRace = nil
		f.byID[competitor.ID] = competitor
		return common.ErrorAlreadyExists
	}
	for _, existing := range f.byID {
		if existing.OwnerID == folder.OwnerID && existing.Name == folder.Name {
			return common.ErrorAlreadyExists
		}
	}
	cp := *folder
	f.byID[folder.ID] = &cp
	return nil
}

func (f *fakeFolders) GetByID(ctx context.Context, ownerID, folderID string) (*models.BookmarkFolder, error) {
	folder, ok := f.byID[folderID]
	if !ok || folder.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *folder
	return &cp, nil
}

func (f *fakeFolders) GetByName(ctx context.Context, ownerID, name string) (*models.BookmarkFolder, error) {
	for _, folder := range f.byID {
		if folder.OwnerID == ownerID && folder.Name == name {
			cp := *folder
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFolders) List(ctx context.Context, ownerID string) ([]*models.BookmarkFolder, error) {
	var result []*models.BookmarkFolder
	for _, folder := range f.byID {
		if folder.OwnerID == ownerID {
			cp := *folder
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsDefault != result[j].IsDefault {
			return result[i].IsDefault
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeFolders) Rename(ctx context.Context, ownerID, folderID, name string) error {
	folder, ok := f.byID[folderID]
	if !ok || folder.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	for _, other := range f.byID {
		if other.ID != folderID && other.OwnerID == ownerID && other.Name == name {
			return common.ErrorAlreadyExists
		}
	}
	folder.Name = name
	f.renamed = append(f.renamed, folderID)
	return nil
}

func (f *fakeFolders) Delete(ctx context.Context, ownerID, folderID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	folder, ok := f.byID[folderID]
	if !ok || folder.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.byID, folder.ID)
	f.deleted = append(f.deleted, folderID)
	return nil
}

// --- bookmarks ---

type fakeBookmarks struct {
	byID map[string]*models.Bookmark

	// createRace mirrors fakeFolders.createRace for the bookmark key.
	createRace *models.Bookmark

	deletedFolders []string
}

func (f *fakeBookmarks) Create(ctx context.Context, bookmark *models.Bookmark) error {
	if f.createRace != nil {
		competitor := f.createRace
		f.createRace = nil
		f.byID[competitor.ID] = competitor
		return common.ErrorAlreadyExists
	}
	for _, existing := range f.byID {
		if existing.OwnerID == bookmark.OwnerID && existing.AppID == bookmark.AppID && existing.FolderID == bookmark.FolderID {
			return common.ErrorAlreadyExists
		}
	}
	cp := *bookmark
	f.byID[bookmark.ID] = &cp
	return nil
}

func (f *fakeBookmarks) Find(ctx context.Context, ownerID, appID, folderID string) (*models.Bookmark, error) {
	for _, bookmark := range f.byID {
		if bookmark.OwnerID == ownerID && bookmark.AppID == appID && bookmark.FolderID == folderID {
			cp := *bookmark
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBookmarks) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeBookmarks) DeleteByFolder(ctx context.Context, folderID string) error {
	for id, bookmark := range f.byID {
		if bookmark.FolderID == folderID {
			delete(f.byID, id)
		}
	}
	f.deletedFolders = append(f.deletedFolders, folderID)
	return nil
}

// --- ratings ---

type fakeRatings struct {
	rows map[string]*models.Rating // keyed owner + "|" + app

	createRace *models.Rating
}

func ratingKey(ownerID, appID string) string { return ownerID + "|" + appID }

func (f *fakeRatings) Find(ctx context.Context, ownerID, appID string) (*models.Rating, error) {
	r, ok := f.rows[ratingKey(ownerID, appID)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRatings) Create(ctx context.Context, rating *models.Rating) error {
	if f.createRace != nil {
		competitor := f.createRace
		f.createRace = nil
		f.rows[ratingKey(competitor.OwnerID, competitor.AppID)] = competitor
		return common.ErrorAlreadyExists
	}
	key := ratingKey(rating.OwnerID, rating.AppID)
	if _, ok := f.rows[key]; ok {
		return common.ErrorAlreadyExists
	}
	cp := *rating
	f.rows[key] = &cp
	return nil
}

func (f *fakeRatings) UpdateKind(ctx context.Context, ownerID, appID string, kind models.RatingKind) error {
	r, ok := f.rows[ratingKey(ownerID, appID)]
	if !ok {
		return common.ErrorNotFound
	}
	r.Kind = kind
	return nil
}

func (f *fakeRatings) Delete(ctx context.Context, ownerID, appID string) error {
	key := ratingKey(ownerID, appID)
	if _, ok := f.rows[key]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, key)
	return nil
}

// --- developer requests ---

type fakeDevRequests struct {
	byID map[string]*models.DeveloperRequest

	// decideRace, when set, settles the stored request with this status
	// right before the next UpdateDecision applies its PENDING fence, as if
	// a concurrent decide committed first.
	decideRace *models.DeveloperRequestStatus

	createErr error
	updateErr error
}

func (f *fakeDevRequests) Create(ctx context.Context, request *models.DeveloperRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *request
	f.byID[request.ID] = &cp
	return nil
}

func (f *fakeDevRequests) GetByID(ctx context.Context, id string) (*models.DeveloperRequest, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeDevRequests) ListByUser(ctx context.Context, userID string) ([]*models.DeveloperRequest, error) {
	var result []*models.DeveloperRequest
	for _, r := range f.byID {
		if r.UserID == userID {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeDevRequests) UpdateDecision(ctx context.Context, id string, status models.DeveloperRequestStatus, resultReason string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	r, ok := f.byID[id]
	if !ok {
		return common.ErrorInvalidState
	}
	if f.decideRace != nil {
		r.Status = *f.decideRace
		f.decideRace = nil
	}
	if r.Status != models.DeveloperRequestPending {
		return common.ErrorInvalidState
	}
	r.Status = status
	r.ResultReason = resultReason
	return nil
}

// --- repository manager ---

type fakeRepoManager struct {
	users       *fakeUsers
	apps        *fakeApps
	folders     *fakeFolders
	bookmarks   *fakeBookmarks
	ratings     *fakeRatings
	devRequests *fakeDevRequests
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:       &fakeUsers{byID: map[string]*models.User{}},
		apps:        &fakeApps{byID: map[string]*models.App{}},
		folders:     &fakeFolders{byID: map[string]*models.BookmarkFolder{}},
		bookmarks:   &fakeBookmarks{byID: map[string]*models.Bookmark{}},
		ratings:     &fakeRatings{rows: map[string]*models.Rating{}},
		devRequests: &fakeDevRequests{byID: map[string]*models.DeveloperRequest{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.users }
func (m *fakeRepoManager) Apps(db dbx.DBTX) appsrepo.Repository                   { return m.apps }
func (m *fakeRepoManager) Folders(db dbx.DBTX) foldersrepo.Repository             { return m.folders }
func (m *fakeRepoManager) Bookmarks(db dbx.DBTX) bookmarksrepo.Repository         { return m.bookmarks }
func (m *fakeRepoManager) Ratings(db dbx.DBTX) ratingsrepo.Repository             { return m.ratings }
func (m *fakeRepoManager) DeveloperRequests(db dbx.DBTX) devrequestsrepo.Repository {
	return m.devRequests
}

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

// --- dispatcher ---

type fakeDispatcher struct {
	err  error
	sent []notify.Message
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, msg notify.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, msg)
	return nil
}
