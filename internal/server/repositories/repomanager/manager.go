package repomanager

import (
	"context"
	"database/sql"

	"github.com/sekijum/difyhub/internal/dbx"
	"github.com/sekijum/difyhub/internal/server/repositories/apps"
	"github.com/sekijum/difyhub/internal/server/repositories/bookmarks"
	"github.com/sekijum/difyhub/internal/server/repositories/devrequests"
	"github.com/sekijum/difyhub/internal/server/repositories/folders"
	"github.com/sekijum/difyhub/internal/server/repositories/ratings"
	"github.com/sekijum/difyhub/internal/server/repositories/users"
)

// RepositoryManager vends per-entity repositories bound to a DBTX, so a
// service can run several repositories against the same transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Apps(db dbx.DBTX) apps.Repository
	Folders(db dbx.DBTX) folders.Repository
	Bookmarks(db dbx.DBTX) bookmarks.Repository
	Ratings(db dbx.DBTX) ratings.Repository
	DeveloperRequests(db dbx.DBTX) devrequests.Repository
}
