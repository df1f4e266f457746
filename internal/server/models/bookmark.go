package models

import "time"

// Bookmark pins an app into one of the owner's folders. Rows are unique on
// (owner, app, folder) and are only ever created or deleted, never updated.
type Bookmark struct {
	ID        string
	OwnerID   string
	AppID     string
	FolderID  string
	CreatedAt time.Time
}
