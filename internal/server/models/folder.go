package models

import "time"

// BookmarkFolder groups a user's bookmarks. Folder names are unique per
// owner. Exactly one folder per owner carries IsDefault; it is seeded at
// registration and can never be renamed or deleted.
type BookmarkFolder struct {
	ID        string
	OwnerID   string
	Name      string
	IsDefault bool
	CreatedAt time.Time
}
