package models

import "time"

// RatingKind is the polarity of an app rating.
type RatingKind string

const (
	RatingLike    RatingKind = "LIKE"
	RatingDislike RatingKind = "DISLIKE"
)

// Valid reports whether k is a known rating kind.
func (k RatingKind) Valid() bool {
	return k == RatingLike || k == RatingDislike
}

// Rating is a user's verdict on an app. At most one row exists per
// (owner, app); absence of a row means "no rating".
type Rating struct {
	OwnerID   string
	AppID     string
	Kind      RatingKind
	CreatedAt time.Time
}
