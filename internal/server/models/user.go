// Package models holds the persisted entities of the marketplace core.
package models

import "time"

// Role determines what a user may do on the marketplace.
type Role string

const (
	RoleUser          Role = "USER"
	RoleDeveloper     Role = "DEVELOPER"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// User is the marketplace account. Role is elevated to RoleDeveloper only as
// a side effect of an approved developer request, never written directly.
type User struct {
	ID            string
	Email         string
	Name          string
	Role          Role
	DeveloperName string
	CreatedAt     time.Time
}
