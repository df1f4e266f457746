// Package common contains shared sentinel errors used across DifyHub
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation / invariant errors surfaced to callers.
	ErrorInvalidArgument = errors.New("invalid argument")
	ErrorConflict        = errors.New("conflict")
	ErrorForbidden       = errors.New("forbidden")

	// Workflow state-machine errors.
	ErrorInvalidTransition = errors.New("invalid status transition")
	ErrorInvalidState      = errors.New("invalid request state")
)
