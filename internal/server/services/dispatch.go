package services

import (
	"context"
	"time"

	"github.com/sekijum/difyhub/internal/logging"
	"github.com/sekijum/difyhub/internal/server/notify"
)

// dispatchTimeout bounds a single best-effort notification attempt.
const dispatchTimeout = 5 * time.Second

// dispatchAsync sends a notification without blocking the caller. It runs on
// a background context so the delivery is detached from the request that
// committed the mutation; failures are logged and never propagated.
// Declared as a var so tests can substitute a synchronous recorder.
var dispatchAsync = func(logger logging.Logger, d notify.Dispatcher, msg notify.Message) {
	if d == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := d.Dispatch(ctx, msg); err != nil {
			logger.Error(ctx, "notification dispatch failed",
				"kind", string(msg.Kind), "recipient", msg.RecipientEmail, "error", err.Error())
		}
	}()
}
