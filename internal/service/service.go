// Package service holds the transactional core: order workflow, consultation
// scheduling, inventory reservation and rating aggregation. Every multi-entity
// mutation runs inside a single gorm transaction; rows whose counters are
// contended (stock, ratings, time slots) are serialized before being read.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mallikarjunadanduba/FitLife360/internal/notify"
)

// forUpdate applies a row-level write lock. SQLite (used by the test suite)
// does not speak FOR UPDATE; its single-writer lock gives the same guarantee.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// dispatch sends a notification event after a committed transaction. Failures
// are logged only; notification delivery never affects the committed state.
func dispatch(ctx context.Context, d notify.Dispatcher, log *zap.Logger, evtType string, userID, entityID uint, message string) {
	if d == nil {
		return
	}
	evt := notify.Event{
		Type:      evtType,
		UserID:    userID,
		EntityID:  entityID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := d.Dispatch(ctx, evt); err != nil {
		log.Warn("Failed to dispatch notification event",
			zap.String("type", evtType),
			zap.Uint("user_id", userID),
			zap.Uint("entity_id", entityID),
			zap.Error(err))
	}
}
