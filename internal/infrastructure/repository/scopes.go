package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

// StoreIDKey is the context key for the current store ID
const StoreIDKey ctxKey = "store_id"

// StoreScope returns a GORM scope that filters by the store in ctx.
// It must be applied to every query on store-owned tables.
func StoreScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		storeID, ok := ctx.Value(StoreIDKey).(uuid.UUID)
		if !ok || storeID == uuid.Nil {
			// Fail-safe: no store in context, no rows
			return db.Where("1 = 0")
		}
		return db.Where("store_id = ?", storeID)
	}
}

// WithStore adds a store ID to ctx
func WithStore(ctx context.Context, storeID uuid.UUID) context.Context {
	return context.WithValue(ctx, StoreIDKey, storeID)
}

// GetStoreID extracts the store ID from ctx
func GetStoreID(ctx context.Context) (uuid.UUID, bool) {
	storeID, ok := ctx.Value(StoreIDKey).(uuid.UUID)
	return storeID, ok && storeID != uuid.Nil
}

// likePattern builds a pattern for LOWER(column) LIKE ?, which behaves the
// same on postgres and sqlite
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
