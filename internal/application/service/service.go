package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/internal/domain/pos"
	"github.com/sangkips/brewpos-api/internal/infrastructure/events"
	infraRepo "github.com/sangkips/brewpos-api/internal/infrastructure/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"go.uber.org/zap"
)

// Actor is the authenticated staff member performing an operation
type Actor struct {
	StaffID     uuid.UUID
	StoreID     uuid.UUID
	Name        string
	Role        enum.StaffRole
	Permissions []string // from the token; empty means the role's defaults
}

// Can reports whether the actor holds perm
func (a Actor) Can(perm string) bool {
	perms := a.Permissions
	if len(perms) == 0 {
		perms = a.Role.Permissions()
	}
	for _, p := range perms {
		if p == perm {
			return true
		}
	}
	return false
}

// storeFromContext returns the store the request is scoped to
func storeFromContext(ctx context.Context) (uuid.UUID, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return uuid.Nil, apperror.ErrStoreContext
	}
	return storeID, nil
}

// publish sends a snapshot event. Delivery is best effort: a failed publish
// is logged and never fails the write that triggered it.
func publish(ctx context.Context, bus events.Bus, log *zap.Logger, topic, kind string, storeID uuid.UUID, snapshot interface{}, at time.Time) {
	if bus == nil {
		return
	}
	ev, err := events.NewEvent(topic, kind, storeID, snapshot, at)
	if err == nil {
		err = bus.Publish(ctx, ev)
	}
	if err != nil {
		log.Warn("event publish failed",
			zap.String("topic", topic),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

// translatePOSError maps domain errors from the pos package to API errors
func translatePOSError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pos.ErrEmptyCart):
		return apperror.ErrEmptyCart
	case errors.Is(err, pos.ErrInvalidTaxRate):
		return apperror.NewFieldError("default_tax_rate", "must be between 0 and 100")
	case errors.Is(err, pos.ErrNegativeTotal):
		return apperror.NewFieldError("total", "must not be negative")
	case errors.Is(err, pos.ErrInvalidRefundAmount):
		return apperror.NewFieldError("amount", "must be greater than zero")
	case errors.Is(err, pos.ErrRefundPrecision):
		return apperror.NewFieldError("amount", "must have at most two decimals")
	case errors.Is(err, pos.ErrRefundExceedsBalance):
		return apperror.NewFieldError("amount", err.Error())
	case errors.Is(err, pos.ErrInvalidTransition):
		return apperror.NewInvalidTransitionError(err.Error())
	}
	return err
}

func loggerOrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Locator resolves the timezone used to key business days
type Locator interface {
	Location(ctx context.Context) *time.Location
}
