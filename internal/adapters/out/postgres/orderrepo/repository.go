package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerrs.IsUniqueViolation(err, "") {
			return errs.NewObjectExistsErrorWithCause("order", aggregate.ID().String(), err)
		}
		return pgerrs.Persistence("add order", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, pgerrs.Persistence("get order", err)
	}

	return toDomain(dto)
}

// ApplyTransition writes the new status with one UPDATE guarded by the status
// the transition started from. Claims are additionally guarded by an empty
// worker_id, so of two racing claims exactly one matches a row.
func (r *GormOrderRepository) ApplyTransition(
	ctx context.Context,
	aggregate *order.Order,
	transition order.Transition,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !transition.OrderID.IsEqual(aggregate.ID()) || transition.To != aggregate.Status() {
		return errs.NewValueIsInvalidErrorWithCause(
			"transition",
			fmt.Errorf("transition %s to %s does not describe order %s", transition.From, transition.To, aggregate.ID()),
		)
	}

	dto := fromDomain(aggregate)
	query := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, transition.From.String())
	if transition.To == order.Assigned {
		query = query.Where("worker_id IS NULL")
	}

	result := query.Updates(map[string]any{
		"status":         dto.Status,
		"worker_id":      dto.WorkerID,
		"failure_reason": dto.FailureReason,
		"cancel_reason":  dto.CancelReason,
		"assigned_at":    dto.AssignedAt,
		"picked_up_at":   dto.PickedUpAt,
		"delivered_at":   dto.DeliveredAt,
		"cancelled_at":   dto.CancelledAt,
		"failed_at":      dto.FailedAt,
	})
	if result.Error != nil {
		return pgerrs.Persistence("apply order transition", result.Error)
	}

	if result.RowsAffected == 0 {
		if transition.To == order.Assigned {
			return order.ErrAlreadyClaimed
		}
		return errs.NewStaleStateError("order", aggregate.ID().String(), transition.From.String())
	}

	audit := transitionFromDomain(transition)
	if err := r.db.WithContext(ctx).Create(&audit).Error; err != nil {
		return pgerrs.Persistence("record order transition", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdatePaymentStatus writes the payment status guarded by from.
func (r *GormOrderRepository) UpdatePaymentStatus(
	ctx context.Context,
	aggregate *order.Order,
	from order.PaymentStatus,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND payment_status = ?", aggregate.ID().Bytes(), from.String()).
		Update("payment_status", aggregate.PaymentStatus().String())
	if result.Error != nil {
		return pgerrs.Persistence("update payment status", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewStaleStateError("order", aggregate.ID().String(), "payment "+from.String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}
