// Package orderrepo persists order aggregates and their transition audit trail.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row shape of the orders table. Statuses are stored by name
// so that raw read queries can filter on them directly.
type OrderDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	RestaurantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	WorkerID       *uuid.UUID      `gorm:"type:uuid;index"`
	Status         string          `gorm:"type:varchar(32);not null;index"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TipAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PromoCode      string          `gorm:"type:varchar(64);not null;default:''"`
	PaymentStatus  string          `gorm:"type:varchar(16);not null"`
	FailureReason  string          `gorm:"type:text;not null;default:''"`
	CancelReason   string          `gorm:"type:text;not null;default:''"`
	CreatedAt      time.Time       `gorm:"not null;index"`
	AssignedAt     *time.Time
	PickedUpAt     *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	FailedAt       *time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

// TransitionDTO is one append-only row of order_transitions.
type TransitionDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_order_transitions_order,priority:1"`
	FromStatus string     `gorm:"type:varchar(32);not null"`
	ToStatus   string     `gorm:"type:varchar(32);not null"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	ActorRole  string     `gorm:"type:varchar(16);not null"`
	Reason     string     `gorm:"type:text;not null;default:''"`
	OccurredAt time.Time  `gorm:"not null;index:idx_order_transitions_order,priority:2"`
}

func (TransitionDTO) TableName() string {
	return "order_transitions"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	state := aggregate.Snapshot()

	return OrderDTO{
		ID:             state.ID.Bytes(),
		CustomerID:     state.CustomerID.Bytes(),
		RestaurantID:   state.RestaurantID.Bytes(),
		WorkerID:       optionalID(state.WorkerID),
		Status:         state.Status.String(),
		TotalAmount:    state.Pricing.Total().Amount(),
		DiscountAmount: state.Pricing.Discount().Amount(),
		TipAmount:      state.Pricing.Tip().Amount(),
		PromoCode:      state.Pricing.PromoCode(),
		PaymentStatus:  state.PaymentStatus.String(),
		FailureReason:  state.FailureReason,
		CancelReason:   state.CancelReason,
		CreatedAt:      state.CreatedAt,
		AssignedAt:     state.AssignedAt,
		PickedUpAt:     state.PickedUpAt,
		DeliveredAt:    state.DeliveredAt,
		CancelledAt:    state.CancelledAt,
		FailedAt:       state.FailedAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var workerID *kernel.UUID
	if dto.WorkerID != nil {
		wID, workerErr := kernel.UUIDFromBytes((*dto.WorkerID)[:])
		if workerErr != nil {
			return nil, workerErr
		}
		workerID = &wID
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	pricing, err := restorePricing(dto)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:            id,
		CustomerID:    customerID,
		RestaurantID:  restaurantID,
		WorkerID:      workerID,
		Status:        status,
		Pricing:       pricing,
		PaymentStatus: paymentStatus,
		FailureReason: dto.FailureReason,
		CancelReason:  dto.CancelReason,
		CreatedAt:     dto.CreatedAt,
		AssignedAt:    dto.AssignedAt,
		PickedUpAt:    dto.PickedUpAt,
		DeliveredAt:   dto.DeliveredAt,
		CancelledAt:   dto.CancelledAt,
		FailedAt:      dto.FailedAt,
	})
}

func restorePricing(dto OrderDTO) (order.Pricing, error) {
	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return order.Pricing{}, err
	}
	discount, err := kernel.NewMoney(dto.DiscountAmount)
	if err != nil {
		return order.Pricing{}, err
	}
	tip, err := kernel.NewMoney(dto.TipAmount)
	if err != nil {
		return order.Pricing{}, err
	}
	return order.NewPricing(total, discount, tip, dto.PromoCode)
}

func transitionFromDomain(t order.Transition) TransitionDTO {
	return TransitionDTO{
		ID:         t.ID.Bytes(),
		OrderID:    t.OrderID.Bytes(),
		FromStatus: t.From.String(),
		ToStatus:   t.To.String(),
		ActorID:    optionalID(t.ActorID),
		ActorRole:  t.ActorRole.String(),
		Reason:     t.Reason,
		OccurredAt: t.OccurredAt,
	}
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
