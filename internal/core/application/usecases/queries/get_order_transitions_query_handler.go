package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderTransitionsQueryHandler reads the order audit trail with direct SQL.
type GetOrderTransitionsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderTransitionsQueryHandler(db *gorm.DB) GetOrderTransitionsQueryHandler {
	return GetOrderTransitionsQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for an unknown order. A known order
// without transitions yields an empty slice.
func (h GetOrderTransitionsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTransitionsQuery,
) ([]OrderTransitionView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	orderID := query.OrderID().Bytes()

	var exists bool
	if err := db.Raw(`SELECT EXISTS (SELECT 1 FROM orders WHERE id = ?)`, orderID).Row().Scan(&exists); err != nil {
		return nil, errs.NewPersistenceError("get order transitions", err)
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	rows, err := db.Raw(`
		SELECT
			id,
			from_status,
			to_status,
			actor_id,
			actor_role,
			reason,
			occurred_at
		FROM order_transitions
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, orderID).Rows()
	if err != nil {
		return nil, errs.NewPersistenceError("get order transitions", err)
	}
	defer rows.Close()

	transitions := make([]OrderTransitionView, 0)
	for rows.Next() {
		var (
			view    OrderTransitionView
			id      uuid.UUID
			actorID uuid.NullUUID
		)

		if err = rows.Scan(
			&id,
			&view.FromStatus,
			&view.ToStatus,
			&actorID,
			&view.ActorRole,
			&view.Reason,
			&view.OccurredAt,
		); err != nil {
			return nil, errs.NewPersistenceError("scan order transition", err)
		}

		if err = scanID(&view.ID, id); err != nil {
			return nil, err
		}
		if actorID.Valid {
			var actor kernel.UUID
			if err = scanID(&actor, actorID.UUID); err != nil {
				return nil, err
			}
			view.ActorID = &actor
		}

		transitions = append(transitions, view)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewPersistenceError("get order transitions", err)
	}

	return transitions, nil
}
