package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetAvailableOrdersQueryHandler reads claimable orders with direct SQL.
type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

// Handle returns at most query.Limit() orders. An empty result is an empty slice.
func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) ([]AvailableOrder, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]AvailableOrder, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			restaurant_id,
			total_amount,
			discount_amount,
			tip_amount,
			promo_code,
			created_at
		FROM orders
		WHERE status = ?
		ORDER BY created_at, id
		LIMIT ?
	`, order.ReadyForPickup.String(), query.Limit()).Rows()
	if err != nil {
		return nil, errs.NewPersistenceError("get available orders", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			view                         AvailableOrder
			id, customerID, restaurantID uuid.UUID
			total, discount, tip         decimal.Decimal
		)

		if err = rows.Scan(
			&id,
			&customerID,
			&restaurantID,
			&total,
			&discount,
			&tip,
			&view.PromoCode,
			&view.CreatedAt,
		); err != nil {
			return nil, errs.NewPersistenceError("scan available order", err)
		}

		if err = errors.Join(
			scanID(&view.ID, id),
			scanID(&view.CustomerID, customerID),
			scanID(&view.RestaurantID, restaurantID),
		); err != nil {
			return nil, err
		}
		view.TotalAmount = kernel.RoundMoney(total)
		view.DiscountAmount = kernel.RoundMoney(discount)
		view.TipAmount = kernel.RoundMoney(tip)

		orders = append(orders, view)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewPersistenceError("get available orders", err)
	}

	return orders, nil
}
