// Package payoutrepo persists payouts.
package payoutrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutDTO is the row shape of payouts. The payout id is caller-chosen and
// doubles as the idempotency key.
type PayoutDTO struct {
	ID            uuid.UUID       `gorm:"column:payout_id;type:uuid;primaryKey"`
	RecipientID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	RecipientType string          `gorm:"type:varchar(16);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency      string          `gorm:"type:char(3);not null"`
	Status        string          `gorm:"type:varchar(16);not null;index:idx_payouts_status_created,priority:1"`
	FailureReason string          `gorm:"type:text;not null;default:''"`
	OrderID       *uuid.UUID      `gorm:"type:uuid;index"`
	RailReference string          `gorm:"type:varchar(128);not null;default:''"`
	CreatedAt     time.Time       `gorm:"not null;index:idx_payouts_status_created,priority:2"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

func (PayoutDTO) TableName() string {
	return "payouts"
}

func fromDomain(aggregate *payout.Payout) PayoutDTO {
	state := aggregate.Snapshot()

	var orderID *uuid.UUID
	if state.OrderID != nil {
		raw := state.OrderID.Bytes()
		orderID = &raw
	}

	return PayoutDTO{
		ID:            state.ID.Bytes(),
		RecipientID:   state.RecipientID.Bytes(),
		RecipientType: state.RecipientType.String(),
		Amount:        state.Amount.Amount(),
		Currency:      state.Currency,
		Status:        state.Status.String(),
		FailureReason: state.FailureReason,
		OrderID:       orderID,
		RailReference: state.RailReference,
		CreatedAt:     state.CreatedAt,
		UpdatedAt:     state.UpdatedAt,
	}
}

func toDomain(dto PayoutDTO) (*payout.Payout, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}
	recipientType, err := payout.ParseRecipientType(dto.RecipientType)
	if err != nil {
		return nil, err
	}
	status, err := payout.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	return payout.RestorePayout(payout.State{
		ID:            id,
		RecipientID:   recipientID,
		RecipientType: recipientType,
		Amount:        amount,
		Currency:      dto.Currency,
		Status:        status,
		FailureReason: dto.FailureReason,
		OrderID:       orderID,
		RailReference: dto.RailReference,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
	})
}
