// Package promorepo persists promo codes and their redemptions.
package promorepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/promo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Index names matched when classifying unique violations.
const (
	codeIndex      = "idx_promo_codes_code"
	singleUseIndex = "idx_promo_redemptions_single_use"
)

// PromoCodeDTO is the row shape of promo_codes.
type PromoCodeDTO struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Code              string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_promo_codes_code"`
	DiscountType      string           `gorm:"type:varchar(16);not null"`
	DiscountValue     decimal.Decimal  `gorm:"type:numeric(14,4);not null"`
	MinOrderAmount    decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	MaxDiscountAmount *decimal.Decimal `gorm:"type:numeric(14,2)"`
	UsageLimit        *int
	PerUserLimit      int        `gorm:"not null"`
	ExpiryAt          *time.Time
	IsActive          bool       `gorm:"not null"`
	ApplicableScope   string     `gorm:"type:varchar(16);not null"`
	ScopeTargetID     *uuid.UUID `gorm:"type:uuid"`
	CurrentUsage      int        `gorm:"not null;check:chk_promo_codes_usage,usage_limit IS NULL OR current_usage <= usage_limit"`
	CreatedAt         time.Time  `gorm:"not null"`
}

func (PromoCodeDTO) TableName() string {
	return "promo_codes"
}

// RedemptionDTO is one append-only row of promo_redemptions. SingleUseKey holds
// the user id for single-use codes and is NULL otherwise, so the composite
// unique index only constrains single-use codes.
type RedemptionDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PromoCodeID    uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_promo_redemptions_single_use,priority:1"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_promo_redemptions_order"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	UsedAt         time.Time       `gorm:"not null"`
	SingleUseKey   *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_promo_redemptions_single_use,priority:2"`
}

func (RedemptionDTO) TableName() string {
	return "promo_redemptions"
}

func codeFromDomain(p *promo.PromoCode) PromoCodeDTO {
	def := p.Definition()

	var maxDiscount *decimal.Decimal
	if def.MaxDiscountAmount != nil {
		amount := def.MaxDiscountAmount.Amount()
		maxDiscount = &amount
	}

	return PromoCodeDTO{
		ID:                p.ID().Bytes(),
		Code:              def.Code,
		DiscountType:      def.DiscountType.String(),
		DiscountValue:     def.DiscountValue,
		MinOrderAmount:    def.MinOrderAmount.Amount(),
		MaxDiscountAmount: maxDiscount,
		UsageLimit:        def.UsageLimit,
		PerUserLimit:      def.PerUserLimit,
		ExpiryAt:          def.ExpiresAt,
		IsActive:          def.IsActive,
		ApplicableScope:   def.Scope.String(),
		ScopeTargetID:     optionalID(def.ScopeTargetID),
		CurrentUsage:      p.CurrentUsage(),
		CreatedAt:         p.CreatedAt(),
	}
}

func codeToDomain(dto PromoCodeDTO) (*promo.PromoCode, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	discountType, err := promo.ParseDiscountType(dto.DiscountType)
	if err != nil {
		return nil, err
	}
	scope, err := promo.ParseScope(dto.ApplicableScope)
	if err != nil {
		return nil, err
	}
	minOrder, err := kernel.NewMoney(dto.MinOrderAmount)
	if err != nil {
		return nil, err
	}

	var maxDiscount *kernel.Money
	if dto.MaxDiscountAmount != nil {
		m, moneyErr := kernel.NewMoney(*dto.MaxDiscountAmount)
		if moneyErr != nil {
			return nil, moneyErr
		}
		maxDiscount = &m
	}

	var target *kernel.UUID
	if dto.ScopeTargetID != nil {
		t, targetErr := kernel.UUIDFromBytes((*dto.ScopeTargetID)[:])
		if targetErr != nil {
			return nil, targetErr
		}
		target = &t
	}

	def := promo.Definition{
		Code:              dto.Code,
		DiscountType:      discountType,
		DiscountValue:     dto.DiscountValue,
		MinOrderAmount:    minOrder,
		MaxDiscountAmount: maxDiscount,
		UsageLimit:        dto.UsageLimit,
		PerUserLimit:      dto.PerUserLimit,
		ExpiresAt:         dto.ExpiryAt,
		IsActive:          dto.IsActive,
		Scope:             scope,
		ScopeTargetID:     target,
	}
	return promo.RestorePromoCode(id, def, dto.CurrentUsage, dto.CreatedAt)
}

func redemptionFromDomain(r *promo.Redemption) RedemptionDTO {
	return RedemptionDTO{
		ID:             r.ID().Bytes(),
		PromoCodeID:    r.PromoCodeID().Bytes(),
		UserID:         r.UserID().Bytes(),
		OrderID:        r.OrderID().Bytes(),
		DiscountAmount: r.DiscountAmount().Amount(),
		UsedAt:         r.UsedAt(),
		SingleUseKey:   optionalID(r.SingleUseKey()),
	}
}

func redemptionToDomain(dto RedemptionDTO) (*promo.Redemption, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.PromoCodeID, dto.UserID, dto.OrderID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	discount, err := kernel.NewMoney(dto.DiscountAmount)
	if err != nil {
		return nil, err
	}

	var key *kernel.UUID
	if dto.SingleUseKey != nil {
		k, keyErr := kernel.UUIDFromBytes((*dto.SingleUseKey)[:])
		if keyErr != nil {
			return nil, keyErr
		}
		key = &k
	}

	return promo.RestoreRedemption(ids[0], ids[1], ids[2], ids[3], discount, dto.UsedAt, key), nil
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
