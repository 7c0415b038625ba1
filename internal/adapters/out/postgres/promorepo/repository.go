package promorepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPromoCodeRepository implements ports.PromoCodeRepository using GORM.
type GormPromoCodeRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPromoCodeRepository(db *gorm.DB, tracker aggregateTracker) *GormPromoCodeRepository {
	return &GormPromoCodeRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPromoCodeRepository) Add(ctx context.Context, aggregate *promo.PromoCode) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := codeFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerrs.IsUniqueViolation(err, codeIndex) {
			return errs.NewObjectExistsErrorWithCause("code", aggregate.Code(), err)
		}
		if pgerrs.IsUniqueViolation(err, "") {
			return errs.NewObjectExistsErrorWithCause("promo_code", aggregate.ID().String(), err)
		}
		return pgerrs.Persistence("add promo code", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPromoCodeRepository) GetByCode(ctx context.Context, code string) (*promo.PromoCode, error) {
	normalized := promo.NormalizeCode(code)
	if normalized == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}

	var dto PromoCodeDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("code", normalized)
		}
		return nil, pgerrs.Persistence("get promo code", err)
	}

	return codeToDomain(dto)
}

func (r *GormPromoCodeRepository) HasRedemption(ctx context.Context, promoCodeID, userID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RedemptionDTO{}).
		Where("promo_code_id = ? AND user_id = ?", promoCodeID.Bytes(), userID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, pgerrs.Persistence("check promo redemption", err)
	}
	return count > 0, nil
}

func (r *GormPromoCodeRepository) FindRedemptionByOrder(ctx context.Context, orderID kernel.UUID) (*promo.Redemption, error) {
	var dto RedemptionDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("redemption for order", orderID.String())
		}
		return nil, pgerrs.Persistence("find promo redemption", err)
	}

	return redemptionToDomain(dto)
}

// Redeem inserts the redemption, then increments the usage counter with an
// UPDATE guarded by the limit and the active flag. Concurrent redemptions of
// the same code serialize on that row.
func (r *GormPromoCodeRepository) Redeem(
	ctx context.Context,
	aggregate *promo.PromoCode,
	redemption *promo.Redemption,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := redemptionFromDomain(redemption)
	inserted := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_id"}}, DoNothing: true}).
		Create(&dto)
	if inserted.Error != nil {
		if pgerrs.IsUniqueViolation(inserted.Error, singleUseIndex) {
			return promo.ErrAlreadyUsed
		}
		return pgerrs.Persistence("insert promo redemption", inserted.Error)
	}
	if inserted.RowsAffected == 0 {
		return ports.ErrOrderAlreadyRedeemed
	}

	incremented := r.db.WithContext(ctx).
		Model(&PromoCodeDTO{}).
		Where("id = ? AND is_active AND (usage_limit IS NULL OR current_usage < usage_limit)", aggregate.ID().Bytes()).
		UpdateColumn("current_usage", gorm.Expr("current_usage + 1"))
	if incremented.Error != nil {
		return pgerrs.Persistence("increment promo usage", incremented.Error)
	}
	if incremented.RowsAffected == 0 {
		return promo.ErrLimitReached
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}
