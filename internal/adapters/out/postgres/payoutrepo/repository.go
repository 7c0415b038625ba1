package payoutrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPayoutRepository implements ports.PayoutRepository using GORM.
type GormPayoutRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPayoutRepository(db *gorm.DB, tracker aggregateTracker) *GormPayoutRepository {
	return &GormPayoutRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddIfAbsent inserts with ON CONFLICT DO NOTHING and reads the row back, so
// the first payload recorded for a payout id always wins.
func (r *GormPayoutRepository) AddIfAbsent(ctx context.Context, aggregate *payout.Payout) (*payout.Payout, bool, error) {
	if err := aggregate.Validate(); err != nil {
		return nil, false, err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
	if result.Error != nil {
		return nil, false, pgerrs.Persistence("add payout", result.Error)
	}

	if result.RowsAffected == 1 {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
		return aggregate, true, nil
	}

	stored, err := r.Get(ctx, aggregate.ID())
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

func (r *GormPayoutRepository) Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PayoutDTO
	if err := r.db.WithContext(ctx).First(&dto, "payout_id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payout", id.String())
		}
		return nil, pgerrs.Persistence("get payout", err)
	}

	return toDomain(dto)
}

// ApplyStatus writes status, failure reason and rail reference guarded by from.
func (r *GormPayoutRepository) ApplyStatus(ctx context.Context, aggregate *payout.Payout, from payout.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PayoutDTO{}).
		Where("payout_id = ? AND status = ?", dto.ID, from.String()).
		Updates(map[string]any{
			"status":         dto.Status,
			"failure_reason": dto.FailureReason,
			"rail_reference": dto.RailReference,
			"updated_at":     dto.UpdatedAt,
		})
	if result.Error != nil {
		return pgerrs.Persistence("apply payout status", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewStaleStateError("payout", aggregate.ID().String(), from.String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPayoutRepository) ListPending(ctx context.Context, limit int) ([]*payout.Payout, error) {
	var dtos []PayoutDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", payout.Pending.String()).
		Order("created_at, payout_id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, pgerrs.Persistence("list pending payouts", err)
	}

	payouts := make([]*payout.Payout, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}

	return payouts, nil
}
