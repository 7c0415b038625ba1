package postgres

import (
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/payoutrepo"
	"fulfillment/internal/adapters/out/postgres/promorepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.TransitionDTO{},
		&promorepo.PromoCodeDTO{},
		&promorepo.RedemptionDTO{},
		&payoutrepo.PayoutDTO{},
	)
}
