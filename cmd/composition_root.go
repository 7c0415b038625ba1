package cmd

import (
	"log/slog"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	rail       ports.PaymentRail
	calculator services.SettlementCalculator
	planner    services.PayoutPlanner
	logger     *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	rail ports.PaymentRail,
	logger *slog.Logger,
) (CompositionRoot, error) {
	calculator, err := services.NewSettlementCalculator(config.Rates)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		rail:       rail,
		calculator: calculator,
		planner:    services.NewPayoutPlanner(config.Currency),
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) promoUoWFactory() commands.PromoUoWFactory {
	return FuncPromoUoWFactory(func() commands.PromoUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) checkoutUoWFactory() commands.CheckoutUoWFactory {
	return FuncCheckoutUoWFactory(func() commands.CheckoutUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) payoutUoWFactory() commands.PayoutUoWFactory {
	return FuncPayoutUoWFactory(func() commands.PayoutUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.checkoutUoWFactory())
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.fulfillmentUoWFactory(), c.calculator, c.planner)
}

func (c *CompositionRoot) CreateCreatePromoCodeCommandHandler() commands.CreatePromoCodeCommandHandler {
	return commands.NewCreatePromoCodeCommandHandler(c.promoUoWFactory())
}

func (c *CompositionRoot) CreateRedeemPromoCommandHandler() commands.RedeemPromoCommandHandler {
	return commands.NewRedeemPromoCommandHandler(c.checkoutUoWFactory())
}

func (c *CompositionRoot) CreateRequestPayoutCommandHandler() commands.RequestPayoutCommandHandler {
	return commands.NewRequestPayoutCommandHandler(c.payoutUoWFactory())
}

func (c *CompositionRoot) CreateRecordPaymentEventCommandHandler() commands.RecordPaymentEventCommandHandler {
	return commands.NewRecordPaymentEventCommandHandler(c.fulfillmentUoWFactory())
}

func (c *CompositionRoot) CreateSubmitPayoutsCommandHandler() commands.SubmitPayoutsCommandHandler {
	return commands.NewSubmitPayoutsCommandHandler(c.payoutUoWFactory(), c.rail, c.logger)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderTransitionsQueryHandler() queries.GetOrderTransitionsQueryHandler {
	return queries.NewGetOrderTransitionsQueryHandler(c.gormDB)
}

// Readers come from a unit of work that never begins a transaction, so they
// read through the shared connection pool.
func (c *CompositionRoot) CreateValidatePromoQueryHandler() queries.ValidatePromoQueryHandler {
	return queries.NewValidatePromoQueryHandler(c.uowFactory.Create().PromoCodeRepository())
}

func (c *CompositionRoot) CreateSettleOrderQueryHandler() queries.SettleOrderQueryHandler {
	return queries.NewSettleOrderQueryHandler(c.uowFactory.Create().OrderRepository(), c.calculator)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		ClaimOrder:         c.CreateClaimOrderCommandHandler(),
		TransitionOrder:    c.CreateTransitionOrderCommandHandler(),
		CreatePromoCode:    c.CreateCreatePromoCodeCommandHandler(),
		RedeemPromo:        c.CreateRedeemPromoCommandHandler(),
		RequestPayout:      c.CreateRequestPayoutCommandHandler(),
		RecordPaymentEvent: c.CreateRecordPaymentEventCommandHandler(),
		AvailableOrders:    c.CreateGetAvailableOrdersQueryHandler(),
		OrderTransitions:   c.CreateGetOrderTransitionsQueryHandler(),
		ValidatePromo:      c.CreateValidatePromoQueryHandler(),
		SettleOrder:        c.CreateSettleOrderQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSubmitPayoutsCommandHandler(),
		c.config.PayoutSchedule,
		c.config.PayoutBatchSize,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPromoUoWFactory func() commands.PromoUoW

func (f FuncPromoUoWFactory) Create() commands.PromoUoW {
	return f()
}

type FuncCheckoutUoWFactory func() commands.CheckoutUoW

func (f FuncCheckoutUoWFactory) Create() commands.CheckoutUoW {
	return f()
}

type FuncPayoutUoWFactory func() commands.PayoutUoW

func (f FuncPayoutUoWFactory) Create() commands.PayoutUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}
