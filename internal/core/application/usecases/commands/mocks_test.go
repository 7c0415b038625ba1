package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ApplyTransition(ctx context.Context, o *order.Order, tr order.Transition) error {
	args := m.Called(ctx, o, tr)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdatePaymentStatus(ctx context.Context, o *order.Order, from order.PaymentStatus) error {
	args := m.Called(ctx, o, from)
	return args.Error(0)
}

type MockPromoCodeRepository struct{ mock.Mock }

func (m *MockPromoCodeRepository) Add(ctx context.Context, p *promo.PromoCode) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPromoCodeRepository) GetByCode(ctx context.Context, code string) (*promo.PromoCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promo.PromoCode), args.Error(1)
}

func (m *MockPromoCodeRepository) HasRedemption(ctx context.Context, promoCodeID, userID kernel.UUID) (bool, error) {
	args := m.Called(ctx, promoCodeID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPromoCodeRepository) FindRedemptionByOrder(ctx context.Context, orderID kernel.UUID) (*promo.Redemption, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promo.Redemption), args.Error(1)
}

func (m *MockPromoCodeRepository) Redeem(ctx context.Context, p *promo.PromoCode, r *promo.Redemption) error {
	args := m.Called(ctx, p, r)
	return args.Error(0)
}

type MockPayoutRepository struct{ mock.Mock }

func (m *MockPayoutRepository) AddIfAbsent(ctx context.Context, p *payout.Payout) (*payout.Payout, bool, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*payout.Payout), args.Bool(1), args.Error(2)
}

func (m *MockPayoutRepository) Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.Payout), args.Error(1)
}

func (m *MockPayoutRepository) ApplyStatus(ctx context.Context, p *payout.Payout, from payout.Status) error {
	args := m.Called(ctx, p, from)
	return args.Error(0)
}

func (m *MockPayoutRepository) ListPending(ctx context.Context, limit int) ([]*payout.Payout, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payout.Payout), args.Error(1)
}

// MockUoW satisfies every narrowed unit of work interface.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) PromoCodeRepository() ports.PromoCodeRepository {
	args := m.Called()
	return args.Get(0).(ports.PromoCodeRepository)
}

func (m *MockUoW) PayoutRepository() ports.PayoutRepository {
	args := m.Called()
	return args.Get(0).(ports.PayoutRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPromoUoWFactory struct{ mock.Mock }

func (m *MockPromoUoWFactory) Create() commands.PromoUoW {
	args := m.Called()
	return args.Get(0).(commands.PromoUoW)
}

type MockCheckoutUoWFactory struct{ mock.Mock }

func (m *MockCheckoutUoWFactory) Create() commands.CheckoutUoW {
	args := m.Called()
	return args.Get(0).(commands.CheckoutUoW)
}

type MockPayoutUoWFactory struct{ mock.Mock }

func (m *MockPayoutUoWFactory) Create() commands.PayoutUoW {
	args := m.Called()
	return args.Get(0).(commands.PayoutUoW)
}

type MockFulfillmentUoWFactory struct{ mock.Mock }

func (m *MockFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	args := m.Called()
	return args.Get(0).(commands.FulfillmentUoW)
}

type MockPaymentRail struct{ mock.Mock }

func (m *MockPaymentRail) SubmitPayout(ctx context.Context, instruction ports.PayoutInstruction) (string, error) {
	args := m.Called(ctx, instruction)
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func mustActor(t *testing.T, id kernel.UUID, role order.Role) order.Actor {
	t.Helper()
	a, err := order.NewActor(id, role)
	require.NoError(t, err)
	return a
}

// parties holds the ids an order fixture is built around.
type parties struct {
	customer   kernel.UUID
	restaurant kernel.UUID
	worker     kernel.UUID
}

func newParties() parties {
	return parties{customer: kernel.NewUUID(), restaurant: kernel.NewUUID(), worker: kernel.NewUUID()}
}

func (p parties) pendingOrder(t *testing.T, total, tip string) *order.Order {
	t.Helper()
	pricing, err := order.NewPricing(mustMoney(t, total), kernel.ZeroMoney(), mustMoney(t, tip), "")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), p.customer, p.restaurant, pricing, time.Now())
	require.NoError(t, err)
	return o
}

// promoOrder is a pending order priced with a promo code.
func (p parties) promoOrder(t *testing.T, total, discount, code string) *order.Order {
	t.Helper()
	pricing, err := order.NewPricing(mustMoney(t, total), mustMoney(t, discount), kernel.ZeroMoney(), code)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), p.customer, p.restaurant, pricing, time.Now())
	require.NoError(t, err)
	return o
}

func (p parties) readyOrder(t *testing.T) *order.Order {
	t.Helper()
	o := p.pendingOrder(t, "50.00", "2.50")
	_, err := o.Transition(order.ReadyForPickup, mustActor(t, p.restaurant, order.RoleRestaurant), "", time.Now())
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func (p parties) inTransitOrder(t *testing.T) *order.Order {
	t.Helper()
	o := p.readyOrder(t)
	worker := mustActor(t, p.worker, order.RoleWorker)

	_, err := o.Assign(p.worker, time.Now())
	require.NoError(t, err)
	_, err = o.Transition(order.PickedUp, worker, "", time.Now())
	require.NoError(t, err)
	_, err = o.Transition(order.InTransit, worker, "", time.Now())
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func pendingPayout(t *testing.T, amount string) *payout.Payout {
	t.Helper()
	p, err := payout.NewPayout(kernel.NewUUID(), kernel.NewUUID(), payout.RecipientWorker, mustMoney(t, amount), "USD", nil, time.Now())
	require.NoError(t, err)
	return p
}
