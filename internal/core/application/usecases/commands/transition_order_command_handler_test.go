package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTransitionHandler(t *testing.T, factory commands.FulfillmentUoWFactory) commands.TransitionOrderCommandHandler {
	t.Helper()
	calculator, err := services.NewSettlementCalculator(services.DefaultRates())
	require.NoError(t, err)
	return commands.NewTransitionOrderCommandHandler(factory, calculator, services.NewPayoutPlanner("USD"))
}

func TestTransitionOrderCommandHandler_Handle_DeliveredRecordsPayouts(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	inTransit := p.inTransitOrder(t)
	cmd, err := commands.NewTransitionOrderCommand(inTransit.ID(), order.Delivered, mustActor(t, p.worker, order.RoleWorker), "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	payoutRepo := new(MockPayoutRepository)
	uow := new(MockUoW)
	factory := new(MockFulfillmentUoWFactory)

	var recorded []*payout.Payout
	collect := func(args mock.Arguments) {
		recorded = append(recorded, args.Get(1).(*payout.Payout))
	}

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, inTransit.ID()).Return(inTransit, nil).Once(),
		orderRepo.On("ApplyTransition", ctx, inTransit, mock.MatchedBy(func(tr order.Transition) bool {
			return tr.From == order.InTransit && tr.To == order.Delivered
		})).Return(nil).Once(),
		uow.On("PayoutRepository").Return(payoutRepo).Once(),
		payoutRepo.On("AddIfAbsent", ctx, mock.Anything).Run(collect).Return(nil, true, nil).Twice(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := newTransitionHandler(t, factory)
	delivered, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, delivered.Status())
	require.Len(t, recorded, 2)

	restaurant := recorded[0].Snapshot()
	assert.Equal(t, services.RestaurantPayoutID(inTransit.ID()), restaurant.ID)
	assert.Equal(t, p.restaurant, restaurant.RecipientID)
	assert.Equal(t, "40.75", restaurant.Amount.String())

	worker := recorded[1].Snapshot()
	assert.Equal(t, services.WorkerPayoutID(inTransit.ID()), worker.ID)
	assert.Equal(t, p.worker, worker.RecipientID)
	assert.Equal(t, "6.50", worker.Amount.String())

	orderRepo.AssertExpectations(t)
	payoutRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_PartnerReplayIsNoop(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	failed := p.inTransitOrder(t)
	_, err := failed.Transition(order.DeliveryFailed, order.PartnerActor(), "customer absent", failed.Snapshot().CreatedAt)
	require.NoError(t, err)

	cmd, err := commands.NewPartnerDeliveryCommand(failed.ID(), order.DeliveryFailed, "customer absent")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockFulfillmentUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, failed.ID()).Return(failed, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := newTransitionHandler(t, factory)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.DeliveryFailed, result.Status())
	orderRepo.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestTransitionOrderCommandHandler_Handle_Rejections(t *testing.T) {
	p := newParties()

	tests := []struct {
		name  string
		to    order.Status
		actor func(t *testing.T) order.Actor
		want  error
	}{
		{
			name:  "other_worker_cannot_deliver",
			to:    order.Delivered,
			actor: func(t *testing.T) order.Actor { return mustActor(t, kernel.NewUUID(), order.RoleWorker) },
			want:  order.ErrActorNotPermitted,
		},
		{
			name:  "customer_cannot_cancel_in_transit",
			to:    order.Cancelled,
			actor: func(t *testing.T) order.Actor { return mustActor(t, p.customer, order.RoleCustomer) },
			want:  order.ErrActorNotPermitted,
		},
		{
			name:  "ready_for_pickup_from_in_transit_is_stale",
			to:    order.ReadyForPickup,
			actor: func(t *testing.T) order.Actor { return mustActor(t, kernel.NewUUID(), order.RoleAdministrator) },
			want:  errs.ErrStaleState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			inTransit := p.inTransitOrder(t)
			cmd, err := commands.NewTransitionOrderCommand(inTransit.ID(), tt.to, tt.actor(t), "")
			require.NoError(t, err)

			orderRepo := new(MockOrderRepository)
			uow := new(MockUoW)
			factory := new(MockFulfillmentUoWFactory)

			mock.InOrder(
				factory.On("Create").Return(uow).Once(),
				uow.On("Begin", ctx).Return(nil).Once(),
				uow.On("OrderRepository").Return(orderRepo).Once(),
				orderRepo.On("Get", ctx, inTransit.ID()).Return(inTransit, nil).Once(),
				uow.On("Rollback", ctx).Return(nil).Once(),
			)

			handler := newTransitionHandler(t, factory)
			_, err = handler.Handle(ctx, cmd)

			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, order.InTransit, inTransit.Status())
			uow.AssertNotCalled(t, "Commit", ctx)
		})
	}
}

func TestTransitionOrderCommandHandler_Handle_ConcurrentWriteIsStale(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	ready := p.readyOrder(t)
	cmd, err := commands.NewTransitionOrderCommand(ready.ID(), order.Cancelled, mustActor(t, p.customer, order.RoleCustomer), "changed my mind")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockFulfillmentUoWFactory)

	stale := errs.NewStaleStateError("order", ready.ID(), order.ReadyForPickup.String())
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, ready.ID()).Return(ready, nil).Once(),
		orderRepo.On("ApplyTransition", ctx, ready, mock.Anything).Return(stale).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := newTransitionHandler(t, factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrStaleState)
	uow.AssertNotCalled(t, "PayoutRepository")
}
