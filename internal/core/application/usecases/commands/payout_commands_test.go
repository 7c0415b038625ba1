package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRequestPayoutCommandHandler_Handle_ReturnsStoredPayout(t *testing.T) {
	ctx := t.Context()
	earlier := pendingPayout(t, "12.00")
	cmd, err := commands.NewRequestPayoutCommand(
		earlier.ID(), kernel.NewUUID(), payout.RecipientRestaurant, mustMoney(t, "99.00"), "eur", nil,
	)
	require.NoError(t, err)

	payoutRepo := new(MockPayoutRepository)
	uow := new(MockUoW)
	factory := new(MockPayoutUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PayoutRepository").Return(payoutRepo).Once(),
		payoutRepo.On("AddIfAbsent", ctx, mock.AnythingOfType("*payout.Payout")).Return(earlier, false, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewRequestPayoutCommandHandler(factory)
	stored, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Same(t, earlier, stored)
	assert.Equal(t, "12.00", stored.Amount().String())
	uow.AssertExpectations(t)
}

func TestRequestPayoutCommandHandler_Handle_InvalidAmount(t *testing.T) {
	cmd, err := commands.NewRequestPayoutCommand(
		kernel.NewUUID(), kernel.NewUUID(), payout.RecipientWorker, kernel.ZeroMoney(), "USD", nil,
	)
	require.NoError(t, err)

	factory := new(MockPayoutUoWFactory)
	handler := commands.NewRequestPayoutCommandHandler(factory)
	_, err = handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	factory.AssertNotCalled(t, "Create")
}

func TestNewRecordPaymentEventCommand(t *testing.T) {
	tests := []struct {
		name      string
		eventType commands.PaymentEventType
		outcome   string
		wantErr   error
	}{
		{"order_succeeded", commands.OrderPaymentEvent, "succeeded", nil},
		{"order_refunded", commands.OrderPaymentEvent, "refunded", nil},
		{"order_unknown_outcome", commands.OrderPaymentEvent, "paid", errs.ErrValueIsInvalid},
		{"payout_completed", commands.PayoutStatusEvent, "completed", nil},
		{"payout_back_to_pending", commands.PayoutStatusEvent, "pending", errs.ErrValueIsInvalid},
		{"unsupported_type", commands.PaymentEventType("charge.dispute"), "opened", errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := commands.NewRecordPaymentEventCommand(tt.eventType, kernel.NewUUID(), tt.outcome, "", "")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, cmd.Validate())
		})
	}

	cmd, err := commands.NewRecordPaymentEventCommand(commands.OrderPaymentEvent, kernel.NewUUID(), "failed", "", "")
	require.NoError(t, err)
	assert.Equal(t, order.PaymentFailed, cmd.PaymentStatus())
}

func TestRecordPaymentEventCommandHandler_Handle_OrderPayment(t *testing.T) {
	t.Run("applies_outcome", func(t *testing.T) {
		ctx := t.Context()
		o := newParties().pendingOrder(t, "18.00", "0.00")
		cmd, err := commands.NewRecordPaymentEventCommand(commands.OrderPaymentEvent, o.ID(), "succeeded", "", "")
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockFulfillmentUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			orderRepo.On("UpdatePaymentStatus", ctx, o, order.PaymentPending).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		handler := commands.NewRecordPaymentEventCommandHandler(factory)
		applied, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
		uow.AssertExpectations(t)
	})

	t.Run("redelivery_is_noop", func(t *testing.T) {
		ctx := t.Context()
		o := newParties().pendingOrder(t, "18.00", "0.00")
		_, err := o.ApplyPaymentOutcome(order.PaymentPaid, o.Snapshot().CreatedAt)
		require.NoError(t, err)
		cmd, _ := commands.NewRecordPaymentEventCommand(commands.OrderPaymentEvent, o.ID(), "succeeded", "", "")

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockFulfillmentUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		handler := commands.NewRecordPaymentEventCommandHandler(factory)
		applied, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.False(t, applied)
		orderRepo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", ctx)
	})

	t.Run("refund_before_payment_is_stale", func(t *testing.T) {
		ctx := t.Context()
		o := newParties().pendingOrder(t, "18.00", "0.00")
		cmd, _ := commands.NewRecordPaymentEventCommand(commands.OrderPaymentEvent, o.ID(), "refunded", "", "")

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockFulfillmentUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		handler := commands.NewRecordPaymentEventCommandHandler(factory)
		_, err := handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrStaleState)
	})
}

func TestRecordPaymentEventCommandHandler_Handle_PayoutStatus(t *testing.T) {
	ctx := t.Context()
	p := pendingPayout(t, "30.00")
	_, err := p.MarkProcessing(p.Snapshot().CreatedAt)
	require.NoError(t, err)
	cmd, err := commands.NewRecordPaymentEventCommand(commands.PayoutStatusEvent, p.ID(), "failed", "account closed", "")
	require.NoError(t, err)

	payoutRepo := new(MockPayoutRepository)
	uow := new(MockUoW)
	factory := new(MockFulfillmentUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PayoutRepository").Return(payoutRepo).Once(),
		payoutRepo.On("Get", ctx, p.ID()).Return(p, nil).Once(),
		payoutRepo.On("ApplyStatus", ctx, p, payout.Processing).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewRecordPaymentEventCommandHandler(factory)
	applied, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, payout.Failed, p.Status())
	assert.Equal(t, "account closed", p.Snapshot().FailureReason)
	payoutRepo.AssertExpectations(t)
}

func TestNewSubmitPayoutsCommand(t *testing.T) {
	_, err := commands.NewSubmitPayoutsCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	cmd, err := commands.NewSubmitPayoutsCommand(50)
	require.NoError(t, err)
	assert.Equal(t, 50, cmd.BatchSize())
}

func TestSubmitPayoutsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	accepted := pendingPayout(t, "10.00")
	rejected := pendingPayout(t, "20.00")
	claimedElsewhere := pendingPayout(t, "30.00")
	cmd, err := commands.NewSubmitPayoutsCommand(10)
	require.NoError(t, err)

	payoutRepo := new(MockPayoutRepository)
	uow := new(MockUoW)
	factory := new(MockPayoutUoWFactory)
	rail := new(MockPaymentRail)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("PayoutRepository").Return(payoutRepo)

	forPayout := func(p *payout.Payout) any {
		return mock.MatchedBy(func(instr ports.PayoutInstruction) bool { return instr.PayoutID == p.ID() })
	}

	payoutRepo.On("ListPending", ctx, 10).Return([]*payout.Payout{accepted, rejected, claimedElsewhere}, nil).Once()

	payoutRepo.On("ApplyStatus", ctx, accepted, payout.Pending).Return(nil).Once()
	rail.On("SubmitPayout", ctx, forPayout(accepted)).Return("rail-77", nil).Once()
	payoutRepo.On("ApplyStatus", ctx, accepted, payout.Processing).Return(nil).Once()

	payoutRepo.On("ApplyStatus", ctx, rejected, payout.Pending).Return(nil).Once()
	rail.On("SubmitPayout", ctx, forPayout(rejected)).
		Return("", errs.NewExternalRailError("transfers", errors.New("invalid account"))).Once()
	payoutRepo.On("ApplyStatus", ctx, rejected, payout.Processing).Return(nil).Once()

	payoutRepo.On("ApplyStatus", ctx, claimedElsewhere, payout.Pending).
		Return(errs.NewStaleStateError("payout", claimedElsewhere.ID(), "pending")).Once()

	handler := commands.NewSubmitPayoutsCommandHandler(factory, rail, discardLogger())
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.SubmitPayoutsResult{Submitted: 1, Failed: 1, Skipped: 1}, result)

	assert.Equal(t, payout.Processing, accepted.Status())
	assert.Equal(t, "rail-77", accepted.Snapshot().RailReference)

	assert.Equal(t, payout.Failed, rejected.Status())
	assert.Contains(t, rejected.Snapshot().FailureReason, "invalid account")

	rail.AssertNumberOfCalls(t, "SubmitPayout", 2)
	payoutRepo.AssertExpectations(t)
	rail.AssertExpectations(t)
}

func TestSubmitPayoutsCommandHandler_Handle_ListError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewSubmitPayoutsCommand(5)

	payoutRepo := new(MockPayoutRepository)
	uow := new(MockUoW)
	factory := new(MockPayoutUoWFactory)
	rail := new(MockPaymentRail)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("PayoutRepository").Return(payoutRepo).Once(),
		payoutRepo.On("ListPending", ctx, 5).Return(nil, errs.NewPersistenceError("list pending payouts", errors.New("timeout"))).Once(),
	)

	handler := commands.NewSubmitPayoutsCommandHandler(factory, rail, discardLogger())
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrPersistence)
	rail.AssertNotCalled(t, "SubmitPayout", mock.Anything, mock.Anything)
}
