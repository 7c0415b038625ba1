package payout_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 7, 2, 9, 0, 0, 0, time.UTC)

func newPayout(t *testing.T) *payout.Payout {
	t.Helper()
	amount, _ := kernel.MoneyFromString("42.15")
	p, err := payout.NewPayout(kernel.NewUUID(), kernel.NewUUID(), payout.RecipientRestaurant, amount, "usd", nil, now)
	require.NoError(t, err)
	return p
}

func TestNewPayout(t *testing.T) {
	t.Run("creates_pending_payout", func(t *testing.T) {
		p := newPayout(t)

		require.NoError(t, p.Validate())
		assert.Equal(t, payout.Pending, p.Status())
		assert.Equal(t, "USD", p.Snapshot().Currency)
		require.Len(t, p.DomainEvents(), 1)
		assert.Equal(t, "payout.requested", p.DomainEvents()[0].EventName())
	})

	t.Run("rejects_invalid_input", func(t *testing.T) {
		_, err := payout.NewPayout(kernel.UUID{}, kernel.NewUUID(), payout.RecipientWorker, kernel.ZeroMoney(), "EURO", nil, now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestPayout_Lifecycle(t *testing.T) {
	t.Run("pending_processing_completed", func(t *testing.T) {
		p := newPayout(t)

		changed, err := p.MarkProcessing(now)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = p.MarkCompleted("rail-991", now.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, payout.Completed, p.Status())
		assert.Equal(t, "rail-991", p.Snapshot().RailReference)
	})

	t.Run("repeated_event_is_noop", func(t *testing.T) {
		p := newPayout(t)
		_, _ = p.MarkProcessing(now)
		events := len(p.DomainEvents())

		changed, err := p.MarkProcessing(now.Add(time.Hour))

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Len(t, p.DomainEvents(), events)
		assert.Equal(t, now, p.Snapshot().UpdatedAt)
	})

	t.Run("completed_cannot_fail", func(t *testing.T) {
		p := newPayout(t)
		_, _ = p.MarkProcessing(now)
		_, _ = p.MarkCompleted("", now)

		_, err := p.MarkFailed("chargeback", now)

		var stale *errs.StaleStateError
		require.ErrorAs(t, err, &stale)
		assert.Equal(t, "pending|processing", stale.Expected)
		assert.Equal(t, payout.Completed, p.Status())
	})

	t.Run("pending_cannot_complete", func(t *testing.T) {
		p := newPayout(t)

		_, err := p.MarkCompleted("", now)

		assert.ErrorIs(t, err, errs.ErrStaleState)
	})

	t.Run("failure_needs_reason", func(t *testing.T) {
		p := newPayout(t)

		_, err := p.MarkFailed(" ", now)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)

		changed, err := p.MarkFailed("account closed", now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "account closed", p.Snapshot().FailureReason)
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, payout.Pending.CanTransitionTo(payout.Processing))
	assert.True(t, payout.Pending.CanTransitionTo(payout.Failed))
	assert.False(t, payout.Processing.CanTransitionTo(payout.Pending))
	assert.False(t, payout.Failed.CanTransitionTo(payout.Completed))
	assert.True(t, payout.Completed.IsTerminal())
}

func TestRestorePayout(t *testing.T) {
	p := newPayout(t)

	restored, err := payout.RestorePayout(p.Snapshot())

	require.NoError(t, err)
	assert.Equal(t, p.Snapshot(), restored.Snapshot())
	assert.Empty(t, restored.DomainEvents())
}
