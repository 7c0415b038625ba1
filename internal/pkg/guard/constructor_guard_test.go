package guard_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("ClaimOrderCommand must be created via NewClaimOrderCommand")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

// TestConstructorGuard_EmbeddedInCommand mirrors how commands embed the guard.
func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errNotConstructed := errors.New("payoutCommand must be created via newPayoutCommand")

	type payoutCommand struct {
		payoutID string
		amount   int64
		guard    guard.ConstructorGuard
	}

	newPayoutCommand := func(payoutID string, amount int64) (payoutCommand, error) {
		if payoutID == "" {
			return payoutCommand{}, errors.New("payout id is required")
		}
		if amount <= 0 {
			return payoutCommand{}, errors.New("amount must be positive")
		}
		return payoutCommand{payoutID: payoutID, amount: amount, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructor_built_command_is_valid", func(t *testing.T) {
		cmd, err := newPayoutCommand("p-1", 1050)

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errNotConstructed))
		assert.Equal(t, "p-1", cmd.payoutID)
	})

	t.Run("literal_command_is_rejected", func(t *testing.T) {
		cmd := payoutCommand{payoutID: "p-1", amount: -5}

		assert.Equal(t, errNotConstructed, cmd.guard.Validate(errNotConstructed))
	})

	t.Run("constructor_enforces_rules", func(t *testing.T) {
		_, err := newPayoutCommand("", 10)
		require.Error(t, err)

		_, err = newPayoutCommand("p-2", 0)
		require.Error(t, err)
	})
}

func TestConstructorGuard_CopiesKeepState(t *testing.T) {
	g := guard.NewConstructorGuard()
	copied := g

	require.NoError(t, g.Validate(nil))
	require.NoError(t, copied.Validate(nil))
}

func TestConstructorGuard_ConcurrentValidate(t *testing.T) {
	g := guard.NewConstructorGuard()
	done := make(chan struct{})

	for range 50 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 200 {
				assert.NoError(t, g.Validate(nil))
			}
		}()
	}

	for range 50 {
		<-done
	}
}

func BenchmarkConstructorGuard_Validate(b *testing.B) {
	g := guard.NewConstructorGuard()
	err := errors.New("not constructed")
	b.ResetTimer()
	for range b.N {
		_ = g.Validate(err)
	}
}
