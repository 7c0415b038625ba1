package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func TestNewGetAvailableOrdersQuery(t *testing.T) {
	t.Run("zero_selects_default", func(t *testing.T) {
		query, err := queries.NewGetAvailableOrdersQuery(0)

		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.Equal(t, queries.DefaultAvailableOrdersLimit, query.Limit())
	})

	t.Run("rejects_out_of_range", func(t *testing.T) {
		for _, limit := range []int{-1, 501} {
			_, err := queries.NewGetAvailableOrdersQuery(limit)
			assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange, "limit %d", limit)
		}
	})

	t.Run("not_constructed_via_constructor", func(t *testing.T) {
		err := queries.GetAvailableOrdersQuery{}.Validate()
		assert.ErrorIs(t, err, queries.ErrGetAvailableOrdersQueryIsNotConstructed)
	})
}

func TestNewGetOrderTransitionsQuery(t *testing.T) {
	id := kernel.NewUUID()

	query, err := queries.NewGetOrderTransitionsQuery(id)
	require.NoError(t, err)
	assert.Equal(t, id, query.OrderID())

	_, err = queries.NewGetOrderTransitionsQuery(kernel.UUID{})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	assert.ErrorIs(t, queries.GetOrderTransitionsQuery{}.Validate(), queries.ErrGetOrderTransitionsQueryIsNotConstructed)
}

func TestNewValidatePromoQuery(t *testing.T) {
	t.Run("normalizes_code", func(t *testing.T) {
		query, err := queries.NewValidatePromoQuery(" save10 ", mustMoney(t, "20.00"), kernel.NewUUID(), kernel.NewUUID(), nil)

		require.NoError(t, err)
		assert.Equal(t, "SAVE10", query.Code())
		assert.Empty(t, query.CategoryIDs())
	})

	t.Run("joins_problems", func(t *testing.T) {
		_, err := queries.NewValidatePromoQuery("  ", kernel.ZeroMoney(), kernel.UUID{}, kernel.NewUUID(), nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "code")
		assert.Contains(t, err.Error(), "restaurant_id")
	})

	t.Run("not_constructed_via_constructor", func(t *testing.T) {
		assert.ErrorIs(t, queries.ValidatePromoQuery{}.Validate(), queries.ErrValidatePromoQueryIsNotConstructed)
	})
}

func TestNewSettleOrderQuery(t *testing.T) {
	_, err := queries.NewSettleOrderQuery(kernel.UUID{})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	assert.ErrorIs(t, queries.SettleOrderQuery{}.Validate(), queries.ErrSettleOrderQueryIsNotConstructed)
}
