package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dkarpov/bookstore/internal/catalog"
	"github.com/dkarpov/bookstore/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PolicyFor(t *testing.T) {
	assert.Equal(t, PolicyNormal, PolicyFor(false))
	assert.Equal(t, PolicyDiscounted, PolicyFor(true))
}

func Test_Policy_DisplayPrice(t *testing.T) {
	testCases := []struct {
		name     string
		policy   Policy
		price    int64
		expected int64
	}{
		{name: "normal keeps full price", policy: PolicyNormal, price: 2000, expected: 2000},
		{name: "discounted takes 10 percent off", policy: PolicyDiscounted, price: 2000, expected: 1800},
		{name: "discount rounds down", policy: PolicyDiscounted, price: 99, expected: 89},
		{name: "free stays free", policy: PolicyDiscounted, price: 0, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.policy.DisplayPrice(tc.price))
		})
	}
}

func Test_Policy_Labels(t *testing.T) {
	assert.Equal(t, "normal", PolicyNormal.Label())
	assert.Equal(t, "member discount", PolicyDiscounted.Label())
}

func Test_Policy_Sell_DelegatesToService(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inv := NewInventory(catalog.NewStore(), &mockPort{}, notify.NewNotifier(), "s3cret", logger)
	require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 5))

	// both policies share the same decrement path
	sold, err := PolicyNormal.Sell(ctx, inv, "Dune", 2)
	require.NoError(t, err)
	assert.True(t, sold)

	sold, err = PolicyDiscounted.Sell(ctx, inv, "Dune", 2)
	require.NoError(t, err)
	assert.True(t, sold)

	assert.Equal(t, int64(1), inv.CheckQuantity(ctx, "Dune"))
}
