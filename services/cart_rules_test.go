package services

import (
	"errors"
	"testing"

	"storefront-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func product(stock int) *models.Product {
	return &models.Product{ID: primitive.NewObjectID(), Name: "Mug", Price: 5, Stock: stock}
}

func cartWith(items ...models.CartItem) *models.Cart {
	return &models.Cart{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID(), Items: items, Version: 1}
}

func TestAddToCart(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("nil cart creates single line", func(t *testing.T) {
		p := product(3)
		next, outcome, err := addToCart(nil, userID, p)
		require.NoError(t, err)
		assert.Equal(t, OutcomeCreated, outcome)
		assert.Equal(t, userID, next.UserID)
		assert.Equal(t, []models.CartItem{{ProductID: p.ID, Quantity: 1}}, next.Items)
	})

	t.Run("existing line merges", func(t *testing.T) {
		p := product(3)
		cart := cartWith(models.CartItem{ProductID: p.ID, Quantity: 2})
		next, outcome, err := addToCart(cart, userID, p)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUpdated, outcome)
		require.Len(t, next.Items, 1)
		assert.Equal(t, 3, next.Items[0].Quantity)
		assert.Equal(t, 2, cart.Items[0].Quantity, "input cart must not change")
	})

	t.Run("new line appends", func(t *testing.T) {
		a, b := product(3), product(3)
		cart := cartWith(models.CartItem{ProductID: a.ID, Quantity: 1})
		next, _, err := addToCart(cart, userID, b)
		require.NoError(t, err)
		require.Len(t, next.Items, 2)
		assert.Equal(t, b.ID, next.Items[1].ProductID)
		assert.Len(t, cart.Items, 1)
	})

	t.Run("at stock ceiling", func(t *testing.T) {
		p := product(2)
		cart := cartWith(models.CartItem{ProductID: p.ID, Quantity: 2})
		_, _, err := addToCart(cart, userID, p)
		require.ErrorIs(t, err, ErrStockExceeded)

		var stockErr *StockExceededError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 2, stockErr.Current)
		assert.Equal(t, 3, stockErr.Requested)
		assert.Equal(t, 2, stockErr.Available)
	})

	t.Run("zero stock rejects", func(t *testing.T) {
		_, _, err := addToCart(nil, userID, product(0))
		assert.ErrorIs(t, err, ErrStockExceeded)
	})
}

func TestSetQuantity(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	t.Run("sets exact quantity", func(t *testing.T) {
		cart := cartWith(models.CartItem{ProductID: a, Quantity: 1})
		next, outcome, err := setQuantity(cart, a, 4)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUpdated, outcome)
		assert.Equal(t, 4, next.Items[0].Quantity)
	})

	t.Run("zero removes line", func(t *testing.T) {
		cart := cartWith(models.CartItem{ProductID: a, Quantity: 1}, models.CartItem{ProductID: b, Quantity: 2})
		next, _, err := setQuantity(cart, a, 0)
		require.NoError(t, err)
		assert.Equal(t, []models.CartItem{{ProductID: b, Quantity: 2}}, next.Items)
	})

	t.Run("negative rejected", func(t *testing.T) {
		cart := cartWith(models.CartItem{ProductID: a, Quantity: 1})
		_, _, err := setQuantity(cart, a, -1)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("missing line", func(t *testing.T) {
		cart := cartWith(models.CartItem{ProductID: a, Quantity: 1})
		_, _, err := setQuantity(cart, b, 2)
		assert.ErrorIs(t, err, ErrLineItemNotFound)
	})
}

func TestIncrementDecrementItem(t *testing.T) {
	p := product(2)
	cart := cartWith(models.CartItem{ProductID: p.ID, Quantity: 1})

	next, _, err := incrementItem(cart, p)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Items[0].Quantity)

	_, _, err = incrementItem(next, p)
	assert.ErrorIs(t, err, ErrStockExceeded)

	_, _, err = incrementItem(cartWith(), p)
	assert.ErrorIs(t, err, ErrLineItemNotFound)

	down, _, err := decrementItem(next, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, down.Items[0].Quantity)

	gone, outcome, err := decrementItem(down, p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, OutcomeDeleted, outcome)
}

func TestRemoveFromCart(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	t.Run("keeps order of remaining lines", func(t *testing.T) {
		cart := cartWith(
			models.CartItem{ProductID: a, Quantity: 1},
			models.CartItem{ProductID: b, Quantity: 2},
			models.CartItem{ProductID: c, Quantity: 3},
		)
		next, outcome, err := removeFromCart(cart, b)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUpdated, outcome)
		assert.Equal(t, []models.CartItem{{ProductID: a, Quantity: 1}, {ProductID: c, Quantity: 3}}, next.Items)
		assert.Len(t, cart.Items, 3)
		assert.Equal(t, b, cart.Items[1].ProductID)
	})

	t.Run("last line deletes cart", func(t *testing.T) {
		cart := cartWith(models.CartItem{ProductID: a, Quantity: 1})
		next, outcome, err := removeFromCart(cart, a)
		require.NoError(t, err)
		assert.Nil(t, next)
		assert.Equal(t, OutcomeDeleted, outcome)
	})

	t.Run("missing line", func(t *testing.T) {
		cart := cartWith(models.CartItem{ProductID: a, Quantity: 1})
		_, _, err := removeFromCart(cart, b)
		assert.ErrorIs(t, err, ErrLineItemNotFound)
	})
}

func TestStockExceededErrorMessage(t *testing.T) {
	id := primitive.NewObjectID()
	err := &StockExceededError{ProductID: id, Current: 3, Requested: 4, Available: 3}
	assert.Contains(t, err.Error(), id.Hex())
	assert.Contains(t, err.Error(), "requested 4")
	assert.Contains(t, err.Error(), "stock available: 3")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "created", OutcomeCreated.String())
	assert.Equal(t, "updated", OutcomeUpdated.String())
	assert.Equal(t, "deleted", OutcomeDeleted.String())
}
