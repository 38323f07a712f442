package repository

import (
	"context"
	"testing"

	"storefront-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCartRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	mt.Run("FindByUser decodes cart", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.carts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user_id", Value: userID},
			{Key: "items", Value: bson.A{
				bson.D{{Key: "product_id", Value: productID}, {Key: "quantity", Value: 2}},
			}},
			{Key: "version", Value: int64(4)},
		}))

		cart, err := repo.FindByUser(ctx, userID)
		require.NoError(mt, err)
		assert.Equal(mt, userID, cart.UserID)
		assert.Equal(mt, int64(4), cart.Version)
		require.Len(mt, cart.Items, 1)
		assert.Equal(mt, productID, cart.Items[0].ProductID)
		assert.Equal(mt, 2, cart.Items[0].Quantity)
	})

	mt.Run("FindByUser missing", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.carts", mtest.FirstBatch))

		_, err := repo.FindByUser(ctx, userID)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("Insert sets version one", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		cart := &models.Cart{UserID: userID, Items: []models.CartItem{{ProductID: productID, Quantity: 1}}}
		require.NoError(mt, repo.Insert(ctx, cart))
		assert.Equal(mt, int64(1), cart.Version)
		assert.False(mt, cart.ID.IsZero())
		assert.False(mt, cart.CreatedAt.IsZero())
	})

	mt.Run("Insert duplicate user is a conflict", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Insert(ctx, &models.Cart{UserID: userID})
		assert.ErrorIs(mt, err, ErrVersionConflict)
	})

	mt.Run("Replace bumps version", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		cart := &models.Cart{UserID: userID, Version: 3}
		require.NoError(mt, repo.Replace(ctx, cart, 3))
		assert.Equal(mt, int64(4), cart.Version)
	})

	mt.Run("Replace stale version", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		cart := &models.Cart{UserID: userID, Version: 3}
		err := repo.Replace(ctx, cart, 3)
		assert.ErrorIs(mt, err, ErrVersionConflict)
		assert.Equal(mt, int64(3), cart.Version)
	})

	mt.Run("DeleteIfVersion stale version", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.DeleteIfVersion(ctx, userID, 2)
		assert.ErrorIs(mt, err, ErrVersionConflict)
	})

	mt.Run("DeleteByUser", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.DeleteByUser(ctx, userID))
	})

	mt.Run("DeleteByUser missing", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.DeleteByUser(ctx, userID), ErrNotFound)
	})
}
