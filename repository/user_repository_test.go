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

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("Create lowercases email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &models.User{Name: "Ada", Email: "Ada@Example.com", Password: "hash"}
		require.NoError(mt, repo.Create(ctx, u))
		assert.Equal(mt, "ada@example.com", u.Email)
		assert.False(mt, u.ID.IsZero())
	})

	mt.Run("Create duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(ctx, &models.User{Email: "ada@example.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("FindByEmail", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "ada@example.com"},
			{Key: "password", Value: "hash"},
		}))

		u, err := repo.FindByEmail(ctx, "ADA@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, u.ID)
		assert.Equal(mt, "hash", u.Password)
	})

	mt.Run("FindByEmail missing", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.users", mtest.FirstBatch))

		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
