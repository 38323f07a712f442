package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-api/database"
	"storefront-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartRepository stores one cart document per user. Writes other than
// DeleteByUser are version-checked.
type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{
		collection: db.Collection(database.CartsCollection),
	}
}

func (r *CartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart for user %s: %w", userID.Hex(), err)
	}
	return &cart, nil
}

// Insert stores a new cart at version 1. A concurrent insert for the same user
// trips the unique user_id index and is reported as ErrVersionConflict.
func (r *CartRepository) Insert(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	cart.Version = 1
	cart.CreatedAt = now
	cart.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, cart); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrVersionConflict
		}
		return fmt.Errorf("insert cart for user %s: %w", cart.UserID.Hex(), err)
	}
	return nil
}

// Replace overwrites the cart only if the stored version still equals
// expectedVersion. On success cart.Version is expectedVersion+1.
func (r *CartRepository) Replace(ctx context.Context, cart *models.Cart, expectedVersion int64) error {
	next := *cart
	next.Version = expectedVersion + 1
	next.UpdatedAt = time.Now().UTC()

	filter := bson.M{"user_id": cart.UserID, "version": expectedVersion}
	res, err := r.collection.ReplaceOne(ctx, filter, next)
	if err != nil {
		return fmt.Errorf("replace cart for user %s: %w", cart.UserID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	*cart = next
	return nil
}

// DeleteIfVersion removes the cart only if it is still at expectedVersion.
func (r *CartRepository) DeleteIfVersion(ctx context.Context, userID primitive.ObjectID, expectedVersion int64) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "version": expectedVersion})
	if err != nil {
		return fmt.Errorf("delete cart for user %s: %w", userID.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

// DeleteByUser removes the user's cart unconditionally.
func (r *CartRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("delete cart for user %s: %w", userID.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
