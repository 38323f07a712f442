package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-api/logger"
	"storefront-api/models"
	"storefront-api/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProductFinder is the read side of the product catalog used by the cart.
type ProductFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

// CartStore persists one cart document per user.
type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Insert(ctx context.Context, cart *models.Cart) error
	Replace(ctx context.Context, cart *models.Cart, expectedVersion int64) error
	DeleteIfVersion(ctx context.Context, userID primitive.ObjectID, expectedVersion int64) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// EventPublisher publishes cart lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event models.CartEvent) error
}

// DefaultPublishTimeout bounds how long a committed mutation waits on the
// event publisher.
const DefaultPublishTimeout = 5 * time.Second

// CartResult is the outcome of a cart mutation. Cart is nil when the
// mutation deleted the cart.
type CartResult struct {
	Cart    *models.ResolvedCart
	Outcome Outcome
}

// transform computes the next cart from the stored one (nil if none).
type transform func(cart *models.Cart) (*models.Cart, Outcome, error)

// CartService enforces stock ceilings, merge-on-add and empty-cart deletion.
// Every mutation reads the cart, applies a pure transform and writes the
// result with a version check; on a version conflict the whole cycle is
// re-run, up to maxAttempts times.
type CartService struct {
	products       ProductFinder
	carts          CartStore
	events         EventPublisher
	maxAttempts    int
	publishTimeout time.Duration
}

func NewCartService(products ProductFinder, carts CartStore, events EventPublisher, maxAttempts int) *CartService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &CartService{
		products:       products,
		carts:          carts,
		events:         events,
		maxAttempts:    maxAttempts,
		publishTimeout: DefaultPublishTimeout,
	}
}

// AddItem adds one unit of productID to the user's cart, creating the cart on
// first use.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID) (*CartResult, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, productID, func(cart *models.Cart) (*models.Cart, Outcome, error) {
		return addToCart(cart, userID, product)
	})
}

// GetCart returns the user's cart with products resolved.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.ResolvedCart, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, cartNotFound(userID)
	}
	return s.resolve(ctx, cart)
}

// UpdateItemQuantity sets the quantity of an existing line to exactly
// quantity. Zero removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*CartResult, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, productID, func(cart *models.Cart) (*models.Cart, Outcome, error) {
		if err := checkStock(product, quantityOf(cart, productID), quantity); err != nil {
			return nil, OutcomeUpdated, err
		}
		if cart == nil {
			return nil, OutcomeUpdated, cartNotFound(userID)
		}
		return setQuantity(cart, productID, quantity)
	})
}

// IncrementItem raises an existing line by one.
func (s *CartService) IncrementItem(ctx context.Context, userID, productID primitive.ObjectID) (*CartResult, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, productID, func(cart *models.Cart) (*models.Cart, Outcome, error) {
		if cart == nil {
			return nil, OutcomeUpdated, cartNotFound(userID)
		}
		return incrementItem(cart, product)
	})
}

// DecrementItem lowers an existing line by one, removing it at zero.
func (s *CartService) DecrementItem(ctx context.Context, userID, productID primitive.ObjectID) (*CartResult, error) {
	return s.mutate(ctx, userID, productID, func(cart *models.Cart) (*models.Cart, Outcome, error) {
		if cart == nil {
			return nil, OutcomeUpdated, cartNotFound(userID)
		}
		return decrementItem(cart, productID)
	})
}

// RemoveItem drops a line from the cart. Removing the last line deletes the
// cart and returns OutcomeDeleted with a nil Cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*CartResult, error) {
	return s.mutate(ctx, userID, productID, func(cart *models.Cart) (*models.Cart, Outcome, error) {
		if cart == nil {
			return nil, OutcomeUpdated, cartNotFound(userID)
		}
		return removeFromCart(cart, productID)
	})
}

// DeleteCart removes the user's cart. It never creates one.
func (s *CartService) DeleteCart(ctx context.Context, userID primitive.ObjectID) error {
	err := s.carts.DeleteByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: cannot delete, no cart found for user ID %s", ErrCartNotFound, userID.Hex())
	}
	if err != nil {
		return err
	}
	s.publish(ctx, models.CartEvent{Event: models.CartDeleted, UserID: userID.Hex()})
	return nil
}

func (s *CartService) mutate(ctx context.Context, userID, productID primitive.ObjectID, fn transform) (*CartResult, error) {
	for attempt := 1; ; attempt++ {
		current, err := s.loadCart(ctx, userID)
		if err != nil {
			return nil, err
		}

		next, outcome, err := fn(current)
		if err != nil {
			return nil, err
		}

		err = s.persist(ctx, userID, current, next)
		if errors.Is(err, repository.ErrVersionConflict) {
			if attempt >= s.maxAttempts {
				return nil, fmt.Errorf("%w: user %s after %d attempts", ErrConcurrentModification, userID.Hex(), attempt)
			}
			logger.Warn(ctx, "Cart version conflict, retrying",
				zap.String("user_id", userID.Hex()),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publish(ctx, cartEvent(userID, productID, next, outcome))

		result := &CartResult{Outcome: outcome}
		if next != nil {
			if result.Cart, err = s.resolve(ctx, next); err != nil {
				return nil, err
			}
		}
		return result, nil
	}
}

func (s *CartService) persist(ctx context.Context, userID primitive.ObjectID, current, next *models.Cart) error {
	switch {
	case next == nil:
		return s.carts.DeleteIfVersion(ctx, userID, current.Version)
	case current == nil:
		return s.carts.Insert(ctx, next)
	default:
		return s.carts.Replace(ctx, next, current.Version)
	}
}

// loadCart returns the stored cart or nil when the user has none.
func (s *CartService) loadCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return cart, err
}

func (s *CartService) findProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, productNotFound(productID)
	}
	return product, err
}

// resolve expands line items to full product records, keeping line order.
func (s *CartService) resolve(ctx context.Context, cart *models.Cart) (*models.ResolvedCart, error) {
	ids := make([]primitive.ObjectID, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.ProductID
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	resolved := &models.ResolvedCart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]models.ResolvedItem, len(cart.Items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for i, item := range cart.Items {
		resolved.Items[i].Quantity = item.Quantity
		if p, ok := byID[item.ProductID]; ok {
			resolved.Items[i].Product = &p
		}
	}
	return resolved, nil
}

func (s *CartService) publish(ctx context.Context, event models.CartEvent) {
	if s.events == nil {
		return
	}
	event.Timestamp = time.Now().UTC()

	// The cart is already committed: bound the publish and detach it from
	// request cancellation.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.events.Publish(pubCtx, event); err != nil {
		logger.Warn(ctx, "Failed to publish cart event",
			zap.String("event", event.Event),
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
	}
}

func cartEvent(userID, productID primitive.ObjectID, next *models.Cart, outcome Outcome) models.CartEvent {
	event := models.CartEvent{
		Event:     models.CartUpdated,
		UserID:    userID.Hex(),
		ProductID: productID.Hex(),
		Quantity:  quantityOf(next, productID),
	}
	switch outcome {
	case OutcomeCreated:
		event.Event = models.CartCreated
	case OutcomeDeleted:
		event.Event = models.CartDeleted
	}
	if next != nil {
		event.Items = len(next.Items)
	}
	return event
}
