package services

import (
	"errors"
	"fmt"

	"storefront-api/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrCartNotFound           = errors.New("cart not found")
	ErrLineItemNotFound       = errors.New("product not found in cart")
	ErrStockExceeded          = errors.New("stock limit exceeded")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrConcurrentModification = errors.New("cart was modified concurrently")
)

// StockExceededError reports a quantity above the product's current stock.
// Current is the quantity already in the cart (0 when the product is not in
// the cart yet).
type StockExceededError struct {
	ProductID primitive.ObjectID
	Current   int
	Requested int
	Available int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("stock limit exceeded for product %s: requested %d, current quantity in cart: %d, stock available: %d",
		e.ProductID.Hex(), e.Requested, e.Current, e.Available)
}

func (e *StockExceededError) Is(target error) bool {
	return target == ErrStockExceeded
}

// Outcome describes what a cart mutation did to the stored cart.
type Outcome int

const (
	OutcomeUpdated Outcome = iota
	OutcomeCreated
	OutcomeDeleted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeDeleted:
		return "deleted"
	default:
		return "updated"
	}
}

func productNotFound(id primitive.ObjectID) error {
	return fmt.Errorf("%w: no product found with ID %s", ErrProductNotFound, id.Hex())
}

func cartNotFound(userID primitive.ObjectID) error {
	return fmt.Errorf("%w: no cart found for user ID %s", ErrCartNotFound, userID.Hex())
}

func lineItemNotFound(productID primitive.ObjectID) error {
	return fmt.Errorf("%w: no product found with ID '%s' in cart", ErrLineItemNotFound, productID.Hex())
}

// checkQuantity rejects negative quantities. Zero is allowed and means removal.
func checkQuantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must be a non-negative integer, got %d", ErrInvalidQuantity, quantity)
	}
	return nil
}

// checkStock fails when requested exceeds the product's stock. A product with
// no stock rejects any positive quantity.
func checkStock(product *models.Product, current, requested int) error {
	if requested > product.Stock {
		return &StockExceededError{
			ProductID: product.ID,
			Current:   current,
			Requested: requested,
			Available: product.Stock,
		}
	}
	return nil
}

func indexOf(cart *models.Cart, productID primitive.ObjectID) int {
	if cart == nil {
		return -1
	}
	for i, item := range cart.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// quantityOf returns the quantity of productID in cart, 0 if absent.
func quantityOf(cart *models.Cart, productID primitive.ObjectID) int {
	if i := indexOf(cart, productID); i >= 0 {
		return cart.Items[i].Quantity
	}
	return 0
}

func cloneCart(cart *models.Cart) *models.Cart {
	next := *cart
	next.Items = make([]models.CartItem, len(cart.Items))
	copy(next.Items, cart.Items)
	return &next
}

// addToCart adds one unit of product. A nil cart yields a new cart holding a
// single line with quantity 1; an existing line is incremented.
func addToCart(cart *models.Cart, userID primitive.ObjectID, product *models.Product) (*models.Cart, Outcome, error) {
	current := quantityOf(cart, product.ID)
	if err := checkStock(product, current, current+1); err != nil {
		return nil, OutcomeUpdated, err
	}

	if cart == nil {
		return &models.Cart{
			UserID: userID,
			Items:  []models.CartItem{{ProductID: product.ID, Quantity: 1}},
		}, OutcomeCreated, nil
	}

	next := cloneCart(cart)
	if i := indexOf(next, product.ID); i >= 0 {
		next.Items[i].Quantity = current + 1
	} else {
		next.Items = append(next.Items, models.CartItem{ProductID: product.ID, Quantity: 1})
	}
	return next, OutcomeUpdated, nil
}

// setQuantity sets the line for productID to exactly quantity. Zero removes
// the line. Stock must be checked by the caller.
func setQuantity(cart *models.Cart, productID primitive.ObjectID, quantity int) (*models.Cart, Outcome, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, OutcomeUpdated, err
	}
	if quantity == 0 {
		return removeFromCart(cart, productID)
	}

	i := indexOf(cart, productID)
	if i < 0 {
		return nil, OutcomeUpdated, lineItemNotFound(productID)
	}
	next := cloneCart(cart)
	next.Items[i].Quantity = quantity
	return next, OutcomeUpdated, nil
}

// incrementItem raises an existing line by one, bounded by stock.
func incrementItem(cart *models.Cart, product *models.Product) (*models.Cart, Outcome, error) {
	i := indexOf(cart, product.ID)
	if i < 0 {
		return nil, OutcomeUpdated, lineItemNotFound(product.ID)
	}
	current := cart.Items[i].Quantity
	if err := checkStock(product, current, current+1); err != nil {
		return nil, OutcomeUpdated, err
	}
	return setQuantity(cart, product.ID, current+1)
}

// decrementItem lowers an existing line by one; reaching zero removes it.
func decrementItem(cart *models.Cart, productID primitive.ObjectID) (*models.Cart, Outcome, error) {
	i := indexOf(cart, productID)
	if i < 0 {
		return nil, OutcomeUpdated, lineItemNotFound(productID)
	}
	return setQuantity(cart, productID, cart.Items[i].Quantity-1)
}

// removeFromCart drops the line for productID, keeping the order of the rest.
// Removing the last line returns a nil cart and OutcomeDeleted.
func removeFromCart(cart *models.Cart, productID primitive.ObjectID) (*models.Cart, Outcome, error) {
	i := indexOf(cart, productID)
	if i < 0 {
		return nil, OutcomeUpdated, lineItemNotFound(productID)
	}
	if len(cart.Items) == 1 {
		return nil, OutcomeDeleted, nil
	}

	next := cloneCart(cart)
	next.Items = append(next.Items[:i], next.Items[i+1:]...)
	return next, OutcomeUpdated, nil
}
