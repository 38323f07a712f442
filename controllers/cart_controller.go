package controllers

import (
	"context"
	"net/http"

	"storefront-api/models"
	"storefront-api/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartServiceAPI interface {
	AddItem(ctx context.Context, userID, productID primitive.ObjectID) (*services.CartResult, error)
	GetCart(ctx context.Context, userID primitive.ObjectID) (*models.ResolvedCart, error)
	UpdateItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*services.CartResult, error)
	IncrementItem(ctx context.Context, userID, productID primitive.ObjectID) (*services.CartResult, error)
	DecrementItem(ctx context.Context, userID, productID primitive.ObjectID) (*services.CartResult, error)
	RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*services.CartResult, error)
	DeleteCart(ctx context.Context, userID primitive.ObjectID) error
}

type CartController struct {
	service CartServiceAPI
}

func NewCartController(service CartServiceAPI) *CartController {
	return &CartController{service: service}
}

// AddItem adds one unit of a product, creating the cart on first use.
func (cc *CartController) AddItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingDetails(err))
		return
	}
	productID, _ := primitive.ObjectIDFromHex(req.ProductID)

	result, err := cc.service.AddItem(c.Request.Context(), userID, productID)
	if err != nil {
		fail(c, err)
		return
	}

	message := "Product added to cart successfully"
	if result.Outcome == services.OutcomeCreated {
		message = "Cart created successfully"
	}
	respond(c, statusFor(result.Outcome), message, result.Cart)
}

func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cart, err := cc.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart fetched successfully", cart)
}

// UpdateItem sets the quantity of a product already in the cart.
func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingDetails(err))
		return
	}
	productID, _ := primitive.ObjectIDFromHex(req.ProductID)

	result, err := cc.service.UpdateItemQuantity(c.Request.Context(), userID, productID, *req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	cc.respondMutation(c, result, "Cart updated successfully")
}

func (cc *CartController) IncrementItem(c *gin.Context) {
	cc.itemAction(c, cc.service.IncrementItem, "Product quantity increased successfully")
}

func (cc *CartController) DecrementItem(c *gin.Context) {
	cc.itemAction(c, cc.service.DecrementItem, "Product quantity decreased successfully")
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	cc.itemAction(c, cc.service.RemoveItem, "Product removed from cart successfully")
}

func (cc *CartController) DeleteCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := cc.service.DeleteCart(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart deleted successfully", nil)
}

type itemFunc func(ctx context.Context, userID, productID primitive.ObjectID) (*services.CartResult, error)

func (cc *CartController) itemAction(c *gin.Context, fn itemFunc, message string) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := objectIDParam(c, "productId")
	if !ok {
		return
	}

	result, err := fn(c.Request.Context(), userID, productID)
	if err != nil {
		fail(c, err)
		return
	}
	cc.respondMutation(c, result, message)
}

// respondMutation renders the resolved cart, or an empty list when the
// mutation removed the last line and deleted the cart.
func (cc *CartController) respondMutation(c *gin.Context, result *services.CartResult, message string) {
	if result.Outcome == services.OutcomeDeleted {
		respond(c, http.StatusOK, "Cart is now empty and has been deleted", []models.ResolvedItem{})
		return
	}
	respond(c, http.StatusOK, message, result.Cart)
}
