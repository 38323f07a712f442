package controllers

import (
	"context"
	"net/http"
	"strconv"

	"storefront-api/logger"
	"storefront-api/models"
	"storefront-api/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProductServiceAPI defines the interface for product service operations
type ProductServiceAPI interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	CreateProducts(ctx context.Context, products []models.Product) error
	UpdateProduct(ctx context.Context, id primitive.ObjectID, update services.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

type ProductController struct {
	service ProductServiceAPI
	cache   *CacheManager
}

func NewProductController(service ProductServiceAPI, cache *CacheManager) *ProductController {
	return &ProductController{service: service, cache: cache}
}

// GetProducts lists products, honouring ?limit (default 30, max 100).
func (pc *ProductController) GetProducts(c *gin.Context) {
	limit := services.DefaultProductLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = min(n, services.MaxProductLimit)
	}

	if products, ok := pc.cache.GetProductList(c.Request.Context(), limit); ok {
		respond(c, http.StatusOK, "Products fetched successfully", products)
		return
	}

	products, err := pc.service.ListProducts(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	pc.cache.SetProductListAsync(limit, products)
	respond(c, http.StatusOK, "Products fetched successfully", products)
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if product, hit := pc.cache.GetProduct(c.Request.Context(), id.Hex()); hit {
		respond(c, http.StatusOK, "Product fetched successfully", product)
		return
	}

	product, err := pc.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	pc.cache.SetProductAsync(id.Hex(), product)
	respond(c, http.StatusOK, "Product fetched successfully", product)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingDetails(err))
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := pc.service.CreateProduct(c.Request.Context(), product); err != nil {
		fail(c, err)
		return
	}

	pc.cache.InvalidateProduct(c.Request.Context(), "")
	logger.Info(c, "Product created", zap.String("product_id", product.ID.Hex()))
	respond(c, http.StatusCreated, "Product created successfully", product)
}

// CreateProducts inserts a JSON array of products in one call.
func (pc *ProductController) CreateProducts(c *gin.Context) {
	var reqs []CreateProductRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		badRequest(c, bindingDetails(err))
		return
	}
	if len(reqs) == 0 {
		badRequest(c, "at least one product is required")
		return
	}

	products := make([]models.Product, len(reqs))
	for i, req := range reqs {
		products[i] = models.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
		}
	}
	if err := pc.service.CreateProducts(c.Request.Context(), products); err != nil {
		fail(c, err)
		return
	}

	pc.cache.InvalidateProduct(c.Request.Context(), "")
	zap.L().Info("Products created", zap.Int("count", len(products)))
	respond(c, http.StatusCreated, "Products created successfully", products)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingDetails(err))
		return
	}

	product, err := pc.service.UpdateProduct(c.Request.Context(), id, services.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		fail(c, err)
		return
	}

	pc.cache.InvalidateProduct(c.Request.Context(), id.Hex())
	respond(c, http.StatusOK, "Product updated successfully", product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	product, err := pc.service.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	pc.cache.InvalidateProduct(c.Request.Context(), id.Hex())
	respond(c, http.StatusOK, "Product deleted successfully", product)
}
