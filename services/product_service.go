package services

import (
	"context"
	"errors"
	"fmt"

	"storefront-api/models"
	"storefront-api/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultProductLimit = 30
	MaxProductLimit     = 100
)

var ErrNoUpdateFields = errors.New("no update fields provided")

type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, limit int64) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	CreateMany(ctx context.Context, products []models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
}

func (u ProductUpdate) fields() bson.M {
	updates := bson.M{}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Price != nil {
		updates["price"] = *u.Price
	}
	if u.Stock != nil {
		updates["stock"] = *u.Stock
	}
	return updates
}

type ProductService struct {
	productRepo ProductStore
}

func NewProductService(pr ProductStore) *ProductService {
	return &ProductService{productRepo: pr}
}

func (s *ProductService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, productNotFound(id)
	}
	return product, err
}

// ListProducts returns up to limit products. A limit outside 1..MaxProductLimit
// falls back to DefaultProductLimit or is capped.
func (s *ProductService) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {
	switch {
	case limit <= 0:
		limit = DefaultProductLimit
	case limit > MaxProductLimit:
		limit = MaxProductLimit
	}
	return s.productRepo.Find(ctx, int64(limit))
}

func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.productRepo.Create(ctx, product)
}

func (s *ProductService) CreateProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return fmt.Errorf("no products provided")
	}
	return s.productRepo.CreateMany(ctx, products)
}

func (s *ProductService) UpdateProduct(ctx context.Context, id primitive.ObjectID, update ProductUpdate) (*models.Product, error) {
	updates := update.fields()
	if len(updates) == 0 {
		return nil, ErrNoUpdateFields
	}
	product, err := s.productRepo.Update(ctx, id, updates)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, productNotFound(id)
	}
	return product, err
}

// DeleteProduct removes a product from the catalog. Carts that still reference
// it resolve the line with a nil product.
func (s *ProductService) DeleteProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.productRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, productNotFound(id)
	}
	return product, err
}
