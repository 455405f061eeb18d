package services

import (
	"context"

	"github.com/tharunramasamy/quickpickapp/repository"
)

type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// ListProducts returns active products with stock, optionally scoped to one
// location.
func (s *ProductService) ListProducts(ctx context.Context, locationID *uint) ([]repository.ProductWithStock, *ServiceError) {
	rows, err := s.products.ListWithStock(ctx, locationID)
	if err != nil {
		return nil, internalError("list products", err)
	}
	return rows, nil
}
