package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tharunramasamy/quickpickapp/models"
)

// ProductWithStock is the catalog row returned to clients. Field names are
// part of the API contract.
type ProductWithStock struct {
	ProductID         uint    `json:"product_id"`
	ProductName       string  `json:"product_name"`
	Price             float64 `json:"price"`
	QuantityAvailable int     `json:"quantity_available"`
	Category          string  `json:"category"`
	ImageURL          string  `json:"image_url"`
	Description       string  `json:"description"`
	IsOutOfStock      bool    `json:"is_out_of_stock"`
}

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	ListWithStock(ctx context.Context, locationID *uint) ([]ProductWithStock, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

// ListWithStock returns active products with their available quantity:
// summed across all locations, or the single location's counter when a
// filter is supplied.
func (r *GormProductRepository) ListWithStock(ctx context.Context, locationID *uint) ([]ProductWithStock, error) {
	var rows []ProductWithStock

	query := `
		SELECT p.id AS product_id, p.name AS product_name, p.price,
		       COALESCE(SUM(s.quantity_available), 0) AS quantity_available,
		       p.category, p.image_url, p.description
		FROM products p
		LEFT JOIN inventory_stocks s ON s.product_id = p.id`
	args := []interface{}{}
	if locationID != nil {
		query += ` AND s.location_id = ?`
		args = append(args, *locationID)
	}
	query += `
		WHERE p.active = true
		GROUP BY p.id, p.name, p.price, p.category, p.image_url, p.description
		ORDER BY p.name`

	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].IsOutOfStock = rows[i].QuantityAvailable <= 0
	}
	return rows, nil
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND active = true", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}
