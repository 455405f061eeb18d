package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tharunramasamy/quickpickapp/models"
)

// OrderRepository defines the interface for order data access. Multi-step
// writes (creation, transitions, assignment) each run in one transaction so
// the caller never observes a partially-applied state.
type OrderRepository interface {
	FirstActiveLocation(ctx context.Context, cityID uint) (*models.InventoryLocation, error)
	Create(ctx context.Context, order *models.Order, items []models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	ListByCity(ctx context.Context, cityID uint) ([]models.Order, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Order, error)
	TransitionStatus(ctx context.Context, order *models.Order, to models.OrderStatus) error
	AssignPartner(ctx context.Context, order *models.Order, partnerID uuid.UUID) error
	TrackingHistory(ctx context.Context, orderID uuid.UUID) ([]models.DeliveryTracking, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// FirstActiveLocation resolves the fulfilling dark store for a city. Policy
// is "pick arbitrarily among locations in the city": first match by id.
func (r *GormOrderRepository) FirstActiveLocation(ctx context.Context, cityID uint) (*models.InventoryLocation, error) {
	var location models.InventoryLocation
	err := r.db.WithContext(ctx).
		Where("city_id = ? AND active = true", cityID).
		Order("id").
		First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoServiceableLocation
		}
		return nil, err
	}
	return &location, nil
}

// Create reserves stock and persists the order, its items and the first
// tracking row in one transaction. The reservation is a conditional update:
// a zero affected-row count means the location cannot cover the quantity and
// the whole order rolls back.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Exec(`
				UPDATE inventory_stocks
				SET quantity_available = quantity_available - ?,
				    quantity_reserved  = quantity_reserved + ?
				WHERE product_id = ? AND location_id = ? AND quantity_available >= ?`,
				item.Quantity, item.Quantity, item.ProductID, order.LocationID, item.Quantity)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %d: %w", item.ProductID, ErrInsufficientStock)
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		tracking := models.DeliveryTracking{OrderID: order.ID, Status: order.Status}
		return tx.Create(&tracking).Error
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	return r.list(ctx, "customer_id = ?", customerID)
}

func (r *GormOrderRepository) ListByCity(ctx context.Context, cityID uint) ([]models.Order, error) {
	return r.list(ctx, "city_id = ?", cityID)
}

func (r *GormOrderRepository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Order, error) {
	return r.list(ctx, "partner_id = ?", partnerID)
}

func (r *GormOrderRepository) list(ctx context.Context, cond string, arg interface{}) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where(cond, arg).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// TransitionStatus moves an order to its next state. The order row update is
// guarded on the current status so a concurrent transition loses cleanly.
// Reaching DELIVERED additionally confirms the stock reservation and
// releases the assigned partner, all in the same transaction.
func (r *GormOrderRepository) TransitionStatus(ctx context.Context, order *models.Order, to models.OrderStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		tracking := models.DeliveryTracking{OrderID: order.ID, Status: to}
		if err := tx.Create(&tracking).Error; err != nil {
			return err
		}

		if to != models.StatusDelivered {
			return nil
		}

		// Delivery confirms the reservation: reserved stock held for this
		// order is permanently deducted.
		for _, item := range order.Items {
			res := tx.Exec(`
				UPDATE inventory_stocks
				SET quantity_reserved = quantity_reserved - ?
				WHERE product_id = ? AND location_id = ? AND quantity_reserved >= ?`,
				item.Quantity, item.ProductID, order.LocationID, item.Quantity)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %d: %w", item.ProductID, ErrReservationMismatch)
			}
		}

		if order.PartnerID != nil {
			if err := tx.Model(&models.DeliveryPartner{}).
				Where("user_id = ? AND status = ?", *order.PartnerID, models.PartnerBusy).
				Update("status", models.PartnerAvailable).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AssignPartner sets the order's partner and moves it to PACKED while
// flipping the partner to BUSY. A partner that is not AVAILABLE fails the
// assignment.
func (r *GormOrderRepository) AssignPartner(ctx context.Context, order *models.Order, partnerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.DeliveryPartner{}).
			Where("user_id = ? AND status = ?", partnerID, models.PartnerAvailable).
			Update("status", models.PartnerBusy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var partner models.DeliveryPartner
			if err := tx.First(&partner, "user_id = ?", partnerID).Error; err != nil {
				return ErrPartnerNotFound
			}
			return fmt.Errorf("%w: partner is %s", ErrPartnerUnavailable, partner.Status)
		}

		res = tx.Model(&models.Order{}).
			Where("id = ? AND status IN ? AND partner_id IS NULL", order.ID,
				[]models.OrderStatus{models.StatusPlaced, models.StatusPacked}).
			Updates(map[string]interface{}{
				"partner_id": partnerID,
				"status":     models.StatusPacked,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		tracking := models.DeliveryTracking{OrderID: order.ID, Status: models.StatusPacked}
		return tx.Create(&tracking).Error
	})
}

func (r *GormOrderRepository) TrackingHistory(ctx context.Context, orderID uuid.UUID) ([]models.DeliveryTracking, error) {
	var history []models.DeliveryTracking
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}
