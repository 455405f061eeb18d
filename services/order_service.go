package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tharunramasamy/quickpickapp/logger"
	"github.com/tharunramasamy/quickpickapp/models"
	"github.com/tharunramasamy/quickpickapp/repository"
)

// ServiceError carries an HTTP status alongside the message so controllers
// stay thin.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Notifier receives order lifecycle events after the transaction committed.
// Implementations must never fail the caller.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, orderID string, status models.OrderStatus)
}

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,dive"`
	CityID          uint               `json:"city_id" binding:"required"`
	DeliveryAddress string             `json:"delivery_address" binding:"required"`
	Latitude        *float64           `json:"latitude"`
	Longitude       *float64           `json:"longitude"`
	Notes           string             `json:"notes"`
}

type CreateOrderResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	TotalAmount float64   `json:"total_amount"`
}

type OrderStatusResponse struct {
	OrderID     uuid.UUID                 `json:"order_id"`
	Status      models.OrderStatus        `json:"status"`
	LastUpdated *time.Time                `json:"last_updated,omitempty"`
	History     []models.DeliveryTracking `json:"history"`
}

type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	notifier Notifier
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, users repository.UserRepository, notifier Notifier) *OrderService {
	return &OrderService{orders: orders, products: products, users: users, notifier: notifier}
}

// CreateOrder validates stock, computes the total from authoritative product
// prices, and persists the order atomically. Stock for every item is
// reserved inside the same transaction; any shortfall rejects the whole
// order with nothing written.
func (s *OrderService) CreateOrder(ctx context.Context, customerID uuid.UUID, req *CreateOrderRequest) (*CreateOrderResponse, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "At least one item is required"}
	}

	location, err := s.orders.FirstActiveLocation(ctx, req.CityID)
	if err != nil {
		if errors.Is(err, repository.ErrNoServiceableLocation) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "No serviceable location"}
		}
		return nil, internalError("resolve location", err)
	}

	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Quantity must be positive"}
		}
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalError("load products", err)
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
		}
		lineTotal := product.Price * float64(item.Quantity)
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}

	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     newOrderNumber(),
		CustomerID:      customerID,
		LocationID:      location.ID,
		CityID:          req.CityID,
		TotalAmount:     total,
		Status:          models.StatusPlaced,
		PaymentStatus:   models.PaymentPending,
		DeliveryAddress: req.DeliveryAddress,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Notes:           req.Notes,
	}

	if err := s.orders.Create(ctx, order, items); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Insufficient stock"}
		}
		return nil, internalError("create order", err)
	}

	s.notifier.OrderStatusChanged(ctx, order.ID.String(), order.Status)

	return &CreateOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
	}, nil
}

// AdvanceStatus moves an order forward through the lifecycle. The target
// state must be reachable from the current one.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, to models.OrderStatus) *ServiceError {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
		}
		return internalError("load order", err)
	}

	if !models.CanTransition(order.Status, to) {
		return &ServiceError{StatusCode: http.StatusConflict, Message: "Invalid status transition"}
	}

	if err := s.orders.TransitionStatus(ctx, order, to); err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return &ServiceError{StatusCode: http.StatusConflict, Message: "Invalid status transition"}
		}
		return internalError("transition status", err)
	}

	s.notifier.OrderStatusChanged(ctx, order.ID.String(), to)
	return nil
}

// AssignPartner hands an order to a delivery partner. Only an AVAILABLE
// partner can be assigned; the order moves to PACKED.
func (s *OrderService) AssignPartner(ctx context.Context, orderID, partnerID uuid.UUID) *ServiceError {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
		}
		return internalError("load order", err)
	}
	if order.PartnerID != nil {
		return &ServiceError{StatusCode: http.StatusConflict, Message: "Order already has a partner"}
	}
	if order.Status != models.StatusPlaced && order.Status != models.StatusPacked {
		return &ServiceError{StatusCode: http.StatusConflict, Message: "Invalid status transition"}
	}

	if err := s.orders.AssignPartner(ctx, order, partnerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrPartnerNotFound):
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Delivery partner not found"}
		case errors.Is(err, repository.ErrPartnerUnavailable):
			return &ServiceError{StatusCode: http.StatusConflict, Message: "Delivery partner unavailable"}
		case errors.Is(err, repository.ErrInvalidTransition):
			return &ServiceError{StatusCode: http.StatusConflict, Message: "Invalid status transition"}
		}
		return internalError("assign partner", err)
	}

	s.notifier.OrderStatusChanged(ctx, order.ID.String(), models.StatusPacked)
	return nil
}

// ListOrders returns the orders visible to the caller: customers their own,
// inventory staff their city, partners their assignments. Newest first.
func (s *OrderService) ListOrders(ctx context.Context, claims *Claims) ([]models.Order, *ServiceError) {
	var (
		orders []models.Order
		err    error
	)
	switch claims.Role {
	case models.RoleInventoryStaff:
		orders, err = s.orders.ListByCity(ctx, claims.CityID)
	case models.RoleDeliveryPartner:
		orders, err = s.orders.ListByPartner(ctx, claims.UserID)
	default:
		orders, err = s.orders.ListByCustomer(ctx, claims.UserID)
	}
	if err != nil {
		return nil, internalError("list orders", err)
	}
	return orders, nil
}

// GetStatus returns the tracking timeline for an order the caller may see.
func (s *OrderService) GetStatus(ctx context.Context, orderID uuid.UUID, claims *Claims) (*OrderStatusResponse, *ServiceError) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
		}
		return nil, internalError("load order", err)
	}
	if !canSeeOrder(order, claims) {
		// Hidden orders look like missing orders to foreign roles.
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
	}

	history, err := s.orders.TrackingHistory(ctx, orderID)
	if err != nil {
		return nil, internalError("load tracking", err)
	}

	resp := &OrderStatusResponse{OrderID: order.ID, Status: order.Status, History: history}
	if len(history) > 0 {
		resp.LastUpdated = &history[len(history)-1].CreatedAt
	}
	return resp, nil
}

// SetPartnerStatus lets a delivery partner go online or offline. Going
// offline while BUSY is rejected.
func (s *OrderService) SetPartnerStatus(ctx context.Context, partnerID uuid.UUID, to models.PartnerStatus) *ServiceError {
	if to != models.PartnerAvailable && to != models.PartnerInactive {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid partner status"}
	}

	partner, err := s.users.GetPartner(ctx, partnerID)
	if err != nil {
		if errors.Is(err, repository.ErrPartnerNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Delivery partner not found"}
		}
		return internalError("load partner", err)
	}
	if !models.PartnerCanTransition(partner.Status, to) {
		return &ServiceError{StatusCode: http.StatusConflict, Message: "Invalid partner status transition"}
	}

	if err := s.users.SetPartnerStatus(ctx, partnerID, partner.Status, to); err != nil {
		if errors.Is(err, repository.ErrPartnerUnavailable) {
			return &ServiceError{StatusCode: http.StatusConflict, Message: "Invalid partner status transition"}
		}
		return internalError("set partner status", err)
	}
	return nil
}

func canSeeOrder(order *models.Order, claims *Claims) bool {
	switch claims.Role {
	case models.RoleInventoryStaff:
		return order.CityID == claims.CityID
	case models.RoleDeliveryPartner:
		return order.PartnerID != nil && *order.PartnerID == claims.UserID
	default:
		return order.CustomerID == claims.UserID
	}
}

func newOrderNumber() string {
	return "QP-" + strings.ToUpper(uuid.NewString()[:8])
}

func internalError(op string, err error) *ServiceError {
	logger.Log.Error("order service failure", zap.String("op", op), zap.Error(err))
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Internal server error"}
}
