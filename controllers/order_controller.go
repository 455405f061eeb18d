package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tharunramasamy/quickpickapp/middleware"
	"github.com/tharunramasamy/quickpickapp/models"
	"github.com/tharunramasamy/quickpickapp/services"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Create places a new order for the authenticated customer
func (oc *OrderController) Create(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, serviceErr := oc.orderService.CreateOrder(c.Request.Context(), claims.UserID, &req)
	if serviceErr != nil {
		c.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List returns the orders visible to the caller's role
func (oc *OrderController) List(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, serviceErr := oc.orderService.ListOrders(c.Request.Context(), claims)
	if serviceErr != nil {
		c.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Status returns the tracking timeline for an order
func (oc *OrderController) Status(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	resp, serviceErr := oc.orderService.GetStatus(c.Request.Context(), orderID, claims)
	if serviceErr != nil {
		c.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pick moves a PLACED order to PACKED
func (oc *OrderController) Pick(c *gin.Context) {
	oc.advance(c, models.StatusPacked, "Order picked")
}

// Out moves a PACKED order to OUT_FOR_DELIVERY
func (oc *OrderController) Out(c *gin.Context) {
	oc.advance(c, models.StatusOutForDelivery, "Out for delivery")
}

// Deliver completes the order
func (oc *OrderController) Deliver(c *gin.Context) {
	oc.advance(c, models.StatusDelivered, "Order delivered")
}

func (oc *OrderController) advance(c *gin.Context, to models.OrderStatus, message string) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	if serviceErr := oc.orderService.AdvanceStatus(c.Request.Context(), orderID, to); serviceErr != nil {
		c.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

type assignRequest struct {
	PartnerID uuid.UUID `json:"partner_id" binding:"required"`
}

// Assign hands an order to a delivery partner
func (oc *OrderController) Assign(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if serviceErr := oc.orderService.AssignPartner(c.Request.Context(), orderID, req.PartnerID); serviceErr != nil {
		c.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Partner assigned"})
}

type partnerStatusRequest struct {
	Status models.PartnerStatus `json:"status" binding:"required"`
}

// PartnerStatus lets the authenticated partner go online or offline
func (oc *OrderController) PartnerStatus(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req partnerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if serviceErr := oc.orderService.SetPartnerStatus(c.Request.Context(), claims.UserID, req.Status); serviceErr != nil {
		c.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return uuid.Nil, false
	}
	return orderID, true
}
