package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/internal/middleware"
	"github.com/mallikarjunadanduba/FitLife360/internal/model"
	"github.com/mallikarjunadanduba/FitLife360/internal/service"
	"github.com/mallikarjunadanduba/FitLife360/pkg/database"
	"github.com/mallikarjunadanduba/FitLife360/pkg/logger"
	"github.com/mallikarjunadanduba/FitLife360/prometheus"
)

// OrderHandler serves the order workflow endpoints.
type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListOrders handles GET /api/orders — the caller's own orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	var orders []model.Order
	result := database.GetDB().Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders)
	if result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve orders",
		})
	}

	return c.JSON(http.StatusOK, orders)
}

// ListAllOrders handles GET /api/orders/all (admin only at the route level)
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	log := logger.FromContext(c)

	var orders []model.Order
	result := database.GetDB().Preload("Items").
		Order("created_at DESC").Find(&orders)
	if result.Error != nil {
		log.Error("Failed to list all orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve orders",
		})
	}

	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/:id — owner or admin
func (h *OrderHandler) GetOrder(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	userID, _ := middleware.GetUserID(c)

	var order model.Order
	result := database.GetDB().Preload("Items").First(&order, orderID)
	if result.Error != nil {
		log.Warn("Order not found", zap.Uint("order_id", orderID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	if order.UserID != userID && !middleware.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not enough permissions"})
	}

	return c.JSON(http.StatusOK, order)
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	var req service.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	order, err := h.orders.Create(c.Request().Context(), userID, req)
	if err != nil {
		prometheus.RecordOrderOperation("create", "rejected")
		return respondError(c, log, err)
	}

	prometheus.RecordOrderOperation("create", "ok")
	return c.JSON(http.StatusCreated, order)
}

// CreatePayment handles POST /api/orders/:id/create-payment
func (h *OrderHandler) CreatePayment(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	userID, _ := middleware.GetUserID(c)

	gwOrder, err := h.orders.CreatePayment(c.Request().Context(), orderID, userID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, gwOrder)
}

// PaymentRequest carries the external payment reference for confirmation
type PaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

// ProcessPayment handles POST /api/orders/:id/payment
func (h *OrderHandler) ProcessPayment(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	userID, _ := middleware.GetUserID(c)

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.PaymentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_id is required"})
	}

	result, err := h.orders.ConfirmPayment(c.Request().Context(), orderID, userID, req.PaymentID)
	if err != nil {
		prometheus.RecordPaymentResult("failed")
		return respondError(c, log, err)
	}

	prometheus.RecordPaymentResult("completed")
	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Payment processed successfully",
		"transaction_id": result.TransactionID,
	})
}

// CancelOrder handles POST /api/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	userID, _ := middleware.GetUserID(c)

	if err := h.orders.Cancel(c.Request().Context(), orderID, userID, middleware.IsAdmin(c)); err != nil {
		prometheus.RecordOrderOperation("cancel", "rejected")
		return respondError(c, log, err)
	}

	prometheus.RecordOrderOperation("cancel", "ok")
	return c.JSON(http.StatusOK, echo.Map{"message": "Order cancelled successfully"})
}

// StatusRequest carries an admin fulfillment transition
type StatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus handles PUT /api/orders/:id/status (admin only at the route level)
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if err := h.orders.UpdateStatus(c.Request().Context(), orderID, model.OrderStatus(req.Status)); err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Order status updated to " + req.Status})
}
