package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/internal/middleware"
	"github.com/mallikarjunadanduba/FitLife360/internal/model"
	"github.com/mallikarjunadanduba/FitLife360/internal/service"
	"github.com/mallikarjunadanduba/FitLife360/pkg/database"
	"github.com/mallikarjunadanduba/FitLife360/pkg/logger"
	"github.com/mallikarjunadanduba/FitLife360/prometheus"
)

// ReviewHandler serves product review endpoints.
type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// ListProductReviews handles GET /api/products/:id/reviews
func (h *ReviewHandler) ListProductReviews(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var reviews []model.ProductReview
	result := database.GetDB().Where("product_id = ?", productID).
		Order("created_at DESC").Find(&reviews)
	if result.Error != nil {
		log.Error("Failed to list reviews",
			zap.Uint("product_id", productID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve reviews",
		})
	}

	return c.JSON(http.StatusOK, reviews)
}

// CreateProductReview handles POST /api/products/:id/reviews
func (h *ReviewHandler) CreateProductReview(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	var req service.ReviewInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	review, err := h.reviews.Create(c.Request().Context(), productID, userID, req)
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordReviewOperation("create")
	return c.JSON(http.StatusCreated, review)
}

// DeleteProductReview handles DELETE /api/reviews/:id
func (h *ReviewHandler) DeleteProductReview(c echo.Context) error {
	log := logger.FromContext(c)

	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	actor := service.Actor{UserID: userID, Role: middleware.GetRole(c)}
	if err := h.reviews.Delete(c.Request().Context(), reviewID, actor); err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordReviewOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted successfully"})
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
