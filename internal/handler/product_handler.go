package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/internal/model"
	"github.com/mallikarjunadanduba/FitLife360/pkg/database"
	"github.com/mallikarjunadanduba/FitLife360/pkg/logger"
	"github.com/mallikarjunadanduba/FitLife360/prometheus"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	StockQuantity   int     `json:"stock_quantity"`
	ImageURL        string  `json:"image_url"`
	Ingredients     string  `json:"ingredients"`
	NutritionalInfo string  `json:"nutritional_info"`
	IsActive        bool    `json:"is_active"`
}

// ListProducts handles retrieving active products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	db := database.GetDB()
	var products []model.Product

	query := db.Where("is_active = ?", true)

	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category LIKE ?", "%"+category+"%")
	}

	if search := c.QueryParam("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	if minPrice := c.QueryParam("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		} else {
			log.Warn("Invalid min_price parameter", zap.String("value", minPrice))
		}
	}

	if maxPrice := c.QueryParam("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		} else {
			log.Warn("Invalid max_price parameter", zap.String("value", maxPrice))
		}
	}

	result := query.Order("created_at DESC").Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// ListFeaturedProducts handles retrieving the highest-rated active products,
// falling back to all active products if none rate 4.0 or above
func ListFeaturedProducts(c echo.Context) error {
	log := logger.FromContext(c)

	db := database.GetDB()
	var products []model.Product

	result := db.Where("is_active = ? AND rating >= ?", true, 4.0).
		Order("rating DESC").Limit(10).Find(&products)
	if result.Error != nil {
		log.Error("Failed to list featured products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	if len(products) == 0 {
		result = db.Where("is_active = ?", true).
			Order("rating DESC, created_at DESC").Limit(10).Find(&products)
		if result.Error != nil {
			log.Error("Failed to list featured products", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to retrieve products",
			})
		}
	}

	return c.JSON(http.StatusOK, products)
}

// ListProductCategories handles retrieving the distinct categories in use
func ListProductCategories(c echo.Context) error {
	log := logger.FromContext(c)

	var categories []string
	result := database.GetDB().Model(&model.Product{}).
		Where("is_active = ? AND category IS NOT NULL AND category != ''", true).
		Distinct().Pluck("category", &categories)
	if result.Error != nil {
		log.Error("Failed to list product categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve categories",
		})
	}

	return c.JSON(http.StatusOK, categories)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product (admin only)
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if req.Name == "" || req.Price < 0 || req.StockQuantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Product requires a name, a non-negative price and non-negative stock",
		})
	}

	product := model.Product{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Price:           req.Price,
		StockQuantity:   req.StockQuantity,
		ImageURL:        req.ImageURL,
		Ingredients:     req.Ingredients,
		NutritionalInfo: req.NutritionalInfo,
		IsActive:        req.IsActive,
	}

	result := database.GetDB().Create(&product)
	if result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create product",
		})
	}

	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	prometheus.UpdateProductStock(strconv.FormatUint(uint64(product.ID), 10), product.Category, float64(product.StockQuantity))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product (admin only)
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	oldPrice := product.Price

	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.Price = req.Price
	product.StockQuantity = req.StockQuantity
	product.ImageURL = req.ImageURL
	product.Ingredients = req.Ingredients
	product.NutritionalInfo = req.NutritionalInfo
	product.IsActive = req.IsActive

	result = database.GetDB().Save(&product)
	if result.Error != nil {
		log.Error("Failed to update product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update product",
		})
	}

	log.Info("Product updated successfully",
		zap.String("product_id", id),
		zap.String("name", product.Name),
		zap.Float64("old_price", oldPrice),
		zap.Float64("new_price", product.Price))
	prometheus.UpdateProductStock(id, product.Category, float64(product.StockQuantity))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles retiring a product from the catalog (soft delete by
// clearing is_active; existing orders keep their item snapshots)
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found for deletion", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	result = database.GetDB().Model(&product).Update("is_active", false)
	if result.Error != nil {
		log.Error("Failed to delete product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete product",
		})
	}

	log.Info("Product deleted successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
	})
}
