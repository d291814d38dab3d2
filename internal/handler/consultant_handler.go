package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/internal/model"
	"github.com/mallikarjunadanduba/FitLife360/pkg/database"
	"github.com/mallikarjunadanduba/FitLife360/pkg/logger"
)

// ListConsultants handles retrieving available consultants
func ListConsultants(c echo.Context) error {
	log := logger.FromContext(c)

	db := database.GetDB()
	var consultants []model.Consultant

	query := db.Where("is_available = ?", true)

	if specialization := c.QueryParam("specialization"); specialization != "" {
		query = query.Where("specialization = ?", specialization)
	}

	result := query.Order("rating DESC").Find(&consultants)
	if result.Error != nil {
		log.Error("Failed to list consultants", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve consultants",
		})
	}

	log.Info("Consultants retrieved successfully", zap.Int("count", len(consultants)))
	return c.JSON(http.StatusOK, consultants)
}

// GetConsultant handles retrieving a single consultant by ID
func GetConsultant(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var consultant model.Consultant
	result := database.GetDB().First(&consultant, id)
	if result.Error != nil {
		log.Warn("Consultant not found", zap.String("consultant_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Consultant not found",
		})
	}

	return c.JSON(http.StatusOK, consultant)
}
