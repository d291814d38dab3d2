package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/internal/middleware"
	"github.com/mallikarjunadanduba/FitLife360/internal/model"
	"github.com/mallikarjunadanduba/FitLife360/internal/service"
	"github.com/mallikarjunadanduba/FitLife360/pkg/database"
	"github.com/mallikarjunadanduba/FitLife360/pkg/logger"
	"github.com/mallikarjunadanduba/FitLife360/prometheus"
)

// ConsultationHandler serves the consultation scheduling endpoints.
type ConsultationHandler struct {
	consultations *service.ConsultationService
}

func NewConsultationHandler(consultations *service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{consultations: consultations}
}

func actorFrom(c echo.Context) service.Actor {
	userID, _ := middleware.GetUserID(c)
	return service.Actor{UserID: userID, Role: middleware.GetRole(c)}
}

// ListConsultations handles GET /api/consultations — the caller's view:
// consultants see their assigned sessions, users see their bookings
func (h *ConsultationHandler) ListConsultations(c echo.Context) error {
	log := logger.FromContext(c)
	actor := actorFrom(c)

	db := database.GetDB()
	var consultations []model.Consultation

	query := db.Order("scheduled_time DESC")
	if actor.Role == model.RoleConsultant {
		var consultant model.Consultant
		if err := db.Where("user_id = ?", actor.UserID).First(&consultant).Error; err != nil {
			log.Warn("No consultant profile for user", zap.Uint("user_id", actor.UserID))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Consultant profile not found"})
		}
		query = query.Where("consultant_id = ?", consultant.ID)
	} else {
		query = query.Where("user_id = ?", actor.UserID)
	}

	if result := query.Find(&consultations); result.Error != nil {
		log.Error("Failed to list consultations", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve consultations",
		})
	}

	return c.JSON(http.StatusOK, consultations)
}

// GetConsultation handles GET /api/consultations/:id — participant or admin
func (h *ConsultationHandler) GetConsultation(c echo.Context) error {
	log := logger.FromContext(c)
	actor := actorFrom(c)

	consultationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid consultation id"})
	}

	db := database.GetDB()
	var consultation model.Consultation
	if result := db.First(&consultation, consultationID); result.Error != nil {
		log.Warn("Consultation not found", zap.Uint("consultation_id", consultationID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Consultation not found"})
	}

	allowed := consultation.UserID == actor.UserID || actor.Role == model.RoleAdmin
	if !allowed && actor.Role == model.RoleConsultant {
		var consultant model.Consultant
		if err := db.First(&consultant, consultation.ConsultantID).Error; err == nil {
			allowed = consultant.UserID == actor.UserID
		}
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not enough permissions"})
	}

	return c.JSON(http.StatusOK, consultation)
}

// BookConsultation handles POST /api/consultations
func (h *ConsultationHandler) BookConsultation(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	var req service.BookInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	consultation, err := h.consultations.Book(c.Request().Context(), userID, req)
	if err != nil {
		prometheus.RecordConsultationOperation("book", "rejected")
		return respondError(c, log, err)
	}

	prometheus.RecordConsultationOperation("book", "ok")
	return c.JSON(http.StatusCreated, consultation)
}

// CancelConsultation handles POST /api/consultations/:id/cancel
func (h *ConsultationHandler) CancelConsultation(c echo.Context) error {
	log := logger.FromContext(c)

	consultationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid consultation id"})
	}

	if err := h.consultations.Cancel(c.Request().Context(), consultationID, actorFrom(c)); err != nil {
		prometheus.RecordConsultationOperation("cancel", "rejected")
		return respondError(c, log, err)
	}

	prometheus.RecordConsultationOperation("cancel", "ok")
	return c.JSON(http.StatusOK, echo.Map{"message": "Consultation cancelled successfully"})
}

// RescheduleRequest carries a new time for an existing booking
type RescheduleRequest struct {
	ScheduledTime time.Time `json:"scheduled_time"`
}

// RescheduleConsultation handles POST /api/consultations/:id/reschedule
func (h *ConsultationHandler) RescheduleConsultation(c echo.Context) error {
	log := logger.FromContext(c)

	consultationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid consultation id"})
	}

	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.ScheduledTime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_time is required"})
	}

	if err := h.consultations.Reschedule(c.Request().Context(), consultationID, req.ScheduledTime, actorFrom(c)); err != nil {
		prometheus.RecordConsultationOperation("reschedule", "rejected")
		return respondError(c, log, err)
	}

	prometheus.RecordConsultationOperation("reschedule", "ok")
	return c.JSON(http.StatusOK, echo.Map{"message": "Consultation rescheduled successfully"})
}

// CompleteRequest carries the consultant's plan text
type CompleteRequest struct {
	ConsultantPlan string `json:"consultant_plan"`
}

// CompleteConsultation handles POST /api/consultations/:id/complete
// (consultant only at the route level)
func (h *ConsultationHandler) CompleteConsultation(c echo.Context) error {
	log := logger.FromContext(c)

	consultationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid consultation id"})
	}

	var req CompleteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if err := h.consultations.Complete(c.Request().Context(), consultationID, req.ConsultantPlan, actorFrom(c)); err != nil {
		prometheus.RecordConsultationOperation("complete", "rejected")
		return respondError(c, log, err)
	}

	prometheus.RecordConsultationOperation("complete", "ok")
	return c.JSON(http.StatusOK, echo.Map{"message": "Consultation completed successfully"})
}

// RateRequest carries a rating submission
type RateRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// RateConsultation handles POST /api/consultations/:id/rate
func (h *ConsultationHandler) RateConsultation(c echo.Context) error {
	log := logger.FromContext(c)

	consultationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid consultation id"})
	}

	var req RateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if err := h.consultations.Rate(c.Request().Context(), consultationID, req.Rating, req.Feedback, actorFrom(c)); err != nil {
		prometheus.RecordConsultationOperation("rate", "rejected")
		return respondError(c, log, err)
	}

	prometheus.RecordConsultationOperation("rate", "ok")
	return c.JSON(http.StatusOK, echo.Map{"message": "Consultation rated successfully"})
}
