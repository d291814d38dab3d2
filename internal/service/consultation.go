package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
	"github.com/mallikarjunadanduba/FitLife360/internal/model"
	"github.com/mallikarjunadanduba/FitLife360/internal/notify"
)

// ConsultationService orchestrates booking, lifecycle transitions and rating
// of consultations.
type ConsultationService struct {
	db         *gorm.DB
	ratings    RatingAggregator
	dispatcher notify.Dispatcher
	log        *zap.Logger
}

func NewConsultationService(db *gorm.DB, dispatcher notify.Dispatcher, log *zap.Logger) *ConsultationService {
	return &ConsultationService{
		db:         db,
		dispatcher: dispatcher,
		log:        log,
	}
}

// BookInput carries a booking request.
type BookInput struct {
	ConsultantID    uint      `json:"consultant_id"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
	UserHealthData  string    `json:"user_health_data"`
}

// Actor identifies who is performing an operation.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) isAdmin() bool { return a.Role == model.RoleAdmin }

// Book creates a consultation for the user. The consultant row is locked
// before the conflict check, so two concurrent bookings of the same slot are
// serialized and at most one succeeds. The conflict check matches the exact
// scheduled time against active bookings.
func (s *ConsultationService) Book(ctx context.Context, userID uint, in BookInput) (*model.Consultation, error) {
	if in.DurationMinutes <= 0 {
		in.DurationMinutes = 60
	}

	consultation := &model.Consultation{
		UserID:          userID,
		ConsultantID:    in.ConsultantID,
		ScheduledTime:   in.ScheduledTime,
		DurationMinutes: in.DurationMinutes,
		Status:          model.ConsultationScheduled,
		Notes:           in.Notes,
		UserHealthData:  in.UserHealthData,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var consultant model.Consultant
		if err := forUpdate(tx).First(&consultant, in.ConsultantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("consultant not found")
			}
			return apperr.Internal(err, "failed to load consultant %d", in.ConsultantID)
		}

		if !consultant.IsAvailable {
			return apperr.Validation("consultant is not available")
		}

		if err := s.checkSlotFree(tx, in.ConsultantID, in.ScheduledTime, 0); err != nil {
			return err
		}

		if err := tx.Create(consultation).Error; err != nil {
			return apperr.Internal(err, "failed to persist consultation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Consultation booked",
		zap.Uint("consultation_id", consultation.ID),
		zap.Uint("user_id", userID),
		zap.Uint("consultant_id", in.ConsultantID),
		zap.Time("scheduled_time", in.ScheduledTime))

	dispatch(ctx, s.dispatcher, s.log, notify.EventConsultationBooked, userID, consultation.ID,
		fmt.Sprintf("Consultation booked for %s", in.ScheduledTime.Format(time.RFC3339)))

	return consultation, nil
}

// checkSlotFree rejects a booking whose consultant and exact scheduled time
// collide with an existing active consultation. excludeID skips the
// consultation being rescheduled.
func (s *ConsultationService) checkSlotFree(tx *gorm.DB, consultantID uint, at time.Time, excludeID uint) error {
	var count int64
	q := tx.Model(&model.Consultation{}).
		Where("consultant_id = ? AND scheduled_time = ? AND status IN ?",
			consultantID, at, []model.ConsultationStatus{model.ConsultationScheduled, model.ConsultationRescheduled})
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return apperr.Internal(err, "failed to check slot availability")
	}
	if count > 0 {
		return apperr.Conflict("time slot is already booked")
	}
	return nil
}

// Cancel moves an active consultation to cancelled. Allowed for the booking
// user, the assigned consultant, or an administrator; rejected once completed
// or already cancelled.
func (s *ConsultationService) Cancel(ctx context.Context, consultationID uint, actor Actor) error {
	var consultation model.Consultation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.loadConsultation(tx, consultationID)
		if err != nil {
			return err
		}
		consultation = *c

		if err := s.requireParticipant(tx, c, actor); err != nil {
			return err
		}

		if !c.Status.CanTransitionTo(model.ConsultationCancelled) {
			return apperr.State("cannot cancel consultation in status %s", c.Status)
		}

		if err := tx.Model(&model.Consultation{}).Where("id = ?", consultationID).
			Update("status", model.ConsultationCancelled).Error; err != nil {
			return apperr.Internal(err, "failed to cancel consultation %d", consultationID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Consultation cancelled",
		zap.Uint("consultation_id", consultationID),
		zap.Uint("actor_id", actor.UserID))

	dispatch(ctx, s.dispatcher, s.log, notify.EventConsultationCancelled, consultation.UserID, consultationID,
		"Consultation cancelled")

	return nil
}

// Reschedule moves an active consultation to a new time, re-validated against
// slot conflicts under the consultant row lock.
func (s *ConsultationService) Reschedule(ctx context.Context, consultationID uint, newTime time.Time, actor Actor) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.loadConsultation(tx, consultationID)
		if err != nil {
			return err
		}

		if err := s.requireParticipant(tx, c, actor); err != nil {
			return err
		}

		if !c.Status.CanTransitionTo(model.ConsultationRescheduled) {
			return apperr.State("cannot reschedule consultation in status %s", c.Status)
		}

		var consultant model.Consultant
		if err := forUpdate(tx).First(&consultant, c.ConsultantID).Error; err != nil {
			return apperr.Internal(err, "failed to load consultant %d", c.ConsultantID)
		}

		if err := s.checkSlotFree(tx, c.ConsultantID, newTime, c.ID); err != nil {
			return err
		}

		updates := map[string]any{
			"scheduled_time": newTime,
			"status":         model.ConsultationRescheduled,
		}
		if err := tx.Model(&model.Consultation{}).Where("id = ?", consultationID).
			Updates(updates).Error; err != nil {
			return apperr.Internal(err, "failed to reschedule consultation %d", consultationID)
		}
		return nil
	})
}

// Complete marks a consultation as completed and stores the consultant's plan.
// Only the assigned consultant may complete it.
func (s *ConsultationService) Complete(ctx context.Context, consultationID uint, plan string, actor Actor) error {
	var consultation model.Consultation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.loadConsultation(tx, consultationID)
		if err != nil {
			return err
		}
		consultation = *c

		assigned, err := s.isAssignedConsultant(tx, c, actor)
		if err != nil {
			return err
		}
		if !assigned {
			return apperr.PermissionDenied("not enough permissions")
		}

		if !c.Status.CanTransitionTo(model.ConsultationCompleted) {
			return apperr.State("cannot complete consultation in status %s", c.Status)
		}

		updates := map[string]any{
			"status":          model.ConsultationCompleted,
			"consultant_plan": plan,
		}
		if err := tx.Model(&model.Consultation{}).Where("id = ?", consultationID).
			Updates(updates).Error; err != nil {
			return apperr.Internal(err, "failed to complete consultation %d", consultationID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Consultation completed",
		zap.Uint("consultation_id", consultationID),
		zap.Uint("consultant_user_id", actor.UserID))

	dispatch(ctx, s.dispatcher, s.log, notify.EventConsultationCompleted, consultation.UserID, consultationID,
		"Consultation completed, your plan is ready")

	return nil
}

// Rate stores the booking user's rating of a completed consultation and
// recomputes the consultant's aggregate in the same transaction.
func (s *ConsultationService) Rate(ctx context.Context, consultationID uint, rating int, feedback string, actor Actor) error {
	if rating < 1 || rating > 5 {
		return apperr.Validation("rating must be between 1 and 5")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.loadConsultation(tx, consultationID)
		if err != nil {
			return err
		}

		if c.UserID != actor.UserID {
			return apperr.PermissionDenied("not enough permissions")
		}

		if c.Status != model.ConsultationCompleted {
			return apperr.State("can only rate completed consultations")
		}

		updates := map[string]any{
			"rating":   rating,
			"feedback": feedback,
		}
		if err := tx.Model(&model.Consultation{}).Where("id = ?", consultationID).
			Updates(updates).Error; err != nil {
			return apperr.Internal(err, "failed to rate consultation %d", consultationID)
		}

		return s.ratings.RecomputeConsultant(tx, c.ConsultantID)
	})
}

func (s *ConsultationService) loadConsultation(tx *gorm.DB, id uint) (*model.Consultation, error) {
	var c model.Consultation
	if err := forUpdate(tx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("consultation not found")
		}
		return nil, apperr.Internal(err, "failed to load consultation %d", id)
	}
	return &c, nil
}

// requireParticipant allows the booking user, the assigned consultant, or an
// administrator.
func (s *ConsultationService) requireParticipant(tx *gorm.DB, c *model.Consultation, actor Actor) error {
	if actor.isAdmin() || c.UserID == actor.UserID {
		return nil
	}
	assigned, err := s.isAssignedConsultant(tx, c, actor)
	if err != nil {
		return err
	}
	if !assigned {
		return apperr.PermissionDenied("not enough permissions")
	}
	return nil
}

// isAssignedConsultant reports whether the actor's user account backs the
// consultation's consultant profile.
func (s *ConsultationService) isAssignedConsultant(tx *gorm.DB, c *model.Consultation, actor Actor) (bool, error) {
	if actor.Role != model.RoleConsultant {
		return false, nil
	}
	var consultant model.Consultant
	if err := tx.First(&consultant, c.ConsultantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperr.Internal(err, "failed to load consultant %d", c.ConsultantID)
	}
	return consultant.UserID == actor.UserID, nil
}
