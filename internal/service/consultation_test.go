package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
	"github.com/mallikarjunadanduba/FitLife360/internal/model"
	"github.com/mallikarjunadanduba/FitLife360/internal/notify"
	"gorm.io/gorm"
)

func newConsultationService(db *gorm.DB) *ConsultationService {
	return NewConsultationService(db, notify.NopDispatcher{}, testLogger())
}

func userActor(u *model.User) Actor       { return Actor{UserID: u.ID, Role: model.RoleUser} }
func consultantActor(u *model.User) Actor { return Actor{UserID: u.ID, Role: model.RoleConsultant} }
func adminActor(u *model.User) Actor      { return Actor{UserID: u.ID, Role: model.RoleAdmin} }

func TestBookConsultation(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	client := seedUser(t, db, "client", model.RoleUser)
	coach := seedUser(t, db, "coach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, true)

	at := testTime(t, "2026-09-10T10:00:00Z")
	c, err := svc.Book(context.Background(), client.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: at,
	})
	require.NoError(t, err)
	require.Equal(t, model.ConsultationScheduled, c.Status)
	require.Equal(t, 60, c.DurationMinutes) // default duration
	require.True(t, c.ScheduledTime.Equal(at))
}

func TestBookConsultationSlotConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	first := seedUser(t, db, "first", model.RoleUser)
	second := seedUser(t, db, "second", model.RoleUser)
	coach := seedUser(t, db, "coach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, true)

	at := testTime(t, "2026-09-10T10:00:00Z")
	_, err := svc.Book(context.Background(), first.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: at,
	})
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), second.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: at,
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// a different exact time on the same consultant is free
	_, err = svc.Book(context.Background(), second.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: testTime(t, "2026-09-10T11:00:00Z"),
	})
	require.NoError(t, err)
}

func TestBookConsultationSlotFreedByCancellation(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	first := seedUser(t, db, "first", model.RoleUser)
	second := seedUser(t, db, "second", model.RoleUser)
	coach := seedUser(t, db, "coach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, true)

	at := testTime(t, "2026-09-10T10:00:00Z")
	c, err := svc.Book(context.Background(), first.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: at,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), c.ID, userActor(first)))

	// cancelled bookings no longer occupy the slot
	_, err = svc.Book(context.Background(), second.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: at,
	})
	require.NoError(t, err)
}

func TestBookConsultationUnavailableConsultant(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	client := seedUser(t, db, "client", model.RoleUser)
	coach := seedUser(t, db, "coach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, false)

	_, err := svc.Book(context.Background(), client.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: testTime(t, "2026-09-10T10:00:00Z"),
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestBookConsultationUnknownConsultant(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	client := seedUser(t, db, "client", model.RoleUser)

	_, err := svc.Book(context.Background(), client.ID, BookInput{
		ConsultantID:  404,
		ScheduledTime: testTime(t, "2026-09-10T10:00:00Z"),
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCancelConsultationPermissions(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	client := seedUser(t, db, "client", model.RoleUser)
	stranger := seedUser(t, db, "stranger", model.RoleUser)
	coach := seedUser(t, db, "coach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, true)

	book := func(at string) *model.Consultation {
		c, err := svc.Book(context.Background(), client.ID, BookInput{
			ConsultantID:  consultant.ID,
			ScheduledTime: testTime(t, at),
		})
		require.NoError(t, err)
		return c
	}

	c := book("2026-09-10T10:00:00Z")
	err := svc.Cancel(context.Background(), c.ID, userActor(stranger))
	require.Error(t, err)
	require.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	// booking user, assigned consultant, and admin may all cancel
	require.NoError(t, svc.Cancel(context.Background(), c.ID, userActor(client)))

	c = book("2026-09-11T10:00:00Z")
	require.NoError(t, svc.Cancel(context.Background(), c.ID, consultantActor(coach)))

	c = book("2026-09-12T10:00:00Z")
	require.NoError(t, svc.Cancel(context.Background(), c.ID, adminActor(stranger)))
}

func TestCancelConsultationTwice(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	client := seedUser(t, db, "client", model.RoleUser)
	coach := seedUser(t, db, "coach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, true)

	c, err := svc.Book(context.Background(), client.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: testTime(t, "2026-09-10T10:00:00Z"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), c.ID, userActor(client)))

	err = svc.Cancel(context.Background(), c.ID, userActor(client))
	require.Error(t, err)
	require.Equal(t, apperr.KindState, apperr.KindOf(err))
}

func TestRescheduleConsultation(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	client := seedUser(t, db, "client", model.RoleUser)
	other := seedUser(t, db, "other", model.RoleUser)
	coach := seedUser(t, db, "coach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, true)

	c, err := svc.Book(context.Background(), client.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: testTime(t, "2026-09-10T10:00:00Z"),
	})
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), other.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: testTime(t, "2026-09-10T11:00:00Z"),
	})
	require.NoError(t, err)

	// moving onto the other booking's slot is rejected
	err = svc.Reschedule(context.Background(), c.ID, testTime(t, "2026-09-10T11:00:00Z"), userActor(client))
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	newTime := testTime(t, "2026-09-10T12:00:00Z")
	require.NoError(t, svc.Reschedule(context.Background(), c.ID, newTime, userActor(client)))

	var reloaded model.Consultation
	require.NoError(t, db.First(&reloaded, c.ID).Error)
	require.Equal(t, model.ConsultationRescheduled, reloaded.Status)
	require.True(t, reloaded.ScheduledTime.Equal(newTime))

	// a rescheduled booking still holds its slot
	_, err = svc.Book(context.Background(), other.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: newTime,
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRescheduleToOwnSlot(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	client := seedUser(t, db, "client", model.RoleUser)
	coach := seedUser(t, db, "coach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, true)

	at := testTime(t, "2026-09-10T10:00:00Z")
	c, err := svc.Book(context.Background(), client.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: at,
	})
	require.NoError(t, err)

	// the booking's own row is excluded from the conflict check
	require.NoError(t, svc.Reschedule(context.Background(), c.ID, at, userActor(client)))
}

func TestCompleteConsultation(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	client := seedUser(t, db, "client", model.RoleUser)
	coach := seedUser(t, db, "coach", model.RoleConsultant)
	otherCoach := seedUser(t, db, "othercoach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, true)
	seedConsultant(t, db, otherCoach, true)

	c, err := svc.Book(context.Background(), client.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: testTime(t, "2026-09-10T10:00:00Z"),
	})
	require.NoError(t, err)

	// the booking user cannot complete, nor can an unrelated consultant
	err = svc.Complete(context.Background(), c.ID, "eat more greens", userActor(client))
	require.Error(t, err)
	require.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	err = svc.Complete(context.Background(), c.ID, "eat more greens", consultantActor(otherCoach))
	require.Error(t, err)
	require.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	require.NoError(t, svc.Complete(context.Background(), c.ID, "eat more greens", consultantActor(coach)))

	var reloaded model.Consultation
	require.NoError(t, db.First(&reloaded, c.ID).Error)
	require.Equal(t, model.ConsultationCompleted, reloaded.Status)
	require.Equal(t, "eat more greens", reloaded.ConsultantPlan)

	// completed consultations cannot be cancelled
	err = svc.Cancel(context.Background(), c.ID, consultantActor(coach))
	require.Error(t, err)
	require.Equal(t, apperr.KindState, apperr.KindOf(err))
}

func TestRateConsultationAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	coach := seedUser(t, db, "coach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, true)

	ratings := []int{5, 4, 3}
	for i, rating := range ratings {
		client := seedUser(t, db, "client"+string(rune('a'+i)), model.RoleUser)
		c, err := svc.Book(context.Background(), client.ID, BookInput{
			ConsultantID:  consultant.ID,
			ScheduledTime: testTime(t, "2026-09-10T10:00:00Z").Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)

		require.NoError(t, svc.Complete(context.Background(), c.ID, "plan", consultantActor(coach)))
		require.NoError(t, svc.Rate(context.Background(), c.ID, rating, "thanks", userActor(client)))
	}

	var reloaded model.Consultant
	require.NoError(t, db.First(&reloaded, consultant.ID).Error)
	require.InDelta(t, 4.0, reloaded.Rating, 1e-9)
	require.Equal(t, 3, reloaded.TotalConsultations)
}

func TestRateConsultationGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newConsultationService(db)

	client := seedUser(t, db, "client", model.RoleUser)
	stranger := seedUser(t, db, "stranger", model.RoleUser)
	coach := seedUser(t, db, "coach", model.RoleConsultant)
	consultant := seedConsultant(t, db, coach, true)

	c, err := svc.Book(context.Background(), client.ID, BookInput{
		ConsultantID:  consultant.ID,
		ScheduledTime: testTime(t, "2026-09-10T10:00:00Z"),
	})
	require.NoError(t, err)

	// not completed yet
	err = svc.Rate(context.Background(), c.ID, 5, "", userActor(client))
	require.Error(t, err)
	require.Equal(t, apperr.KindState, apperr.KindOf(err))

	require.NoError(t, svc.Complete(context.Background(), c.ID, "plan", consultantActor(coach)))

	for _, rating := range []int{0, 6, -1} {
		err = svc.Rate(context.Background(), c.ID, rating, "", userActor(client))
		require.Error(t, err)
		require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}

	err = svc.Rate(context.Background(), c.ID, 5, "", userActor(stranger))
	require.Error(t, err)
	require.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}
