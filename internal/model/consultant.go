package model

import (
	"time"
)

// Consultant wraps a user profile with professional details. Rating and
// TotalConsultations are owned by the rating aggregator and always equal the
// mean/count of non-null ratings among the consultant's consultations.
type Consultant struct {
	ID                 uint      `json:"id" gorm:"primarykey"`
	UserID             uint      `json:"user_id" gorm:"unique;not null"`
	Specialization     string    `json:"specialization" gorm:"type:varchar(100)"`
	ExperienceYears    int       `json:"experience_years"`
	Qualifications     string    `json:"qualifications" gorm:"type:text"`
	Bio                string    `json:"bio" gorm:"type:text"`
	HourlyRate         float64   `json:"hourly_rate"`
	Rating             float64   `json:"rating" gorm:"default:0"`
	TotalConsultations int       `json:"total_consultations" gorm:"default:0"`
	IsAvailable        bool      `json:"is_available" gorm:"default:true"`
	CreatedAt          time.Time `json:"created_at"`
}

// Consultation is a booked session between a user and a consultant. Rating is
// nil until the booking user rates a completed session (1..5).
type Consultation struct {
	ID              uint               `json:"id" gorm:"primarykey"`
	UserID          uint               `json:"user_id" gorm:"index;not null"`
	ConsultantID    uint               `json:"consultant_id" gorm:"index;not null"`
	ScheduledTime   time.Time          `json:"scheduled_time" gorm:"index;not null"`
	DurationMinutes int                `json:"duration_minutes" gorm:"default:60"`
	Status          ConsultationStatus `json:"status" gorm:"type:varchar(20);default:'scheduled'"`
	Notes           string             `json:"notes" gorm:"type:text"`
	UserHealthData  string             `json:"user_health_data" gorm:"type:text"`
	ConsultantPlan  string             `json:"consultant_plan" gorm:"type:text"`
	Rating          *int               `json:"rating"`
	Feedback        string             `json:"feedback" gorm:"type:text"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}
