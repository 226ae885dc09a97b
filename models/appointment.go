package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "SCHEDULED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
)

// IsValidBookingStatus checks membership in the status enum
func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusScheduled, BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	default:
		return false
	}
}

// Appointment is a consultation booking. ScheduledAt is the canonical slot
// instant (day + time with seconds zeroed); a partial unique index on
// (practitioner_id, scheduled_at) excluding CANCELLED rows backs the
// conflict check (see database.Initialize).
type Appointment struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	PatientID      uint          `json:"patient_id" gorm:"not null;index"`
	PractitionerID uint          `json:"practitioner_id" gorm:"not null;index"`
	Day            time.Time     `json:"day" gorm:"not null"`
	Time           string        `json:"time" gorm:"size:5;not null"`
	ScheduledAt    time.Time     `json:"scheduled_at" gorm:"not null"`
	Details        *string       `json:"details" gorm:"size:1000"`
	Status         BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'SCHEDULED';check:status IN ('SCHEDULED','COMPLETED','CANCELLED','NO_SHOW')"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Patient      User `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	Practitioner User `json:"practitioner,omitempty" gorm:"foreignKey:PractitionerID"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}
