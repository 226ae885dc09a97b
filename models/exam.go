package models

import (
	"time"
)

// Exam is a diagnostic exam booking. Same slot semantics as Appointment,
// plus a required exam name and attached results.
type Exam struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	Name           string        `json:"name" gorm:"size:255;not null"`
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
	Patient      User         `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	Practitioner User         `json:"practitioner,omitempty" gorm:"foreignKey:PractitionerID"`
	Results      []ExamResult `json:"results,omitempty" gorm:"foreignKey:ExamID"`
}

// TableName specifies the table name for the Exam model
func (Exam) TableName() string {
	return "exams"
}
