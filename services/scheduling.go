package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"clinic-server/config"
	"clinic-server/models"
	"clinic-server/types"
)

// BookingKind selects which scheduling table a request targets.
type BookingKind string

const (
	KindAppointment BookingKind = "appointment"
	KindExam        BookingKind = "exam"
)

// Caller is the authenticated identity a request runs as.
type Caller struct {
	ID   uint
	Role models.UserRole
}

// BookingRequest is the raw create payload before validation.
// Name is required for exams only.
type BookingRequest struct {
	Name           string
	PatientID      uint
	PractitionerID uint
	Day            string
	Time           string
	Details        *string
}

// NormalizedBooking holds the validated fields ready for insertion,
// including the computed slot instant.
type NormalizedBooking struct {
	Name           string
	PatientID      uint
	PractitionerID uint
	Day            time.Time
	Time           string
	ScheduledAt    time.Time
	Details        *string
}

// SchedulingService validates and authorizes booking requests and detects
// slot conflicts before anything reaches persistence.
type SchedulingService struct {
	db *gorm.DB
}

// NewSchedulingService creates a new scheduling service
func NewSchedulingService(db *gorm.DB) *SchedulingService {
	return &SchedulingService{db: db}
}

const (
	dayLayout  = "2006-01-02"
	timeLayout = "15:04"
)

// ParseSlot combines a calendar day and an HH:MM clock time into the
// canonical slot instant. Seconds and nanoseconds are zeroed. Server-local
// time is used throughout; create and conflict lookup must agree on this,
// so every slot computation goes through here.
func ParseSlot(day, clock string) (time.Time, time.Time, error) {
	d, err := time.ParseInLocation(dayLayout, day, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, types.NewValidationError("Invalid day, expected YYYY-MM-DD")
	}
	t, err := time.ParseInLocation(timeLayout, clock, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, types.NewValidationError("Invalid time, expected HH:MM")
	}
	slot := time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
	return d, slot, nil
}

// ValidateCreate runs the full create-time rule set in order, first
// failure wins:
//
//  1. required fields
//  2. patients may only book for themselves
//  3. patient must exist and be active
//  4. practitioner must hold the PRACTITIONER role (and be active, for
//     appointments)
//  5. day+time parse into the slot instant
//  6. no non-cancelled booking for the practitioner at that slot
func (s *SchedulingService) ValidateCreate(kind BookingKind, req *BookingRequest, caller Caller) (*NormalizedBooking, error) {
	if kind == KindExam && req.Name == "" {
		return nil, types.NewValidationError("Missing required fields")
	}
	if req.PatientID == 0 || req.PractitionerID == 0 || req.Day == "" || req.Time == "" {
		return nil, types.NewValidationError("Missing required fields")
	}

	if caller.Role == models.RolePatient && req.PatientID != caller.ID {
		return nil, types.NewForbiddenError("Patients may only book for themselves")
	}

	var patient models.User
	if err := s.db.First(&patient, req.PatientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewValidationError("Invalid or inactive patient")
		}
		return nil, err
	}
	if !patient.IsActive {
		return nil, types.NewValidationError("Invalid or inactive patient")
	}

	var practitioner models.User
	if err := s.db.First(&practitioner, req.PractitionerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewValidationError("Invalid practitioner")
		}
		return nil, err
	}
	if practitioner.Role != models.RolePractitioner {
		return nil, types.NewValidationError("Invalid practitioner")
	}
	if kind == KindAppointment && !practitioner.IsActive {
		return nil, types.NewValidationError("Invalid practitioner")
	}

	day, slot, err := ParseSlot(req.Day, req.Time)
	if err != nil {
		return nil, err
	}

	conflict, err := s.HasConflict(kind, req.PractitionerID, slot)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, types.ErrSlotUnavailable
	}

	return &NormalizedBooking{
		Name:           req.Name,
		PatientID:      req.PatientID,
		PractitionerID: req.PractitionerID,
		Day:            day,
		Time:           req.Time,
		ScheduledAt:    slot,
		Details:        req.Details,
	}, nil
}

// HasConflict reports whether the practitioner already has a booking of
// the given kind at the slot. Cancelled rows block rebooking only when
// CANCELLED_FREES_SLOT is off.
func (s *SchedulingService) HasConflict(kind BookingKind, practitionerID uint, slot time.Time) (bool, error) {
	query := s.db.Model(modelFor(kind)).
		Where("practitioner_id = ? AND scheduled_at = ?", practitionerID, slot)
	if config.AppConfig.Scheduling.CancelledFreesSlot {
		query = query.Where("status <> ?", models.BookingStatusCancelled)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func modelFor(kind BookingKind) interface{} {
	if kind == KindExam {
		return &models.Exam{}
	}
	return &models.Appointment{}
}

// AuthorizeAccess gates read/update/cancel on an existing booking:
// admins and attendants see everything, patients only their own bookings,
// practitioners only bookings assigned to them.
func AuthorizeAccess(patientID, practitionerID uint, caller Caller) error {
	switch caller.Role {
	case models.RoleAdmin, models.RoleAttendant:
		return nil
	case models.RolePatient:
		if patientID == caller.ID {
			return nil
		}
	case models.RolePractitioner:
		if practitionerID == caller.ID {
			return nil
		}
	}
	return types.NewForbiddenError("Access denied")
}

// ValidateStatus checks the value against the status enum. Any status may
// transition to any other; only the value itself is validated.
func ValidateStatus(status models.BookingStatus) error {
	if !models.IsValidBookingStatus(status) {
		return types.NewValidationError("Invalid status")
	}
	return nil
}
