package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-server/database"
	"clinic-server/middleware"
	"clinic-server/models"
	"clinic-server/services"
	"clinic-server/types"
	ws "clinic-server/websocket"
)

// scheduleHub receives booking events for the staff feed. Nil when the
// feed is not running (tests); Publish tolerates that.
var scheduleHub *ws.Hub

// InitScheduleHub wires the websocket hub into the booking handlers
func InitScheduleHub(hub *ws.Hub) {
	scheduleHub = hub
}

// RegisterAppointmentRoutes registers consultation scheduling routes
func RegisterAppointmentRoutes(router *gin.RouterGroup) {
	router.POST("", createAppointment)
	router.GET("", listAppointments)
	router.GET("/:id", getAppointment)
	router.PUT("/:id", updateAppointment)
	router.DELETE("/:id", cancelAppointment)
}

type bookingCreateRequest struct {
	Name           string  `json:"name"` // exams only
	PatientID      uint    `json:"patient_id"`
	PractitionerID uint    `json:"practitioner_id"`
	Day            string  `json:"day"`
	Time           string  `json:"time"`
	Details        *string `json:"details"`
}

type bookingUpdateRequest struct {
	Status  *string `json:"status"`
	Details *string `json:"details"`
}

func createAppointment(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	var req bookingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, types.NewValidationError("Invalid request body"))
		return
	}

	svc := services.NewSchedulingService(database.DB)
	normalized, err := svc.ValidateCreate(services.KindAppointment, &services.BookingRequest{
		PatientID:      req.PatientID,
		PractitionerID: req.PractitionerID,
		Day:            req.Day,
		Time:           req.Time,
		Details:        req.Details,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	appointment := models.Appointment{
		PatientID:      normalized.PatientID,
		PractitionerID: normalized.PractitionerID,
		Day:            normalized.Day,
		Time:           normalized.Time,
		ScheduledAt:    normalized.ScheduledAt,
		Details:        normalized.Details,
		Status:         models.BookingStatusScheduled,
	}
	if err := database.DB.Create(&appointment).Error; err != nil {
		// A concurrent create can slip past the pre-check; the partial
		// unique index turns that into a duplicate-key error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, types.ErrSlotUnavailable)
			return
		}
		respondError(c, err)
		return
	}

	database.DB.Preload("Patient").Preload("Practitioner").First(&appointment, appointment.ID)

	scheduleHub.Publish(&ws.Event{
		Type:           "created",
		Resource:       "consulta",
		BookingID:      appointment.ID,
		PractitionerID: appointment.PractitionerID,
		ScheduledAt:    appointment.ScheduledAt,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment scheduled successfully",
		"appointment": appointment,
	})
}

func listAppointments(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	query := database.DB.Preload("Patient").Preload("Practitioner").Order("scheduled_at ASC")
	switch caller.Role {
	case models.RolePatient:
		query = query.Where("patient_id = ?", caller.ID)
	case models.RolePractitioner:
		query = query.Where("practitioner_id = ?", caller.ID)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

func getAppointment(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	var appointment models.Appointment
	if err := database.DB.Preload("Patient").Preload("Practitioner").
		First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, types.NewNotFoundError("Appointment not found"))
		return
	}

	if err := services.AuthorizeAccess(appointment.PatientID, appointment.PractitionerID, caller); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointment": appointment})
}

func updateAppointment(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, types.NewNotFoundError("Appointment not found"))
		return
	}

	if err := services.AuthorizeAccess(appointment.PatientID, appointment.PractitionerID, caller); err != nil {
		respondError(c, err)
		return
	}

	var req bookingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, types.NewValidationError("Invalid request body"))
		return
	}

	if req.Status != nil {
		status := models.BookingStatus(*req.Status)
		if err := services.ValidateStatus(status); err != nil {
			respondError(c, err)
			return
		}
		appointment.Status = status
	}
	if req.Details != nil {
		appointment.Details = req.Details
	}

	if err := database.DB.Save(&appointment).Error; err != nil {
		respondError(c, err)
		return
	}

	database.DB.Preload("Patient").Preload("Practitioner").First(&appointment, appointment.ID)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment updated successfully",
		"appointment": appointment,
	})
}

// cancelAppointment is a soft delete: the row stays, the status flips
func cancelAppointment(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, types.NewNotFoundError("Appointment not found"))
		return
	}

	if err := services.AuthorizeAccess(appointment.PatientID, appointment.PractitionerID, caller); err != nil {
		respondError(c, err)
		return
	}

	appointment.Status = models.BookingStatusCancelled
	if err := database.DB.Save(&appointment).Error; err != nil {
		respondError(c, err)
		return
	}

	scheduleHub.Publish(&ws.Event{
		Type:           "cancelled",
		Resource:       "consulta",
		BookingID:      appointment.ID,
		PractitionerID: appointment.PractitionerID,
		ScheduledAt:    appointment.ScheduledAt,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment cancelled successfully",
		"appointment": appointment,
	})
}
