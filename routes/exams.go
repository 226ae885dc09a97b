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

// RegisterExamRoutes registers exam scheduling routes
func RegisterExamRoutes(router *gin.RouterGroup) {
	router.POST("", createExam)
	router.GET("", listExams)
	router.GET("/:id", getExam)
	router.PUT("/:id", updateExam)
	router.DELETE("/:id", cancelExam)
	router.POST("/:id/resultados", uploadExamResult)
}

func createExam(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	var req bookingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, types.NewValidationError("Invalid request body"))
		return
	}

	svc := services.NewSchedulingService(database.DB)
	normalized, err := svc.ValidateCreate(services.KindExam, &services.BookingRequest{
		Name:           req.Name,
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

	exam := models.Exam{
		Name:           normalized.Name,
		PatientID:      normalized.PatientID,
		PractitionerID: normalized.PractitionerID,
		Day:            normalized.Day,
		Time:           normalized.Time,
		ScheduledAt:    normalized.ScheduledAt,
		Details:        normalized.Details,
		Status:         models.BookingStatusScheduled,
	}
	if err := database.DB.Create(&exam).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, types.ErrSlotUnavailable)
			return
		}
		respondError(c, err)
		return
	}

	database.DB.Preload("Patient").Preload("Practitioner").First(&exam, exam.ID)

	scheduleHub.Publish(&ws.Event{
		Type:           "created",
		Resource:       "exame",
		BookingID:      exam.ID,
		PractitionerID: exam.PractitionerID,
		ScheduledAt:    exam.ScheduledAt,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Exam scheduled successfully",
		"exam":    exam,
	})
}

func listExams(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	query := database.DB.Preload("Patient").Preload("Practitioner").Order("scheduled_at ASC")
	switch caller.Role {
	case models.RolePatient:
		query = query.Where("patient_id = ?", caller.ID)
	case models.RolePractitioner:
		query = query.Where("practitioner_id = ?", caller.ID)
	}

	var exams []models.Exam
	if err := query.Find(&exams).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exams": exams})
}

func getExam(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	var exam models.Exam
	if err := database.DB.Preload("Patient").Preload("Practitioner").Preload("Results").
		First(&exam, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, types.NewNotFoundError("Exam not found"))
		return
	}

	if err := services.AuthorizeAccess(exam.PatientID, exam.PractitionerID, caller); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exam": exam})
}

func updateExam(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	var exam models.Exam
	if err := database.DB.First(&exam, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, types.NewNotFoundError("Exam not found"))
		return
	}

	if err := services.AuthorizeAccess(exam.PatientID, exam.PractitionerID, caller); err != nil {
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
		exam.Status = status
	}
	if req.Details != nil {
		exam.Details = req.Details
	}

	if err := database.DB.Save(&exam).Error; err != nil {
		respondError(c, err)
		return
	}

	database.DB.Preload("Patient").Preload("Practitioner").First(&exam, exam.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Exam updated successfully",
		"exam":    exam,
	})
}

func cancelExam(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	var exam models.Exam
	if err := database.DB.First(&exam, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, types.NewNotFoundError("Exam not found"))
		return
	}

	if err := services.AuthorizeAccess(exam.PatientID, exam.PractitionerID, caller); err != nil {
		respondError(c, err)
		return
	}

	exam.Status = models.BookingStatusCancelled
	if err := database.DB.Save(&exam).Error; err != nil {
		respondError(c, err)
		return
	}

	scheduleHub.Publish(&ws.Event{
		Type:           "cancelled",
		Resource:       "exame",
		BookingID:      exam.ID,
		PractitionerID: exam.PractitionerID,
		ScheduledAt:    exam.ScheduledAt,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Exam cancelled successfully",
		"exam":    exam,
	})
}
