package routes

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"clinic-server/config"
	"clinic-server/database"
	"clinic-server/middleware"
	"clinic-server/models"
	"clinic-server/services"
	"clinic-server/types"
)

// validateResultFile validates extension and size (<= 5MB)
func validateResultFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	switch strings.ToLower(filepath.Ext(h.Filename)) {
	case ".pdf", ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// uploadExamResult attaches a result document to an exam. Staff only;
// practitioners may only attach to their own exams.
func uploadExamResult(c *gin.Context) {
	user := c.MustGet("user").(models.User)
	if !user.IsStaff() {
		respondError(c, types.NewForbiddenError("Access denied"))
		return
	}

	var exam models.Exam
	if err := database.DB.First(&exam, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, types.NewNotFoundError("Exam not found"))
		return
	}

	caller := middleware.CallerFrom(c)
	if caller.Role == models.RolePractitioner {
		if err := services.AuthorizeAccess(exam.PatientID, exam.PractitionerID, caller); err != nil {
			respondError(c, err)
			return
		}
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, types.NewValidationError("A result file is required"))
		return
	}
	if !validateResultFile(header) {
		respondError(c, types.NewValidationError("Result must be a pdf, jpg or png up to 5MB"))
		return
	}

	cfg := config.AppConfig.Cloudinary
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		respondError(c, fmt.Errorf("cloudinary not configured"))
		return
	}

	cld, err := cloudinary.NewFromURL(fmt.Sprintf("cloudinary://%s:%s@%s", cfg.APIKey, cfg.APISecret, cfg.CloudName))
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	uniqueFilename := true
	up, err := cld.Upload.Upload(c.Request.Context(), file, uploader.UploadParams{
		Folder:         "exams/" + strconv.Itoa(int(exam.ID)),
		PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
		UniqueFilename: &uniqueFilename,
	})
	if err != nil {
		log.Error().Err(err).Uint("exam_id", exam.ID).Msg("exam result upload failed")
		respondError(c, err)
		return
	}

	var notes *string
	if n := c.PostForm("notes"); n != "" {
		sanitized := middleware.SanitizeInput(n)
		notes = &sanitized
	}

	result := models.ExamResult{
		ExamID:     exam.ID,
		FileURL:    up.SecureURL,
		FileName:   header.Filename,
		Notes:      notes,
		UploadedBy: user.ID,
	}
	if err := database.DB.Create(&result).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Exam result uploaded successfully",
		"result":  result,
	})
}
