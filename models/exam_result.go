package models

import (
	"time"
)

// ExamResult is a document attached to an exam (report, scan image).
// FileURL points at the uploaded copy in Cloudinary.
type ExamResult struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ExamID     uint      `json:"exam_id" gorm:"not null;index"`
	FileURL    string    `json:"file_url" gorm:"size:500;not null"`
	FileName   string    `json:"file_name" gorm:"size:255;not null"`
	Notes      *string   `json:"notes" gorm:"size:1000"`
	UploadedBy uint      `json:"uploaded_by" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the ExamResult model
func (ExamResult) TableName() string {
	return "exam_results"
}
