package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin        UserRole = "ADMIN"
	RolePatient      UserRole = "PATIENT"
	RoleAttendant    UserRole = "ATTENDANT"
	RolePractitioner UserRole = "PRACTITIONER"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'PATIENT';check:role IN ('ADMIN','PATIENT','ATTENDANT','PRACTITIONER')"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsValidRole checks if the role is one of the four known values
func IsValidRole(role UserRole) bool {
	switch role {
	case RoleAdmin, RolePatient, RoleAttendant, RolePractitioner:
		return true
	default:
		return false
	}
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsPatient checks if the user is a patient
func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

// IsStaff reports whether the user may use staff-only surfaces
func (u *User) IsStaff() bool {
	switch u.Role {
	case RoleAdmin, RoleAttendant, RolePractitioner:
		return true
	default:
		return false
	}
}
