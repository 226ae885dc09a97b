package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"clinic-server/database"
	"clinic-server/middleware"
	"clinic-server/models"
	"clinic-server/types"
	"clinic-server/utils"
)

// RegisterUserRoutes registers user management routes. Listing and reads
// are open to front-desk staff; mutations are admin-only.
func RegisterUserRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleAttendant)
	admin := middleware.RequireRoles(models.RoleAdmin)

	router.GET("", staff, listUsers)
	router.POST("", admin, createUser)
	router.GET("/:id", staff, getUser)
	router.PUT("/:id", admin, updateUser)
	router.DELETE("/:id", admin, deleteUser)
}

func listUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func createUser(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, types.NewValidationError("Invalid request body"))
		return
	}

	req.Name = middleware.SanitizeInput(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		respondError(c, types.NewValidationError("Missing required fields"))
		return
	}
	if ok, details := middleware.ValidatePasswordStrength(req.Password); !ok {
		respondError(c, types.NewValidationError(strings.Join(details, "; ")))
		return
	}
	role := models.UserRole(req.Role)
	if !models.IsValidRole(role) {
		respondError(c, types.NewValidationError("Invalid role"))
		return
	}

	var existing models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		respondError(c, types.NewConflictError("Email already registered"))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		respondError(c, err)
		return
	}

	log.Info().Uint("user_id", user.ID).Str("role", req.Role).Msg("user created by admin")

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

func getUser(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, types.NewNotFoundError("User not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func updateUser(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, types.NewNotFoundError("User not found"))
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, types.NewValidationError("Invalid request body"))
		return
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = middleware.SanitizeInput(*req.Name)
	}

	if req.Email != nil && *req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			var inUse models.User
			if err := database.DB.Where("email = ?", email).First(&inUse).Error; err == nil {
				respondError(c, types.NewConflictError("Email already in use"))
				return
			}
			user.Email = email
		}
	}

	if req.Role != nil {
		role := models.UserRole(*req.Role)
		if !models.IsValidRole(role) {
			respondError(c, types.NewValidationError("Invalid role"))
			return
		}
		user.Role = role
	}

	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if req.Password != nil && *req.Password != "" {
		if ok, details := middleware.ValidatePasswordStrength(*req.Password); !ok {
			respondError(c, types.NewValidationError(strings.Join(details, "; ")))
			return
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		user.PasswordHash = hash
	}

	if err := database.DB.Save(&user).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

// deleteUser deactivates the account. Rows are never removed: bookings
// keep their patient and practitioner references.
func deleteUser(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, types.NewNotFoundError("User not found"))
		return
	}

	user.IsActive = false
	if err := database.DB.Save(&user).Error; err != nil {
		respondError(c, err)
		return
	}

	log.Info().Uint("user_id", user.ID).Msg("user deactivated")

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}
