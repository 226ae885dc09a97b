package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"clinic-server/database"
	"clinic-server/middleware"
	"clinic-server/models"
	"clinic-server/services"
	"clinic-server/types"
	"clinic-server/utils"
)

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	tokenService := services.NewTokenService()

	// Self-registration always creates a PATIENT; staff accounts are
	// created by admins through /usuarios.
	router.POST("/register", func(c *gin.Context) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, types.NewValidationError("Invalid request body"))
			return
		}

		req.Name = middleware.SanitizeInput(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if req.Name == "" || req.Email == "" || req.Password == "" {
			respondError(c, types.NewValidationError("Name, email and password are required"))
			return
		}
		if !utils.ValidateEmail(req.Email) {
			respondError(c, types.NewValidationError("Invalid email"))
			return
		}
		if ok, details := middleware.ValidatePasswordStrength(req.Password); !ok {
			respondError(c, types.NewValidationError(strings.Join(details, "; ")))
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
			Role:         models.RolePatient,
			IsActive:     true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondError(c, types.NewConflictError("Email already registered"))
				return
			}
			respondError(c, err)
			return
		}

		log.Info().Uint("user_id", user.ID).Msg("user registered")

		c.JSON(http.StatusCreated, gin.H{
			"message": "User created successfully",
			"user":    user,
		})
	})

	router.POST("/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, types.NewValidationError("Invalid request body"))
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || req.Password == "" {
			respondError(c, types.NewValidationError("Email and password are required"))
			return
		}

		// Unknown email and wrong password take the same exit so the
		// response never reveals which one failed.
		var user models.User
		if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
			respondError(c, types.ErrInvalidCredentials)
			return
		}

		if !user.IsActive {
			respondError(c, types.ErrAuthForbidden)
			return
		}

		if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
			respondError(c, types.ErrInvalidCredentials)
			return
		}

		tokens, err := tokenService.GenerateTokenPair(&user)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Login successful",
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_in":    tokens.ExpiresIn,
			"user":          user,
		})
	})

	router.POST("/refresh", func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			respondError(c, types.NewValidationError("Refresh token is required"))
			return
		}

		userID, err := tokenService.ValidateRefreshToken(req.RefreshToken)
		if err != nil {
			respondError(c, types.ErrInvalidToken)
			return
		}

		// Re-resolve the identity: the fresh access token carries the
		// current role, and deactivated users get no new tokens.
		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			respondError(c, types.ErrAuthForbidden)
			return
		}
		if !user.IsActive {
			respondError(c, types.ErrAuthForbidden)
			return
		}

		accessToken, expiresIn, err := tokenService.GenerateAccessToken(&user)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Token renewed successfully",
			"access_token": accessToken,
			"expires_in":   expiresIn,
		})
	})

	router.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {
		user := c.MustGet("user").(models.User)
		c.JSON(http.StatusOK, gin.H{"user": user})
	})
}
