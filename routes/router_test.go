package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clinic-server/config"
	"clinic-server/database"
	"clinic-server/middleware"
	"clinic-server/models"
	"clinic-server/services"
	"clinic-server/utils"
)

// setupTestServer wires an in-memory store and the same route layout main
// composes, minus rate limiting and the websocket feed.
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:       "test-access-secret",
			AccessExpiryMin:    15,
			RefreshSecret:      "test-refresh-secret",
			RefreshExpiryHours: 168,
		},
		Scheduling: config.SchedulingConfig{CancelledFreesSlot: true},
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	r := gin.New()
	api := r.Group("/api/v1")
	RegisterAuthRoutes(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	RegisterUserRoutes(protected.Group("/usuarios"))
	RegisterAppointmentRoutes(protected.Group("/consultas"))
	RegisterExamRoutes(protected.Group("/exames"))

	return r
}

func createTestUser(t *testing.T, name, email, password string, role models.UserRole, active bool) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, _, err := services.NewTokenService().GenerateAccessToken(&user)
	require.NoError(t, err)
	return token
}

func performJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}
