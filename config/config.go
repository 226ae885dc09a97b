package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Cloudinary CloudinaryConfig
	CORS       CORSConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	AccessSecret       string
	AccessExpiryMin    int
	RefreshSecret      string
	RefreshExpiryHours int
}

type SchedulingConfig struct {
	// CancelledFreesSlot controls whether a CANCELLED booking releases its
	// practitioner slot for rebooking.
	CancelledFreesSlot bool
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DB_URL"),
		},
		JWT: JWTConfig{
			AccessSecret:       os.Getenv("JWT_SECRET"),
			AccessExpiryMin:    getEnvAsInt("JWT_EXPIRES_IN_MINUTES", 15),
			RefreshSecret:      os.Getenv("REFRESH_JWT_SECRET"),
			RefreshExpiryHours: getEnvAsInt("REFRESH_JWT_EXPIRES_IN_HOURS", 168),
		},
		Scheduling: SchedulingConfig{
			CancelledFreesSlot: getEnvAsBool("CANCELLED_FREES_SLOT", true),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
	}
}

// Validate enforces the configuration the server refuses to start without.
// Both token secrets are mandatory and must differ: a refresh token signed
// with the access secret would otherwise verify as an access token.
func Validate() error {
	if AppConfig.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if AppConfig.JWT.RefreshSecret == "" {
		return fmt.Errorf("REFRESH_JWT_SECRET is required (no fallback to JWT_SECRET)")
	}
	if AppConfig.JWT.AccessSecret == AppConfig.JWT.RefreshSecret {
		return fmt.Errorf("JWT_SECRET and REFRESH_JWT_SECRET must be different")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitEnv(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
