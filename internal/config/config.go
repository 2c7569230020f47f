// Package config provides configuration management for the application
package config

import (
	"os"
	"strconv"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	TemplatesDir string
	StaticDir    string
}

// RedisConfig holds Redis/Valkey configuration
type RedisConfig struct {
	Enabled bool
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// AIConfig holds configuration for the Gemini room recommender
type AIConfig struct {
	APIKey string
	Model  string
}

// GetServerConfig loads HTTP server configuration from environment variables
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:         getEnv("PORT", "8080"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "./internal/web/templates"),
		StaticDir:    getEnv("STATIC_DIR", "./internal/web/static"),
	}
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables.
// Bookings are stored without expiration: slots are only ever released by an
// explicit cancellation, never by a timeout.
func GetRedisConfig() RedisConfig {
	// Parse DB index
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:   getEnvBool("REDIS_ENABLED", false),
		URI:       getEnv("REDIS_URI_UNISPACE", ""),
		Host:      getEnv("REDIS_HOST_UNISPACE", getEnv("REDIS_ADDRESS", "localhost")),
		Port:      getEnv("REDIS_PORT_UNISPACE", "6379"),
		Username:  getEnv("REDIS_USERNAME_UNISPACE", ""),
		Password:  getEnv("REDIS_PASSWORD_UNISPACE", getEnv("REDIS_PASSWORD", "")),
		DB:        db,
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "unispace:"),
	}
}

// GetAIConfig loads Gemini configuration from environment variables
func GetAIConfig() AIConfig {
	return AIConfig{
		APIKey: getEnv("GEMINI_API_KEY", ""),
		Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
	}
}

// IsAIConfigValid checks if the recommender can be enabled
func (c AIConfig) IsAIConfigValid() bool {
	return c.APIKey != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
