package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// HTTP Server Configuration
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Worker Pool Configuration
	WorkerCount  int // 0 means max(1, NumCPU-1)
	JobQueueSize int

	// Conversion Configuration
	ConvertTimeout      time.Duration
	ConverterCommand    string
	SupportedExtensions []string

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// Retention Sweeper Configuration
	SweeperEnabled  bool
	SweeperSchedule string
	RetentionTTL    time.Duration

	// CORS Configuration
	CORSAllowedOrigins   string
	CORSAllowedMethods   string
	CORSAllowedHeaders   string
	CORSAllowCredentials bool
	CORSMaxAge           int
}

// Load reads configuration from the environment with sensible defaults. A
// .env file in the working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		// HTTP Server
		HTTPPort:         getEnv("HTTP_PORT", "5555"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30) * time.Second,
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 30) * time.Second,

		// Worker Pool
		WorkerCount:  getIntEnv("WORKER_COUNT", 0),
		JobQueueSize: getIntEnv("JOB_QUEUE_SIZE", 1024),

		// Conversion
		ConvertTimeout:      getDurationEnv("CONVERT_TIMEOUT_SEC", 120) * time.Second,
		ConverterCommand:    getEnv("CONVERTER_COMMAND", "markitdown"),
		SupportedExtensions: getListEnv("SUPPORTED_EXTENSIONS", []string{"pdf", "docx", "pptx", "txt", "md"}),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Retention Sweeper
		SweeperEnabled:  getBoolEnv("SWEEPER_ENABLED", true),
		SweeperSchedule: getEnv("SWEEPER_SCHEDULE", "@every 10m"),
		RetentionTTL:    getDurationEnv("RETENTION_TTL_SEC", 86400) * time.Second,

		// CORS
		CORSAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods:   getEnv("CORS_ALLOWED_METHODS", "GET, POST, OPTIONS"),
		CORSAllowedHeaders:   getEnv("CORS_ALLOWED_HEADERS", "*"),
		CORSAllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAge:           getIntEnv("CORS_MAX_AGE", 3600),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
		log.Printf("Warning: Invalid duration value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
