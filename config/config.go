package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// PayOS payment gateway credentials
	PayOSBaseURL     string
	PayOSClientID    string
	PayOSApiKey      string
	PayOSChecksumKey string
	PayOSReturnURL   string
	PayOSCancelURL   string

	// SendGrid transactional email
	SendgridAPIKey string
	EmailSender    string
	EmailFromName  string

	// Minutes between expired-OTP cleanup runs
	OTPCleanupInterval int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "planpractice"),
		DBPort:     getEnv("DB_PORT", "5432"),

		PayOSBaseURL:     getEnv("PAYOS_BASE_URL", "https://api-merchant.payos.vn"),
		PayOSClientID:    getEnv("PAYOS_CLIENT_ID", ""),
		PayOSApiKey:      getEnv("PAYOS_API_KEY", ""),
		PayOSChecksumKey: getEnv("PAYOS_CHECKSUM_KEY", ""),
		PayOSReturnURL:   getEnv("PAYOS_RETURN_URL", "http://localhost:5173/payment/success"),
		PayOSCancelURL:   getEnv("PAYOS_CANCEL_URL", "http://localhost:5173/payment/cancel"),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@planpractice.app"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "PlanPractice"),

		OTPCleanupInterval: getEnvInt("OTP_CLEANUP_INTERVAL_MINUTES", 5),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.PayOSClientID == "" {
		log.Println("Warning: PayOS credentials not set. Payment links will not be created.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
