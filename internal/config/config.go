package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    string
	DatabasePath  string
	JWTSecret     string
	AllowedOrigin string

	// Twilio credentials for outbound SMS notifications.
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	SMSCountryCode    string

	// Cron spec controlling how often expired listings are swept.
	ExpirySweepSchedule string
}

// Load loads configuration from a .env file (if present) and the
// environment, with defaults suited to local development.
func Load() (*Config, error) {
	// A missing .env file is fine; deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		ServerPort:          getEnv("PORT", "6001"),
		DatabasePath:        getEnv("DATABASE_PATH", "./bites.db"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		AllowedOrigin:       getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		TwilioAccountSID:    getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:     getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber:   getEnv("TWILIO_PHONE_NUMBER", ""),
		SMSCountryCode:      getEnv("SMS_COUNTRY_CODE", "+91"),
		ExpirySweepSchedule: getEnv("EXPIRY_SWEEP_SCHEDULE", "@every 15m"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
