package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// CORS
	CORSAllowedOrigins string

	// Auth
	JWTSecret   string
	TokenExpiry time.Duration

	// Gemini (primary completion provider)
	GeminiAPIKey  string
	GeminiModelID string

	// OpenAI (fallback completion provider)
	OpenAIAPIKey  string
	OpenAIModelID string

	// Voice agent platform
	VoiceAPIKey        string
	VoiceBaseURL       string
	VoicePhoneNumberID string
	// RealCallConfirmDelay is how long after a call is placed the booking is
	// recorded. The telephony side has no duplex channel back to us, so call
	// outcome is assumed, not observed.
	RealCallConfirmDelay time.Duration

	// Negotiation pacing
	TurnDelay    time.Duration
	ConfirmDelay time.Duration

	// Email notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Realtime feed
	BookingChangeChannel string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenExpiry: getEnvAsDuration("TOKEN_EXPIRY", 24*time.Hour),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-1.5-flash"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModelID: getEnv("OPENAI_MODEL_ID", "gpt-3.5-turbo"),

		VoiceAPIKey:          getEnv("VOICE_API_KEY", ""),
		VoiceBaseURL:         getEnv("VOICE_BASE_URL", "https://api.vapi.ai"),
		VoicePhoneNumberID:   getEnv("VOICE_PHONE_NUMBER_ID", ""),
		RealCallConfirmDelay: getEnvAsDuration("REAL_CALL_CONFIRM_DELAY", 15*time.Second),

		TurnDelay:    getEnvAsDuration("NEGOTIATION_TURN_DELAY", 1500*time.Millisecond),
		ConfirmDelay: getEnvAsDuration("NEGOTIATION_CONFIRM_DELAY", time.Second),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "QuickCare"),

		BookingChangeChannel: getEnv("BOOKING_CHANGE_CHANNEL", "booking_changes"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
