package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Sweep tuning. Defaults match the product behavior: a 30s scan cadence,
	// calls dwell in-progress for 5 minutes, reminders fire inside the final
	// 15 minutes before the target, and a call still untriggered 10 minutes
	// past its target is marked missed.
	SweepInterval     time.Duration
	DwellTime         time.Duration
	ReminderWindow    time.Duration
	TriggerWindow     time.Duration
	MissedGracePeriod time.Duration

	NoticeFeedLimit int

	CORSAllowedOrigins []string

	// SendGrid Email Configuration
	SendGridAPIKey        string
	SendGridFromEmail     string
	SendGridFromName      string
	NotifyEmailRecipients []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SweepInterval:     getEnvAsDuration("SWEEP_INTERVAL", 30*time.Second),
		DwellTime:         getEnvAsDuration("CALL_DWELL_TIME", 5*time.Minute),
		ReminderWindow:    getEnvAsDuration("REMINDER_WINDOW", 15*time.Minute),
		TriggerWindow:     getEnvAsDuration("TRIGGER_WINDOW", 60*time.Second),
		MissedGracePeriod: getEnvAsDuration("MISSED_GRACE_PERIOD", 10*time.Minute),

		NoticeFeedLimit: getEnvAsInt("NOTICE_FEED_LIMIT", 200),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		SendGridAPIKey:        getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:     getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:      getEnv("SENDGRID_FROM_NAME", "Voxlane"),
		NotifyEmailRecipients: getEnvAsList("NOTIFY_EMAIL_RECIPIENTS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
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

// getEnvAsList parses a comma-separated environment variable, trimming blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
