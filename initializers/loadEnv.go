package initializers

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseDSN       string
	JWTSecret         string
	CorsOrigins       []string
	FromEmail         string
	FromEmailPassword string
	FromEmailSMTP     string
	SMTPAddress       string
	S3Bucket          string
	LogLevel          string
	FrontendURL       string
}

var Env Config

// LoadEnv reads .env when present and fills Env from the process environment.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using process environment")
	}
	Env = ConfigFromEnv()
}

func ConfigFromEnv() Config {
	return Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseDSN:       os.Getenv("DB_DSN"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		CorsOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		FromEmail:         os.Getenv("FROM_EMAIL"),
		FromEmailPassword: os.Getenv("FROM_EMAIL_PASSWORD"),
		FromEmailSMTP:     os.Getenv("FROM_EMAIL_SMTP"),
		SMTPAddress:       os.Getenv("SMTP_ADDRESS"),
		S3Bucket:          getEnv("S3_BUCKET", "freezy-bites"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		FrontendURL:       strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
	}
}

func (c Config) MailConfigured() bool {
	return c.FromEmail != "" && c.SMTPAddress != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
