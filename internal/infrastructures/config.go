package infrastructures

import (
	"os"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	PORT                  string
	DATABASE_URL          string
	REDIS_ADDRESS         string
	REDIS_PASSWORD        string
	JWT_SECRET            string
	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	TOPUP_SUCCESS_URL     string
	TOPUP_CANCEL_URL      string
	TEXTAGENT_BASE_URL    string
	TEXTAGENT_API_KEY     string
	SMTP_HOST             string
	SMTP_PORT             string
	SMTP_SENDER           string
	SMTP_PASSWORD         string
	CRON_TRIGGER_KEY      string
}

var Config *AppConfig

func LoadConfig() *AppConfig {
	godotenv.Load()

	Config = &AppConfig{
		PORT:                  getEnv("PORT", "8080"),
		DATABASE_URL:          os.Getenv("DATABASE_URL"),
		REDIS_ADDRESS:         os.Getenv("REDIS_ADDRESS"),
		REDIS_PASSWORD:        os.Getenv("REDIS_PASSWORD"),
		JWT_SECRET:            os.Getenv("JWT_SECRET"),
		STRIPE_SECRET_KEY:     os.Getenv("STRIPE_SECRET_KEY"),
		STRIPE_WEBHOOK_SECRET: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		TOPUP_SUCCESS_URL:     os.Getenv("TOPUP_SUCCESS_URL"),
		TOPUP_CANCEL_URL:      os.Getenv("TOPUP_CANCEL_URL"),
		TEXTAGENT_BASE_URL:    os.Getenv("TEXTAGENT_BASE_URL"),
		TEXTAGENT_API_KEY:     os.Getenv("TEXTAGENT_API_KEY"),
		SMTP_HOST:             getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTP_PORT:             getEnv("SMTP_PORT", "587"),
		SMTP_SENDER:           os.Getenv("SMTP_SENDER"),
		SMTP_PASSWORD:         os.Getenv("SMTP_PASSWORD"),
		CRON_TRIGGER_KEY:      os.Getenv("CRON_TRIGGER_KEY"),
	}

	return Config
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
