package cmd

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries every externally supplied setting of the service.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	PaystackBaseURL   string
	PaystackSecretKey string
	GeocoderBaseURL   string

	WsToken string

	// BaseCourierRate is the flat per-delivery component of courier
	// earnings, in the platform currency.
	BaseCourierRate float64

	// EscrowReleaseSchedule is a six-field cron expression; empty uses the
	// job's default.
	EscrowReleaseSchedule string
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	config := Config{
		HTTPPort:              envOr("HTTP_PORT", "8080"),
		DBHost:                os.Getenv("DB_HOST"),
		DBPort:                envOr("DB_PORT", "5432"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBSslMode:             envOr("DB_SSLMODE", "disable"),
		PaystackBaseURL:       envOr("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		PaystackSecretKey:     os.Getenv("PAYSTACK_SECRET_KEY"),
		GeocoderBaseURL:       os.Getenv("GEOCODER_BASE_URL"),
		WsToken:               os.Getenv("WS_TOKEN"),
		EscrowReleaseSchedule: os.Getenv("ESCROW_RELEASE_SCHEDULE"),
	}

	rate, err := strconv.ParseFloat(envOr("BASE_COURIER_RATE", "500"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("BASE_COURIER_RATE is not a number: %w", err)
	}
	config.BaseCourierRate = rate

	for _, required := range []struct{ name, value string }{
		{"DB_HOST", config.DBHost},
		{"DB_USER", config.DBUser},
		{"DB_PASSWORD", config.DBPassword},
		{"DB_NAME", config.DBName},
		{"PAYSTACK_SECRET_KEY", config.PaystackSecretKey},
		{"GEOCODER_BASE_URL", config.GeocoderBaseURL},
		{"WS_TOKEN", config.WsToken},
	} {
		if required.value == "" {
			return Config{}, fmt.Errorf("%s is not set", required.name)
		}
	}

	return config, nil
}

// DSN renders the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
