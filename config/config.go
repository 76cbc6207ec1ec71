// Package config loads service configuration from the environment, with a
// .env file picked up when present.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every knob the service reads at startup.
type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	StripeKey      string
	PostmarkToken  string
	EmailSender    string
	Currency       string
	DeliveryFee    float64
	FrontendOrigin string
}

// Load reads configuration from a .env file (if present) and the
// environment, applying defaults for everything but secrets.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	return Config{
		Port:           getEnv("PORT", "8000"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("DB_NAME", "marketplace"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		StripeKey:      os.Getenv("STRIPE_SECRET_KEY"),
		PostmarkToken:  os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:    os.Getenv("EMAIL_SENDER"),
		Currency:       getEnv("CURRENCY", "usd"),
		DeliveryFee:    getEnvFloat("DELIVERY_FEE", 10),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %v", key, value, fallback)
		return fallback
	}
	return parsed
}
