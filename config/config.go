package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	Env                 string
	MongoURI            string
	MongoDatabase       string
	StripeSecretKey     string
	StripeWebhookSecret string
	ClientURL           string
	JWTSecret           string
	RedisURL            string
	KafkaBrokers        string
	KafkaOrderTopic     string
}

// LoadConfig reads configuration from the environment, with an
// optional .env file for local development.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "3000"),
		Env:                 getEnv("APP_ENV", "development"),
		MongoURI:            os.Getenv("MONGODB_URI"),
		MongoDatabase:       getEnv("MONGODB_DATABASE", "PlantNet"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		ClientURL:           getEnv("CLIENT_URL", "http://localhost:5173"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		RedisURL:            getEnv("REDIS_URL", ""),
		KafkaBrokers:        getEnv("KAFKA_BROKERS", ""),
		KafkaOrderTopic:     getEnv("ORDER_EVENTS_TOPIC", "order.events"),
	}

	if cfg.MongoURI == "" || cfg.StripeSecretKey == "" || cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
