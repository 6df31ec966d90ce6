package config

import "os"

type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
	Region          string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type Config struct {
	Port        string
	FrontendURL string
	Storage     StorageConfig
	Stripe      StripeConfig
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
	}

	cfg.Storage.Endpoint = getEnv("STORAGE_ENDPOINT", "http://127.0.0.1:9000")
	cfg.Storage.AccessKeyID = getEnv("STORAGE_ACCESS_KEY_ID", "minioadmin")
	cfg.Storage.SecretAccessKey = getEnv("STORAGE_SECRET_ACCESS_KEY", "minioadmin")
	cfg.Storage.Bucket = getEnv("STORAGE_BUCKET", "product-images")
	cfg.Storage.PublicURL = getEnv("STORAGE_PUBLIC_URL", cfg.Storage.Endpoint+"/"+cfg.Storage.Bucket)
	cfg.Storage.Region = getEnv("STORAGE_REGION", "us-east-1")

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
