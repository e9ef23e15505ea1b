package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Cart      CartConfig
	Checkout  CheckoutConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type CartConfig struct {
	// SessionTTL is how long an idle cart survives before being dropped.
	SessionTTL time.Duration
}

type CheckoutConfig struct {
	ProcessingDelay       time.Duration
	FreeShippingThreshold float64
	FlatShippingRate      float64
	TaxRate               float64
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func Load() *Config {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CART_SESSION_TTL", "30m")
	viper.SetDefault("CHECKOUT_PROCESSING_DELAY", "2s")
	viper.SetDefault("CHECKOUT_FREE_SHIPPING_THRESHOLD", 100.0)
	viper.SetDefault("CHECKOUT_FLAT_SHIPPING_RATE", 10.0)
	viper.SetDefault("CHECKOUT_TAX_RATE", 0.1)
	viper.SetDefault("RATE_LIMIT_REQUESTS_PER_MINUTE", 120)

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cart: CartConfig{
			SessionTTL: viper.GetDuration("CART_SESSION_TTL"),
		},
		Checkout: CheckoutConfig{
			ProcessingDelay:       viper.GetDuration("CHECKOUT_PROCESSING_DELAY"),
			FreeShippingThreshold: viper.GetFloat64("CHECKOUT_FREE_SHIPPING_THRESHOLD"),
			FlatShippingRate:      viper.GetFloat64("CHECKOUT_FLAT_SHIPPING_RATE"),
			TaxRate:               viper.GetFloat64("CHECKOUT_TAX_RATE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: viper.GetInt("RATE_LIMIT_REQUESTS_PER_MINUTE"),
		},
	}
}
