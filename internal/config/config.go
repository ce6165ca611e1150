package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI string
	DBName   string
	Port     string

	CORSOrigins []string

	FirebaseProjectID string
	IdentitySecret    string
	IdentityTimeout   time.Duration

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	PaymentCurrency   string
	GatewayTimeout    time.Duration

	RedisAddr string
	CacheTTL  time.Duration

	UploadBucket    string
	UploadRegion    string
	UploadEndpoint  string
	UploadPublicURL string
	UploadAccessKey string
	UploadSecretKey string
	UploadDir       string

	ShutdownTimeout time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	return Config{
		MongoURI: getEnvOrDefault("MONGO_URI", getEnvOrDefault("MONGO_URL", "")),
		DBName:   getEnvOrDefault("DB_NAME", "storefront"),
		Port:     getEnvOrDefault("PORT", "8080"),

		CORSOrigins: getListEnv("CORS_ORIGINS", []string{"*"}),

		FirebaseProjectID: getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
		IdentitySecret:    getEnvOrDefault("IDENTITY_JWT_SECRET", ""),
		IdentityTimeout:   getDurationEnv("IDENTITY_TIMEOUT", 5, time.Second),

		RazorpayKeyID:     getEnvOrDefault("RAZORPAY_KEY_ID", "rzp_test_key"),
		RazorpayKeySecret: getEnvOrDefault("RAZORPAY_KEY_SECRET", "rzp_test_secret"),
		RazorpayBaseURL:   getEnvOrDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
		PaymentCurrency:   strings.ToUpper(getEnvOrDefault("PAYMENT_CURRENCY", "INR")),
		GatewayTimeout:    getDurationEnv("GATEWAY_TIMEOUT", 10, time.Second),

		RedisAddr: getEnvOrDefault("REDIS_ADDR", ""),
		CacheTTL:  getDurationEnv("CACHE_TTL", 5, time.Minute),

		UploadBucket:    getEnvOrDefault("UPLOAD_BUCKET", ""),
		UploadRegion:    getEnvOrDefault("UPLOAD_REGION", "ap-south-1"),
		UploadEndpoint:  getEnvOrDefault("UPLOAD_ENDPOINT", ""),
		UploadPublicURL: getEnvOrDefault("UPLOAD_PUBLIC_URL", ""),
		UploadAccessKey: getEnvOrDefault("UPLOAD_ACCESS_KEY_ID", ""),
		UploadSecretKey: getEnvOrDefault("UPLOAD_SECRET_ACCESS_KEY", ""),
		UploadDir:       getEnvOrDefault("UPLOAD_DIR", "./public/uploads"),

		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30, time.Second),
	}
}

// Validate reports the first required setting that is missing.
func (c Config) Validate() error {
	if c.MongoURI == "" {
		return &MissingError{Key: "MONGO_URI"}
	}
	if c.FirebaseProjectID == "" && c.IdentitySecret == "" {
		return &MissingError{Key: "FIREBASE_PROJECT_ID or IDENTITY_JWT_SECRET"}
	}
	if len(c.PaymentCurrency) != 3 {
		return &InvalidError{Key: "PAYMENT_CURRENCY", Value: c.PaymentCurrency}
	}
	return nil
}

type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return "ENV " + e.Key + " is required"
}

type InvalidError struct {
	Key   string
	Value string
}

func (e *InvalidError) Error() string {
	return "ENV " + e.Key + " has invalid value " + strconv.Quote(e.Value)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getListEnv(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	out := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
