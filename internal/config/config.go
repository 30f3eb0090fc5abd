package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	OTPExpiry           time.Duration
	OTPRequestsPerHour  int
	ChallengeSweepEvery time.Duration

	EmailProvider string
	EmailAPIKey   string
	EmailSender   string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	UploadTempDir string
}

// Load reads .env when present, then the environment. Every knob has a
// development default except the secrets, which are logged as missing.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := &Config{
		HTTPAddr:    GetEnvAsString("HTTP_ADDR", ":8000"),
		PostgresDSN: GetEnvAsString("POSTGRES_DSN", "host=localhost user=postgres dbname=backendcourse port=5432 sslmode=disable"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       GetEnvAsInt("REDIS_DB", 0),

		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     GetEnvAsDuration("ACCESS_TOKEN_EXPIRY", time.Hour),
		RefreshTokenTTL:    GetEnvAsDuration("REFRESH_TOKEN_EXPIRY", 10*24*time.Hour),

		OTPExpiry:           GetEnvAsDuration("OTP_EXPIRY", 10*time.Minute),
		OTPRequestsPerHour:  GetEnvAsInt("OTP_REQUESTS_PER_HOUR", 5),
		ChallengeSweepEvery: GetEnvAsDuration("CHALLENGE_SWEEP_EVERY", 5*time.Minute),

		EmailProvider: GetEnvAsString("EMAIL_PROVIDER", "resend"),
		EmailAPIKey:   os.Getenv("EMAIL_API_KEY"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    GetEnvAsString("S3_REGION", "us-east-1"),
		S3Bucket:    GetEnvAsString("S3_BUCKET", "backendcourse"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		UploadTempDir: GetEnvAsString("UPLOAD_TEMP_DIR", "./public/temp"),
	}

	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		log.Println("warning: ACCESS_TOKEN_SECRET or REFRESH_TOKEN_SECRET is not set")
	}

	return cfg
}

// GetEnvAsInt gets environment variable as int with default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration gets environment variable as duration with default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetEnvAsString gets environment variable as string with default value
func GetEnvAsString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
