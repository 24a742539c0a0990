package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// DB; DatabaseURL wins over the discrete fields when set
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPass      string
	DBName      string
	DBSSLMode   string

	// Push providers
	ExpoAccessToken string
	FirebaseCreds   string // raw service-account JSON, optional

	// Scheduler
	CronSecret string

	// Auth (Clerk-issued JWTs verified against the JWKS endpoint)
	JWKSURL     string
	RequireAuth bool

	// R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string

	// Circles
	PublicCircleID string // the welcome circle; joins there are not fanned out

	// App version gate
	MinAppVersion string
	TestflightURL string
	PlayStoreURL  string

	// Contact form SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	SMTPFromName string
	ContactTo    string

	// CORS
	AllowedOrigins string
}

func Load() *Config {
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load() // optional .env for local
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	smtpPort := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		smtpPort = p
	}

	return &Config{
		ServerPort: port,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    getEnv("DB_USER", "postgres"),
		DBPass:    getEnv("DB_PASS", "postgres"),
		DBName:    getEnv("DB_NAME", "grateful_db"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		ExpoAccessToken: os.Getenv("EXPO_ACCESS_TOKEN"),
		FirebaseCreds:   os.Getenv("FIREBASE_CREDENTIALS_JSON"),

		CronSecret: os.Getenv("CRON_SECRET"),

		JWKSURL:     os.Getenv("CLERK_JWKS_URL"),
		RequireAuth: getEnv("REQUIRE_AUTH", "false") == "true",

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2BucketName:      getEnv("R2_BUCKET_NAME", "gratitude-images"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		PublicCircleID: os.Getenv("PUBLIC_CIRCLE_ID"),

		MinAppVersion: getEnv("MIN_APP_VERSION", "1.0.8"),
		TestflightURL: getEnv("TESTFLIGHT_URL", "https://testflight.apple.com/join/6u5zHFms"),
		PlayStoreURL:  getEnv("PLAY_STORE_URL", "https://play.google.com/store/apps/details?id=so.grateful.app"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPFromName: "Grateful",
		ContactTo:    getEnv("CONTACT_TO", "hello@grateful.so"),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
