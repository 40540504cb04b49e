package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port           string
	PostgresDSN    string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	RedisPassword  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	GoogleClientID string
	AllowedOrigins []string
}

func Load() *Config {
	// Local development reads a .env file; in containers the variables are
	// already in the environment and the file is simply absent.
	_ = godotenv.Load()

	return &Config{
		Port:           getenv("PORT", "5000"),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		MongoURI:       getenv("MONGO_URI", ""),
		MongoDB:        getenv("MONGO_DB", "quadharvest"),
		RedisAddr:      getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "uploads"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		GoogleClientID: getenv("GOOGLE_CLIENT_ID", ""),
		AllowedOrigins: []string{
			getenv("FRONTEND_ORIGIN", "http://localhost:5173"),
			"https://quadharvest-git-main-quadrials-projects.vercel.app",
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
