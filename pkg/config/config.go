package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, sourced from the environment.
type Config struct {
	Port              string
	Env               string
	PostgresConnStr   string
	MongoURI          string
	MongoDatabase     string
	RedisAddr         string
	RedisPassword     string
	NatsURL           string
	JWTSecret         string
	JWTRefreshSecret  string
	UploadPath        string
	MaxUploadBytes    int64
	AllowedImageTypes string
}

// Load reads the configuration from the environment, applying a .env
// file first so its values are visible to the lookups below.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		PostgresConnStr:   getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDatabase:     getEnv("MONGO_DATABASE", "stylesnap"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		NatsURL:           getEnv("NATS_URL", "nats://localhost:4222"),
		JWTSecret:         getEnv("JWT_SECRET", "supersecretjwtkey"),
		JWTRefreshSecret:  getEnv("JWT_REFRESH_SECRET", "supersecretrefreshkey"),
		UploadPath:        getEnv("UPLOAD_PATH", "./uploads"),
		MaxUploadBytes:    5 * 1024 * 1024,
		AllowedImageTypes: getEnv("ALLOWED_IMAGE_TYPES", "image/jpeg,image/png,image/webp"),
	}
}

// AllowedImageTypeList splits the configured content-type whitelist.
func (c *Config) AllowedImageTypeList() []string {
	var types []string
	for _, t := range strings.Split(c.AllowedImageTypes, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
