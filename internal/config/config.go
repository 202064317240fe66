package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs, loaded once at startup and
// treated as immutable afterwards. Components receive the values they need
// at construction; nothing reads the environment later.
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// CORS
	AllowedOrigins []string

	// Storage: "local" or "s3"
	StorageDriver string

	// Local storage
	UploadDir   string
	FileBaseURL string

	// S3-compatible storage
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string
	S3PublicURL string

	// Images
	ImageNameLength   int
	ImagesPerPage     int
	AllowedExtensions []string

	// Logging
	LogLevel string
}

// Load reads configuration from the environment, with a .env file for
// development.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", "postgresql://localhost:5432/threesixty?sslmode=disable"),

		AllowedOrigins: splitComma(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		StorageDriver: getEnv("STORAGE_DRIVER", "local"),

		UploadDir:   getEnv("UPLOAD_DIR", "./images"),
		FileBaseURL: getEnv("FILE_BASE_URL", "http://localhost:8080/files"),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "threesixty-images"),
		S3Prefix:    getEnv("S3_PREFIX", "uploads"),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		ImageNameLength:   parseInt(getEnv("IMAGE_NAME_LENGTH", "7"), 7),
		ImagesPerPage:     parseInt(getEnv("IMAGES_PER_PAGE", "20"), 20),
		AllowedExtensions: splitComma(getEnv("ALLOWED_EXTENSIONS", "png,jpg,jpeg,bmp")),

		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitComma(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
