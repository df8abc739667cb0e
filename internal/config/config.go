package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	AppEnv              string
	MongoURI            string
	MongoDB             string
	JWTSecret           string
	JWTExpireHours      int
	FrontendURL         string
	AIEnabled           bool
	AIServiceURL        string
	FirebaseCredentials string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		AppEnv:              getEnv("APP_ENV", "development"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "verifact"),
		JWTSecret:           getEnv("JWT_SECRET", "secret"),
		JWTExpireHours:      getEnvInt("JWT_EXPIRE_HOURS", 24),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000"),
		AIEnabled:           getEnvBool("AI_ENABLED", false),
		AIServiceURL:        getEnv("AI_SERVICE_URL", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
