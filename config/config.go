package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup. Values come from
// environment variables (a .env file is loaded first if present).
type Config struct {
	Port          string
	DatabasePath  string
	SessionSecret string
	PublicDir     string
	UploadDir     string
	LogFile       string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables.")
	}

	return Config{
		Port:          getEnv("PORT", "3000"),
		DatabasePath:  getEnv("DATABASE_PATH", "./database.sqlite"),
		SessionSecret: getEnv("SESSION_SECRET", "echonet-secret"),
		PublicDir:     getEnv("PUBLIC_DIR", "./public"),
		UploadDir:     getEnv("UPLOAD_DIR", "./public/uploads"),
		LogFile:       getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
