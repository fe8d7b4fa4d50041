package config

import (
	"fmt"
	"log"
	"os"

	"github.com/userChris26/Macros-sub000/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config is assembled once at startup; everything downstream takes what it
// needs as a constructor parameter.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string

	FdcAPIKey string

	AWSRegion     string
	S3Bucket      string
	CloudFrontURL string
	SESFrom       string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading configuration from the environment")
	}

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        getenv("DB_PORT", "5432"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		FdcAPIKey:     os.Getenv("FDC_API_KEY"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		CloudFrontURL: os.Getenv("CLOUDFRONT_URL"),
		SESFrom:       os.Getenv("SES_EMAIL"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	if cfg.FdcAPIKey == "" {
		log.Fatal("FDC_API_KEY not set")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB(cfg *Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.FoodEntry{},
		&models.Meal{},
		&models.MealItem{},
		&models.Follow{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	return db
}
