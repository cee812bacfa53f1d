package database

import (
	"fmt"
	"log"
	"os"

	"planpractice/config"
	"planpractice/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		config.AppConfig.DBHost,
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBName,
		config.AppConfig.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	RunMigrations(db)
	SeedCoinPackages(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.GradeLevel{},
		&models.Class{},
		&models.Objective{},
		&models.Skill{},
		&models.Attitude{},
		&models.PreparationType{},
		&models.LanguageFocusType{},
		&models.TeachingMethod{},
		&models.ActivityTemplate{},
		&models.InteractionPattern{},
		&models.LessonPlanner{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.QuizOTP{},
		&models.QuizResult{},
		&models.UserAnswer{},
		&models.CoinPackage{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}

// SeedCoinPackages inserts the default coin packages if none exist yet
func SeedCoinPackages(db *gorm.DB) {
	var count int64
	db.Model(&models.CoinPackage{}).Count(&count)
	if count > 0 {
		return
	}

	packages := []models.CoinPackage{
		{Name: "Starter", CoinAmount: 50, Price: 20000},
		{Name: "Standard", CoinAmount: 150, Price: 50000},
		{Name: "Premium", CoinAmount: 400, Price: 120000},
	}

	if err := db.Create(&packages).Error; err != nil {
		log.Printf("Error seeding coin packages: %v", err)
	}
}
