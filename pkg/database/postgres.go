package database

import (
	"log"
	"os"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase() *gorm.DB {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := RunMigrations(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.Favorite{},
		&models.SubscriptionPackage{},
		&models.UserSubscription{},
		&models.ProductBoost{},
		&models.Transaction{},
		&models.Conversation{},
		&models.Message{},
	)
	if err != nil {
		return err
	}

	return seedSubscriptionPackages(db)
}

// seedSubscriptionPackages inserts the three stock plans on first boot.
func seedSubscriptionPackages(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.SubscriptionPackage{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	packages := []models.SubscriptionPackage{
		{
			Name:         "Standard",
			Description:  "Free tier for casual sellers",
			Price:        decimal.Zero,
			DurationDays: 0,
			BoostSlots:   0,
			IsPremium:    false,
			IsActive:     true,
		},
		{
			Name:         "Premium",
			Description:  "Longer listings and the premium badge",
			Price:        decimal.NewFromInt(99000),
			DurationDays: 30,
			BoostSlots:   0,
			IsPremium:    true,
			IsActive:     true,
		},
		{
			Name:         "Pro",
			Description:  "Premium plus 10 listing boosts per cycle",
			Price:        decimal.NewFromInt(149000),
			DurationDays: 30,
			BoostSlots:   10,
			IsPremium:    true,
			IsActive:     true,
		},
	}

	for _, pkg := range packages {
		if err := db.Create(&pkg).Error; err != nil {
			return err
		}
	}
	return nil
}
