package repository

import (
	"github.com/chodocu/chodocu-backend/internal/models"
	"gorm.io/gorm"
)

type SubscriptionPackageRepository struct {
	db *gorm.DB
}

func NewSubscriptionPackageRepository(db *gorm.DB) *SubscriptionPackageRepository {
	return &SubscriptionPackageRepository{db: db}
}

func (r *SubscriptionPackageRepository) WithTx(tx *gorm.DB) *SubscriptionPackageRepository {
	return &SubscriptionPackageRepository{db: tx}
}

func (r *SubscriptionPackageRepository) Create(pkg *models.SubscriptionPackage) error {
	return r.db.Create(pkg).Error
}

func (r *SubscriptionPackageRepository) GetByID(id uint) (*models.SubscriptionPackage, error) {
	var pkg models.SubscriptionPackage
	err := r.db.First(&pkg, id).Error
	return &pkg, err
}

func (r *SubscriptionPackageRepository) GetAllActive() ([]models.SubscriptionPackage, error) {
	var packages []models.SubscriptionPackage
	err := r.db.Where("is_active = ?", true).Order("price ASC").Find(&packages).Error
	return packages, err
}

func (r *SubscriptionPackageRepository) Update(pkg *models.SubscriptionPackage) error {
	return r.db.Save(pkg).Error
}
