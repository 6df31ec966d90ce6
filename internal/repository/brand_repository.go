package repository

import (
	"github.com/chodocu/chodocu-backend/internal/models"
	"gorm.io/gorm"
)

type BrandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) Create(brand *models.Brand) error {
	return r.db.Create(brand).Error
}

func (r *BrandRepository) GetByID(id uint) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.Preload("Category").First(&brand, id).Error
	return &brand, err
}

func (r *BrandRepository) GetAll() ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.Preload("Category").Order("name").Find(&brands).Error
	return brands, err
}

func (r *BrandRepository) GetByCategory(categoryID uint) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.Preload("Category").
		Where("category_id = ?", categoryID).
		Order("name").
		Find(&brands).Error
	return brands, err
}

func (r *BrandRepository) Update(brand *models.Brand) error {
	return r.db.Save(brand).Error
}

func (r *BrandRepository) Delete(brand *models.Brand) error {
	return r.db.Delete(brand).Error
}
