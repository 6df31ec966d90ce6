package repository

import (
	"github.com/chodocu/chodocu-backend/internal/models"
	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Create(favorite *models.Favorite) error {
	return r.db.Create(favorite).Error
}

func (r *FavoriteRepository) Get(userID, productID uint) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&favorite).Error
	return &favorite, err
}

func (r *FavoriteRepository) Delete(favorite *models.Favorite) error {
	return r.db.Delete(favorite).Error
}

func (r *FavoriteRepository) ListByUser(userID uint, page, limit int) ([]models.Favorite, int64, error) {
	query := r.db.Model(&models.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var favorites []models.Favorite
	err := query.Preload("Product").Preload("Product.Category").Preload("Product.Brand").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&favorites).Error
	return favorites, total, err
}
