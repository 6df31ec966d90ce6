package repository

import (
	"time"

	"github.com/chodocu/chodocu-backend/internal/models"
	"gorm.io/gorm"
)

type ProductBoostRepository struct {
	db *gorm.DB
}

func NewProductBoostRepository(db *gorm.DB) *ProductBoostRepository {
	return &ProductBoostRepository{db: db}
}

func (r *ProductBoostRepository) WithTx(tx *gorm.DB) *ProductBoostRepository {
	return &ProductBoostRepository{db: tx}
}

func (r *ProductBoostRepository) Create(boost *models.ProductBoost) error {
	return r.db.Create(boost).Error
}

func (r *ProductBoostRepository) Save(boost *models.ProductBoost) error {
	return r.db.Save(boost).Error
}

func (r *ProductBoostRepository) FindActiveByProduct(productID uint) (*models.ProductBoost, error) {
	var boost models.ProductBoost
	err := r.db.Where("product_id = ? AND is_active = ?", productID, true).First(&boost).Error
	return &boost, err
}

func (r *ProductBoostRepository) DeactivateForProduct(productID uint, now time.Time) error {
	return r.db.Model(&models.ProductBoost{}).
		Where("product_id = ? AND is_active = ? AND expiry_date < ?", productID, true, now).
		Update("is_active", false).Error
}

func (r *ProductBoostRepository) ListByUser(userID uint, page, limit int) ([]models.ProductBoost, int64, error) {
	query := r.db.Model(&models.ProductBoost{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var boosts []models.ProductBoost
	err := query.Preload("Product").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&boosts).Error
	return boosts, total, err
}
