package repository

import (
	"time"

	"github.com/chodocu/chodocu-backend/internal/models"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *ProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("User").Preload("Category").Preload("Brand").First(&product, id).Error
	return &product, err
}

// GetApprovedByID is the public single-listing lookup.
func (r *ProductRepository) GetApprovedByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("User").Preload("Category").Preload("Brand").
		Where("id = ? AND status = ?", id, models.ProductApproved).
		First(&product).Error
	return &product, err
}

func (r *ProductRepository) GetOwned(id, userID uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("User").
		Where("id = ? AND user_id = ?", id, userID).
		First(&product).Error
	return &product, err
}

func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *ProductRepository) Delete(product *models.Product) error {
	return r.db.Delete(product).Error
}

// CountActive counts a user's pending and approved listings, used to enforce
// the standard-tier listing cap.
func (r *ProductRepository) CountActive(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("user_id = ? AND status IN ?", userID, []models.ProductStatus{models.ProductPending, models.ProductApproved}).
		Count(&count).Error
	return count, err
}

// ListApproved returns the public feed: boosted listings first, newest next.
func (r *ProductRepository) ListApproved(search string, page, limit int) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{}).Where("status = ?", models.ProductApproved)
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.Preload("User").Preload("Category").Preload("Brand").
		Order("is_boosted DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	return products, total, err
}

func (r *ProductRepository) ListByCategories(categoryIDs []uint, page, limit int) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{}).
		Where("category_id IN ? AND status = ?", categoryIDs, models.ProductApproved)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.Preload("User").Preload("Category").Preload("Brand").
		Order("is_boosted DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	return products, total, err
}

func (r *ProductRepository) ListByUser(userID uint, status models.ProductStatus, page, limit int) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.Preload("Category").Preload("Brand").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	return products, total, err
}

// ListAll backs the moderation queue; expired listings are excluded unless
// asked for.
func (r *ProductRepository) ListAll(includeExpired bool, page, limit int) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if !includeExpired {
		query = query.Where("status IN ?", []models.ProductStatus{
			models.ProductPending, models.ProductApproved, models.ProductRejected,
		})
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.Preload("User").Preload("Category").Preload("Brand").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	return products, total, err
}

func (r *ProductRepository) FindExpiredApproved(now time.Time) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("status = ? AND expiry_date < ?", models.ProductApproved, now).
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) FindBoostExpired(now time.Time) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("is_boosted = ? AND boost_expiry_date < ?", true, now).
		Find(&products).Error
	return products, err
}
