package repository

import (
	"github.com/chodocu/chodocu-backend/internal/models"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) Create(txn *models.Transaction) error {
	return r.db.Create(txn).Error
}

func (r *TransactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.Preload("User").First(&txn, id).Error
	return &txn, err
}

func (r *TransactionRepository) GetByStripeSessionID(sessionID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.Where("stripe_session_id = ?", sessionID).First(&txn).Error
	return &txn, err
}

func (r *TransactionRepository) Save(txn *models.Transaction) error {
	return r.db.Save(txn).Error
}

func (r *TransactionRepository) ListByUser(userID uint, status models.TransactionStatus, page, limit int) ([]models.Transaction, int64, error) {
	query := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []models.Transaction
	err := query.Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&txns).Error
	return txns, total, err
}

func (r *TransactionRepository) ListAll(page, limit int) ([]models.Transaction, int64, error) {
	var total int64
	if err := r.db.Model(&models.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []models.Transaction
	err := r.db.Preload("User").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&txns).Error
	return txns, total, err
}
