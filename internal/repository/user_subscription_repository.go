package repository

import (
	"time"

	"github.com/chodocu/chodocu-backend/internal/models"
	"gorm.io/gorm"
)

type UserSubscriptionRepository struct {
	db *gorm.DB
}

func NewUserSubscriptionRepository(db *gorm.DB) *UserSubscriptionRepository {
	return &UserSubscriptionRepository{db: db}
}

func (r *UserSubscriptionRepository) WithTx(tx *gorm.DB) *UserSubscriptionRepository {
	return &UserSubscriptionRepository{db: tx}
}

func (r *UserSubscriptionRepository) Create(sub *models.UserSubscription) error {
	return r.db.Create(sub).Error
}

func (r *UserSubscriptionRepository) Save(sub *models.UserSubscription) error {
	return r.db.Save(sub).Error
}

func (r *UserSubscriptionRepository) GetByID(id uint) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Preload("User").Preload("Package").First(&sub, id).Error
	return &sub, err
}

// FindActiveByUserAndPackage locates a still-running subscription to the same
// package, the one a repeat purchase extends.
func (r *UserSubscriptionRepository) FindActiveByUserAndPackage(userID, packageID uint, now time.Time) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Where("user_id = ? AND package_id = ? AND is_active = ? AND expiry_date > ?",
		userID, packageID, true, now).
		First(&sub).Error
	return &sub, err
}

// FindBoostEligible returns active, unexpired subscriptions with boost slots
// left whose package grants boosts, soonest expiry first.
func (r *UserSubscriptionRepository) FindBoostEligible(userID uint, now time.Time) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := r.db.Joins("JOIN subscription_packages ON subscription_packages.id = user_subscriptions.package_id").
		Where("user_subscriptions.user_id = ?", userID).
		Where("user_subscriptions.is_active = ?", true).
		Where("user_subscriptions.expiry_date > ?", now).
		Where("user_subscriptions.remaining_boosts > 0").
		Where("subscription_packages.boost_slots > 0").
		Order("user_subscriptions.expiry_date ASC").
		Find(&subs).Error
	return subs, err
}

func (r *UserSubscriptionRepository) FindActiveByUser(userID uint, now time.Time) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := r.db.Preload("Package").
		Where("user_id = ? AND is_active = ? AND expiry_date > ?", userID, true, now).
		Order("expiry_date DESC").
		Find(&subs).Error
	return subs, err
}

func (r *UserSubscriptionRepository) CountActiveUnexpired(userID uint, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ? AND expiry_date > ?", userID, true, now).
		Count(&count).Error
	return count, err
}

// FindLapsed returns rows the subscription sweep still needs to deactivate.
func (r *UserSubscriptionRepository) FindLapsed(now time.Time) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := r.db.Where("is_active = ? AND expiry_date < ?", true, now).Find(&subs).Error
	return subs, err
}

func (r *UserSubscriptionRepository) DeactivateAllForUser(userID uint) error {
	return r.db.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
}
