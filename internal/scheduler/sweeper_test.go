package scheduler

import (
	"testing"
	"time"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestSweeper(t *testing.T) (*Sweeper, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.SubscriptionPackage{},
		&models.UserSubscription{},
		&models.ProductBoost{},
	))

	sweeper := NewSweeper(
		db,
		repository.NewProductRepository(db),
		repository.NewProductBoostRepository(db),
		repository.NewUserSubscriptionRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
	return sweeper, db
}

func seedUser(t *testing.T, db *gorm.DB, tier models.SubscriptionTier, expiry *time.Time) *models.User {
	t.Helper()

	user := &models.User{
		Name:               "Sweep User",
		PhoneNumber:        "0912345678",
		Email:              "sweep@example.com",
		Password:           "hashed",
		Role:               models.RoleUser,
		Status:             models.AccountActive,
		Balance:            decimal.Zero,
		SubscriptionType:   tier,
		SubscriptionExpiry: expiry,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, userID uint, status models.ProductStatus, expiry time.Time) *models.Product {
	t.Helper()

	category := &models.Category{Name: "Đồ gia dụng"}
	require.NoError(t, db.Create(category).Error)
	brand := &models.Brand{Name: "Panasonic", CategoryID: category.ID}
	require.NoError(t, db.Create(brand).Error)

	product := &models.Product{
		UserID:      userID,
		CategoryID:  category.ID,
		BrandID:     brand.ID,
		Title:       "Quạt điện cũ",
		Description: "Còn chạy tốt",
		Price:       decimal.NewFromInt(200000),
		Images:      []string{"http://storage.test/bucket/a.jpg"},
		Condition:   models.ConditionUsed,
		Quantity:    1,
		Status:      status,
		ExpiryDate:  expiry,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestProductSweep_ExpiresOverdueListings(t *testing.T) {
	sweeper, db := newTestSweeper(t)

	user := seedUser(t, db, models.TierStandard, nil)
	now := time.Now()
	overdue := seedProduct(t, db, user.ID, models.ProductApproved, now.Add(-time.Hour))
	fresh := seedProduct(t, db, user.ID, models.ProductApproved, now.Add(24*time.Hour))
	hidden := seedProduct(t, db, user.ID, models.ProductHidden, now.Add(-time.Hour))

	sweeper.ProductSweep(now)

	var got models.Product
	require.NoError(t, db.First(&got, overdue.ID).Error)
	assert.Equal(t, models.ProductExpired, got.Status)

	got = models.Product{}
	require.NoError(t, db.First(&got, fresh.ID).Error)
	assert.Equal(t, models.ProductApproved, got.Status)

	// Hidden listings are left alone; visibility is the owner's call.
	got = models.Product{}
	require.NoError(t, db.First(&got, hidden.ID).Error)
	assert.Equal(t, models.ProductHidden, got.Status)
}

func TestProductSweep_ClearsLapsedBoosts(t *testing.T) {
	sweeper, db := newTestSweeper(t)

	user := seedUser(t, db, models.TierPro, nil)
	now := time.Now()
	product := seedProduct(t, db, user.ID, models.ProductApproved, now.Add(24*time.Hour))

	past := now.Add(-time.Hour)
	product.IsBoosted = true
	product.BoostExpiryDate = &past
	require.NoError(t, db.Save(product).Error)
	require.NoError(t, db.Create(&models.ProductBoost{
		ProductID:  product.ID,
		UserID:     user.ID,
		BoostDate:  now.Add(-8 * 24 * time.Hour),
		ExpiryDate: past,
		IsActive:   true,
	}).Error)

	sweeper.ProductSweep(now)

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.False(t, got.IsBoosted)
	assert.Nil(t, got.BoostExpiryDate)
	assert.Equal(t, models.ProductApproved, got.Status, "boost lapse must not expire the listing")

	var boost models.ProductBoost
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&boost).Error)
	assert.False(t, boost.IsActive)
}

func TestProductSweep_Idempotent(t *testing.T) {
	sweeper, db := newTestSweeper(t)

	user := seedUser(t, db, models.TierStandard, nil)
	now := time.Now()
	product := seedProduct(t, db, user.ID, models.ProductApproved, now.Add(-time.Hour))

	sweeper.ProductSweep(now)
	sweeper.ProductSweep(now)

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, models.ProductExpired, got.Status)
}

func TestSubscriptionSweep_DowngradesLapsedUsers(t *testing.T) {
	sweeper, db := newTestSweeper(t)

	now := time.Now()
	past := now.Add(-time.Hour)
	user := seedUser(t, db, models.TierPro, &past)

	pkg := &models.SubscriptionPackage{
		Name: "Pro", Price: decimal.NewFromInt(149000),
		DurationDays: 30, BoostSlots: 10, IsPremium: true, IsActive: true,
	}
	require.NoError(t, db.Create(pkg).Error)
	require.NoError(t, db.Create(&models.UserSubscription{
		UserID: user.ID, PackageID: pkg.ID,
		StartDate: now.AddDate(0, 0, -31), ExpiryDate: past,
		IsActive: true,
	}).Error)

	sweeper.SubscriptionSweep(now)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, models.TierStandard, got.SubscriptionType)
	assert.Nil(t, got.SubscriptionExpiry)

	var sub models.UserSubscription
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&sub).Error)
	assert.False(t, sub.IsActive)
}

func TestSubscriptionSweep_KeepsUsersWithAnotherActiveSubscription(t *testing.T) {
	sweeper, db := newTestSweeper(t)

	now := time.Now()
	past := now.Add(-time.Hour)
	user := seedUser(t, db, models.TierPro, &past)

	pkg := &models.SubscriptionPackage{
		Name: "Pro", Price: decimal.NewFromInt(149000),
		DurationDays: 30, BoostSlots: 10, IsPremium: true, IsActive: true,
	}
	require.NoError(t, db.Create(pkg).Error)
	require.NoError(t, db.Create(&models.UserSubscription{
		UserID: user.ID, PackageID: pkg.ID,
		StartDate: now, ExpiryDate: now.AddDate(0, 0, 20),
		IsActive: true,
	}).Error)

	sweeper.SubscriptionSweep(now)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, models.TierPro, got.SubscriptionType)
}

func TestSubscriptionSweep_Idempotent(t *testing.T) {
	sweeper, db := newTestSweeper(t)

	now := time.Now()
	past := now.Add(-time.Hour)
	seedUser(t, db, models.TierPremium, &past)

	sweeper.SubscriptionSweep(now)
	sweeper.SubscriptionSweep(now)

	var count int64
	require.NoError(t, db.Model(&models.User{}).
		Where("subscription_type = ?", models.TierStandard).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
