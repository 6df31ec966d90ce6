package service

import (
	"testing"
	"time"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSubscriptionService(db *gorm.DB) *SubscriptionService {
	return NewSubscriptionService(
		db,
		repository.NewUserRepository(db),
		repository.NewSubscriptionPackageRepository(db),
		repository.NewUserSubscriptionRepository(db),
		repository.NewProductBoostRepository(db),
		repository.NewProductRepository(db),
		testLogger(),
	)
}

func TestPurchaseSubscription_DeductsBalance(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 100000)
	pkg := createTestPackage(t, db, 99000, 30, 0, true)

	sub, err := svc.PurchaseSubscription(user.ID, pkg.ID)
	require.NoError(t, err)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(1000)),
		"balance should be 1000, got %s", updated.Balance)
	assert.Equal(t, models.TierPremium, updated.SubscriptionType)
	require.NotNil(t, updated.SubscriptionExpiry)

	wantExpiry := sub.StartDate.AddDate(0, 0, 30)
	assert.WithinDuration(t, wantExpiry, sub.ExpiryDate, time.Second)
	assert.True(t, sub.IsActive)
}

func TestPurchaseSubscription_InsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 50000)
	pkg := createTestPackage(t, db, 99000, 30, 0, true)

	_, err := svc.PurchaseSubscription(user.ID, pkg.ID)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// Nothing committed.
	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, models.TierStandard, updated.SubscriptionType)

	var count int64
	require.NoError(t, db.Model(&models.UserSubscription{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPurchaseSubscription_InactivePackage(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 500000)
	pkg := createTestPackage(t, db, 99000, 30, 0, true)
	require.NoError(t, db.Model(pkg).Update("is_active", false).Error)

	_, err := svc.PurchaseSubscription(user.ID, pkg.ID)
	require.Error(t, err)
}

func TestPurchaseSubscription_RepeatExtendsFromCurrentExpiry(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 500000)
	pkg := createTestPackage(t, db, 149000, 30, 10, true)

	first, err := svc.PurchaseSubscription(user.ID, pkg.ID)
	require.NoError(t, err)

	second, err := svc.PurchaseSubscription(user.ID, pkg.ID)
	require.NoError(t, err)

	// Same row, expiry pushed forward from the previous expiry.
	assert.Equal(t, first.ID, second.ID)
	assert.WithinDuration(t, first.ExpiryDate.AddDate(0, 0, 30), second.ExpiryDate, time.Second)
	assert.Equal(t, 20, second.RemainingBoosts)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(500000-2*149000)))
	assert.Equal(t, models.TierPro, updated.SubscriptionType)

	var count int64
	require.NoError(t, db.Model(&models.UserSubscription{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBoostProduct_ConsumesSlotAndFlagsListing(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 500000)
	pkg := createTestPackage(t, db, 149000, 30, 10, true)
	_, err := svc.PurchaseSubscription(user.ID, pkg.ID)
	require.NoError(t, err)

	product := createTestProduct(t, db, user.ID, models.ProductApproved)

	boost, err := svc.BoostProduct(user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, boost.IsActive)
	assert.WithinDuration(t, boost.BoostDate.Add(BoostDuration), boost.ExpiryDate, time.Second)

	var updated models.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.True(t, updated.IsBoosted)
	require.NotNil(t, updated.BoostExpiryDate)

	var sub models.UserSubscription
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&sub).Error)
	assert.Equal(t, 9, sub.RemainingBoosts)
	assert.Equal(t, 1, sub.TotalBoostsUsed)
}

func TestBoostProduct_RefusesWithoutEligibleSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 500000)
	product := createTestProduct(t, db, user.ID, models.ProductApproved)

	_, err := svc.BoostProduct(user.ID, product.ID)
	require.ErrorIs(t, err, ErrNoEligibleSubscription)

	var updated models.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.False(t, updated.IsBoosted)
}

func TestBoostProduct_RefusesNonApprovedListing(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 500000)
	pkg := createTestPackage(t, db, 149000, 30, 10, true)
	_, err := svc.PurchaseSubscription(user.ID, pkg.ID)
	require.NoError(t, err)

	product := createTestProduct(t, db, user.ID, models.ProductPending)

	_, err = svc.BoostProduct(user.ID, product.ID)
	require.ErrorIs(t, err, ErrProductNotEligible)
}

func TestBoostProduct_RefusesAlreadyBoosted(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 500000)
	pkg := createTestPackage(t, db, 149000, 30, 10, true)
	_, err := svc.PurchaseSubscription(user.ID, pkg.ID)
	require.NoError(t, err)

	product := createTestProduct(t, db, user.ID, models.ProductApproved)

	_, err = svc.BoostProduct(user.ID, product.ID)
	require.NoError(t, err)

	_, err = svc.BoostProduct(user.ID, product.ID)
	require.ErrorIs(t, err, ErrAlreadyBoosted)

	var sub models.UserSubscription
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&sub).Error)
	assert.Equal(t, 9, sub.RemainingBoosts, "failed boost must not consume a slot")
}

func TestBoostProduct_RefusesSomeoneElsesListing(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	owner := createTestUser(t, db, 0)
	buyer := createTestUser(t, db, 500000)
	pkg := createTestPackage(t, db, 149000, 30, 10, true)
	_, err := svc.PurchaseSubscription(buyer.ID, pkg.ID)
	require.NoError(t, err)

	product := createTestProduct(t, db, owner.ID, models.ProductApproved)

	_, err = svc.BoostProduct(buyer.ID, product.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBoostProduct_ChargesSoonestExpiringSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 0)
	pkg := createTestPackage(t, db, 149000, 30, 10, true)

	now := time.Now()
	later := &models.UserSubscription{
		UserID: user.ID, PackageID: pkg.ID,
		StartDate: now, ExpiryDate: now.AddDate(0, 0, 60),
		RemainingBoosts: 5, IsActive: true,
	}
	sooner := &models.UserSubscription{
		UserID: user.ID, PackageID: pkg.ID,
		StartDate: now, ExpiryDate: now.AddDate(0, 0, 10),
		RemainingBoosts: 5, IsActive: true,
	}
	require.NoError(t, db.Create(later).Error)
	require.NoError(t, db.Create(sooner).Error)

	product := createTestProduct(t, db, user.ID, models.ProductApproved)

	boost, err := svc.BoostProduct(user.ID, product.ID)
	require.NoError(t, err)
	require.NotNil(t, boost.UserSubscriptionID)
	assert.Equal(t, sooner.ID, *boost.UserSubscriptionID)
}

func TestUpgradeToPremium_ChargesFixedPrice(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 300000)

	updated, err := svc.UpgradeToPremium(user.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, models.TierPremium, updated.SubscriptionType)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(300000-2*LegacyPremiumPrice)))
	require.NotNil(t, updated.SubscriptionExpiry)
	assert.WithinDuration(t, time.Now().AddDate(0, 2, 0), *updated.SubscriptionExpiry, time.Minute)
}

func TestUpgradeToPremium_ExtendsUnexpiredPremium(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 500000)

	first, err := svc.UpgradeToPremium(user.ID, 1)
	require.NoError(t, err)
	firstExpiry := *first.SubscriptionExpiry

	second, err := svc.UpgradeToPremium(user.ID, 1)
	require.NoError(t, err)

	assert.WithinDuration(t, firstExpiry.AddDate(0, 1, 0), *second.SubscriptionExpiry, time.Second)
}

func TestUpgradeToPremium_InsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 50000)

	_, err := svc.UpgradeToPremium(user.ID, 1)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(50000)))
}

func TestDowngradeToStandard(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 500000)
	pkg := createTestPackage(t, db, 149000, 30, 10, true)
	_, err := svc.PurchaseSubscription(user.ID, pkg.ID)
	require.NoError(t, err)

	updated, err := svc.DowngradeToStandard(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierStandard, updated.SubscriptionType)
	assert.Nil(t, updated.SubscriptionExpiry)

	var active int64
	require.NoError(t, db.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ?", user.ID, true).
		Count(&active).Error)
	assert.Zero(t, active)
}

func TestDowngradeToStandard_AlreadyStandard(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 0)

	_, err := svc.DowngradeToStandard(user.ID)
	require.ErrorIs(t, err, ErrAlreadyStandard)
}

func TestGetSubscriptionDetails(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	user := createTestUser(t, db, 500000)
	pkg := createTestPackage(t, db, 149000, 30, 10, true)
	_, err := svc.PurchaseSubscription(user.ID, pkg.ID)
	require.NoError(t, err)

	details, err := svc.GetSubscriptionDetails(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, details.SubscriptionType)
	assert.True(t, details.IsActive)
	require.Len(t, details.Subscriptions, 1)
	assert.Equal(t, 10, details.Subscriptions[0].RemainingBoosts)
}
