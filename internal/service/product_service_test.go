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

func newProductService(db *gorm.DB, store *fakeStore) *ProductService {
	return NewProductService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewBrandRepository(db),
		repository.NewUserRepository(db),
		repository.NewFavoriteRepository(db),
		store,
		testLogger(),
	)
}

func validCreateRequest(categoryID, brandID uint) models.CreateProductRequest {
	return models.CreateProductRequest{
		CategoryID:  categoryID,
		BrandID:     brandID,
		Title:       "Laptop cũ",
		Description: "Dùng được 2 năm",
		Price:       decimal.NewFromInt(8000000),
		Images:      []string{testImageURL("laptop.jpg")},
		Condition:   models.ConditionUsed,
	}
}

func TestCreateProduct_StartsPendingWithStandardExpiry(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	category, brand := createTestTaxonomy(t, db)

	product, err := svc.CreateProduct(user.ID, validCreateRequest(category.ID, brand.ID))
	require.NoError(t, err)

	assert.Equal(t, models.ProductPending, product.Status)
	assert.False(t, product.IsPremium)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), product.ExpiryDate, time.Minute)
}

func TestCreateProduct_PremiumTierGetsLongerExpiry(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	expiry := time.Now().AddDate(0, 1, 0)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"subscription_type":   models.TierPremium,
		"subscription_expiry": expiry,
	}).Error)

	category, brand := createTestTaxonomy(t, db)

	product, err := svc.CreateProduct(user.ID, validCreateRequest(category.ID, brand.ID))
	require.NoError(t, err)

	assert.True(t, product.IsPremium)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 15), product.ExpiryDate, time.Minute)
}

func TestCreateProduct_EnforcesStandardListingCap(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	category, brand := createTestTaxonomy(t, db)

	for i := 0; i < StandardListingLimit; i++ {
		_, err := svc.CreateProduct(user.ID, validCreateRequest(category.ID, brand.ID))
		require.NoError(t, err)
	}

	_, err := svc.CreateProduct(user.ID, validCreateRequest(category.ID, brand.ID))
	require.ErrorIs(t, err, ErrListingLimitReached)
}

func TestCreateProduct_ExpiredListingsDoNotCountTowardCap(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	category, brand := createTestTaxonomy(t, db)

	for i := 0; i < StandardListingLimit; i++ {
		product, err := svc.CreateProduct(user.ID, validCreateRequest(category.ID, brand.ID))
		require.NoError(t, err)
		if i == 0 {
			require.NoError(t, db.Model(product).Update("status", models.ProductExpired).Error)
		}
	}

	_, err := svc.CreateProduct(user.ID, validCreateRequest(category.ID, brand.ID))
	require.NoError(t, err)
}

func TestCreateProduct_RejectsForeignImageURLs(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	category, brand := createTestTaxonomy(t, db)

	req := validCreateRequest(category.ID, brand.ID)
	req.Images = []string{"http://evil.example.com/x.jpg"}

	_, err := svc.CreateProduct(user.ID, req)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateProduct_ContentChangeResetsToPending(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	product := createTestProduct(t, db, user.ID, models.ProductApproved)

	title := "Tiêu đề mới"
	updated, err := svc.UpdateProduct(product.ID, user.ID, models.UpdateProductRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, models.ProductPending, updated.Status)
	assert.Equal(t, title, updated.Title)
}

func TestUpdateProduct_AddressChangeKeepsStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	product := createTestProduct(t, db, user.ID, models.ProductApproved)

	address := "Quận 1, TP.HCM"
	updated, err := svc.UpdateProduct(product.ID, user.ID, models.UpdateProductRequest{Address: &address})
	require.NoError(t, err)

	assert.Equal(t, models.ProductApproved, updated.Status)
	assert.Equal(t, address, updated.Address)
}

func TestUpdateProduct_RemovedImagesAreDeletedFromStorage(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	svc := newProductService(db, store)

	user := createTestUser(t, db, 0)
	product := createTestProduct(t, db, user.ID, models.ProductApproved)

	newImages := []string{testImageURL("b.jpg")}
	_, err := svc.UpdateProduct(product.ID, user.ID, models.UpdateProductRequest{Images: newImages})
	require.NoError(t, err)

	require.Len(t, store.deleted, 1)
	assert.Equal(t, "uploads/1/a.jpg", store.deleted[0])
}

func TestUpdateProduct_NotOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	owner := createTestUser(t, db, 0)
	other := createTestUser(t, db, 0)
	product := createTestProduct(t, db, owner.ID, models.ProductApproved)

	title := "hijack"
	_, err := svc.UpdateProduct(product.ID, other.ID, models.UpdateProductRequest{Title: &title})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestModerateProduct_RejectRequiresReason(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	product := createTestProduct(t, db, user.ID, models.ProductPending)

	_, err := svc.ModerateProduct(product.ID, models.ModerateProductRequest{
		Status: models.ProductRejected,
	})
	require.ErrorIs(t, err, ErrInvalidState)

	moderated, err := svc.ModerateProduct(product.ID, models.ModerateProductRequest{
		Status:          models.ProductRejected,
		RejectionReason: "Ảnh không rõ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProductRejected, moderated.Status)
	assert.Equal(t, "Ảnh không rõ", moderated.RejectionReason)
}

func TestHideAndShowProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	product := createTestProduct(t, db, user.ID, models.ProductApproved)

	require.NoError(t, svc.HideProduct(product.ID, user.ID))

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, models.ProductHidden, got.Status)

	// Hiding twice is refused.
	require.ErrorIs(t, svc.HideProduct(product.ID, user.ID), ErrInvalidState)

	require.NoError(t, svc.ShowProduct(product.ID, user.ID))
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, models.ProductApproved, got.Status)
}

func TestShowProduct_RefusedWhenExpiredMeanwhile(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	product := createTestProduct(t, db, user.ID, models.ProductApproved)
	require.NoError(t, svc.HideProduct(product.ID, user.ID))

	require.NoError(t, db.Model(product).
		Update("expiry_date", time.Now().Add(-time.Hour)).Error)

	require.ErrorIs(t, svc.ShowProduct(product.ID, user.ID), ErrInvalidState)
}

func TestRenewProduct_ResubmitsExpiredListing(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	product := createTestProduct(t, db, user.ID, models.ProductExpired)

	renewed, err := svc.RenewProduct(product.ID, user.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ProductPending, renewed.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), renewed.ExpiryDate, time.Minute)
}

func TestRenewProduct_OnlyExpired(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	user := createTestUser(t, db, 0)
	product := createTestProduct(t, db, user.ID, models.ProductApproved)

	_, err := svc.RenewProduct(product.ID, user.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestDeleteProduct_RemovesImages(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	svc := newProductService(db, store)

	user := createTestUser(t, db, 0)
	product := createTestProduct(t, db, user.ID, models.ProductApproved)

	require.NoError(t, svc.DeleteProduct(product.ID, user.ID))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Contains(t, store.deleted, "uploads/1/a.jpg")
}

func TestFavorites(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	owner := createTestUser(t, db, 0)
	fan := createTestUser(t, db, 0)
	product := createTestProduct(t, db, owner.ID, models.ProductApproved)

	_, err := svc.AddToFavorites(fan.ID, product.ID)
	require.NoError(t, err)

	// Adding again is a no-op, not an error.
	_, err = svc.AddToFavorites(fan.ID, product.ID)
	require.NoError(t, err)

	isFav, err := svc.IsFavorite(fan.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, isFav)

	favorites, total, err := svc.GetUserFavorites(fan.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, favorites, 1)
	assert.Equal(t, product.ID, favorites[0].ID)

	require.NoError(t, svc.RemoveFromFavorites(fan.ID, product.ID))
	isFav, err = svc.IsFavorite(fan.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, isFav)
}

func TestFavorites_OnlyApprovedProducts(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db, newFakeStore())

	owner := createTestUser(t, db, 0)
	fan := createTestUser(t, db, 0)
	product := createTestProduct(t, db, owner.ID, models.ProductPending)

	_, err := svc.AddToFavorites(fan.ID, product.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
