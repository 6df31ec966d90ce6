package service

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
		&models.Favorite{},
		&models.SubscriptionPackage{},
		&models.UserSubscription{},
		&models.ProductBoost{},
		&models.Transaction{},
		&models.Conversation{},
		&models.Message{},
	))
	return db
}

type noopMailer struct{}

func (noopMailer) SendWelcomeEmail(to, name string) error                 { return nil }
func (noopMailer) SendDepositApprovedEmail(to, name, amount string) error { return nil }

// fakeStore is an in-memory ObjectStorage for tests.
type fakeStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(key string, src io.Reader, contentType string) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) Delete(key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return f.PublicEndpoint() + "/" + key
}

func (f *fakeStore) PublicEndpoint() string {
	return "http://storage.test/bucket"
}

func (f *fakeStore) ObjectKeyFromURL(raw string) string {
	prefix := f.PublicEndpoint() + "/"
	if !strings.HasPrefix(raw, prefix) {
		return ""
	}
	return strings.TrimPrefix(raw, prefix)
}

func testImageURL(name string) string {
	return "http://storage.test/bucket/uploads/1/" + name
}

func createTestUser(t *testing.T, db *gorm.DB, balance int64) *models.User {
	t.Helper()

	user := &models.User{
		Name:        "Test User",
		PhoneNumber: fmt.Sprintf("09%08d", time.Now().UnixNano()%100000000),
		Email:       fmt.Sprintf("user%d@example.com", time.Now().UnixNano()),
		Password:    "hashed",
		Role:        models.RoleUser,
		Status:      models.AccountActive,
		Balance:     decimal.NewFromInt(balance),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPackage(t *testing.T, db *gorm.DB, price int64, days, boosts int, premium bool) *models.SubscriptionPackage {
	t.Helper()

	pkg := &models.SubscriptionPackage{
		Name:         fmt.Sprintf("Package %d", time.Now().UnixNano()),
		Price:        decimal.NewFromInt(price),
		DurationDays: days,
		BoostSlots:   boosts,
		IsPremium:    premium,
		IsActive:     true,
	}
	require.NoError(t, db.Create(pkg).Error)
	return pkg
}

func createTestTaxonomy(t *testing.T, db *gorm.DB) (*models.Category, *models.Brand) {
	t.Helper()

	category := &models.Category{Name: "Điện thoại"}
	require.NoError(t, db.Create(category).Error)
	brand := &models.Brand{Name: "Apple", CategoryID: category.ID}
	require.NoError(t, db.Create(brand).Error)
	return category, brand
}

func createTestProduct(t *testing.T, db *gorm.DB, userID uint, status models.ProductStatus) *models.Product {
	t.Helper()

	category, brand := createTestTaxonomy(t, db)
	product := &models.Product{
		UserID:      userID,
		CategoryID:  category.ID,
		BrandID:     brand.ID,
		Title:       "iPhone 12 cũ",
		Description: "Máy còn tốt",
		Price:       decimal.NewFromInt(5000000),
		Images:      []string{testImageURL("a.jpg")},
		Condition:   models.ConditionUsed,
		Quantity:    1,
		Status:      status,
		ExpiryDate:  time.Now().AddDate(0, 0, 7),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
