package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"github.com/chodocu/chodocu-backend/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// Standard accounts can hold at most this many pending or approved
	// listings at once.
	StandardListingLimit = 15

	standardListingDays = 7
	premiumListingDays  = 15
)

type ProductService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
	brandRepo    *repository.BrandRepository
	userRepo     *repository.UserRepository
	favoriteRepo *repository.FavoriteRepository
	store        storage.ObjectStorage
	log          *zap.Logger
}

func NewProductService(
	productRepo *repository.ProductRepository,
	categoryRepo *repository.CategoryRepository,
	brandRepo *repository.BrandRepository,
	userRepo *repository.UserRepository,
	favoriteRepo *repository.FavoriteRepository,
	store storage.ObjectStorage,
	log *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		userRepo:     userRepo,
		favoriteRepo: favoriteRepo,
		store:        store,
		log:          log,
	}
}

// listingExpiry computes how long a fresh or renewed listing stays visible:
// 15 days on a paid tier, 7 on standard.
func listingExpiry(user *models.User, from time.Time) time.Time {
	if user.HasPremiumTier() {
		return from.AddDate(0, 0, premiumListingDays)
	}
	return from.AddDate(0, 0, standardListingDays)
}

// validateImageURLs refuses image URLs that do not point at our own object
// storage.
func (s *ProductService) validateImageURLs(images []string) error {
	if len(images) == 0 {
		return fmt.Errorf("at least one product image is required: %w", ErrInvalidState)
	}
	endpoint := s.store.PublicEndpoint()
	for _, url := range images {
		if !strings.HasPrefix(url, endpoint) {
			return fmt.Errorf("image %q is not hosted on our storage: %w", url, ErrPermissionDenied)
		}
	}
	return nil
}

func (s *ProductService) deleteImages(urls []string) {
	for _, url := range urls {
		key := s.store.ObjectKeyFromURL(url)
		if key == "" {
			continue
		}
		if err := s.store.Delete(key); err != nil {
			s.log.Warn("failed to delete image", zap.String("url", url), zap.Error(err))
		}
	}
}

func (s *ProductService) CreateProduct(userID uint, req models.CreateProductRequest) (*models.Product, error) {
	if _, err := s.categoryRepo.GetByID(req.CategoryID); err != nil {
		return nil, fmt.Errorf("category %d: %w", req.CategoryID, ErrNotFound)
	}
	if _, err := s.brandRepo.GetByID(req.BrandID); err != nil {
		return nil, fmt.Errorf("brand %d: %w", req.BrandID, ErrNotFound)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	if user.SubscriptionType == models.TierStandard {
		count, err := s.productRepo.CountActive(userID)
		if err != nil {
			return nil, err
		}
		if count >= StandardListingLimit {
			return nil, ErrListingLimitReached
		}
	}

	if err := s.validateImageURLs(req.Images); err != nil {
		return nil, err
	}

	now := time.Now()
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	product := &models.Product{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Condition:   req.Condition,
		Address:     req.Address,
		UsageTime:   req.UsageTime,
		Quantity:    quantity,
		Status:      models.ProductPending,
		IsPremium:   req.IsPremium || user.HasPremiumTier(),
		ExpiryDate:  listingExpiry(user, now),
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.Uint("product_id", product.ID),
		zap.Uint("user_id", userID),
		zap.Time("expiry", product.ExpiryDate),
	)
	return product, nil
}

// UpdateProduct edits a listing. Changes to the fields buyers see (title,
// description, price, images, condition) send it back through moderation with
// a fresh expiry; everything else is updated in place.
func (s *ProductService) UpdateProduct(productID, userID uint, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetOwned(productID, userID)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", productID, ErrPermissionDenied)
	}

	if product.Status == models.ProductExpired {
		return nil, fmt.Errorf("listing has expired, renew it first: %w", ErrInvalidState)
	}

	if req.Images != nil {
		if err := s.validateImageURLs(req.Images); err != nil {
			return nil, err
		}
		var removed []string
		newSet := make(map[string]bool, len(req.Images))
		for _, url := range req.Images {
			newSet[url] = true
		}
		for _, url := range product.Images {
			if !newSet[url] {
				removed = append(removed, url)
			}
		}
		s.deleteImages(removed)
		product.Images = req.Images
	}

	remoderate := req.Title != nil || req.Description != nil || req.Price != nil ||
		req.Images != nil || req.Condition != nil

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Condition != nil {
		product.Condition = *req.Condition
	}
	if req.Address != nil {
		product.Address = *req.Address
	}
	if req.UsageTime != nil {
		product.UsageTime = *req.UsageTime
	}
	if req.Quantity != nil && *req.Quantity >= 1 {
		product.Quantity = *req.Quantity
	}

	if remoderate {
		product.Status = models.ProductPending
		product.ExpiryDate = listingExpiry(product.User, time.Now())
	}
	if product.User != nil && product.User.HasPremiumTier() {
		product.IsPremium = true
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(productID, userID uint) error {
	product, err := s.productRepo.GetOwned(productID, userID)
	if err != nil {
		return fmt.Errorf("product %d: %w", productID, ErrPermissionDenied)
	}

	s.deleteImages(product.Images)

	if err := s.productRepo.Delete(product); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.Uint("product_id", productID), zap.Uint("user_id", userID))
	return nil
}

// ModerateProduct approves or rejects a pending listing. Rejections must
// carry a reason.
func (s *ProductService) ModerateProduct(productID uint, req models.ModerateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}

	if req.Status == models.ProductRejected && req.RejectionReason == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", ErrInvalidState)
	}

	product.Status = req.Status
	if req.Status == models.ProductRejected {
		product.RejectionReason = req.RejectionReason
	} else {
		product.RejectionReason = ""
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	s.log.Info("product moderated",
		zap.Uint("product_id", productID),
		zap.String("status", string(req.Status)),
	)
	return product, nil
}

// HideProduct takes an approved listing off the public feed.
func (s *ProductService) HideProduct(productID, userID uint) error {
	product, err := s.productRepo.GetOwned(productID, userID)
	if err != nil {
		return fmt.Errorf("product %d: %w", productID, ErrPermissionDenied)
	}
	if product.Status != models.ProductApproved {
		return fmt.Errorf("only approved listings can be hidden: %w", ErrInvalidState)
	}

	product.Status = models.ProductHidden
	return s.productRepo.Update(product)
}

// ShowProduct puts a hidden listing back on the feed, unless it has expired
// in the meantime.
func (s *ProductService) ShowProduct(productID, userID uint) error {
	product, err := s.productRepo.GetOwned(productID, userID)
	if err != nil {
		return fmt.Errorf("product %d: %w", productID, ErrPermissionDenied)
	}
	if product.Status != models.ProductHidden {
		return fmt.Errorf("only hidden listings can be shown: %w", ErrInvalidState)
	}
	if product.ExpiryDate.Before(time.Now()) {
		return fmt.Errorf("listing has expired, renew it first: %w", ErrInvalidState)
	}

	product.Status = models.ProductApproved
	return s.productRepo.Update(product)
}

// RenewProduct resubmits an expired listing for moderation with a fresh
// expiry window. Standard accounts stay subject to the listing cap.
func (s *ProductService) RenewProduct(productID, userID uint) (*models.Product, error) {
	product, err := s.productRepo.GetOwned(productID, userID)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", productID, ErrPermissionDenied)
	}
	if product.Status != models.ProductExpired {
		return nil, fmt.Errorf("only expired listings can be renewed: %w", ErrInvalidState)
	}

	user := product.User
	if user == nil {
		user, err = s.userRepo.GetByID(userID)
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
	}

	if user.SubscriptionType == models.TierStandard {
		count, err := s.productRepo.CountActive(userID)
		if err != nil {
			return nil, err
		}
		if count >= StandardListingLimit {
			return nil, ErrListingLimitReached
		}
	}

	product.Status = models.ProductPending
	product.ExpiryDate = listingExpiry(user, time.Now())
	if user.HasPremiumTier() {
		product.IsPremium = true
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	s.log.Info("product renewed",
		zap.Uint("product_id", productID),
		zap.Time("expiry", product.ExpiryDate),
	)
	return product, nil
}

func (s *ProductService) GetApprovedProducts(search string, page, limit int) ([]models.Product, int64, error) {
	return s.productRepo.ListApproved(search, page, limit)
}

func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetApprovedByID(id)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return product, nil
}

// GetProductsByCategory returns approved listings in a category and, for a
// parent category, in all of its children too.
func (s *ProductService) GetProductsByCategory(categoryID uint, page, limit int) ([]models.Product, int64, error) {
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		return nil, 0, fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
	}

	children, err := s.categoryRepo.GetChildren(categoryID)
	if err != nil {
		return nil, 0, err
	}

	ids := []uint{categoryID}
	for _, child := range children {
		ids = append(ids, child.ID)
	}

	return s.productRepo.ListByCategories(ids, page, limit)
}

func (s *ProductService) GetUserProducts(userID uint, status models.ProductStatus, page, limit int) ([]models.Product, int64, error) {
	return s.productRepo.ListByUser(userID, status, page, limit)
}

func (s *ProductService) GetAllProducts(includeExpired bool, page, limit int) ([]models.Product, int64, error) {
	return s.productRepo.ListAll(includeExpired, page, limit)
}

func (s *ProductService) AddToFavorites(userID, productID uint) (*models.Favorite, error) {
	if _, err := s.productRepo.GetApprovedByID(productID); err != nil {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}

	existing, err := s.favoriteRepo.Get(userID, productID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	favorite := &models.Favorite{UserID: userID, ProductID: productID}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

func (s *ProductService) RemoveFromFavorites(userID, productID uint) error {
	favorite, err := s.favoriteRepo.Get(userID, productID)
	if err != nil {
		return fmt.Errorf("favorite: %w", ErrNotFound)
	}
	return s.favoriteRepo.Delete(favorite)
}

func (s *ProductService) GetUserFavorites(userID uint, page, limit int) ([]models.Product, int64, error) {
	favorites, total, err := s.favoriteRepo.ListByUser(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	products := make([]models.Product, 0, len(favorites))
	for _, favorite := range favorites {
		if favorite.Product != nil && favorite.Product.Status == models.ProductApproved {
			products = append(products, *favorite.Product)
		}
	}
	return products, total, nil
}

func (s *ProductService) IsFavorite(userID, productID uint) (bool, error) {
	_, err := s.favoriteRepo.Get(userID, productID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}
