package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// Price of the legacy premium upgrade, in VND.
	LegacyPremiumPrice = 99000

	// Every boost promotes a listing for seven days.
	BoostDuration = 7 * 24 * time.Hour
)

// SubscriptionService owns the entitlement ledger: balances, subscription
// rows, and boost slots. Every mutating operation runs inside one database
// transaction so a failed step leaves no partial state behind.
type SubscriptionService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	packageRepo *repository.SubscriptionPackageRepository
	subRepo     *repository.UserSubscriptionRepository
	boostRepo   *repository.ProductBoostRepository
	productRepo *repository.ProductRepository
	log         *zap.Logger
}

func NewSubscriptionService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	packageRepo *repository.SubscriptionPackageRepository,
	subRepo *repository.UserSubscriptionRepository,
	boostRepo *repository.ProductBoostRepository,
	productRepo *repository.ProductRepository,
	log *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		db:          db,
		userRepo:    userRepo,
		packageRepo: packageRepo,
		subRepo:     subRepo,
		boostRepo:   boostRepo,
		productRepo: productRepo,
		log:         log,
	}
}

// PurchaseSubscription deducts the package price from the user's balance and
// creates or extends the matching subscription row. A repeat purchase of a
// still-active package pushes the expiry forward from its current expiry, not
// from now, and tops up the boost allowance.
func (s *SubscriptionService) PurchaseSubscription(userID, packageID uint) (*models.UserSubscription, error) {
	now := time.Now()
	var result *models.UserSubscription

	err := s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		subRepo := s.subRepo.WithTx(tx)

		pkg, err := s.packageRepo.WithTx(tx).GetByID(packageID)
		if err != nil {
			return fmt.Errorf("package %d: %w", packageID, ErrNotFound)
		}
		if !pkg.IsActive {
			return fmt.Errorf("package %q is no longer offered: %w", pkg.Name, ErrInvalidState)
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}

		if pkg.Price.GreaterThan(user.Balance) {
			return fmt.Errorf("need %s, have %s: %w", pkg.Price, user.Balance, ErrInsufficientBalance)
		}

		sub, err := subRepo.FindActiveByUserAndPackage(userID, packageID, now)
		switch {
		case err == nil:
			// Extend from the current expiry so no paid days are lost.
			sub.ExpiryDate = sub.ExpiryDate.AddDate(0, 0, pkg.DurationDays)
			sub.RemainingBoosts += pkg.BoostSlots
			if err := subRepo.Save(sub); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			sub = &models.UserSubscription{
				UserID:          userID,
				PackageID:       packageID,
				StartDate:       now,
				ExpiryDate:      now.AddDate(0, 0, pkg.DurationDays),
				RemainingBoosts: pkg.BoostSlots,
				IsActive:        true,
			}
			if err := subRepo.Create(sub); err != nil {
				return err
			}
		default:
			return err
		}

		user.Balance = user.Balance.Sub(pkg.Price)
		user.SubscriptionType = tierForPackage(pkg)
		expiry := sub.ExpiryDate
		user.SubscriptionExpiry = &expiry
		if user.SubscriptionType == models.TierStandard {
			user.SubscriptionExpiry = nil
		}
		if err := userRepo.Update(user); err != nil {
			return err
		}

		sub.User = user
		sub.Package = pkg
		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("subscription purchased",
		zap.Uint("user_id", userID),
		zap.Uint("package_id", packageID),
		zap.Time("expiry", result.ExpiryDate),
		zap.String("balance", result.User.Balance.String()),
	)
	return result, nil
}

// tierForPackage derives the account-level tier from the purchased package:
// non-premium packages leave the account standard, premium packages with
// boost slots make it pro, plain premium otherwise.
func tierForPackage(pkg *models.SubscriptionPackage) models.SubscriptionTier {
	if !pkg.IsPremium {
		return models.TierStandard
	}
	if pkg.BoostSlots > 0 {
		return models.TierPro
	}
	return models.TierPremium
}

// BoostProduct consumes one boost slot to promote an approved listing for
// seven days. When several subscriptions qualify, the one expiring soonest is
// charged.
func (s *SubscriptionService) BoostProduct(userID, productID uint) (*models.ProductBoost, error) {
	now := time.Now()
	var result *models.ProductBoost

	err := s.db.Transaction(func(tx *gorm.DB) error {
		subRepo := s.subRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		boostRepo := s.boostRepo.WithTx(tx)

		product, err := productRepo.GetOwned(productID, userID)
		if err != nil {
			return fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		if product.Status != models.ProductApproved {
			return fmt.Errorf("product %d is %s: %w", productID, product.Status, ErrProductNotEligible)
		}
		if product.IsBoosted {
			return ErrAlreadyBoosted
		}

		subs, err := subRepo.FindBoostEligible(userID, now)
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			return ErrNoEligibleSubscription
		}
		sub := &subs[0]

		expiry := now.Add(BoostDuration)
		boost := &models.ProductBoost{
			ProductID:          productID,
			UserID:             userID,
			UserSubscriptionID: &sub.ID,
			BoostDate:          now,
			ExpiryDate:         expiry,
			IsActive:           true,
		}
		if err := boostRepo.Create(boost); err != nil {
			return err
		}

		product.IsBoosted = true
		product.BoostExpiryDate = &expiry
		if err := productRepo.Update(product); err != nil {
			return err
		}

		sub.RemainingBoosts--
		sub.TotalBoostsUsed++
		if err := subRepo.Save(sub); err != nil {
			return err
		}

		boost.Product = product
		result = boost
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product boosted",
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
		zap.Time("boost_expiry", result.ExpiryDate),
	)
	return result, nil
}

// UpgradeToPremium is the legacy flat-price upgrade kept for older clients.
// The expiry extends from the current one when the account is already premium
// and unexpired, otherwise from now, by whole calendar months.
func (s *SubscriptionService) UpgradeToPremium(userID uint, months int) (*models.User, error) {
	if months < 1 {
		months = 1
	}
	price := decimal.NewFromInt(LegacyPremiumPrice)
	var result *models.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)

		user, err := userRepo.GetByID(userID)
		if err != nil {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}

		if price.GreaterThan(user.Balance) {
			return fmt.Errorf("need %s, have %s: %w", price, user.Balance, ErrInsufficientBalance)
		}

		base := time.Now()
		if user.SubscriptionType == models.TierPremium && user.SubscriptionExpiry != nil && user.SubscriptionExpiry.After(base) {
			base = *user.SubscriptionExpiry
		}
		expiry := base.AddDate(0, months, 0)

		user.Balance = user.Balance.Sub(price)
		user.SubscriptionType = models.TierPremium
		user.SubscriptionExpiry = &expiry

		if err := userRepo.Update(user); err != nil {
			return err
		}
		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("legacy premium upgrade",
		zap.Uint("user_id", userID),
		zap.Int("months", months),
		zap.String("balance", result.Balance.String()),
	)
	return result, nil
}

// DowngradeToStandard drops the account to the free tier and deactivates all
// running subscriptions. Refused when the account is already standard.
func (s *SubscriptionService) DowngradeToStandard(userID uint) (*models.User, error) {
	var result *models.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)

		user, err := userRepo.GetByID(userID)
		if err != nil {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}

		if user.SubscriptionType == models.TierStandard {
			return ErrAlreadyStandard
		}

		user.SubscriptionType = models.TierStandard
		user.SubscriptionExpiry = nil
		if err := userRepo.Update(user); err != nil {
			return err
		}

		if err := s.subRepo.WithTx(tx).DeactivateAllForUser(userID); err != nil {
			return err
		}

		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("downgraded to standard", zap.Uint("user_id", userID))
	return result, nil
}

// GetSubscriptionDetails reports the account tier plus every running
// subscription with its boost counters.
func (s *SubscriptionService) GetSubscriptionDetails(userID uint) (*models.SubscriptionDetails, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	now := time.Now()
	subs, err := s.subRepo.FindActiveByUser(userID, now)
	if err != nil {
		return nil, err
	}

	details := &models.SubscriptionDetails{
		UserID:             user.ID,
		Name:               user.Name,
		SubscriptionType:   user.SubscriptionType,
		SubscriptionExpiry: user.SubscriptionExpiry,
		IsActive: user.HasPremiumTier() &&
			user.SubscriptionExpiry != nil &&
			user.SubscriptionExpiry.After(now),
		Balance: user.Balance,
	}

	for _, sub := range subs {
		info := models.ActiveSubscriptionInfo{
			ExpiryDate:      sub.ExpiryDate,
			RemainingBoosts: sub.RemainingBoosts,
			TotalBoostsUsed: sub.TotalBoostsUsed,
		}
		if sub.Package != nil {
			info.PackageName = sub.Package.Name
		}
		details.Subscriptions = append(details.Subscriptions, info)
	}

	return details, nil
}

// GetBoostHistory lists a user's past and running boosts.
func (s *SubscriptionService) GetBoostHistory(userID uint, page, limit int) ([]models.ProductBoost, int64, error) {
	return s.boostRepo.ListByUser(userID, page, limit)
}
