package scheduler

import (
	"context"
	"time"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// Listings are checked for expiry every hour, subscriptions once a day.
	ProductSweepInterval      = time.Hour
	SubscriptionSweepInterval = 24 * time.Hour
)

// Sweeper runs the background expiry jobs: listings past their expiry date,
// boosts past their window, and lapsed subscriptions.
type Sweeper struct {
	db               *gorm.DB
	productRepo      *repository.ProductRepository
	boostRepo        *repository.ProductBoostRepository
	subscriptionRepo *repository.UserSubscriptionRepository
	userRepo         *repository.UserRepository
	log              *zap.Logger
}

func NewSweeper(
	db *gorm.DB,
	productRepo *repository.ProductRepository,
	boostRepo *repository.ProductBoostRepository,
	subscriptionRepo *repository.UserSubscriptionRepository,
	userRepo *repository.UserRepository,
	log *zap.Logger,
) *Sweeper {
	return &Sweeper{
		db:               db,
		productRepo:      productRepo,
		boostRepo:        boostRepo,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		log:              log,
	}
}

// Run blocks until the context is cancelled, firing both sweeps on their
// intervals. Each sweep also runs once at startup to catch anything that
// lapsed while the process was down.
func (s *Sweeper) Run(ctx context.Context) {
	s.ProductSweep(time.Now())
	s.SubscriptionSweep(time.Now())

	productTicker := time.NewTicker(ProductSweepInterval)
	subscriptionTicker := time.NewTicker(SubscriptionSweepInterval)
	defer productTicker.Stop()
	defer subscriptionTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		case <-productTicker.C:
			s.ProductSweep(time.Now())
		case <-subscriptionTicker.C:
			s.SubscriptionSweep(time.Now())
		}
	}
}

// ProductSweep expires approved listings past their expiry date and clears
// boost flags whose window has closed. A failure on one row is logged and
// does not stop the rest.
func (s *Sweeper) ProductSweep(now time.Time) {
	expired, err := s.productRepo.FindExpiredApproved(now)
	if err != nil {
		s.log.Error("product sweep: query expired listings", zap.Error(err))
	} else {
		var count int
		for i := range expired {
			product := &expired[i]
			product.Status = models.ProductExpired
			if err := s.productRepo.Update(product); err != nil {
				s.log.Error("product sweep: expire listing",
					zap.Uint("product_id", product.ID), zap.Error(err))
				continue
			}
			count++
		}
		if count > 0 {
			s.log.Info("product sweep: listings expired", zap.Int("count", count))
		}
	}

	boosted, err := s.productRepo.FindBoostExpired(now)
	if err != nil {
		s.log.Error("product sweep: query expired boosts", zap.Error(err))
		return
	}
	var unboosted int
	for i := range boosted {
		product := &boosted[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.boostRepo.WithTx(tx).DeactivateForProduct(product.ID, now); err != nil {
				return err
			}
			product.IsBoosted = false
			product.BoostExpiryDate = nil
			return s.productRepo.WithTx(tx).Update(product)
		})
		if err != nil {
			s.log.Error("product sweep: clear boost",
				zap.Uint("product_id", product.ID), zap.Error(err))
			continue
		}
		unboosted++
	}
	if unboosted > 0 {
		s.log.Info("product sweep: boosts cleared", zap.Int("count", unboosted))
	}
}

// SubscriptionSweep deactivates lapsed subscription rows and drops users
// whose paid tier has run out back to standard.
func (s *Sweeper) SubscriptionSweep(now time.Time) {
	lapsed, err := s.subscriptionRepo.FindLapsed(now)
	if err != nil {
		s.log.Error("subscription sweep: query lapsed subscriptions", zap.Error(err))
	} else {
		var count int
		for i := range lapsed {
			sub := &lapsed[i]
			sub.IsActive = false
			if err := s.subscriptionRepo.Save(sub); err != nil {
				s.log.Error("subscription sweep: deactivate subscription",
					zap.Uint("subscription_id", sub.ID), zap.Error(err))
				continue
			}
			count++
		}
		if count > 0 {
			s.log.Info("subscription sweep: subscriptions deactivated", zap.Int("count", count))
		}
	}

	users, err := s.userRepo.FindLapsedPaidTier(now)
	if err != nil {
		s.log.Error("subscription sweep: query lapsed users", zap.Error(err))
		return
	}
	var downgraded int
	for i := range users {
		user := &users[i]
		// A still-active subscription on another package keeps the tier.
		active, err := s.subscriptionRepo.CountActiveUnexpired(user.ID, now)
		if err != nil {
			s.log.Error("subscription sweep: count active subscriptions",
				zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		if active > 0 {
			continue
		}

		user.SubscriptionType = models.TierStandard
		user.SubscriptionExpiry = nil
		if err := s.userRepo.Update(user); err != nil {
			s.log.Error("subscription sweep: downgrade user",
				zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		downgraded++
	}
	if downgraded > 0 {
		s.log.Info("subscription sweep: users downgraded", zap.Int("count", downgraded))
	}
}
