package service

import (
	"fmt"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
)

// PackageService manages the admin-curated catalog of subscription plans.
type PackageService struct {
	packageRepo *repository.SubscriptionPackageRepository
}

func NewPackageService(packageRepo *repository.SubscriptionPackageRepository) *PackageService {
	return &PackageService{packageRepo: packageRepo}
}

func (s *PackageService) GetAllPackages() ([]models.SubscriptionPackage, error) {
	return s.packageRepo.GetAllActive()
}

func (s *PackageService) GetPackageByID(id uint) (*models.SubscriptionPackage, error) {
	pkg, err := s.packageRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("package %d: %w", id, ErrNotFound)
	}
	return pkg, nil
}

func (s *PackageService) CreatePackage(req models.CreatePackageRequest) (*models.SubscriptionPackage, error) {
	pkg := &models.SubscriptionPackage{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		BoostSlots:   req.BoostSlots,
		IsPremium:    req.IsPremium,
		IsActive:     true,
	}
	if err := s.packageRepo.Create(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *PackageService) UpdatePackage(id uint, req models.UpdatePackageRequest) (*models.SubscriptionPackage, error) {
	pkg, err := s.GetPackageByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.Description != nil {
		pkg.Description = *req.Description
	}
	if req.Price != nil {
		pkg.Price = *req.Price
	}
	if req.DurationDays != nil {
		pkg.DurationDays = *req.DurationDays
	}
	if req.BoostSlots != nil {
		pkg.BoostSlots = *req.BoostSlots
	}
	if req.IsPremium != nil {
		pkg.IsPremium = *req.IsPremium
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := s.packageRepo.Update(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// DeactivatePackage hides a plan from the catalog without touching the
// subscriptions already sold against it.
func (s *PackageService) DeactivatePackage(id uint) error {
	pkg, err := s.GetPackageByID(id)
	if err != nil {
		return err
	}
	pkg.IsActive = false
	return s.packageRepo.Update(pkg)
}
