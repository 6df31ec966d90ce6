package service

import (
	"fmt"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
)

// TaxonomyService manages the category tree and the brands hanging off it.
type TaxonomyService struct {
	categoryRepo *repository.CategoryRepository
	brandRepo    *repository.BrandRepository
}

func NewTaxonomyService(categoryRepo *repository.CategoryRepository, brandRepo *repository.BrandRepository) *TaxonomyService {
	return &TaxonomyService{categoryRepo: categoryRepo, brandRepo: brandRepo}
}

func (s *TaxonomyService) CreateCategory(req models.CreateCategoryRequest) (*models.Category, error) {
	if req.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(*req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent category %d: %w", *req.ParentID, ErrNotFound)
		}
		// Only one level of nesting.
		if parent.ParentID != nil {
			return nil, fmt.Errorf("subcategories cannot have children: %w", ErrInvalidState)
		}
	}

	category := &models.Category{Name: req.Name, ParentID: req.ParentID}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *TaxonomyService) GetCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

func (s *TaxonomyService) GetCategory(id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return category, nil
}

func (s *TaxonomyService) GetSubcategories(parentID uint) ([]models.Category, error) {
	if _, err := s.categoryRepo.GetByID(parentID); err != nil {
		return nil, fmt.Errorf("category %d: %w", parentID, ErrNotFound)
	}
	return s.categoryRepo.GetChildren(parentID)
}

func (s *TaxonomyService) UpdateCategory(id uint, req models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}

	category.Name = req.Name
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category, refusing while brands or subcategories
// still reference it.
func (s *TaxonomyService) DeleteCategory(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}

	children, err := s.categoryRepo.GetChildren(id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return fmt.Errorf("category still has subcategories: %w", ErrInvalidState)
	}

	count, err := s.categoryRepo.CountBrands(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("category still has brands: %w", ErrInvalidState)
	}

	return s.categoryRepo.Delete(category)
}

func (s *TaxonomyService) CreateBrand(req models.CreateBrandRequest) (*models.Brand, error) {
	if _, err := s.categoryRepo.GetByID(req.CategoryID); err != nil {
		return nil, fmt.Errorf("category %d: %w", req.CategoryID, ErrNotFound)
	}

	brand := &models.Brand{Name: req.Name, CategoryID: req.CategoryID}
	if err := s.brandRepo.Create(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *TaxonomyService) GetBrands() ([]models.Brand, error) {
	return s.brandRepo.GetAll()
}

func (s *TaxonomyService) GetBrandsByCategory(categoryID uint) ([]models.Brand, error) {
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		return nil, fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
	}
	return s.brandRepo.GetByCategory(categoryID)
}

func (s *TaxonomyService) UpdateBrand(id uint, name string) (*models.Brand, error) {
	brand, err := s.brandRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("brand %d: %w", id, ErrNotFound)
	}

	brand.Name = name
	if err := s.brandRepo.Update(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *TaxonomyService) DeleteBrand(id uint) error {
	brand, err := s.brandRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("brand %d: %w", id, ErrNotFound)
	}
	return s.brandRepo.Delete(brand)
}
