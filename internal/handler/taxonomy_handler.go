package handler

import (
	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/service"
	"github.com/chodocu/chodocu-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type TaxonomyHandler struct {
	taxonomyService *service.TaxonomyService
	validator       *utils.Validator
}

func NewTaxonomyHandler(taxonomyService *service.TaxonomyService, validator *utils.Validator) *TaxonomyHandler {
	return &TaxonomyHandler{
		taxonomyService: taxonomyService,
		validator:       validator,
	}
}

func (h *TaxonomyHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.taxonomyService.GetCategories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(categories, ""))
}

func (h *TaxonomyHandler) GetSubcategories(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid category id")
	}

	children, err := h.taxonomyService.GetSubcategories(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(children, ""))
}

func (h *TaxonomyHandler) CreateCategory(c *fiber.Ctx) error {
	var req models.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	category, err := h.taxonomyService.CreateCategory(req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(category, "Category created"))
}

func (h *TaxonomyHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid category id")
	}

	var req models.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	category, err := h.taxonomyService.UpdateCategory(uint(id), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(category, "Category updated"))
}

func (h *TaxonomyHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid category id")
	}

	if err := h.taxonomyService.DeleteCategory(uint(id)); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Category deleted"))
}

func (h *TaxonomyHandler) GetBrands(c *fiber.Ctx) error {
	brands, err := h.taxonomyService.GetBrands()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(brands, ""))
}

func (h *TaxonomyHandler) GetBrandsByCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid category id")
	}

	brands, err := h.taxonomyService.GetBrandsByCategory(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(brands, ""))
}

func (h *TaxonomyHandler) CreateBrand(c *fiber.Ctx) error {
	var req models.CreateBrandRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	brand, err := h.taxonomyService.CreateBrand(req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(brand, "Brand created"))
}

func (h *TaxonomyHandler) UpdateBrand(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid brand id")
	}

	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "Name is required")
	}

	brand, err := h.taxonomyService.UpdateBrand(uint(id), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(brand, "Brand updated"))
}

func (h *TaxonomyHandler) DeleteBrand(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid brand id")
	}

	if err := h.taxonomyService.DeleteBrand(uint(id)); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Brand deleted"))
}
