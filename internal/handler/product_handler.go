package handler

import (
	"github.com/chodocu/chodocu-backend/internal/middleware"
	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/service"
	"github.com/chodocu/chodocu-backend/pkg/qrcode"
	"github.com/chodocu/chodocu-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService *service.ProductService
	qrService      *qrcode.QRService
	validator      *utils.Validator
}

func NewProductHandler(productService *service.ProductService, qrService *qrcode.QRService, validator *utils.Validator) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		qrService:      qrService,
		validator:      validator,
	}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)
	search := c.Query("search")

	products, total, err := h.productService.GetApprovedProducts(search, page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(models.PagedResponse{
		Data: products,
		Meta: models.NewMeta(total, page, limit),
	}, ""))
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid product id")
	}

	product, err := h.productService.GetProductByID(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(product, ""))
}

func (h *ProductHandler) GetProductsByCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid category id")
	}
	page, limit := utils.ParsePagination(c)

	products, total, err := h.productService.GetProductsByCategory(uint(id), page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(models.PagedResponse{
		Data: products,
		Meta: models.NewMeta(total, page, limit),
	}, ""))
}

func (h *ProductHandler) GetProductQR(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid product id")
	}

	if _, err := h.productService.GetProductByID(uint(id)); err != nil {
		return fail(c, err)
	}

	size := c.QueryInt("size", 256)
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := h.qrService.GenerateProductQR(uint(id), size)
	if err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	product, err := h.productService.CreateProduct(middleware.UserIDFromCtx(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(product, "Product submitted for review"))
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid product id")
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	product, err := h.productService.UpdateProduct(uint(id), middleware.UserIDFromCtx(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(product, "Product updated"))
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid product id")
	}

	if err := h.productService.DeleteProduct(uint(id), middleware.UserIDFromCtx(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Product deleted"))
}

func (h *ProductHandler) HideProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid product id")
	}

	if err := h.productService.HideProduct(uint(id), middleware.UserIDFromCtx(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Product hidden"))
}

func (h *ProductHandler) ShowProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid product id")
	}

	if err := h.productService.ShowProduct(uint(id), middleware.UserIDFromCtx(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Product visible again"))
}

func (h *ProductHandler) RenewProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid product id")
	}

	product, err := h.productService.RenewProduct(uint(id), middleware.UserIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(product, "Product resubmitted for review"))
}

func (h *ProductHandler) GetMyProducts(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)
	status := models.ProductStatus(c.Query("status"))

	products, total, err := h.productService.GetUserProducts(middleware.UserIDFromCtx(c), status, page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(models.PagedResponse{
		Data: products,
		Meta: models.NewMeta(total, page, limit),
	}, ""))
}

func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)
	includeExpired := c.QueryBool("include_expired", false)

	products, total, err := h.productService.GetAllProducts(includeExpired, page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(models.PagedResponse{
		Data: products,
		Meta: models.NewMeta(total, page, limit),
	}, ""))
}

func (h *ProductHandler) ModerateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid product id")
	}

	var req models.ModerateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	product, err := h.productService.ModerateProduct(uint(id), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(product, "Product moderated"))
}

func (h *ProductHandler) AddToFavorites(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid product id")
	}

	favorite, err := h.productService.AddToFavorites(middleware.UserIDFromCtx(c), uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(favorite, "Added to favorites"))
}

func (h *ProductHandler) RemoveFromFavorites(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid product id")
	}

	if err := h.productService.RemoveFromFavorites(middleware.UserIDFromCtx(c), uint(id)); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Removed from favorites"))
}

func (h *ProductHandler) GetFavorites(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	products, total, err := h.productService.GetUserFavorites(middleware.UserIDFromCtx(c), page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(models.PagedResponse{
		Data: products,
		Meta: models.NewMeta(total, page, limit),
	}, ""))
}
