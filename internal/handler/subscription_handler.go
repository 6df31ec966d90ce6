package handler

import (
	"github.com/chodocu/chodocu-backend/internal/middleware"
	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/service"
	"github.com/chodocu/chodocu-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
	packageService      *service.PackageService
	validator           *utils.Validator
}

func NewSubscriptionHandler(
	subscriptionService *service.SubscriptionService,
	packageService *service.PackageService,
	validator *utils.Validator,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		packageService:      packageService,
		validator:           validator,
	}
}

func (h *SubscriptionHandler) GetPackages(c *fiber.Ctx) error {
	packages, err := h.packageService.GetAllPackages()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(packages, ""))
}

func (h *SubscriptionHandler) PurchaseSubscription(c *fiber.Ctx) error {
	var req models.PurchaseSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	sub, err := h.subscriptionService.PurchaseSubscription(middleware.UserIDFromCtx(c), req.PackageID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(sub, "Subscription purchased"))
}

func (h *SubscriptionHandler) BoostProduct(c *fiber.Ctx) error {
	var req models.BoostProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	boost, err := h.subscriptionService.BoostProduct(middleware.UserIDFromCtx(c), req.ProductID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(boost, "Product boosted"))
}

func (h *SubscriptionHandler) UpgradeToPremium(c *fiber.Ctx) error {
	var req models.UpgradeToPremiumRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.subscriptionService.UpgradeToPremium(middleware.UserIDFromCtx(c), req.Months)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(user, "Upgraded to premium"))
}

func (h *SubscriptionHandler) DowngradeToStandard(c *fiber.Ctx) error {
	user, err := h.subscriptionService.DowngradeToStandard(middleware.UserIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(user, "Downgraded to standard"))
}

func (h *SubscriptionHandler) GetSubscriptionDetails(c *fiber.Ctx) error {
	details, err := h.subscriptionService.GetSubscriptionDetails(middleware.UserIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(details, ""))
}

func (h *SubscriptionHandler) GetBoostHistory(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	boosts, total, err := h.subscriptionService.GetBoostHistory(middleware.UserIDFromCtx(c), page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(models.PagedResponse{
		Data: boosts,
		Meta: models.NewMeta(total, page, limit),
	}, ""))
}

func (h *SubscriptionHandler) CreatePackage(c *fiber.Ctx) error {
	var req models.CreatePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	pkg, err := h.packageService.CreatePackage(req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(pkg, "Package created"))
}

func (h *SubscriptionHandler) UpdatePackage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid package id")
	}

	var req models.UpdatePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	pkg, err := h.packageService.UpdatePackage(uint(id), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(pkg, "Package updated"))
}

func (h *SubscriptionHandler) DeactivatePackage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid package id")
	}

	if err := h.packageService.DeactivatePackage(uint(id)); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Package deactivated"))
}
