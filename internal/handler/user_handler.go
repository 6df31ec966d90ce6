package handler

import (
	"github.com/chodocu/chodocu-backend/internal/middleware"
	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/service"
	"github.com/chodocu/chodocu-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *service.UserService
	validator   *utils.Validator
}

func NewUserHandler(userService *service.UserService, validator *utils.Validator) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.userService.GetProfile(middleware.UserIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(user, ""))
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.userService.UpdateProfile(middleware.UserIDFromCtx(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(user, "Profile updated"))
}

func (h *UserHandler) UpdateAvatar(c *fiber.Ctx) error {
	var req struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateAvatar(middleware.UserIDFromCtx(c), req.AvatarURL)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(user, "Avatar updated"))
}

func (h *UserHandler) GetPublicProfile(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid user id")
	}

	user, err := h.userService.GetPublicProfile(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(user, ""))
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	users, total, err := h.userService.ListUsers(page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(models.PagedResponse{
		Data: users,
		Meta: models.NewMeta(total, page, limit),
	}, ""))
}

func (h *UserHandler) UpdateUserStatusRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid user id")
	}

	var req models.UpdateUserStatusRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.userService.UpdateUserStatusRole(uint(id), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(user, "User updated"))
}
