package handler

import (
	"errors"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// fail maps service errors onto HTTP statuses.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrPermissionDenied):
		status = fiber.StatusForbidden
	case errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrListingLimitReached):
		status = fiber.StatusPaymentRequired
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrAlreadyStandard),
		errors.Is(err, service.ErrAlreadyBoosted),
		errors.Is(err, service.ErrNoEligibleSubscription),
		errors.Is(err, service.ErrProductNotEligible):
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(models.ErrorResponse(err.Error()))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(message))
}
