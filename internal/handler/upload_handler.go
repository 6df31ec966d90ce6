package handler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chodocu/chodocu-backend/internal/middleware"
	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/pkg/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUploadSize = 10 << 20 // 10 MB

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UploadHandler struct {
	store storage.ObjectStorage
	log   *zap.Logger
}

func NewUploadHandler(store storage.ObjectStorage, log *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, log: log}
}

// UploadImage stores a multipart image and returns its public URL. Clients
// pass the returned URL when creating listings or updating their avatar.
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded")
	}

	if file.Size > maxUploadSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(
			models.ErrorResponse("File exceeds the 10MB limit"))
	}

	contentType := file.Header.Get("Content-Type")
	if !supportedImageTypes[contentType] {
		return badRequest(c, "Unsupported image type")
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(
			models.ErrorResponse("Could not read uploaded file"))
	}
	defer src.Close()

	userID := middleware.UserIDFromCtx(c)
	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("uploads/%d/%s%s", userID, uuid.New().String(), ext)

	if err := h.store.Upload(key, src, contentType); err != nil {
		h.log.Error("upload failed", zap.Uint("user_id", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			models.ErrorResponse("Upload failed"))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(fiber.Map{
		"url": h.store.PublicURL(key),
		"key": key,
	}, "File uploaded"))
}
