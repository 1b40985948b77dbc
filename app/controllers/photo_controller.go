package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/mediaprocessor"
	"github.com/immofund/ImmoFund/internal/pkg/usercontext"
)

// HandlePhotoStatus reports the thumbnail processing state of an uploaded
// photo. The listing form polls this endpoint after upload.
func HandlePhotoStatus(c *fiber.Ctx) error {
	uuid := c.Params("uuid")
	if uuid == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "uuid is required"})
	}

	image, err := models.FindProjectImageByUUID(database.GetDB(), uuid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "photo not found"})
	}

	userCtx := usercontext.GetUserContext(c)
	if image.UserID != userCtx.UserID && !userCtx.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
	}

	status, err := mediaprocessor.GetPhotoStatus(uuid)
	if err != nil || status == "" {
		if image.HasThumbnail {
			status = mediaprocessor.STATUS_COMPLETED
		} else {
			status = mediaprocessor.STATUS_PENDING
		}
	}

	resp := fiber.Map{
		"uuid":   image.UUID,
		"status": status,
	}
	if status == mediaprocessor.STATUS_COMPLETED {
		resp["card_path"] = "/" + mediaprocessor.GetPhotoPath(image, "card")
		if image.Width > mediaprocessor.GalleryThumbnailWidth {
			resp["gallery_path"] = "/" + mediaprocessor.GetPhotoPath(image, "gallery")
		}
	}

	return c.JSON(resp)
}
