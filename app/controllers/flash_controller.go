package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
)

// HandleFlashSubmitRateLimit sets a flash error and redirects to home
func HandleFlashSubmitRateLimit(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type":    "error",
		"message": "Submission limit reached. Please wait a moment and try again.",
	}
	flash.WithError(c, fm)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleFlashSubmitError shows a generic submission error from query string
// Query: ?msg=...
func HandleFlashSubmitError(c *fiber.Ctx) error {
	msg := c.Query("msg", "Something went wrong. Please try again.")
	if len(msg) > 300 {
		msg = msg[:300]
	}
	fm := fiber.Map{
		"type":    "error",
		"message": msg,
	}
	flash.WithError(c, fm)
	return c.Redirect("/", fiber.StatusSeeOther)
}
