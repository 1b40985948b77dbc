package controllers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/app/repository"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/usercontext"
	"github.com/immofund/ImmoFund/internal/pkg/utils"
)

// HandleUserDashboard renders the account overview with portfolio and
// listing statistics.
func HandleUserDashboard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	db := database.GetDB()

	stats, err := repository.GetGlobalFactory().GetUserRepository().GetStatsByUserID(userCtx.UserID)
	if err != nil {
		log.Errorf("[User] Loading stats for user %d failed: %v", userCtx.UserID, err)
		stats = &repository.UserStats{}
	}

	unread, _ := models.CountUnreadNotifications(db, userCtx.UserID)

	var user models.User
	avatarURL := ""
	if err := db.First(&user, userCtx.UserID).Error; err == nil {
		avatarURL = user.AvatarURL
		if avatarURL == "" {
			avatarURL = utils.GetGravatarURL(user.Email, 160)
		}
	}

	return renderPage(c, "user/dashboard", "Dashboard", fiber.Map{
		"ProjectCount":    stats.ProjectCount,
		"InvestmentCount": stats.InvestmentCount,
		"InvestedTotal":   FormatCents(stats.InvestedTotalCents),
		"UnreadCount":     unread,
		"AvatarURL":       avatarURL,
		"Tier":            userCtx.Tier,
	})
}

// HandleUserProfile renders and updates the public profile.
func HandleUserProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userCtx.UserID).Error; err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Profile could not be loaded",
		}
		return flash.WithError(c, fm).Redirect("/user/dashboard")
	}

	if c.Method() == fiber.MethodPost {
		updates := map[string]interface{}{
			"name":         c.FormValue("name", user.Name),
			"company_name": c.FormValue("company_name"),
			"bio":          c.FormValue("bio"),
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}
			return flash.WithError(c, fm).Redirect("/user/profile")
		}

		fm := fiber.Map{
			"type":    "success",
			"message": "Your profile has been updated.",
		}
		return flash.WithSuccess(c, fm).Redirect("/user/profile")
	}

	avatarURL := user.AvatarURL
	if avatarURL == "" {
		avatarURL = utils.GetGravatarURL(user.Email, 160)
	}

	return renderPage(c, "user/profile", "Profile", fiber.Map{
		"User":      user,
		"AvatarURL": avatarURL,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleUserSettings renders and updates notification preferences and shows
// the API key state.
func HandleUserSettings(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	db := database.GetDB()

	settings, err := models.GetOrCreateUserSettings(db, userCtx.UserID)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Settings could not be loaded",
		}
		return flash.WithError(c, fm).Redirect("/user/dashboard")
	}

	if c.Method() == fiber.MethodPost {
		settings.NewsletterOptIn = c.FormValue("newsletter_opt_in") == "on"
		settings.InvestmentAlerts = c.FormValue("investment_alerts") == "on"
		if err := db.Save(settings).Error; err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}
			return flash.WithError(c, fm).Redirect("/user/settings")
		}

		fm := fiber.Map{
			"type":    "success",
			"message": "Your settings have been saved.",
		}
		return flash.WithSuccess(c, fm).Redirect("/user/settings")
	}

	return renderPage(c, "user/settings", "Settings", fiber.Map{
		"Settings":     settings,
		"HasAPIKey":    settings.HasActiveAPIKey(),
		"APIKeyPrefix": settings.APIKeyPrefix,
		"CSRFToken":    c.Locals("csrf"),
	})
}

// HandleAPIKeyGenerate issues a fresh API key. The raw key is shown exactly
// once; only its hash is stored.
func HandleAPIKeyGenerate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	db := database.GetDB()

	settings, err := models.GetOrCreateUserSettings(db, userCtx.UserID)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Settings could not be loaded",
		}
		return flash.WithError(c, fm).Redirect("/user/settings")
	}

	rawKey, err := settings.IssueAPIKey()
	if err != nil {
		log.Errorf("[User] Issuing API key for user %d failed: %v", userCtx.UserID, err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The API key could not be generated. Please try again.",
		}
		return flash.WithError(c, fm).Redirect("/user/settings")
	}

	if err := db.Save(settings).Error; err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}
		return flash.WithError(c, fm).Redirect("/user/settings")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Your new API key: %s (store it now, it will not be shown again)", rawKey),
	}
	return flash.WithSuccess(c, fm).Redirect("/user/settings")
}

// HandleAPIKeyRevoke revokes the active API key.
func HandleAPIKeyRevoke(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	db := database.GetDB()

	settings, err := models.GetOrCreateUserSettings(db, userCtx.UserID)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Settings could not be loaded",
		}
		return flash.WithError(c, fm).Redirect("/user/settings")
	}

	settings.RevokeAPIKey()
	if err := db.Save(settings).Error; err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}
		return flash.WithError(c, fm).Redirect("/user/settings")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Your API key has been revoked.",
	}
	return flash.WithSuccess(c, fm).Redirect("/user/settings")
}

// HandleUserNotifications lists notifications, newest first.
func HandleUserNotifications(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	db := database.GetDB()

	var notifications []models.Notification
	if err := db.Where("user_id = ?", userCtx.UserID).
		Order("created_at DESC").Limit(50).
		Find(&notifications).Error; err != nil {
		log.Errorf("[User] Loading notifications for user %d failed: %v", userCtx.UserID, err)
	}

	return renderPage(c, "user/notifications", "Notifications", fiber.Map{
		"Notifications": notifications,
		"CSRFToken":     c.Locals("csrf"),
	})
}

// HandleNotificationRead marks one notification as read.
func HandleNotificationRead(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	db := database.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Invalid notification"}).Redirect("/user/notifications")
	}

	var notification models.Notification
	if err := db.Where("id = ? AND user_id = ?", id, userCtx.UserID).First(&notification).Error; err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Notification not found"}).Redirect("/user/notifications")
	}

	if err := notification.MarkAsRead(db); err != nil {
		log.Warnf("[User] Marking notification %d as read failed: %v", notification.ID, err)
	}

	return c.Redirect("/user/notifications")
}
