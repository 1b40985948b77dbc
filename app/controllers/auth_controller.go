package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/entitlements"
	"github.com/immofund/ImmoFund/internal/pkg/env"
	"github.com/immofund/ImmoFund/internal/pkg/hcaptcha"
	"github.com/immofund/ImmoFund/internal/pkg/mail"
	"github.com/immofund/ImmoFund/internal/pkg/session"
	"github.com/immofund/ImmoFund/internal/pkg/statistics"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		var user models.User
		fm := fiber.Map{
			"type": "error",
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
		if result.Error != nil {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !models.CheckPasswordHash(c.FormValue("password"), user.Password) {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if user.Status == models.STATUS_DISABLED {
			fm["message"] = "This account has been disabled"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if user.Status == models.STATUS_INACTIVE {
			fm["message"] = "Please activate your account first. Check your inbox for the activation link."

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(AUTH_KEY, true)
		sess.Set(USER_ID, user.ID)
		sess.Set(USER_NAME, user.Name)
		sess.Set(USER_IS_ADMIN, user.Role == models.ROLE_ADMIN)
		sess.Set(USER_IS_DEVELOPER, user.IsDeveloper())

		// Cache the subscription tier so the middleware skips the DB lookup
		tier := string(entitlements.TierStarter)
		status := ""
		if sub, subErr := models.FindCurrentSubscription(database.GetDB(), user.ID); subErr == nil && sub != nil {
			tier = string(entitlements.NormalizeTier(sub.Tier))
			status = sub.Status
		}
		sess.Set(USER_TIER, tier)
		sess.Set(USER_SUBSCRIPTION_STATUS, status)

		err = sess.Save()
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		ipv4, ipv6 := GetClientIP(c)
		updates := map[string]interface{}{"last_login_at": time.Now()}
		if ipv4 != "" {
			updates["ipv4"] = ipv4
		}
		if ipv6 != "" {
			updates["ipv6"] = ipv6
		}
		database.GetDB().Model(&user).Updates(updates)

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back!",
		}

		return flash.WithSuccess(c, fm).Redirect("/")
	}

	return renderPage(c, "auth/login", "Sign in", fiber.Map{
		"CSRFToken": c.Locals("csrf"),
	})
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	err = sess.Destroy()
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "You have been signed out. See you soon!",
	}

	c.Locals(FROM_PROTECTED, false)

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if !models.GetAppSettings().IsRegistrationEnabled() {
		fm := fiber.Map{
			"type":    "error",
			"message": "Registration is currently disabled",
		}
		return flash.WithError(c, fm).Redirect("/login")
	}

	if c.Method() == fiber.MethodPost {
		// Verify hCaptcha token
		hcaptchaToken := c.FormValue("h-captcha-response")
		valid, err := hcaptcha.Verify(hcaptchaToken)
		if err != nil || !valid {
			errorMsg := "Captcha validation failed. Please try again."
			if err != nil && env.IsDev() {
				errorMsg = fmt.Sprintf("Captcha validation failed: %v", err)
			}

			fm := fiber.Map{
				"type":    "error",
				"message": errorMsg,
			}
			return flash.WithError(c, fm).Redirect("/register")
		}

		role := models.ROLE_INVESTOR
		if c.FormValue("account_type") == "developer" {
			role = models.ROLE_DEVELOPER
		}

		user, err := models.CreateUser(c.FormValue("username"), c.FormValue("email"), c.FormValue("password"), role)
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := user.GenerateActivationToken(); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		ipv4, ipv6 := GetClientIP(c)
		user.IPv4 = ipv4
		user.IPv6 = ipv6

		err = database.GetDB().Create(&user).Error
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		sendActivationMail(user)

		// Update statistics after registration
		go statistics.UpdateStatisticsCache()

		fm := fiber.Map{
			"type":    "success",
			"message": "Registration successful! Please check your inbox to activate your account.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return renderPage(c, "auth/register", "Create account", fiber.Map{
		"CSRFToken":       c.Locals("csrf"),
		"HCaptchaSitekey": env.GetEnv("HCAPTCHA_SITEKEY", ""),
	})
}

// HandleAuthActivate activates an account via the mailed token link.
func HandleAuthActivate(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Missing activation token",
		}
		return flash.WithError(c, fm).Redirect("/login")
	}

	var user models.User
	result := database.GetDB().Where("activation_token = ?", token).First(&user)
	if result.Error != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Invalid or expired activation token",
		}
		return flash.WithError(c, fm).Redirect("/login")
	}

	updates := map[string]interface{}{
		"status":           models.STATUS_ACTIVE,
		"activation_token": "",
	}
	if err := database.GetDB().Model(&user).Updates(updates).Error; err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}
		return flash.WithError(c, fm).Redirect("/login")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Your account is now active. You can sign in.",
	}
	return flash.WithSuccess(c, fm).Redirect("/login")
}

func sendActivationMail(user *models.User) {
	domain := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
	link := fmt.Sprintf("%s/activate?token=%s", domain, user.ActivationToken)
	subject := "Activate your account"
	body := fmt.Sprintf("Hello %s,\n\nplease confirm your email address by opening the following link:\n\n%s\n\nIf you did not create this account you can ignore this mail.", user.Name, link)

	go func() {
		if err := mail.SendMail(user.Email, subject, body); err != nil {
			fmt.Printf("activation mail to %s failed: %v\n", user.Email, err)
		}
	}()
}
