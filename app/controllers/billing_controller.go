package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/billing"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/entitlements"
	"github.com/immofund/ImmoFund/internal/pkg/env"
	"github.com/immofund/ImmoFund/internal/pkg/session"
	"github.com/immofund/ImmoFund/internal/pkg/usercontext"
)

const billingTimeout = 10 * time.Second

// HandleBillingOverview renders the subscription management page with the
// current plan, effective limits and active add-ons.
func HandleBillingOverview(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	svc := billing.NewServiceFromDB(database.GetDB())

	ctx, cancel := context.WithTimeout(c.Context(), billingTimeout)
	defer cancel()

	sub, err := models.FindCurrentSubscription(database.GetDB(), userCtx.UserID)
	if err != nil {
		sub = nil
	}

	limits, err := svc.EffectiveLimits(ctx, userCtx.UserID)
	if err != nil {
		log.Errorf("[Billing] Resolving limits for user %d failed: %v", userCtx.UserID, err)
	}

	addOns, err := svc.ActiveAddOns(ctx, userCtx.UserID)
	if err != nil {
		log.Errorf("[Billing] Loading add-ons for user %d failed: %v", userCtx.UserID, err)
	}

	data := fiber.Map{
		"Limits":    limits,
		"AddOns":    addOns,
		"CSRFToken": c.Locals("csrf"),
	}
	if sub != nil {
		data["Tier"] = sub.Tier
		data["Status"] = sub.Status
		data["AutoRenew"] = sub.AutoRenew
		if sub.EndDate != nil {
			data["EndDate"] = sub.EndDate.Format("02.01.2006")
		}
		data["UpgradeHint"] = entitlements.UpgradeMessage(entitlements.NormalizeTier(sub.Tier))
	} else {
		data["Tier"] = string(entitlements.TierStarter)
		data["Status"] = ""
		data["UpgradeHint"] = entitlements.UpgradeMessage(entitlements.TierStarter)
	}

	return renderPage(c, "billing/overview", "Subscription", data)
}

// HandleBillingSubscribe opens a subscription for the selected tier. The
// subscription starts as trial and is activated by the payment webhook.
func HandleBillingSubscribe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	svc := billing.NewServiceFromDB(database.GetDB())

	ctx, cancel := context.WithTimeout(c.Context(), billingTimeout)
	defer cancel()

	tier := c.FormValue("tier")
	sub, err := svc.Subscribe(ctx, billing.SubscribeInput{
		UserID:          userCtx.UserID,
		Tier:            tier,
		BillingInterval: c.FormValue("interval"),
		AutoRenew:       c.FormValue("auto_renew") == "on",
		StartAsTrial:    true,
	})
	if err != nil {
		log.Errorf("[Billing] Subscribe for user %d failed: %v", userCtx.UserID, err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The subscription could not be created. Please try again.",
		}
		return flash.WithError(c, fm).Redirect("/user/billing")
	}

	refreshSessionTier(c, sub)

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Your %s subscription has been created. It becomes active once payment is confirmed.", sub.Tier),
	}
	return flash.WithSuccess(c, fm).Redirect("/user/billing")
}

// HandleBillingUpgrade moves the current subscription to a higher tier.
func HandleBillingUpgrade(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	svc := billing.NewServiceFromDB(database.GetDB())

	ctx, cancel := context.WithTimeout(c.Context(), billingTimeout)
	defer cancel()

	sub, err := svc.Upgrade(ctx, userCtx.UserID, c.FormValue("tier"))
	if err != nil {
		fm := fiber.Map{
			"type": "error",
		}
		switch {
		case errors.Is(err, billing.ErrNoSubscription):
			fm["message"] = "You do not have a subscription to upgrade."
		case errors.Is(err, billing.ErrNotAnUpgrade):
			fm["message"] = "The selected plan is not an upgrade of your current plan."
		default:
			log.Errorf("[Billing] Upgrade for user %d failed: %v", userCtx.UserID, err)
			fm["message"] = "The upgrade could not be processed. Please try again."
		}
		return flash.WithError(c, fm).Redirect("/user/billing")
	}

	refreshSessionTier(c, sub)

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Your plan has been upgraded to %s.", sub.Tier),
	}
	return flash.WithSuccess(c, fm).Redirect("/user/billing")
}

// HandleBillingCancel cancels the current subscription. Entitlements end
// immediately.
func HandleBillingCancel(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	svc := billing.NewServiceFromDB(database.GetDB())

	ctx, cancel := context.WithTimeout(c.Context(), billingTimeout)
	defer cancel()

	sub, err := svc.Cancel(ctx, userCtx.UserID)
	if err != nil {
		fm := fiber.Map{
			"type": "error",
		}
		if errors.Is(err, billing.ErrNoSubscription) {
			fm["message"] = "You do not have a subscription to cancel."
		} else {
			log.Errorf("[Billing] Cancel for user %d failed: %v", userCtx.UserID, err)
			fm["message"] = "The cancellation could not be processed. Please try again."
		}
		return flash.WithError(c, fm).Redirect("/user/billing")
	}

	refreshSessionTier(c, sub)

	fm := fiber.Map{
		"type":    "success",
		"message": "Your subscription has been cancelled.",
	}
	return flash.WithSuccess(c, fm).Redirect("/user/billing")
}

// HandleBillingAddOn purchases an add-on, optionally bound to one project.
func HandleBillingAddOn(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	svc := billing.NewServiceFromDB(database.GetDB())

	ctx, cancel := context.WithTimeout(c.Context(), billingTimeout)
	defer cancel()

	in := billing.AddOnInput{
		UserID: userCtx.UserID,
		Type:   c.FormValue("type"),
	}
	if uuid := c.FormValue("project_uuid"); uuid != "" {
		if project, err := models.FindProjectByUUID(database.GetDB(), uuid); err == nil && project.UserID == userCtx.UserID {
			in.ProjectID = &project.ID
		}
	}

	addOn, err := svc.PurchaseAddOn(ctx, in)
	if err != nil {
		fm := fiber.Map{
			"type": "error",
		}
		if errors.Is(err, billing.ErrUnknownAddOn) {
			fm["message"] = "Unknown add-on type."
		} else {
			log.Errorf("[Billing] Add-on purchase for user %d failed: %v", userCtx.UserID, err)
			fm["message"] = "The add-on could not be purchased. Please try again."
		}
		return flash.WithError(c, fm).Redirect("/user/billing")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Add-on %q purchased for %s.", addOn.Type, FormatCents(addOn.PriceCents)),
	}
	return flash.WithSuccess(c, fm).Redirect("/user/billing")
}

// paymentWebhookEvent is the payload shape sent by the payment provider.
type paymentWebhookEvent struct {
	Event  string `json:"event"`
	UserID uint   `json:"user_id"`
}

// HandlePaymentWebhook processes payment provider callbacks. The HMAC
// signature is verified before the payload is trusted; responses are JSON
// since the caller is a machine.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	secret := env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")
	if secret == "" {
		log.Error("[Billing] PAYMENT_WEBHOOK_SECRET is not configured")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "webhook not configured"})
	}

	signature := c.Get("X-Payment-Signature")
	if !billing.VerifyPaymentWebhookSignature(c.Body(), signature, secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
	}

	var event paymentWebhookEvent
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), billingTimeout)
	defer cancel()

	switch event.Event {
	case "payment.succeeded":
		sub, err := svc.ActivateTrial(ctx, event.UserID)
		if err != nil {
			if errors.Is(err, billing.ErrNoSubscription) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no subscription"})
			}
			log.Errorf("[Billing] Activating subscription for user %d failed: %v", event.UserID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "activation failed"})
		}
		if err := models.CreateNotification(database.GetDB(), event.UserID, models.NotificationTypeSubscription,
			fmt.Sprintf("Your %s subscription is now active.", sub.Tier), sub.ID); err != nil {
			log.Warnf("[Billing] Subscription notification for user %d failed: %v", event.UserID, err)
		}
		return c.JSON(fiber.Map{"status": "ok", "tier": sub.Tier})

	case "payment.failed":
		sub, err := svc.Cancel(ctx, event.UserID)
		if err != nil {
			if errors.Is(err, billing.ErrNoSubscription) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no subscription"})
			}
			log.Errorf("[Billing] Cancelling subscription for user %d failed: %v", event.UserID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "cancellation failed"})
		}
		return c.JSON(fiber.Map{"status": "ok", "tier": sub.Tier})

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown event"})
	}
}

// refreshSessionTier updates the cached tier in the session after a
// subscription change so the middleware picks it up on the next request.
func refreshSessionTier(c *fiber.Ctx, sub *models.Subscription) {
	tier := string(entitlements.NormalizeTier(sub.Tier))
	if err := session.SetSessionValue(c, USER_TIER, tier); err != nil {
		log.Warnf("[Billing] Caching tier in session failed: %v", err)
	}
	if err := session.SetSessionValue(c, USER_SUBSCRIPTION_STATUS, sub.Status); err != nil {
		log.Warnf("[Billing] Caching subscription status in session failed: %v", err)
	}
}
