package billing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/entitlements"
)

var (
	// ErrNoSubscription is returned when a lifecycle operation needs an
	// existing subscription and none is found.
	ErrNoSubscription = errors.New("billing: no current subscription")
	// ErrNotAnUpgrade is returned when the requested tier does not outrank
	// the current one.
	ErrNotAnUpgrade = errors.New("billing: requested tier is not an upgrade")
	// ErrUnknownAddOn is returned for add-on types without a price.
	ErrUnknownAddOn = errors.New("billing: unknown add-on type")
)

const addOnDuration = 30 * 24 * time.Hour

// Service provides the subscription and add-on lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// Subscribe opens a subscription for a user, or replaces the current one when
// the tier changes. New subscriptions start as trial until payment clears,
// unless StartAsTrial is false.
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (*models.Subscription, error) {
	_ = ctx
	if in.UserID == 0 {
		return nil, errors.New("billing: user_id is required")
	}

	tier := normalizeTier(in.Tier)
	interval := normalizeInterval(in.BillingInterval)

	current, err := s.repo.GetCurrentSubscription(in.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := models.SubscriptionStatusActive
	if in.StartAsTrial {
		status = models.SubscriptionStatusTrial
	}

	now := time.Now()
	end := periodEnd(now, interval)

	if current != nil && err == nil {
		current.Tier = tier
		current.Status = status
		current.StartDate = now
		current.EndDate = &end
		current.AutoRenew = in.AutoRenew
		if err := s.repo.SaveSubscription(current); err != nil {
			return nil, err
		}
		return current, nil
	}

	sub := &models.Subscription{
		UserID:    in.UserID,
		Tier:      tier,
		Status:    status,
		StartDate: now,
		EndDate:   &end,
		AutoRenew: in.AutoRenew,
	}
	if err := s.repo.CreateSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Upgrade moves the current subscription to a higher tier. The new tier takes
// effect immediately and the billing period restarts.
func (s *Service) Upgrade(ctx context.Context, userID uint, newTier string) (*models.Subscription, error) {
	_ = ctx
	current, err := s.repo.GetCurrentSubscription(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}

	target := normalizeTier(newTier)
	if tierRank(target) <= tierRank(current.Tier) {
		return nil, ErrNotAnUpgrade
	}

	now := time.Now()
	end := periodEnd(now, "month")
	current.Tier = target
	current.Status = models.SubscriptionStatusActive
	current.StartDate = now
	current.EndDate = &end
	if err := s.repo.SaveSubscription(current); err != nil {
		return nil, err
	}
	return current, nil
}

// Cancel marks the current subscription cancelled. Entitlements end
// immediately since only active subscriptions entitle.
func (s *Service) Cancel(ctx context.Context, userID uint) (*models.Subscription, error) {
	_ = ctx
	current, err := s.repo.GetCurrentSubscription(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}

	current.Status = models.SubscriptionStatusCancelled
	current.AutoRenew = false
	if err := s.repo.SaveSubscription(current); err != nil {
		return nil, err
	}
	return current, nil
}

// ActivateTrial promotes a trial subscription to active once payment clears.
func (s *Service) ActivateTrial(ctx context.Context, userID uint) (*models.Subscription, error) {
	_ = ctx
	current, err := s.repo.GetCurrentSubscription(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}
	if current.Status != models.SubscriptionStatusTrial {
		return current, nil
	}
	current.Status = models.SubscriptionStatusActive
	if err := s.repo.SaveSubscription(current); err != nil {
		return nil, err
	}
	return current, nil
}

// ExpireLapsed transitions subscriptions and add-ons whose end date passed.
// Auto-renewing active subscriptions get a fresh period instead.
func (s *Service) ExpireLapsed(ctx context.Context, now time.Time) (int, error) {
	_ = ctx
	subs, err := s.repo.ListLapsedSubscriptions(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range subs {
		sub := &subs[i]
		if sub.AutoRenew && sub.Status == models.SubscriptionStatusActive {
			end := periodEnd(now, "month")
			sub.StartDate = now
			sub.EndDate = &end
		} else {
			sub.Status = models.SubscriptionStatusExpired
			expired++
		}
		if err := s.repo.SaveSubscription(sub); err != nil {
			return expired, err
		}
	}

	if _, err := s.repo.ExpireAddOns(now); err != nil {
		return expired, err
	}
	return expired, nil
}

// PurchaseAddOn creates an add-on for a user. Add-ons are independent of the
// subscription tier and can be bought on any tier.
func (s *Service) PurchaseAddOn(ctx context.Context, in AddOnInput) (*models.AddOn, error) {
	_ = ctx
	if in.UserID == 0 {
		return nil, errors.New("billing: user_id is required")
	}
	price := AddOnPriceCents(in.Type)
	if price == 0 {
		return nil, ErrUnknownAddOn
	}

	end := time.Now().Add(addOnDuration)
	addOn := &models.AddOn{
		UserID:     in.UserID,
		ProjectID:  in.ProjectID,
		Type:       in.Type,
		PriceCents: price,
		Status:     models.AddOnStatusActive,
		EndDate:    &end,
	}
	if err := s.repo.CreateAddOn(addOn); err != nil {
		return nil, err
	}
	return addOn, nil
}

// ActiveAddOns lists the currently active add-ons for a user.
func (s *Service) ActiveAddOns(ctx context.Context, userID uint) ([]models.AddOn, error) {
	_ = ctx
	return s.repo.ListActiveAddOns(userID)
}

// EffectiveLimits resolves the feature limits for a user's current
// subscription, failing closed when none exists.
func (s *Service) EffectiveLimits(ctx context.Context, userID uint) (entitlements.FeatureLimits, error) {
	_ = ctx
	current, err := s.repo.GetCurrentSubscription(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entitlements.FeatureLimits{}, nil
		}
		return entitlements.FeatureLimits{}, err
	}
	return entitlements.ResolveLimits(current), nil
}

func periodEnd(start time.Time, interval string) time.Time {
	if normalizeInterval(interval) == "year" {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}
