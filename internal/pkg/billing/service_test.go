package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/immofund/ImmoFund/app/models"
)

type fakeRepo struct {
	current  *models.Subscription
	saved    []*models.Subscription
	created  []*models.Subscription
	addOns   []*models.AddOn
	lapsed   []models.Subscription
	expireN  int64
	lastUser uint
}

func (f *fakeRepo) GetCurrentSubscription(userID uint) (*models.Subscription, error) {
	f.lastUser = userID
	if f.current == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.current, nil
}

func (f *fakeRepo) CreateSubscription(sub *models.Subscription) error {
	f.created = append(f.created, sub)
	f.current = sub
	return nil
}

func (f *fakeRepo) SaveSubscription(sub *models.Subscription) error {
	f.saved = append(f.saved, sub)
	return nil
}

func (f *fakeRepo) ListLapsedSubscriptions(now time.Time) ([]models.Subscription, error) {
	return f.lapsed, nil
}

func (f *fakeRepo) CreateAddOn(addOn *models.AddOn) error {
	f.addOns = append(f.addOns, addOn)
	return nil
}

func (f *fakeRepo) ListActiveAddOns(userID uint) ([]models.AddOn, error) {
	out := make([]models.AddOn, 0, len(f.addOns))
	for _, a := range f.addOns {
		if a.UserID == userID && a.Status == models.AddOnStatusActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) ExpireAddOns(now time.Time) (int64, error) {
	return f.expireN, nil
}

func TestSubscribeCreatesTrialByDefault(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	sub, err := svc.Subscribe(context.Background(), SubscribeInput{
		UserID:       7,
		Tier:         "pro",
		StartAsTrial: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != models.SubscriptionStatusTrial {
		t.Fatalf("expected trial status, got %s", sub.Status)
	}
	if sub.Tier != "pro" {
		t.Fatalf("expected pro tier, got %s", sub.Tier)
	}
	if sub.EndDate == nil || !sub.EndDate.After(sub.StartDate) {
		t.Fatalf("expected end date after start date")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one created subscription, got %d", len(repo.created))
	}
}

func TestSubscribeReplacesExistingSubscription(t *testing.T) {
	existing := &models.Subscription{ID: 1, UserID: 7, Tier: "pro", Status: models.SubscriptionStatusActive}
	repo := &fakeRepo{current: existing}
	svc := NewService(repo)

	sub, err := svc.Subscribe(context.Background(), SubscribeInput{UserID: 7, Tier: "growth"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.ID != existing.ID {
		t.Fatalf("expected the existing row to be reused")
	}
	if sub.Tier != "growth" {
		t.Fatalf("expected growth tier, got %s", sub.Tier)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no new subscription rows")
	}
}

func TestUpgradeRejectsDowngrade(t *testing.T) {
	repo := &fakeRepo{current: &models.Subscription{UserID: 7, Tier: "growth", Status: models.SubscriptionStatusActive}}
	svc := NewService(repo)

	if _, err := svc.Upgrade(context.Background(), 7, "pro"); err != ErrNotAnUpgrade {
		t.Fatalf("expected ErrNotAnUpgrade, got %v", err)
	}
	if _, err := svc.Upgrade(context.Background(), 7, "growth"); err != ErrNotAnUpgrade {
		t.Fatalf("expected same-tier upgrade to be rejected, got %v", err)
	}
}

func TestUpgradeActivatesAndRestartsPeriod(t *testing.T) {
	repo := &fakeRepo{current: &models.Subscription{UserID: 7, Tier: "pro", Status: models.SubscriptionStatusTrial}}
	svc := NewService(repo)

	sub, err := svc.Upgrade(context.Background(), 7, "enterprise")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Tier != "enterprise" {
		t.Fatalf("expected enterprise, got %s", sub.Tier)
	}
	if sub.Status != models.SubscriptionStatusActive {
		t.Fatalf("expected active status after paid upgrade, got %s", sub.Status)
	}
}

func TestCancelWithoutSubscription(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if _, err := svc.Cancel(context.Background(), 7); err != ErrNoSubscription {
		t.Fatalf("expected ErrNoSubscription, got %v", err)
	}
}

func TestCancelStopsAutoRenew(t *testing.T) {
	repo := &fakeRepo{current: &models.Subscription{UserID: 7, Tier: "pro", Status: models.SubscriptionStatusActive, AutoRenew: true}}
	svc := NewService(repo)

	sub, err := svc.Cancel(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != models.SubscriptionStatusCancelled {
		t.Fatalf("expected cancelled, got %s", sub.Status)
	}
	if sub.AutoRenew {
		t.Fatalf("expected auto renew off after cancel")
	}
}

func TestExpireLapsedRenewsAutoRenew(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	repo := &fakeRepo{lapsed: []models.Subscription{
		{ID: 1, UserID: 1, Tier: "pro", Status: models.SubscriptionStatusActive, AutoRenew: true, EndDate: &past},
		{ID: 2, UserID: 2, Tier: "growth", Status: models.SubscriptionStatusActive, AutoRenew: false, EndDate: &past},
		{ID: 3, UserID: 3, Tier: "pro", Status: models.SubscriptionStatusTrial, AutoRenew: true, EndDate: &past},
	}}
	svc := NewService(repo)

	expired, err := svc.ExpireLapsed(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 2 {
		t.Fatalf("expected 2 expired subscriptions, got %d", expired)
	}
	if len(repo.saved) != 3 {
		t.Fatalf("expected all 3 rows saved, got %d", len(repo.saved))
	}
	if repo.saved[0].Status != models.SubscriptionStatusActive {
		t.Fatalf("auto-renewing active subscription must stay active")
	}
	if repo.saved[0].EndDate == nil || !repo.saved[0].EndDate.After(now) {
		t.Fatalf("auto-renewing subscription must get a fresh period")
	}
	if repo.saved[2].Status != models.SubscriptionStatusExpired {
		t.Fatalf("lapsed trial must expire even with auto renew set")
	}
}

func TestPurchaseAddOn(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	addOn, err := svc.PurchaseAddOn(context.Background(), AddOnInput{UserID: 7, Type: models.AddOnTypeBoost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addOn.PriceCents != AddOnPriceCents(models.AddOnTypeBoost) {
		t.Fatalf("unexpected price %d", addOn.PriceCents)
	}
	if addOn.Status != models.AddOnStatusActive {
		t.Fatalf("expected active add-on")
	}
	if addOn.EndDate == nil {
		t.Fatalf("expected add-on end date")
	}

	if _, err := svc.PurchaseAddOn(context.Background(), AddOnInput{UserID: 7, Type: "bogus"}); err != ErrUnknownAddOn {
		t.Fatalf("expected ErrUnknownAddOn, got %v", err)
	}
}

func TestEffectiveLimitsFailClosed(t *testing.T) {
	svc := NewService(&fakeRepo{})
	limits, err := svc.EffectiveLimits(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limits.MaxProjects != 0 {
		t.Fatalf("expected zero limits without subscription, got %+v", limits)
	}
}

func TestVerifyPaymentWebhookSignature(t *testing.T) {
	payload := []byte(`{"event":"subscription.updated"}`)
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))

	if !VerifyPaymentWebhookSignature(payload, valid, "secret") {
		t.Fatalf("expected matching signature to verify")
	}
	if VerifyPaymentWebhookSignature(payload, "", "secret") {
		t.Fatalf("empty signature must not verify")
	}
	if VerifyPaymentWebhookSignature(payload, valid, "") {
		t.Fatalf("empty secret must not verify")
	}
	if VerifyPaymentWebhookSignature(payload, "not-hex", "secret") {
		t.Fatalf("non-hex signature must not verify")
	}
	if VerifyPaymentWebhookSignature(payload, valid, "wrong-secret") {
		t.Fatalf("wrong secret must not verify")
	}
}
