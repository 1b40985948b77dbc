package entitlements

import (
	"testing"

	"github.com/immofund/ImmoFund/app/models"
)

func activeSub(tier Tier) *models.Subscription {
	return &models.Subscription{Tier: string(tier), Status: models.SubscriptionStatusActive}
}

func TestTierLimitsTable(t *testing.T) {
	tests := []struct {
		tier Tier
		want FeatureLimits
	}{
		{TierStarter, FeatureLimits{MaxProjects: 1}},
		{TierPro, FeatureLimits{MaxProjects: 5, FeaturedProjects: true, InvestorMessaging: true}},
		{TierGrowth, FeatureLimits{MaxProjects: 10, FeaturedProjects: true, AdvancedAnalytics: true, InvestorMessaging: true, NewsletterPromo: true}},
		{TierEnterprise, FeatureLimits{
			MaxProjects:        UnlimitedProjects,
			FeaturedProjects:   true,
			AdvancedAnalytics:  true,
			InvestorMessaging:  true,
			NewsletterPromo:    true,
			PriorityMatching:   true,
			BrandCustomization: true,
			DedicatedSupport:   true,
		}},
	}

	for _, tt := range tests {
		if got := TierLimits(tt.tier); got != tt.want {
			t.Fatalf("TierLimits(%q) = %+v, want %+v", tt.tier, got, tt.want)
		}
	}
}

func TestLimitsMonotonicity(t *testing.T) {
	flags := map[string]func(FeatureLimits) bool{
		"featured_projects":   func(l FeatureLimits) bool { return l.FeaturedProjects },
		"advanced_analytics":  func(l FeatureLimits) bool { return l.AdvancedAnalytics },
		"investor_messaging":  func(l FeatureLimits) bool { return l.InvestorMessaging },
		"newsletter_promo":    func(l FeatureLimits) bool { return l.NewsletterPromo },
		"priority_matching":   func(l FeatureLimits) bool { return l.PriorityMatching },
		"brand_customization": func(l FeatureLimits) bool { return l.BrandCustomization },
		"dedicated_support":   func(l FeatureLimits) bool { return l.DedicatedSupport },
	}

	capOf := func(l FeatureLimits) int {
		if l.MaxProjects == UnlimitedProjects {
			return int(^uint(0) >> 1)
		}
		return l.MaxProjects
	}

	for i := 0; i < len(TierOrder)-1; i++ {
		lower := TierLimits(TierOrder[i])
		higher := TierLimits(TierOrder[i+1])

		if capOf(lower) > capOf(higher) {
			t.Fatalf("max_projects shrinks from %s to %s", TierOrder[i], TierOrder[i+1])
		}
		for name, get := range flags {
			if get(lower) && !get(higher) {
				t.Fatalf("flag %s granted on %s but revoked on %s", name, TierOrder[i], TierOrder[i+1])
			}
		}
	}
}

func TestResolveLimitsFailClosed(t *testing.T) {
	zero := FeatureLimits{}

	if got := ResolveLimits(nil); got != zero {
		t.Fatalf("ResolveLimits(nil) = %+v, want zero limits", got)
	}

	for _, status := range []string{
		models.SubscriptionStatusTrial,
		models.SubscriptionStatusExpired,
		models.SubscriptionStatusCancelled,
	} {
		sub := &models.Subscription{Tier: string(TierEnterprise), Status: status}
		if got := ResolveLimits(sub); got != zero {
			t.Fatalf("ResolveLimits(enterprise, %s) = %+v, want zero limits", status, got)
		}
	}

	if got := ResolveLimits(activeSub(TierEnterprise)); got == zero {
		t.Fatal("active enterprise subscription must confer entitlements")
	}
}

func TestCanCreateProjectBoundary(t *testing.T) {
	sub := activeSub(TierPro)

	tests := []struct {
		count int
		want  bool
	}{
		{0, true},
		{4, true},
		{5, false},
		{6, false},
	}
	for _, tt := range tests {
		if got := CanCreateProject(sub, tt.count); got != tt.want {
			t.Fatalf("CanCreateProject(pro, %d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestCanCreateProjectUnlimited(t *testing.T) {
	if !CanCreateProject(activeSub(TierEnterprise), 1_000_000) {
		t.Fatal("enterprise plan must never hit a project cap")
	}
}

func TestCanCreateProjectWithoutSubscription(t *testing.T) {
	if CanCreateProject(nil, 0) {
		t.Fatal("no subscription must block listing even at zero projects")
	}
}

func TestUpgradeMessage(t *testing.T) {
	if msg := UpgradeMessage(TierEnterprise); msg != "" {
		t.Fatalf("enterprise upgrade message must be empty, got %q", msg)
	}

	starterMsg := UpgradeMessage(TierStarter)
	if starterMsg == "" {
		t.Fatal("starter upgrade message must not be empty")
	}
	if got := UpgradeMessage(""); got != starterMsg {
		t.Fatalf("missing tier must match starter prompt: got %q, want %q", got, starterMsg)
	}

	for _, tier := range []Tier{TierStarter, TierPro, TierGrowth} {
		if UpgradeMessage(tier) == "" {
			t.Fatalf("tier %s must have a non-empty upgrade prompt", tier)
		}
	}
	if UpgradeMessage(TierPro) == UpgradeMessage(TierGrowth) {
		t.Fatal("pro and growth prompts must differ")
	}
}
