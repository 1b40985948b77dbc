package entitlements

import (
	"strings"

	"github.com/immofund/ImmoFund/app/models"
)

type Tier string

const (
	TierStarter    Tier = "starter"
	TierPro        Tier = "pro"
	TierGrowth     Tier = "growth"
	TierEnterprise Tier = "enterprise"
)

// UnlimitedProjects marks a plan without a listing cap. Enforcement code
// must treat it as "no limit", never compare against it numerically.
const UnlimitedProjects = -1

// FeatureLimits is the capability set a subscription confers. The zero value
// is the fail-closed "no entitlements" set used for missing or inactive
// subscriptions.
type FeatureLimits struct {
	MaxProjects        int  `json:"max_projects"`
	FeaturedProjects   bool `json:"featured_projects"`
	AdvancedAnalytics  bool `json:"advanced_analytics"`
	InvestorMessaging  bool `json:"investor_messaging"`
	NewsletterPromo    bool `json:"newsletter_promo"`
	PriorityMatching   bool `json:"priority_matching"`
	BrandCustomization bool `json:"brand_customization"`
	DedicatedSupport   bool `json:"dedicated_support"`
}

// TierOrder lists all tiers from least to most capable.
var TierOrder = []Tier{TierStarter, TierPro, TierGrowth, TierEnterprise}

// NormalizeTier maps arbitrary input to a known tier, defaulting to starter.
func NormalizeTier(tier string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(tier))) {
	case TierPro:
		return TierPro
	case TierGrowth:
		return TierGrowth
	case TierEnterprise:
		return TierEnterprise
	default:
		return TierStarter
	}
}

// TierLimits returns the capability table entry for a tier without looking
// at subscription status. Unknown tiers get starter limits.
func TierLimits(tier Tier) FeatureLimits {
	switch NormalizeTier(string(tier)) {
	case TierEnterprise:
		return FeatureLimits{
			MaxProjects:        UnlimitedProjects,
			FeaturedProjects:   true,
			AdvancedAnalytics:  true,
			InvestorMessaging:  true,
			NewsletterPromo:    true,
			PriorityMatching:   true,
			BrandCustomization: true,
			DedicatedSupport:   true,
		}
	case TierGrowth:
		return FeatureLimits{
			MaxProjects:       10,
			FeaturedProjects:  true,
			AdvancedAnalytics: true,
			InvestorMessaging: true,
			NewsletterPromo:   true,
		}
	case TierPro:
		return FeatureLimits{
			MaxProjects:       5,
			FeaturedProjects:  true,
			InvestorMessaging: true,
		}
	default:
		return FeatureLimits{MaxProjects: 1}
	}
}

// ResolveLimits derives the effective limits from a subscription. A nil
// subscription or any status other than active resolves to zero
// entitlements; status gates tier. Trial subscriptions intentionally get
// the fail-closed treatment as well.
func ResolveLimits(sub *models.Subscription) FeatureLimits {
	if sub == nil || sub.Status != models.SubscriptionStatusActive {
		return FeatureLimits{}
	}
	return TierLimits(Tier(sub.Tier))
}

// CanCreateProject reports whether the account may list one more project
// given how many it already has. At the cap, creation is blocked.
func CanCreateProject(sub *models.Subscription, currentProjectCount int) bool {
	limits := ResolveLimits(sub)
	if limits.MaxProjects == UnlimitedProjects {
		return true
	}
	return currentProjectCount < limits.MaxProjects
}

// UpgradeMessage returns the upgrade prompt shown for the given tier. An
// empty string means there is no higher tier and callers must suppress the
// upgrade UI entirely. Status is deliberately not consulted here.
func UpgradeMessage(tier Tier) string {
	switch NormalizeTier(string(tier)) {
	case TierPro:
		return "Upgrade to Growth to unlock advanced analytics and more project listings."
	case TierGrowth:
		return "Upgrade to Enterprise for unlimited projects and all premium features."
	case TierEnterprise:
		return ""
	default:
		return "Upgrade to Pro to list more projects and unlock premium features."
	}
}
