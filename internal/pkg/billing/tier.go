package billing

import (
	"strings"

	"github.com/immofund/ImmoFund/internal/pkg/entitlements"
)

func normalizeTier(tier string) string {
	return string(entitlements.NormalizeTier(tier))
}

func tierRank(tier string) int {
	switch entitlements.NormalizeTier(tier) {
	case entitlements.TierEnterprise:
		return 3
	case entitlements.TierGrowth:
		return 2
	case entitlements.TierPro:
		return 1
	default:
		return 0
	}
}

func normalizeInterval(interval string) string {
	i := strings.ToLower(strings.TrimSpace(interval))
	switch i {
	case "month", "year":
		return i
	default:
		return "month"
	}
}

// Only an active subscription grants entitlements. Trial accounts see the
// tier in the UI but receive no feature limits until payment clears.
func isEntitlingStatus(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == "active"
}
