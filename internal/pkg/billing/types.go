package billing

// SubscribeInput is the normalized shape used when opening or changing a
// subscription for a user.
type SubscribeInput struct {
	UserID          uint
	Tier            string
	BillingInterval string
	AutoRenew       bool
	StartAsTrial    bool
}

// AddOnInput is the normalized input for an add-on purchase.
type AddOnInput struct {
	UserID    uint
	ProjectID *uint
	Type      string
}

// TierPriceCents returns the monthly price for a tier in cents.
func TierPriceCents(tier string) int64 {
	switch normalizeTier(tier) {
	case "pro":
		return 4900
	case "growth":
		return 9900
	case "enterprise":
		return 24900
	default:
		return 0
	}
}

// AddOnPriceCents returns the price for an add-on type in cents.
func AddOnPriceCents(addOnType string) int64 {
	switch addOnType {
	case "boost":
		return 1900
	case "branding":
		return 2900
	case "campaign":
		return 4900
	default:
		return 0
	}
}
