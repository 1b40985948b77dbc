package billing

import "testing"

func TestNormalizeTier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "starter", want: "starter"},
		{in: "pro", want: "pro"},
		{in: "growth", want: "growth"},
		{in: "enterprise", want: "enterprise"},
		{in: "ENTERPRISE", want: "enterprise"},
		{in: " pro ", want: "pro"},
		{in: "invalid", want: "starter"},
		{in: "", want: "starter"},
	}

	for _, tt := range tests {
		if got := normalizeTier(tt.in); got != tt.want {
			t.Fatalf("normalizeTier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTierRank(t *testing.T) {
	order := []string{"starter", "pro", "growth", "enterprise"}
	for i := 1; i < len(order); i++ {
		if tierRank(order[i-1]) >= tierRank(order[i]) {
			t.Fatalf("expected %s to outrank %s", order[i], order[i-1])
		}
	}
}

func TestIsEntitlingStatus(t *testing.T) {
	if !isEntitlingStatus("active") {
		t.Fatalf("expected active to be entitling")
	}
	if !isEntitlingStatus(" Active ") {
		t.Fatalf("expected status matching to be case and space insensitive")
	}
	for _, status := range []string{"trial", "expired", "cancelled", ""} {
		if isEntitlingStatus(status) {
			t.Fatalf("expected status %q to be non-entitling", status)
		}
	}
}

func TestNormalizeInterval(t *testing.T) {
	if got := normalizeInterval("year"); got != "year" {
		t.Fatalf("normalizeInterval(year) = %q", got)
	}
	if got := normalizeInterval("weekly"); got != "month" {
		t.Fatalf("expected unknown intervals to fall back to month, got %q", got)
	}
}

func TestTierPriceCents(t *testing.T) {
	if TierPriceCents("starter") != 0 {
		t.Fatalf("starter must be free")
	}
	prices := []int64{TierPriceCents("pro"), TierPriceCents("growth"), TierPriceCents("enterprise")}
	for i := 1; i < len(prices); i++ {
		if prices[i-1] >= prices[i] {
			t.Fatalf("tier prices must be strictly increasing, got %v", prices)
		}
	}
}
