package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/app/repository"
	"github.com/immofund/ImmoFund/internal/pkg/billing"
	"github.com/immofund/ImmoFund/internal/pkg/entitlements"
	"github.com/immofund/ImmoFund/internal/pkg/statistics"
)

// HandleStart renders the landing page with platform statistics and the
// current featured listings.
func HandleStart(c *fiber.Ctx) error {
	stats := statistics.GetStatisticsData()

	featured, err := repository.GetGlobalFactory().GetProjectRepository().GetFeaturedProjects(6)
	if err != nil {
		featured = []models.Project{}
	}

	cards := make([]fiber.Map, 0, len(featured))
	for i := range featured {
		cards = append(cards, projectCardMap(&featured[i]))
	}

	return renderPage(c, "main/home", "Invest in real estate together", fiber.Map{
		"TotalProjects":    stats.TotalProjects,
		"TotalUsers":       stats.TotalUsers,
		"TodayInvestments": stats.TodayInvestments,
		"TotalRaised":      FormatCents(stats.TotalRaisedCents),
		"FeaturedProjects": cards,
	})
}

// HandlePricing renders the subscription tier comparison page.
func HandlePricing(c *fiber.Ctx) error {
	type planRow struct {
		Tier       string
		PriceCents int64
		Limits     entitlements.FeatureLimits
	}

	plans := make([]planRow, 0, len(entitlements.TierOrder))
	for _, tier := range entitlements.TierOrder {
		plans = append(plans, planRow{
			Tier:       string(tier),
			PriceCents: billing.TierPriceCents(string(tier)),
			Limits:     entitlements.TierLimits(tier),
		})
	}

	return renderPage(c, "main/pricing", "Plans and pricing", fiber.Map{
		"Plans": plans,
	})
}

// HandleAbout renders the static about page.
func HandleAbout(c *fiber.Ctx) error {
	return renderPage(c, "main/about", "About us", fiber.Map{})
}
