package apiv1

import (
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/app/repository"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/entitlements"
	"github.com/immofund/ImmoFund/internal/pkg/fees"
	"github.com/immofund/ImmoFund/internal/pkg/usercontext"
)

const projectsPageSize = 20

// APIServer implements the v1 JSON API.
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetUserProfile returns account information for the authenticated user.
// Security is enforced via API key middleware attached in the router.
func (s *APIServer) GetUserProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(APIError{Error: "not_found", Message: "account not found"})
	}

	stats, err := repos.User.GetStatsByUserID(user.ID)
	if err != nil {
		stats = &repository.UserStats{}
	}

	return c.JSON(UserProfileResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role,
		Tier:               userCtx.Tier,
		SubscriptionStatus: userCtx.SubscriptionStatus,
		ProjectCount:       stats.ProjectCount,
		InvestmentCount:    stats.InvestmentCount,
		InvestedTotalCents: stats.InvestedTotalCents,
	})
}

// GetUserEntitlements reports the caller's effective feature limits and
// whether another project listing may be created right now.
func (s *APIServer) GetUserEntitlements(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	sub, err := models.FindCurrentSubscription(database.GetDB(), userCtx.UserID)
	if err != nil {
		sub = nil
	}
	limits := entitlements.ResolveLimits(sub)

	activeProjects, err := repository.GetGlobalRepositories().Project.CountActiveByUserID(userCtx.UserID)
	if err != nil {
		activeProjects = 0
	}

	resp := EntitlementsResponse{
		Tier:               userCtx.Tier,
		SubscriptionStatus: userCtx.SubscriptionStatus,
		MaxProjects:        limits.MaxProjects,
		ActiveProjects:     activeProjects,
		CanCreateProject:   entitlements.CanCreateProject(sub, int(activeProjects)),
		FeaturedProjects:   limits.FeaturedProjects,
		AdvancedAnalytics:  limits.AdvancedAnalytics,
		InvestorMessaging:  limits.InvestorMessaging,
		NewsletterPromo:    limits.NewsletterPromo,
		PriorityMatching:   limits.PriorityMatching,
		BrandCustomization: limits.BrandCustomization,
		DedicatedSupport:   limits.DedicatedSupport,
	}

	return c.JSON(resp)
}

// GetProjects returns a page of projects currently raising funds.
func (s *APIServer) GetProjects(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	repos := repository.GetGlobalRepositories()
	projects, err := repos.Project.GetFundingProjects((page-1)*projectsPageSize, projectsPageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(APIError{Error: "internal", Message: "could not load projects"})
	}

	total, err := repos.Project.CountByStatus(models.ProjectStatusFunding)
	if err != nil {
		total = int64(len(projects))
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for i := range projects {
		summaries = append(summaries, projectSummary(&projects[i]))
	}

	return c.JSON(ProjectListResponse{Projects: summaries, Page: page, Total: total})
}

// GetProject returns a single publicly visible project by UUID.
func (s *APIServer) GetProject(c *fiber.Ctx, uuid string) error {
	if uuid == "" {
		return c.Status(fiber.StatusBadRequest).JSON(APIError{Error: "bad_request", Message: "uuid missing"})
	}

	project, err := repository.GetGlobalRepositories().Project.GetByUUID(uuid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(APIError{Error: "not_found", Message: "project not found"})
	}

	// Drafts and pending submissions are not part of the public API surface.
	if project.Status == models.ProjectStatusDraft || project.Status == models.ProjectStatusPending {
		return c.Status(fiber.StatusNotFound).JSON(APIError{Error: "not_found", Message: "project not found"})
	}

	return c.JSON(projectSummary(project))
}

// GetInvestmentQuote previews fee and net amount for a prospective
// investment at the current platform fee percentage.
func (s *APIServer) GetInvestmentQuote(c *fiber.Ctx, uuid string) error {
	project, err := repository.GetGlobalRepositories().Project.GetByUUID(uuid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(APIError{Error: "not_found", Message: "project not found"})
	}

	if !project.IsOpenForInvestment() {
		return c.Status(fiber.StatusConflict).JSON(APIError{Error: "conflict", Message: "project is not open for investment"})
	}

	amountCents, err := strconv.ParseInt(c.Query("amount_cents"), 10, 64)
	if err != nil || amountCents <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(APIError{Error: "bad_request", Message: "amount_cents must be a positive integer"})
	}

	if amountCents < project.MinInvestmentCents {
		return c.Status(fiber.StatusBadRequest).JSON(APIError{Error: "bad_request", Message: "amount is below the project minimum"})
	}
	if project.MaxInvestmentCents > 0 && amountCents > project.MaxInvestmentCents {
		return c.Status(fiber.StatusBadRequest).JSON(APIError{Error: "bad_request", Message: "amount is above the project maximum"})
	}

	feePercent := models.GetAppSettings().GetPlatformFeePercent()
	feeCents := fees.CalculateFee(amountCents, feePercent)

	return c.JSON(InvestmentQuote{
		ProjectUUID:    project.UUID,
		AmountCents:    amountCents,
		FeePercent:     feePercent,
		FeeCents:       feeCents,
		NetAmountCents: amountCents - feeCents,
	})
}

func projectSummary(p *models.Project) ProjectSummary {
	domain := os.Getenv("PUBLIC_DOMAIN")

	return ProjectSummary{
		UUID:              p.UUID,
		Title:             p.Title,
		Location:          p.Location,
		PropertyType:      p.PropertyType,
		Status:            p.Status,
		TargetAmountCents: p.TargetAmountCents,
		RaisedAmountCents: p.RaisedAmountCents,
		ExpectedROI:       p.ExpectedROI,
		TermMonths:        p.TermMonths,
		ShareURL:          domain + "/p/" + p.ShareLink,
	}
}
