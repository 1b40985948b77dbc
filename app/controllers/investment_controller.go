package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/app/repository"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/fees"
	"github.com/immofund/ImmoFund/internal/pkg/statistics"
	"github.com/immofund/ImmoFund/internal/pkg/usercontext"
)

// HandleProjectInvest creates a pending investment on a funding project. The
// platform fee is captured at creation time so later fee changes never
// rewrite committed amounts.
func HandleProjectInvest(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	shareLink := c.Params("sharelink")
	redirectTo := "/p/" + shareLink

	project, err := models.FindProjectByShareLink(database.GetDB(), shareLink)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Project not found",
		}
		return flash.WithError(c, fm).Redirect("/projects")
	}

	if !project.IsOpenForInvestment() {
		fm := fiber.Map{
			"type":    "error",
			"message": "This project is not open for investment",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	if project.UserID == userCtx.UserID {
		fm := fiber.Map{
			"type":    "error",
			"message": "You cannot invest in your own project",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	amountCents, err := parseAmountToCents(c.FormValue("amount"))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Please enter a valid amount",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	if amountCents < project.MinInvestmentCents {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("The minimum investment for this project is %s", FormatCents(project.MinInvestmentCents)),
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	if project.MaxInvestmentCents > 0 && amountCents > project.MaxInvestmentCents {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("The maximum investment for this project is %s", FormatCents(project.MaxInvestmentCents)),
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	feePercent := models.GetAppSettings().GetPlatformFeePercent()
	feeCents := fees.CalculateFee(amountCents, feePercent)

	investment := &models.Investment{
		ProjectID:      project.ID,
		UserID:         userCtx.UserID,
		AmountCents:    amountCents,
		FeeCents:       feeCents,
		NetAmountCents: amountCents - feeCents,
		FeePercent:     feePercent,
		Status:         models.InvestmentStatusPending,
	}

	if err := repository.GetGlobalFactory().GetInvestmentRepository().Create(investment); err != nil {
		log.Errorf("[Investments] Creating investment on project %d failed: %v", project.ID, err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The investment could not be recorded. Please try again.",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	if err := models.CreateNotification(database.GetDB(), project.UserID, models.NotificationTypeInvestment,
		fmt.Sprintf("New investment of %s on your project %q", FormatCents(amountCents), project.Title),
		project.ID); err != nil {
		log.Warnf("[Investments] Notification for project owner %d failed: %v", project.UserID, err)
	}

	fm := fiber.Map{
		"type": "success",
		"message": fmt.Sprintf("Your investment of %s has been recorded (fee: %s). It will be confirmed once payment settles.",
			FormatCents(amountCents), FormatCents(feeCents)),
	}
	return flash.WithSuccess(c, fm).Redirect("/user/investments")
}

// HandleInvestmentConfirm settles a pending investment and adds its net
// amount to the project's raised total. Investors confirm from their
// portfolio once the wire transfer went out; admins can confirm any.
func HandleInvestmentConfirm(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Invalid investment",
		}
		return flash.WithError(c, fm).Redirect("/user/investments")
	}

	repo := repository.GetGlobalFactory().GetInvestmentRepository()
	investment, err := repo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Investment not found",
		}
		return flash.WithError(c, fm).Redirect("/user/investments")
	}

	if investment.UserID != userCtx.UserID && !userCtx.IsAdmin {
		fm := fiber.Map{
			"type":    "error",
			"message": "You are not allowed to confirm this investment",
		}
		return flash.WithError(c, fm).Redirect("/user/investments")
	}

	if investment.Status != models.InvestmentStatusPending {
		fm := fiber.Map{
			"type":    "error",
			"message": "This investment has already been settled",
		}
		return flash.WithError(c, fm).Redirect("/user/investments")
	}

	if err := repo.Confirm(investment); err != nil {
		log.Errorf("[Investments] Confirming investment %d failed: %v", investment.ID, err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The investment could not be confirmed. Please try again.",
		}
		return flash.WithError(c, fm).Redirect("/user/investments")
	}

	// Funding totals changed, refresh the cached statistics
	go statistics.UpdateStatisticsCache()

	checkFundingGoal(investment.ProjectID)

	fm := fiber.Map{
		"type":    "success",
		"message": "Your investment has been confirmed.",
	}
	return flash.WithSuccess(c, fm).Redirect("/user/investments")
}

// HandleUserInvestments renders the investor's portfolio.
func HandleUserInvestments(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	investments, err := repository.GetGlobalFactory().GetInvestmentRepository().GetByUserID(userCtx.UserID, 0, 100)
	if err != nil {
		log.Errorf("[Investments] Loading portfolio for user %d failed: %v", userCtx.UserID, err)
		investments = []models.Investment{}
	}

	var totalCents int64
	rows := make([]fiber.Map, 0, len(investments))
	for i := range investments {
		inv := &investments[i]
		if inv.Status == models.InvestmentStatusConfirmed {
			totalCents += inv.NetAmountCents
		}
		rows = append(rows, fiber.Map{
			"ID":           inv.ID,
			"ProjectTitle": inv.Project.Title,
			"ShareLink":    inv.Project.ShareLink,
			"Amount":       FormatCents(inv.AmountCents),
			"Fee":          FormatCents(inv.FeeCents),
			"NetAmount":    FormatCents(inv.NetAmountCents),
			"Status":       inv.Status,
			"CreatedAt":    inv.CreatedAt.Format("02.01.2006"),
		})
	}

	return renderPage(c, "investment/portfolio", "My investments", fiber.Map{
		"Investments":   rows,
		"TotalInvested": FormatCents(totalCents),
		"CSRFToken":     c.Locals("csrf"),
	})
}

// checkFundingGoal marks a project as funded once confirmed net investments
// reach the target and notifies the developer.
func checkFundingGoal(projectID uint) {
	db := database.GetDB()

	project, err := repository.GetGlobalFactory().GetProjectRepository().GetByID(projectID)
	if err != nil {
		return
	}

	if project.Status != models.ProjectStatusFunding || project.RaisedAmountCents < project.TargetAmountCents {
		return
	}

	if err := db.Model(project).Update("status", models.ProjectStatusFunded).Error; err != nil {
		log.Errorf("[Investments] Marking project %d as funded failed: %v", projectID, err)
		return
	}

	if err := models.CreateNotification(db, project.UserID, models.NotificationTypeFunding,
		fmt.Sprintf("Your project %q reached its funding goal of %s!", project.Title, FormatCents(project.TargetAmountCents)),
		project.ID); err != nil {
		log.Warnf("[Investments] Funding notification for user %d failed: %v", project.UserID, err)
	}
}

// parseAmountToCents converts a whole-currency user input ("2.500" or
// "2500.50") to cents. Thousands separators are stripped, a decimal comma is
// accepted.
func parseAmountToCents(input string) (int64, error) {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		// "1.234,56" style: dots are thousands separators
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", ".")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return int64(value*100 + 0.5), nil
}
