package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/app/repository"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/jobqueue"
	"github.com/immofund/ImmoFund/internal/pkg/statistics"
	"github.com/immofund/ImmoFund/internal/pkg/usercontext"
)

const adminUsersPerPage = 25

// HandleAdminDashboard renders the admin overview with platform totals and
// 30-day registration, listing and investment trends.
func HandleAdminDashboard(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	userCount, _ := repos.User.Count()
	projectCount, _ := repos.Project.Count()
	investmentCount, _ := repos.Investment.Count()
	raisedTotal, _ := repos.Investment.SumConfirmedNetTotal()
	pendingCount, _ := repos.Project.CountByStatus(models.ProjectStatusPending)

	end := time.Now()
	start := end.AddDate(0, 0, -30)

	userDaily, err := repos.User.GetDailyStats(start, end)
	if err != nil {
		log.Errorf("[Admin] Loading user daily stats failed: %v", err)
	}
	projectDaily, err := repos.Project.GetDailyStats(start, end)
	if err != nil {
		log.Errorf("[Admin] Loading project daily stats failed: %v", err)
	}
	investmentDaily, err := repos.Investment.GetDailyStats(start, end)
	if err != nil {
		log.Errorf("[Admin] Loading investment daily stats failed: %v", err)
	}

	return renderPage(c, "admin/dashboard", "Admin dashboard", fiber.Map{
		"UserCount":       userCount,
		"ProjectCount":    projectCount,
		"InvestmentCount": investmentCount,
		"RaisedTotal":     FormatCents(raisedTotal),
		"PendingCount":    pendingCount,
		"UserDaily":       userDaily,
		"ProjectDaily":    projectDaily,
		"InvestmentDaily": investmentDaily,
	})
}

// HandleAdminUsers lists accounts with their listing and investment counts.
// A search query switches to search mode.
func HandleAdminUsers(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetUserRepository()

	query := c.Query("q")
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	var (
		users []repository.UserWithStats
		err   error
	)
	if query != "" {
		users, err = repo.SearchWithStats(query)
	} else {
		users, err = repo.GetWithStats((page-1)*adminUsersPerPage, adminUsersPerPage)
	}
	if err != nil {
		log.Errorf("[Admin] Loading users failed: %v", err)
		users = []repository.UserWithStats{}
	}

	total, _ := repo.Count()

	rows := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		rows = append(rows, fiber.Map{
			"ID":              u.User.ID,
			"Name":            u.User.Name,
			"Email":           u.User.Email,
			"Role":            u.User.Role,
			"Status":          u.User.Status,
			"ProjectCount":    u.ProjectCount,
			"InvestmentCount": u.InvestmentCount,
			"InvestedTotal":   FormatCents(u.InvestedTotalCents),
			"CreatedAt":       u.User.CreatedAt.Format("02.01.2006"),
		})
	}

	return renderPage(c, "admin/users", "Manage users", fiber.Map{
		"Users":       rows,
		"Query":       query,
		"Page":        page,
		"PrevPage":    page - 1,
		"NextPage":    page + 1,
		"HasNextPage": query == "" && int64(page*adminUsersPerPage) < total,
		"CSRFToken":   c.Locals("csrf"),
	})
}

// HandleAdminUserEdit renders and applies account changes (role, status).
func HandleAdminUserEdit(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetUserRepository()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Invalid user"}).Redirect("/admin/users")
	}

	user, err := repo.GetByID(uint(id))
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "User not found"}).Redirect("/admin/users")
	}

	if c.Method() == fiber.MethodPost {
		role := c.FormValue("role")
		switch role {
		case models.ROLE_INVESTOR, models.ROLE_DEVELOPER, models.ROLE_ADMIN:
			user.Role = role
		}
		status := c.FormValue("status")
		switch status {
		case models.STATUS_ACTIVE, models.STATUS_INACTIVE, models.STATUS_DISABLED:
			user.Status = status
		}

		if err := repo.Update(user); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}
			return flash.WithError(c, fm).Redirect(fmt.Sprintf("/admin/users/%d", user.ID))
		}

		fm := fiber.Map{
			"type":    "success",
			"message": "The account has been updated.",
		}
		return flash.WithSuccess(c, fm).Redirect("/admin/users")
	}

	stats, err := repo.GetStatsByUserID(user.ID)
	if err != nil {
		stats = &repository.UserStats{}
	}

	return renderPage(c, "admin/user_edit", "Edit user", fiber.Map{
		"User":            user,
		"ProjectCount":    stats.ProjectCount,
		"InvestmentCount": stats.InvestmentCount,
		"InvestedTotal":   FormatCents(stats.InvestedTotalCents),
		"CSRFToken":       c.Locals("csrf"),
	})
}

// HandleAdminUserDelete removes an account. Accounts with listings or
// investments are disabled instead so financial history stays intact.
func HandleAdminUserDelete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetUserRepository()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Invalid user"}).Redirect("/admin/users")
	}

	if uint(id) == userCtx.UserID {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "You cannot delete your own account"}).Redirect("/admin/users")
	}

	user, err := repo.GetByID(uint(id))
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "User not found"}).Redirect("/admin/users")
	}

	stats, err := repo.GetStatsByUserID(user.ID)
	if err == nil && (stats.ProjectCount > 0 || stats.InvestmentCount > 0) {
		user.Status = models.STATUS_DISABLED
		if err := repo.Update(user); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}
			return flash.WithError(c, fm).Redirect("/admin/users")
		}
		fm := fiber.Map{
			"type":    "success",
			"message": "The account has listings or investments and was disabled instead of deleted.",
		}
		return flash.WithSuccess(c, fm).Redirect("/admin/users")
	}

	if err := repo.Delete(user.ID); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "The account has been deleted.",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/users")
}

// HandleAdminProjects lists listings awaiting review plus recent decisions.
func HandleAdminProjects(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetProjectRepository()

	pending, err := repo.GetByStatus(models.ProjectStatusPending, 0, 50)
	if err != nil {
		log.Errorf("[Admin] Loading pending projects failed: %v", err)
		pending = []models.Project{}
	}

	recent, err := repo.GetRecentProjects(20)
	if err != nil {
		recent = []models.Project{}
	}

	pendingRows := make([]fiber.Map, 0, len(pending))
	for i := range pending {
		p := &pending[i]
		pendingRows = append(pendingRows, fiber.Map{
			"UUID":         p.UUID,
			"ShareLink":    p.ShareLink,
			"Title":        p.Title,
			"Location":     p.Location,
			"TargetAmount": FormatCents(p.TargetAmountCents),
			"CreatedAt":    p.CreatedAt.Format("02.01.2006 15:04"),
		})
	}

	recentRows := make([]fiber.Map, 0, len(recent))
	for i := range recent {
		recentRows = append(recentRows, projectCardMap(&recent[i]))
	}

	return renderPage(c, "admin/projects", "Review listings", fiber.Map{
		"Pending":   pendingRows,
		"Recent":    recentRows,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminProjectApprove moves a pending listing into the funding phase.
func HandleAdminProjectApprove(c *fiber.Ctx) error {
	uuid := c.Params("uuid")

	project, err := models.FindProjectByUUID(database.GetDB(), uuid)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Project not found"}).Redirect("/admin/projects")
	}

	if project.Status != models.ProjectStatusPending {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Only pending listings can be approved"}).Redirect("/admin/projects")
	}

	if err := database.GetDB().Model(project).Update("status", models.ProjectStatusFunding).Error; err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}
		return flash.WithError(c, fm).Redirect("/admin/projects")
	}

	if err := models.CreateNotification(database.GetDB(), project.UserID, models.NotificationTypeSystem,
		fmt.Sprintf("Your project %q has been approved and is now open for investment.", project.Title),
		project.ID); err != nil {
		log.Warnf("[Admin] Approval notification for user %d failed: %v", project.UserID, err)
	}

	go statistics.UpdateStatisticsCache()

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("%q is now open for investment.", project.Title),
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/projects")
}

// HandleAdminProjectReject declines a pending listing and schedules its
// teardown.
func HandleAdminProjectReject(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	uuid := c.Params("uuid")

	project, err := models.FindProjectByUUID(database.GetDB(), uuid)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Project not found"}).Redirect("/admin/projects")
	}

	if project.Status != models.ProjectStatusPending {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Only pending listings can be rejected"}).Redirect("/admin/projects")
	}

	if err := models.CreateNotification(database.GetDB(), project.UserID, models.NotificationTypeSystem,
		fmt.Sprintf("Your project %q was rejected during review.", project.Title),
		project.ID); err != nil {
		log.Warnf("[Admin] Rejection notification for user %d failed: %v", project.UserID, err)
	}

	initiatedBy := userCtx.UserID
	if _, err := jobqueue.GetManager().GetQueue().EnqueueProjectTeardown(project, &initiatedBy); err != nil {
		log.Errorf("[Admin] Enqueueing teardown for project %d failed: %v", project.ID, err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The listing could not be rejected. Please try again.",
		}
		return flash.WithError(c, fm).Redirect("/admin/projects")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("%q has been rejected and is being removed.", project.Title),
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/projects")
}

// HandleAdminSettings renders and saves the platform settings.
func HandleAdminSettings(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetSettingRepository()

	if c.Method() == fiber.MethodPost {
		settings, err := repo.Get()
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": "Settings could not be loaded",
			}
			return flash.WithError(c, fm).Redirect("/admin/settings")
		}

		settings.SiteTitle = c.FormValue("site_title", settings.SiteTitle)
		settings.SiteDescription = c.FormValue("site_description")
		settings.ListingEnabled = c.FormValue("listing_enabled") == "on"
		settings.RegistrationEnabled = c.FormValue("registration_enabled") == "on"
		if v, err := strconv.ParseFloat(c.FormValue("platform_fee_percent"), 64); err == nil {
			settings.PlatformFeePercent = v
		}

		if err := repo.Save(settings); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}
			return flash.WithError(c, fm).Redirect("/admin/settings")
		}

		fm := fiber.Map{
			"type":    "success",
			"message": "Settings saved.",
		}
		return flash.WithSuccess(c, fm).Redirect("/admin/settings")
	}

	settings, err := repo.Get()
	if err != nil {
		settings = &models.AppSettings{}
	}

	return renderPage(c, "admin/settings", "Platform settings", fiber.Map{
		"Settings":  settings,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminBillingSweep triggers an immediate subscription expiry sweep.
func HandleAdminBillingSweep(c *fiber.Ctx) error {
	if err := jobqueue.GetManager().RunBillingSweepOnce(); err != nil {
		log.Errorf("[Admin] Billing sweep failed: %v", err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The billing sweep failed. Check the logs.",
		}
		return flash.WithError(c, fm).Redirect("/admin")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Billing sweep completed.",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin")
}
