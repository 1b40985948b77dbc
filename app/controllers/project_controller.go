package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/app/repository"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/entitlements"
	"github.com/immofund/ImmoFund/internal/pkg/env"
	"github.com/immofund/ImmoFund/internal/pkg/jobqueue"
	"github.com/immofund/ImmoFund/internal/pkg/listing"
	"github.com/immofund/ImmoFund/internal/pkg/mediaprocessor"
	"github.com/immofund/ImmoFund/internal/pkg/metrics/counter"
	"github.com/immofund/ImmoFund/internal/pkg/usercontext"
	"github.com/immofund/ImmoFund/internal/pkg/utils"
	"github.com/immofund/ImmoFund/internal/pkg/viewmodel"
)

const projectsPerPage = 12

// HandleProjects renders the public browse page with all projects currently
// raising funds.
func HandleProjects(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * projectsPerPage

	repo := repository.GetGlobalFactory().GetProjectRepository()
	projects, err := repo.GetFundingProjects(offset, projectsPerPage)
	if err != nil {
		log.Errorf("[Projects] Loading funding projects failed: %v", err)
		projects = []models.Project{}
	}

	total, _ := repo.CountByStatus(models.ProjectStatusFunding)

	cards := make([]fiber.Map, 0, len(projects))
	for i := range projects {
		cards = append(cards, projectCardMap(&projects[i]))
	}

	return renderPage(c, "project/browse", "Browse projects", fiber.Map{
		"Projects":    cards,
		"Page":        page,
		"PrevPage":    page - 1,
		"NextPage":    page + 1,
		"HasNextPage": int64(offset+len(projects)) < total,
	})
}

// HandleProjectDetail renders the public listing page, addressed by share link.
func HandleProjectDetail(c *fiber.Ctx) error {
	shareLink := c.Params("sharelink")

	project, err := models.FindProjectByShareLink(database.GetDB(), shareLink)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Project not found",
		}
		return flash.WithError(c, fm).Redirect("/projects")
	}

	userCtx := usercontext.GetUserContext(c)
	isOwner := userCtx.IsLoggedIn && userCtx.UserID == project.UserID

	// Draft and pending listings are only visible to their owner and admins
	if (project.Status == models.ProjectStatusDraft || project.Status == models.ProjectStatusPending) &&
		!isOwner && !userCtx.IsAdmin {
		fm := fiber.Map{
			"type":    "error",
			"message": "Project not found",
		}
		return flash.WithError(c, fm).Redirect("/projects")
	}

	if err := counter.AddProjectView(project.ID); err != nil {
		log.Warnf("[Projects] View counter for project %d failed: %v", project.ID, err)
	}

	vm := buildProjectViewModel(project)

	return renderPage(c, "project/detail", project.Title, fiber.Map{
		"Project": vm,
		"IsOwner": isOwner,
	})
}

// HandleUserProjects lists the developer's own listings.
func HandleUserProjects(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetProjectRepository()
	projects, err := repo.GetByUserID(userCtx.UserID, 0, 100)
	if err != nil {
		log.Errorf("[Projects] Loading projects for user %d failed: %v", userCtx.UserID, err)
		projects = []models.Project{}
	}

	rows := make([]fiber.Map, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		row := projectCardMap(p)
		row["ShareLink"] = p.ShareLink
		row["RaisedAmount"] = FormatCents(p.RaisedAmountCents)
		row["CreatedAt"] = p.CreatedAt.Format("02.01.2006")
		rows = append(rows, row)
	}

	sub, _ := models.FindCurrentSubscription(database.GetDB(), userCtx.UserID)
	activeCount, _ := repo.CountActiveByUserID(userCtx.UserID)
	limits := entitlements.ResolveLimits(sub)

	return renderPage(c, "project/my_projects", "My projects", fiber.Map{
		"Projects":     rows,
		"ActiveCount":  activeCount,
		"MaxProjects":  limits.MaxProjects,
		"CanCreate":    entitlements.CanCreateProject(sub, int(activeCount)),
		"UpgradeHint":  entitlements.UpgradeMessage(entitlements.NormalizeTier(userCtx.Tier)),
		"ListingsOpen": models.GetAppSettings().IsListingEnabled(),
	})
}

// HandleProjectNew renders the listing creation form and processes its
// submission. Photos are uploaded alongside the form in one request; the
// submitter tolerates photo upload failure and creates the listing without
// attachments.
func HandleProjectNew(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	if !userCtx.IsDeveloper && !userCtx.IsAdmin {
		fm := fiber.Map{
			"type":    "error",
			"message": "Only developer accounts can create project listings",
		}
		return flash.WithError(c, fm).Redirect("/")
	}

	if !models.GetAppSettings().IsListingEnabled() {
		fm := fiber.Map{
			"type":    "error",
			"message": "Creating new listings is currently disabled",
		}
		return flash.WithError(c, fm).Redirect("/user/projects")
	}

	sub, _ := models.FindCurrentSubscription(database.GetDB(), userCtx.UserID)
	repo := repository.GetGlobalFactory().GetProjectRepository()
	activeCount, _ := repo.CountActiveByUserID(userCtx.UserID)

	if !entitlements.CanCreateProject(sub, int(activeCount)) {
		msg := entitlements.UpgradeMessage(entitlements.NormalizeTier(userCtx.Tier))
		if msg == "" {
			msg = "You have reached your project limit."
		}
		fm := fiber.Map{
			"type":    "error",
			"message": msg,
		}
		return flash.WithError(c, fm).Redirect("/user/projects")
	}

	if c.Method() == fiber.MethodPost {
		return handleProjectCreate(c, userCtx.UserID)
	}

	return renderPage(c, "project/new", "New project listing", fiber.Map{
		"CSRFToken":     c.Locals("csrf"),
		"PropertyTypes": []string{"residential", "commercial", "mixed_use", "land"},
	})
}

func handleProjectCreate(c *fiber.Ctx, userID uint) error {
	form := parseListingForm(c)
	files := collectUploadFiles(c)

	submitter := listing.NewSubmitter(
		newPhotoUploader(userID),
		newProjectCreator(userID),
	)

	ctx, cancel := context.WithTimeout(c.Context(), 60*time.Second)
	defer cancel()

	outcome := submitter.Submit(ctx, form, files)

	switch outcome.State {
	case listing.StateSucceeded:
		msg := "Your project has been submitted for review."
		if outcome.UploadDegraded {
			msg = "Your project has been submitted for review, but the photo upload failed. You can add photos later."
		}
		fm := fiber.Map{
			"type":    "success",
			"message": msg,
		}
		return flash.WithSuccess(c, fm).Redirect("/user/projects")

	case listing.StateValidationFailed:
		return renderPage(c, "project/new", "New project listing", fiber.Map{
			"CSRFToken":     c.Locals("csrf"),
			"PropertyTypes": []string{"residential", "commercial", "mixed_use", "land"},
			"FieldErrors":   outcome.FieldErrors,
			"Form":          form,
		})

	default:
		fm := fiber.Map{
			"type":    "error",
			"message": outcome.Message,
		}
		return flash.WithError(c, fm).Redirect("/user/projects/new")
	}
}

// HandleProjectWithdraw removes a listing and schedules the asynchronous
// cleanup of its photos, documents and notifications.
func HandleProjectWithdraw(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	uuid := c.Params("uuid")

	project, err := models.FindProjectByUUID(database.GetDB(), uuid)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Project not found",
		}
		return flash.WithError(c, fm).Redirect("/user/projects")
	}

	if project.UserID != userCtx.UserID && !userCtx.IsAdmin {
		fm := fiber.Map{
			"type":    "error",
			"message": "You are not allowed to withdraw this project",
		}
		return flash.WithError(c, fm).Redirect("/user/projects")
	}

	// Listings that already collected money only close, they are never torn down
	if project.RaisedAmountCents > 0 {
		if err := database.GetDB().Model(project).Update("status", models.ProjectStatusClosed).Error; err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}
			return flash.WithError(c, fm).Redirect("/user/projects")
		}
		fm := fiber.Map{
			"type":    "success",
			"message": "The project has been closed.",
		}
		return flash.WithSuccess(c, fm).Redirect("/user/projects")
	}

	initiatedBy := userCtx.UserID
	if _, err := jobqueue.GetManager().GetQueue().EnqueueProjectTeardown(project, &initiatedBy); err != nil {
		log.Errorf("[Projects] Enqueueing teardown for project %d failed: %v", project.ID, err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The project could not be withdrawn. Please try again.",
		}
		return flash.WithError(c, fm).Redirect("/user/projects")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "The project has been withdrawn and is being removed.",
	}
	return flash.WithSuccess(c, fm).Redirect("/user/projects")
}

// parseListingForm maps the POST body onto the listing form, including the
// repeatable narrative sections (highlights[], risk_factors[] etc.).
func parseListingForm(c *fiber.Ctx) *listing.Form {
	form := &listing.Form{
		Title:         strings.TrimSpace(c.FormValue("title")),
		Location:      strings.TrimSpace(c.FormValue("location")),
		PropertyType:  c.FormValue("property_type"),
		Description:   c.FormValue("description"),
		TargetAmount:  c.FormValue("target_amount"),
		MinInvestment: c.FormValue("min_investment"),
		MaxInvestment: c.FormValue("max_investment"),
		ExpectedROI:   c.FormValue("expected_roi"),
		TermMonths:    c.FormValue("term_months"),
	}

	if mf, err := c.MultipartForm(); err == nil {
		for _, v := range mf.Value["highlights[]"] {
			if v = strings.TrimSpace(v); v != "" {
				form.Highlights.Add(v)
			}
		}
		for _, v := range mf.Value["risk_factors[]"] {
			if v = strings.TrimSpace(v); v != "" {
				form.RiskFactors.Add(v)
			}
		}
		for _, v := range mf.Value["mitigations[]"] {
			if v = strings.TrimSpace(v); v != "" {
				form.MitigationStrategies.Add(v)
			}
		}

		titles := mf.Value["milestone_title[]"]
		dates := mf.Value["milestone_date[]"]
		for i, title := range titles {
			if title = strings.TrimSpace(title); title == "" {
				continue
			}
			date := ""
			if i < len(dates) {
				date = dates[i]
			}
			form.Timeline.Add(listing.Milestone{Title: title, TargetDate: date})
		}
	}

	return form
}

// collectUploadFiles gathers the pending photo uploads of the submission.
func collectUploadFiles(c *fiber.Ctx) []listing.UploadFile {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil
	}

	var files []listing.UploadFile
	for _, fh := range mf.File["photos[]"] {
		f, err := fh.Open()
		if err != nil {
			log.Warnf("[Projects] Opening uploaded photo %s failed: %v", fh.Filename, err)
			continue
		}
		files = append(files, listing.UploadFile{
			Name:   fh.Filename,
			Size:   fh.Size,
			Reader: f,
		})
	}
	return files
}

// projectCardMap builds the compact listing-grid representation of a project.
func projectCardMap(p *models.Project) fiber.Map {
	progress := 0.0
	if p.TargetAmountCents > 0 {
		progress = float64(p.RaisedAmountCents) / float64(p.TargetAmountCents) * 100
		if progress > 100 {
			progress = 100
		}
	}

	return fiber.Map{
		"UUID":            p.UUID,
		"ShareLink":       p.ShareLink,
		"Title":           p.Title,
		"Location":        p.Location,
		"PropertyType":    p.PropertyType,
		"CoverImagePath":  coverImagePath(p),
		"TargetAmount":    FormatCents(p.TargetAmountCents),
		"FundingProgress": progress,
		"ExpectedROI":     p.ExpectedROI,
		"TermMonths":      p.TermMonths,
		"Status":          p.Status,
		"Featured":        p.Featured,
	}
}

// coverImagePath returns the card thumbnail of the first processed photo.
func coverImagePath(p *models.Project) string {
	var img models.ProjectImage
	err := database.GetDB().Where("project_id = ?", p.ID).Order("created_at ASC").First(&img).Error
	if err != nil {
		return ""
	}
	if img.HasThumbnail {
		return "/" + mediaprocessor.GetPhotoPath(&img, "card")
	}
	return "/" + mediaprocessor.GetPhotoPath(&img, "original")
}

// buildProjectViewModel assembles the detail page view model including
// gallery, narrative sections and investor-visible documents.
func buildProjectViewModel(p *models.Project) viewmodel.Project {
	db := database.GetDB()
	domain := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")

	progress := 0.0
	if p.TargetAmountCents > 0 {
		progress = float64(p.RaisedAmountCents) / float64(p.TargetAmountCents) * 100
		if progress > 100 {
			progress = 100
		}
	}

	vm := viewmodel.Project{
		Domain:          domain,
		UUID:            p.UUID,
		Title:           p.Title,
		Location:        p.Location,
		PropertyType:    p.PropertyType,
		Description:     utils.ProcessHTMLContent(p.Description),
		ShareLink:       p.ShareLink,
		ShareURL:        fmt.Sprintf("%s/p/%s", domain, p.ShareLink),
		TargetAmount:    FormatCents(p.TargetAmountCents),
		RaisedAmount:    FormatCents(p.RaisedAmountCents),
		MinInvestment:   FormatCents(p.MinInvestmentCents),
		FundingProgress: progress,
		ExpectedROI:     p.ExpectedROI,
		TermMonths:      p.TermMonths,
		Status:          p.Status,
		Featured:        p.Featured,
		ViewCount:       int64(p.ViewCount),
	}
	if p.MaxInvestmentCents > 0 {
		vm.MaxInvestment = FormatCents(p.MaxInvestmentCents)
	}

	vm.Highlights = decodeStringList(p.HighlightsJSON)
	vm.RiskFactors = decodeStringList(p.RisksJSON)
	vm.Mitigations = decodeStringList(p.MitigationsJSON)

	var images []models.ProjectImage
	if err := db.Where("project_id = ?", p.ID).Order("created_at ASC").Find(&images).Error; err == nil {
		for i := range images {
			img := &images[i]
			if img.HasThumbnail {
				vm.ImagePaths = append(vm.ImagePaths, "/"+mediaprocessor.GetPhotoPath(img, "gallery"))
				vm.HasThumbnails = true
			} else {
				vm.ImagePaths = append(vm.ImagePaths, "/"+mediaprocessor.GetPhotoPath(img, "original"))
			}
		}
		if len(vm.ImagePaths) > 0 {
			vm.CoverImagePath = vm.ImagePaths[0]
		}
	}

	var developer models.User
	if err := db.First(&developer, p.UserID).Error; err == nil {
		vm.DeveloperName = developer.Name
		vm.DeveloperCompany = developer.CompanyName
	}

	if docs, err := models.FindPublicDocumentsByProject(db, p.ID); err == nil {
		for _, doc := range docs {
			vm.Documents = append(vm.Documents, viewmodel.ProjectDocument{
				UUID:     doc.UUID,
				Title:    doc.Title,
				Type:     doc.Type,
				FileName: doc.FileName,
				FileSize: FormatFileSize(doc.FileSize),
			})
		}
	}

	return vm
}

func decodeStringList(raw *models.JSON) []string {
	if raw == nil || len(*raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return nil
	}
	return out
}
