package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/app/repository"
)

// ============================================================================
// ADMIN STORAGE CONTROLLER - Repository Pattern
// ============================================================================

// AdminStorageController handles admin storage-related HTTP requests using repository pattern
type AdminStorageController struct {
	storagePoolRepo repository.StoragePoolRepository
}

// NewAdminStorageController creates a new admin storage controller with repository
func NewAdminStorageController(storagePoolRepo repository.StoragePoolRepository) *AdminStorageController {
	return &AdminStorageController{
		storagePoolRepo: storagePoolRepo,
	}
}

// handleError is a helper method for consistent error handling
func (asc *AdminStorageController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/storage")
}

// HandleAdminStorageManagement renders the media pool dashboard.
func (asc *AdminStorageController) HandleAdminStorageManagement(c *fiber.Ctx) error {
	poolStats, err := asc.storagePoolRepo.GetAllStats()
	if err != nil {
		flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Loading pool statistics failed: " + err.Error(),
		})
		poolStats = []models.StoragePoolStats{}
	}

	healthStatus, err := asc.storagePoolRepo.GetHealthStatus()
	if err != nil {
		flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Pool health check failed: " + err.Error(),
		})
		healthStatus = make(map[uint]bool)
	}

	pools, err := asc.storagePoolRepo.GetAll()
	if err != nil {
		flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Loading pools failed: " + err.Error(),
		})
		pools = []models.StoragePool{}
	}

	totalUsedSize := int64(0)
	totalMaxSize := int64(0)
	totalImageCount := int64(0)
	healthyPoolsCount := 0

	for _, stats := range poolStats {
		totalUsedSize += stats.UsedSize
		totalMaxSize += stats.MaxSize
		totalImageCount += stats.ImageCount

		if healthy, exists := healthStatus[stats.ID]; exists && healthy {
			healthyPoolsCount++
		}
	}

	totalUsagePercentage := float64(0)
	if totalMaxSize > 0 {
		totalUsagePercentage = (float64(totalUsedSize) / float64(totalMaxSize)) * 100
	}

	return renderPage(c, "admin/storage", "Media pools", fiber.Map{
		"PoolStats":            poolStats,
		"HealthStatus":         healthStatus,
		"Pools":                pools,
		"TotalUsedSize":        FormatFileSize(totalUsedSize),
		"TotalMaxSize":         FormatFileSize(totalMaxSize),
		"TotalUsagePercentage": totalUsagePercentage,
		"TotalImageCount":      totalImageCount,
		"TotalPoolsCount":      len(pools),
		"HealthyPoolsCount":    healthyPoolsCount,
		"CSRFToken":            c.Locals("csrf"),
	})
}

// HandleAdminStoragePoolEdit renders the pool form for creation or editing
// and applies submitted changes.
func (asc *AdminStorageController) HandleAdminStoragePoolEdit(c *fiber.Ctx) error {
	idParam := c.Params("id")

	var pool *models.StoragePool
	if idParam != "" && idParam != "new" {
		id, err := strconv.ParseUint(idParam, 10, 32)
		if err != nil {
			return asc.handleError(c, "Invalid pool ID", err)
		}
		pool, err = asc.storagePoolRepo.GetByID(uint(id))
		if err != nil {
			return asc.handleError(c, "Pool not found", err)
		}
	} else {
		pool = &models.StoragePool{IsActive: true, Priority: 100, StorageType: "local"}
	}

	if c.Method() == fiber.MethodPost {
		pool.Name = strings.TrimSpace(c.FormValue("name"))
		pool.BasePath = strings.TrimSpace(c.FormValue("base_path"))
		pool.Description = c.FormValue("description")
		pool.IsActive = c.FormValue("is_active") == "on"
		pool.IsDefault = c.FormValue("is_default") == "on"

		if v, err := strconv.ParseInt(c.FormValue("max_size"), 10, 64); err == nil {
			pool.MaxSize = v
		}
		if v, err := strconv.Atoi(c.FormValue("priority")); err == nil {
			pool.Priority = v
		}

		var err error
		if pool.ID == 0 {
			err = asc.storagePoolRepo.Create(pool)
		} else {
			err = asc.storagePoolRepo.Update(pool)
		}
		if err != nil {
			return asc.handleError(c, "Saving pool failed", err)
		}

		fm := fiber.Map{
			"type":    "success",
			"message": "The media pool has been saved.",
		}
		return flash.WithSuccess(c, fm).Redirect("/admin/storage")
	}

	return renderPage(c, "admin/storage_edit", "Edit media pool", fiber.Map{
		"Pool":      pool,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminStoragePoolDelete removes an empty pool.
func (asc *AdminStorageController) HandleAdminStoragePoolDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return asc.handleError(c, "Invalid pool ID", err)
	}

	count, err := asc.storagePoolRepo.CountImagesInPool(uint(id))
	if err != nil {
		return asc.handleError(c, "Checking pool contents failed", err)
	}
	if count > 0 {
		fm := fiber.Map{
			"type":    "error",
			"message": "The pool still contains photos and cannot be deleted.",
		}
		return flash.WithError(c, fm).Redirect("/admin/storage")
	}

	if err := asc.storagePoolRepo.Delete(uint(id)); err != nil {
		return asc.handleError(c, "Deleting pool failed", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "The media pool has been deleted.",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/storage")
}

// HandleAdminStoragePoolRecalculate recalculates the actual usage of a pool
// from the photos it holds.
func (asc *AdminStorageController) HandleAdminStoragePoolRecalculate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return asc.handleError(c, "Invalid pool ID", err)
	}

	totalSize, err := asc.storagePoolRepo.RecalculatePoolUsage(uint(id))
	if err != nil {
		return asc.handleError(c, "Recalculating pool usage failed", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Pool usage recalculated: " + FormatFileSize(totalSize),
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/storage")
}

// HandleAdminStorageHealthCheck runs a health probe on one pool and reports
// the result as JSON for the dashboard widget.
func (asc *AdminStorageController) HandleAdminStorageHealthCheck(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid pool id"})
	}

	healthy, err := asc.storagePoolRepo.IsPoolHealthy(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "pool not found"})
	}

	return c.JSON(fiber.Map{"pool_id": id, "healthy": healthy})
}

// ============================================================================
// GLOBAL CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminStorageController *AdminStorageController

// InitializeAdminStorageController initializes the global admin storage controller
func InitializeAdminStorageController(repos *repository.Repositories) {
	adminStorageController = NewAdminStorageController(repos.StoragePool)
}

// GetAdminStorageController returns the global admin storage controller instance
func GetAdminStorageController() *AdminStorageController {
	if adminStorageController == nil {
		InitializeAdminStorageController(repository.GetGlobalRepositories())
	}
	return adminStorageController
}
