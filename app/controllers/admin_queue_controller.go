package controllers

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sujit-baniya/flash"

	"github.com/immofund/ImmoFund/app/repository"
	"github.com/immofund/ImmoFund/internal/pkg/jobqueue"
	"github.com/immofund/ImmoFund/internal/pkg/mediaprocessor"
)

// ============================================================================
// ADMIN QUEUE CONTROLLER - Repository Pattern
// ============================================================================

// QueueItem is one row of the cache and queue monitor.
type QueueItem struct {
	Key       string
	Value     string
	Type      string
	TTL       time.Duration
	Size      int64
	CreatedAt time.Time
}

// AdminQueueController handles admin queue-related HTTP requests using repository pattern
type AdminQueueController struct {
	queueRepo repository.QueueRepository
}

// NewAdminQueueController creates a new admin queue controller with repository
func NewAdminQueueController(queueRepo repository.QueueRepository) *AdminQueueController {
	return &AdminQueueController{
		queueRepo: queueRepo,
	}
}

// handleError is a helper method for consistent error handling
func (aqc *AdminQueueController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/queues")
}

// HandleAdminQueues displays the cache and queue monitor page.
func (aqc *AdminQueueController) HandleAdminQueues(c *fiber.Ctx) error {
	queueItems, err := aqc.getQueueItems()
	if err != nil {
		queueItems = []QueueItem{}
	}

	return renderPage(c, "admin/queues", "Cache & queue monitor", fiber.Map{
		"QueueItems":  queueItems,
		"RefreshedAt": time.Now().Format("15:04:05"),
		"CSRFToken":   c.Locals("csrf"),
	})
}

// HandleAdminQueuesData returns the queue items as JSON for the auto-refresh
// widget.
func (aqc *AdminQueueController) HandleAdminQueuesData(c *fiber.Ctx) error {
	queueItems, err := aqc.getQueueItems()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Fetching queue data failed: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"items":        queueItems,
		"refreshed_at": time.Now(),
	})
}

// HandleAdminQueueDelete deletes a specific cache entry using repository pattern
func (aqc *AdminQueueController) HandleAdminQueueDelete(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Key is required")
	}

	result, err := aqc.queueRepo.DeleteKey(key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("Deletion failed: %v", err))
	}

	if result == 0 {
		return c.Status(fiber.StatusNotFound).SendString("Entry not found")
	}

	// Return empty content to remove the table row
	return c.SendString("")
}

// getQueueItems retrieves all items from the cache with their metadata.
func (aqc *AdminQueueController) getQueueItems() ([]QueueItem, error) {
	keys, err := aqc.queueRepo.GetAllKeys()
	if err != nil {
		return nil, fmt.Errorf("fetching cache keys failed: %v", err)
	}

	queueItems := make([]QueueItem, 0, len(keys))

	for _, key := range keys {
		value, err := aqc.queueRepo.GetValue(key)
		if err != nil && err != redis.Nil {
			// Skip this key if there's an error other than key not found
			continue
		}

		ttl, err := aqc.queueRepo.GetTTL(key)
		if err != nil {
			ttl = -1
		}

		// Determine type based on key prefix
		itemType := "unknown"
		displayValue := value

		if strings.HasPrefix(key, "photo:status:") {
			itemType = "photo_status"
			uuid := strings.TrimPrefix(key, "photo:status:")
			switch value {
			case mediaprocessor.STATUS_PENDING:
				displayValue = "Pending"
			case mediaprocessor.STATUS_PROCESSING:
				displayValue = "Processing"
			case mediaprocessor.STATUS_COMPLETED:
				displayValue = "Completed"
			case mediaprocessor.STATUS_FAILED:
				displayValue = "Failed"
			}
			displayValue = fmt.Sprintf("%s (UUID: %s)", displayValue, uuid)
		} else if strings.HasPrefix(key, jobqueue.JobKeyPrefix) {
			itemType = "job"
			jobID := strings.TrimPrefix(key, jobqueue.JobKeyPrefix)
			displayValue = fmt.Sprintf("Job %s: %s", jobID, aqc.getJobStatusFromValue(value))
		} else if key == jobqueue.JobQueueKey {
			itemType = "job_queue"
			queueSize, _ := aqc.queueRepo.GetListLength(key)
			displayValue = fmt.Sprintf("Queue (%d jobs)", queueSize)
		} else if key == jobqueue.JobProcessingKey {
			itemType = "job_processing"
			processingSize, _ := aqc.queueRepo.GetListLength(key)
			displayValue = fmt.Sprintf("Processing (%d jobs)", processingSize)
		} else if key == jobqueue.JobStatsKey {
			itemType = "job_stats"
			displayValue = "Job statistics"
		} else if strings.HasPrefix(key, "statistics:") {
			itemType = "statistics"
		} else if strings.HasPrefix(key, "project:counters:") || strings.HasPrefix(key, "document:counters:") {
			itemType = "counter"
		} else if strings.HasPrefix(key, "storage_health:") {
			itemType = "storage_health"
		} else if strings.HasPrefix(key, "session:") {
			itemType = "session"
		}

		// Approximate memory usage from the value only
		size := int64(len(value))

		// Redis does not store creation times, estimate from the remaining TTL
		createdAt := time.Now()
		if ttl > 0 {
			maxTTL := 24 * time.Hour
			estimatedAge := maxTTL - ttl
			if estimatedAge > 0 && estimatedAge < maxTTL {
				createdAt = time.Now().Add(-estimatedAge)
			}
		}

		queueItems = append(queueItems, QueueItem{
			Key:       key,
			Value:     displayValue,
			Type:      itemType,
			TTL:       ttl,
			Size:      size,
			CreatedAt: createdAt,
		})
	}

	// Sort by type and then by creation time (newest first)
	sort.Slice(queueItems, func(i, j int) bool {
		if queueItems[i].Type != queueItems[j].Type {
			return queueItems[i].Type < queueItems[j].Type
		}
		return queueItems[i].CreatedAt.After(queueItems[j].CreatedAt)
	})

	return queueItems, nil
}

// getJobStatusFromValue extracts job status from JSON job data
func (aqc *AdminQueueController) getJobStatusFromValue(jsonValue string) string {
	// Simple extraction without full JSON parsing for performance
	if strings.Contains(jsonValue, `"status":"pending"`) {
		return "Pending"
	} else if strings.Contains(jsonValue, `"status":"processing"`) {
		return "Processing"
	} else if strings.Contains(jsonValue, `"status":"completed"`) {
		return "Completed"
	} else if strings.Contains(jsonValue, `"status":"failed"`) {
		return "Failed"
	} else if strings.Contains(jsonValue, `"status":"retrying"`) {
		return "Retrying"
	}
	return "Unknown"
}

// ============================================================================
// GLOBAL ADMIN QUEUE CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminQueueController *AdminQueueController

// InitializeAdminQueueController initializes the global admin queue controller
func InitializeAdminQueueController() {
	queueRepo := repository.GetGlobalFactory().GetQueueRepository()
	adminQueueController = NewAdminQueueController(queueRepo)
}

// GetAdminQueueController returns the global admin queue controller instance
func GetAdminQueueController() *AdminQueueController {
	if adminQueueController == nil {
		InitializeAdminQueueController()
	}
	return adminQueueController
}
