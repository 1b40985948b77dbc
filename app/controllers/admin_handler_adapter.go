package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// Adapter functions so the router can reference the repository-backed
// admin controllers as plain package-level handlers.

// HandleAdminQueues - Adapter for the queue monitor page
func HandleAdminQueues(c *fiber.Ctx) error {
	return GetAdminQueueController().HandleAdminQueues(c)
}

// HandleAdminQueuesData - Adapter for the queue monitor auto-refresh endpoint
func HandleAdminQueuesData(c *fiber.Ctx) error {
	return GetAdminQueueController().HandleAdminQueuesData(c)
}

// HandleAdminQueueDelete - Adapter for deleting a single queue entry
func HandleAdminQueueDelete(c *fiber.Ctx) error {
	return GetAdminQueueController().HandleAdminQueueDelete(c)
}

// HandleAdminStorageManagement - Adapter for the storage pool overview
func HandleAdminStorageManagement(c *fiber.Ctx) error {
	return GetAdminStorageController().HandleAdminStorageManagement(c)
}

// HandleAdminStoragePoolEdit - Adapter for creating and editing storage pools
func HandleAdminStoragePoolEdit(c *fiber.Ctx) error {
	return GetAdminStorageController().HandleAdminStoragePoolEdit(c)
}

// HandleAdminStoragePoolDelete - Adapter for deleting a storage pool
func HandleAdminStoragePoolDelete(c *fiber.Ctx) error {
	return GetAdminStorageController().HandleAdminStoragePoolDelete(c)
}

// HandleAdminStoragePoolRecalculate - Adapter for recalculating pool usage
func HandleAdminStoragePoolRecalculate(c *fiber.Ctx) error {
	return GetAdminStorageController().HandleAdminStoragePoolRecalculate(c)
}

// HandleAdminStorageHealthCheck - Adapter for the storage health JSON endpoint
func HandleAdminStorageHealthCheck(c *fiber.Ctx) error {
	return GetAdminStorageController().HandleAdminStorageHealthCheck(c)
}
