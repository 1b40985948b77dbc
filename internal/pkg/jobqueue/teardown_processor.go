package jobqueue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/docvault"
	"github.com/immofund/ImmoFund/internal/pkg/mediaprocessor"
)

// processProjectTeardownJob deletes a withdrawn or rejected project together
// with its photos, generated thumbnails and vault documents. File removal
// errors are logged but do not fail the job, the database rows win.
func (q *Queue) processProjectTeardownJob(ctx context.Context, job *Job) error {
	payload, err := ProjectTeardownJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid project teardown payload: %w", err)
	}

	db := database.GetDB()

	var images []models.ProjectImage
	if err := db.Where("project_id = ?", payload.ProjectID).Find(&images).Error; err != nil {
		return fmt.Errorf("failed to load photos for project %d: %w", payload.ProjectID, err)
	}

	for i := range images {
		img := &images[i]
		removePhotoFiles(img)

		if img.StoragePoolID != 0 && img.FileSize > 0 {
			if pool, poolErr := models.FindStoragePoolByID(db, img.StoragePoolID); poolErr == nil {
				if usageErr := pool.UpdateUsedSize(db, -img.FileSize); usageErr != nil {
					log.Warnf("[JobQueue] Failed to release pool usage for photo %s: %v", img.UUID, usageErr)
				}
			}
		}

		if err := db.Unscoped().Delete(img).Error; err != nil {
			return fmt.Errorf("failed to delete photo %s: %w", img.UUID, err)
		}
	}

	var documents []models.Document
	if err := db.Where("project_id = ?", payload.ProjectID).Find(&documents).Error; err != nil {
		return fmt.Errorf("failed to load documents for project %d: %w", payload.ProjectID, err)
	}

	if len(documents) > 0 {
		client, vaultErr := docvault.GetVault()
		for i := range documents {
			doc := &documents[i]
			if doc.StorageKey != "" {
				if vaultErr != nil {
					return fmt.Errorf("vault unavailable while tearing down project %d: %w", payload.ProjectID, vaultErr)
				}
				if err := client.Delete(ctx, doc.StorageKey); err != nil {
					return fmt.Errorf("failed to delete vault object %s: %w", doc.StorageKey, err)
				}
			}
			if err := db.Unscoped().Delete(doc).Error; err != nil {
				return fmt.Errorf("failed to delete document %s: %w", doc.UUID, err)
			}
		}
	}

	err = db.Where("reference_id = ? AND type IN ?", payload.ProjectID,
		[]string{models.NotificationTypeInvestment, models.NotificationTypeFunding}).
		Delete(&models.Notification{}).Error
	if err != nil {
		log.Warnf("[JobQueue] Failed to delete notifications for project %d: %v", payload.ProjectID, err)
	}

	if err := db.Unscoped().Delete(&models.Project{}, payload.ProjectID).Error; err != nil {
		return fmt.Errorf("failed to delete project %d: %w", payload.ProjectID, err)
	}

	log.Infof("[JobQueue] Tore down project %s (%d photos, %d documents)",
		payload.ProjectUUID, len(images), len(documents))
	return nil
}

// removePhotoFiles deletes the original photo and its thumbnails from disk
func removePhotoFiles(img *models.ProjectImage) {
	paths := []string{
		filepath.Join(img.FilePath, img.FileName),
	}
	if img.HasThumbnail {
		paths = append(paths,
			mediaprocessor.GetPhotoPath(img, "card"),
			mediaprocessor.GetPhotoPath(img, "gallery"),
		)
	}

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warnf("[JobQueue] Failed to remove photo file %s: %v", p, err)
		}
	}
}

// EnqueueProjectTeardown queues asynchronous deletion of a project and all
// of its stored files
func (q *Queue) EnqueueProjectTeardown(project *models.Project, initiatedByID *uint) (*Job, error) {
	payload := ProjectTeardownJobPayload{
		ProjectID:     project.ID,
		ProjectUUID:   project.UUID,
		InitiatedByID: initiatedByID,
	}
	return q.EnqueueJob(JobTypeProjectTeardown, payload.ToMap())
}
