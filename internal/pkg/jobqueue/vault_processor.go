package jobqueue

import (
	"context"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/log"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/docvault"
)

// processDocumentArchiveJob moves an uploaded document from local temp
// storage into the S3 vault and records the object key on the document row
func (q *Queue) processDocumentArchiveJob(ctx context.Context, job *Job) error {
	payload, err := DocumentArchiveJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid document archive payload: %w", err)
	}

	client, err := docvault.GetVault()
	if err != nil {
		return fmt.Errorf("vault unavailable: %w", err)
	}
	cfg, err := docvault.GetVaultConfig()
	if err != nil {
		return fmt.Errorf("vault config unavailable: %w", err)
	}

	file, err := os.Open(payload.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to open local document %s: %w", payload.LocalPath, err)
	}
	defer file.Close()

	size := payload.FileSize
	if size == 0 {
		if info, statErr := file.Stat(); statErr == nil {
			size = info.Size()
		}
	}

	objectKey := cfg.GetObjectKey(payload.ProjectUUID, payload.DocumentUUID, payload.FileName)
	result, err := client.Store(ctx, file, objectKey, size)
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", payload.DocumentUUID, err)
	}

	db := database.GetDB()
	updateErr := db.Model(&models.Document{}).
		Where("id = ?", payload.DocumentID).
		Updates(map[string]interface{}{
			"storage_key": result.ObjectKey,
			"file_size":   result.Size,
		}).Error
	if updateErr != nil {
		return fmt.Errorf("failed to record object key for document %d: %w", payload.DocumentID, updateErr)
	}

	// The vault copy is authoritative now, drop the local temp file.
	if err := os.Remove(payload.LocalPath); err != nil && !os.IsNotExist(err) {
		log.Warnf("[JobQueue] Failed to remove temp document %s: %v", payload.LocalPath, err)
	}

	log.Infof("[JobQueue] Archived document %s to %s", payload.DocumentUUID, result.ObjectKey)
	return nil
}

// processDocumentDeleteJob removes a document object from the S3 vault
func (q *Queue) processDocumentDeleteJob(ctx context.Context, job *Job) error {
	payload, err := DocumentDeleteJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid document delete payload: %w", err)
	}

	if payload.ObjectKey == "" {
		// Document never reached the vault, nothing to do.
		return nil
	}

	client, err := docvault.GetVault()
	if err != nil {
		return fmt.Errorf("vault unavailable: %w", err)
	}

	if err := client.Delete(ctx, payload.ObjectKey); err != nil {
		return fmt.Errorf("failed to delete vault object %s: %w", payload.ObjectKey, err)
	}

	log.Infof("[JobQueue] Deleted vault object %s for document %s", payload.ObjectKey, payload.DocumentUUID)
	return nil
}

// EnqueueDocumentArchive queues a freshly uploaded document for transfer
// into the S3 vault
func (q *Queue) EnqueueDocumentArchive(doc *models.Document, projectUUID, localPath string) (*Job, error) {
	payload := DocumentArchiveJobPayload{
		DocumentID:   doc.ID,
		DocumentUUID: doc.UUID,
		ProjectUUID:  projectUUID,
		LocalPath:    localPath,
		FileName:     doc.FileName,
		FileSize:     doc.FileSize,
	}
	return q.EnqueueJob(JobTypeDocumentArchive, payload.ToMap())
}

// EnqueueDocumentDelete queues removal of a document's vault object
func (q *Queue) EnqueueDocumentDelete(doc *models.Document) (*Job, error) {
	payload := DocumentDeleteJobPayload{
		DocumentID:   doc.ID,
		DocumentUUID: doc.UUID,
		ObjectKey:    doc.StorageKey,
	}
	return q.EnqueueJob(JobTypeDocumentDelete, payload.ToMap())
}
