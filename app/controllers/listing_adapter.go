package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/constants"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/listing"
	"github.com/immofund/ImmoFund/internal/pkg/mediaprocessor"
	"github.com/immofund/ImmoFund/internal/pkg/storage"
	"github.com/immofund/ImmoFund/internal/pkg/upload"
)

// photoUploader stores listing photos in the media pools and registers them
// for asynchronous thumbnail generation. It implements listing.AssetUploader;
// the returned references are the photo UUIDs, which the project creator
// claims after the listing row exists.
type photoUploader struct {
	userID uint
}

func newPhotoUploader(userID uint) *photoUploader {
	return &photoUploader{userID: userID}
}

func (u *photoUploader) Upload(ctx context.Context, files []listing.UploadFile) (*listing.UploadResult, error) {
	refs := make([]string, 0, len(files))

	sm := storage.NewStorageManager()

	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		ref, err := u.storePhoto(sm, file)
		if err != nil {
			log.Warnf("[Listing] Storing photo %s failed: %v", file.Name, err)
			continue
		}
		refs = append(refs, ref)
	}

	if len(files) > 0 && len(refs) == 0 {
		return &listing.UploadResult{
			Success: false,
			Message: "None of the uploaded photos could be stored",
		}, nil
	}

	return &listing.UploadResult{Success: true, Data: refs}, nil
}

func (u *photoUploader) storePhoto(sm *storage.StorageManager, file listing.UploadFile) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file.Reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	head = head[:n]

	if _, err := upload.ValidateImageBySniff(file.Name, head); err != nil {
		return "", err
	}

	pool, err := sm.SelectPoolForFile(file.Size)
	if err != nil {
		return "", err
	}

	photoUUID := uuid.New().String()
	ext := filepath.Ext(file.Name)
	now := time.Now()
	relativeDir := filepath.Join(constants.UploadsPath, "original", now.Format("2006/01"))
	fileName := photoUUID + ext

	reader := io.MultiReader(bytes.NewReader(head), file.Reader)
	op, err := sm.SaveFile(reader, filepath.Join(relativeDir, fileName), pool.ID)
	if err != nil {
		return "", err
	}

	image := &models.ProjectImage{
		UUID:          photoUUID,
		UserID:        u.userID,
		StoragePoolID: pool.ID,
		FileName:      fileName,
		FilePath:      relativeDir,
		FileSize:      file.Size,
		FileType:      ext,
	}
	if err := database.GetDB().Create(image).Error; err != nil {
		sm.DeleteFile(filepath.Join(relativeDir, fileName), pool.ID)
		return "", err
	}

	mediaprocessor.GetProcessor().EnqueuePhoto(image, op.FilePath)

	return photoUUID, nil
}

// projectCreator persists the merged listing payload as a pending project and
// claims the previously uploaded photos. It implements listing.ResourceCreator.
type projectCreator struct {
	userID uint
}

func newProjectCreator(userID uint) *projectCreator {
	return &projectCreator{userID: userID}
}

func (pc *projectCreator) Create(ctx context.Context, payload map[string]interface{}) (*listing.CreateResult, error) {
	project := &models.Project{
		UserID:       pc.userID,
		Title:        stringField(payload, "title"),
		Location:     stringField(payload, "location"),
		PropertyType: stringField(payload, "property_type"),
		Description:  stringField(payload, "description"),
		Status:       models.ProjectStatusPending,
	}

	if v, ok := payload["target_amount_cents"].(int64); ok {
		project.TargetAmountCents = v
	}
	if v, ok := payload["min_investment_cents"].(int64); ok {
		project.MinInvestmentCents = v
	}
	if v, ok := payload["max_investment_cents"].(int64); ok {
		project.MaxInvestmentCents = v
	}
	if v, ok := payload["expected_roi"].(float64); ok {
		project.ExpectedROI = v
	}
	if v, ok := payload["term_months"].(int); ok {
		project.TermMonths = v
	}

	project.ImagesJSON = encodeJSONField(payload["images"])
	project.HighlightsJSON = encodeJSONField(payload["highlights"])
	project.RisksJSON = encodeJSONField(payload["risk_factors"])
	project.MitigationsJSON = encodeJSONField(payload["mitigations"])
	project.TimelineJSON = encodeJSONField(payload["timeline"])

	db := database.GetDB().WithContext(ctx)
	if err := db.Create(project).Error; err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	if refs, ok := payload["images"].([]string); ok && len(refs) > 0 {
		if err := db.Model(&models.ProjectImage{}).
			Where("uuid IN ? AND user_id = ? AND project_id = 0", refs, pc.userID).
			Update("project_id", project.ID).Error; err != nil {
			log.Errorf("[Listing] Claiming photos for project %d failed: %v", project.ID, err)
		}
	}

	success := true
	return &listing.CreateResult{
		Success: &success,
		Data: map[string]interface{}{
			"id":         project.ID,
			"uuid":       project.UUID,
			"share_link": project.ShareLink,
			"status":     project.Status,
		},
	}, nil
}

func stringField(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func encodeJSONField(v interface{}) *models.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	j := models.JSON(raw)
	return &j
}
