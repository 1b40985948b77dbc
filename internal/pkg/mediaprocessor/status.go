package mediaprocessor

import (
	"fmt"
	"time"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/cache"
	"github.com/immofund/ImmoFund/internal/pkg/database"
)

// Cache key format for photo processing status
const (
	PhotoStatusKeyFormat          = "photo:status:%s"           // Format: photo:status:<uuid>
	PhotoStatusTimestampKeyFormat = "photo:status:timestamp:%s" // Format: photo:status:timestamp:<uuid>
)

// Status constants for photo processing
const (
	STATUS_PENDING    = "pending"    // Photo is queued for processing
	STATUS_PROCESSING = "processing" // Photo is currently being processed
	STATUS_COMPLETED  = "completed"  // Photo processing is complete
	STATUS_FAILED     = "failed"     // Photo processing failed
)

// GetCacheImplementation allows tests to swap out the cache read
var GetCacheImplementation = cache.Get

// SetPhotoStatus sets the processing status of a photo in the cache
func SetPhotoStatus(photoUUID string, status string) error {
	key := fmt.Sprintf(PhotoStatusKeyFormat, photoUUID)
	SetPhotoStatusTimestamp(photoUUID, time.Now())
	return cache.Set(key, status, 24*time.Hour)
}

// SetPhotoStatusTimestamp sets the timestamp when the status was set
func SetPhotoStatusTimestamp(photoUUID string, timestamp time.Time) error {
	cacheKey := fmt.Sprintf(PhotoStatusTimestampKeyFormat, photoUUID)
	timestampStr := timestamp.Format(time.RFC3339)
	return cache.Set(cacheKey, timestampStr, 24*time.Hour)
}

// GetPhotoStatus retrieves the processing status of a photo from the cache
func GetPhotoStatus(photoUUID string) (string, error) {
	key := fmt.Sprintf(PhotoStatusKeyFormat, photoUUID)
	return GetCacheImplementation(key)
}

// GetPhotoStatusTimestamp gets the timestamp when the status was set
func GetPhotoStatusTimestamp(photoUUID string) (time.Time, error) {
	cacheKey := fmt.Sprintf(PhotoStatusTimestampKeyFormat, photoUUID)
	timestampStr, err := GetCacheImplementation(cacheKey)
	if err != nil {
		return time.Time{}, err
	}

	timestamp, err := time.Parse(time.RFC3339, timestampStr)
	if err != nil {
		return time.Time{}, err
	}

	return timestamp, nil
}

// IsPhotoProcessingFailed reports whether processing ended in failure
func IsPhotoProcessingFailed(photoUUID string) bool {
	if photoUUID == "" {
		return false
	}
	status, err := GetPhotoStatus(photoUUID)
	if err != nil {
		return false
	}
	return status == STATUS_FAILED
}

// IsPhotoProcessingComplete checks if photo processing is complete
func IsPhotoProcessingComplete(photoUUID string) bool {
	// First, we check the cache status
	status, err := GetPhotoStatus(photoUUID)
	if err == nil && status == STATUS_COMPLETED {
		return true
	}

	// If there is no cache status or it is not COMPLETED,
	// we check the database to see if the photo already has a thumbnail
	db := database.GetDB()
	image, err := models.FindProjectImageByUUID(db, photoUUID)
	if err != nil {
		// If we can't find the photo, we assume it hasn't been processed
		return false
	}

	// For old photos: no cached status and older than 5 minutes counts as
	// processed so the original is displayed.
	if status == "" && time.Since(image.CreatedAt) > 5*time.Minute {
		SetPhotoStatus(photoUUID, STATUS_COMPLETED)
		return true
	}

	if image.HasThumbnail {
		SetPhotoStatus(photoUUID, STATUS_COMPLETED)
		return true
	}

	// If the status is PENDING or PROCESSING, we check how long it has been
	// in this status and fall back to the original when it takes too long.
	if status == STATUS_PENDING || status == STATUS_PROCESSING {
		timestamp, err := GetPhotoStatusTimestamp(photoUUID)
		if err == nil {
			if time.Since(timestamp) > 60*time.Second {
				SetPhotoStatus(photoUUID, STATUS_COMPLETED)
				return true
			}
		}
	}

	return false
}
